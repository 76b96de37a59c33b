package handlers

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

// indexFile is the entry document served at /.
const indexFile = "index.html"

// StaticHandler serves the browser front end.
type StaticHandler struct {
	assets fs.FS
	index  []byte
}

// NewStaticHandler creates a handler over assets, which must contain
// index.html at its root.
func NewStaticHandler(assets fs.FS) (*StaticHandler, error) {
	index, err := fs.ReadFile(assets, indexFile)
	if err != nil {
		return nil, fmt.Errorf("reading front-end entry document: %w", err)
	}

	return &StaticHandler{assets: assets, index: index}, nil
}

// Index handles GET /.
func (h *StaticHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.index)
}

// RegisterStaticRoutes registers / and the /static/ asset tree.
func (h *StaticHandler) RegisterStaticRoutes(engine *gin.Engine) {
	engine.GET("/", h.Index)
	engine.StaticFS("/static", http.FS(h.assets))
}

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/function-visualizer/web"
)

func TestNewStaticHandler_RequiresIndex(t *testing.T) {
	_, err := NewStaticHandler(fstest.MapFS{"script.js": {Data: []byte("")}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index.html")
}

func TestStaticHandler_Routes(t *testing.T) {
	assets := fstest.MapFS{
		"index.html": {Data: []byte("<html>plot</html>")},
		"script.js":  {Data: []byte("console.log('plot');")},
	}
	handler, err := NewStaticHandler(assets)
	require.NoError(t, err)

	router := gin.New()
	handler.RegisterStaticRoutes(router)

	tests := []struct {
		path        string
		status      int
		contentType string
		body        string
	}{
		{path: "/", status: http.StatusOK, contentType: "text/html", body: "<html>plot</html>"},
		{path: "/static/script.js", status: http.StatusOK, contentType: "javascript", body: "console.log('plot');"},
		{path: "/static/missing.css", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestStaticHandler_EmbeddedFrontEnd(t *testing.T) {
	handler, err := NewStaticHandler(web.Static())
	require.NoError(t, err)

	router := gin.New()
	handler.RegisterStaticRoutes(router)

	for _, path := range []string{"/", "/static/script.js", "/static/style.css"} {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.NotEmpty(t, w.Body.String())
		})
	}
}

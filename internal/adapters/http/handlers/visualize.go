package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/function-visualizer/internal/adapters/http/dto"
	"github.com/jsamuelsen/function-visualizer/internal/ports"
)

// VisualizeHandler serves the plotting endpoints.
type VisualizeHandler struct {
	visualizer ports.Visualizer
	charts     ports.ChartRenderer
}

// NewVisualizeHandler creates a visualize handler. charts may be nil, in
// which case the chart endpoint is not registered.
func NewVisualizeHandler(visualizer ports.Visualizer, charts ports.ChartRenderer) *VisualizeHandler {
	return &VisualizeHandler{
		visualizer: visualizer,
		charts:     charts,
	}
}

// Visualize handles POST /visualize.
// Returns the sampled points and the equation label of the requested plot.
//
// @Summary Plot a function, its derivative or its integral
// @Accept json
// @Produce json
// @Param request body dto.VisualizeRequest true "Expression and transform"
// @Success 200 {object} dto.VisualizeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /visualize [post]
func (h *VisualizeHandler) Visualize(c *gin.Context) {
	var req dto.VisualizeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	v, err := h.visualizer.Visualize(c.Request.Context(), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewVisualizeResponse(v))
}

// Chart handles POST /visualize/chart.
// Takes the same body as Visualize and answers with the plot drawn as PNG.
// The optional width, height and title query parameters size the image.
//
// @Summary Render a plot as PNG
// @Accept json
// @Produce image/png
// @Param request body dto.VisualizeRequest true "Expression and transform"
// @Param width query int false "Image width in pixels"
// @Param height query int false "Image height in pixels"
// @Param title query string false "Chart title, defaults to the equation"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Router /visualize/chart [post]
func (h *VisualizeHandler) Chart(c *gin.Context) {
	var query dto.ChartQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	var req dto.VisualizeRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	ctx := c.Request.Context()

	v, err := h.visualizer.Visualize(ctx, req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	png, err := h.charts.RenderPNG(ctx, v, query.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// RegisterVisualizeRoutes registers the plotting routes on rg.
func (h *VisualizeHandler) RegisterVisualizeRoutes(rg gin.IRoutes) {
	rg.POST("/visualize", h.Visualize)
	if h.charts != nil {
		rg.POST("/visualize/chart", h.Chart)
	}
}

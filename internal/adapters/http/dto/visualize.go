package dto

import "github.com/jsamuelsen/function-visualizer/internal/domain"

// VisualizeRequest is the body of POST /visualize and POST /visualize/chart.
type VisualizeRequest struct {
	// Function is the expression text in the variable x.
	Function string `json:"function" validate:"required,notblank"`

	// Type selects the transform: "function", "derivative" or "integral".
	// Any other value plots the function itself.
	Type string `json:"type"`
}

// ToDomain converts the request to its domain form.
func (r *VisualizeRequest) ToDomain() domain.VisualizeRequest {
	return domain.VisualizeRequest{
		Function:  r.Function,
		Transform: domain.ParseTransform(r.Type),
	}
}

// VisualizeResponse is the body of a successful POST /visualize.
type VisualizeResponse struct {
	XValues  []float64 `json:"x_values"`
	YValues  []float64 `json:"y_values"`
	Equation string    `json:"equation"`
}

// NewVisualizeResponse converts a visualization to its wire form. The value
// slices are never nil so they encode as arrays.
func NewVisualizeResponse(v *domain.Visualization) *VisualizeResponse {
	resp := &VisualizeResponse{
		XValues:  v.XValues,
		YValues:  v.YValues,
		Equation: v.Equation,
	}
	if resp.XValues == nil {
		resp.XValues = []float64{}
	}
	if resp.YValues == nil {
		resp.YValues = []float64{}
	}

	return resp
}

// ChartQuery holds the optional query parameters of POST /visualize/chart.
// Zero values fall back to the configured chart defaults.
type ChartQuery struct {
	Width  int    `json:"width" form:"width" validate:"omitempty,min=100,max=4096"`
	Height int    `json:"height" form:"height" validate:"omitempty,min=100,max=4096"`
	Title  string `json:"title" form:"title" validate:"max=200"`
}

// ToDomain converts the query to chart options.
func (q *ChartQuery) ToDomain() domain.ChartOptions {
	return domain.ChartOptions{Title: q.Title, Width: q.Width, Height: q.Height}
}

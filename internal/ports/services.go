// Package ports defines the contracts between the HTTP adapters and the
// application layer.
//
// Port rules:
//   - Context is always the first parameter
//   - Arguments and results are domain types
//   - Failures are domain errors (ErrParse, ErrEvaluation, ...)
package ports

import (
	"context"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
)

// Visualizer runs the expression pipeline for one request.
type Visualizer interface {
	// Visualize parses, transforms, renders and samples req.Function.
	// Returns domain.ParseError, domain.EvaluationSetupError or
	// domain.EvaluationError for user-caused failures.
	Visualize(ctx context.Context, req domain.VisualizeRequest) (*domain.Visualization, error)
}

// ChartRenderer draws a visualization as an image.
type ChartRenderer interface {
	// RenderPNG returns PNG bytes. Returns domain.ValidationError when the
	// visualization has too few points to draw.
	RenderPNG(ctx context.Context, v *domain.Visualization, opts domain.ChartOptions) ([]byte, error)
}

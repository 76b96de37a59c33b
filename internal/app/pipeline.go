package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
	"github.com/jsamuelsen/function-visualizer/internal/symbolic"
)

// computed is the output of the perform step: the label-ready rendering and
// the raw, unfiltered samples.
type computed struct {
	latex   string
	samples domain.SampleSet
}

// normalize rewrites caret exponentiation. The substitution is blind: every
// '^' becomes '**', including any that were meant as something else.
func normalize(function string) string {
	return strings.ReplaceAll(function, "^", "**")
}

// applyTransform returns the expression to plot for t.
func applyTransform(e symbolic.Expr, t domain.Transform) symbolic.Expr {
	switch t {
	case domain.TransformDerivative:
		return symbolic.Diff(e, domain.Variable)
	case domain.TransformIntegral:
		return symbolic.Antiderivative(e, domain.Variable)
	}
	return e
}

// compute runs parse → transform → render → compile → evaluate for one
// request. Context errors are returned unchanged.
func compute(ctx context.Context, req domain.VisualizeRequest, grid []float64) (*computed, error) {
	logger := logging.FromContext(ctx)
	source := normalize(req.Function)

	expr, err := symbolic.Parse(source)
	if err != nil {
		return nil, domain.NewParseError(source, err.Error())
	}
	logger.Log(ctx, logging.LevelTrace, "parsed expression", slog.String("expr", expr.String()))

	transformed := applyTransform(expr, req.Transform)
	latex := symbolic.LaTeX(transformed)
	logger.Log(ctx, logging.LevelTrace, "transformed expression",
		slog.String("transform", string(req.Transform)),
		slog.String("expr", transformed.String()),
		slog.String("latex", latex),
	)

	evaluator, err := symbolic.Compile(transformed, domain.Variable)
	if err != nil {
		return nil, domain.NewEvaluationSetupError(err.Error())
	}

	ys, err := evaluator.EvalSlice(ctx, grid)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, domain.NewEvaluationError(err.Error())
	}
	logger.Log(ctx, logging.LevelTrace, "evaluated samples", slog.Int("points", len(ys)))

	return &computed{latex: latex, samples: domain.SampleSet{X: grid, Y: ys}}, nil
}

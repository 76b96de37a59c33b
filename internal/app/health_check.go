package app

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/ports"
)

// PipelineCheckName is the readiness check name of the expression pipeline.
const PipelineCheckName = "expression-pipeline"

// canary is differentiated on every readiness check; sin has a derivative of
// cosine, which stays finite and in range over any window.
var canary = domain.VisualizeRequest{Function: "sin(x)", Transform: domain.TransformDerivative}

// canaryTolerance bounds the difference between a sampled value and cos(x).
const canaryTolerance = 1e-9

// PipelineHealthCheck reports whether the pipeline can compute a known plot.
type PipelineHealthCheck struct {
	visualizer ports.Visualizer
}

var _ ports.HealthChecker = (*PipelineHealthCheck)(nil)

// NewPipelineHealthCheck wraps v as a readiness check.
func NewPipelineHealthCheck(v ports.Visualizer) *PipelineHealthCheck {
	return &PipelineHealthCheck{visualizer: v}
}

// Name implements ports.HealthChecker.
func (c *PipelineHealthCheck) Name() string { return PipelineCheckName }

// Check runs the canary and expects a derivative label and samples that
// follow cos(x). The rendered body of the label is not compared, so changes
// to LaTeX formatting do not fail readiness.
func (c *PipelineHealthCheck) Check(ctx context.Context) error {
	v, err := c.visualizer.Visualize(ctx, canary)
	if err != nil {
		return domain.NewUnavailableError(PipelineCheckName, err.Error())
	}
	if len(v.XValues) == 0 || len(v.XValues) != len(v.YValues) {
		return domain.NewUnavailableError(PipelineCheckName, "canary returned no points")
	}
	if prefix := canary.Transform.Equation(""); !strings.HasPrefix(v.Equation, prefix) {
		return domain.NewUnavailableError(PipelineCheckName, fmt.Sprintf("unexpected canary equation %q", v.Equation))
	}
	for i, x := range v.XValues {
		if want := math.Cos(x); math.Abs(v.YValues[i]-want) > canaryTolerance {
			return domain.NewUnavailableError(PipelineCheckName,
				fmt.Sprintf("canary value at x=%g is %g, want %g", x, v.YValues[i], want))
		}
	}
	return nil
}

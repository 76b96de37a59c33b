// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
	"github.com/jsamuelsen/function-visualizer/internal/platform/logging"
	"github.com/jsamuelsen/function-visualizer/internal/platform/telemetry"
)

// VisualizeService runs the expression pipeline. It holds no per-request
// state and is safe for concurrent use.
type VisualizeService struct {
	sampling domain.Sampling
	grid     []float64
	executor *Executor
	metrics  *Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

// VisualizeServiceConfig contains the dependencies of the visualize service.
type VisualizeServiceConfig struct {
	// Sampling defaults to domain.DefaultSampling when zero.
	Sampling domain.Sampling
	Metrics  *Metrics
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

// NewVisualizeService creates a visualize service. It panics on a sampling
// window that cannot produce a plot.
func NewVisualizeService(cfg VisualizeServiceConfig) *VisualizeService {
	sampling := cfg.Sampling
	if sampling == (domain.Sampling{}) {
		sampling = domain.DefaultSampling()
	}
	if sampling.Points < 2 || !(sampling.XMax > sampling.XMin) || !(sampling.YLimit > 0) {
		panic("app: invalid sampling window")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.VisualizeService"))

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer()
	}

	return &VisualizeService{
		sampling: sampling,
		grid:     sampling.Grid(),
		executor: NewExecutor(logger),
		metrics:  cfg.Metrics,
		tracer:   tracer,
		logger:   logger,
	}
}

// Sampling returns the window the service samples.
func (s *VisualizeService) Sampling() domain.Sampling {
	return s.sampling
}

// Visualize computes the plot for req.
func (s *VisualizeService) Visualize(ctx context.Context, req domain.VisualizeRequest) (*domain.Visualization, error) {
	req.Transform = domain.ParseTransform(string(req.Transform))

	ctx, span := s.tracer.Start(ctx, "visualize", trace.WithAttributes(
		attribute.String("visualize.transform", string(req.Transform)),
		attribute.Int("visualize.function.length", len(req.Function)),
	))
	defer span.End()

	start := time.Now()
	result, err := Execute(ctx, s.executor, s.operation(), req)
	elapsed := time.Since(start)

	if err != nil {
		outcome := outcomeOf(err)
		s.metrics.observe(req.Transform, outcome, 0, elapsed)
		span.SetAttributes(attribute.String("visualize.outcome", outcome))
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}

	s.metrics.observe(req.Transform, outcomeSuccess, len(result.XValues), elapsed)
	span.SetAttributes(
		attribute.String("visualize.outcome", outcomeSuccess),
		attribute.Int("visualize.points", len(result.XValues)),
	)
	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "visualization computed",
		slog.String("transform", string(req.Transform)),
		slog.Int("samples", len(s.grid)),
		slog.Int("points", len(result.XValues)),
		slog.Duration("duration", elapsed),
	)

	return result, nil
}

func (s *VisualizeService) operation() Operation[domain.VisualizeRequest, *computed, *computed, *domain.Visualization] {
	return Operation[domain.VisualizeRequest, *computed, *computed, *domain.Visualization]{
		Name: "visualize",
		Validate: func(_ context.Context, req domain.VisualizeRequest) error {
			if strings.TrimSpace(req.Function) == "" {
				return domain.NewValidationError("function", "must not be blank")
			}
			return nil
		},
		Perform: func(ctx context.Context, req domain.VisualizeRequest) (*computed, error) {
			return compute(ctx, req, s.grid)
		},
		Verify: func(_ context.Context, _ domain.VisualizeRequest, c *computed) (*computed, error) {
			kept := c.samples.Finite().Within(s.sampling.YLimit)
			if len(kept.X) != len(kept.Y) {
				return nil, errors.New("sample coordinates are misaligned")
			}
			return &computed{latex: c.latex, samples: kept}, nil
		},
		Respond: func(_ context.Context, req domain.VisualizeRequest, c *computed) (*domain.Visualization, error) {
			return &domain.Visualization{
				XValues:   c.samples.X,
				YValues:   c.samples.Y,
				Equation:  req.Transform.Equation(c.latex),
				Transform: req.Transform,
			}, nil
		},
	}
}

func outcomeOf(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeTimeout
	}
	return string(domain.KindOf(err))
}

package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jsamuelsen/function-visualizer/internal/domain"
)

// gapFactor splits a series where consecutive x values are further apart
// than gapFactor times the grid step. Filtered-out samples leave such gaps
// around poles and clipped regions.
const gapFactor = 1.5

// ChartService renders visualizations as PNG line charts.
type ChartService struct {
	defaults domain.ChartOptions
	step     float64
	logger   *slog.Logger
}

// NewChartService creates a chart service for visualizations sampled on the
// given grid; a zero sampling means domain.DefaultSampling. Zero fields in
// opts passed to RenderPNG are taken from defaults.
func NewChartService(defaults domain.ChartOptions, sampling domain.Sampling, logger *slog.Logger) *ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	if sampling == (domain.Sampling{}) {
		sampling = domain.DefaultSampling()
	}

	return &ChartService{
		defaults: defaults,
		step:     sampling.Step(),
		logger:   logger.With(slog.String("component", "app.ChartService")),
	}
}

// RenderPNG draws v with each contiguous run of points as its own line.
func (s *ChartService) RenderPNG(ctx context.Context, v *domain.Visualization, opts domain.ChartOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts = s.withDefaults(opts, v)
	runs := contiguousRuns(v.XValues, v.YValues, s.step)
	if len(runs) == 0 {
		return nil, domain.NewValidationErrorWithValue("function",
			"at least 2 plottable points are required to draw a chart", len(v.XValues))
	}

	series := make([]chart.Series, 0, len(runs))
	for i, run := range runs {
		series = append(series, chart.ContinuousSeries{
			Name: "run " + strconv.Itoa(i+1),
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2,
			},
			XValues: run.X,
			YValues: run.Y,
		})
	}

	yMin, yMax := yRange(runs)
	graph := chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{ValueFormatter: formatTick},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: formatTick,
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	s.logger.DebugContext(ctx, "chart rendered",
		slog.Int("runs", len(runs)),
		slog.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (s *ChartService) withDefaults(opts domain.ChartOptions, v *domain.Visualization) domain.ChartOptions {
	if opts.Width == 0 {
		opts.Width = s.defaults.Width
	}
	if opts.Height == 0 {
		opts.Height = s.defaults.Height
	}
	if opts.Title == "" {
		opts.Title = v.Equation
	}
	return opts
}

// contiguousRuns splits the samples wherever neighbors are more than
// gapFactor grid steps apart and drops runs too short to draw.
func contiguousRuns(xs, ys []float64, step float64) []domain.SampleSet {
	if len(xs) < 2 {
		return nil
	}

	var runs []domain.SampleSet
	begin := 0
	flush := func(end int) {
		if end-begin >= 2 {
			runs = append(runs, domain.SampleSet{X: xs[begin:end], Y: ys[begin:end]})
		}
		begin = end
	}
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] > gapFactor*step {
			flush(i)
		}
	}
	flush(len(xs))

	return runs
}

// yRange spans every run, padded when all values are equal.
func yRange(runs []domain.SampleSet) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, run := range runs {
		for _, y := range run.Y {
			lo = math.Min(lo, y)
			hi = math.Max(hi, y)
		}
	}
	if hi-lo == 0 {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

func formatTick(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'g', 4, 64)
	}
	return ""
}

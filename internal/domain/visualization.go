package domain

import "math"

// Variable is the independent variable of every plotted expression.
const Variable = "x"

// Transform selects what is plotted for the submitted expression.
type Transform string

// Supported transforms.
const (
	TransformFunction   Transform = "function"
	TransformDerivative Transform = "derivative"
	TransformIntegral   Transform = "integral"
)

// ParseTransform maps a request's type field to a transform. Unrecognized and
// empty values select the identity transform.
func ParseTransform(s string) Transform {
	switch Transform(s) {
	case TransformDerivative:
		return TransformDerivative
	case TransformIntegral:
		return TransformIntegral
	}
	return TransformFunction
}

// Equation labels latex, the rendering of the transformed expression.
func (t Transform) Equation(latex string) string {
	switch t {
	case TransformDerivative:
		return "f'(" + Variable + ") = " + latex
	case TransformIntegral:
		return "∫f(" + Variable + ")d" + Variable + " = " + latex + " + C"
	}
	return "f(" + Variable + ") = " + latex
}

// VisualizeRequest is a request to plot an expression.
type VisualizeRequest struct {
	Function  string
	Transform Transform
}

// Visualization is the plottable result of a request. XValues and YValues are
// index-aligned, ascending in x, and never nil.
type Visualization struct {
	XValues   []float64
	YValues   []float64
	Equation  string
	Transform Transform
}

// Sampling describes the evaluation grid and the plotting window.
type Sampling struct {
	XMin   float64
	XMax   float64
	Points int
	// YLimit is the largest |y| kept for plotting.
	YLimit float64
}

// DefaultSampling is 1000 points over [-10, 10] clipped to |y| <= 100.
func DefaultSampling() Sampling {
	return Sampling{XMin: -10, XMax: 10, Points: 1000, YLimit: 100}
}

// Grid returns the evenly spaced sample points.
func (s Sampling) Grid() []float64 {
	return Linspace(s.XMin, s.XMax, s.Points)
}

// Step returns the spacing between neighboring grid points, or 0 for a grid
// of fewer than two points.
func (s Sampling) Step() float64 {
	if s.Points < 2 {
		return 0
	}
	return (s.XMax - s.XMin) / float64(s.Points-1)
}

// Linspace returns n evenly spaced values from start to stop inclusive. The
// last value is exactly stop.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = start + float64(i)*step
	}
	xs[n-1] = stop
	return xs
}

// SampleSet holds index-aligned sample coordinates.
type SampleSet struct {
	X []float64
	Y []float64
}

// Len returns the number of samples.
func (s SampleSet) Len() int { return len(s.X) }

// Finite keeps the samples whose y is neither NaN nor infinite.
func (s SampleSet) Finite() SampleSet {
	return s.keep(func(y float64) bool { return !math.IsNaN(y) && !math.IsInf(y, 0) })
}

// Within keeps the samples with |y| <= limit.
func (s SampleSet) Within(limit float64) SampleSet {
	return s.keep(func(y float64) bool { return math.Abs(y) <= limit })
}

func (s SampleSet) keep(pred func(float64) bool) SampleSet {
	out := SampleSet{X: make([]float64, 0, len(s.X)), Y: make([]float64, 0, len(s.Y))}
	for i, y := range s.Y {
		if pred(y) {
			out.X = append(out.X, s.X[i])
			out.Y = append(out.Y, y)
		}
	}
	return out
}

// ChartOptions controls server-side chart rendering.
type ChartOptions struct {
	Title  string
	Width  int
	Height int
}

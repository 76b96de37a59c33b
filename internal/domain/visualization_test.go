package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransform(t *testing.T) {
	tests := []struct {
		input string
		want  Transform
	}{
		{input: "derivative", want: TransformDerivative},
		{input: "integral", want: TransformIntegral},
		{input: "function", want: TransformFunction},
		{input: "", want: TransformFunction},
		{input: "Derivative", want: TransformFunction},
		{input: "laplace", want: TransformFunction},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTransform(tt.input))
		})
	}
}

func TestTransform_Equation(t *testing.T) {
	assert.Equal(t, `f(x) = \sin{\left(x \right)}`, TransformFunction.Equation(`\sin{\left(x \right)}`))
	assert.Equal(t, "f'(x) = 2 x", TransformDerivative.Equation("2 x"))
	assert.Equal(t, `∫f(x)dx = \frac{x^{2}}{2} + C`, TransformIntegral.Equation(`\frac{x^{2}}{2}`))
}

func TestLinspace(t *testing.T) {
	xs := Linspace(-10, 10, 1000)

	require.Len(t, xs, 1000)
	assert.Equal(t, -10.0, xs[0])
	assert.Equal(t, 10.0, xs[999])
	assert.InDelta(t, 20.0/999, xs[1]-xs[0], 1e-12)
	for i := 1; i < len(xs); i++ {
		assert.Less(t, xs[i-1], xs[i])
	}
}

func TestLinspace_Degenerate(t *testing.T) {
	assert.Empty(t, Linspace(0, 1, 0))
	assert.NotNil(t, Linspace(0, 1, 0))
	assert.Equal(t, []float64{3}, Linspace(3, 5, 1))
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
}

func TestDefaultSampling(t *testing.T) {
	s := DefaultSampling()

	assert.Len(t, s.Grid(), 1000)
	assert.Equal(t, 100.0, s.YLimit)
}

func TestSampling_Step(t *testing.T) {
	assert.InDelta(t, 20.0/999, DefaultSampling().Step(), 1e-15)
	assert.InDelta(t, 0.25, Sampling{XMin: 0, XMax: 1, Points: 5}.Step(), 0)
	assert.Zero(t, Sampling{XMin: 0, XMax: 1, Points: 1}.Step())
}

func TestSampleSet_Filters(t *testing.T) {
	s := SampleSet{
		X: []float64{-2, -1, 0, 1, 2, 3},
		Y: []float64{4, math.NaN(), math.Inf(1), 150, -100, math.Inf(-1)},
	}

	finite := s.Finite()
	assert.Equal(t, []float64{-2, 1, 2}, finite.X)
	assert.Equal(t, []float64{4, 150, -100}, finite.Y)

	kept := finite.Within(100)
	assert.Equal(t, []float64{-2, 2}, kept.X)
	assert.Equal(t, []float64{4, -100}, kept.Y)
	assert.Equal(t, 2, kept.Len())
}

func TestSampleSet_EmptyResultIsNotNil(t *testing.T) {
	s := SampleSet{X: []float64{0}, Y: []float64{math.NaN()}}

	got := s.Finite()

	assert.NotNil(t, got.X)
	assert.NotNil(t, got.Y)
	assert.Equal(t, 0, got.Len())
}

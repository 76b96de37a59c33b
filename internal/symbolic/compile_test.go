package symbolic

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Eval(t *testing.T) {
	tests := []struct {
		input string
		x     float64
		want  float64
	}{
		{input: "x**2", x: 3, want: 9},
		{input: "x**2 + 2*x + 1", x: -1, want: 0},
		{input: "sin(x)", x: math.Pi / 2, want: 1},
		{input: "exp(x)", x: 1, want: math.E},
		{input: "2**x", x: 10, want: 1024},
		{input: "sqrt(x)", x: 16, want: 4},
		{input: "abs(x) + sign(x)", x: -3, want: 2},
		{input: "floor(x) + ceiling(x)", x: 1.5, want: 3},
		{input: "x // 2", x: 5, want: 2},
		{input: "sec(x)", x: 0, want: 1},
		{input: "log(8, 2)", x: 0, want: 3},
		{input: "pi", x: 5, want: math.Pi},
		{input: "E**x", x: 2, want: math.E * math.E},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ev, err := Compile(mustParse(t, tt.input), "x")

			require.NoError(t, err)
			assert.InDelta(t, tt.want, ev.Eval(tt.x), 1e-12)
		})
	}
}

func TestCompile_IEEESemantics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		x     float64
		check func(float64) bool
	}{
		{name: "pole is infinite", input: "1/x", x: 0, check: func(y float64) bool { return math.IsInf(y, 1) }},
		{name: "sqrt of negative is NaN", input: "sqrt(x)", x: -1, check: math.IsNaN},
		{name: "log of negative is NaN", input: "log(x)", x: -1, check: math.IsNaN},
		{name: "fractional power of negative is NaN", input: "x**(1/3)", x: -8, check: math.IsNaN},
		{name: "overflow is infinite", input: "exp(x)", x: 1000, check: func(y float64) bool { return math.IsInf(y, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Compile(mustParse(t, tt.input), "x")
			require.NoError(t, err)

			assert.True(t, tt.check(ev.Eval(tt.x)))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    func(t *testing.T) Expr
		wantMsg string
	}{
		{
			name:    "foreign symbol",
			expr:    func(t *testing.T) Expr { return mustParse(t, "x + y") },
			wantMsg: "name 'y' is not defined",
		},
		{
			name:    "undefined function",
			expr:    func(t *testing.T) Expr { return mustParse(t, "f(x)") },
			wantMsg: "function 'f' is not defined",
		},
		{
			name:    "derivative of undefined function",
			expr:    func(t *testing.T) Expr { return Diff(mustParse(t, "f(x)"), "x") },
			wantMsg: "function 'f' is not defined",
		},
		{
			name:    "integral over another variable",
			expr:    func(t *testing.T) Expr { return IntegralOf(mustParse(t, "sin(y**2)"), "y") },
			wantMsg: "name 'y' is not defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.expr(t), "x")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompile_UndefinedErrorType(t *testing.T) {
	_, err := Compile(mustParse(t, "g(x)*2"), "x")

	var undefined *UndefinedError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "g", undefined.Name)
	assert.True(t, undefined.Function)
}

func TestCompile_NestedIntegralIsRejected(t *testing.T) {
	inner := IntegralOf(mustParse(t, "exp(-x**2)"), "x")

	_, err := Compile(IntegralOf(inner, "x"), "x")

	require.ErrorIs(t, err, ErrNestedIntegral)
}

func TestEvaluator_EvalSlice(t *testing.T) {
	ev, err := Compile(mustParse(t, "2*x"), "x")
	require.NoError(t, err)

	ys, err := ev.EvalSlice(context.Background(), []float64{-1, 0, 2.5})

	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 5}, ys)
}

func TestEvaluator_EvalSlice_ConstantBroadcasts(t *testing.T) {
	ev, err := Compile(mustParse(t, "5"), "x")
	require.NoError(t, err)

	ys, err := ev.EvalSlice(context.Background(), make([]float64, 4))

	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 5, 5}, ys)
}

func TestEvaluator_EvalSlice_Canceled(t *testing.T) {
	ev, err := Compile(mustParse(t, "x"), "x")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ev.EvalSlice(ctx, []float64{1, 2, 3})

	require.ErrorIs(t, err, context.Canceled)
}

func TestCompile_IntegralUsesQuadrature(t *testing.T) {
	ev, err := Compile(IntegralOf(mustParse(t, "cos(x)"), "x"), "x")
	require.NoError(t, err)

	for _, x := range []float64{-2, 0, 1, 7.5} {
		assert.InDelta(t, math.Sin(x), ev.Eval(x), 1e-10)
	}
}

func TestIntegrateFrom0_StopsOnDoneContext(t *testing.T) {
	calls := 0
	f := func(*evalState, float64) float64 {
		calls++
		return 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &evalState{ctx: ctx}

	got := integrateFrom0(s, f, 10)

	assert.True(t, math.IsNaN(got))
	require.ErrorIs(t, s.err, context.Canceled)
	assert.Zero(t, calls)
}

func TestEvaluator_EvalSlice_QuadratureHonorsDeadline(t *testing.T) {
	ev, err := Compile(IntegralOf(mustParse(t, "exp(-x**2)*sin(x)**2"), "x"), "x")
	require.NoError(t, err)
	xs := make([]float64, 200)
	for i := range xs {
		xs[i] = 1e6 + float64(i)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err = ev.EvalSlice(ctx, xs)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

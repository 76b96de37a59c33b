package symbolic

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/gosymbol"
)

// cancelCheckInterval is how many points EvalSlice evaluates between checks
// of the context.
const cancelCheckInterval = 256

// quadraturePanelWidth is the widest interval one Gauss-Legendre panel covers
// when an unevaluated integral is computed numerically.
const quadraturePanelWidth = 0.5

// ErrNestedIntegral is returned by Compile for an unevaluated integral whose
// integrand holds another one. Each level multiplies the quadrature cost.
var ErrNestedIntegral = errors.New("nested unevaluated integrals cannot be evaluated")

// 10-point Gauss-Legendre nodes and weights on [-1, 1].
var (
	gaussNodes = [10]float64{
		-0.9739065285171717, -0.8650633666889845, -0.6794095682990244,
		-0.4333953941292472, -0.1488743389816312, 0.1488743389816312,
		0.4333953941292472, 0.6794095682990244, 0.8650633666889845,
		0.9739065285171717,
	}
	gaussWeights = [10]float64{
		0.0666713443086881, 0.1494513491505806, 0.2190863625159820,
		0.2692667193099963, 0.2955242247147529, 0.2955242247147529,
		0.2692667193099963, 0.2190863625159820, 0.1494513491505806,
		0.0666713443086881,
	}
)

var numericFuncs = map[string]func(float64) float64{
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
	"sinh":  math.Sinh,
	"cosh":  math.Cosh,
	"tanh":  math.Tanh,
	"asinh": math.Asinh,
	"acosh": math.Acosh,
	"atanh": math.Atanh,
	"exp":   math.Exp,
	"ln":    math.Log,
	"abs":   math.Abs,
	"sign":  sign,
	"floor": math.Floor,
	"ceil":  math.Ceil,
}

func sign(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return x
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// UndefinedError reports a symbol or function the evaluator cannot resolve.
type UndefinedError struct {
	Name     string
	Function bool
}

func (e *UndefinedError) Error() string {
	if e.Function {
		return fmt.Sprintf("function '%s' is not defined", e.Name)
	}
	return fmt.Sprintf("name '%s' is not defined", e.Name)
}

// evalState carries the context of one evaluation into numeric integrals,
// which are the only part of a compiled expression that loops.
type evalState struct {
	ctx context.Context
	err error
}

type evalFunc func(s *evalState, x float64) float64

// Evaluator computes float64 values of a compiled expression. Evaluation
// follows IEEE 754: poles yield infinities and values outside a function's
// real domain yield NaN.
type Evaluator struct {
	variable string
	fn       evalFunc
}

// Compile turns e into an evaluator over the single variable v. Any other
// free symbol or undefined function is an *UndefinedError.
func Compile(e Expr, v string) (*Evaluator, error) {
	fn, err := compile(e, v, false)
	if err != nil {
		return nil, err
	}
	return &Evaluator{variable: v, fn: fn}, nil
}

// Variable returns the name of the evaluator's input.
func (ev *Evaluator) Variable() string { return ev.variable }

// Eval evaluates the expression at x.
func (ev *Evaluator) Eval(x float64) float64 {
	return ev.fn(&evalState{ctx: context.Background()}, x)
}

// EvalSlice evaluates the expression at every point of xs. Constant
// expressions yield one value per point. Numeric integrals check ctx once per
// quadrature panel.
func (ev *Evaluator) EvalSlice(ctx context.Context, xs []float64) (ys []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			ys, err = nil, fmt.Errorf("evaluation panicked: %v", r)
		}
	}()
	s := &evalState{ctx: ctx}
	ys = make([]float64, len(xs))
	for i, x := range xs {
		if i%cancelCheckInterval == 0 {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
		}
		ys[i] = ev.fn(s, x)
		if s.err != nil {
			return nil, s.err
		}
	}
	return ys, nil
}

func compile(e Expr, v string, inIntegral bool) (evalFunc, error) {
	switch t := e.(type) {
	case *gosymbol.Num:
		c := t.Float64()
		return func(*evalState, float64) float64 { return c }, nil
	case *gosymbol.ConstantNode:
		c, ok := constValues[t.String()]
		if !ok {
			return nil, &UndefinedError{Name: t.String()}
		}
		return func(*evalState, float64) float64 { return c }, nil
	case *gosymbol.Sym:
		if t.Name() != v {
			return nil, &UndefinedError{Name: t.Name()}
		}
		return func(_ *evalState, x float64) float64 { return x }, nil
	case *gosymbol.Add:
		fs, err := compileAll(t.Terms(), v, inIntegral)
		if err != nil {
			return nil, err
		}
		return func(s *evalState, x float64) float64 {
			sum := 0.0
			for _, f := range fs {
				sum += f(s, x)
			}
			return sum
		}, nil
	case *gosymbol.Mul:
		fs, err := compileAll(t.Factors(), v, inIntegral)
		if err != nil {
			return nil, err
		}
		return func(s *evalState, x float64) float64 {
			p := 1.0
			for _, f := range fs {
				p *= f(s, x)
			}
			return p
		}, nil
	case *gosymbol.Pow:
		return compilePow(t, v, inIntegral)
	case *gosymbol.Func:
		return compileFunc(t, v, inIntegral)
	}
	return nil, fmt.Errorf("cannot evaluate %s", e)
}

func compileAll(es []Expr, v string, inIntegral bool) ([]evalFunc, error) {
	fs := make([]evalFunc, len(es))
	for i, e := range es {
		f, err := compile(e, v, inIntegral)
		if err != nil {
			return nil, err
		}
		fs[i] = f
	}
	return fs, nil
}

func compilePow(p *gosymbol.Pow, v string, inIntegral bool) (evalFunc, error) {
	base, err := compile(p.Base(), v, inIntegral)
	if err != nil {
		return nil, err
	}
	if n, ok := p.ExpExpr().(*gosymbol.Num); ok {
		switch {
		case isNum(n, 1, 2):
			return func(s *evalState, x float64) float64 { return math.Sqrt(base(s, x)) }, nil
		case isNum(n, 2, 1):
			return func(s *evalState, x float64) float64 {
				b := base(s, x)
				return b * b
			}, nil
		}
		c := n.Float64()
		return func(s *evalState, x float64) float64 { return math.Pow(base(s, x), c) }, nil
	}
	exp, err := compile(p.ExpExpr(), v, inIntegral)
	if err != nil {
		return nil, err
	}
	return func(s *evalState, x float64) float64 { return math.Pow(base(s, x), exp(s, x)) }, nil
}

func compileFunc(f *gosymbol.Func, v string, inIntegral bool) (evalFunc, error) {
	if iv, ok := integralVar(f); ok {
		if inIntegral {
			return nil, ErrNestedIntegral
		}
		return compileIntegral(f.Arg(), iv, v)
	}
	if inner, ok := derivedFunc(f); ok {
		return nil, &UndefinedError{Name: inner, Function: true}
	}
	fn, ok := numericFuncs[f.FuncName()]
	if !ok {
		return nil, &UndefinedError{Name: f.FuncName(), Function: true}
	}
	arg, err := compile(f.Arg(), v, inIntegral)
	if err != nil {
		return nil, err
	}
	return func(s *evalState, x float64) float64 { return fn(arg(s, x)) }, nil
}

// compileIntegral evaluates an indefinite integral with respect to v as the
// definite integral from 0 to x.
func compileIntegral(integrand Expr, iv, v string) (evalFunc, error) {
	if iv != v {
		return nil, &UndefinedError{Name: iv}
	}
	f, err := compile(integrand, v, true)
	if err != nil {
		return nil, err
	}
	return func(s *evalState, x float64) float64 { return integrateFrom0(s, f, x) }, nil
}

// integrateFrom0 applies composite Gauss-Legendre quadrature over [0, x]. A
// done context stops it between panels; the error is left in s.
func integrateFrom0(s *evalState, f evalFunc, x float64) float64 {
	if x == 0 {
		return 0
	}
	panels := int(math.Ceil(math.Abs(x) / quadraturePanelWidth))
	h := x / float64(panels)
	half := h / 2
	sum := 0.0
	for p := 0; p < panels; p++ {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return math.NaN()
		}
		mid := float64(p)*h + half
		panel := 0.0
		for k, t := range gaussNodes {
			panel += gaussWeights[k] * f(s, mid+half*t)
		}
		sum += half * panel
	}
	return sum
}

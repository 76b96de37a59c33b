// Package symbolic turns expression text into gosymbol expression trees and
// adds what the plotter needs on top of them: a Python-syntax parser, a
// normalization pass, integration rules beyond gosymbol.Integrate, LaTeX in
// the \sin{\left(x \right)} notation, and float64 evaluators.
//
// Trees are plain gosymbol.Expr values. Undefined functions and unevaluated
// integrals are gosymbol function nodes with reserved names.
package symbolic

import (
	"encoding/json"
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/gosymbol"
)

// Expr is a node of an expression tree.
type Expr = gosymbol.Expr

// Named constants. They differentiate to zero and stay symbolic until
// evaluation.
var (
	Pi = gosymbol.CreateConstantNode("pi")
	E  = gosymbol.CreateConstantNode("E")
)

var constValues = map[string]float64{"pi": math.Pi, "E": math.E}

// integralPrefix marks a function node that stands for the unevaluated
// integral of its argument. The integration variable follows in brackets.
const integralPrefix = "Integral["

// derivativePrefix is how gosymbol names the derivative of a function it has
// no rule for.
const derivativePrefix = "D["

// builtins maps the function names gosymbol understands to their constructors.
var builtins = map[string]func(Expr) Expr{
	"sin":   gosymbol.SinOf,
	"cos":   gosymbol.CosOf,
	"tan":   gosymbol.TanOf,
	"asin":  gosymbol.AsinOf,
	"acos":  gosymbol.AcosOf,
	"atan":  gosymbol.AtanOf,
	"sinh":  gosymbol.SinhOf,
	"cosh":  gosymbol.CoshOf,
	"tanh":  gosymbol.TanhOf,
	"asinh": gosymbol.AsinhOf,
	"acosh": gosymbol.AcoshOf,
	"atanh": gosymbol.AtanhOf,
	"exp":   gosymbol.ExpOf,
	"ln":    gosymbol.LnOf,
	"abs":   gosymbol.AbsOf,
	"floor": gosymbol.FloorOf,
	"ceil":  gosymbol.CeilOf,
	"sign":  gosymbol.SignOf,
}

// IsKnownFunc reports whether name is a function the engine can evaluate.
func IsKnownFunc(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Symbol returns the symbol with the given name.
func Symbol(name string) *gosymbol.Sym { return gosymbol.S(name) }

// FuncOf applies the named function to arg. Names gosymbol has no
// constructor for become undefined functions.
func FuncOf(name string, arg Expr) Expr {
	if build, ok := builtins[name]; ok {
		return build(arg)
	}
	return opaqueFunc(name, arg)
}

// opaqueFunc builds a function node gosymbol keeps as is. gosymbol only
// exposes arbitrary function names through its JSON form.
func opaqueFunc(name string, arg Expr) Expr {
	raw, err := gosymbol.ToJSON(arg)
	if err != nil {
		panic("symbolic: encode argument: " + err.Error())
	}
	var argTree map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &argTree); err != nil {
		panic("symbolic: decode argument: " + err.Error())
	}
	e, err := gosymbol.FromJSON(map[string]interface{}{"type": "func", "name": name, "arg": argTree})
	if err != nil {
		panic("symbolic: build function " + name + ": " + err.Error())
	}
	return e
}

// IntegralOf returns the unevaluated indefinite integral of e with respect
// to v.
func IntegralOf(e Expr, v string) Expr { return opaqueFunc(integralPrefix+v+"]", e) }

// integralVar returns the integration variable when f is an unevaluated
// integral.
func integralVar(f *gosymbol.Func) (string, bool) {
	name := f.FuncName()
	if !strings.HasPrefix(name, integralPrefix) || !strings.HasSuffix(name, "]") {
		return "", false
	}
	return name[len(integralPrefix) : len(name)-1], true
}

// derivedFunc returns the inner function name when f is gosymbol's
// placeholder for the derivative of an unknown function.
func derivedFunc(f *gosymbol.Func) (string, bool) {
	name := f.FuncName()
	if !strings.HasPrefix(name, derivativePrefix) || !strings.HasSuffix(name, "]") {
		return "", false
	}
	return name[len(derivativePrefix) : len(name)-1], true
}

// Depends reports whether e contains the symbol v.
func Depends(e Expr, v string) bool {
	_, ok := gosymbol.FreeSymbols(e)[v]
	return ok
}

// FreeSymbols returns the sorted names of the symbols in e.
func FreeSymbols(e Expr) []string {
	set := gosymbol.FreeSymbols(e)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Neg returns -e.
func Neg(e Expr) Expr { return normalize(gosymbol.MulOf(gosymbol.N(-1), e)) }

// Sub returns a - b.
func Sub(a, b Expr) Expr { return normalize(gosymbol.AddOf(a, gosymbol.MulOf(gosymbol.N(-1), b))) }

// Quo returns a / b.
func Quo(a, b Expr) Expr { return normalize(gosymbol.MulOf(a, gosymbol.PowOf(b, gosymbol.N(-1)))) }

func isZero(e Expr) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.IsZero()
}

func isOne(e Expr) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.IsOne()
}

// isNum reports whether e is the exact number p/q.
func isNum(e Expr, p, q int64) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.Equal(gosymbol.F(p, q))
}

// isPositiveInt reports whether e is an integer greater than zero.
func isPositiveInt(e Expr) bool {
	n, ok := e.(*gosymbol.Num)
	return ok && n.IsInteger() && n.IsPositive()
}

// coefficient returns the leading numeric factor of e and the rest.
func coefficient(e Expr) (*gosymbol.Num, Expr) {
	if n, ok := e.(*gosymbol.Num); ok {
		return n, gosymbol.N(1)
	}
	m, ok := e.(*gosymbol.Mul)
	if !ok {
		return gosymbol.N(1), e
	}
	fs := m.Factors()
	c, ok := fs[0].(*gosymbol.Num)
	if !ok {
		return gosymbol.N(1), e
	}
	return c, gosymbol.MulOf(fs[1:]...)
}

// isNegative reports whether e renders with a leading minus sign.
func isNegative(e Expr) bool {
	c, _ := coefficient(e)
	return c.IsNegative()
}

// children returns the direct operands of e.
func children(e Expr) []Expr {
	switch t := e.(type) {
	case *gosymbol.Add:
		return t.Terms()
	case *gosymbol.Mul:
		return t.Factors()
	case *gosymbol.Pow:
		return []Expr{t.Base(), t.ExpExpr()}
	case *gosymbol.Func:
		return []Expr{t.Arg()}
	}
	return nil
}

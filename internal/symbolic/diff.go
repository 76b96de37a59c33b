package symbolic

import "github.com/njchilds90/gosymbol"

// Diff differentiates e with respect to v. The rules are gosymbol's; the
// result is normalized so that exponentials combine and the derivatives of
// abs, floor, ceil and sign are explicit. An unevaluated integral with
// respect to v differentiates to its integrand.
func Diff(e Expr, v string) Expr {
	if !hasIntegral(e) {
		return normalize(gosymbol.Diff(e, v))
	}
	switch t := e.(type) {
	case *gosymbol.Add:
		terms := t.Terms()
		out := make([]Expr, len(terms))
		for i, term := range terms {
			out[i] = Diff(term, v)
		}
		return normalize(gosymbol.AddOf(out...))
	case *gosymbol.Mul:
		factors := t.Factors()
		out := make([]Expr, 0, len(factors))
		for i, f := range factors {
			d := Diff(f, v)
			if isZero(d) {
				continue
			}
			rest := append([]Expr{d}, factors[:i]...)
			rest = append(rest, factors[i+1:]...)
			out = append(out, gosymbol.MulOf(rest...))
		}
		return normalize(gosymbol.AddOf(out...))
	case *gosymbol.Func:
		if iv, ok := integralVar(t); ok {
			if iv == v {
				return t.Arg()
			}
			if !Depends(t.Arg(), v) {
				return gosymbol.N(0)
			}
		}
	}
	return normalize(gosymbol.Diff(e, v))
}

func hasIntegral(e Expr) bool {
	if f, ok := e.(*gosymbol.Func); ok {
		if _, ok := integralVar(f); ok {
			return true
		}
	}
	for _, c := range children(e) {
		if hasIntegral(c) {
			return true
		}
	}
	return false
}

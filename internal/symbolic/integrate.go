package symbolic

import (
	"math/big"

	"github.com/njchilds90/gosymbol"
)

// maxIntegrationDepth bounds the recursion of substitution, integration by
// parts and expansion.
const maxIntegrationDepth = 6

// dummyVar names the substitution variable. It cannot be produced by Parse.
const dummyVar = "$u"

// Integrate returns an antiderivative of e with respect to v, without the
// constant of integration. gosymbol.Integrate is tried first at every step;
// the rules here cover what it leaves open. ok is false when no rule applies.
func Integrate(e Expr, v string) (result Expr, ok bool) {
	return integrate(normalize(e), v, 0)
}

// Antiderivative integrates e with respect to v. Terms of a sum that have no
// closed form are kept as an unevaluated integral.
func Antiderivative(e Expr, v string) Expr {
	e = normalize(e)
	if r, ok := Integrate(e, v); ok {
		return r
	}
	sum, ok := e.(*gosymbol.Add)
	if !ok {
		return IntegralOf(e, v)
	}
	var done, rest []Expr
	for _, t := range sum.Terms() {
		if r, ok := Integrate(t, v); ok {
			done = append(done, r)
		} else {
			rest = append(rest, t)
		}
	}
	if len(done) == 0 {
		return IntegralOf(e, v)
	}
	return gosymbol.AddOf(append(done, IntegralOf(gosymbol.AddOf(rest...), v))...)
}

func integrate(e Expr, v string, depth int) (Expr, bool) {
	if depth > maxIntegrationDepth {
		return nil, false
	}
	if r, ok := gosymbol.Integrate(e, v); ok {
		return normalize(r), true
	}
	if !Depends(e, v) {
		return gosymbol.MulOf(e, Symbol(v)), true
	}

	switch t := e.(type) {
	case *gosymbol.Add:
		terms := t.Terms()
		parts := make([]Expr, 0, len(terms))
		for _, term := range terms {
			r, ok := integrate(term, v, depth)
			if !ok {
				return nil, false
			}
			parts = append(parts, r)
		}
		return normalize(gosymbol.AddOf(parts...)), true
	case *gosymbol.Mul:
		c, rest := splitConstant(t, v)
		if !isOne(c) {
			r, ok := integrate(rest, v, depth)
			if !ok {
				return nil, false
			}
			return normalize(gosymbol.MulOf(c, r)), true
		}
	}

	if r, ok := integrateTable(e, v); ok {
		return r, true
	}
	if r, ok := integrateSubstitution(e, v, depth); ok {
		return r, true
	}
	if r, ok := integrateByParts(e, v, depth); ok {
		return r, true
	}
	if ex := Expand(e); !ex.Equal(e) {
		return integrate(ex, v, depth+1)
	}
	return nil, false
}

// splitConstant separates the factors of m that do not depend on v.
func splitConstant(m *gosymbol.Mul, v string) (constant, rest Expr) {
	var cs, ds []Expr
	for _, f := range m.Factors() {
		if Depends(f, v) {
			ds = append(ds, f)
		} else {
			cs = append(cs, f)
		}
	}
	return gosymbol.MulOf(cs...), gosymbol.MulOf(ds...)
}

// slope returns a when e is a*v + b with a, b free of v.
func slope(e Expr, v string) (Expr, bool) {
	d := Diff(e, v)
	if isZero(d) || Depends(d, v) {
		return nil, false
	}
	return d, true
}

func integrateTable(e Expr, v string) (Expr, bool) {
	switch t := e.(type) {
	case *gosymbol.Sym:
		return gosymbol.MulOf(gosymbol.F(1, 2), gosymbol.PowOf(t, gosymbol.N(2))), true
	case *gosymbol.Pow:
		return integratePow(t, v)
	case *gosymbol.Func:
		u := t.Arg()
		a, ok := slope(u, v)
		if !ok {
			return nil, false
		}
		F, ok := primitive(t.FuncName(), u)
		if !ok {
			return nil, false
		}
		return Quo(F, a), true
	}
	return nil, false
}

// primitive returns the antiderivative of name(u) with respect to u.
func primitive(name string, u Expr) (Expr, bool) {
	one := gosymbol.N(1)
	half := gosymbol.F(1, 2)
	sq := gosymbol.PowOf(u, gosymbol.N(2))
	ln := gosymbol.LnOf
	switch name {
	case "sin":
		return Neg(gosymbol.CosOf(u)), true
	case "cos":
		return gosymbol.SinOf(u), true
	case "tan":
		return Neg(ln(gosymbol.AbsOf(gosymbol.CosOf(u)))), true
	case "exp":
		return gosymbol.ExpOf(u), true
	case "ln":
		return Sub(gosymbol.MulOf(u, ln(u)), u), true
	case "sinh":
		return gosymbol.CoshOf(u), true
	case "cosh":
		return gosymbol.SinhOf(u), true
	case "tanh":
		return ln(gosymbol.CoshOf(u)), true
	case "asin":
		return gosymbol.AddOf(gosymbol.MulOf(u, gosymbol.AsinOf(u)), gosymbol.SqrtOf(Sub(one, sq))), true
	case "acos":
		return Sub(gosymbol.MulOf(u, gosymbol.AcosOf(u)), gosymbol.SqrtOf(Sub(one, sq))), true
	case "atan":
		return Sub(gosymbol.MulOf(u, gosymbol.AtanOf(u)), gosymbol.MulOf(half, ln(gosymbol.AddOf(sq, one)))), true
	case "asinh":
		return Sub(gosymbol.MulOf(u, gosymbol.AsinhOf(u)), gosymbol.SqrtOf(gosymbol.AddOf(sq, one))), true
	case "acosh":
		return Sub(gosymbol.MulOf(u, gosymbol.AcoshOf(u)), gosymbol.SqrtOf(Sub(sq, one))), true
	case "atanh":
		return gosymbol.AddOf(gosymbol.MulOf(u, gosymbol.AtanhOf(u)), gosymbol.MulOf(half, ln(Sub(one, sq)))), true
	case "abs":
		return gosymbol.MulOf(half, u, gosymbol.AbsOf(u)), true
	case "sign":
		return gosymbol.AbsOf(u), true
	}
	return nil, false
}

func integratePow(p *gosymbol.Pow, v string) (Expr, bool) {
	base, exp := p.Base(), p.ExpExpr()
	if !Depends(exp, v) {
		if a, ok := slope(base, v); ok {
			if isNum(exp, -1, 1) {
				return Quo(gosymbol.LnOf(gosymbol.AbsOf(base)), a), true
			}
			n1 := gosymbol.AddOf(exp, gosymbol.N(1))
			return Quo(gosymbol.PowOf(base, n1), gosymbol.MulOf(a, n1)), true
		}
		if r, ok := integrateQuadratic(base, exp, v); ok {
			return r, true
		}
		return integrateTrigPow(base, exp, v)
	}
	if !Depends(base, v) {
		if a, ok := slope(exp, v); ok {
			return Quo(p, gosymbol.MulOf(a, gosymbol.LnOf(base))), true
		}
	}
	return nil, false
}

// integrateQuadratic handles (alpha*v**2 + gamma)**-1 and
// (alpha*v**2 + gamma)**(-1/2) with numeric alpha and gamma.
func integrateQuadratic(base, exp Expr, v string) (Expr, bool) {
	alpha, gamma, ok := quadraticCoeffs(base, v)
	if !ok {
		return nil, false
	}
	x := Symbol(v)
	ratio := ratNum(alpha, gamma, false)
	switch {
	case isNum(exp, -1, 1):
		if alpha.IsNegative() != gamma.IsNegative() {
			return nil, false
		}
		sign := gosymbol.N(1)
		if alpha.IsNegative() {
			sign = gosymbol.N(-1)
		}
		// 1/(a x^2 + g) = atan(x sqrt(a/g)) / sqrt(a g)
		arg := gosymbol.MulOf(x, sqrtNum(ratio))
		scale := gosymbol.PowOf(sqrtNum(ratNum(alpha, gamma, true)), gosymbol.N(-1))
		return normalize(gosymbol.MulOf(sign, scale, gosymbol.AtanOf(arg))), true
	case isNum(exp, -1, 2):
		if gamma.IsNegative() {
			return nil, false
		}
		a := absNum(alpha)
		arg := gosymbol.MulOf(x, sqrtNum(absNum(ratio)))
		scale := gosymbol.PowOf(sqrtNum(a), gosymbol.N(-1))
		if alpha.IsNegative() {
			return normalize(gosymbol.MulOf(scale, gosymbol.AsinOf(arg))), true
		}
		return normalize(gosymbol.MulOf(scale, gosymbol.AsinhOf(arg))), true
	}
	return nil, false
}

// ratNum returns a/b, or a*b when product is set.
func ratNum(a, b *gosymbol.Num, product bool) *gosymbol.Num {
	var r Expr
	if product {
		r = gosymbol.MulOf(a, b)
	} else {
		r = gosymbol.MulOf(a, gosymbol.PowOf(b, gosymbol.N(-1)))
	}
	return r.(*gosymbol.Num)
}

// sqrtNum returns the square root of a non-negative n, exactly when n is the
// square of a fraction with small terms.
func sqrtNum(n *gosymbol.Num) Expr {
	r := n.Rat()
	if r.Sign() < 0 {
		return gosymbol.SqrtOf(n)
	}
	p, q := r.Num(), r.Denom()
	sp, sq := new(big.Int).Sqrt(p), new(big.Int).Sqrt(q)
	exact := new(big.Int).Mul(sp, sp).Cmp(p) == 0 && new(big.Int).Mul(sq, sq).Cmp(q) == 0
	if exact && sp.IsInt64() && sq.IsInt64() {
		return gosymbol.F(sp.Int64(), sq.Int64())
	}
	return gosymbol.SqrtOf(n)
}

func absNum(n *gosymbol.Num) *gosymbol.Num {
	if n.IsNegative() {
		return gosymbol.MulOf(gosymbol.N(-1), n).(*gosymbol.Num)
	}
	return n
}

// quadraticCoeffs matches e against alpha*v**2 + gamma.
func quadraticCoeffs(e Expr, v string) (alpha, gamma *gosymbol.Num, ok bool) {
	sum, isSum := Expand(e).(*gosymbol.Add)
	if !isSum {
		return nil, nil, false
	}
	var a, g Expr = gosymbol.N(0), gosymbol.N(0)
	square := gosymbol.PowOf(Symbol(v), gosymbol.N(2))
	for _, t := range sum.Terms() {
		if n, constant := t.(*gosymbol.Num); constant {
			g = gosymbol.AddOf(g, n)
			continue
		}
		c, rest := coefficient(t)
		if !rest.Equal(square) {
			return nil, nil, false
		}
		a = gosymbol.AddOf(a, c)
	}
	alpha, gamma = a.(*gosymbol.Num), g.(*gosymbol.Num)
	if alpha.IsZero() || gamma.IsZero() {
		return nil, nil, false
	}
	return alpha, gamma, true
}

// integrateTrigPow handles squares and inverse squares of sin and cos of a
// linear argument.
func integrateTrigPow(base, exp Expr, v string) (Expr, bool) {
	f, ok := base.(*gosymbol.Func)
	if !ok {
		return nil, false
	}
	u := f.Arg()
	a, ok := slope(u, v)
	if !ok {
		return nil, false
	}
	double := gosymbol.SinOf(gosymbol.MulOf(gosymbol.N(2), u))
	var F Expr
	switch {
	case f.FuncName() == "cos" && isNum(exp, -2, 1):
		F = gosymbol.TanOf(u)
	case f.FuncName() == "sin" && isNum(exp, -2, 1):
		F = Neg(gosymbol.PowOf(gosymbol.TanOf(u), gosymbol.N(-1)))
	case f.FuncName() == "sin" && isNum(exp, 2, 1):
		F = Sub(gosymbol.MulOf(gosymbol.F(1, 2), u), gosymbol.MulOf(gosymbol.F(1, 4), double))
	case f.FuncName() == "cos" && isNum(exp, 2, 1):
		F = gosymbol.AddOf(gosymbol.MulOf(gosymbol.F(1, 2), u), gosymbol.MulOf(gosymbol.F(1, 4), double))
	default:
		return nil, false
	}
	return Quo(F, a), true
}

type substitution struct {
	inner Expr
	outer Expr
}

// candidates lists the ways f can be read as outer(inner).
func candidates(f Expr, v string) []substitution {
	u := Symbol(dummyVar)
	out := []substitution{{inner: f, outer: u}}
	switch g := f.(type) {
	case *gosymbol.Func:
		if _, linear := slope(g.Arg(), v); !linear {
			out = append(out, substitution{inner: g.Arg(), outer: FuncOf(g.FuncName(), u)})
		}
	case *gosymbol.Pow:
		if !Depends(g.ExpExpr(), v) {
			if _, linear := slope(g.Base(), v); !linear {
				out = append(out, substitution{inner: g.Base(), outer: gosymbol.PowOf(u, g.ExpExpr())})
			}
		}
	}
	return out
}

// integrateSubstitution applies u = g(v) when the remaining factors are a
// constant multiple of g'(v).
func integrateSubstitution(e Expr, v string, depth int) (Expr, bool) {
	factors := []Expr{e}
	if m, ok := e.(*gosymbol.Mul); ok {
		factors = m.Factors()
	}
	x := Symbol(v)
	for i, f := range factors {
		for _, c := range candidates(f, v) {
			if c.inner.Equal(x) {
				continue
			}
			dg := Diff(c.inner, v)
			if isZero(dg) {
				continue
			}
			others := make([]Expr, 0, len(factors))
			others = append(others, factors[:i]...)
			others = append(others, factors[i+1:]...)
			ratio := Quo(gosymbol.MulOf(others...), dg)
			if Depends(ratio, v) {
				continue
			}
			F, ok := integrate(c.outer, dummyVar, depth+1)
			if !ok {
				continue
			}
			return normalize(gosymbol.MulOf(ratio, gosymbol.Sub(F, dummyVar, c.inner))), true
		}
	}
	return nil, false
}

// integrateByParts handles P(v)*G(v) where P is a polynomial and G is an
// exponential, sine, cosine or hyperbolic function of a linear argument, or
// a logarithm or inverse trigonometric function.
func integrateByParts(e Expr, v string, depth int) (Expr, bool) {
	m, ok := e.(*gosymbol.Mul)
	if !ok {
		return nil, false
	}
	var poly []Expr
	var other Expr
	for _, f := range m.Factors() {
		switch {
		case isPolynomial(f, v):
			poly = append(poly, f)
		case other == nil:
			other = f
		default:
			return nil, false
		}
	}
	if other == nil || len(poly) == 0 {
		return nil, false
	}
	P := gosymbol.MulOf(poly...)

	if isInverseKind(other, v) {
		// u = G, dv = P
		iP, ok := integrate(P, v, depth+1)
		if !ok {
			return nil, false
		}
		rest, ok := integrate(Expand(gosymbol.MulOf(iP, Diff(other, v))), v, depth+1)
		if !ok {
			return nil, false
		}
		return Sub(gosymbol.MulOf(other, iP), rest), true
	}

	// u = P, dv = G
	iG, ok := integrateTable(other, v)
	if !ok {
		return nil, false
	}
	dP := Expand(Diff(P, v))
	if isZero(dP) {
		return normalize(gosymbol.MulOf(P, iG)), true
	}
	rest, ok := integrate(Expand(gosymbol.MulOf(dP, iG)), v, depth+1)
	if !ok {
		return nil, false
	}
	return Sub(gosymbol.MulOf(P, iG), rest), true
}

func isInverseKind(e Expr, v string) bool {
	f, ok := e.(*gosymbol.Func)
	if !ok {
		return false
	}
	if _, linear := slope(f.Arg(), v); !linear {
		return false
	}
	switch f.FuncName() {
	case "ln", "asin", "acos", "atan", "asinh", "acosh", "atanh":
		return true
	}
	return false
}

// isPolynomial reports whether e is a polynomial in v with coefficients free
// of v.
func isPolynomial(e Expr, v string) bool {
	switch t := e.(type) {
	case *gosymbol.Num, *gosymbol.ConstantNode, *gosymbol.Sym:
		return true
	case *gosymbol.Pow:
		return isPositiveInt(t.ExpExpr()) && isPolynomial(t.Base(), v)
	case *gosymbol.Add, *gosymbol.Mul:
		for _, c := range children(e) {
			if !isPolynomial(c, v) {
				return false
			}
		}
		return true
	}
	return !Depends(e, v)
}

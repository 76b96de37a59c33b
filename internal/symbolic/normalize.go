package symbolic

import "github.com/njchilds90/gosymbol"

// normalize rewrites a gosymbol tree into the form the rest of the package
// expects. On top of gosymbol's own simplification it
//   - merges exponential factors: exp(a)*exp(b) is exp(a + b),
//   - folds integer powers of exp and of products: exp(u)**n is exp(n*u),
//   - distributes a numeric coefficient over a lone sum,
//   - replaces gosymbol's placeholder derivatives of abs, floor, ceil and sign,
//   - evaluates functions at pi and E where the value is exact.
func normalize(e Expr) Expr {
	switch t := e.(type) {
	case *gosymbol.Add:
		terms := t.Terms()
		out := make([]Expr, len(terms))
		for i, term := range terms {
			out[i] = normalize(term)
		}
		return gosymbol.AddOf(out...)
	case *gosymbol.Mul:
		factors := t.Factors()
		out := make([]Expr, len(factors))
		for i, f := range factors {
			out[i] = normalize(f)
		}
		return distribute(mergeExp(gosymbol.MulOf(out...)))
	case *gosymbol.Pow:
		return normalizePow(normalize(t.Base()), normalize(t.ExpExpr()))
	case *gosymbol.Func:
		return normalizeFunc(t)
	case *gosymbol.ConstantNode:
		return t
	}
	return e
}

// mergeExp gathers the exp factors of a product into one exponential.
// gosymbol keys factors by their base, so exp(x) and exp(-x) never meet.
func mergeExp(e Expr) Expr {
	m, ok := e.(*gosymbol.Mul)
	if !ok {
		return e
	}
	var args, rest []Expr
	powered := false
	for _, f := range m.Factors() {
		if arg, ok := expArg(f); ok {
			args = append(args, arg)
			continue
		}
		if p, ok := f.(*gosymbol.Pow); ok {
			if arg, ok := expArg(p.Base()); ok {
				if n, ok := p.ExpExpr().(*gosymbol.Num); ok {
					args = append(args, gosymbol.MulOf(n, arg))
					powered = true
					continue
				}
			}
		}
		rest = append(rest, f)
	}
	if len(args) < 2 && !powered {
		return e
	}
	merged := gosymbol.ExpOf(normalize(gosymbol.AddOf(args...)))
	return gosymbol.MulOf(append(rest, merged)...)
}

func expArg(e Expr) (Expr, bool) {
	if fn, ok := e.(*gosymbol.Func); ok && fn.FuncName() == "exp" {
		return fn.Arg(), true
	}
	return nil, false
}

// distribute multiplies a numeric coefficient into a lone sum.
func distribute(e Expr) Expr {
	m, ok := e.(*gosymbol.Mul)
	if !ok {
		return e
	}
	fs := m.Factors()
	if len(fs) != 2 {
		return e
	}
	c, ok := fs[0].(*gosymbol.Num)
	if !ok {
		return e
	}
	sum, ok := fs[1].(*gosymbol.Add)
	if !ok {
		return e
	}
	terms := sum.Terms()
	out := make([]Expr, len(terms))
	for i, term := range terms {
		out[i] = normalize(gosymbol.MulOf(c, term))
	}
	return gosymbol.AddOf(out...)
}

func normalizePow(base, exp Expr) Expr {
	n, numeric := exp.(*gosymbol.Num)
	switch b := base.(type) {
	case *gosymbol.ConstantNode:
		if b.Equal(E) {
			return gosymbol.ExpOf(exp)
		}
	case *gosymbol.Func:
		if b.FuncName() == "exp" && numeric {
			return gosymbol.ExpOf(normalize(gosymbol.MulOf(n, b.Arg())))
		}
	case *gosymbol.Mul:
		if numeric && n.IsInteger() {
			fs := b.Factors()
			out := make([]Expr, len(fs))
			for i, f := range fs {
				out[i] = normalizePow(f, n)
			}
			return normalize(gosymbol.MulOf(out...))
		}
	}
	return gosymbol.PowOf(base, exp)
}

func normalizeFunc(f *gosymbol.Func) Expr {
	arg := normalize(f.Arg())
	if inner, ok := derivedFunc(f); ok {
		switch inner {
		case "abs":
			return gosymbol.SignOf(arg)
		case "floor", "ceil", "sign":
			return gosymbol.N(0)
		}
	}
	if c, ok := arg.(*gosymbol.ConstantNode); ok {
		if v, ok := atConstant(f.FuncName(), c); ok {
			return v
		}
	}
	if arg.Equal(f.Arg()) {
		return f
	}
	return FuncOf(f.FuncName(), arg)
}

// atConstant evaluates name at pi or E where the result is exact.
func atConstant(name string, c *gosymbol.ConstantNode) (Expr, bool) {
	switch {
	case c.Equal(Pi) && (name == "sin" || name == "tan"):
		return gosymbol.N(0), true
	case c.Equal(Pi) && name == "cos":
		return gosymbol.N(-1), true
	case c.Equal(E) && name == "ln":
		return gosymbol.N(1), true
	}
	return nil, false
}

// Expand distributes products over sums and multiplies out small integer
// powers of sums.
func Expand(e Expr) Expr { return normalize(gosymbol.Expand(e)) }

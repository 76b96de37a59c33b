package symbolic

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/njchilds90/gosymbol"
)

// floatDenomBits is the size above which a power-of-two denominator marks a
// number that gosymbol folded from a float64. Such numbers print as decimals.
const floatDenomBits = 32

// operatorFuncs have a dedicated LaTeX command.
var operatorFuncs = map[string]string{
	"sin": `\sin`, "cos": `\cos`, "tan": `\tan`,
	"sinh": `\sinh`, "cosh": `\cosh`, "tanh": `\tanh`, "ln": `\log`,
}

// LaTeX renders e as LaTeX math. gosymbol's own LaTeX writes \sin\left(x\right);
// this renderer writes \sin{\left(x \right)}, keeps polynomial terms in
// descending degree and turns negative powers into fractions.
func LaTeX(e Expr) string {
	switch t := e.(type) {
	case *gosymbol.Num:
		return latexNum(t)
	case *gosymbol.Sym:
		return t.Name()
	case *gosymbol.ConstantNode:
		return latexConst(t)
	case *gosymbol.Add:
		return latexSum(t.Terms())
	case *gosymbol.Mul:
		return latexProduct(t.Factors())
	case *gosymbol.Pow:
		return latexPow(t)
	case *gosymbol.Func:
		return latexFunc(t)
	}
	return e.LaTeX()
}

func latexConst(c *gosymbol.ConstantNode) string {
	switch {
	case c.Equal(Pi):
		return `\pi`
	case c.Equal(E):
		return "e"
	}
	return c.String()
}

func latexNum(n *gosymbol.Num) string {
	r := n.Rat()
	if isFloat(r) {
		return formatFloat(n.Float64())
	}
	if r.IsInt() {
		return r.Num().String()
	}
	sign := ""
	if r.Sign() < 0 {
		sign = "- "
		r.Neg(r)
	}
	return sign + `\frac{` + r.Num().String() + "}{" + r.Denom().String() + "}"
}

// isFloat reports whether r carries the denominator of a folded float64.
func isFloat(r *big.Rat) bool {
	d := r.Denom()
	return d.BitLen() > floatDenomBits && new(big.Int).And(d, new(big.Int).Sub(d, big.NewInt(1))).Sign() == 0
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if strings.Contains(s, "e") {
		mant, exp, _ := strings.Cut(s, "e")
		n, _ := strconv.Atoi(exp)
		return mant + ` \cdot 10^{` + strconv.Itoa(n) + "}"
	}
	return s
}

func latexSum(terms []Expr) string {
	ordered := append([]Expr(nil), terms...)
	sort.SliceStable(ordered, func(i, j int) bool { return lessTerm(ordered[i], ordered[j]) })
	var b strings.Builder
	for i, t := range ordered {
		neg := isNegative(t)
		if neg {
			t = gosymbol.MulOf(gosymbol.N(-1), t)
		}
		switch {
		case neg && i == 0:
			b.WriteString("- ")
		case neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(LaTeX(t))
	}
	return b.String()
}

// latexProduct renders factors as a fraction when any factor has a negative
// exponent or the coefficient is a non-integer rational.
func latexProduct(factors []Expr) string {
	coeff, num, den := splitFraction(factors)
	sign := ""
	if coeff.Sign() < 0 {
		sign = "- "
		coeff.Neg(coeff)
	}
	if isFloat(coeff) {
		f, _ := coeff.Float64()
		parts := append([]string{formatFloat(f)}, latexFactors(num, big.NewInt(1), true))
		if len(num) == 0 {
			parts = parts[:1]
		}
		numer := joinFactors(parts)
		if len(den) == 0 {
			return sign + numer
		}
		return sign + `\frac{` + numer + "}{" + latexFactors(den, big.NewInt(1), false) + "}"
	}
	p, q := coeff.Num(), coeff.Denom()
	numer := latexFactors(num, p, len(den) == 0 && q.IsInt64() && q.Int64() == 1)
	if len(den) == 0 && q.Cmp(big.NewInt(1)) == 0 {
		return sign + numer
	}
	return sign + `\frac{` + numer + "}{" + latexFactors(den, q, false) + "}"
}

// splitFraction separates a product into its numeric coefficient and the
// factors of the numerator and denominator.
func splitFraction(factors []Expr) (coeff *big.Rat, num, den []Expr) {
	coeff = big.NewRat(1, 1)
	for _, f := range factors {
		switch v := f.(type) {
		case *gosymbol.Num:
			coeff.Mul(coeff, v.Rat())
		case *gosymbol.Pow:
			if n, ok := v.ExpExpr().(*gosymbol.Num); ok && n.IsNegative() {
				den = append(den, gosymbol.PowOf(v.Base(), gosymbol.MulOf(gosymbol.N(-1), n)))
				continue
			}
			num = append(num, f)
		default:
			num = append(num, f)
		}
	}
	sort.SliceStable(num, func(i, j int) bool { return lessFactor(num[i], num[j]) })
	sort.SliceStable(den, func(i, j int) bool { return lessFactor(den[i], den[j]) })
	return coeff, num, den
}

// latexFactors joins c and fs. A sum is parenthesized unless it is the only
// factor of a fraction part.
func latexFactors(fs []Expr, c *big.Int, bare bool) string {
	parts := make([]string, 0, len(fs)+1)
	if c.Cmp(big.NewInt(1)) != 0 || len(fs) == 0 {
		parts = append(parts, c.String())
	}
	single := len(fs)+len(parts) == 1 && !bare
	for _, f := range fs {
		s := LaTeX(f)
		if _, sum := f.(*gosymbol.Add); sum && !single {
			s = `\left(` + s + `\right)`
		}
		parts = append(parts, s)
	}
	return joinFactors(parts)
}

// joinFactors separates parts with spaces, and with \cdot between two
// numbers.
func joinFactors(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(parts[i-1])
			next, _ := utf8.DecodeRuneInString(p)
			if isDigitRune(prev) && isDigitRune(next) {
				b.WriteString(` \cdot `)
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString(p)
	}
	return b.String()
}

func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

func latexPow(p *gosymbol.Pow) string {
	base, exp := p.Base(), p.ExpExpr()
	if n, ok := exp.(*gosymbol.Num); ok {
		r := n.Rat()
		if r.Sign() < 0 {
			return latexProduct([]Expr{p})
		}
		if !r.IsInt() && r.Num().Cmp(big.NewInt(1)) == 0 && !isFloat(r) {
			if d := r.Denom(); d.Cmp(big.NewInt(2)) == 0 {
				return `\sqrt{` + LaTeX(base) + "}"
			}
			return `\sqrt[` + r.Denom().String() + "]{" + LaTeX(base) + "}"
		}
		if f, ok := base.(*gosymbol.Func); ok && r.IsInt() {
			if cmd, ok := operatorFuncs[f.FuncName()]; ok {
				return cmd + "^{" + LaTeX(n) + "}" + latexArg(f.Arg())
			}
		}
	}
	return latexBase(base) + "^{" + LaTeX(exp) + "}"
}

func latexBase(e Expr) string {
	switch v := e.(type) {
	case *gosymbol.Sym, *gosymbol.ConstantNode:
		return LaTeX(e)
	case *gosymbol.Num:
		r := v.Rat()
		if r.Sign() >= 0 && (r.IsInt() || isFloat(r)) {
			return LaTeX(e)
		}
	case *gosymbol.Func:
		if v.FuncName() != "exp" {
			return LaTeX(e)
		}
	}
	return `\left(` + LaTeX(e) + `\right)`
}

func latexFunc(f *gosymbol.Func) string {
	name, arg := f.FuncName(), f.Arg()
	if v, ok := integralVar(f); ok {
		body := LaTeX(arg)
		if _, sum := arg.(*gosymbol.Add); sum {
			body = `\left(` + body + `\right)`
		}
		return `\int ` + body + `\, d` + v
	}
	if inner, ok := derivedFunc(f); ok {
		return latexApply(inner, "'", LaTeX(arg))
	}
	switch name {
	case "exp":
		return "e^{" + LaTeX(arg) + "}"
	case "abs":
		return `\left|{` + LaTeX(arg) + `}\right|`
	case "floor":
		return `\left\lfloor{` + LaTeX(arg) + `}\right\rfloor`
	case "ceil":
		return `\left\lceil{` + LaTeX(arg) + `}\right\rceil`
	}
	if cmd, ok := operatorFuncs[name]; ok {
		return cmd + latexArg(arg)
	}
	return latexApply(name, "", LaTeX(arg))
}

// latexApply renders a function without a LaTeX command of its own. mark is
// written after the name, as in f'.
func latexApply(name, mark, arg string) string {
	wrapped := mark + `{\left(` + arg + ` \right)}`
	if !IsKnownFunc(name) && utf8.RuneCountInString(name) == 1 {
		return name + wrapped
	}
	return `\operatorname{` + name + "}" + wrapped
}

func latexArg(arg Expr) string { return `{\left(` + LaTeX(arg) + ` \right)}` }

// Term classes order a sum: polynomial terms by descending degree, then the
// remaining terms, then the constant.
const (
	classPoly = iota
	classOther
	classNum
)

func termClass(e Expr) (int, float64) {
	if _, ok := e.(*gosymbol.Num); ok {
		return classNum, 0
	}
	if d, ok := degree(e); ok {
		return classPoly, d
	}
	return classOther, 0
}

// degree is the total degree of e when e is a monomial in its symbols.
func degree(e Expr) (float64, bool) {
	switch v := e.(type) {
	case *gosymbol.Num, *gosymbol.ConstantNode:
		return 0, true
	case *gosymbol.Sym:
		return 1, true
	case *gosymbol.Pow:
		n, ok := v.ExpExpr().(*gosymbol.Num)
		if !ok {
			return 0, false
		}
		if _, sym := v.Base().(*gosymbol.Sym); !sym {
			return 0, false
		}
		return n.Float64(), true
	case *gosymbol.Mul:
		total := 0.0
		for _, f := range v.Factors() {
			d, ok := degree(f)
			if !ok {
				return 0, false
			}
			total += d
		}
		return total, true
	}
	return 0, false
}

func lessTerm(a, b Expr) bool {
	ca, da := termClass(a)
	cb, db := termClass(b)
	if ca != cb {
		return ca < cb
	}
	if ca == classPoly && da != db {
		return da > db
	}
	_, ra := coefficient(a)
	_, rb := coefficient(b)
	return ra.String() < rb.String()
}

// Factor classes order a product: constants, symbols, functions, the rest.
func factorClass(e Expr) int {
	base := e
	if p, ok := e.(*gosymbol.Pow); ok {
		base = p.Base()
	}
	switch base.(type) {
	case *gosymbol.Num, *gosymbol.ConstantNode:
		return 0
	case *gosymbol.Sym:
		return 1
	case *gosymbol.Func:
		return 2
	}
	return 3
}

func lessFactor(a, b Expr) bool {
	ca, cb := factorClass(a), factorClass(b)
	if ca != cb {
		return ca < cb
	}
	return a.String() < b.String()
}

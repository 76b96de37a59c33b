package symbolic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/njchilds90/gosymbol"
)

// maxNesting bounds parenthesis and operator nesting.
const maxNesting = 200

// maxDecimalExponent bounds the exponent of a numeric literal, which is kept
// as an exact rational.
const maxDecimalExponent = 400

// SyntaxError reports expression text that could not be parsed.
type SyntaxError struct {
	// Pos is the byte offset of the offending input.
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid syntax at position %d: %s", e.Pos+1, e.Msg)
}

// Function name aliases accepted by the parser, mapped to gosymbol's names.
var funcAliases = map[string]string{
	"log":     "ln",
	"Abs":     "abs",
	"ceiling": "ceil",
	"arcsin":  "asin",
	"arccos":  "acos",
	"arctan":  "atan",
	"arcsinh": "asinh",
	"arccosh": "acosh",
	"arctanh": "atanh",
}

// reciprocalFuncs are written as the reciprocal of a function gosymbol knows.
var reciprocalFuncs = map[string]func(Expr) Expr{
	"sec":  gosymbol.CosOf,
	"csc":  gosymbol.SinOf,
	"cot":  gosymbol.TanOf,
	"sech": gosymbol.CoshOf,
	"csch": gosymbol.SinhOf,
	"coth": gosymbol.TanhOf,
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func (t token) describe() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case isDigit(src[i]) || (src[i] == '.' && i+1 < len(src) && isDigit(src[i+1])):
			end, err := scanNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokNumber, text: src[i:end], pos: i})
			i = end
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size := utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case strings.HasPrefix(src[i:], "**"), strings.HasPrefix(src[i:], "//"):
			toks = append(toks, token{kind: tokOp, text: src[i : i+2], pos: i})
			i += 2
		case strings.ContainsRune("+-*/(),", r):
			toks = append(toks, token{kind: tokOp, text: string(r), pos: i})
			i++
		default:
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", r)}
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func scanNumber(src string, i int) (int, error) {
	digits := func() {
		for i < len(src) && isDigit(src[i]) {
			i++
		}
	}
	digits()
	if i < len(src) && src[i] == '.' {
		i++
		digits()
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j >= len(src) || !isDigit(src[j]) {
			return 0, &SyntaxError{Pos: i, Msg: "malformed exponent in numeric literal"}
		}
		i = j
		digits()
	}
	return i, nil
}

type parser struct {
	toks  []token
	pos   int
	depth int
}

// Parse parses an infix expression into a normalized gosymbol tree: ** is
// exponentiation, / is exact division, and multiplication must be explicit.
// Identifiers followed by parentheses are function calls; other identifiers
// are symbols, except pi and E. Numeric literals, decimals included, are
// exact rationals.
func Parse(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.unexpected(t)
	}
	return normalize(e), nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

func (p *parser) expect(op string) error {
	if !p.isOp(op) {
		t := p.peek()
		return &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("expected %q but found %s", op, t.describe())}
	}
	p.next()
	return nil
}

func (p *parser) unexpected(t token) error {
	return &SyntaxError{Pos: t.pos, Msg: "unexpected " + t.describe()}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return &SyntaxError{Pos: p.peek().pos, Msg: "expression is nested too deeply"}
	}
	return nil
}

func (p *parser) leave() { p.depth-- }

func (p *parser) parseSum() (Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			right = negate(right)
		}
		left = gosymbol.AddOf(left, right)
	}
	return left, nil
}

func (p *parser) parseProduct() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*", "/", "//") {
		op := p.next().text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		switch op {
		case "*":
			left = gosymbol.MulOf(left, right)
		case "/":
			left = divide(left, right)
		case "//":
			left = gosymbol.FloorOf(divide(left, right))
		}
	}
	return left, nil
}

// parseUnary binds looser than ** so that -x**2 is -(x**2).
func (p *parser) parseUnary() (Expr, error) {
	if p.isOp("+", "-") {
		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()
		op := p.next().text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op == "-" {
			return negate(operand), nil
		}
		return operand, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return gosymbol.PowOf(base, exp), nil
}

func negate(e Expr) Expr { return gosymbol.MulOf(gosymbol.N(-1), e) }

func divide(a, b Expr) Expr { return gosymbol.MulOf(a, gosymbol.PowOf(b, gosymbol.N(-1))) }

func (p *parser) parseAtom() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t)
	case tokIdent:
		if p.isOp("(") {
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return buildCall(t, args)
		}
		return buildName(t)
	case tokOp:
		if t.text == "(" {
			e, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.unexpected(t)
}

func (p *parser) parseArgs() ([]Expr, error) {
	var args []Expr
	if p.isOp(")") {
		p.next()
		return args, nil
	}
	for {
		arg, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.isOp(",") {
			p.next()
			continue
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// parseNumber reads a literal as an exact rational through gosymbol's JSON
// form, the only exported way to build a Num wider than int64.
func parseNumber(t token) (Expr, error) {
	if _, err := strconv.ParseFloat(t.text, 64); err != nil || !finiteExponent(t.text) {
		return nil, &SyntaxError{Pos: t.pos, Msg: "numeric literal out of range: " + t.text}
	}
	n, err := gosymbol.FromJSON(map[string]interface{}{"type": "num", "value": t.text})
	if err != nil {
		return nil, &SyntaxError{Pos: t.pos, Msg: "malformed numeric literal " + t.text}
	}
	return n, nil
}

// finiteExponent reports whether the literal's decimal exponent is small
// enough to expand exactly.
func finiteExponent(text string) bool {
	i := strings.IndexAny(text, "eE")
	if i < 0 {
		return true
	}
	exp, err := strconv.Atoi(text[i+1:])
	return err == nil && exp >= -maxDecimalExponent && exp <= maxDecimalExponent
}

func buildName(t token) (Expr, error) {
	switch t.text {
	case "pi":
		return Pi, nil
	case "E":
		return E, nil
	}
	name := canonicalFunc(t.text)
	if IsKnownFunc(name) || isSpecialForm(name) {
		return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("function %s must be called with arguments", t.text)}
	}
	return Symbol(t.text), nil
}

func canonicalFunc(name string) string {
	if alias, ok := funcAliases[name]; ok {
		return alias
	}
	return name
}

func isSpecialForm(name string) bool {
	switch name {
	case "sqrt", "cbrt", "root", "diff", "acot":
		return true
	}
	_, ok := reciprocalFuncs[name]
	return ok
}

func buildCall(t token, args []Expr) (Expr, error) {
	name := canonicalFunc(t.text)
	arity := func(lo, hi int) error {
		if len(args) >= lo && len(args) <= hi {
			return nil
		}
		want := strconv.Itoa(lo)
		if hi > lo {
			want = fmt.Sprintf("%d to %d", lo, hi)
		}
		return &SyntaxError{
			Pos: t.pos,
			Msg: fmt.Sprintf("%s() takes %s argument(s) (%d given)", t.text, want, len(args)),
		}
	}

	switch name {
	case "sqrt":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return gosymbol.SqrtOf(args[0]), nil
	case "cbrt":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return gosymbol.PowOf(args[0], gosymbol.F(1, 3)), nil
	case "root":
		if err := arity(2, 2); err != nil {
			return nil, err
		}
		return gosymbol.PowOf(args[0], gosymbol.PowOf(args[1], gosymbol.N(-1))), nil
	case "ln":
		if err := arity(1, 2); err != nil {
			return nil, err
		}
		if len(args) == 2 {
			return divide(gosymbol.LnOf(args[0]), gosymbol.LnOf(args[1])), nil
		}
		return gosymbol.LnOf(args[0]), nil
	case "acot":
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return gosymbol.AtanOf(gosymbol.PowOf(args[0], gosymbol.N(-1))), nil
	case "diff":
		return buildDiff(t, args)
	}

	if recip, ok := reciprocalFuncs[name]; ok {
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return gosymbol.PowOf(recip(args[0]), gosymbol.N(-1)), nil
	}
	if IsKnownFunc(name) {
		if err := arity(1, 1); err != nil {
			return nil, err
		}
		return FuncOf(name, args[0]), nil
	}
	if len(args) == 0 {
		return nil, &SyntaxError{Pos: t.pos, Msg: t.text + "() requires at least one argument"}
	}
	// Undefined functions only ever fail to evaluate; the first argument is
	// enough to keep their dependence on the variable.
	return opaqueFunc(t.text, args[0]), nil
}

// buildDiff handles diff(e, x[, x...]).
func buildDiff(t token, args []Expr) (Expr, error) {
	if len(args) < 2 {
		return nil, &SyntaxError{Pos: t.pos, Msg: t.text + "() requires an expression and a symbol"}
	}
	e := normalize(args[0])
	for _, a := range args[1:] {
		s, ok := a.(*gosymbol.Sym)
		if !ok {
			return nil, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("%s() expects symbols after the expression, got %s", t.text, a)}
		}
		e = Diff(e, s.Name())
	}
	return e, nil
}

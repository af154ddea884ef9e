package symbolic

import (
	"errors"
	"fmt"
	"math/cmplx"
	"strconv"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	// String returns the ASCII form, e.g. mu_ab^2*exp(-i*omega_ba*tau_1).
	String() string
	// Pretty returns the Unicode form used on rendered diagrams.
	Pretty() string
	// LaTeX returns the expression as a LaTeX string.
	LaTeX() string
	// Subs replaces symbols by the expressions in rules, without simplifying.
	Subs(rules Rules) Expr
	// Simplify normalises products, powers and exponentials.
	Simplify() Expr
	// Equal reports structural equality.
	Equal(other Expr) bool
	// Eval computes the value with symbols bound by env.
	Eval(env Env) (complex128, error)
}

// Rules maps symbol keys (see Sym.Key) to replacement expressions.
type Rules map[string]Expr

// Env binds symbol keys to numeric values.
type Env map[string]complex128

// ErrUnbound is returned by Eval when a symbol has no value.
var ErrUnbound = errors.New("unbound symbol")

// greek maps symbol names to their Unicode and LaTeX spellings.
//
//nolint:gochecknoglobals // Read-only lookup table.
var greek = map[string][2]string{
	"mu":    {"μ", `\mu`},
	"rho":   {"ρ", `\rho`},
	"omega": {"ω", `\omega`},
	"tau":   {"τ", `\tau`},
	"gamma": {"γ", `\gamma`},
}

// ============================================================
// Num
// ============================================================

// Num is an integer constant.
type Num struct{ V int64 }

// N returns the integer constant v.
func N(v int64) *Num { return &Num{V: v} }

func (n *Num) String() string               { return strconv.FormatInt(n.V, 10) }
func (n *Num) Pretty() string               { return n.String() }
func (n *Num) LaTeX() string                { return n.String() }
func (n *Num) Subs(Rules) Expr              { return n }
func (n *Num) Simplify() Expr               { return n }
func (n *Num) Eval(Env) (complex128, error) { return complex(float64(n.V), 0), nil }

// Equal reports whether other is the same constant.
func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)

	return ok && o.V == n.V
}

// ============================================================
// Sym
// ============================================================

// Sym is a named symbol with an optional subscript, e.g. mu_ab.
type Sym struct {
	Name string
	Sub  string
	// TeXSub, when set, replaces Sub in LaTeX output.
	TeXSub string
}

// S returns the symbol name_sub.
func S(name, sub string) *Sym { return &Sym{Name: name, Sub: sub} }

// Key identifies the symbol in Rules and Env.
func (s *Sym) Key() string {
	if s.Sub == "" {
		return s.Name
	}

	return s.Name + "_" + s.Sub
}

func (s *Sym) String() string { return s.Key() }

// Pretty uses the Greek letter for known names.
func (s *Sym) Pretty() string {
	name := s.Name
	if g, ok := greek[s.Name]; ok {
		name = g[0]
	}

	if s.Sub == "" {
		return name
	}

	return name + "_" + s.Sub
}

// LaTeX uses the Greek macro for known names and braces the subscript.
func (s *Sym) LaTeX() string {
	name := s.Name
	if g, ok := greek[s.Name]; ok {
		name = g[1]
	}

	sub := s.Sub
	if s.TeXSub != "" {
		sub = s.TeXSub
	}

	if sub == "" {
		return name
	}

	return name + "_{" + sub + "}"
}

// WithTeX returns a copy of s whose LaTeX subscript is sub.
func (s *Sym) WithTeX(sub string) *Sym {
	return &Sym{Name: s.Name, Sub: s.Sub, TeXSub: sub}
}

// Subs returns the replacement for this symbol if rules has one.
func (s *Sym) Subs(rules Rules) Expr {
	if r, ok := rules[s.Key()]; ok {
		return r
	}

	return s
}

func (s *Sym) Simplify() Expr { return s }

// Equal reports whether other is the same symbol.
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)

	return ok && o.Name == s.Name && o.Sub == s.Sub
}

// Eval looks the symbol up in env.
func (s *Sym) Eval(env Env) (complex128, error) {
	v, ok := env[s.Key()]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnbound, s.Key())
	}

	return v, nil
}

// ============================================================
// Imag
// ============================================================

// Imag is the imaginary unit.
type Imag struct{}

// I returns the imaginary unit.
func I() *Imag { return &Imag{} }

func (*Imag) String() string               { return "i" }
func (*Imag) Pretty() string               { return "i" }
func (*Imag) LaTeX() string                { return "i" }
func (m *Imag) Subs(Rules) Expr            { return m }
func (m *Imag) Simplify() Expr             { return m }
func (*Imag) Eval(Env) (complex128, error) { return 1i, nil }

// Equal reports whether other is the imaginary unit.
func (*Imag) Equal(other Expr) bool {
	_, ok := other.(*Imag)

	return ok
}

// ============================================================
// Pow
// ============================================================

// Pow is Base raised to an integer exponent.
type Pow struct {
	Base Expr
	N    int
}

// PowOf returns base^n without simplifying.
func PowOf(base Expr, n int) *Pow { return &Pow{Base: base, N: n} }

func (p *Pow) String() string { return wrap(p.Base, p.Base.String()) + "^" + strconv.Itoa(p.N) }
func (p *Pow) Pretty() string { return wrap(p.Base, p.Base.Pretty()) + superscript(p.N) }

// LaTeX writes base^{n}.
func (p *Pow) LaTeX() string {
	base := p.Base.LaTeX()
	if _, ok := p.Base.(*Mul); ok {
		base = `\left(` + base + `\right)`
	}

	return base + "^{" + strconv.Itoa(p.N) + "}"
}

func (p *Pow) Subs(rules Rules) Expr { return PowOf(p.Base.Subs(rules), p.N) }

// Simplify folds trivial exponents, constants and nested powers.
func (p *Pow) Simplify() Expr {
	base := p.Base.Simplify()

	switch {
	case p.N == 0:
		return N(1)
	case p.N == 1:
		return base
	}

	switch b := base.(type) {
	case *Num:
		if p.N > 0 {
			v := int64(1)
			for range p.N {
				v *= b.V
			}

			return N(v)
		}
	case *Pow:
		return (&Pow{Base: b.Base, N: b.N * p.N}).Simplify()
	case *Mul:
		factors := make([]Expr, 0, len(b.Factors))
		for _, f := range b.Factors {
			factors = append(factors, PowOf(f, p.N))
		}

		return (&Mul{Factors: factors}).Simplify()
	}

	return PowOf(base, p.N)
}

// Equal reports structural equality.
func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)

	return ok && o.N == p.N && o.Base.Equal(p.Base)
}

// Eval raises the evaluated base to N.
func (p *Pow) Eval(env Env) (complex128, error) {
	b, err := p.Base.Eval(env)
	if err != nil {
		return 0, err
	}

	n := p.N
	if n < 0 {
		if b == 0 {
			return cmplx.Inf(), nil
		}

		b, n = 1/b, -n
	}

	v := complex(1, 0)
	for range n {
		v *= b
	}

	return v, nil
}

// ============================================================
// Exp
// ============================================================

// Exp is the exponential of its argument.
type Exp struct{ Arg Expr }

// ExpOf returns exp(arg) without simplifying.
func ExpOf(arg Expr) *Exp { return &Exp{Arg: arg} }

func (e *Exp) String() string        { return "exp(" + e.Arg.String() + ")" }
func (e *Exp) Pretty() string        { return "exp(" + e.Arg.Pretty() + ")" }
func (e *Exp) LaTeX() string         { return "e^{" + e.Arg.LaTeX() + "}" }
func (e *Exp) Subs(rules Rules) Expr { return ExpOf(e.Arg.Subs(rules)) }

// Simplify turns exp(0) into 1.
func (e *Exp) Simplify() Expr {
	arg := e.Arg.Simplify()
	if n, ok := arg.(*Num); ok && n.V == 0 {
		return N(1)
	}

	return ExpOf(arg)
}

// Equal reports structural equality.
func (e *Exp) Equal(other Expr) bool {
	o, ok := other.(*Exp)

	return ok && o.Arg.Equal(e.Arg)
}

// Eval computes the complex exponential.
func (e *Exp) Eval(env Env) (complex128, error) {
	a, err := e.Arg.Eval(env)
	if err != nil {
		return 0, err
	}

	return cmplx.Exp(a), nil
}

// wrap parenthesises compound bases.
func wrap(e Expr, s string) string {
	switch e.(type) {
	case *Mul, *Pow:
		return "(" + s + ")"
	default:
		return s
	}
}

// superscript writes n with Unicode superscript digits.
func superscript(n int) string {
	const digits = "⁰¹²³⁴⁵⁶⁷⁸⁹"

	var b strings.Builder

	for _, r := range strconv.Itoa(n) {
		if r == '-' {
			b.WriteString("⁻")

			continue
		}

		b.WriteRune([]rune(digits)[r-'0'])
	}

	return b.String()
}

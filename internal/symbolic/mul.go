package symbolic

import "strings"

// Mul is a product of factors.
type Mul struct{ Factors []Expr }

// MulOf returns the product of factors without simplifying.
func MulOf(factors ...Expr) *Mul { return &Mul{Factors: factors} }

// String joins factors with "*", printing a leading -1 as a minus sign.
func (m *Mul) String() string {
	return m.join("*", func(e Expr) string { return wrapMul(e, e.String()) })
}

// Pretty joins factors with spaces.
func (m *Mul) Pretty() string {
	return m.join(" ", func(e Expr) string { return wrapMul(e, e.Pretty()) })
}

// LaTeX joins factors with spaces.
func (m *Mul) LaTeX() string {
	return m.join(" ", func(e Expr) string {
		if _, ok := e.(*Mul); ok {
			return `\left(` + e.LaTeX() + `\right)`
		}

		return e.LaTeX()
	})
}

// join renders the factors separated by sep.
func (m *Mul) join(sep string, render func(Expr) string) string {
	if len(m.Factors) == 0 {
		return "1"
	}

	factors := m.Factors
	prefix := ""

	if n, ok := factors[0].(*Num); ok && n.V == -1 && len(factors) > 1 {
		prefix = "-"
		factors = factors[1:]
	}

	parts := make([]string, 0, len(factors))
	for _, f := range factors {
		parts = append(parts, render(f))
	}

	return prefix + strings.Join(parts, sep)
}

// Subs substitutes into every factor.
func (m *Mul) Subs(rules Rules) Expr {
	factors := make([]Expr, 0, len(m.Factors))
	for _, f := range m.Factors {
		factors = append(factors, f.Subs(rules))
	}

	return MulOf(factors...)
}

// term is a base with its accumulated exponent.
type term struct {
	base Expr
	n    int
}

// Simplify flattens nested products, folds integer coefficients, reduces powers of i,
// collects equal bases into powers in order of first appearance and drops unit factors.
func (m *Mul) Simplify() Expr {
	coefficient := int64(1)
	imaginary := 0

	var terms []term

	add := func(base Expr, n int) {
		for i := range terms {
			if terms[i].base.Equal(base) {
				terms[i].n += n

				return
			}
		}

		terms = append(terms, term{base: base, n: n})
	}

	var collect func(e Expr, n int)
	collect = func(e Expr, n int) {
		switch f := e.(type) {
		case *Num:
			if n < 0 {
				add(f, n)

				return
			}

			for range n {
				coefficient *= f.V
			}
		case *Imag:
			imaginary += n
		case *Mul:
			for _, inner := range f.Factors {
				collect(inner, n)
			}
		case *Pow:
			collect(f.Base, n*f.N)
		default:
			add(f, n)
		}
	}

	for _, f := range m.Factors {
		collect(f.Simplify(), 1)
	}

	if coefficient == 0 {
		return N(0)
	}

	// i^2 = -1.
	switch ((imaginary % 4) + 4) % 4 {
	case 1:
		terms = append([]term{{base: I(), n: 1}}, terms...)
	case 2:
		coefficient = -coefficient
	case 3:
		coefficient = -coefficient
		terms = append([]term{{base: I(), n: 1}}, terms...)
	}

	factors := make([]Expr, 0, len(terms)+1)
	if coefficient != 1 {
		factors = append(factors, N(coefficient))
	}

	for _, t := range terms {
		switch t.n {
		case 0:
		case 1:
			factors = append(factors, t.base)
		default:
			factors = append(factors, PowOf(t.base, t.n))
		}
	}

	switch len(factors) {
	case 0:
		return N(1)
	case 1:
		return factors[0]
	default:
		return MulOf(factors...)
	}
}

// Equal reports structural equality, factor by factor.
func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(o.Factors) != len(m.Factors) {
		return false
	}

	for i := range m.Factors {
		if !m.Factors[i].Equal(o.Factors[i]) {
			return false
		}
	}

	return true
}

// Eval multiplies the evaluated factors.
func (m *Mul) Eval(env Env) (complex128, error) {
	v := complex(1, 0)

	for _, f := range m.Factors {
		x, err := f.Eval(env)
		if err != nil {
			return 0, err
		}

		v *= x
	}

	return v, nil
}

// wrapMul parenthesises nested products.
func wrapMul(e Expr, s string) string {
	if _, ok := e.(*Mul); ok {
		return "(" + s + ")"
	}

	return s
}

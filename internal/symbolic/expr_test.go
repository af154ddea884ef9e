package symbolic

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/require"
)

// propagator builds exp(-i*omega_<pair>*tau_<n>).
func propagator(pair, n string) Expr {
	return ExpOf(MulOf(N(-1), I(), S("omega", pair), S("tau", n)))
}

// TestSimplify_CollectsPowers checks that repeated factors merge in order of first appearance.
func TestSimplify_CollectsPowers(t *testing.T) {
	t.Parallel()

	e := MulOf(N(-1), S("mu", "ab"), S("rho", "aa"), S("mu", "ab"), N(1), PowOf(S("mu", "ab"), 2)).Simplify()

	require.Equal(t, "-mu_ab^4*rho_aa", e.String())
	require.Equal(t, "-μ_ab⁴ ρ_aa", e.Pretty())
	require.Equal(t, `-\mu_{ab}^{4} \rho_{aa}`, e.LaTeX())
}

// TestSimplify_ExpZero verifies that exp(0) disappears from products.
func TestSimplify_ExpZero(t *testing.T) {
	t.Parallel()

	raw := MulOf(S("rho", "aa"), propagator("aa", "2"), propagator("ba", "1"))
	rules := Rules{"omega_aa": N(0)}

	e := raw.Subs(rules).Simplify()
	require.Equal(t, "rho_aa*exp(-i*omega_ba*tau_1)", e.String())
	require.Equal(t, `\rho_{aa} e^{-i \omega_{ba} \tau_{1}}`, e.LaTeX())

	// Subs alone does not simplify.
	require.Contains(t, raw.Subs(rules).String(), "exp(-i*0*tau_2)")
}

// TestSimplify_ImaginaryUnit reduces powers of i.
func TestSimplify_ImaginaryUnit(t *testing.T) {
	t.Parallel()

	require.Equal(t, "-1", MulOf(I(), I()).Simplify().String())
	require.Equal(t, "-i", MulOf(I(), I(), I()).Simplify().String())
	require.Equal(t, "1", MulOf(I(), I(), I(), I()).Simplify().String())
	require.Equal(t, "0", MulOf(I(), N(0), S("x", "")).Simplify().String())
}

// TestPow_Simplify covers trivial exponents, numeric bases, nested powers and product bases.
func TestPow_Simplify(t *testing.T) {
	t.Parallel()

	x := S("x", "")

	require.True(t, PowOf(x, 0).Simplify().Equal(N(1)))
	require.True(t, PowOf(x, 1).Simplify().Equal(x))
	require.True(t, PowOf(N(3), 3).Simplify().Equal(N(27)))
	require.True(t, PowOf(PowOf(x, 2), 3).Simplify().Equal(PowOf(x, 6)))
	require.Equal(t, "4*x^2", PowOf(MulOf(N(2), x), 2).Simplify().String())
	require.Equal(t, "x⁻²", PowOf(x, -2).Pretty())
}

// TestSubs_ReplacesSymbols checks rule-based substitution across the tree.
func TestSubs_ReplacesSymbols(t *testing.T) {
	t.Parallel()

	e := MulOf(S("mu", "ba"), PowOf(S("mu", "ab"), 2)).Subs(Rules{"mu_ba": S("mu", "ab")}).Simplify()

	require.Equal(t, "mu_ab^3", e.String())
	require.False(t, e.Equal(S("mu", "ab")))
}

// TestSym_TeXSubscript checks that a LaTeX subscript only changes LaTeX output.
func TestSym_TeXSubscript(t *testing.T) {
	t.Parallel()

	rho := S("rho", "ab").WithTeX(`\alpha\beta`)

	require.Equal(t, `\rho_{\alpha\beta}`, rho.LaTeX())
	require.Equal(t, "rho_ab", rho.String())
	require.Equal(t, "ρ_ab", rho.Pretty())
	require.True(t, rho.Equal(S("rho", "ab")))
	require.Equal(t, `\rho_{ab}`, rho.WithTeX("").LaTeX())
	require.Equal(t, `\mu_{\alpha\beta}^{2}`, PowOf(S("mu", "ab").WithTeX(`\alpha\beta`), 2).LaTeX())
}

// TestEval computes a propagator product numerically.
func TestEval(t *testing.T) {
	t.Parallel()

	e := MulOf(N(-1), PowOf(S("mu", "ab"), 2), propagator("ba", "1")).Simplify()
	env := Env{
		"mu_ab":    2,
		"omega_ba": complex(math.Pi, 0),
		"tau_1":    1,
	}

	v, err := e.Eval(env)
	require.NoError(t, err)
	require.InDelta(t, 4, real(v), 1e-9)
	require.InDelta(t, 0, imag(v), 1e-9)

	delete(env, "tau_1")

	_, err = e.Eval(env)
	require.ErrorIs(t, err, ErrUnbound)

	v, err = PowOf(S("x", ""), -1).Eval(Env{"x": 0})
	require.NoError(t, err)
	require.True(t, cmplx.IsInf(v))
}

// TestEqual checks structural equality across node kinds.
func TestEqual(t *testing.T) {
	t.Parallel()

	require.True(t, propagator("ab", "1").Equal(propagator("ab", "1")))
	require.False(t, propagator("ab", "1").Equal(propagator("ab", "2")))
	require.False(t, N(1).Equal(S("x", "")))
	require.False(t, MulOf(N(1)).Equal(MulOf(N(1), N(1))))
	require.True(t, I().Equal(I()))
	require.Equal(t, "1", MulOf().String())
}

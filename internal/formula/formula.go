package formula

import (
	"strconv"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/symbolic"
)

// levelSym returns name_<i><j> with Greek level macros in its LaTeX form.
func levelSym(name string, i, j int) *symbolic.Sym {
	return symbolic.S(name, diagram.LevelName(i)+diagram.LevelName(j)).
		WithTeX(diagram.LevelLaTeX(i) + diagram.LevelLaTeX(j))
}

// Dipole returns the transition dipole symbol mu_<from><to>.
func Dipole(from, to int) *symbolic.Sym {
	return levelSym("mu", from, to)
}

// Frequency returns the coherence frequency symbol omega_<ket><bra>.
func Frequency(s diagram.State) *symbolic.Sym {
	return levelSym("omega", s.Ket, s.Bra)
}

// Delay returns the symbol of the j-th waiting time, tau_j.
func Delay(j int) *symbolic.Sym {
	return symbolic.S("tau", strconv.Itoa(j))
}

// Population returns the initial density-matrix element rho_<ss>.
func Population(s diagram.State) *symbolic.Sym {
	return levelSym("rho", s.Ket, s.Bra)
}

// Propagator returns exp(-i*omega*tau_j) for the element s evolving during delay j.
func Propagator(s diagram.State, j int) symbolic.Expr {
	return symbolic.ExpOf(symbolic.MulOf(symbolic.N(-1), symbolic.I(), Frequency(s), Delay(j)))
}

// Build returns the unsimplified response product of d.
func Build(d *diagram.Diagram) symbolic.Expr {
	var ket, bra []symbolic.Expr

	for _, in := range d.Interactions {
		mu := Dipole(in.From, in.To)
		if in.Side == diagram.Ket {
			ket = append([]symbolic.Expr{mu}, ket...)
		} else {
			bra = append(bra, mu)
		}
	}

	factors := make([]symbolic.Expr, 0, len(d.Interactions)*2+2)
	factors = append(factors, symbolic.N(int64(d.Sign())))
	factors = append(factors, ket...)
	factors = append(factors, Population(d.Start))
	factors = append(factors, bra...)

	states := d.States()
	for j, in := range d.Fields() {
		factors = append(factors, Propagator(states[j], in.Field))
	}

	return symbolic.MulOf(factors...)
}

// Rules returns the substitution rules for d: mu_ba -> mu_ab for every downward
// transition and omega_ss -> 0 for every population the diagram passes through.
func Rules(d *diagram.Diagram) symbolic.Rules {
	rules := make(symbolic.Rules)

	for _, in := range d.Interactions {
		if in.From > in.To {
			rules[Dipole(in.From, in.To).Key()] = Dipole(in.To, in.From)
		}
	}

	for _, s := range append([]diagram.State{d.Start}, d.States()...) {
		if s.IsPopulation() {
			rules[Frequency(s).Key()] = symbolic.N(0)
		}
	}

	return rules
}

// Response returns the simplified response expression of d.
func Response(d *diagram.Diagram) symbolic.Expr {
	return Build(d).Subs(Rules(d)).Simplify()
}

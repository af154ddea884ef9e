package diagram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnknownSide is returned when a side name is neither ket nor bra.
	ErrUnknownSide = errors.New("unknown side")
	// ErrInvalidDiagram is returned by Validate and FromInteractions for broken sequences.
	ErrInvalidDiagram = errors.New("invalid diagram")
	// ErrNotFound is returned when a diagram index is outside an enumeration.
	ErrNotFound = errors.New("diagram not found")
)

// Pathway names the Liouville pathway of a third-order diagram.
type Pathway string

const (
	// GroundStateBleach evolves in the ground-state population between fields 2 and 3.
	GroundStateBleach Pathway = "GSB"
	// StimulatedEmission evolves in the excited-state population and radiates on 0-1.
	StimulatedEmission Pathway = "SE"
	// ExcitedStateAbsorption evolves in the excited-state population and radiates on 1-2.
	ExcitedStateAbsorption Pathway = "ESA"
	// NoPathway is used for orders other than three and for coherence pathways.
	NoPathway Pathway = ""
)

// Kind classifies a third-order diagram by its phase-matching direction.
type Kind string

const (
	// Rephasing is -k1+k2+k3.
	Rephasing Kind = "rephasing"
	// NonRephasing is +k1-k2+k3.
	NonRephasing Kind = "non-rephasing"
	// DoubleQuantum is +k1+k2-k3.
	DoubleQuantum Kind = "double-quantum"
	// Unclassified covers every other order or direction.
	Unclassified Kind = ""
)

// Diagram is one sequence of field interactions followed by the signal emission.
type Diagram struct {
	// Start is the initial population.
	Start State
	// Interactions lists the field interactions in time order; the last one is the signal.
	Interactions []Interaction
}

// Order returns the number of field interactions.
func (d *Diagram) Order() int {
	n := 0

	for _, in := range d.Interactions {
		if !in.IsSignal() {
			n++
		}
	}

	return n
}

// Fields returns the field interactions without the signal.
func (d *Diagram) Fields() []Interaction {
	fields := make([]Interaction, 0, len(d.Interactions))

	for _, in := range d.Interactions {
		if !in.IsSignal() {
			fields = append(fields, in)
		}
	}

	return fields
}

// Signal returns the terminal emission and whether the diagram has one.
func (d *Diagram) Signal() (Interaction, bool) {
	if len(d.Interactions) == 0 {
		return Interaction{}, false
	}

	last := d.Interactions[len(d.Interactions)-1]

	return last, last.IsSignal()
}

// States returns the accumulated state after every interaction, signal included.
func (d *Diagram) States() []State {
	states := make([]State, 0, len(d.Interactions))
	current := d.Start

	for _, in := range d.Interactions {
		current = current.Apply(in.Side, in.Delta())
		states = append(states, current)
	}

	return states
}

// Final returns the accumulated state after the last field interaction.
// This is the coherence the signal is emitted from.
func (d *Diagram) Final() State {
	current := d.Start

	for _, in := range d.Fields() {
		current = current.Apply(in.Side, in.Delta())
	}

	return current
}

// Sign returns (-1)^m where m counts the field interactions on the bra side.
func (d *Diagram) Sign() int {
	sign := 1

	for _, in := range d.Fields() {
		if in.Side == Bra {
			sign = -sign
		}
	}

	return sign
}

// PhaseMatching returns the coefficient of each field wave vector in the signal direction.
// The radiating element |k><k+1| emits along minus the sum of the imprinted phases:
// a ket excitation imprints +k, a bra excitation -k.
func (d *Diagram) PhaseMatching() []int {
	fields := d.Fields()
	coefficients := make([]int, len(fields))

	for i, in := range fields {
		if in.Side == Ket {
			coefficients[i] = -in.Delta()
		} else {
			coefficients[i] = in.Delta()
		}
	}

	return coefficients
}

// Signature renders PhaseMatching as e.g. "-k1+k2+k3".
func (d *Diagram) Signature() string {
	var b strings.Builder

	for i, c := range d.PhaseMatching() {
		if c < 0 {
			b.WriteByte('-')
		} else {
			b.WriteByte('+')
		}

		b.WriteByte('k')
		b.WriteString(strconv.Itoa(i + 1))
	}

	return b.String()
}

// Kind classifies third-order diagrams by their phase-matching direction.
func (d *Diagram) Kind() Kind {
	switch d.Signature() {
	case "-k1+k2+k3":
		return Rephasing
	case "+k1-k2+k3":
		return NonRephasing
	case "+k1+k2-k3":
		return DoubleQuantum
	default:
		return Unclassified
	}
}

// Pathway names the Liouville pathway of third-order diagrams starting in the ground state.
func (d *Diagram) Pathway() Pathway {
	if d.Order() != 3 || d.Start != (State{}) {
		return NoPathway
	}

	states := d.States()
	waiting, final := states[1], d.Final()

	switch {
	case waiting == State{Ket: 0, Bra: 0} && final == State{Ket: 0, Bra: 1}:
		return GroundStateBleach
	case waiting == State{Ket: 1, Bra: 1} && final == State{Ket: 0, Bra: 1}:
		return StimulatedEmission
	case waiting == State{Ket: 1, Bra: 1} && final == State{Ket: 1, Bra: 2}:
		return ExcitedStateAbsorption
	default:
		return NoPathway
	}
}

// Validate re-checks the structural invariants of an enumerated diagram.
func (d *Diagram) Validate(maxLevel int) error {
	if !d.Start.Valid(maxLevel) {
		return fmt.Errorf("%w: start state %s", ErrInvalidDiagram, d.Start)
	}

	n := len(d.Interactions)
	if n < 2 {
		return fmt.Errorf("%w: %d interactions", ErrInvalidDiagram, n)
	}

	current := d.Start

	for i, in := range d.Interactions {
		last := i == n-1

		switch {
		case last && !in.IsSignal():
			return fmt.Errorf("%w: last interaction is not the signal", ErrInvalidDiagram)
		case !last && in.Field != i+1:
			return fmt.Errorf("%w: interaction %d carries field %d", ErrInvalidDiagram, i+1, in.Field)
		case in.Delta() != 1 && in.Delta() != -1:
			return fmt.Errorf("%w: %s moves %d rungs", ErrInvalidDiagram, in.Label(), in.Delta())
		case current.Level(in.Side) != in.From:
			return fmt.Errorf("%w: %s starts from %d, state is %s", ErrInvalidDiagram, in.Label(), in.From, current)
		}

		if last && current.Coherence() != 1 {
			return fmt.Errorf("%w: signal emitted from %s", ErrInvalidDiagram, current)
		}

		current = current.Apply(in.Side, in.Delta())
		if !current.Valid(maxLevel) {
			return fmt.Errorf("%w: %s reaches %s", ErrInvalidDiagram, in.Label(), current)
		}
	}

	return nil
}

// Clone returns a deep copy of the diagram.
func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}

	return &Diagram{
		Start:        d.Start,
		Interactions: append([]Interaction(nil), d.Interactions...),
	}
}

// String renders the interaction sequence compactly, e.g. "k1:ket+ k2:ket- k3:bra+ ks:bra-".
func (d *Diagram) String() string {
	parts := make([]string, 0, len(d.Interactions))

	for _, in := range d.Interactions {
		sign := "+"
		if in.Delta() < 0 {
			sign = "-"
		}

		parts = append(parts, in.Label()+":"+in.Side.String()+sign)
	}

	return strings.Join(parts, " ")
}

// FromInteractions rebuilds and validates a diagram from a start state and
// the (field, side, delta) triples of its interactions.
func FromInteractions(start State, steps []Step, maxLevel int) (*Diagram, error) {
	d := &Diagram{
		Start:        start,
		Interactions: make([]Interaction, 0, len(steps)),
	}

	current := start

	for _, step := range steps {
		from := current.Level(step.Side)
		d.Interactions = append(d.Interactions, Interaction{
			Field: step.Field,
			Side:  step.Side,
			From:  from,
			To:    from + step.Delta,
		})
		current = current.Apply(step.Side, step.Delta)
	}

	if err := d.Validate(maxLevel); err != nil {
		return nil, err
	}

	return d, nil
}

// Step is the serialisable core of an Interaction.
type Step struct {
	Field int
	Side  Side
	Delta int
}

// Steps returns the serialisable form of the interactions.
func (d *Diagram) Steps() []Step {
	steps := make([]Step, 0, len(d.Interactions))

	for _, in := range d.Interactions {
		steps = append(steps, Step{Field: in.Field, Side: in.Side, Delta: in.Delta()})
	}

	return steps
}

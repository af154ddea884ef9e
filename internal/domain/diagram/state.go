package diagram

import (
	"fmt"
)

// Side selects the line of the diagram an interaction acts on.
type Side int

const (
	// Ket is the left line of the diagram.
	Ket Side = iota
	// Bra is the right line of the diagram.
	Bra
)

// String returns "ket" or "bra".
func (s Side) String() string {
	switch s {
	case Ket:
		return "ket"
	case Bra:
		return "bra"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// ParseSide converts "ket"/"bra" back into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "ket":
		return Ket, nil
	case "bra":
		return Bra, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, s)
	}
}

// Direction tells whether an arrow points into the diagram or out of it.
type Direction int

const (
	// In marks an excitation of the side it acts on.
	In Direction = iota
	// Out marks a de-excitation of the side it acts on.
	Out
)

// String returns "in" or "out".
func (d Direction) String() string {
	if d == In {
		return "in"
	}

	return "out"
}

// State is the pair of ladder indices of the density-matrix element |Ket><Bra|.
type State struct {
	Ket int
	Bra int
}

// Apply returns the state after moving the given side by delta rungs.
func (s State) Apply(side Side, delta int) State {
	if side == Ket {
		s.Ket += delta
	} else {
		s.Bra += delta
	}

	return s
}

// Level returns the index held by the given side.
func (s State) Level(side Side) int {
	if side == Ket {
		return s.Ket
	}

	return s.Bra
}

// IsPopulation reports whether ket and bra are the same level.
func (s State) IsPopulation() bool {
	return s.Ket == s.Bra
}

// Coherence returns Bra-Ket.
func (s State) Coherence() int {
	return s.Bra - s.Ket
}

// Valid reports whether both indices are non-negative and, if maxLevel > 0, at most maxLevel.
func (s State) Valid(maxLevel int) bool {
	if s.Ket < 0 || s.Bra < 0 {
		return false
	}

	if maxLevel > 0 && (s.Ket > maxLevel || s.Bra > maxLevel) {
		return false
	}

	return true
}

// String renders the state as (ket,bra).
func (s State) String() string {
	return fmt.Sprintf("(%d,%d)", s.Ket, s.Bra)
}

// Interaction is a single light-matter event on one side of the diagram.
type Interaction struct {
	// Field is the 1-based index of the field; SignalField marks the emitted signal.
	Field int
	// Side is the line the field acts on.
	Side Side
	// From is the level of that side before the interaction.
	From int
	// To is the level of that side after the interaction.
	To int
}

// SignalField is the Field value of the terminal signal emission.
const SignalField = 0

// IsSignal reports whether this is the terminal emission.
func (i Interaction) IsSignal() bool {
	return i.Field == SignalField
}

// Delta returns To-From.
func (i Interaction) Delta() int {
	return i.To - i.From
}

// Direction returns In for excitations and Out for de-excitations.
func (i Interaction) Direction() Direction {
	if i.Delta() > 0 {
		return In
	}

	return Out
}

// Label returns k1..kn for fields and ks for the signal.
func (i Interaction) Label() string {
	if i.IsSignal() {
		return "ks"
	}

	return fmt.Sprintf("k%d", i.Field)
}

// Transition returns the ASCII level pair, e.g. "ab" for 0->1.
func (i Interaction) Transition() string {
	return LevelName(i.From) + LevelName(i.To)
}

package diagram

import "time"

// Entry pairs a diagram with its response-function expression.
type Entry struct {
	// Diagram is the enumerated interaction sequence.
	Diagram *Diagram
	// Formula is the plain-text response expression.
	Formula string
	// LaTeX is the same expression as a LaTeX string.
	LaTeX string
}

// Catalog is the persisted result of one enumeration run.
type Catalog struct {
	// ID identifies the run.
	ID string
	// CreatedAt is when the run finished.
	CreatedAt time.Time
	// Creator is "user@host" of the process that produced the run, if known.
	Creator string
	// Order is the perturbation order of every entry.
	Order int
	// MaxLevel is the level cap used during enumeration; zero means unbounded.
	MaxLevel int
	// Entries lists the diagrams in enumeration order.
	Entries []Entry
}

// Clone returns a deep copy of the catalog.
func (c *Catalog) Clone() *Catalog {
	if c == nil {
		return nil
	}

	cloned := *c
	cloned.Entries = make([]Entry, len(c.Entries))

	for i, e := range c.Entries {
		cloned.Entries[i] = Entry{
			Diagram: e.Diagram.Clone(),
			Formula: e.Formula,
			LaTeX:   e.LaTeX,
		}
	}

	return &cloned
}

package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

type catalogRecord struct {
	ID        string        `yaml:"id"                msgpack:"id"`
	CreatedAt time.Time     `yaml:"created_at"        msgpack:"created_at"`
	Creator   string        `yaml:"creator,omitempty" msgpack:"creator,omitempty"`
	Order     int           `yaml:"order"             msgpack:"order"`
	MaxLevel  int           `yaml:"max_level"         msgpack:"max_level"`
	Entries   []entryRecord `yaml:"entries"           msgpack:"entries"`
}

type entryRecord struct {
	Start     stateRecord  `yaml:"start"     msgpack:"start"`
	Steps     []stepRecord `yaml:"steps"     msgpack:"steps"`
	Signature string       `yaml:"signature" msgpack:"signature"`
	Formula   string       `yaml:"formula"   msgpack:"formula"`
	LaTeX     string       `yaml:"latex"     msgpack:"latex"`
}

type stateRecord struct {
	Ket int `yaml:"ket" msgpack:"ket"`
	Bra int `yaml:"bra" msgpack:"bra"`
}

type stepRecord struct {
	Field int    `yaml:"field" msgpack:"field"`
	Side  string `yaml:"side"  msgpack:"side"`
	Delta int    `yaml:"delta" msgpack:"delta"`
}

// toRecord converts the domain catalog into its storage form.
func toRecord(c *diagram.Catalog) *catalogRecord {
	record := &catalogRecord{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Creator:   c.Creator,
		Order:     c.Order,
		MaxLevel:  c.MaxLevel,
		Entries:   make([]entryRecord, 0, len(c.Entries)),
	}

	for _, e := range c.Entries {
		steps := e.Diagram.Steps()
		stored := make([]stepRecord, 0, len(steps))

		for _, s := range steps {
			stored = append(stored, stepRecord{
				Field: s.Field,
				Side:  s.Side.String(),
				Delta: s.Delta,
			})
		}

		record.Entries = append(record.Entries, entryRecord{
			Start:     stateRecord{Ket: e.Diagram.Start.Ket, Bra: e.Diagram.Start.Bra},
			Steps:     stored,
			Signature: e.Diagram.Signature(),
			Formula:   e.Formula,
			LaTeX:     e.LaTeX,
		})
	}

	return record
}

// fromRecord rebuilds the domain catalog and validates every diagram.
func fromRecord(record *catalogRecord) (*diagram.Catalog, error) {
	if _, err := uuid.Parse(record.ID); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, record.ID)
	}

	c := &diagram.Catalog{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		Creator:   record.Creator,
		Order:     record.Order,
		MaxLevel:  record.MaxLevel,
		Entries:   make([]diagram.Entry, 0, len(record.Entries)),
	}

	for i, e := range record.Entries {
		steps := make([]diagram.Step, 0, len(e.Steps))

		for _, s := range e.Steps {
			side, err := diagram.ParseSide(s.Side)
			if err != nil {
				return nil, fmt.Errorf("entry %d: %w", i+1, err)
			}

			steps = append(steps, diagram.Step{Field: s.Field, Side: side, Delta: s.Delta})
		}

		start := diagram.State{Ket: e.Start.Ket, Bra: e.Start.Bra}

		d, err := diagram.FromInteractions(start, steps, record.MaxLevel)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}

		if d.Order() != record.Order {
			return nil, fmt.Errorf("entry %d: %w: order %d, catalog order %d",
				i+1, diagram.ErrInvalidDiagram, d.Order(), record.Order)
		}

		c.Entries = append(c.Entries, diagram.Entry{
			Diagram: d,
			Formula: e.Formula,
			LaTeX:   e.LaTeX,
		})
	}

	return c, nil
}

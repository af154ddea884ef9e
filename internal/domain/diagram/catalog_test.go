package diagram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCatalogClone verifies that Clone deep-copies entries and their diagrams.
func TestCatalogClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, (*Catalog)(nil).Clone())

	c := &Catalog{
		ID:        "run",
		CreatedAt: time.Now().UTC(),
		Order:     3,
		Entries: []Entry{
			{Diagram: rephasingGSB(t), Formula: "f", LaTeX: "l"},
		},
	}

	cloned := c.Clone()
	require.Equal(t, c, cloned)
	require.NotSame(t, c.Entries[0].Diagram, cloned.Entries[0].Diagram)

	cloned.Entries[0].Formula = "changed"
	require.Equal(t, "f", c.Entries[0].Formula)
}

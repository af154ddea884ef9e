//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/formula"
	"github.com/oshokin/feynman-diagrams/internal/generator"
	"github.com/oshokin/feynman-diagrams/internal/logger"
)

// Enumerate generates every diagram of the given order, derives its response
// and returns the run as a new catalog.
func Enumerate(ctx context.Context, order, maxLevel int) (*diagram.Catalog, error) {
	started := time.Now()

	diagrams, err := generator.Generate(ctx, generator.Options{
		Order:    order,
		MaxLevel: maxLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("enumerate order %d: %w", order, err)
	}

	catalog := &diagram.Catalog{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Order:     order,
		MaxLevel:  maxLevel,
		Entries:   Entries(diagrams),
	}

	if creator, err := DetectCreator(); err == nil {
		catalog.Creator = creator
	} else {
		logger.DebugKV(ctx, "Creator unknown", "error", err)
	}

	logger.DebugKV(ctx, "Enumeration finished",
		"order", order,
		"max_level", maxLevel,
		"diagrams", len(diagrams),
		"elapsed", time.Since(started),
	)

	return catalog, nil
}

// Entries pairs each diagram with its simplified response in ASCII and LaTeX.
func Entries(diagrams []*diagram.Diagram) []diagram.Entry {
	entries := make([]diagram.Entry, 0, len(diagrams))

	for _, d := range diagrams {
		response := formula.Response(d)
		entries = append(entries, diagram.Entry{
			Diagram: d,
			Formula: response.String(),
			LaTeX:   response.LaTeX(),
		})
	}

	return entries
}

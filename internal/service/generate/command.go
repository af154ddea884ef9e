package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/formula"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/render"
	repository "github.com/oshokin/feynman-diagrams/internal/repository/catalog"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// Options controls one enumeration run.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Order overrides the configured order when positive.
	Order int
	// MaxLevel overrides the configured level cap when not nil.
	MaxLevel *int
	// OutputDir overrides the configured output directory when set.
	OutputDir string
	// CatalogFormat is "yaml" or "msgpack"; empty means yaml.
	CatalogFormat string
	// LaTeX prints LaTeX instead of Unicode formulas.
	LaTeX bool
	// Out receives the printed diagrams; defaults to stdout.
	Out io.Writer
}

// Run enumerates, prints and optionally stores the diagrams.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "generate")

	cfg, err := common.LoadSettings(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}

	order, maxLevel := cfg.Order, cfg.MaxLevel
	if opts.Order > 0 {
		order = opts.Order
	}

	if opts.MaxLevel != nil {
		maxLevel = *opts.MaxLevel
	}

	outputDir := cfg.OutputDir
	if opts.OutputDir != "" {
		outputDir = opts.OutputDir
	}

	// Check the format before the enumeration runs.
	format := repository.FormatYAML
	if opts.CatalogFormat != "" {
		if format, err = repository.ParseFormat(opts.CatalogFormat); err != nil {
			return err
		}
	}

	catalog, err := common.Enumerate(ctx, order, maxLevel)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if err = Print(out, catalog, opts.LaTeX); err != nil {
		return err
	}

	if outputDir == "" {
		return nil
	}

	if _, err = common.WriteDiagrams(ctx, outputDir, catalog, cfg.Render); err != nil {
		return err
	}

	repo, err := repository.NewFileRepository(filepath.Join(outputDir, "catalog."+format.Extension()))
	if err != nil {
		return err
	}

	if err = repo.Save(ctx, catalog); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}

	logger.InfoKV(ctx, "Catalog saved", "path", repo.Path(), "id", catalog.ID)

	return nil
}

// Print writes every catalog entry as a terminal diagram followed by a summary line.
func Print(w io.Writer, c *diagram.Catalog, latex bool) error {
	for i, e := range c.Entries {
		expr := formula.Response(e.Diagram)

		text := expr.Pretty()
		if latex {
			text = expr.LaTeX()
		}

		if _, err := fmt.Fprintf(w, "#%d\n%s\n\n", i+1, render.Text(e.Diagram, text)); err != nil {
			return fmt.Errorf("print diagram %d: %w", i+1, err)
		}
	}

	if _, err := fmt.Fprintf(w, "%d diagrams of order %d\n", len(c.Entries), c.Order); err != nil {
		return fmt.Errorf("print summary: %w", err)
	}

	return nil
}

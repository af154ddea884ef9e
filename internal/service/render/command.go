package render

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/oshokin/feynman-diagrams/internal/logger"
	repository "github.com/oshokin/feynman-diagrams/internal/repository/catalog"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// Options controls re-rendering of a catalog.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// CatalogPath is the catalog file to render.
	CatalogPath string
	// OutputDir receives the PNG files; defaults to the catalog's directory.
	OutputDir string
	// Width and Height override the configured canvas when positive.
	Width, Height int
}

// errCatalogRequired is returned when no catalog path is given.
var errCatalogRequired = errors.New("catalog path must be provided")

// Run loads the catalog and writes one PNG per entry.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "render")

	if opts.CatalogPath == "" {
		return errCatalogRequired
	}

	cfg, err := common.LoadSettings(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}

	settings := cfg.Render
	if opts.Width > 0 {
		settings.Width = opts.Width
	}

	if opts.Height > 0 {
		settings.Height = opts.Height
	}

	repo, err := repository.NewFileRepository(opts.CatalogPath)
	if err != nil {
		return err
	}

	catalog, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", opts.CatalogPath, err)
	}

	logger.InfoKV(ctx, "Catalog loaded",
		"id", catalog.ID,
		"order", catalog.Order,
		"diagrams", len(catalog.Entries),
		"creator", catalog.Creator,
	)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(repo.Path())
	}

	_, err = common.WriteDiagrams(ctx, outputDir, catalog, settings)

	return err
}

//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/formula"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/render"
)

// DiagramFilename names the PNG of the index-th (1-based) diagram.
func DiagramFilename(index int) string {
	return fmt.Sprintf("diagram-%02d.png", index)
}

// WriteDiagrams renders every catalog entry into dir and returns the written paths.
func WriteDiagrams(ctx context.Context, dir string, c *diagram.Catalog, settings config.Render) ([]string, error) {
	if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(c.Entries))

	for i, e := range c.Entries {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path := filepath.Join(dir, DiagramFilename(i+1))

		if err := writePNG(path, e.Diagram, settings); err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	logger.InfoKV(ctx, "Diagrams rendered", "dir", dir, "files", len(paths))

	return paths, nil
}

// WriteFile stores data at path with the default permissions, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), config.DefaultDirPermissions); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func writePNG(path string, d *diagram.Diagram, settings config.Render) (err error) {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, config.DefaultFilePermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	// The PNG carries the Unicode rendering; catalogs keep ASCII and LaTeX.
	err = render.PNG(file, d, formula.Response(d).Pretty(), render.PNGOptions{
		Width:  settings.Width,
		Height: settings.Height,
		Title:  d.Signature(),
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	return nil
}

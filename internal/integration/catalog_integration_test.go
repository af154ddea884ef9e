package integration

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/feynman-diagrams/internal/service/common"
	"github.com/oshokin/feynman-diagrams/internal/service/generate"
	"github.com/oshokin/feynman-diagrams/internal/service/render"
)

// TestGenerateThenRender writes a MessagePack catalog and renders it again at another size.
func TestGenerateThenRender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("render:\n  width: 96\n  height: 128\n"), 0o600))

	generated := t.TempDir()

	var out bytes.Buffer

	require.NoError(t, generate.Run(ctx, &generate.Options{
		ConfigPath:    settings,
		Order:         3,
		OutputDir:     generated,
		CatalogFormat: "msgpack",
		Out:           &out,
	}))
	require.Contains(t, out.String(), "8 diagrams of order 3")

	rendered := filepath.Join(t.TempDir(), "large")

	require.NoError(t, render.Run(ctx, &render.Options{
		ConfigPath:  settings,
		CatalogPath: filepath.Join(generated, "catalog.msgpack"),
		OutputDir:   rendered,
		Width:       200,
		Height:      260,
	}))

	for i := 1; i <= 8; i++ {
		small := decodeSize(t, filepath.Join(generated, common.DiagramFilename(i)))
		large := decodeSize(t, filepath.Join(rendered, common.DiagramFilename(i)))

		require.Equal(t, [2]int{96, 128}, small)
		require.Equal(t, [2]int{200, 260}, large)
	}
}

func decodeSize(t *testing.T, path string) [2]int {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)

	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)

	return [2]int{cfg.Width, cfg.Height}
}

package evaluate

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/feynman-diagrams/internal/evaluate"
)

func writeSettings(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	return path
}

// TestRun_FirstOrder checks the printed linear response.
func TestRun_FirstOrder(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := Run(context.Background(), &Options{
		ConfigPath: writeSettings(t, "evaluate:\n  fundamental: 1\n"),
		Order:      1,
		To:         math.Pi,
		Points:     3,
		Out:        &out,
	})
	require.NoError(t, err)

	text := out.String()
	require.Contains(t, text, "τ1")
	require.Contains(t, text, "|S|")
	require.Contains(t, text, "3.1416")
	require.Contains(t, text, "-1.0000")
	require.Contains(t, text, "peak |S| = 1.0000 at τ1 = ")
}

// TestRun_DefaultsToLastDelay checks the scanned delay and grid defaults.
func TestRun_DefaultsToLastDelay(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	maxLevel := 2
	anharmonicity := 0.1

	err := Run(context.Background(), &Options{
		ConfigPath:    writeSettings(t, "evaluate:\n  points: 5\n"),
		MaxLevel:      &maxLevel,
		Anharmonicity: &anharmonicity,
		Harmonic:      true,
		Out:           &out,
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "τ3")
	require.Contains(t, out.String(), "10.0000")
}

// TestRun_Errors checks that invalid scans are reported.
func TestRun_Errors(t *testing.T) {
	t.Parallel()

	path := writeSettings(t, "")

	err := Run(context.Background(), &Options{ConfigPath: path, Order: 3, Scan: 4, Out: new(bytes.Buffer)})
	require.ErrorIs(t, err, evaluate.ErrInvalidScan)

	err = Run(context.Background(), &Options{ConfigPath: path, Order: 11, Out: new(bytes.Buffer)})
	require.Error(t, err)
}

// TestPrint checks one row per point.
func TestPrint(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	err := Print(&out, &evaluate.Result{Scan: 2, Points: []evaluate.Point{
		{Delay: 0, Value: 1},
		{Delay: 0.5, Value: 2i},
	}})
	require.NoError(t, err)

	require.Contains(t, out.String(), "0.5000")
	require.Contains(t, out.String(), "2.0000")
	require.True(t, strings.HasSuffix(out.String(), "peak |S| = 2.0000 at τ2 = 0.5000\n"))
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/feynman-diagrams/internal/config"
)

// TestOrderArg checks parsing and validation of the order argument.
func TestOrderArg(t *testing.T) {
	t.Parallel()

	order, err := orderArg(nil)
	require.NoError(t, err)
	require.Zero(t, order)

	order, err = orderArg([]string{"5"})
	require.NoError(t, err)
	require.Equal(t, 5, order)

	_, err = orderArg([]string{"three"})
	require.ErrorIs(t, err, config.ErrInvalidOrder)

	_, err = orderArg([]string{"0"})
	require.ErrorIs(t, err, config.ErrInvalidOrder)
}

// TestGenerateCommand runs `feyn generate 1` end to end.
func TestGenerateCommand(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, nil, 0o600))

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"generate", "1", "--config", settings, "--latex"})

	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), "1 diagrams of order 1")
	require.Contains(t, out.String(), `\rho_{\alpha\alpha}`)
}

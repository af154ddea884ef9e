package integration

import (
	"bytes"
	"context"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
	"github.com/oshokin/feynman-diagrams/internal/service/server"
)

// reservePort returns a free local address for a test server.
func reservePort(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	return addr
}

// startGRPC starts a gRPC server with temporary config persisting catalogs to catalogDir.
// Returns a stop function to gracefully shutdown the server.
func startGRPC(t *testing.T, addr string, catalogDir string) (stop func()) {
	t.Helper()

	// Create cancellable context for server lifecycle.
	ctx, cancel := context.WithCancel(context.Background())
	cfgPath := filepath.Join(t.TempDir(), "settings.yaml")

	// Create temporary configuration file.
	require.NoError(
		t,
		config.Save(cfgPath, &config.Config{
			ServerAddress: addr,
			Timeout:       5 * time.Second,
			OutputDir:     catalogDir,
			Render:        config.Render{Width: 128, Height: 160},
		}),
	)

	done := make(chan struct{})

	// Start server in background goroutine.
	go func() {
		defer close(done)

		options := &server.Options{
			ConfigPath: cfgPath,
		}

		_ = server.Run(ctx, options) //nolint:errcheck // Failures surface as client errors.
	}()

	// Wait briefly for server to start listening.
	time.Sleep(150 * time.Millisecond)

	return func() {
		cancel()
		<-done
	}
}

// TestGRPC_Roundtrip starts the real server and exercises Enumerate and Render with on-disk catalogs.
func TestGRPC_Roundtrip(t *testing.T) {
	t.Parallel()

	addr := reservePort(t)
	catalogDir := t.TempDir()

	stop := startGRPC(t, addr, catalogDir)
	defer stop()

	ctx := context.Background()

	// Connect to the test server with timeout.
	c, err := common.Dial(ctx, addr, common.WithCallTimeout(10*time.Second))
	require.NoError(t, err)

	defer func() {
		_ = c.Close()
	}()

	infos, err := c.Enumerate(ctx, 5, 2)
	require.NoError(t, err)
	require.Len(t, infos, 64)

	for i, info := range infos {
		require.Equal(t, i+1, info.Index)
		require.Contains(t, []int{-1, 1}, info.Sign)
		require.NotEmpty(t, info.Formula)
	}

	third, err := c.Enumerate(ctx, 3, 0)
	require.NoError(t, err)
	require.Len(t, third, 8)
	require.Equal(t, "k1:ket+ k2:ket- k3:bra+ ks:bra-", third[0].Steps)

	image, err := c.Render(ctx, 3, 0, 8)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(image))
	require.NoError(t, err)
	require.Equal(t, 128, cfg.Width)
	require.Equal(t, 160, cfg.Height)

	_, err = c.Render(ctx, 3, 0, 9)
	require.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.Enumerate(ctx, 10, 0)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	// Verify catalogs were persisted to disk.
	for _, name := range []string{"catalog-order5-max2.yaml", "catalog-order3-max0.yaml"} {
		_, err = os.Stat(filepath.Join(catalogDir, name))
		require.NoError(t, err)
	}
}

// TestGRPC_RestartReusesCatalog checks that a restarted server serves the persisted catalog.
func TestGRPC_RestartReusesCatalog(t *testing.T) {
	t.Parallel()

	catalogDir := t.TempDir()
	ctx := context.Background()

	enumerate := func() []string {
		addr := reservePort(t)

		stop := startGRPC(t, addr, catalogDir)
		defer stop()

		c, err := common.Dial(ctx, addr)
		require.NoError(t, err)

		defer func() {
			_ = c.Close()
		}()

		infos, err := c.Enumerate(ctx, 3, 1)
		require.NoError(t, err)

		formulas := make([]string, 0, len(infos))
		for _, info := range infos {
			formulas = append(formulas, info.Formula)
		}

		return formulas
	}

	first := enumerate()

	path := filepath.Join(catalogDir, "catalog-order3-max1.yaml")
	before, err := os.Stat(path)
	require.NoError(t, err)

	second := enumerate()
	require.Equal(t, first, second)

	after, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime())
}

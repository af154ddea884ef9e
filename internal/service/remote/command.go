package remote

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	api "github.com/oshokin/feynman-diagrams/internal/api/grpc/diagram"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// Options configures a remote enumeration.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// ServerAddress overrides server address from config when specified.
	ServerAddress string
	// Order overrides the configured order when positive.
	Order int
	// MaxLevel overrides the configured level cap when not nil.
	MaxLevel *int
	// OutputDir receives the downloaded PNG files when set.
	OutputDir string
	// Wait keeps retrying an unavailable server for this long.
	Wait time.Duration
	// Out receives the listing; defaults to stdout.
	Out io.Writer
}

// retryInterval defines the delay between attempts to reach the server.
const retryInterval = 1 * time.Second

// Run enumerates on the server, prints the listing and downloads PNGs on request.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "remote")

	cfg, err := common.LoadSettings(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}

	// Use server address from options if provided, otherwise use config.
	serverAddress := cfg.ServerAddress
	if opts.ServerAddress != "" {
		serverAddress = opts.ServerAddress
	}

	order, maxLevel := cfg.Order, cfg.MaxLevel
	if opts.Order > 0 {
		order = opts.Order
	}

	if opts.MaxLevel != nil {
		maxLevel = *opts.MaxLevel
	}

	client, err := common.Dial(ctx, serverAddress, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	logger.InfoKV(ctx, "Requesting enumeration", "server_address", serverAddress, "order", order, "max_level", maxLevel)

	infos, err := enumerateWithRetry(ctx, client, order, maxLevel, opts.Wait)
	if err != nil {
		return err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	if err = Print(out, infos); err != nil {
		return err
	}

	if opts.OutputDir == "" {
		return nil
	}

	for _, info := range infos {
		image, err := client.Render(ctx, order, maxLevel, info.Index)
		if err != nil {
			return err
		}

		if err = common.WriteFile(filepath.Join(opts.OutputDir, common.DiagramFilename(info.Index)), image); err != nil {
			return err
		}
	}

	logger.InfoKV(ctx, "Diagrams downloaded", "dir", opts.OutputDir, "files", len(infos))

	return nil
}

// enumerateWithRetry calls Enumerate until it succeeds, fails permanently or wait elapses.
func enumerateWithRetry(
	ctx context.Context,
	client *common.Client,
	order, maxLevel int,
	wait time.Duration,
) ([]api.DiagramInfo, error) {
	deadline := time.Now().Add(wait)

	// attempt tries once, returns (result, retry, error).
	attempt := func() ([]api.DiagramInfo, bool, error) {
		infos, err := client.Enumerate(ctx, order, maxLevel)
		if err == nil {
			return infos, false, nil
		}

		if status.Code(err) != codes.Unavailable || !time.Now().Before(deadline) {
			return nil, false, err
		}

		// Log error but continue retrying for transient failures.
		logger.WarnKV(ctx, "Server unavailable, retrying", "error", err)

		return nil, true, nil
	}

	// Attempt immediately before starting retry loop.
	infos, retry, err := attempt()
	if !retry {
		return infos, err
	}

	// Setup retry timer for subsequent attempts.
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	// Retry loop until success, permanent failure or cancellation.
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			infos, retry, err = attempt()
			if !retry {
				return infos, err
			}
		}
	}
}

// Print writes one table row per diagram followed by a count.
func Print(w io.Writer, infos []api.DiagramInfo) error {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			strconv.Itoa(info.Index),
			info.Signature,
			dash(info.Kind),
			dash(info.Pathway),
			info.Steps,
			info.Formula,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "signature", "kind", "pathway", "steps", "formula").
		Rows(rows...)

	if _, err := fmt.Fprintf(w, "%s\n%d diagrams\n", t.String(), len(infos)); err != nil {
		return fmt.Errorf("print listing: %w", err)
	}

	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/service/server"
	"github.com/oshokin/feynman-diagrams/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// catalogDir where enumerations are persisted.
	catalogDir string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command for running the gRPC server.
	rootCmd = &cobra.Command{
		Use:   "feyn-server [listen-address]",
		Short: "Serve diagram enumerations and renderings over gRPC.",
		Long: `Starts the gRPC diagram server that enumerates double-sided Feynman diagrams
and renders them as PNG on request.

The server listens on the specified address or uses settings from configuration file.
Only the port from server_addr config is used for listening (e.g., :50061).
Listen address can be provided as argument to override config (e.g., :9090, 0.0.0.0:8080).
Enumerations are cached in memory and, when a catalog directory is set,
persisted as YAML catalogs that are reused across restarts.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			// Use listen address argument if provided, otherwise rely on config.
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			options := &server.Options{
				ConfigPath:    configPath,
				ListenAddress: listenAddress,
				CatalogDir:    catalogDir,
				LogLevel:      logLevel,
			}

			return server.Run(ctx, options)
		},
	}
)

// Execute runs the feyn-server CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&catalogDir, "catalog-dir", "d", "", "directory to persist enumeration catalogs")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}

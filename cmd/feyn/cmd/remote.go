package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/service/remote"
)

var (
	// remoteFlags holds the flag values of the remote command.
	remoteFlags struct {
		order     int
		maxLevel  int
		outputDir string
		wait      time.Duration
	}

	// remoteCmd enumerates on a running feyn-server.
	remoteCmd = &cobra.Command{
		Use:   "remote [server-address]",
		Short: "Enumerate diagrams on a running feyn-server.",
		Long: `Asks a feyn-server for the diagrams of one order and prints the listing.
With --out every diagram is rendered by the server and downloaded as PNG.
Server address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			// Use server address argument if provided, otherwise rely on config.
			var serverAddress string
			if len(args) > 0 {
				serverAddress = args[0]
			}

			return remote.Run(ctx, &remote.Options{
				ConfigPath:    configPath,
				LogLevel:      logLevel,
				ServerAddress: serverAddress,
				Order:         remoteFlags.order,
				MaxLevel:      changedInt(cmd, "max-level", remoteFlags.maxLevel),
				OutputDir:     remoteFlags.outputDir,
				Wait:          remoteFlags.wait,
				Out:           cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := remoteCmd.Flags()
	flags.IntVarP(&remoteFlags.order, "order", "n", 0, "perturbation order")
	flags.IntVarP(&remoteFlags.maxLevel, "max-level", "m", 0, "highest ladder level, 0 for unbounded")
	flags.StringVarP(&remoteFlags.outputDir, "out", "o", "", "directory for downloaded PNG files")
	flags.DurationVarP(&remoteFlags.wait, "wait", "w", 0, "keep retrying an unavailable server this long")

	rootCmd.AddCommand(remoteCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel overrides the configured log level.
	logLevel string

	// rootCmd represents the base command of the diagram tool.
	rootCmd = &cobra.Command{
		Use:   "feyn",
		Short: "Enumerate, draw and evaluate double-sided Feynman diagrams.",
		Long: `Generates the double-sided Feynman diagrams of a given perturbation order
for a ladder of quantum levels, derives the response function of each one
and draws them in the terminal or as PNG files.

Settings are read from the configuration file; flags override them.`,
		SilenceUsage: true,
	}
)

// Execute runs the feyn CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

// orderArg parses the optional order argument; zero means "from config".
func orderArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}

	order, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", config.ErrInvalidOrder, args[0])
	}

	if err = config.ValidateOrder(order); err != nil {
		return 0, err
	}

	return order, nil
}

// changedInt returns a pointer to value when the named flag was set explicitly.
func changedInt(cmd *cobra.Command, name string, value int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	return &value
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level: debug, info, warn, error")
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/service/generate"
)

var (
	// generateFlags holds the flag values of the generate command.
	generateFlags struct {
		maxLevel      int
		outputDir     string
		catalogFormat string
		latex         bool
	}

	// generateCmd enumerates and prints diagrams.
	generateCmd = &cobra.Command{
		Use:   "generate [order]",
		Short: "Enumerate the diagrams of one order and print their response functions.",
		Long: `Enumerates every double-sided Feynman diagram of the given order by depth-first
search, prints each one with its response function and, when an output directory
is set, writes diagram-NN.png files and a catalog next to them.

Odd orders produce diagrams; even orders produce none.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			order, err := orderArg(args)
			if err != nil {
				return err
			}

			return generate.Run(ctx, &generate.Options{
				ConfigPath:    configPath,
				LogLevel:      logLevel,
				Order:         order,
				MaxLevel:      changedInt(cmd, "max-level", generateFlags.maxLevel),
				OutputDir:     generateFlags.outputDir,
				CatalogFormat: generateFlags.catalogFormat,
				LaTeX:         generateFlags.latex,
				Out:           cmd.OutOrStdout(),
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := generateCmd.Flags()
	flags.IntVarP(&generateFlags.maxLevel, "max-level", "m", 0, "highest ladder level, 0 for unbounded")
	flags.StringVarP(&generateFlags.outputDir, "out", "o", "", "directory for PNG files and the catalog")
	flags.StringVarP(&generateFlags.catalogFormat, "catalog-format", "f", "yaml", "catalog encoding: yaml or msgpack")
	flags.BoolVar(&generateFlags.latex, "latex", false, "print formulas as LaTeX")

	rootCmd.AddCommand(generateCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/service/render"
)

var (
	// renderFlags holds the flag values of the render command.
	renderFlags struct {
		outputDir     string
		width, height int
	}

	// renderCmd draws a saved catalog again.
	renderCmd = &cobra.Command{
		Use:   "render CATALOG",
		Short: "Render the diagrams of a saved catalog as PNG files.",
		Long: `Loads a catalog written by "feyn generate --out" (YAML or MessagePack, chosen by
the file extension), validates every diagram and writes diagram-NN.png files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			return render.Run(ctx, &render.Options{
				ConfigPath:  configPath,
				LogLevel:    logLevel,
				CatalogPath: args[0],
				OutputDir:   renderFlags.outputDir,
				Width:       renderFlags.width,
				Height:      renderFlags.height,
			})
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := renderCmd.Flags()
	flags.StringVarP(&renderFlags.outputDir, "out", "o", "", "output directory, defaults to the catalog's directory")
	flags.IntVar(&renderFlags.width, "width", 0, "image width in pixels")
	flags.IntVar(&renderFlags.height, "height", 0, "image height in pixels")

	rootCmd.AddCommand(renderCmd)
}

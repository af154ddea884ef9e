package cmd

import (
	"github.com/spf13/cobra"

	"github.com/oshokin/feynman-diagrams/internal/service/evaluate"
)

var (
	// evaluateFlags holds the flag values of the evaluate command.
	evaluateFlags struct {
		maxLevel      int
		scan          int
		from, to      float64
		points        int
		delays        []float64
		fundamental   float64
		anharmonicity float64
		harmonic      bool
	}

	// evaluateCmd scans the summed response numerically.
	evaluateCmd = &cobra.Command{
		Use:   "evaluate [order]",
		Short: "Evaluate the summed response along one waiting time.",
		Long: `Enumerates the diagrams of the given order, binds their response functions to an
anharmonic ladder (E_k = k*w0 - a*k*(k-1)/2) and prints the summed response while
one waiting time is swept and the others stay fixed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			order, err := orderArg(args)
			if err != nil {
				return err
			}

			options := &evaluate.Options{
				ConfigPath:  configPath,
				LogLevel:    logLevel,
				Order:       order,
				MaxLevel:    changedInt(cmd, "max-level", evaluateFlags.maxLevel),
				Scan:        evaluateFlags.scan,
				From:        evaluateFlags.from,
				To:          evaluateFlags.to,
				Points:      evaluateFlags.points,
				Delays:      evaluateFlags.delays,
				Fundamental: evaluateFlags.fundamental,
				Harmonic:    evaluateFlags.harmonic,
				Out:         cmd.OutOrStdout(),
			}

			if cmd.Flags().Changed("anharmonicity") {
				options.Anharmonicity = &evaluateFlags.anharmonicity
			}

			return evaluate.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	flags := evaluateCmd.Flags()
	flags.IntVarP(&evaluateFlags.maxLevel, "max-level", "m", 0, "highest ladder level, 0 for unbounded")
	flags.IntVarP(&evaluateFlags.scan, "scan", "s", 0, "waiting time to sweep (1-based), defaults to the last")
	flags.Float64Var(&evaluateFlags.from, "from", 0, "start of the sweep")
	flags.Float64Var(&evaluateFlags.to, "to", 0, "end of the sweep, defaults to from+10")
	flags.IntVarP(&evaluateFlags.points, "points", "p", 0, "number of grid points")
	flags.Float64SliceVar(&evaluateFlags.delays, "delays", nil, "fixed waiting times, τ1 first")
	flags.Float64Var(&evaluateFlags.fundamental, "fundamental", 0, "0→1 transition frequency")
	flags.Float64Var(&evaluateFlags.anharmonicity, "anharmonicity", 0, "anharmonic shift of higher transitions")
	flags.BoolVar(&evaluateFlags.harmonic, "harmonic", false, "use √(k+1) transition dipoles")

	rootCmd.AddCommand(evaluateCmd)
}

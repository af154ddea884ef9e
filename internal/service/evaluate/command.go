package evaluate

import (
	"context"
	"fmt"
	"io"
	"math/cmplx"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/oshokin/feynman-diagrams/internal/evaluate"
	"github.com/oshokin/feynman-diagrams/internal/generator"
	"github.com/oshokin/feynman-diagrams/internal/logger"
	"github.com/oshokin/feynman-diagrams/internal/service/common"
)

// defaultSpan is the length of the scanned delay range when none is given.
const defaultSpan = 10.0

// Options controls one numeric scan.
type Options struct {
	// ConfigPath to YAML settings file, defaults to standard filename if empty.
	ConfigPath string
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Order overrides the configured order when positive.
	Order int
	// MaxLevel overrides the configured level cap when not nil.
	MaxLevel *int
	// Scan is the 1-based waiting time to sweep; defaults to the last one.
	Scan int
	// From and To bound the sweep; To <= From selects From..From+10.
	From, To float64
	// Points overrides the configured grid size when positive.
	Points int
	// Delays fixes the other waiting times, τ1 first.
	Delays []float64
	// Fundamental overrides the configured 0→1 frequency when positive.
	Fundamental float64
	// Anharmonicity overrides the configured anharmonicity when not nil.
	Anharmonicity *float64
	// Harmonic forces harmonic dipoles.
	Harmonic bool
	// Out receives the table; defaults to stdout.
	Out io.Writer
}

// Run enumerates the diagrams, scans the summed response and prints it.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "evaluate")

	cfg, err := common.LoadSettings(opts.ConfigPath, opts.LogLevel)
	if err != nil {
		return err
	}

	order, maxLevel := cfg.Order, cfg.MaxLevel
	if opts.Order > 0 {
		order = opts.Order
	}

	if opts.MaxLevel != nil {
		maxLevel = *opts.MaxLevel
	}

	params := evaluate.Params{
		Fundamental:   cfg.Evaluate.Fundamental,
		Anharmonicity: cfg.Evaluate.Anharmonicity,
		Harmonic:      cfg.Evaluate.Harmonic || opts.Harmonic,
		Scan:          opts.Scan,
		From:          opts.From,
		To:            opts.To,
		Points:        cfg.Evaluate.Points,
		Delays:        opts.Delays,
	}

	if opts.Fundamental > 0 {
		params.Fundamental = opts.Fundamental
	}

	if opts.Anharmonicity != nil {
		params.Anharmonicity = *opts.Anharmonicity
	}

	if opts.Points > 0 {
		params.Points = opts.Points
	}

	if params.Scan == 0 {
		params.Scan = order
	}

	if params.To <= params.From {
		params.To = params.From + defaultSpan
	}

	diagrams, err := generator.Generate(ctx, generator.Options{Order: order, MaxLevel: maxLevel})
	if err != nil {
		return fmt.Errorf("enumerate order %d: %w", order, err)
	}

	result, err := evaluate.Scan(ctx, diagrams, params)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	logger.InfoKV(ctx, "Scan finished", "order", order, "diagrams", len(diagrams), "points", len(result.Points))

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	return Print(out, result)
}

// Print writes the scan as a table followed by its peak.
func Print(w io.Writer, result *evaluate.Result) error {
	delay := "τ" + strconv.Itoa(result.Scan)
	magnitudes := result.Magnitudes()

	rows := make([][]string, 0, len(result.Points))
	for i, p := range result.Points {
		rows = append(rows, []string{
			formatFloat(p.Delay),
			formatFloat(real(p.Value)),
			formatFloat(imag(p.Value)),
			formatFloat(magnitudes[i]),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(delay, "Re S", "Im S", "|S|").
		Rows(rows...)

	peak := result.Peak()

	_, err := fmt.Fprintf(w, "%s\npeak |S| = %s at %s = %s\n",
		t.String(), formatFloat(cmplx.Abs(peak.Value)), delay, formatFloat(peak.Delay))
	if err != nil {
		return fmt.Errorf("print scan: %w", err)
	}

	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

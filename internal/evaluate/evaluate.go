package evaluate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
	"github.com/oshokin/feynman-diagrams/internal/formula"
	"github.com/oshokin/feynman-diagrams/internal/symbolic"
)

var (
	// ErrNoDiagrams is returned when there is nothing to evaluate.
	ErrNoDiagrams = errors.New("no diagrams to evaluate")
	// ErrMixedOrders is returned when the diagrams do not share one order.
	ErrMixedOrders = errors.New("diagrams have different orders")
	// ErrInvalidScan is returned for a scanned delay outside 1..order.
	ErrInvalidScan = errors.New("invalid scanned delay")
	// ErrInvalidPoints is returned for grids with fewer than two points.
	ErrInvalidPoints = errors.New("a scan needs at least two points")
	// ErrTooManyDelays is returned when more fixed delays than waiting times are given.
	ErrTooManyDelays = errors.New("too many fixed delays")
)

// Params describes the model system and the grid.
type Params struct {
	// Fundamental is the 0→1 transition frequency ω0.
	Fundamental float64
	// Anharmonicity lowers each higher transition by Δ.
	Anharmonicity float64
	// Harmonic selects √(k+1) dipoles instead of unit ones.
	Harmonic bool
	// Scan is the 1-based index of the waiting time that is swept.
	Scan int
	// From and To bound the swept waiting time.
	From, To float64
	// Points is the number of grid points.
	Points int
	// Delays holds the fixed waiting times, τ1 first. Missing ones are zero.
	Delays []float64
}

// Point is one grid sample.
type Point struct {
	Delay float64
	Value complex128
}

// Result is a completed scan.
type Result struct {
	Order  int
	Scan   int
	Points []Point
}

// Magnitudes returns |value| for every point.
func (r *Result) Magnitudes() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = cmplx.Abs(p.Value)
	}

	return out
}

// Peak returns the point with the largest magnitude.
func (r *Result) Peak() Point {
	if len(r.Points) == 0 {
		return Point{}
	}

	return r.Points[floats.MaxIdx(r.Magnitudes())]
}

// Energy returns the energy of the given ladder level.
func Energy(level int, p Params) float64 {
	k := float64(level)
	return k*p.Fundamental - p.Anharmonicity*k*(k-1)/2
}

// DipoleStrength returns the transition dipole between two levels.
func DipoleStrength(from, to int, p Params) float64 {
	if from-to != 1 && to-from != 1 {
		return 0
	}

	if !p.Harmonic {
		return 1
	}

	return math.Sqrt(float64(max(from, to)))
}

// Environment binds every dipole, frequency and population symbol of levels
// 0..levels to numbers. Waiting times are left to the caller.
func Environment(levels int, starts []diagram.State, p Params) symbolic.Env {
	env := make(symbolic.Env)

	for a := 0; a <= levels; a++ {
		for b := 0; b <= levels; b++ {
			s := diagram.State{Ket: a, Bra: b}

			env[formula.Dipole(a, b).Key()] = complex(DipoleStrength(a, b, p), 0)
			env[formula.Frequency(s).Key()] = complex(Energy(a, p)-Energy(b, p), 0)
			env[formula.Population(s).Key()] = 0
		}
	}

	for _, s := range starts {
		env[formula.Population(s).Key()] = 1
	}

	return env
}

// Scan sums the responses of diagrams over the grid described by p.
func Scan(ctx context.Context, diagrams []*diagram.Diagram, p Params) (*Result, error) {
	if len(diagrams) == 0 {
		return nil, ErrNoDiagrams
	}

	order := diagrams[0].Order()

	if err := validate(order, p); err != nil {
		return nil, err
	}

	var (
		responses = make([]symbolic.Expr, 0, len(diagrams))
		starts    = make([]diagram.State, 0, 1)
		levels    int
	)

	for _, d := range diagrams {
		if d.Order() != order {
			return nil, fmt.Errorf("%w: %d and %d", ErrMixedOrders, order, d.Order())
		}

		for _, s := range d.States() {
			levels = max(levels, s.Ket, s.Bra)
		}

		if !slices.Contains(starts, d.Start) {
			starts = append(starts, d.Start)
		}

		responses = append(responses, formula.Response(d))
	}

	env := Environment(levels, starts, p)

	for j := 1; j <= order; j++ {
		var tau float64
		if j <= len(p.Delays) {
			tau = p.Delays[j-1]
		}

		env[formula.Delay(j).Key()] = complex(tau, 0)
	}

	var (
		grid    = floats.Span(make([]float64, p.Points), p.From, p.To)
		scanKey = formula.Delay(p.Scan).Key()
		result  = &Result{
			Order:  order,
			Scan:   p.Scan,
			Points: make([]Point, 0, len(grid)),
		}
	)

	for _, t := range grid {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		env[scanKey] = complex(t, 0)

		var sum complex128

		for i, r := range responses {
			v, err := r.Eval(env)
			if err != nil {
				return nil, fmt.Errorf("evaluate diagram %d: %w", i+1, err)
			}

			sum += v
		}

		result.Points = append(result.Points, Point{Delay: t, Value: sum})
	}

	return result, nil
}

func validate(order int, p Params) error {
	if p.Scan < 1 || p.Scan > order {
		return fmt.Errorf("%w: %d (order %d)", ErrInvalidScan, p.Scan, order)
	}

	if p.Points < 2 {
		return fmt.Errorf("%w: %d", ErrInvalidPoints, p.Points)
	}

	if len(p.Delays) > order {
		return fmt.Errorf("%w: %d for order %d", ErrTooManyDelays, len(p.Delays), order)
	}

	return nil
}

package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

var (
	// ErrInvalidOrder is returned when the order is outside 1..config.MaxOrder.
	ErrInvalidOrder = config.ErrInvalidOrder
	// ErrInvalidMaxLevel is returned for a negative level cap.
	ErrInvalidMaxLevel = config.ErrInvalidMaxLevel
	// ErrInvalidStart is returned when the start state is not a valid population.
	ErrInvalidStart = errors.New("start state must be a population inside the ladder")
	// ErrStop can be returned by a visit callback to end the walk early without an error.
	ErrStop = errors.New("stop walk")
)

// Options configures an enumeration.
type Options struct {
	// Order is the number of field interactions.
	Order int
	// MaxLevel caps both ladder indices; zero means unbounded.
	MaxLevel int
	// Start is the initial population, |0><0| by default.
	Start diagram.State
}

// move is one of the four branches tried at every node.
type move struct {
	side  diagram.Side
	delta int
}

//nolint:gochecknoglobals // Fixed branching order keeps enumeration deterministic.
var moves = [...]move{
	{diagram.Ket, +1},
	{diagram.Ket, -1},
	{diagram.Bra, +1},
	{diagram.Bra, -1},
}

// Generate returns every diagram of the requested order in enumeration order.
func Generate(ctx context.Context, opts Options) ([]*diagram.Diagram, error) {
	var result []*diagram.Diagram

	err := Walk(ctx, opts, func(d *diagram.Diagram) error {
		result = append(result, d)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Count returns the number of diagrams of the requested order.
func Count(ctx context.Context, opts Options) (int, error) {
	n := 0

	err := Walk(ctx, opts, func(*diagram.Diagram) error {
		n++

		return nil
	})

	return n, err
}

// Walk calls visit for every diagram of the requested order.
// Each visited diagram is a fresh copy the callback may keep.
// Returning ErrStop from visit ends the walk and Walk returns nil.
func Walk(ctx context.Context, opts Options, visit func(*diagram.Diagram) error) error {
	if err := config.ValidateOrder(opts.Order); err != nil {
		return err
	}

	if opts.MaxLevel < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxLevel, opts.MaxLevel)
	}

	if !opts.Start.IsPopulation() || !opts.Start.Valid(opts.MaxLevel) {
		return fmt.Errorf("%w: %s", ErrInvalidStart, opts.Start)
	}

	w := &walker{
		ctx:   ctx,
		opts:  opts,
		visit: visit,
		path:  make([]diagram.Interaction, 0, opts.Order+1),
	}

	err := w.traverse(opts.Start, 0)
	if errors.Is(err, ErrStop) {
		return nil
	}

	return err
}

// walker holds the state of one enumeration run.
type walker struct {
	ctx   context.Context
	opts  Options
	visit func(*diagram.Diagram) error
	path  []diagram.Interaction
}

// traverse extends the current path from state at the given depth.
func (w *walker) traverse(state diagram.State, depth int) error {
	if err := w.checkCancel(); err != nil {
		return err
	}

	if depth == w.opts.Order {
		if state.Coherence() != 1 {
			return nil
		}

		return w.emit(state)
	}

	remaining := w.opts.Order - depth - 1

	for _, m := range moves {
		next := state.Apply(m.side, m.delta)
		if !next.Valid(w.opts.MaxLevel) || !reachable(next, remaining) {
			continue
		}

		from := state.Level(m.side)
		w.path = append(w.path, diagram.Interaction{
			Field: depth + 1,
			Side:  m.side,
			From:  from,
			To:    from + m.delta,
		})

		err := w.traverse(next, depth+1)

		w.path = w.path[:len(w.path)-1]

		if err != nil {
			return err
		}
	}

	return nil
}

// emit closes the current path with the signal emission and hands a copy to visit.
func (w *walker) emit(state diagram.State) error {
	interactions := make([]diagram.Interaction, len(w.path), len(w.path)+1)
	copy(interactions, w.path)

	interactions = append(interactions, diagram.Interaction{
		Field: diagram.SignalField,
		Side:  diagram.Bra,
		From:  state.Bra,
		To:    state.Bra - 1,
	})

	return w.visit(&diagram.Diagram{
		Start:        w.opts.Start,
		Interactions: interactions,
	})
}

// checkCancel aborts the walk if the context is done.
func (w *walker) checkCancel() error {
	select {
	case <-w.ctx.Done():
		return w.ctx.Err()
	default:
		return nil
	}
}

// reachable reports whether bra-ket == 1 can still be hit with the remaining moves.
func reachable(state diagram.State, remaining int) bool {
	gap := state.Coherence() - 1
	if gap < 0 {
		gap = -gap
	}

	return gap <= remaining && (remaining-gap)%2 == 0
}

package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/feynman-diagrams/internal/config"
	"github.com/oshokin/feynman-diagrams/internal/domain/diagram"
)

// TestGenerate_Counts pins the number of diagrams for small orders and level caps.
func TestGenerate_Counts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		order    int
		maxLevel int
		want     int
	}{
		{order: 1, maxLevel: 0, want: 1},
		{order: 2, maxLevel: 0, want: 0},
		{order: 3, maxLevel: 0, want: 8},
		{order: 3, maxLevel: 1, want: 4},
		{order: 3, maxLevel: 2, want: 8},
		{order: 4, maxLevel: 0, want: 0},
		{order: 5, maxLevel: 0, want: 80},
		{order: 5, maxLevel: 1, want: 16},
		{order: 5, maxLevel: 2, want: 64},
		{order: 9, maxLevel: 0, want: 10752},
	}

	for _, tc := range cases {
		got, err := Generate(context.Background(), Options{Order: tc.order, MaxLevel: tc.maxLevel})
		require.NoError(t, err)
		require.Len(t, got, tc.want, "order %d, max level %d", tc.order, tc.maxLevel)

		n, err := Count(context.Background(), Options{Order: tc.order, MaxLevel: tc.maxLevel})
		require.NoError(t, err)
		require.Equal(t, tc.want, n)
	}
}

// TestGenerate_Invariants checks every enumerated diagram for length, signal, bounds and final coherence.
func TestGenerate_Invariants(t *testing.T) {
	t.Parallel()

	for order := 1; order <= config.MaxOrder; order++ {
		for _, maxLevel := range []int{0, 1, 2} {
			checkInvariants(t, order, maxLevel)
		}
	}
}

func checkInvariants(t *testing.T, order, maxLevel int) {
	t.Helper()

	diagrams, err := Generate(context.Background(), Options{Order: order, MaxLevel: maxLevel})
	require.NoError(t, err)

	if order%2 == 0 {
		require.Empty(t, diagrams, "order %d, max level %d", order, maxLevel)

		return
	}

	require.NotEmpty(t, diagrams, "order %d, max level %d", order, maxLevel)

	seen := make(map[string]bool, len(diagrams))

	for _, d := range diagrams {
		require.Len(t, d.Interactions, order+1)
		require.Equal(t, order, d.Order())

		signal, ok := d.Signal()
		require.True(t, ok)
		require.Equal(t, diagram.Bra, signal.Side)
		require.Equal(t, diagram.Out, signal.Direction())

		final := d.Final()
		require.Equal(t, 1, final.Bra-final.Ket)

		for _, s := range d.States() {
			require.GreaterOrEqual(t, s.Ket, 0)
			require.GreaterOrEqual(t, s.Bra, 0)

			if maxLevel > 0 {
				require.LessOrEqual(t, s.Ket, maxLevel)
				require.LessOrEqual(t, s.Bra, maxLevel)
			}
		}

		require.NoError(t, d.Validate(maxLevel))

		key := d.String()
		require.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
}

// TestGenerate_ThirdOrder checks order-three enumeration from the ground state against known pathways.
func TestGenerate_ThirdOrder(t *testing.T) {
	t.Parallel()

	diagrams, err := Generate(context.Background(), Options{Order: 3})
	require.NoError(t, err)
	require.Len(t, diagrams, 8)

	// Enumeration order follows ket+1, ket-1, bra+1, bra-1.
	require.Equal(t, "k1:ket+ k2:ket- k3:bra+ ks:bra-", diagrams[0].String())

	kinds := make(map[diagram.Kind]int)
	pathways := make(map[diagram.Pathway]int)

	for _, d := range diagrams {
		kinds[d.Kind()]++
		pathways[d.Pathway()]++
	}

	require.Equal(t, map[diagram.Kind]int{
		diagram.Rephasing:     3,
		diagram.NonRephasing:  3,
		diagram.DoubleQuantum: 2,
	}, kinds)
	require.Equal(t, map[diagram.Pathway]int{
		diagram.GroundStateBleach:      2,
		diagram.StimulatedEmission:     2,
		diagram.ExcitedStateAbsorption: 2,
		diagram.NoPathway:              2,
	}, pathways)
}

// TestGenerate_TwoLevel ensures a level cap of one keeps every index in {0, 1}.
func TestGenerate_TwoLevel(t *testing.T) {
	t.Parallel()

	diagrams, err := Generate(context.Background(), Options{Order: 3, MaxLevel: 1})
	require.NoError(t, err)

	for _, d := range diagrams {
		require.NoError(t, d.Validate(1))
		require.NotEqual(t, diagram.ExcitedStateAbsorption, d.Pathway())
	}
}

// TestGenerate_ExcitedStart verifies enumeration from an excited population.
func TestGenerate_ExcitedStart(t *testing.T) {
	t.Parallel()

	start := diagram.State{Ket: 1, Bra: 1}

	diagrams, err := Generate(context.Background(), Options{Order: 1, Start: start})
	require.NoError(t, err)
	require.Len(t, diagrams, 2)

	for _, d := range diagrams {
		require.Equal(t, start, d.Start)
		require.Equal(t, 1, d.Final().Coherence())
	}
}

// TestGenerate_Validation covers bad orders and start states.
func TestGenerate_Validation(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), Options{Order: 0})
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = Generate(context.Background(), Options{Order: 99})
	require.ErrorIs(t, err, ErrInvalidOrder)

	_, err = Generate(context.Background(), Options{Order: 3, Start: diagram.State{Ket: 0, Bra: 1}})
	require.ErrorIs(t, err, ErrInvalidStart)

	_, err = Generate(context.Background(), Options{Order: 3, MaxLevel: 1, Start: diagram.State{Ket: 2, Bra: 2}})
	require.ErrorIs(t, err, ErrInvalidStart)

	_, err = Generate(context.Background(), Options{Order: 3, MaxLevel: -1})
	require.ErrorIs(t, err, ErrInvalidMaxLevel)
}

// TestWalk_StopAndErrors checks early termination and error propagation from the callback.
func TestWalk_StopAndErrors(t *testing.T) {
	t.Parallel()

	visited := 0

	err := Walk(context.Background(), Options{Order: 5}, func(*diagram.Diagram) error {
		visited++
		if visited == 3 {
			return ErrStop
		}

		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, visited)

	boom := errors.New("boom")

	err = Walk(context.Background(), Options{Order: 3}, func(*diagram.Diagram) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

// TestWalk_Cancelled verifies that a cancelled context aborts the search.
func TestWalk_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, Options{Order: 3})
	require.ErrorIs(t, err, context.Canceled)
}

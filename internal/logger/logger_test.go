package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" INFO ":  zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"Warn\n":  zapcore.WarnLevel,
		"ERROR  ": zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestConfigure_RejectsUnknownLevel checks that bad level names surface ErrUnknownLevel.
func TestConfigure_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Configure("loud"), ErrUnknownLevel)
	require.NoError(t, Configure(""))
}

// TestContextHelpers ensures named and key-value loggers travel through the context.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "generator")
	ctx = WithKV(ctx, "order", 3)
	ctx = WithKV(ctx, "max_level", 1)

	InfoKV(ctx, "Enumerated", "diagrams", 4)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "generator", entries[0].LoggerName)
	require.Equal(t, "Enumerated", entries[0].Message)

	fields := entries[0].ContextMap()
	require.EqualValues(t, 3, fields["order"])
	require.EqualValues(t, 1, fields["max_level"])
	require.EqualValues(t, 4, fields["diagrams"])
}

// TestFromContext_FallsBackToGlobal verifies that an empty context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

package ctxlog

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRoundTrip(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), logger)

	got := FromContext(ctx)
	require.NotNil(t, got)
	assert.Same(t, logger, got)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	t.Parallel()

	got := FromContext(context.Background())
	require.NotNil(t, got)
	assert.Same(t, slog.Default(), got)
}

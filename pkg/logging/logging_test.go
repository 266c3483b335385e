package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestIntoContext_RoundTrip(t *testing.T) {
	l := New("debug").With("service", "auth")
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestNew_Levels(t *testing.T) {
	ctx := context.Background()
	assert.True(t, New("debug").Enabled(ctx, slog.LevelDebug))
	assert.False(t, New("").Enabled(ctx, slog.LevelDebug))
	assert.False(t, New("error").Enabled(ctx, slog.LevelWarn))
}

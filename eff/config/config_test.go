package config_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/taskfx/taskfx/eff/config"
)

func TestLookup_UnboundKey(t *testing.T) {
	_, ok := config.Lookup(context.Background(), "taskfx.nope")
	require.False(t, ok)
}

func TestLookup_ScopedValue(t *testing.T) {
	ctx := config.With(context.Background(), map[string]string{
		config.KeyParWidth: "8",
	})

	v, ok := config.Lookup(ctx, config.KeyParWidth)
	require.True(t, ok)
	require.Equal(t, "8", v)
}

func TestLookup_InnerScopeShadowsOuter(t *testing.T) {
	outer := config.With(context.Background(), map[string]string{
		config.KeyParWidth: "8",
		config.KeyLogLevel: "info",
	})
	inner := config.With(outer, map[string]string{
		config.KeyParWidth: "2",
	})

	v, ok := config.Lookup(inner, config.KeyParWidth)
	require.True(t, ok)
	require.Equal(t, "2", v)

	// Keys unbound in the inner scope fall through to the outer one.
	v, ok = config.Lookup(inner, config.KeyLogLevel)
	require.True(t, ok)
	require.Equal(t, "info", v)
}

func TestLookup_EnvFallback(t *testing.T) {
	t.Setenv("TASKFX_PAR_WIDTH", "16")

	v, ok := config.Lookup(context.Background(), config.KeyParWidth)
	require.True(t, ok)
	require.Equal(t, "16", v)
}

func TestInt(t *testing.T) {
	ctx := config.With(context.Background(), map[string]string{
		config.KeyParWidth: "4",
		"taskfx.broken":    "not-a-number",
	})

	require.Equal(t, 4, config.Int(ctx, config.KeyParWidth, 1))
	require.Equal(t, 1, config.Int(ctx, "taskfx.broken", 1))
	require.Equal(t, 9, config.Int(ctx, "taskfx.unbound", 9))
}

package eff_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskfx/taskfx/eff"
)

func TestSleep_WaitsAtLeastDuration(t *testing.T) {
	const nap = 30 * time.Millisecond
	start := time.Now()
	_, err := eff.Run(context.Background(), eff.Sleep(nap))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), nap)
}

func TestSleep_ObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := eff.Run(ctx, eff.Sleep(2*time.Second))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimed_ReportsElapsedAndSpan(t *testing.T) {
	const nap = 40 * time.Millisecond
	timed, err := eff.Run(context.Background(), eff.Timed(eff.AndThen(eff.Sleep(nap), eff.Pure("done"))))
	require.NoError(t, err)

	assert.Equal(t, "done", timed.Value)
	assert.GreaterOrEqual(t, timed.Elapsed, nap)
	assert.GreaterOrEqual(t, timed.Span.Duration(), nap)
}

func TestTimed_FailurePassesThrough(t *testing.T) {
	_, err := eff.Run(context.Background(), eff.Timed(eff.Fail[int](errBoom)))
	require.ErrorIs(t, err, errBoom)
}

func TestTimeout_Elapses(t *testing.T) {
	start := time.Now()
	_, err := eff.Run(context.Background(), eff.Timeout(eff.Sleep(2*time.Second), 20*time.Millisecond))
	require.ErrorIs(t, err, eff.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTimeout_CompletesInTime(t *testing.T) {
	v, err := eff.Run(context.Background(), eff.Timeout(
		eff.AndThen(eff.Sleep(5*time.Millisecond), eff.Pure(99)),
		500*time.Millisecond,
	))
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

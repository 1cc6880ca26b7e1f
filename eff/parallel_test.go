package eff_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskfx/taskfx/eff"
)

func sleepThen[A any](d time.Duration, e eff.Effect[A]) eff.Effect[A] {
	return eff.AndThen(eff.Sleep(d), e)
}

func TestParZip_PairsResultsRegardlessOfCompletionOrder(t *testing.T) {
	// Left finishes well after right; the pairing must not depend on that.
	slow := sleepThen(50*time.Millisecond, eff.Pure("slow"))
	fast := eff.Pure(7)

	p, err := eff.Run(context.Background(), eff.ParZip(slow, fast))
	require.NoError(t, err)
	require.Equal(t, "slow", p.First)
	require.Equal(t, 7, p.Second)
}

func TestParZip_FirstObservedFailureWins(t *testing.T) {
	var slowRan atomic.Bool
	failFast := sleepThen(10*time.Millisecond, eff.Fail[int](errBoom))
	succeedSlow := sleepThen(500*time.Millisecond, eff.Delay(func() (int, error) {
		slowRan.Store(true)
		return 1, nil
	}))

	start := time.Now()
	_, err := eff.Run(context.Background(), eff.ParZip(failFast, succeedSlow))
	elapsed := time.Since(start)

	require.ErrorIs(t, err, errBoom)
	var be *eff.BranchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "left", be.Branch)

	assert.Less(t, elapsed, 400*time.Millisecond,
		"sibling cancellation must not wait out the slow branch's full sleep")
	assert.False(t, slowRan.Load(), "cancelled sibling must not run its remaining leaves")
}

func TestParZip_BranchOwnDeadlineFailureIsReported(t *testing.T) {
	// A branch whose own client deadline expires fails with an error
	// wrapping context.DeadlineExceeded while the surrounding context is
	// still live. That is the branch's outcome, not this combinator's
	// teardown, and must be reported like any other failure.
	expired := eff.Delay(func() (string, error) {
		return "", fmt.Errorf("fetch: %w", context.DeadlineExceeded)
	})
	slow := sleepThen(100*time.Millisecond, eff.Pure(7))

	_, err := eff.Run(context.Background(), eff.ParZip(expired, slow))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	var be *eff.BranchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "left", be.Branch)
}

func TestParZip_LateBranchOwnCancellationFailureIsReported(t *testing.T) {
	// The failing branch here finishes second, after its sibling has
	// already succeeded; the second join path must apply the same rule.
	stopped := sleepThen(20*time.Millisecond,
		eff.Fail[int](fmt.Errorf("worker stopped: %w", context.Canceled)))

	_, err := eff.Run(context.Background(), eff.ParZip(eff.Pure("ok"), stopped))
	require.ErrorIs(t, err, context.Canceled)
	var be *eff.BranchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "right", be.Branch)
}

func TestParZip_BothBranchesActuallyOverlap(t *testing.T) {
	const naptime = 80 * time.Millisecond
	timed, err := eff.Run(context.Background(), eff.Timed(eff.ParZip(
		eff.Sleep(naptime),
		eff.Sleep(naptime),
	)))
	require.NoError(t, err)
	assert.Less(t, timed.Elapsed, 2*naptime, "parallel branches must not run back to back")
}

func TestRace_FastFailureBeatsSlowSuccess(t *testing.T) {
	var slowProduced atomic.Bool
	failFast := sleepThen(10*time.Millisecond, eff.Fail[string](errBoom))
	succeedSlow := sleepThen(1*time.Second, eff.Delay(func() (string, error) {
		slowProduced.Store(true)
		return "late", nil
	}))

	start := time.Now()
	_, err := eff.Run(context.Background(), eff.Race(failFast, succeedSlow))
	elapsed := time.Since(start)

	require.ErrorIs(t, err, errBoom)
	assert.Less(t, elapsed, 500*time.Millisecond)

	// Give the loser time to wind down; it was cancelled mid-sleep and
	// must never produce its success.
	time.Sleep(50 * time.Millisecond)
	assert.False(t, slowProduced.Load())
}

func TestRace_FirstSuccessWins(t *testing.T) {
	fast := sleepThen(5*time.Millisecond, eff.Pure("fast"))
	slow := sleepThen(300*time.Millisecond, eff.Pure("slow"))

	winner, err := eff.Run(context.Background(), eff.Race(slow, fast))
	require.NoError(t, err)
	require.Equal(t, "fast", winner)
}

func TestParSequence_KeepsInputOrder(t *testing.T) {
	effects := []eff.Effect[int]{
		sleepThen(30*time.Millisecond, eff.Pure(0)),
		sleepThen(10*time.Millisecond, eff.Pure(1)),
		sleepThen(20*time.Millisecond, eff.Pure(2)),
	}
	vals, err := eff.Run(context.Background(), eff.ParSequence(effects))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, vals, "results follow input order, not completion order")
}

func TestParSequence_FailureCancelsSiblings(t *testing.T) {
	var lateRan atomic.Bool
	effects := []eff.Effect[int]{
		sleepThen(200*time.Millisecond, eff.Delay(func() (int, error) {
			lateRan.Store(true)
			return 0, nil
		})),
		sleepThen(10*time.Millisecond, eff.Fail[int](errBoom)),
	}

	start := time.Now()
	_, err := eff.Run(context.Background(), eff.ParSequence(effects))
	elapsed := time.Since(start)

	require.ErrorIs(t, err, errBoom)
	var be *eff.BranchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "1", be.Branch)
	assert.Less(t, elapsed, 150*time.Millisecond)
	assert.False(t, lateRan.Load())
}

func TestParSequence_BranchOwnDeadlineFailureIsReported(t *testing.T) {
	expired := eff.Delay(func() (int, error) {
		return 0, fmt.Errorf("fetch: %w", context.DeadlineExceeded)
	})
	effects := []eff.Effect[int]{expired, eff.Pure(7)}

	vals, err := eff.Run(context.Background(), eff.ParSequence(effects))
	require.ErrorIs(t, err, context.DeadlineExceeded,
		"a branch's own deadline failure must never be mistaken for teardown")
	var be *eff.BranchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "0", be.Branch)
	assert.Nil(t, vals, "a failed run must not hand back a partially filled slice")
}

func TestParSequence_FasterThanSequence(t *testing.T) {
	const (
		branches = 24
		cost     = 20 * time.Millisecond
	)
	make24 := func() []eff.Effect[eff.Unit] {
		effects := make([]eff.Effect[eff.Unit], branches)
		for i := range effects {
			effects[i] = eff.Sleep(cost)
		}
		return effects
	}

	seq, err := eff.Run(context.Background(), eff.Timed(eff.Sequence(make24())))
	require.NoError(t, err)

	par, err := eff.Run(context.Background(), eff.Timed(eff.ParSequence(make24())))
	require.NoError(t, err)

	assert.Less(t, par.Elapsed, seq.Elapsed,
		"24 equal-cost branches must finish sooner in parallel than back to back")
	assert.GreaterOrEqual(t, seq.Elapsed, branches*cost)
}

func TestParTraverse(t *testing.T) {
	doubled, err := eff.Run(context.Background(), eff.ParTraverse([]int{1, 2, 3}, func(n int) eff.Effect[int] {
		return sleepThen(time.Duration(n)*5*time.Millisecond, eff.Pure(n*2))
	}))
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6}, doubled)
}

func TestParSequenceN_BoundsConcurrency(t *testing.T) {
	const width = 3
	var running, peak atomic.Int32

	effects := make([]eff.Effect[eff.Unit], 12)
	for i := range effects {
		effects[i] = eff.Func(func(ctx context.Context) (eff.Unit, error) {
			now := running.Add(1)
			for {
				old := peak.Load()
				if now <= old || peak.CompareAndSwap(old, now) {
					break
				}
			}
			defer running.Add(-1)
			time.Sleep(10 * time.Millisecond)
			return eff.Unit{}, nil
		})
	}

	_, err := eff.Run(context.Background(), eff.ParSequenceN(width, effects))
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(width))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestParTraverseN(t *testing.T) {
	vals, err := eff.Run(context.Background(), eff.ParTraverseN(2, []int{1, 2, 3, 4}, func(n int) eff.Effect[int] {
		return eff.Pure(n + 10)
	}))
	require.NoError(t, err)
	require.Equal(t, []int{11, 12, 13, 14}, vals)
}

func TestParSequence_Empty(t *testing.T) {
	vals, err := eff.Run(context.Background(), eff.ParSequence([]eff.Effect[int]{}))
	require.NoError(t, err)
	require.Empty(t, vals)
}

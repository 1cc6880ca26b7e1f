package eff

import (
	"context"
	"runtime"

	"github.com/taskfx/taskfx/eff/config"
	"github.com/taskfx/taskfx/eff/internal/fiber"
	"github.com/taskfx/taskfx/eff/permits"
)

// ParZip starts both effects on their own fibers, waits for both, and
// pairs their results. The pairing is the same regardless of which branch
// finishes first; only the interleaving of side effects is unspecified.
//
// Failure policy: the first failure observed is reported, wrapped in a
// *BranchError naming the branch. The sibling is cancelled and joined
// before ParZip returns, so its cleanup has run; its wind-down outcome is
// discarded, not reported.
func ParZip[A, B any](e1 Effect[A], e2 Effect[B]) Effect[Pair[A, B]] {
	return Effect[Pair[A, B]]{run: func(ctx context.Context) (Pair[A, B], error) {
		var zero Pair[A, B]

		left := fiber.Start(ctx, "parzip.left", e1.invoke)
		right := fiber.Start(ctx, "parzip.right", e2.invoke)

		select {
		case <-left.Done():
			a, err := left.Join(ctx)
			if err != nil {
				right.Cancel()
				right.Join(context.Background())
				if IsCancellation(err) && ctx.Err() != nil {
					return zero, err
				}
				// A cancellation-class error under a live context was not
				// induced by this combinator; it is the branch's own failure.
				return zero, &BranchError{Branch: "left", Err: err}
			}
			b, err := right.Join(ctx)
			if err != nil {
				if IsCancellation(err) && ctx.Err() != nil {
					return zero, err
				}
				return zero, &BranchError{Branch: "right", Err: err}
			}
			return Pair[A, B]{First: a, Second: b}, nil

		case <-right.Done():
			b, err := right.Join(ctx)
			if err != nil {
				left.Cancel()
				left.Join(context.Background())
				if IsCancellation(err) && ctx.Err() != nil {
					return zero, err
				}
				return zero, &BranchError{Branch: "right", Err: err}
			}
			a, err := left.Join(ctx)
			if err != nil {
				if IsCancellation(err) && ctx.Err() != nil {
					return zero, err
				}
				return zero, &BranchError{Branch: "left", Err: err}
			}
			return Pair[A, B]{First: a, Second: b}, nil
		}
	}}
}

// ParMap2 is ParZip followed by combining the pair with f.
func ParMap2[A, B, C any](e1 Effect[A], e2 Effect[B], f func(A, B) C) Effect[C] {
	return Map(ParZip(e1, e2), func(p Pair[A, B]) C {
		return f(p.First, p.Second)
	})
}

// Race starts both effects on their own fibers and yields the outcome,
// success or failure, of whichever completes first. The loser is
// cancelled; exactly one of the two outcomes is ever observable. The
// loser winds down on its own fiber so a leaf that ignores its context
// cannot delay the winner's return; its deferred cleanup still runs
// there.
func Race[A any](e1, e2 Effect[A]) Effect[A] {
	return Effect[A]{run: func(ctx context.Context) (A, error) {
		left := fiber.Start(ctx, "race.left", e1.invoke)
		right := fiber.Start(ctx, "race.right", e2.invoke)

		select {
		case <-left.Done():
			right.Cancel()
			return left.Join(ctx)
		case <-right.Done():
			left.Cancel()
			return right.Join(ctx)
		case <-ctx.Done():
			left.Cancel()
			right.Cancel()
			var zero A
			return zero, ctx.Err()
		}
	}}
}

// ParSequence starts every effect on its own fiber and yields all results
// in input order. The first failure observed cancels the remaining
// fibers, which are joined before ParSequence returns; the failure is
// reported wrapped in a *BranchError carrying the element index.
func ParSequence[A any](effects []Effect[A]) Effect[[]A] {
	return Effect[[]A]{run: func(ctx context.Context) ([]A, error) {
		n := len(effects)
		if n == 0 {
			return []A{}, nil
		}

		fibers := make([]*fiber.Fiber[A], n)
		for i, e := range effects {
			fibers[i] = fiber.Start(ctx, "parseq."+branchIndex(i), e.invoke)
		}

		completions := make(chan int, n)
		for i := range fibers {
			go func(i int) {
				<-fibers[i].Done()
				completions <- i
			}(i)
		}

		var firstErr error
		tornDown := false
		results := make([]A, n)
		for remaining := n; remaining > 0; remaining-- {
			i := <-completions
			a, err := fibers[i].Join(context.Background())
			switch {
			case err == nil:
				results[i] = a
			case IsCancellation(err) && (tornDown || ctx.Err() != nil):
				// Teardown this combinator fanned out, or the caller's
				// context; not an outcome of the branch itself. A
				// cancellation-class error before either is the branch's
				// own failure and falls through below.
			case firstErr == nil:
				firstErr = &BranchError{Branch: branchIndex(i), Err: err}
				tornDown = true
				for _, f := range fibers {
					f.Cancel()
				}
			}
		}

		if firstErr != nil {
			return nil, firstErr
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return results, nil
	}}
}

// ParTraverse maps f over xs to produce effects and applies ParSequence.
func ParTraverse[A, B any](xs []A, f func(A) Effect[B]) Effect[[]B] {
	effects := make([]Effect[B], len(xs))
	for i, x := range xs {
		effects[i] = f(x)
	}
	return ParSequence(effects)
}

// ParSequenceN is ParSequence with at most width effects running at once,
// gated by a permits semaphore. A non-positive width falls back to the
// config key "taskfx.par.width" and then to GOMAXPROCS.
func ParSequenceN[A any](width int, effects []Effect[A]) Effect[[]A] {
	return Effect[[]A]{run: func(ctx context.Context) ([]A, error) {
		w := width
		if w <= 0 {
			w = config.Int(ctx, config.KeyParWidth, runtime.GOMAXPROCS(0))
		}
		if w < 1 {
			w = 1
		}

		gate := permits.New(int64(w))
		gated := make([]Effect[A], len(effects))
		for i, e := range effects {
			e := e
			gated[i] = Func(func(ctx context.Context) (A, error) {
				if err := gate.AcquireN(ctx, 1); err != nil {
					var zero A
					return zero, err
				}
				defer gate.ReleaseN(1)
				return e.invoke(ctx)
			})
		}
		return ParSequence(gated).invoke(ctx)
	}}
}

// ParTraverseN maps f over xs and applies ParSequenceN.
func ParTraverseN[A, B any](width int, xs []A, f func(A) Effect[B]) Effect[[]B] {
	effects := make([]Effect[B], len(xs))
	for i, x := range xs {
		effects[i] = f(x)
	}
	return ParSequenceN(width, effects)
}

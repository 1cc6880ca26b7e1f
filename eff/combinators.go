package eff

import "context"

// Pair holds the results of two independently described effects.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Map returns an Effect that runs e and applies f to its result. Failures
// pass through untouched; f is not called on failure.
func Map[A, B any](e Effect[A], f func(A) B) Effect[B] {
	return Effect[B]{run: func(ctx context.Context) (B, error) {
		a, err := e.invoke(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a), nil
	}}
}

// FlatMap sequences two effects: it runs e, and on success applies f to
// the result to obtain the next Effect and runs that. On failure it
// short-circuits without calling f. Evaluation order is strictly
// left-to-right.
func FlatMap[A, B any](e Effect[A], f func(A) Effect[B]) Effect[B] {
	return Effect[B]{run: func(ctx context.Context) (B, error) {
		a, err := e.invoke(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return f(a).invoke(ctx)
	}}
}

// AndThen runs e, discards its result, and then runs next. Shorthand for
// the common FlatMap that ignores its input.
func AndThen[A, B any](e Effect[A], next Effect[B]) Effect[B] {
	return FlatMap(e, func(A) Effect[B] {
		return next
	})
}

// Zip runs e1 to completion, then e2 to completion, in that fixed order,
// and pairs their results. If e1 fails, e2 is never started; if e2 fails,
// the pair fails with e2's error.
func Zip[A, B any](e1 Effect[A], e2 Effect[B]) Effect[Pair[A, B]] {
	return Effect[Pair[A, B]]{run: func(ctx context.Context) (Pair[A, B], error) {
		a, err := e1.invoke(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		b, err := e2.invoke(ctx)
		if err != nil {
			var zero Pair[A, B]
			return zero, err
		}
		return Pair[A, B]{First: a, Second: b}, nil
	}}
}

// Map2 is Zip followed by combining the pair with f.
func Map2[A, B, C any](e1 Effect[A], e2 Effect[B], f func(A, B) C) Effect[C] {
	return Map(Zip(e1, e2), func(p Pair[A, B]) C {
		return f(p.First, p.Second)
	})
}

// Sequence reduces effects to one Effect yielding all results in order,
// with Zip semantics across elements: each effect runs to completion
// before the next starts, and the first failure stops the run with the
// remaining effects never started.
func Sequence[A any](effects []Effect[A]) Effect[[]A] {
	return Effect[[]A]{run: func(ctx context.Context) ([]A, error) {
		results := make([]A, 0, len(effects))
		for _, e := range effects {
			a, err := e.invoke(ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, a)
		}
		return results, nil
	}}
}

// Traverse maps f over xs to produce effects and applies Sequence.
func Traverse[A, B any](xs []A, f func(A) Effect[B]) Effect[[]B] {
	effects := make([]Effect[B], len(xs))
	for i, x := range xs {
		effects[i] = f(x)
	}
	return Sequence(effects)
}

// Replicate runs the same description n times sequentially and collects
// the results. Each run re-executes the description from scratch.
func Replicate[A any](e Effect[A], n int) Effect[[]A] {
	return Effect[[]A]{run: func(ctx context.Context) ([]A, error) {
		results := make([]A, 0, n)
		for i := 0; i < n; i++ {
			a, err := e.invoke(ctx)
			if err != nil {
				return nil, err
			}
			results = append(results, a)
		}
		return results, nil
	}}
}

// Repeat runs the same description n times sequentially, discarding the
// results. Useful for repeated-trial workloads where only the side
// effects matter.
func Repeat[A any](e Effect[A], n int) Effect[Unit] {
	return Effect[Unit]{run: func(ctx context.Context) (Unit, error) {
		for i := 0; i < n; i++ {
			if _, err := e.invoke(ctx); err != nil {
				return Unit{}, err
			}
		}
		return Unit{}, nil
	}}
}

// Catch runs e and, on failure, obtains a recovery Effect from h and runs
// that instead. Cancellation is not a failure and is never handed to h.
func Catch[A any](e Effect[A], h func(error) Effect[A]) Effect[A] {
	return Effect[A]{run: func(ctx context.Context) (A, error) {
		a, err := e.invoke(ctx)
		if err == nil || IsCancellation(err) {
			return a, err
		}
		return h(err).invoke(ctx)
	}}
}

// Retry re-runs e until it succeeds, at most maxAttempts times, and
// fails with the last error. Cancellation stops the retries immediately.
func Retry[A any](e Effect[A], maxAttempts int) Effect[A] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return Effect[A]{run: func(ctx context.Context) (A, error) {
		var (
			a   A
			err error
		)
		for attempt := 0; attempt < maxAttempts; attempt++ {
			a, err = e.invoke(ctx)
			if err == nil || IsCancellation(err) {
				return a, err
			}
		}
		var zero A
		return zero, err
	}}
}

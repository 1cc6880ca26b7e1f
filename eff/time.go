package eff

import (
	"context"
	"errors"
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// ErrTimeout is the failure produced by Timeout when the deadline elapses
// before the wrapped effect completes.
var ErrTimeout = errors.New("eff: timeout elapsed")

// TimedValue carries an effect's result together with how long running it
// took.
type TimedValue[A any] struct {
	Value   A
	Elapsed time.Duration
	Span    timespan.TimeSpan
}

// Sleep returns an Effect that suspends for d, or less if its context is
// done first, in which case it fails with the context's error.
func Sleep(d time.Duration) Effect[Unit] {
	return Effect[Unit]{run: func(ctx context.Context) (Unit, error) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-timer.C:
			return Unit{}, nil
		case <-ctx.Done():
			return Unit{}, ctx.Err()
		}
	}}
}

// Timed runs e and yields its result alongside the elapsed wall-clock
// time and the spanned interval. Failure behavior of e is unchanged: a
// failed run yields the failure, not a timing.
func Timed[A any](e Effect[A]) Effect[TimedValue[A]] {
	return Effect[TimedValue[A]]{run: func(ctx context.Context) (TimedValue[A], error) {
		start := time.Now()
		a, err := e.invoke(ctx)
		if err != nil {
			var zero TimedValue[A]
			return zero, err
		}
		end := time.Now()
		return TimedValue[A]{
			Value:   a,
			Elapsed: end.Sub(start),
			Span:    timespan.BetweenTimes(start, end),
		}, nil
	}}
}

// Timeout races e against a timer of d. If the timer wins, the effect
// fails with ErrTimeout and e's branch is cancelled.
func Timeout[A any](e Effect[A], d time.Duration) Effect[A] {
	deadline := FlatMap(Sleep(d), func(Unit) Effect[A] {
		return Fail[A](ErrTimeout)
	})
	return Race(e, deadline)
}

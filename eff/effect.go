package eff

import (
	"context"
	"runtime/debug"
)

// Effect describes a computation that, when run, yields a value of type A
// or fails with an error. Effects are immutable values; combinators build
// new descriptions and never mutate existing ones. The zero Effect is not
// valid; use a constructor.
type Effect[A any] struct {
	run func(context.Context) (A, error)
}

// Unit is the result type of effects run only for their side effect.
type Unit struct{}

// invoke runs the description. The context check makes every step
// boundary a cancellation checkpoint, so a long chain stops promptly once
// its context is done.
func (e Effect[A]) invoke(ctx context.Context) (A, error) {
	if err := ctx.Err(); err != nil {
		var zero A
		return zero, err
	}
	if e.run == nil {
		panic("eff: zero Effect value; use a constructor")
	}
	return e.run(ctx)
}

// Pure returns an Effect that yields a without suspension. It never
// fails.
func Pure[A any](a A) Effect[A] {
	return Effect[A]{run: func(context.Context) (A, error) {
		return a, nil
	}}
}

// Fail returns an Effect that fails with err.
func Fail[A any](err error) Effect[A] {
	return Effect[A]{run: func(context.Context) (A, error) {
		var zero A
		return zero, err
	}}
}

// Delay wraps a side-effecting thunk. The thunk runs exactly once per run
// of the returned Effect and not at construction time. A panic in the
// thunk fails the Effect with a *PanicError.
func Delay[A any](thunk func() (A, error)) Effect[A] {
	return Effect[A]{run: protect(func(context.Context) (A, error) {
		return thunk()
	})}
}

// Func wraps a context-aware operation, for leaves that block or sleep
// and should observe cancellation. A panic in f fails the Effect with a
// *PanicError.
func Func[A any](f func(context.Context) (A, error)) Effect[A] {
	return Effect[A]{run: protect(f)}
}

func protect[A any](f func(context.Context) (A, error)) func(context.Context) (A, error) {
	return func(ctx context.Context) (val A, err error) {
		defer func() {
			if r := recover(); r != nil {
				var zero A
				val, err = zero, &PanicError{Value: r, Stack: debug.Stack()}
			}
		}()
		return f(ctx)
	}
}

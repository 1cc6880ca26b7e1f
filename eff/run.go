package eff

import (
	"context"

	"github.com/taskfx/taskfx/eff/log"
)

// Run interprets an effect description to completion and returns its
// terminal value or failure. The context bounds the whole run: when it is
// done, suspension points and step boundaries stop with its error.
//
// Run attaches a logger to the context if none is present (see log.Ensure)
// so that fiber lifecycle logging has somewhere to go. Nothing is retried
// automatically; retries are composed explicitly with Retry or FlatMap.
func Run[A any](ctx context.Context, e Effect[A]) (A, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return e.invoke(log.Ensure(ctx))
}

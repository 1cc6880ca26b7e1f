// Package fiber runs one concurrent branch of an effect on its own
// goroutine and exposes its completion for joining and its context for
// cancellation.
package fiber

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskfx/taskfx/eff/log"
	"go.uber.org/zap"
)

// Fiber is a running branch producing a value of type A or an error.
// Its result is readable only after Done is closed.
type Fiber[A any] struct {
	id     string
	name   string
	cancel context.CancelFunc
	done   chan struct{}
	val    A
	err    error
}

// Start launches fn on a new goroutine under a child context of ctx.
// fn's deferred cleanup always runs on the fiber's goroutine, whether the
// fiber completes, fails, or is cancelled.
func Start[A any](ctx context.Context, name string, fn func(context.Context) (A, error)) *Fiber[A] {
	fctx, cancel := context.WithCancel(ctx)
	f := &Fiber[A]{
		id:     uuid.NewString(),
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	logger := log.From(ctx).With(
		zap.String("fiber_id", f.id),
		zap.String("fiber_name", name),
	)

	go func() {
		defer close(f.done)
		defer cancel()
		defer func() {
			// Effects wrap their leaves with panic capture; this is the
			// backstop for anything that slipped past it, so the fiber
			// never takes the process down.
			if r := recover(); r != nil {
				f.err = fmt.Errorf("fiber %s: panic: %v", f.id, r)
				logger.Error("fiber panicked", zap.Any("recovered", r))
			}
		}()

		logger.Debug("fiber started")
		f.val, f.err = fn(fctx)
		switch {
		case f.err == nil:
			logger.Debug("fiber completed")
		case fctx.Err() != nil:
			logger.Debug("fiber wound down", zap.Error(f.err))
		default:
			logger.Debug("fiber failed", zap.Error(f.err))
		}
	}()

	return f
}

// ID returns the fiber's unique identifier.
func (f *Fiber[A]) ID() string { return f.id }

// Name returns the name given at Start.
func (f *Fiber[A]) Name() string { return f.name }

// Done is closed once the fiber has finished, including after
// cancellation.
func (f *Fiber[A]) Done() <-chan struct{} { return f.done }

// Cancel asks the fiber to stop by cancelling its context. It does not
// wait; use Join or Done for that. Safe to call multiple times and after
// completion.
func (f *Fiber[A]) Cancel() { f.cancel() }

// Join waits for the fiber to finish and returns its outcome. If ctx is
// done first, Join returns ctx.Err() and the fiber keeps running.
func (f *Fiber[A]) Join(ctx context.Context) (A, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero A
		return zero, ctx.Err()
	}
}

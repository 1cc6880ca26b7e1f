package eff

import (
	"context"

	"github.com/taskfx/taskfx/eff/cell"
	"github.com/taskfx/taskfx/eff/permits"
)

// The lifts below turn cell and permits operations into Effects so they
// can be composed into descriptions. Handles are passed in explicitly:
// a branch's constructor signature shows exactly which shared state it
// touches.

// CellGet yields the cell's current value.
func CellGet[A any](c *cell.Cell[A]) Effect[A] {
	return Delay(func() (A, error) {
		return c.Get(), nil
	})
}

// CellSet replaces the cell's value.
func CellSet[A any](c *cell.Cell[A], v A) Effect[Unit] {
	return Delay(func() (Unit, error) {
		c.Set(v)
		return Unit{}, nil
	})
}

// CellUpdate atomically replaces the cell's value v with f(v).
func CellUpdate[A any](c *cell.Cell[A], f func(A) A) Effect[Unit] {
	return Delay(func() (Unit, error) {
		c.Update(f)
		return Unit{}, nil
	})
}

// CellUpdateAndGet atomically replaces the cell's value and yields the
// new value.
func CellUpdateAndGet[A any](c *cell.Cell[A], f func(A) A) Effect[A] {
	return Delay(func() (A, error) {
		return c.UpdateAndGet(f), nil
	})
}

// CellGetAndUpdate atomically replaces the cell's value and yields the
// prior value.
func CellGetAndUpdate[A any](c *cell.Cell[A], f func(A) A) Effect[A] {
	return Delay(func() (A, error) {
		return c.GetAndUpdate(f), nil
	})
}

// AcquireN suspends until n permits are available and deducts them. The
// wait observes cancellation: a torn-down branch abandons its place in
// the queue without holding permits.
func AcquireN(p *permits.Permits, n int64) Effect[Unit] {
	return Effect[Unit]{run: func(ctx context.Context) (Unit, error) {
		if err := p.AcquireN(ctx, n); err != nil {
			return Unit{}, err
		}
		return Unit{}, nil
	}}
}

// ReleaseN adds n permits, waking queued acquirers. It never suspends.
func ReleaseN(p *permits.Permits, n int64) Effect[Unit] {
	return Delay(func() (Unit, error) {
		p.ReleaseN(n)
		return Unit{}, nil
	})
}

// WithPermit brackets e between acquiring and releasing one permit. The
// release runs whether e succeeds or fails.
func WithPermit[A any](p *permits.Permits, e Effect[A]) Effect[A] {
	return Effect[A]{run: func(ctx context.Context) (A, error) {
		if err := p.AcquireN(ctx, 1); err != nil {
			var zero A
			return zero, err
		}
		defer p.ReleaseN(1)
		return e.invoke(ctx)
	}}
}

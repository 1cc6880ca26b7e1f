// Package cell provides an atomically updatable single-slot holder shared
// by reference between concurrently running branches.
//
// Every operation on a Cell is serializable: the net effect of any set of
// concurrent operations is equivalent to some total ordering of them. The
// one way to lose that guarantee is to read a value with Get, derive a new
// value outside the cell, and write it back with Set: two separate
// critical sections that another branch can interleave between. Use Update,
// UpdateAndGet or GetAndUpdate instead; they run the whole
// read-modify-write as one indivisible step.
package cell

import "sync"

// Cell is a mutable single-slot holder of a value of type A. The zero
// value holds the zero value of A and is ready to use; New is the usual
// way to pick the initial value. A Cell must not be copied after first use.
type Cell[A any] struct {
	mu sync.Mutex
	v  A
}

// New allocates a Cell holding initial.
func New[A any](initial A) *Cell[A] {
	return &Cell[A]{v: initial}
}

// Get returns the current value.
func (c *Cell[A]) Get() A {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

// Set replaces the current value with v.
func (c *Cell[A]) Set(v A) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = v
}

// Update replaces the current value v with f(v) as one indivisible step.
// f runs while the cell is locked and must not call back into the same
// cell.
func (c *Cell[A]) Update(f func(A) A) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = f(c.v)
}

// UpdateAndGet replaces the current value v with f(v) and returns the new
// value, as one indivisible step.
func (c *Cell[A]) UpdateAndGet(f func(A) A) A {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = f(c.v)
	return c.v
}

// GetAndUpdate replaces the current value v with f(v) and returns the
// prior value, as one indivisible step.
func (c *Cell[A]) GetAndUpdate(f func(A) A) A {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.v
	c.v = f(prev)
	return prev
}

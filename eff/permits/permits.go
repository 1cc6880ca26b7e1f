// Package permits provides a counting semaphore for coordinating
// availability between concurrent branches.
//
// The count never goes negative: an acquire of n completes only once at
// least n permits are available, and the check-and-deduct is one
// indivisible step relative to every other acquire and release.
//
// Waiters are served in strict FIFO order. A request at the head of the
// queue blocks later requests even when those could be satisfied with the
// permits currently available; this head-of-line policy is what guarantees
// a large acquire eventually proceeds instead of starving behind a stream
// of small ones.
package permits

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
)

type waiter struct {
	n     int64
	ready chan struct{}
}

// Permits is a counting semaphore. New is the only valid constructor; a
// Permits must not be copied after first use.
type Permits struct {
	mu      sync.Mutex
	avail   int64
	waiters deque.Deque[*waiter]
}

// New allocates a semaphore with initial permits available. Panics if
// initial is negative.
func New(initial int64) *Permits {
	if initial < 0 {
		panic("permits: negative initial count")
	}
	return &Permits{avail: initial}
}

// AcquireN blocks until n permits are available and deducts them. It
// returns ctx.Err() if ctx is done before the permits are granted; in that
// case no permits are held by the caller. Panics if n is negative.
func (p *Permits) AcquireN(ctx context.Context, n int64) error {
	if n < 0 {
		panic("permits: negative acquire")
	}

	p.mu.Lock()
	if p.waiters.Len() == 0 && p.avail >= n {
		p.avail -= n
		p.mu.Unlock()
		return nil
	}
	w := &waiter{n: n, ready: make(chan struct{})}
	p.waiters.PushBack(w)
	p.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		p.mu.Lock()
		select {
		case <-w.ready:
			// Granted concurrently with cancellation. Hand the permits
			// back, since the caller is about to report failure.
			p.avail += n
			p.notifyLocked()
		default:
			p.removeLocked(w)
			p.notifyLocked()
		}
		p.mu.Unlock()
		return ctx.Err()
	}
}

// TryAcquireN deducts n permits without blocking and reports whether it
// succeeded. It fails when fewer than n permits are available or when
// earlier acquirers are already queued. Panics if n is negative.
func (p *Permits) TryAcquireN(n int64) bool {
	if n < 0 {
		panic("permits: negative acquire")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.waiters.Len() > 0 || p.avail < n {
		return false
	}
	p.avail -= n
	return true
}

// ReleaseN adds n permits and grants as many queued acquires, in FIFO
// order, as the new count satisfies. It never blocks. Panics if n is
// negative.
func (p *Permits) ReleaseN(n int64) {
	if n < 0 {
		panic("permits: negative release")
	}
	p.mu.Lock()
	p.avail += n
	p.notifyLocked()
	p.mu.Unlock()
}

// Available returns the current number of unclaimed permits. The value is
// a snapshot and may be stale by the time the caller uses it; it exists
// for monitoring and tests, not for check-then-acquire logic.
func (p *Permits) Available() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.avail
}

func (p *Permits) notifyLocked() {
	for p.waiters.Len() > 0 {
		w := p.waiters.Front()
		if p.avail < w.n {
			break
		}
		p.avail -= w.n
		p.waiters.PopFront()
		close(w.ready)
	}
}

func (p *Permits) removeLocked(w *waiter) {
	if i := p.waiters.Index(func(x *waiter) bool { return x == w }); i >= 0 {
		p.waiters.Remove(i)
	}
}

// Package sysfx provides the system leaves the runtime schedules but does
// not interpret: console output, random numbers, wall-clock time, and a
// CPU-burning workload. Each constructor returns an inert Effect; nothing
// happens until the description is run.
package sysfx

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/taskfx/taskfx/eff"
)

// Console writes lines to a single destination. Writes from concurrent
// branches are serialized so lines never interleave mid-line.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole returns a Console writing to out; nil selects os.Stdout.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// PrintLine yields an Effect that writes s followed by a newline.
func (c *Console) PrintLine(s string) eff.Effect[eff.Unit] {
	return eff.Delay(func() (eff.Unit, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, err := fmt.Fprintln(c.out, s)
		return eff.Unit{}, err
	})
}

// Printf yields an Effect that writes the formatted string. No newline is
// appended.
func (c *Console) Printf(format string, args ...any) eff.Effect[eff.Unit] {
	return eff.Delay(func() (eff.Unit, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		_, err := fmt.Fprintf(c.out, format, args...)
		return eff.Unit{}, err
	})
}

// Rand is a seeded random source safe for use from concurrent branches.
type Rand struct {
	mu  sync.Mutex
	src *rand.Rand
}

// NewRand returns a Rand seeded with seed, so repeated-trial workloads
// can be made reproducible.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// IntN yields an Effect producing a uniform int in [0, n). It fails when
// n is not positive.
func (r *Rand) IntN(n int) eff.Effect[int] {
	return eff.Delay(func() (int, error) {
		if n <= 0 {
			return 0, fmt.Errorf("sysfx: IntN bound must be positive, got %d", n)
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.src.Intn(n), nil
	})
}

// Float64 yields an Effect producing a uniform float64 in [0, 1).
func (r *Rand) Float64() eff.Effect[float64] {
	return eff.Delay(func() (float64, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.src.Float64(), nil
	})
}

// Clock provides wall-clock readings as Effects.
type Clock struct{}

// Now yields an Effect producing the current time at run time, not the
// time the description was built.
func (Clock) Now() eff.Effect[time.Time] {
	return eff.Delay(func() (time.Time, error) {
		return time.Now(), nil
	})
}

// burnBatch is how many iterations Burn runs between cancellation checks.
const burnBatch = 4096

// Burn yields a CPU-bound Effect whose cost scales with tokens. It checks
// its context between batches, so a racing or timed-out branch running
// Burn still winds down promptly. The returned value is a checksum of the
// work, which keeps the loop from being optimized away.
func Burn(tokens int) eff.Effect[uint64] {
	return eff.Func(func(ctx context.Context) (uint64, error) {
		var acc uint64 = 0x9e3779b97f4a7c15
		for i := 0; i < tokens; i++ {
			for j := 0; j < burnBatch; j++ {
				acc ^= acc << 13
				acc ^= acc >> 7
				acc ^= acc << 17
			}
			if err := ctx.Err(); err != nil {
				return acc, err
			}
		}
		return acc, nil
	})
}

// Package clock provides a monotonic microsecond clock.
//
// MonotonicClock wraps a wall-clock source that may stall, repeat, or jump
// backwards (NTP corrections, coarse timers) and turns it into a strictly
// increasing sequence of microsecond timestamps.
//
// When the source reading is not ahead of the last issued value, the clock
// issues last+1 instead. Under sustained load faster than one call per
// microsecond the sequence runs ahead of wall time; that drift is bounded by
// the call rate and is not an error.
package clock

import (
	"sync"
	"time"
)

// Source returns the current wall-clock time in microseconds since the Unix
// epoch. It is not required to be monotonic.
type Source func() int64

// WallMicros is the default Source.
func WallMicros() int64 {
	return time.Now().UnixMicro()
}

// MonotonicClock issues strictly increasing microsecond timestamps.
//
// Thread-safety: MonotonicClock is safe for concurrent use. The critical
// section covers one source read and one integer update.
type MonotonicClock struct {
	mu     sync.Locker
	source Source
	last   int64
}

// Option configures a MonotonicClock.
type Option func(*MonotonicClock)

// WithSource replaces the wall-clock source.
func WithSource(src Source) Option {
	return func(c *MonotonicClock) {
		if src != nil {
			c.source = src
		}
	}
}

// WithLocker replaces the lock guarding the last issued value.
func WithLocker(l sync.Locker) Option {
	return func(c *MonotonicClock) {
		if l != nil {
			c.mu = l
		}
	}
}

// WithStart seeds the last issued value, e.g. to resume after a value
// persisted by a previous process.
func WithStart(last int64) Option {
	return func(c *MonotonicClock) {
		c.last = last
	}
}

// New creates a clock. It does not read the source until the first Next.
func New(opts ...Option) *MonotonicClock {
	c := &MonotonicClock{
		mu:     &sync.Mutex{},
		source: WallMicros,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Next returns the next timestamp. Every value returned by a clock, across
// all goroutines, is strictly greater than every value it returned before.
func (c *MonotonicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.source()
	if now > c.last {
		c.last = now
	} else {
		c.last++
	}
	return c.last
}

// Last returns the most recently issued timestamp without advancing the
// clock. It is 0 (or the WithStart value) before the first Next.
func (c *MonotonicClock) Last() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

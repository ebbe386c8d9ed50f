package lexid

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/roach88/lexid/clock"
	"github.com/roach88/lexid/worker"
)

// JitterFunc returns a jitter value.
type JitterFunc func() int32

// RandomJitter draws uniformly from the full int32 range.
func RandomJitter() int32 {
	return int32(rand.Uint32())
}

// Generator mints IDs from a monotonic clock, a jitter source and a worker
// id provider.
//
// Thread-safety: Generator is safe for concurrent use as long as its jitter
// source is. RandomJitter is.
type Generator struct {
	clock   *clock.MonotonicClock
	workers *worker.Provider
	jitter  JitterFunc
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock replaces the timestamp clock.
func WithClock(c *clock.MonotonicClock) Option {
	return func(g *Generator) {
		if c != nil {
			g.clock = c
		}
	}
}

// WithWorkerProvider replaces the worker id provider.
func WithWorkerProvider(p *worker.Provider) Option {
	return func(g *Generator) {
		if p != nil {
			g.workers = p
		}
	}
}

// WithJitterSource replaces the jitter source.
func WithJitterSource(fn JitterFunc) Option {
	return func(g *Generator) {
		if fn != nil {
			g.jitter = fn
		}
	}
}

// NewGenerator creates a Generator. Defaults: a wall-clock MonotonicClock, a
// worker provider deriving from the local host, and RandomJitter.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		clock:   clock.New(),
		workers: worker.NewProvider(),
		jitter:  RandomJitter,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New mints a fresh ID. The only failure is worker id derivation, which is
// resolved before the clock is advanced.
func (g *Generator) New(ctx context.Context) (ID, error) {
	workerID, err := g.workers.WorkerID(ctx)
	if err != nil {
		return Nil, fmt.Errorf("new id: %w", err)
	}
	return ID{
		Timestamp: g.clock.Next(),
		Jitter:    g.jitter(),
		WorkerID:  workerID,
	}, nil
}

// FieldOption overrides a field for Generator.At.
type FieldOption func(*fieldOverrides)

type fieldOverrides struct {
	jitter   *int32
	workerID *int32
}

// WithJitter fixes the jitter instead of drawing a random one.
func WithJitter(j int32) FieldOption {
	return func(f *fieldOverrides) { f.jitter = &j }
}

// WithWorkerID fixes the worker id instead of using the provider's.
func WithWorkerID(w int32) FieldOption {
	return func(f *fieldOverrides) { f.workerID = &w }
}

// At builds an ID for an explicit timestamp without consulting the clock.
// Jitter is random and the worker id is the provider's unless overridden.
// When both are overridden the result is fully deterministic and the
// provider is never called.
func (g *Generator) At(ctx context.Context, timestamp int64, opts ...FieldOption) (ID, error) {
	var f fieldOverrides
	for _, opt := range opts {
		opt(&f)
	}

	id := ID{Timestamp: timestamp}
	if f.workerID != nil {
		id.WorkerID = *f.workerID
	} else {
		w, err := g.workers.WorkerID(ctx)
		if err != nil {
			return Nil, fmt.Errorf("id at %d: %w", timestamp, err)
		}
		id.WorkerID = w
	}
	if f.jitter != nil {
		id.Jitter = *f.jitter
	} else {
		id.Jitter = g.jitter()
	}
	return id, nil
}

// FromTime is At with the timestamp taken from t at microsecond precision.
func (g *Generator) FromTime(ctx context.Context, t time.Time, opts ...FieldOption) (ID, error) {
	return g.At(ctx, t.UnixMicro(), opts...)
}

// WorkerID returns the worker id this generator stamps on new IDs.
func (g *Generator) WorkerID(ctx context.Context) (int32, error) {
	return g.workers.WorkerID(ctx)
}

var defaultGenerator = sync.OnceValue(func() *Generator {
	return NewGenerator()
})

// Default returns the process-wide Generator, created on first use.
func Default() *Generator {
	return defaultGenerator()
}

// New mints a fresh ID from the default Generator.
func New() (ID, error) {
	return Default().New(context.Background())
}

// MustNew is like New but panics if the worker id cannot be derived.
func MustNew() ID {
	id, err := New()
	if err != nil {
		panic(err)
	}
	return id
}

// At builds an ID for an explicit timestamp using the default Generator.
func At(timestamp int64, opts ...FieldOption) (ID, error) {
	return Default().At(context.Background(), timestamp, opts...)
}

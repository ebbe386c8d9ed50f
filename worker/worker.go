package worker

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"
)

// PIDFunc returns the current process id.
type PIDFunc func() int

// Hash64 computes the 64-bit FNV-1a hash of b.
func Hash64(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b) // never returns an error
	return h.Sum64()
}

// Key builds the string hashed into a worker id: "<fqdn>-<pid>".
// The host name is NFC-normalised so that equivalent Unicode spellings of an
// internationalised host name derive the same id.
func Key(fqdn string, pid int) string {
	return norm.NFC.String(fqdn) + "-" + strconv.Itoa(pid)
}

// Derive computes the worker id for a host and process. The 64-bit hash is
// truncated to its low 32 bits, the width of the worker field.
func Derive(fqdn string, pid int) int32 {
	return int32(uint32(Hash64([]byte(Key(fqdn, pid)))))
}

// Provider computes a worker id once and serves the cached value afterwards.
//
// Thread-safety: Provider is safe for concurrent use. Concurrent first
// calls serialise on a mutex; once a result is cached, reads are lock-free.
//
// A failure caused by the caller's context (cancellation or deadline) is
// returned but not cached, so the next call resolves again.
type Provider struct {
	resolver Resolver
	pid      PIDFunc
	fixed    *int32
	logger   *slog.Logger

	mu   sync.Mutex
	done atomic.Bool
	key  string
	id   int32
	err  error
}

// Option configures a Provider.
type Option func(*Provider)

// WithResolver replaces the host name resolver.
func WithResolver(r Resolver) Option {
	return func(p *Provider) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithPID replaces the process id lookup.
func WithPID(fn PIDFunc) Option {
	return func(p *Provider) {
		if fn != nil {
			p.pid = fn
		}
	}
}

// WithFixed pins the worker id. Resolution is skipped entirely.
func WithFixed(id int32) Option {
	return func(p *Provider) {
		p.fixed = &id
	}
}

// WithLogger sets the logger used to report derivation.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider creates a Provider. Nothing is resolved until the first call
// to WorkerID or Key.
func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		resolver: SystemResolver{},
		pid:      os.Getpid,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fixed returns a Provider pinned to id.
func Fixed(id int32) *Provider {
	return NewProvider(WithFixed(id))
}

// WorkerID returns the cached worker id, deriving it on first use.
// A resolution failure is returned on this and every subsequent call.
func (p *Provider) WorkerID(ctx context.Context) (int32, error) {
	if err := p.resolve(ctx); err != nil {
		return 0, err
	}
	return p.id, nil
}

// Key returns the "<fqdn>-<pid>" string the worker id was derived from.
// It is empty for a Provider created WithFixed.
func (p *Provider) Key(ctx context.Context) (string, error) {
	if err := p.resolve(ctx); err != nil {
		return "", err
	}
	return p.key, nil
}

// resolve derives and caches the worker id. key, id and err are written
// before done is set and never after.
func (p *Provider) resolve(ctx context.Context) error {
	if p.done.Load() {
		return p.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done.Load() {
		return p.err
	}

	key, id, err := p.derive(ctx)
	if err != nil && isContextError(ctx, err) {
		p.logger.Debug("worker id derivation interrupted", "error", err)
		return err
	}

	p.key, p.id, p.err = key, id, err
	p.done.Store(true)
	return err
}

func (p *Provider) derive(ctx context.Context) (string, int32, error) {
	if p.fixed != nil {
		p.logger.Debug("worker id pinned", "worker_id", *p.fixed)
		return "", *p.fixed, nil
	}

	fqdn, err := p.resolver.FQDN(ctx)
	if err != nil {
		if !IsResolutionError(err) && !isContextError(ctx, err) {
			err = &ResolutionError{Err: err}
		}
		if !isContextError(ctx, err) {
			p.logger.Error("worker id derivation failed", "error", err)
		}
		return "", 0, err
	}

	key := Key(fqdn, p.pid())
	id := int32(uint32(Hash64([]byte(key))))
	p.logger.Debug("worker id derived",
		"key", key,
		"worker_id", id,
	)
	return key, id, nil
}

// isContextError reports whether err stems from the caller giving up rather
// than from the host.
func isContextError(ctx context.Context, err error) bool {
	return ctx.Err() != nil ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

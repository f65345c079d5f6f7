// Package leasepool implements a generic, concurrent object pool for
// expensive-to-construct, reusable resources: authenticated network
// connections, database sessions, RPC channels. Callers lease an
// instance, use it, then release it; the pool keeps a bounded
// population alive, reuses idle instances, and optionally verifies and
// reinitializes ("prepares") an instance before handing it out.
package leasepool

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Pool mediates access to a bounded population of Resource instances.
// It is safe for concurrent use by multiple goroutines; it must not be
// copied after first use.
type Pool[T any] struct {
	name string
	opts Options

	factory     Factory[T]
	destructor  Destructor[T]
	preparation PreparationStrategy[T]
	metrics     MetricsSink

	mu        sync.Mutex
	allocated int

	idle    *idleStore[T]
	waiters *waiterQueue[T]

	disposed atomic.Bool
}

// New constructs a Pool named poolName (used as the metric-name prefix)
// from factory and destructor, applying opts in order. If
// Options.MinSize is positive, New synchronously pre-populates that
// many idle instances before returning.
func New[T any](poolName string, factory Factory[T], destructor Destructor[T], opts ...Option[T]) (*Pool[T], error) {
	cfg := poolConfig[T]{Options: defaultOptions(), metrics: NoopMetricsSink()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Options.validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: factory must not be nil", ErrInvalidArgument)
	}

	p := &Pool[T]{
		name:        poolName,
		opts:        cfg.Options,
		factory:     factory,
		destructor:  destructor,
		preparation: cfg.preparation,
		metrics:     cfg.metrics,
		idle:        newIdleStore[T](),
		waiters:     newWaiterQueue[T](),
	}

	p.metrics.RegisterItemsAllocatedObserver(p.name, func() float64 { return float64(p.Allocated()) })
	p.metrics.RegisterItemsAvailableObserver(p.name, func() float64 { return float64(p.Available()) })
	p.metrics.RegisterActiveLeasesObserver(p.name, func() float64 { return float64(p.ActiveLeases()) })
	p.metrics.RegisterQueuedLeasesObserver(p.name, func() float64 { return float64(p.QueuedLeases()) })
	p.metrics.RegisterUtilizationRateObserver(p.name, p.UtilizationRate)

	if cfg.MinSize > 0 {
		if err := p.warmup(context.Background(), cfg.MinSize); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Pool[T]) warmup(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		instance, err := p.allocateOne(ctx)
		if err != nil {
			return err
		}
		p.idle.push(instance)
	}
	return nil
}

// allocateOne increments the allocation counter and asks the factory
// for a new instance, rolling the counter back if the factory fails.
// It does not check MaxSize — callers that must respect the cap use
// tryAllocate instead.
func (p *Pool[T]) allocateOne(ctx context.Context) (T, error) {
	var zero T

	p.mu.Lock()
	p.allocated++
	p.mu.Unlock()

	instance, err := p.factory(ctx)
	if err != nil {
		p.mu.Lock()
		p.allocated--
		p.mu.Unlock()
		return zero, fmt.Errorf("%w: %v", ErrFactoryFailed, err)
	}
	return instance, nil
}

// tryAllocate increments allocated and asks the factory for a new
// instance, but only if doing so keeps allocated <= MaxSize. The second
// return value reports whether an allocation was attempted at all.
func (p *Pool[T]) tryAllocate(ctx context.Context) (item T, attempted bool, err error) {
	p.mu.Lock()
	if p.allocated >= p.opts.MaxSize {
		p.mu.Unlock()
		var zero T
		return zero, false, nil
	}
	p.allocated++
	p.mu.Unlock()

	instance, ferr := p.factory(ctx)
	if ferr != nil {
		p.mu.Lock()
		p.allocated--
		p.mu.Unlock()
		var zero T
		return zero, true, fmt.Errorf("%w: %v", ErrFactoryFailed, ferr)
	}
	return instance, true, nil
}

// Lease returns an instance from the pool, blocking until one is
// available, ctx is done, or the pool's LeaseTimeout elapses —
// whichever comes first.
func (p *Pool[T]) Lease(ctx context.Context) (T, error) {
	var zero T
	if p.disposed.Load() {
		return zero, ErrDisposed
	}

	start := time.Now()

	for {
		entry, ok := p.idle.popFront()
		if !ok {
			break
		}
		if p.opts.IdleTimeout > 0 && time.Since(entry.idleSince) > p.opts.IdleTimeout {
			p.evict(entry.instance)
			continue
		}

		prepared, perr := p.prepare(ctx, entry.instance)
		if perr != nil {
			p.destroyAfterFailedPreparation(entry.instance)
			return zero, perr
		}
		p.metrics.RecordLeaseWaitTime(time.Since(start))
		return prepared, nil
	}

	instance, attempted, err := p.tryAllocate(ctx)
	if attempted {
		if err != nil {
			p.metrics.RecordLeaseException(err)
			return zero, err
		}
		prepared, perr := p.prepare(ctx, instance)
		if perr != nil {
			p.destroyAfterFailedPreparation(instance)
			return zero, perr
		}
		p.metrics.RecordLeaseWaitTime(time.Since(start))
		return prepared, nil
	}

	// Pool is at MaxSize and the idle store is empty: park as a waiter.
	// The instance this request eventually receives is already prepared
	// by the releasing side.
	req := newLeaseRequest[T](ctx, p.opts.LeaseTimeout)
	p.waiters.enqueue(req)

	result, werr := req.wait()
	if werr != nil {
		// A cancelled or timed-out request no longer counts as queued.
		p.waiters.mu.Lock()
		for e := p.waiters.l.Front(); e != nil; e = e.Next() {
			if e.Value.(*leaseRequest[T]) == req {
				p.waiters.l.Remove(e)
				break
			}
		}
		p.waiters.mu.Unlock()
		p.metrics.RecordLeaseException(werr)
		return zero, werr
	}
	p.metrics.RecordLeaseWaitTime(time.Since(start))
	return result, nil
}

// Release returns a previously leased instance to the pool. If a live
// waiter is parked, the instance (after preparation) is handed directly
// to the oldest one; otherwise it is placed in the idle store.
func (p *Pool[T]) Release(ctx context.Context, item T) error {
	if p.disposed.Load() {
		return ErrDisposed
	}
	if isNilValue(item) {
		return fmt.Errorf("%w: release called with a nil instance", ErrInvalidArgument)
	}

	candidate := item
	prepared := false

	for {
		req, ok := p.waiters.dequeue()
		if !ok {
			break
		}

		if !prepared {
			var perr error
			candidate, perr = p.prepare(ctx, item)
			prepared = true
			if perr != nil {
				req.trySetError(perr)
				p.destroyAfterFailedPreparation(item)
				return perr
			}
		}

		if req.trySetResult(candidate) {
			return nil
		}
		// req had already settled (timed out / cancelled): discard and
		// keep scanning for a live waiter. Preparation is not repeated.
	}

	p.idle.push(candidate)
	return nil
}

// Clear destroys every idle instance, then recreates
// max(QueuedLeases, MinSize) fresh instances, funnelling each through
// Release so pending waiters are satisfied before the remainder land in
// the idle store. Currently-leased instances are left untouched — Clear
// cannot revoke them.
func (p *Pool[T]) Clear(ctx context.Context) error {
	if p.disposed.Load() {
		return ErrDisposed
	}

	drained := p.idle.drain()
	if len(drained) > 0 {
		p.mu.Lock()
		p.allocated -= len(drained)
		p.mu.Unlock()
		for _, item := range drained {
			p.destroy(item)
		}
	}

	target := p.waiters.len()
	if p.opts.MinSize > target {
		target = p.opts.MinSize
	}

	for i := 0; i < target; i++ {
		instance, err := p.allocateOne(ctx)
		if err != nil {
			return err
		}
		_ = p.Release(ctx, instance)
	}
	return nil
}

// Dispose transitions the pool to disposed exactly once: every parked
// waiter is settled with ErrCancelled, every idle instance is
// destroyed, and all subsequent operations fail with ErrDisposed.
// Dispose is idempotent and safe to call multiple times.
func (p *Pool[T]) Dispose() {
	if !p.disposed.CompareAndSwap(false, true) {
		return
	}
	for _, req := range p.waiters.drain() {
		req.trySetError(ErrCancelled)
	}
	for _, item := range p.idle.drain() {
		p.destroy(item)
	}
}

// prepare runs the pool's PreparationStrategy, if any, against item
// bounded by PreparationTimeout composed with ctx.
func (p *Pool[T]) prepare(ctx context.Context, item T) (T, error) {
	if p.preparation == nil {
		return item, nil
	}

	pctx := ctx
	if p.opts.PreparationTimeout > 0 {
		var cancel context.CancelFunc
		pctx, cancel = context.WithTimeout(ctx, p.opts.PreparationTimeout)
		defer cancel()
	}

	start := time.Now()

	ready, err := p.preparation.IsReady(pctx, item)
	if err != nil {
		p.metrics.RecordPreparationException(err)
		return item, fmt.Errorf("%w: %v", ErrPreparationFailed, err)
	}
	if ready {
		return item, nil
	}

	if err := p.preparation.Prepare(pctx, item); err != nil {
		p.metrics.RecordPreparationException(err)
		return item, fmt.Errorf("%w: %v", ErrPreparationFailed, err)
	}
	p.metrics.RecordPreparationTime(time.Since(start))
	return item, nil
}

func (p *Pool[T]) destroy(item T) {
	if p.destructor != nil {
		p.destructor(item)
	}
}

// evict destroys a stale idle instance found during the lease hot path
// and decrements allocated accordingly.
func (p *Pool[T]) evict(item T) {
	p.mu.Lock()
	p.allocated--
	p.mu.Unlock()
	p.destroy(item)
}

// destroyAfterFailedPreparation destroys an instance whose preparation
// failed. It is never returned to the idle store.
func (p *Pool[T]) destroyAfterFailedPreparation(item T) {
	p.mu.Lock()
	p.allocated--
	p.mu.Unlock()
	p.destroy(item)
}

// Allocated returns the number of instances currently owned by the pool
// (idle + leased).
func (p *Pool[T]) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

// Available returns the number of instances currently sitting in the
// idle store.
func (p *Pool[T]) Available() int {
	return p.idle.len()
}

// ActiveLeases returns the number of instances currently on loan.
// Snapshots of Allocated and Available are taken independently, so
// under contention the raw difference can transiently go negative; the
// result is clamped at zero.
func (p *Pool[T]) ActiveLeases() int {
	active := p.Allocated() - p.Available()
	if active < 0 {
		return 0
	}
	return active
}

// QueuedLeases returns the number of callers currently parked waiting
// for an instance.
func (p *Pool[T]) QueuedLeases() int {
	return p.waiters.len()
}

// UtilizationRate returns ActiveLeases / Allocated, or 0 when the pool
// has not allocated anything yet.
func (p *Pool[T]) UtilizationRate() float64 {
	allocated := p.Allocated()
	if allocated == 0 {
		return 0
	}
	return float64(p.ActiveLeases()) / float64(allocated)
}

// isNilValue reports whether v holds a nil pointer, interface, map,
// slice, channel, or function — the only T kinds for which "passed a
// nil instance" is a meaningful, detectable invalid argument.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

package leasepool

import (
	"context"
	"sync"
	"time"
)

// leaseRequest is a one-shot future representing a parked caller: it is
// created when Lease finds no instance immediately available, enqueued
// in the pool's waiter queue, and settled exactly once by whichever of
// three events happens first — a release hands it an instance, its
// lease timeout fires, or the caller's own context is cancelled.
//
// The settler pattern replaces a condition variable: trySettle is
// guarded by a sync.Once, so concurrent callers racing to settle the
// same request agree on exactly one winner.
type leaseRequest[T any] struct {
	ch     chan leaseOutcome[T]
	once   sync.Once
	cancel context.CancelFunc
}

type leaseOutcome[T any] struct {
	item T
	err  error
}

// newLeaseRequest builds a waiter bounded by leaseTimeout (zero means no
// timeout) and linked to the caller's ctx. Whichever fires first settles
// the request with ErrCancelled.
func newLeaseRequest[T any](ctx context.Context, leaseTimeout time.Duration) *leaseRequest[T] {
	var watchCtx context.Context
	var cancel context.CancelFunc
	if leaseTimeout > 0 {
		watchCtx, cancel = context.WithTimeout(ctx, leaseTimeout)
	} else {
		watchCtx, cancel = context.WithCancel(ctx)
	}

	r := &leaseRequest[T]{
		ch:     make(chan leaseOutcome[T], 1),
		cancel: cancel,
	}

	go func() {
		<-watchCtx.Done()
		r.trySetError(ErrCancelled)
	}()

	return r
}

// trySetResult atomically attempts to settle the request with a
// successful instance. It returns true iff this call is the settler.
func (r *leaseRequest[T]) trySetResult(item T) bool {
	return r.trySettle(leaseOutcome[T]{item: item})
}

// trySetError atomically attempts to settle the request with a failure
// (cancellation, timeout, or a preparation failure surfaced during a
// release-side hand-off).
func (r *leaseRequest[T]) trySetError(err error) bool {
	return r.trySettle(leaseOutcome[T]{err: err})
}

func (r *leaseRequest[T]) trySettle(outcome leaseOutcome[T]) bool {
	settled := false
	r.once.Do(func() {
		r.ch <- outcome
		settled = true
	})
	if settled {
		// Release the timer/context-cancel goroutine synchronously as soon
		// as a settler wins.
		r.cancel()
	}
	return settled
}

// wait blocks until the request settles and returns its outcome.
func (r *leaseRequest[T]) wait() (T, error) {
	outcome := <-r.ch
	return outcome.item, outcome.err
}

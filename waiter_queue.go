package leasepool

import (
	"container/list"
	"sync"
)

// waiterQueue is the pool's FIFO of parked Lease requests. Release scans
// and purges dead waiters inline as it walks the queue, so no separate
// maintainer goroutine is needed to reap them.
type waiterQueue[T any] struct {
	mu sync.Mutex
	l  *list.List
}

func newWaiterQueue[T any]() *waiterQueue[T] {
	return &waiterQueue[T]{l: list.New()}
}

func (q *waiterQueue[T]) enqueue(r *leaseRequest[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.l.PushBack(r)
}

// dequeue removes and returns the oldest waiter, if any. Callers are
// responsible for checking whether it already settled.
func (q *waiterQueue[T]) dequeue() (*leaseRequest[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.l.Front()
	if e == nil {
		return nil, false
	}
	q.l.Remove(e)
	return e.Value.(*leaseRequest[T]), true
}

func (q *waiterQueue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.l.Len()
}

// drain empties the queue and returns every waiter it held, oldest
// first. Used by Dispose to cancel everyone still parked.
func (q *waiterQueue[T]) drain() []*leaseRequest[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*leaseRequest[T], 0, q.l.Len())
	for e := q.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*leaseRequest[T]))
	}
	q.l.Init()
	return out
}

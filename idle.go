package leasepool

import (
	"container/list"
	"sync"
	"time"
)

// idleEntry pairs an idle instance with the time it entered the idle
// store, so lease-time eviction can compare
// against IdleTimeout without a background sweeper.
type idleEntry[T any] struct {
	instance  T
	idleSince time.Time
}

// idleStore is the pool's FIFO of idle instances, backed by a linked
// list rather than a map so FIFO discipline and idleSince tracking both
// come for free.
type idleStore[T any] struct {
	mu sync.Mutex
	l  *list.List
}

func newIdleStore[T any]() *idleStore[T] {
	return &idleStore[T]{l: list.New()}
}

func (s *idleStore[T]) push(instance T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.l.PushBack(&idleEntry[T]{instance: instance, idleSince: time.Now()})
}

// popFront removes and returns the oldest idle entry, if any.
func (s *idleStore[T]) popFront() (*idleEntry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.l.Front()
	if e == nil {
		return nil, false
	}
	s.l.Remove(e)
	return e.Value.(*idleEntry[T]), true
}

func (s *idleStore[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.l.Len()
}

// drain empties the store and returns every instance it held, oldest
// first. Used by Clear and Dispose.
func (s *idleStore[T]) drain() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, s.l.Len())
	for e := s.l.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*idleEntry[T]).instance)
	}
	s.l.Init()
	return out
}

package leasepool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWaiterQueue_FIFO(t *testing.T) {
	t.Parallel()

	q := newWaiterQueue[int]()
	r1 := newLeaseRequest[int](context.Background(), 0)
	r2 := newLeaseRequest[int](context.Background(), 0)
	q.enqueue(r1)
	q.enqueue(r2)

	require.Equal(t, 2, q.len())

	first, ok := q.dequeue()
	require.True(t, ok)
	require.Same(t, r1, first)

	second, ok := q.dequeue()
	require.True(t, ok)
	require.Same(t, r2, second)

	_, ok = q.dequeue()
	require.False(t, ok)
}

func TestWaiterQueue_DrainSettlesEverythingByCaller(t *testing.T) {
	t.Parallel()

	q := newWaiterQueue[int]()
	r1 := newLeaseRequest[int](context.Background(), 0)
	r2 := newLeaseRequest[int](context.Background(), 0)
	q.enqueue(r1)
	q.enqueue(r2)

	drained := q.drain()
	require.Len(t, drained, 2)
	require.Equal(t, 0, q.len())

	for _, r := range drained {
		require.True(t, r.trySetError(ErrCancelled))
	}
}

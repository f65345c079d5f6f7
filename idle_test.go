package leasepool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdleStore_FIFO(t *testing.T) {
	t.Parallel()

	s := newIdleStore[int]()
	s.push(1)
	s.push(2)
	s.push(3)
	require.Equal(t, 3, s.len())

	e1, ok := s.popFront()
	require.True(t, ok)
	require.Equal(t, 1, e1.instance)

	e2, ok := s.popFront()
	require.True(t, ok)
	require.Equal(t, 2, e2.instance)

	require.Equal(t, 1, s.len())
}

func TestIdleStore_PopFrontOnEmpty(t *testing.T) {
	t.Parallel()

	s := newIdleStore[int]()
	_, ok := s.popFront()
	require.False(t, ok)
}

func TestIdleStore_Drain(t *testing.T) {
	t.Parallel()

	s := newIdleStore[int]()
	s.push(1)
	s.push(2)

	drained := s.drain()
	require.Equal(t, []int{1, 2}, drained)
	require.Equal(t, 0, s.len())
}

package leasepool

import "context"

// PreparationStrategy verifies and, if necessary, reinitializes an
// instance immediately before it is handed to a caller. IsReady is
// meant to be a cheap liveness probe; Prepare is the heavyweight path
// (e.g. reconnect + authenticate) and is only invoked when IsReady
// reports false.
//
// Both methods are given a context already bounded by the pool's
// PreparationTimeout (when configured) composed with the caller's own
// context, so implementations should respect ctx.Done() on any blocking
// call.
type PreparationStrategy[T any] interface {
	IsReady(ctx context.Context, item T) (bool, error)
	Prepare(ctx context.Context, item T) error
}

type noopPreparationStrategy[T any] struct{}

func (noopPreparationStrategy[T]) IsReady(context.Context, T) (bool, error) { return true, nil }
func (noopPreparationStrategy[T]) Prepare(context.Context, T) error         { return nil }

// DefaultPreparationStrategy returns a strategy that always reports
// ready and never prepares — the "no-op strategy" registered when
// Options.UseDefaultPreparationStrategy is set without an explicit
// PreparationStrategy.
func DefaultPreparationStrategy[T any]() PreparationStrategy[T] {
	return noopPreparationStrategy[T]{}
}

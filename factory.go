package leasepool

import "context"

// Factory produces a fresh instance of the pooled resource. It must be
// synchronous and cheap relative to Preparation — a factory that needs
// to do real network work (authenticate, handshake) should defer that
// work to a PreparationStrategy instead, so it can be retried and timed
// out independently of allocation.
//
// A Factory error during Lease surfaces to the caller as an error that
// wraps ErrFactoryFailed and carries the factory error's message, and
// never increments the pool's allocated count.
type Factory[T any] func(ctx context.Context) (T, error)

// Destructor releases any resources (sockets, file handles, …) held by
// an instance the pool no longer owns. It is invoked at exactly one of:
// opportunistic idle eviction, Clear, Dispose, or a failed preparation.
// A nil Destructor means the resource type needs no explicit cleanup.
type Destructor[T any] func(T)

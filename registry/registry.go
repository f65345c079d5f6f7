// Package registry implements the "map of pools keyed by a name"
// façade described alongside the core pool: a thin multiplexer over N
// independent Pool instances. It adds no lease/release semantics of its
// own — every Pool it hands back is a plain instance of the parent
// package's state machine.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"

	pool "github.com/marzhalle/leasepool"
)

// PoolFactory builds a new Pool the first time a given name is
// requested from a Registry.
type PoolFactory[T any] func(name string) (*pool.Pool[T], error)

// Registry is a self-expiring, lazily constructed map of independent
// Pool instances, safe for concurrent use. A pool unused for longer
// than staleExpiration is disposed and evicted automatically.
type Registry[T any] struct {
	mu      sync.Mutex
	pools   *ttlcache.Cache[string, *pool.Pool[T]]
	factory PoolFactory[T]
}

// New builds a Registry whose pools are constructed on demand via
// factory and disposed after staleExpiration of disuse. A
// staleExpiration of 0 disables expiration; pools then live until
// Remove or Close is called explicitly.
func New[T any](factory PoolFactory[T], staleExpiration time.Duration) *Registry[T] {
	var opts []ttlcache.Option[string, *pool.Pool[T]]
	if staleExpiration > 0 {
		opts = append(opts, ttlcache.WithTTL[string, *pool.Pool[T]](staleExpiration))
	}

	cache := ttlcache.New(opts...)
	cache.OnEviction(func(_ context.Context, _ ttlcache.EvictionReason, item *ttlcache.Item[string, *pool.Pool[T]]) {
		item.Value().Dispose()
	})
	go cache.Start()

	return &Registry[T]{pools: cache, factory: factory}
}

// Get returns the Pool registered under name, building and caching one
// via the registry's PoolFactory on first request.
func (r *Registry[T]) Get(name string) (*pool.Pool[T], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item := r.pools.Get(name); item != nil {
		return item.Value(), nil
	}

	p, err := r.factory(name)
	if err != nil {
		return nil, err
	}
	r.pools.Set(name, p, ttlcache.DefaultTTL)
	return p, nil
}

// Remove disposes and evicts the pool registered under name, if any.
func (r *Registry[T]) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools.Delete(name)
}

// Close disposes every pool currently registered and stops the
// registry's background janitor goroutine.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools.DeleteAll()
	r.pools.Stop()
}

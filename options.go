package leasepool

import (
	"fmt"
	"math"
	"time"
)

// Options is the immutable configuration record for a Pool: sizes,
// timeouts, and the two "use a default X" switches. A zero Duration
// means "infinite" for every timeout field, matching Go's usual
// zero-value-means-disabled idiom rather than a magic negative
// sentinel.
type Options struct {
	MinSize                       int
	MaxSize                       int
	LeaseTimeout                  time.Duration
	PreparationTimeout            time.Duration
	IdleTimeout                   time.Duration
	UseDefaultPreparationStrategy bool
	UseDefaultFactory             bool
}

func defaultOptions() Options {
	return Options{
		MinSize: 0,
		MaxSize: math.MaxInt,
	}
}

func (o Options) validate() error {
	if o.MinSize < 0 {
		return fmt.Errorf("%w: minSize must be non-negative, got %d", ErrInvalidArgument, o.MinSize)
	}
	if o.MaxSize <= 0 {
		return fmt.Errorf("%w: maxSize must be positive, got %d", ErrInvalidArgument, o.MaxSize)
	}
	if o.MinSize > o.MaxSize {
		return fmt.Errorf("%w: minSize (%d) must not exceed maxSize (%d)", ErrInvalidArgument, o.MinSize, o.MaxSize)
	}
	return nil
}

// poolConfig composes Options with the collaborator wiring (preparation
// strategy, metrics sink) a Pool needs beyond the plain config keys.
type poolConfig[T any] struct {
	Options
	preparation PreparationStrategy[T]
	metrics     MetricsSink
}

// Option configures a Pool at construction time.
type Option[T any] func(*poolConfig[T])

// WithMinSize sets the number of instances pre-created at construction
// and after Clear. Default 0.
func WithMinSize[T any](n int) Option[T] {
	return func(c *poolConfig[T]) { c.MinSize = n }
}

// WithMaxSize sets the hard cap on allocated instances. Default
// unbounded.
func WithMaxSize[T any](n int) Option[T] {
	return func(c *poolConfig[T]) { c.MaxSize = n }
}

// WithLeaseTimeout bounds how long Lease will wait for an instance to
// become available before failing with ErrCancelled. Default infinite.
func WithLeaseTimeout[T any](d time.Duration) Option[T] {
	return func(c *poolConfig[T]) { c.LeaseTimeout = d }
}

// WithPreparationTimeout bounds IsReady and Prepare combined. Default
// infinite.
func WithPreparationTimeout[T any](d time.Duration) Option[T] {
	return func(c *poolConfig[T]) { c.PreparationTimeout = d }
}

// WithIdleTimeout sets how long an idle instance may sit unused before
// it is evicted the next time Lease looks at it. Default infinite.
func WithIdleTimeout[T any](d time.Duration) Option[T] {
	return func(c *poolConfig[T]) { c.IdleTimeout = d }
}

// WithDefaultPreparationStrategy registers the no-op PreparationStrategy
// in place of an explicit one.
func WithDefaultPreparationStrategy[T any]() Option[T] {
	return func(c *poolConfig[T]) {
		c.UseDefaultPreparationStrategy = true
		c.preparation = DefaultPreparationStrategy[T]()
	}
}

// WithPreparationStrategy registers the PreparationStrategy a Pool
// consults before handing out an instance.
func WithPreparationStrategy[T any](s PreparationStrategy[T]) Option[T] {
	return func(c *poolConfig[T]) { c.preparation = s }
}

// WithMetricsSink registers where a Pool reports timing, exceptions,
// and the five observable counters. Default NoopMetricsSink.
func WithMetricsSink[T any](m MetricsSink) Option[T] {
	return func(c *poolConfig[T]) { c.metrics = m }
}

// WithDefaultFactory marks the pool as intended to use a
// container-supplied factory. Wiring an actual dependency-injection
// container is outside this package's scope — New still
// requires a non-nil Factory to be passed explicitly; this option only
// records the intent for introspection by callers that do own such a
// container.
func WithDefaultFactory[T any]() Option[T] {
	return func(c *poolConfig[T]) { c.UseDefaultFactory = true }
}

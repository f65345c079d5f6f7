package leasepool

import "errors"

// Error kinds returned by Pool operations. Callers should compare with
// errors.Is, since the concrete error returned from Lease/Release/Clear
// is usually wrapped with additional context (the underlying factory or
// preparation error).
var (
	// ErrDisposed is returned by any operation performed after Dispose.
	ErrDisposed = errors.New("leasepool: pool is disposed")

	// ErrCancelled is returned when a lease is abandoned because the
	// caller's context was cancelled or the configured lease timeout
	// fired while the caller was waiting for an instance.
	ErrCancelled = errors.New("leasepool: lease was cancelled")

	// ErrFactoryFailed is returned when the Factory returns an error
	// while the pool is trying to allocate a new instance.
	ErrFactoryFailed = errors.New("leasepool: factory failed to produce an instance")

	// ErrPreparationFailed is returned when IsReady or Prepare fails (or
	// times out) before an instance can be handed to a caller.
	ErrPreparationFailed = errors.New("leasepool: preparation failed")

	// ErrInvalidArgument is returned for malformed calls, such as
	// releasing a nil instance or constructing a pool with a nil
	// factory or an invalid size configuration.
	ErrInvalidArgument = errors.New("leasepool: invalid argument")
)

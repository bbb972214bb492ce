package pool

import "errors"

var (
	// ErrBuilderNil is returned when a pool is created without an
	// endpoint builder.
	ErrBuilderNil = errors.New("endpoint builder is nil")

	// ErrInvalidLimit is returned for a non-positive slot count.
	ErrInvalidLimit = errors.New("pool limit must be at least 1")

	// ErrPoolClosed is returned for operations on a closed pool; calls
	// in flight at Close observe it too.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolReset rejects calls that were in flight when SetLimit
	// replaced their slots.
	ErrPoolReset = errors.New("pool was reset")

	// ErrHandshakeFailed is returned when a freshly built endpoint dies
	// or times out before posting its ready sentinel.
	ErrHandshakeFailed = errors.New("worker handshake failed")
)

package marshal

import "errors"

var (
	// ErrBufferDetached is returned when reading a buffer whose contents
	// were moved to another endpoint.
	ErrBufferDetached = errors.New("buffer is detached")

	// ErrViewOutOfRange is returned when a view window does not fit the
	// underlying buffer.
	ErrViewOutOfRange = errors.New("view window out of range")
)

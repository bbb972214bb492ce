package dispatch

import "errors"

var (
	// ErrRemote wraps the stringified failure of a remote procedure.
	ErrRemote = errors.New("remote procedure failed")

	// ErrCallbackFailed wraps the stringified failure of a remote
	// callback invocation.
	ErrCallbackFailed = errors.New("remote callback failed")

	// ErrEndpointTerminated is returned when the endpoint dies while a
	// call is waiting for its terminal message.
	ErrEndpointTerminated = errors.New("endpoint terminated mid-call")
)

package transport

import "errors"

// ErrEndpointClosed is returned when posting on a terminated endpoint.
var ErrEndpointClosed = errors.New("endpoint is closed")

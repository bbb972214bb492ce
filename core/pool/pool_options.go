package pool

import (
	"log/slog"
	"time"
)

type poolOptions struct {
	limit            int
	handshakeTimeout time.Duration
	logger           *slog.Logger
}

// Option configures a Pool.
type Option func(*poolOptions)

// WithLimit sets the number of worker slots. Values below 1 are ignored
// and keep the previous setting.
func WithLimit(n int) Option {
	return func(o *poolOptions) {
		if n >= 1 {
			o.limit = n
		}
	}
}

// WithHandshakeTimeout bounds the wait for a freshly built endpoint's
// ready sentinel. Zero means wait indefinitely.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(o *poolOptions) {
		if d > 0 {
			o.handshakeTimeout = d
		}
	}
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(o *poolOptions) {
		if log != nil {
			o.logger = log
		}
	}
}

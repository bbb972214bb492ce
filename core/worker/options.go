package worker

import "log/slog"

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runtime) {
		if log != nil {
			r.log = log
		}
	}
}

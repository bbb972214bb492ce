package worker

import (
	"context"

	"github.com/dmitrymomot/bridgekit/core/transport"
)

// Launch returns a builder that spawns a goroutine worker serving procs
// over an in-process pipe and hands the main-side endpoint back. The
// worker goroutine lives until the endpoint is terminated; it does not
// inherit cancellation from the builder's context, which only covers
// construction.
func Launch(procs Procedures, opts ...Option) transport.Builder {
	return func(ctx context.Context) (transport.Endpoint, error) {
		runtime, err := NewRuntime(procs, opts...)
		if err != nil {
			return nil, err
		}
		main, remote := transport.Pipe()
		go func() {
			_ = runtime.Serve(context.WithoutCancel(ctx), remote)
		}()
		return main, nil
	}
}

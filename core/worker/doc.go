// Package worker implements the worker side of the bridge: a runtime
// that exposes a named set of procedures over one endpoint.
//
// The runtime installs its message handler, posts the ready sentinel,
// and then services function calls until its context ends or the
// endpoint is terminated. Procedure arguments are unmarshaled with
// per-request proxies for any callables the caller passed, so a
// procedure can invoke its callbacks as ordinary local calls:
//
//	procs := worker.Procedures{
//	    "asyncTask": func(ctx context.Context, args []any) (any, error) {
//	        progress := args[0].(marshal.Callable)
//	        if _, err := progress.Invoke(ctx, []any{50, "halfway"}); err != nil {
//	            return nil, err
//	        }
//	        return "task-result", nil
//	    },
//	}
//
// Launch wraps a runtime and an in-process pipe into a transport.Builder
// so a pool can spawn goroutine workers on demand.
package worker

package marshal

import "context"

// Callable is a value that can cross the bridge as an invokable
// reference. The side that receives it gets a proxy with the same
// signature; invoking the proxy runs Invoke here with the round-tripped
// arguments.
type Callable interface {
	Invoke(ctx context.Context, args []any) (any, error)
}

// Func adapts a plain function to the Callable interface.
type Func func(ctx context.Context, args []any) (any, error)

// Invoke implements Callable.
func (f Func) Invoke(ctx context.Context, args []any) (any, error) {
	return f(ctx, args)
}

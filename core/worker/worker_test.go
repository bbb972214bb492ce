package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
	"github.com/dmitrymomot/bridgekit/core/worker"
)

func serveRuntime(t *testing.T, procs worker.Procedures) transport.Endpoint {
	t.Helper()
	runtime, err := worker.NewRuntime(procs)
	require.NoError(t, err)

	main, remote := transport.Pipe()
	go func() {
		_ = runtime.Serve(context.Background(), remote)
	}()
	t.Cleanup(main.Terminate)
	return main
}

func awaitReady(t *testing.T, ep transport.Endpoint) {
	t.Helper()
	ready := make(chan struct{}, 1)
	unsubscribe := ep.Subscribe(func(msg wire.Message) {
		if msg.Kind == wire.KindReady {
			select {
			case ready <- struct{}{}:
			default:
			}
		}
	})
	defer unsubscribe()
	select {
	case <-ready:
	case <-time.After(time.Second):
		t.Fatal("ready sentinel not observed")
	}
}

func TestNewRuntime(t *testing.T) {
	t.Parallel()

	t.Run("rejects an empty procedure map", func(t *testing.T) {
		t.Parallel()

		_, err := worker.NewRuntime(nil)
		assert.ErrorIs(t, err, worker.ErrNoProcedures)

		_, err = worker.NewRuntime(worker.Procedures{})
		assert.ErrorIs(t, err, worker.ErrNoProcedures)
	})
}

func TestRuntimeServe(t *testing.T) {
	t.Parallel()

	t.Run("posts the ready sentinel first", func(t *testing.T) {
		t.Parallel()

		ep := serveRuntime(t, worker.Procedures{
			"noop": func(ctx context.Context, args []any) (any, error) { return nil, nil },
		})
		awaitReady(t, ep)
	})

	t.Run("answers a function call with its result", func(t *testing.T) {
		t.Parallel()

		ep := serveRuntime(t, worker.Procedures{
			"add": func(ctx context.Context, args []any) (any, error) {
				return args[0].(int) + args[1].(int), nil
			},
		})
		awaitReady(t, ep)

		got := make(chan wire.Message, 1)
		ep.Subscribe(func(msg wire.Message) {
			if msg.Kind == wire.KindResult {
				got <- msg
			}
		})

		require.NoError(t, ep.Post(wire.Message{
			Kind: wire.KindFunction, ID: 5, Name: "add", Args: []any{2, 3},
		}, nil))

		select {
		case msg := <-got:
			assert.Equal(t, uint64(5), msg.ID)
			assert.Equal(t, 5, msg.Result)
		case <-time.After(time.Second):
			t.Fatal("result not posted")
		}
	})

	t.Run("answers a failing procedure with the stringified error", func(t *testing.T) {
		t.Parallel()

		ep := serveRuntime(t, worker.Procedures{
			"boom": func(ctx context.Context, args []any) (any, error) {
				return nil, errors.New("worker error")
			},
		})
		awaitReady(t, ep)

		got := make(chan wire.Message, 1)
		ep.Subscribe(func(msg wire.Message) {
			if msg.Kind == wire.KindError {
				got <- msg
			}
		})

		require.NoError(t, ep.Post(wire.Message{Kind: wire.KindFunction, ID: 2, Name: "boom"}, nil))

		select {
		case msg := <-got:
			assert.Equal(t, uint64(2), msg.ID)
			assert.Equal(t, "worker error", msg.Error)
		case <-time.After(time.Second):
			t.Fatal("error not posted")
		}
	})

	t.Run("ignores unknown procedure names", func(t *testing.T) {
		t.Parallel()

		ep := serveRuntime(t, worker.Procedures{
			"known": func(ctx context.Context, args []any) (any, error) { return "ok", nil },
		})
		awaitReady(t, ep)

		terminal := make(chan wire.Message, 2)
		ep.Subscribe(func(msg wire.Message) {
			if msg.Kind == wire.KindResult || msg.Kind == wire.KindError {
				terminal <- msg
			}
		})

		require.NoError(t, ep.Post(wire.Message{Kind: wire.KindFunction, ID: 1, Name: "missing"}, nil))
		require.NoError(t, ep.Post(wire.Message{Kind: wire.KindFunction, ID: 2, Name: "known"}, nil))

		// Only the known call produces a terminal; the unknown one is
		// dropped silently.
		select {
		case msg := <-terminal:
			assert.Equal(t, uint64(2), msg.ID)
		case <-time.After(time.Second):
			t.Fatal("known call not answered")
		}
		select {
		case msg := <-terminal:
			t.Fatalf("unexpected terminal for unknown procedure: %+v", msg)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("stops when the endpoint is terminated", func(t *testing.T) {
		t.Parallel()

		runtime, err := worker.NewRuntime(worker.Procedures{
			"noop": func(ctx context.Context, args []any) (any, error) { return nil, nil },
		})
		require.NoError(t, err)

		main, remote := transport.Pipe()
		served := make(chan error, 1)
		go func() {
			served <- runtime.Serve(context.Background(), remote)
		}()

		awaitReady(t, main)
		main.Terminate()

		select {
		case err := <-served:
			assert.NoError(t, err)
		case <-time.After(time.Second):
			t.Fatal("serve did not stop")
		}
	})
}

func TestLaunch(t *testing.T) {
	t.Parallel()

	t.Run("builds a served endpoint", func(t *testing.T) {
		t.Parallel()

		builder := worker.Launch(worker.Procedures{
			"ping": func(ctx context.Context, args []any) (any, error) { return "pong", nil },
		})

		ep, err := builder(context.Background())
		require.NoError(t, err)
		defer ep.Terminate()
		awaitReady(t, ep)
	})

	t.Run("propagates runtime construction failure", func(t *testing.T) {
		t.Parallel()

		builder := worker.Launch(nil)
		_, err := builder(context.Background())
		assert.ErrorIs(t, err, worker.ErrNoProcedures)
	})
}

func TestProcedureCallbacks(t *testing.T) {
	t.Parallel()

	t.Run("procedure invokes caller-provided callable", func(t *testing.T) {
		t.Parallel()

		ep := serveRuntime(t, worker.Procedures{
			"greet": func(ctx context.Context, args []any) (any, error) {
				cb := args[0].(marshal.Callable)
				name, err := cb.Invoke(ctx, nil)
				if err != nil {
					return nil, err
				}
				return "hello " + name.(string), nil
			},
		})
		awaitReady(t, ep)

		// Emulate the main side by hand: register the callable, answer
		// its invocation, and collect the terminal result.
		result := make(chan any, 1)
		calls := make(chan wire.Message, 1)
		ep.Subscribe(func(msg wire.Message) {
			switch msg.Kind {
			case wire.KindCallbackCall:
				calls <- msg
			case wire.KindResult:
				result <- msg.Result
			}
		})

		token := "7:cb-token"
		require.NoError(t, ep.Post(wire.Message{
			Kind: wire.KindFunction, ID: 7, Name: "greet",
			Args: []any{marshal.Placeholder(token)},
		}, nil))

		select {
		case call := <-calls:
			assert.Equal(t, uint64(7), call.ID)
			assert.Equal(t, token, call.CallbackID)
			require.NoError(t, ep.Post(wire.Message{
				Kind: wire.KindCallbackResult, CallID: call.CallID, Result: "world",
			}, nil))
		case <-time.After(time.Second):
			t.Fatal("callback never invoked")
		}

		select {
		case value := <-result:
			assert.Equal(t, "hello world", value)
		case <-time.After(time.Second):
			t.Fatal("result never posted")
		}
	})
}

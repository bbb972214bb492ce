package worker

import (
	"context"
	"io"
	"log/slog"

	"github.com/dmitrymomot/bridgekit/core/dispatch"
	"github.com/dmitrymomot/bridgekit/core/logger"
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Procedure is one remotely callable operation. Arguments arrive
// unmarshaled: callables the caller passed are live proxies, buffers are
// *marshal.Buffer values.
type Procedure func(ctx context.Context, args []any) (any, error)

// Procedures maps procedure names to their implementations.
type Procedures map[string]Procedure

// Runtime services one endpoint with a fixed procedure map.
type Runtime struct {
	procs Procedures
	log   *slog.Logger
}

// NewRuntime creates a runtime for the given procedures.
func NewRuntime(procs Procedures, opts ...Option) (*Runtime, error) {
	if len(procs) == 0 {
		return nil, ErrNoProcedures
	}
	r := &Runtime{
		procs: procs,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Serve wires the runtime to ep, posts the ready sentinel, and blocks
// until ctx ends or the endpoint is terminated. Termination of the
// endpoint is the normal shutdown path and returns nil.
func (r *Runtime) Serve(ctx context.Context, ep transport.Endpoint) error {
	session := dispatch.NewSession(ep, dispatch.WithLogger(r.log))

	unsubscribe := ep.Subscribe(func(msg wire.Message) {
		switch msg.Kind {
		case wire.KindFunction:
			go r.handle(ctx, session, ep, msg)
		case wire.KindCallbackCall:
			go session.HandleCallbackCall(ctx, msg)
		}
	})
	defer unsubscribe()

	if err := ep.Post(wire.Message{Kind: wire.KindReady}, nil); err != nil {
		return err
	}
	r.log.InfoContext(ctx, "worker runtime started", logger.Count("procedures", len(r.procs)))

	select {
	case <-ep.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle runs one function call to its terminal message. The request's
// registry entries are released after the terminal is posted.
func (r *Runtime) handle(ctx context.Context, session *dispatch.Session, ep transport.Endpoint, msg wire.Message) {
	proc, ok := r.procs[msg.Name]
	if !ok {
		// Unknown names are dropped without an error message; the
		// caller is expected to know the procedure map it was built
		// against.
		r.log.WarnContext(ctx, "unknown procedure", logger.Procedure(msg.Name))
		return
	}

	args := marshal.UnmarshalArgs(msg.ID, msg.Args, session)
	value, err := proc(ctx, args)
	if err != nil {
		reply := wire.Message{Kind: wire.KindError, ID: msg.ID, Error: err.Error()}
		if perr := ep.Post(reply, nil); perr != nil {
			r.log.ErrorContext(ctx, "failed to post error", logger.Error(perr))
		}
		session.Clear(msg.ID)
		return
	}

	result, transfer := marshal.Marshal(msg.ID, value, session)
	reply := wire.Message{Kind: wire.KindResult, ID: msg.ID, Result: result}
	if perr := ep.Post(reply, transfer); perr != nil {
		r.log.ErrorContext(ctx, "failed to post result", logger.Error(perr))
	}
	session.Clear(msg.ID)
}

package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// proxy is the local invocable standing in for a callable held by the
// other side. Invoking it posts a callback_call and waits for the
// response correlated by a per-invocation call id.
type proxy struct {
	session   *Session
	requestID uint64
	token     string
}

// Invoke implements marshal.Callable.
func (p *proxy) Invoke(ctx context.Context, args []any) (any, error) {
	s := p.session
	callID := uuid.New().String()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	unsubscribe := s.ep.Subscribe(func(msg wire.Message) {
		if msg.CallID != callID {
			return
		}
		var o outcome
		switch msg.Kind {
		case wire.KindCallbackResult:
			o.value = marshal.Unmarshal(p.requestID, msg.Result, s)
		case wire.KindCallbackError:
			o.err = fmt.Errorf("%w: %s", ErrCallbackFailed, msg.Error)
		default:
			return
		}
		select {
		case done <- o:
		default:
		}
	})
	defer unsubscribe()

	wargs, transfer := marshal.MarshalArgs(p.requestID, args, s)
	msg := wire.Message{
		Kind:       wire.KindCallbackCall,
		ID:         p.requestID,
		CallbackID: p.token,
		CallID:     callID,
		Args:       wargs,
	}
	if err := s.ep.Post(msg, transfer); err != nil {
		return nil, err
	}

	select {
	case o := <-done:
		return o.value, o.err
	case <-s.ep.Done():
		return nil, ErrEndpointTerminated
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

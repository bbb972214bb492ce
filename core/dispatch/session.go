package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bridgekit/core/logger"
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Session binds the callback registry to one endpoint. Both sides of a
// link hold one; it implements marshal.CallableRegistrar and
// marshal.ProxyResolver so argument trees can be walked against it
// directly.
//
// Registry keys are the callback tokens themselves. A token is minted as
// "{requestId}:{random}", so every key of a request shares the
// "{requestId}:" prefix and Clear can drop the whole request in one
// sweep.
type Session struct {
	ep  transport.Endpoint
	log *slog.Logger

	mu        sync.Mutex
	callbacks map[string]marshal.Callable
	proxies   map[string]marshal.Callable
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSession creates a session over ep.
func NewSession(ep transport.Endpoint, opts ...Option) *Session {
	s := &Session{
		ep:        ep,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		callbacks: make(map[string]marshal.Callable),
		proxies:   make(map[string]marshal.Callable),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterCallable stores c under a fresh token owned by requestID and
// returns the token. Implements marshal.CallableRegistrar.
func (s *Session) RegisterCallable(requestID uint64, c marshal.Callable) string {
	token := strconv.FormatUint(requestID, 10) + ":" + uuid.New().String()
	s.mu.Lock()
	s.callbacks[token] = c
	s.mu.Unlock()
	return token
}

// ResolveProxy returns the invocation proxy for a placeholder token,
// creating it on first resolution and reusing it afterwards so proxy
// identity is stable within a request. Implements marshal.ProxyResolver.
func (s *Session) ResolveProxy(requestID uint64, token string) marshal.Callable {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.proxies[token]; ok {
		return p
	}
	p := &proxy{session: s, requestID: requestID, token: token}
	s.proxies[token] = p
	return p
}

// Clear drops every callback and proxy owned by requestID.
func (s *Session) Clear(requestID uint64) {
	prefix := strconv.FormatUint(requestID, 10) + ":"
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.callbacks {
		if strings.HasPrefix(k, prefix) {
			delete(s.callbacks, k)
		}
	}
	for k := range s.proxies {
		if strings.HasPrefix(k, prefix) {
			delete(s.proxies, k)
		}
	}
}

// Call invokes the named remote procedure and blocks until its terminal
// message arrives. Inbound traffic for other requests on the same
// endpoint is ignored; callback invocations belonging to this request
// are serviced while the call is open. Registry entries for requestID
// are released before the outcome is returned.
func (s *Session) Call(ctx context.Context, requestID uint64, name string, args []any) (any, error) {
	wargs, transfer := marshal.MarshalArgs(requestID, args, s)

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	settle := func(o outcome) {
		s.Clear(requestID)
		select {
		case done <- o:
		default:
		}
	}

	unsubscribe := s.ep.Subscribe(func(msg wire.Message) {
		if msg.ID != requestID {
			return
		}
		switch msg.Kind {
		case wire.KindResult:
			settle(outcome{value: marshal.Unmarshal(requestID, msg.Result, s)})
		case wire.KindError:
			settle(outcome{err: fmt.Errorf("%w: %s", ErrRemote, msg.Error)})
		case wire.KindCallbackCall:
			go s.HandleCallbackCall(ctx, msg)
		}
	})
	defer unsubscribe()

	msg := wire.Message{Kind: wire.KindFunction, ID: requestID, Name: name, Args: wargs}
	if err := s.ep.Post(msg, transfer); err != nil {
		s.Clear(requestID)
		return nil, err
	}

	select {
	case o := <-done:
		return o.value, o.err
	case <-s.ep.Done():
		s.Clear(requestID)
		return nil, ErrEndpointTerminated
	case <-ctx.Done():
		s.Clear(requestID)
		return nil, ctx.Err()
	}
}

// HandleCallbackCall services an inbound invocation of a locally held
// callable. An unknown callback id is ignored. A callable failure is
// logged and answered with a callback_error so the remote invocation
// does not hang.
func (s *Session) HandleCallbackCall(ctx context.Context, msg wire.Message) {
	s.mu.Lock()
	c, ok := s.callbacks[msg.CallbackID]
	s.mu.Unlock()
	if !ok {
		s.log.DebugContext(ctx, "callback call for unknown callback",
			logger.RequestID(msg.ID),
			logger.CallbackID(msg.CallbackID))
		return
	}

	args := marshal.UnmarshalArgs(msg.ID, msg.Args, s)
	value, err := c.Invoke(ctx, args)
	if err != nil {
		s.log.ErrorContext(ctx, "callback failed",
			logger.RequestID(msg.ID),
			logger.CallbackID(msg.CallbackID),
			logger.Error(err))
		reply := wire.Message{Kind: wire.KindCallbackError, CallID: msg.CallID, Error: err.Error()}
		if perr := s.ep.Post(reply, nil); perr != nil {
			s.log.ErrorContext(ctx, "failed to post callback error", logger.Error(perr))
		}
		return
	}

	result, transfer := marshal.Marshal(msg.ID, value, s)
	reply := wire.Message{Kind: wire.KindCallbackResult, CallID: msg.CallID, Result: result}
	if perr := s.ep.Post(reply, transfer); perr != nil {
		s.log.ErrorContext(ctx, "failed to post callback result", logger.Error(perr))
	}
}

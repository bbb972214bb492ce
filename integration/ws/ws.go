package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/bridgekit/core/logger"
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Endpoint is a bridge endpoint over one websocket connection. It
// implements transport.Endpoint.
type Endpoint struct {
	conn *websocket.Conn
	fan  *transport.Fanout
	log  *slog.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
}

// Dial connects to a remote bridge endpoint.
func Dial(ctx context.Context, url string, opts ...Option) (*Endpoint, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	conn, resp, err := cfg.dialer.DialContext(ctx, url, cfg.requestHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDialFailed, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return newEndpoint(conn, cfg), nil
}

// Accept upgrades an inbound HTTP request into a bridge endpoint.
func Accept(w http.ResponseWriter, r *http.Request, opts ...Option) (*Endpoint, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpgradeFailed, err)
	}
	return newEndpoint(conn, cfg), nil
}

func newEndpoint(conn *websocket.Conn, cfg *wsConfig) *Endpoint {
	e := &Endpoint{
		conn: conn,
		fan:  transport.NewFanout(),
		log:  cfg.logger,
	}
	go e.readLoop()
	return e
}

// Post serializes the message and writes it as one frame. Buffers on the
// transfer list are detached before serialization so the caller observes
// move semantics.
func (e *Endpoint) Post(msg wire.Message, transfer []*marshal.Buffer) error {
	if e.fan.Closed() {
		return transport.ErrEndpointClosed
	}
	msg, err := transport.ApplyTransfer(msg, transfer)
	if err != nil {
		return err
	}
	data, err := wire.Encode(msg)
	if err != nil {
		return err
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()
	if err := e.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Subscribe registers a handler for inbound messages.
func (e *Endpoint) Subscribe(h transport.Handler) func() {
	return e.fan.Subscribe(h)
}

// Terminate closes the connection and stops delivery. Idempotent.
func (e *Endpoint) Terminate() {
	e.closeOnce.Do(func() {
		e.fan.Close()
		if err := e.conn.Close(); err != nil {
			e.log.Debug("websocket close", logger.Error(err))
		}
	})
}

// Done is closed when the endpoint is terminated or the connection is
// lost.
func (e *Endpoint) Done() <-chan struct{} {
	return e.fan.Done()
}

func (e *Endpoint) readLoop() {
	defer e.Terminate()
	for {
		_, data, err := e.conn.ReadMessage()
		if err != nil {
			if !e.fan.Closed() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				e.log.Debug("websocket read failed", logger.Error(err))
			}
			return
		}
		msg, err := wire.Decode(data)
		if err != nil {
			// Partially formed frames are ignored rather than fatal.
			e.log.Warn("dropping malformed frame", logger.Error(err))
			continue
		}
		e.fan.Deliver(msg)
	}
}

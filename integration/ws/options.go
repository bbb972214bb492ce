package ws

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type wsConfig struct {
	upgrader       *websocket.Upgrader
	dialer         *websocket.Dialer
	requestHeader  http.Header
	responseHeader http.Header
	logger         *slog.Logger
}

// Option configures the dial or accept path.
type Option func(*wsConfig)

func defaultConfig() *wsConfig {
	return &wsConfig{
		upgrader: &websocket.Upgrader{},
		dialer:   websocket.DefaultDialer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithReadBuffer sets the read buffer size of connections upgraded by
// Accept. Dial ignores it.
func WithReadBuffer(size int) Option {
	return func(c *wsConfig) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithWriteBuffer sets the write buffer size of connections upgraded by
// Accept. Dial ignores it.
func WithWriteBuffer(size int) Option {
	return func(c *wsConfig) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithHandshakeTimeout bounds the websocket handshake.
func WithHandshakeTimeout(timeout time.Duration) Option {
	return func(c *wsConfig) {
		c.upgrader.HandshakeTimeout = timeout
		d := *c.dialer
		d.HandshakeTimeout = timeout
		c.dialer = &d
	}
}

// WithOriginCheck sets the upgrade origin check.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithAllowAnyOrigin disables the upgrade origin check.
func WithAllowAnyOrigin() Option {
	return func(c *wsConfig) {
		c.upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}
}

// WithRequestHeader adds headers to the dial handshake request.
func WithRequestHeader(header http.Header) Option {
	return func(c *wsConfig) {
		c.requestHeader = header
	}
}

// WithUpgradeHeaders adds headers to the upgrade response.
func WithUpgradeHeaders(header http.Header) Option {
	return func(c *wsConfig) {
		c.responseHeader = header
	}
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *wsConfig) {
		if log != nil {
			c.logger = log
		}
	}
}

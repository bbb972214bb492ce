package redis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/bridgekit/core/logger"
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/transport"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Side identifies which end of a link an endpoint serves.
type Side string

const (
	// SideMain is the pool side of a link.
	SideMain Side = "main"

	// SideWorker is the worker runtime side of a link.
	SideWorker Side = "worker"
)

// Endpoint is a bridge endpoint over a Redis pub/sub link. It implements
// transport.Endpoint.
type Endpoint struct {
	client  *goredis.Client
	pubsub  *goredis.PubSub
	outChan string
	fan     *transport.Fanout
	log     *slog.Logger

	closeOnce sync.Once
}

// Option configures a link endpoint.
type Option func(*linkConfig)

type linkConfig struct {
	logger *slog.Logger
}

// WithLogger sets the diagnostic logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *linkConfig) {
		if log != nil {
			c.logger = log
		}
	}
}

// Connect joins one side of the named link. It returns after the
// inbound subscription is confirmed, so no message published afterwards
// by the peer is missed.
func Connect(ctx context.Context, client *goredis.Client, link string, side Side, opts ...Option) (*Endpoint, error) {
	if client == nil {
		return nil, ErrClientNil
	}
	if link == "" {
		return nil, ErrEmptyLink
	}

	cfg := &linkConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(cfg)
	}

	outChan, inChan := channelNames(link, side)
	pubsub := client.Subscribe(ctx, inChan)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	e := &Endpoint{
		client:  client,
		pubsub:  pubsub,
		outChan: outChan,
		fan:     transport.NewFanout(),
		log:     cfg.logger,
	}
	go e.readLoop()
	return e, nil
}

func channelNames(link string, side Side) (out, in string) {
	toWorker := "bridge:" + link + ":to-worker"
	toMain := "bridge:" + link + ":to-main"
	if side == SideWorker {
		return toMain, toWorker
	}
	return toWorker, toMain
}

// Post serializes the message and publishes it on the outbound channel.
// Buffers on the transfer list are detached before serialization so the
// caller observes move semantics.
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
	if err := e.client.Publish(context.Background(), e.outChan, data).Err(); err != nil {
		return fmt.Errorf("failed to publish frame: %w", err)
	}
	return nil
}

// Subscribe registers a handler for inbound messages.
func (e *Endpoint) Subscribe(h transport.Handler) func() {
	return e.fan.Subscribe(h)
}

// Terminate closes the subscription and stops delivery. The peer
// endpoint is not notified and stays open. Idempotent.
func (e *Endpoint) Terminate() {
	e.closeOnce.Do(func() {
		e.fan.Close()
		if err := e.pubsub.Close(); err != nil {
			e.log.Debug("pubsub close", logger.Error(err))
		}
	})
}

// Done is closed when the endpoint is terminated or the subscription is
// lost.
func (e *Endpoint) Done() <-chan struct{} {
	return e.fan.Done()
}

func (e *Endpoint) readLoop() {
	defer e.Terminate()
	for msg := range e.pubsub.Channel() {
		decoded, err := wire.Decode([]byte(msg.Payload))
		if err != nil {
			// Partially formed frames are ignored rather than fatal.
			e.log.Warn("dropping malformed frame", logger.Error(err))
			continue
		}
		e.fan.Deliver(decoded)
	}
}

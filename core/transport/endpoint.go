package transport

import (
	"context"

	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Handler consumes inbound messages. Handlers run on the endpoint's
// delivery goroutine and must not block; hand long work to another
// goroutine.
type Handler func(msg wire.Message)

// Endpoint is one side of an ordered duplex message channel. Transfer
// semantics: every buffer on the transfer list is detached from the
// sender when Post returns successfully; the caller must not read it
// afterwards.
type Endpoint interface {
	// Post sends a message, moving ownership of the listed buffers.
	Post(msg wire.Message, transfer []*marshal.Buffer) error

	// Subscribe registers a handler for inbound messages and returns its
	// removal function. Every registered handler observes every message.
	Subscribe(h Handler) (unsubscribe func())

	// Terminate tears the channel down. Whether the peer endpoint is
	// closed as well depends on the transport. Idempotent.
	Terminate()

	// Done is closed when the endpoint is terminated.
	Done() <-chan struct{}
}

// Builder constructs a live endpoint to a fresh worker execution
// context. The pool calls it lazily, once per slot.
type Builder func(ctx context.Context) (Endpoint, error)

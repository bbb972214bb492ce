package transport

import (
	"sync"

	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Fanout implements the inbound-delivery bookkeeping every endpoint
// shares: ordered dispatch of queued messages to all registered
// handlers, with hold-back while no handler is subscribed so traffic
// arriving before the first Subscribe is not lost.
type Fanout struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []wire.Message
	handlers map[uint64]Handler
	nextID   uint64
	closed   bool
	done     chan struct{}
}

// NewFanout creates a fanout and starts its delivery goroutine.
func NewFanout() *Fanout {
	f := &Fanout{
		handlers: make(map[uint64]Handler),
		done:     make(chan struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	go f.run()
	return f
}

// Deliver enqueues one inbound message. Messages delivered after Close
// are dropped.
func (f *Fanout) Deliver(msg wire.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.queue = append(f.queue, msg)
	f.cond.Broadcast()
}

// Subscribe registers a handler and returns its removal function.
func (f *Fanout) Subscribe(h Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	f.handlers[id] = h
	f.cond.Broadcast()
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.handlers, id)
	}
}

// Close stops delivery and closes Done. Idempotent.
func (f *Fanout) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	close(f.done)
	f.cond.Broadcast()
}

// Done is closed when the fanout is closed.
func (f *Fanout) Done() <-chan struct{} {
	return f.done
}

// Closed reports whether Close was called.
func (f *Fanout) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// run delivers queued messages in order. Delivery stalls while no
// handler is registered.
func (f *Fanout) run() {
	for {
		f.mu.Lock()
		for !f.closed && (len(f.queue) == 0 || len(f.handlers) == 0) {
			f.cond.Wait()
		}
		if f.closed {
			f.mu.Unlock()
			return
		}
		msg := f.queue[0]
		f.queue = f.queue[1:]
		hs := make([]Handler, 0, len(f.handlers))
		for _, h := range f.handlers {
			hs = append(hs, h)
		}
		f.mu.Unlock()

		for _, h := range hs {
			h(msg)
		}
	}
}

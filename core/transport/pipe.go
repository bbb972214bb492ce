package transport

import (
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// Pipe creates two linked in-process endpoints. Messages posted on one
// side are delivered, in order, to every subscriber of the other side.
// Terminating either side terminates both.
func Pipe() (Endpoint, Endpoint) {
	a := &pipeEnd{fan: NewFanout()}
	b := &pipeEnd{fan: NewFanout()}
	a.peer, b.peer = b, a
	return a, b
}

type pipeEnd struct {
	peer *pipeEnd
	fan  *Fanout
}

// Post moves the listed buffers out of the sender and enqueues the
// rewritten message on the peer.
func (e *pipeEnd) Post(msg wire.Message, transfer []*marshal.Buffer) error {
	if e.fan.Closed() {
		return ErrEndpointClosed
	}
	msg, err := ApplyTransfer(msg, transfer)
	if err != nil {
		return err
	}
	e.peer.fan.Deliver(msg)
	return nil
}

func (e *pipeEnd) Subscribe(h Handler) func() {
	return e.fan.Subscribe(h)
}

func (e *pipeEnd) Terminate() {
	e.fan.Close()
	e.peer.fan.Close()
}

func (e *pipeEnd) Done() <-chan struct{} {
	return e.fan.Done()
}

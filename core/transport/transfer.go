package transport

import (
	"github.com/dmitrymomot/bridgekit/core/marshal"
	"github.com/dmitrymomot/bridgekit/core/wire"
)

// ApplyTransfer executes the transfer list against a message about to be
// posted: the listed buffers are detached from the sender and the
// message's argument/result trees are rewritten to reference the moved
// replacements. The returned message is what the peer observes.
func ApplyTransfer(msg wire.Message, transfer []*marshal.Buffer) (wire.Message, error) {
	if len(transfer) == 0 {
		return msg, nil
	}
	move, err := marshal.BeginMove(transfer)
	if err != nil {
		return wire.Message{}, err
	}
	if msg.Args != nil {
		msg.Args = move.Rebase(msg.Args).([]any)
	}
	if msg.Result != nil {
		msg.Result = move.Rebase(msg.Result)
	}
	return msg, nil
}

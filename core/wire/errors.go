package wire

import "errors"

var (
	// ErrEncodeMessage is returned when a message cannot be serialized.
	ErrEncodeMessage = errors.New("failed to encode message")

	// ErrDecodeMessage is returned when inbound bytes are not a valid
	// message.
	ErrDecodeMessage = errors.New("failed to decode message")
)

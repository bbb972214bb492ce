package wire

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/bridgekit/core/marshal"
)

// bufferKey marks a serialized binary buffer on the JSON wire form.
const bufferKey = "$buffer"

// Encode serializes a message for a byte-oriented transport. Buffers and
// views in the argument/result trees are encoded as base64 records;
// everything else goes through encoding/json as-is. Encoding a detached
// buffer fails.
func Encode(msg Message) ([]byte, error) {
	var err error
	if msg.Args != nil {
		args := make([]any, len(msg.Args))
		for i, a := range msg.Args {
			if args[i], err = encodeNode(a); err != nil {
				return nil, err
			}
		}
		msg.Args = args
	}
	if msg.Result != nil {
		if msg.Result, err = encodeNode(msg.Result); err != nil {
			return nil, err
		}
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeMessage, err)
	}
	return data, nil
}

// Decode parses a serialized message, restoring buffer records into
// *marshal.Buffer values. Note the JSON type mapping: numbers decode as
// float64 and records as map[string]any, which is the canonical wire
// tree shape.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %w", ErrDecodeMessage, err)
	}
	for i, a := range msg.Args {
		node, err := decodeNode(a)
		if err != nil {
			return Message{}, err
		}
		msg.Args[i] = node
	}
	if msg.Result != nil {
		node, err := decodeNode(msg.Result)
		if err != nil {
			return Message{}, err
		}
		msg.Result = node
	}
	return msg, nil
}

func encodeNode(v any) (any, error) {
	switch node := v.(type) {
	case *marshal.Buffer:
		b, err := node.Bytes()
		if err != nil {
			return nil, err
		}
		return map[string]any{bufferKey: base64.StdEncoding.EncodeToString(b)}, nil
	case marshal.BufferView:
		b, err := node.Bytes()
		if err != nil {
			return nil, err
		}
		return map[string]any{bufferKey: base64.StdEncoding.EncodeToString(b)}, nil
	case []any:
		out := make([]any, len(node))
		for i, el := range node {
			enc, err := encodeNode(el)
			if err != nil {
				return nil, err
			}
			out[i] = enc
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, el := range node {
			enc, err := encodeNode(el)
			if err != nil {
				return nil, err
			}
			out[k] = enc
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeNode(v any) (any, error) {
	switch node := v.(type) {
	case []any:
		for i, el := range node {
			dec, err := decodeNode(el)
			if err != nil {
				return nil, err
			}
			node[i] = dec
		}
		return node, nil
	case map[string]any:
		if enc, ok := node[bufferKey].(string); ok && len(node) == 1 {
			b, err := base64.StdEncoding.DecodeString(enc)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrDecodeMessage, err)
			}
			return marshal.NewBuffer(b), nil
		}
		for k, el := range node {
			dec, err := decodeNode(el)
			if err != nil {
				return nil, err
			}
			node[k] = dec
		}
		return node, nil
	default:
		return v, nil
	}
}

// Package wire defines the bridge message protocol: the message kinds
// exchanged between the two sides of an endpoint, the envelope they
// travel in, and the JSON codec network transport adapters use to put
// envelopes on a byte-oriented channel.
//
// In-process transports pass Message values directly; the codec is only
// involved when an adapter has to serialize (websocket, redis). On the
// serialized form, binary buffers become {"$buffer": "<base64>"} records
// and placeholder records survive as plain JSON objects.
package wire

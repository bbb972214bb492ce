// Package transport defines the endpoint abstraction the bridge core
// runs on and provides the in-process pipe transport.
//
// An Endpoint is one side of a single ordered duplex message channel to
// one execution context. The core only ever talks to this interface;
// platform adapters (websocket, redis pub/sub) live in integration/.
//
// Pipe returns two linked in-process endpoints. It is the transport
// behind goroutine workers and the backbone of the test suite: delivery
// is ordered, transferables move instead of copying, and messages posted
// before the first subscriber are held back until one appears (the same
// queue-until-listening behavior message channels give a freshly spawned
// worker).
package transport

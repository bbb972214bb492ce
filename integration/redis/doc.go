// Package redis adapts a Redis pub/sub link to the bridge's endpoint
// abstraction, connecting a pool and a worker runtime that share nothing
// but a Redis instance.
//
// A link is a pair of channels derived from the link name, one per
// direction. The main side connects as SideMain, the worker side as
// SideWorker; each publishes on its outbound channel and subscribes to
// the other:
//
//	// main side
//	ep, err := redis.Connect(ctx, client, "image-workers-1", redis.SideMain)
//
//	// worker side
//	ep, err := redis.Connect(ctx, client, "image-workers-1", redis.SideWorker)
//	runtime.Serve(ctx, ep)
//
// Redis preserves publish order per channel per connection, which is the
// ordering guarantee the bridge core requires. Messages are JSON frames
// produced by the core/wire codec; transferable buffers are serialized
// into the frame and detached locally.
package redis

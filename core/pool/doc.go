// Package pool schedules bridge calls across a bounded set of worker
// endpoints.
//
// A pool owns a fixed number of slots. Each slot lazily constructs its
// endpoint through the user-supplied builder on first use and carries at
// most one in-flight request at a time. Execute acquires the first free
// slot (waiting when all are busy), drives the call through the
// dispatcher, and returns a future for its outcome:
//
//	p, err := pool.New(worker.Launch(procs), pool.WithLimit(2))
//	if err != nil { ... }
//	defer p.Close()
//
//	future := p.Execute(ctx, "add", 10, 20)
//	sum, err := future.Await()
//
// WaitReady blocks until a slot is free, WaitAll until the pool is
// quiescent. LaunchWorkers eagerly constructs every missing endpoint.
// SetLimit resizes the pool by replacing all slots; in-flight calls on
// the old slots are rejected with ErrPoolReset rather than left pending.
package pool

// Package bridgekit is a typed RPC bridge over ordered duplex message
// channels.
//
// A main-side pool schedules calls across a bounded set of worker
// endpoints; each worker exposes a named procedure map. Arguments and
// results may embed callables that the receiving side can invoke
// remotely while the owning call is open, and binary buffers whose
// ownership moves across the channel instead of being copied.
//
// The building blocks:
//
//   - core/pool — main-side scheduler (Execute, WaitAll, WaitReady,
//     LaunchWorkers, SetLimit, Close)
//   - core/worker — worker runtime and in-process goroutine workers
//   - core/dispatch — per-request call state machine and callback
//     registry shared by both sides
//   - core/marshal — argument-tree codec: callables, placeholders,
//     transferable buffers
//   - core/transport — the endpoint abstraction and the in-process pipe
//   - integration/ws, integration/redis — network endpoint adapters
//
// Minimal example:
//
//	procs := worker.Procedures{
//	    "add": func(ctx context.Context, args []any) (any, error) {
//	        return args[0].(int) + args[1].(int), nil
//	    },
//	}
//
//	p, err := pool.New(worker.Launch(procs), pool.WithLimit(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	sum, err := p.Execute(ctx, "add", 10, 20).Await()
package bridgekit

// Package ws adapts a websocket connection to the bridge's endpoint
// abstraction, so a worker pool on one host can drive workers served
// from another process.
//
// The dialing side (usually the pool's builder) uses Dial; the serving
// side upgrades an HTTP request with Accept and hands the endpoint to a
// worker runtime:
//
//	// main side
//	p, _ := pool.New(func(ctx context.Context) (transport.Endpoint, error) {
//		return ws.Dial(ctx, "ws://workers.internal/bridge")
//	})
//
//	// worker side
//	http.HandleFunc("/bridge", func(w http.ResponseWriter, r *http.Request) {
//		ep, err := ws.Accept(w, r)
//		if err != nil {
//			return
//		}
//		runtime.Serve(r.Context(), ep)
//	})
//
// Messages travel as JSON frames produced by the core/wire codec. A
// transferable buffer is serialized into the frame and detached locally,
// preserving move semantics from the caller's point of view.
package ws

// Package dispatch implements the per-request call state machine both
// sides of the bridge share.
//
// A Session is bound to one endpoint and owns the callback registry for
// that link: callables registered when marshaling outbound arguments,
// and memoized invocation proxies created when unmarshaling inbound
// placeholders. Session.Call drives a main-side procedure invocation
// from post to terminal result, routing interleaved callback traffic by
// request id on the way; Session.HandleCallbackCall services inbound
// invocations of locally held callables on either side.
//
// All registry entries belonging to a request are released atomically
// when the request reaches a terminal state, before its caller observes
// the outcome.
package dispatch

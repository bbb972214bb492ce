// Package marshal converts argument trees between their live form and
// their wire form.
//
// A live tree may contain callables (values implementing Callable) and
// binary buffers (*Buffer, BufferView). The wire form carries no live
// callables: each one is registered with the owning request and replaced
// by a placeholder record the receiving side resolves back into an
// invocation proxy. Buffers and views pass through unchanged and are
// collected into the transfer list so the transport can move their
// ownership instead of copying.
//
// The walk recognizes, in order: callables, placeholder records, raw
// buffers, buffer views, sequences ([]any), records (map[string]any).
// Everything else passes through untouched, so unknown shapes never fail
// marshaling. Cyclic trees are not supported.
//
// Basic usage:
//
//	wire, transfer := marshal.Marshal(requestID, args, registry)
//	endpoint.Post(msg, transfer)
//
//	// receiving side
//	live := marshal.Unmarshal(requestID, wire, registry)
package marshal

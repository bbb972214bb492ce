package wire

// Kind tags a bridge message.
type Kind string

const (
	// KindReady is the sentinel a worker posts once its message handler
	// is installed, before any other traffic.
	KindReady Kind = "ready"

	// KindFunction carries a procedure invocation from main to worker.
	KindFunction Kind = "function"

	// KindResult carries a successful procedure result back to main.
	KindResult Kind = "result"

	// KindError carries a failed procedure's stringified error back to
	// main.
	KindError Kind = "error"

	// KindCallbackCall invokes a callable previously sent to the other
	// side; it flows in either direction.
	KindCallbackCall Kind = "callback_call"

	// KindCallbackResult answers a KindCallbackCall, correlated by call
	// id.
	KindCallbackResult Kind = "callback_result"

	// KindCallbackError answers a KindCallbackCall whose callable
	// failed, correlated by call id.
	KindCallbackError Kind = "callback_error"
)

// Message is the envelope for all bridge traffic. Which fields are
// populated depends on Kind:
//
//	function        ID, Name, Args
//	result          ID, Result
//	error           ID, Error
//	callback_call   ID, CallbackID, CallID, Args
//	callback_result CallID, Result
//	callback_error  CallID, Error
//	ready           (none)
//
// ID is the owning request id, monotonic per main-side process.
// CallbackID is the token minted when the callable was registered.
// CallID correlates one proxy invocation with its response.
type Message struct {
	Kind       Kind   `json:"type"`
	ID         uint64 `json:"id,omitempty"`
	Name       string `json:"name,omitempty"`
	CallbackID string `json:"callback_id,omitempty"`
	CallID     string `json:"call_id,omitempty"`
	Args       []any  `json:"args,omitempty"`
	Result     any    `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
}

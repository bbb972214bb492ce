package marshal

// Marker is the field name that identifies a placeholder record on the
// wire. A placeholder is a plain record with this single field holding
// the callback token ("{requestId}:{random}").
const Marker = "__bridge_callback__"

// CallableRegistrar registers a callable under its owning request and
// mints the token carried by the placeholder that replaces it.
type CallableRegistrar interface {
	RegisterCallable(requestID uint64, c Callable) string
}

// ProxyResolver resolves a placeholder token into the invocation proxy
// for the remote callable it stands for. Resolution is memoized per
// (requestID, token) so identical placeholders within one request yield
// the identity-same proxy.
type ProxyResolver interface {
	ResolveProxy(requestID uint64, token string) Callable
}

// Placeholder builds the wire record standing in for a registered
// callable.
func Placeholder(token string) map[string]any {
	return map[string]any{Marker: token}
}

// PlaceholderToken extracts the token if v is a placeholder record.
func PlaceholderToken(v any) (string, bool) {
	rec, ok := v.(map[string]any)
	if !ok || len(rec) != 1 {
		return "", false
	}
	token, ok := rec[Marker].(string)
	return token, ok
}

// Marshal rewrites the live tree v into its wire form: callables become
// placeholder records registered with reg under requestID, buffers and
// views are collected into the returned transfer list, sequences and
// records are rebuilt element-wise, and everything else passes through.
// Marshal never fails; values it does not recognize are treated as
// opaque scalars.
func Marshal(requestID uint64, v any, reg CallableRegistrar) (any, []*Buffer) {
	var transfer []*Buffer
	wire := marshalNode(requestID, v, reg, &transfer)
	return wire, transfer
}

// MarshalArgs marshals an argument list, merging the transfer lists of
// all elements.
func MarshalArgs(requestID uint64, args []any, reg CallableRegistrar) ([]any, []*Buffer) {
	var transfer []*Buffer
	wire := make([]any, len(args))
	for i, a := range args {
		wire[i] = marshalNode(requestID, a, reg, &transfer)
	}
	return wire, transfer
}

func marshalNode(requestID uint64, v any, reg CallableRegistrar, transfer *[]*Buffer) any {
	switch node := v.(type) {
	case Callable:
		return Placeholder(reg.RegisterCallable(requestID, node))
	case *Buffer:
		*transfer = append(*transfer, node)
		return node
	case BufferView:
		*transfer = append(*transfer, node.buf)
		return node
	case []any:
		out := make([]any, len(node))
		for i, el := range node {
			out[i] = marshalNode(requestID, el, reg, transfer)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, el := range node {
			out[k] = marshalNode(requestID, el, reg, transfer)
		}
		return out
	default:
		return v
	}
}

// Unmarshal rewrites the wire tree v into its live form, resolving
// placeholder records into invocation proxies through res. Buffers and
// views pass through unchanged.
func Unmarshal(requestID uint64, v any, res ProxyResolver) any {
	switch node := v.(type) {
	case *Buffer, BufferView:
		return v
	case []any:
		out := make([]any, len(node))
		for i, el := range node {
			out[i] = Unmarshal(requestID, el, res)
		}
		return out
	case map[string]any:
		if token, ok := PlaceholderToken(node); ok {
			return res.ResolveProxy(requestID, token)
		}
		out := make(map[string]any, len(node))
		for k, el := range node {
			out[k] = Unmarshal(requestID, el, res)
		}
		return out
	default:
		return v
	}
}

// UnmarshalArgs unmarshals an argument list element-wise.
func UnmarshalArgs(requestID uint64, args []any, res ProxyResolver) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = Unmarshal(requestID, a, res)
	}
	return out
}

// Move executes the ownership transfer of a posted message: every buffer
// on the transfer list is detached from the sender and mapped to a fresh
// buffer owning the moved bytes. Rebase rewrites a wire tree so it
// references the replacements; views over a moved buffer are rebased onto
// its replacement. The rewritten trees are what the receiving side
// observes; the sender keeps only detached handles.
type Move struct {
	moved map[*Buffer]*Buffer
}

// BeginMove detaches every buffer on the transfer list. Duplicates on
// the list are tolerated; a buffer already detached before the move
// fails it.
func BeginMove(transfer []*Buffer) (*Move, error) {
	moved := make(map[*Buffer]*Buffer, len(transfer))
	for _, b := range transfer {
		if _, ok := moved[b]; ok {
			continue
		}
		data, err := b.Detach()
		if err != nil {
			return nil, err
		}
		moved[b] = NewBuffer(data)
	}
	return &Move{moved: moved}, nil
}

// Rebase rewrites v so every moved buffer and every view over one points
// at its replacement.
func (m *Move) Rebase(v any) any {
	if len(m.moved) == 0 {
		return v
	}
	return rebase(v, m.moved)
}

func rebase(v any, moved map[*Buffer]*Buffer) any {
	switch node := v.(type) {
	case *Buffer:
		if repl, ok := moved[node]; ok {
			return repl
		}
		return node
	case BufferView:
		if repl, ok := moved[node.buf]; ok {
			return BufferView{buf: repl, off: node.off, n: node.n}
		}
		return node
	case []any:
		out := make([]any, len(node))
		for i, el := range node {
			out[i] = rebase(el, moved)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, el := range node {
			out[k] = rebase(el, moved)
		}
		return out
	default:
		return v
	}
}

package marshal

import "sync"

// Buffer owns a contiguous byte payload with move semantics. Posting a
// buffer on the transfer list detaches it on the sending side: the bytes
// move to the receiver and every local read afterwards returns
// ErrBufferDetached. This mirrors transferable ownership on message
// channels — a buffer is never implicitly copied by the bridge.
type Buffer struct {
	mu       sync.Mutex
	data     []byte
	detached bool
}

// NewBuffer wraps b in a transferable buffer. The buffer takes ownership
// of the slice; the caller must not retain it.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Bytes returns the payload, or ErrBufferDetached after a move.
func (b *Buffer) Bytes() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached {
		return nil, ErrBufferDetached
	}
	return b.data, nil
}

// Len reports the payload length; a detached buffer has length zero.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached {
		return 0
	}
	return len(b.data)
}

// Detached reports whether the contents were moved away.
func (b *Buffer) Detached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.detached
}

// Detach moves the payload out, leaving the buffer detached. Transports
// call this when processing the transfer list; callers normally never do.
func (b *Buffer) Detach() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.detached {
		return nil, ErrBufferDetached
	}
	data := b.data
	b.data = nil
	b.detached = true
	return data, nil
}

// BufferView is a typed window over a Buffer. Views pass through
// marshaling unchanged; their underlying buffer joins the transfer list,
// so a view sent across the bridge detaches its backing storage locally.
type BufferView struct {
	buf *Buffer
	off int
	n   int
}

// NewView creates a window of n bytes starting at off.
func NewView(buf *Buffer, off, n int) (BufferView, error) {
	buf.mu.Lock()
	size := len(buf.data)
	buf.mu.Unlock()
	if off < 0 || n < 0 || off+n > size {
		return BufferView{}, ErrViewOutOfRange
	}
	return BufferView{buf: buf, off: off, n: n}, nil
}

// Buffer returns the underlying buffer.
func (v BufferView) Buffer() *Buffer { return v.buf }

// Offset returns the window start within the underlying buffer.
func (v BufferView) Offset() int { return v.off }

// Len returns the window length.
func (v BufferView) Len() int { return v.n }

// Bytes returns the window contents, or ErrBufferDetached after a move.
func (v BufferView) Bytes() ([]byte, error) {
	b, err := v.buf.Bytes()
	if err != nil {
		return nil, err
	}
	return b[v.off : v.off+v.n], nil
}

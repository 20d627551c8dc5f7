package memory

// Heap is a Backing stored in a Go byte slice.
type Heap struct {
	data   []byte
	closed bool
}

// NewHeap allocates a zeroed heap backing of size bytes.
func NewHeap(size int) (*Heap, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	return &Heap{data: make([]byte, size)}, nil
}

func (h *Heap) Bytes() []byte { return h.data }

func (h *Heap) Len() int { return len(h.data) }

// Grow reallocates when size exceeds the current length. The old slice is
// poisoned.
func (h *Heap) Grow(size int) error {
	if h.closed {
		return ErrClosed
	}
	if size <= len(h.data) {
		return nil
	}
	return h.move(size)
}

// Relocate copies the region into a new slice and poisons the old one.
func (h *Heap) Relocate() error {
	if h.closed {
		return ErrClosed
	}
	return h.move(len(h.data))
}

func (h *Heap) move(size int) error {
	next := make([]byte, size)
	copy(next, h.data)
	poison(h.data)
	h.data = next
	return nil
}

func (h *Heap) Close() error {
	h.closed = true
	h.data = nil
	return nil
}

var _ Backing = (*Heap)(nil)

package segment

import (
	"fmt"

	"github.com/joshuapare/atomkit/internal/buf"
	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/internal/memory"
)

// Handle is the offset of a cell payload within its segment. Zero is never a
// valid handle.
type Handle = uint16

// Segment is a handle-addressed arena backed by relocatable memory.
type Segment struct {
	mem      memory.Backing
	maxSize  int
	relocate bool

	// gen counts how many times the backing memory has moved or grown.
	gen uint64

	stats counters
}

// counters holds allocator call statistics.
type counters struct {
	allocs      int
	frees       int
	grows       int
	relocations int
}

// New creates a segment identified by selector. A nil opts uses DefaultOptions.
func New(selector uint16, opts *Options) (*Segment, error) {
	if selector == 0 {
		return nil, ErrBadSelector
	}
	if opts == nil {
		o := DefaultOptions()
		opts = &o
	}
	o := opts.normalize()

	mem, err := memory.New(o.Backing, o.InitialSize)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	s := &Segment{
		mem:      mem,
		maxSize:  o.MaxSize,
		relocate: o.RelocateEveryAlloc,
	}

	data := mem.Bytes()
	copy(data[format.SegSignatureOffset:], format.SegmentSignature)
	format.PutU16(data, format.SegSelectorOffset, selector)
	format.PutU16(data, format.SegAtomTableOffset, 0)
	format.PutU16(data, format.SegHeapStartOffset, format.SegmentHeaderSize)
	s.setHeapEnd(o.InitialSize)

	// One free cell spanning the whole heap.
	format.PutI32(data, format.SegmentHeaderSize, int32(o.InitialSize-format.SegmentHeaderSize))

	logger.Debug("segment created",
		"selector", selector,
		"size", o.InitialSize,
		"max", o.MaxSize,
		"backing", o.Backing.String())
	return s, nil
}

// Closed reports whether the backing memory has been released.
func (s *Segment) Closed() bool { return s.mem.Len() == 0 }

// Selector returns the segment id stored in the instance header, or 0 once
// the segment is closed.
func (s *Segment) Selector() uint16 {
	if s.Closed() {
		return 0
	}
	return format.ReadU16(s.mem.Bytes(), format.SegSelectorOffset)
}

// AtomTable returns the atom table handle stored in the instance header, or
// 0 once the segment is closed.
func (s *Segment) AtomTable() Handle {
	if s.Closed() {
		return 0
	}
	return format.ReadU16(s.mem.Bytes(), format.SegAtomTableOffset)
}

// SetAtomTable records the atom table handle in the instance header. It does
// nothing on a closed segment.
func (s *Segment) SetAtomTable(h Handle) {
	if s.Closed() {
		return
	}
	format.PutU16(s.mem.Bytes(), format.SegAtomTableOffset, h)
}

// Bytes returns the whole segment. The slice is invalid after the next Alloc,
// Relocate or Close.
func (s *Segment) Bytes() []byte { return s.mem.Bytes() }

// Size returns the current segment size in bytes.
func (s *Segment) Size() int { return s.mem.Len() }

// MaxSize returns the growth cap.
func (s *Segment) MaxSize() int { return s.maxSize }

// Generation increases every time the backing memory grows or moves. Two
// equal generations mean views taken between them are still valid.
func (s *Segment) Generation() uint64 { return s.gen }

// Resolve returns the payload of the allocated cell at h. The slice is invalid
// after the next Alloc, Relocate or Close.
func (s *Segment) Resolve(h Handle) ([]byte, error) {
	off, size, err := s.cellAt(h)
	if err != nil {
		return nil, err
	}
	p, ok := buf.Slice(s.mem.Bytes(), off+format.CellHeaderSize, size-format.CellHeaderSize)
	if !ok {
		return nil, fmt.Errorf("%w: cell 0x%04x outside segment", ErrCorrupt, h)
	}
	return p, nil
}

// Relocate moves the backing memory to a fresh region.
func (s *Segment) Relocate() error {
	if s.Closed() {
		return ErrClosed
	}
	if err := s.mem.Relocate(); err != nil {
		return fmt.Errorf("segment: relocate: %w", err)
	}
	s.gen++
	s.stats.relocations++
	return nil
}

// Close releases the backing memory.
func (s *Segment) Close() error {
	return s.mem.Close()
}

// heapStart and heapEnd are both 0 on a closed segment, so iteration stops
// immediately.
func (s *Segment) heapStart() int {
	if s.Closed() {
		return 0
	}
	return int(format.ReadU16(s.mem.Bytes(), format.SegHeapStartOffset))
}

// heapEnd decodes the end-of-heap field; 0 stands for a full 64 KiB segment.
func (s *Segment) heapEnd() int {
	if s.Closed() {
		return 0
	}
	v := int(format.ReadU16(s.mem.Bytes(), format.SegHeapEndOffset))
	if v == 0 {
		return format.MaxSegmentSize
	}
	return v
}

func (s *Segment) setHeapEnd(end int) {
	if s.Closed() {
		return
	}
	format.PutU16(s.mem.Bytes(), format.SegHeapEndOffset, uint16(end))
}

// cellAt validates h and returns its cell offset and total size. The cell
// must be allocated.
func (s *Segment) cellAt(h Handle) (int, int, error) {
	if s.Closed() {
		return 0, 0, ErrClosed
	}
	off := int(h) - format.CellHeaderSize
	end := s.heapEnd()
	if h == 0 || h&format.CellAlignmentMask != 0 || off < s.heapStart() || off+format.MinCellSize > end {
		return 0, 0, fmt.Errorf("%w: 0x%04x", ErrBadHandle, h)
	}
	raw := format.ReadI32(s.mem.Bytes(), off)
	if raw >= 0 {
		return 0, 0, fmt.Errorf("%w: 0x%04x", ErrNotAllocated, h)
	}
	size := int(-raw)
	if size < format.MinCellSize || size&format.CellAlignmentMask != 0 || off+size > end {
		return 0, 0, fmt.Errorf("%w: cell 0x%04x size %d", ErrCorrupt, h, size)
	}
	return off, size, nil
}

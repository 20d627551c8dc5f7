package segment

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/internal/memory"
)

// Alloc allocates a cell with at least need payload bytes and returns its
// handle. The payload is zeroed. Every slice previously obtained from this
// segment must be considered invalid once Alloc returns.
func (s *Segment) Alloc(need int) (Handle, error) {
	s.stats.allocs++

	if s.Closed() {
		return 0, ErrClosed
	}
	if need <= 0 {
		return 0, ErrNeedSmall
	}
	total := format.Align4(need + format.CellHeaderSize)
	if total < format.MinCellSize {
		total = format.MinCellSize
	}
	if total > s.maxSize-format.SegmentHeaderSize {
		return 0, fmt.Errorf("%w: need=%d", ErrNoSpace, need)
	}

	if s.relocate {
		if err := s.Relocate(); err != nil {
			return 0, err
		}
	}

	off, tail, err := s.findFit(total)
	if err != nil {
		return 0, err
	}
	if off < 0 {
		if err := s.grow(total, tail); err != nil {
			return 0, err
		}
		if off, _, err = s.findFit(total); err != nil {
			return 0, err
		}
		if off < 0 {
			return 0, fmt.Errorf("%w: need=%d after grow", ErrNoSpace, need)
		}
	}

	return s.claim(off, total), nil
}

// Free releases the cell at h and coalesces it with free neighbours.
func (s *Segment) Free(h Handle) error {
	s.stats.frees++

	off, size, err := s.cellAt(h)
	if err != nil {
		return err
	}

	// Walk to confirm off is a real cell boundary and to find the predecessor.
	prev := -1
	found := false
	it := s.Cells()
	for {
		c, err := it.Next()
		if err != nil {
			break
		}
		if c.Offset == off {
			found = true
			break
		}
		if c.Offset > off {
			break
		}
		if c.Free {
			prev = c.Offset
		} else {
			prev = -1
		}
	}
	if !found {
		return fmt.Errorf("%w: 0x%04x is not a cell boundary", ErrBadHandle, h)
	}

	data := s.mem.Bytes()
	payload := data[off+format.CellHeaderSize : off+size]
	for i := range payload {
		payload[i] = memory.PoisonByte
	}

	// Forward coalesce. Absorbed headers are poisoned so stale handles into
	// the merged cell fail to resolve.
	if next := off + size; next < s.heapEnd() {
		if nsz := format.ReadI32(data, next); nsz > 0 {
			poisonHeader(data, next)
			size += int(nsz)
		}
	}
	// Backward coalesce.
	if prev >= 0 {
		poisonHeader(data, off)
		size += off - prev
		off = prev
	}
	format.PutI32(data, off, int32(size))
	return nil
}

// findFit returns the offset of the first free cell of at least total bytes,
// or -1. tail is the offset of the last cell when that cell is free, else -1.
func (s *Segment) findFit(total int) (int, int, error) {
	tail := -1
	it := s.Cells()
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			return -1, tail, nil
		}
		if err != nil {
			return -1, -1, err
		}
		if !c.Free {
			tail = -1
			continue
		}
		if c.Size >= total {
			return c.Offset, -1, nil
		}
		tail = c.Offset
	}
}

// claim marks the free cell at off as allocated, splitting off a free
// remainder when it is large enough to stand alone.
func (s *Segment) claim(off, total int) Handle {
	data := s.mem.Bytes()
	size := int(format.ReadI32(data, off))

	if rem := size - total; rem >= format.MinCellSize {
		format.PutI32(data, off, -int32(total))
		format.PutI32(data, off+total, int32(rem))
	} else {
		format.PutI32(data, off, -int32(size))
		total = size
	}

	clear(data[off+format.CellHeaderSize : off+total])
	return Handle(off + format.CellHeaderSize)
}

// grow extends the segment so that a cell of total bytes fits at its end.
// tail is the offset of a trailing free cell to merge with, or -1.
func (s *Segment) grow(total, tail int) error {
	end := s.heapEnd()
	avail := 0
	if tail >= 0 {
		avail = int(format.ReadI32(s.mem.Bytes(), tail))
	}

	want := format.AlignGrow(end + total - avail)
	if want > s.maxSize {
		want = s.maxSize
	}
	if want <= end || avail+want-end < total {
		return fmt.Errorf("%w: size=%d max=%d need=%d", ErrNoSpace, end, s.maxSize, total)
	}

	if err := s.mem.Grow(want); err != nil {
		return fmt.Errorf("segment: grow to %d: %w", want, err)
	}
	s.gen++
	s.stats.grows++

	data := s.mem.Bytes()
	if tail >= 0 {
		format.PutI32(data, tail, int32(avail+want-end))
	} else {
		format.PutI32(data, end, int32(want-end))
	}
	s.setHeapEnd(want)

	logger.Debug("segment grown", "selector", s.Selector(), "from", end, "to", want)
	return nil
}

func poisonHeader(data []byte, off int) {
	for i := range format.CellHeaderSize {
		data[off+i] = memory.PoisonByte
	}
}

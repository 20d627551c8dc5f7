package segment

import (
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/atomkit/internal/format"
)

// Stats is a snapshot of segment occupancy and allocator activity.
type Stats struct {
	Size        int // Current segment size in bytes
	Cells       int // Total cells
	UsedCells   int // Allocated cells
	FreeCells   int // Free cells
	UsedBytes   int // Bytes in allocated cells, headers included
	FreeBytes   int // Bytes in free cells, headers included
	LargestFree int // Largest free cell, header included

	Allocs      int // Alloc calls
	Frees       int // Free calls
	Grows       int // Times the segment grew
	Relocations int // Times the backing memory was moved without growing
}

// Stats walks the segment and returns occupancy plus call counters. A closed
// segment reports only the counters.
func (s *Segment) Stats() Stats {
	st := Stats{
		Size:        s.mem.Len(),
		Allocs:      s.stats.allocs,
		Frees:       s.stats.frees,
		Grows:       s.stats.grows,
		Relocations: s.stats.relocations,
	}
	it := s.Cells()
	for {
		c, err := it.Next()
		if err != nil {
			break
		}
		st.Cells++
		if c.Free {
			st.FreeCells++
			st.FreeBytes += c.Size
			st.LargestFree = max(st.LargestFree, c.Size)
		} else {
			st.UsedCells++
			st.UsedBytes += c.Size
		}
	}
	return st
}

// Validate checks the instance header and that cells tile the heap exactly
// with no two adjacent free cells.
func (s *Segment) Validate() error {
	if s.Closed() {
		return ErrClosed
	}
	data := s.mem.Bytes()
	if len(data) < format.SegmentHeaderSize {
		return fmt.Errorf("%w: segment shorter than header", ErrCorrupt)
	}
	if string(data[:len(format.SegmentSignature)]) != string(format.SegmentSignature) {
		return fmt.Errorf("%w: %w", ErrCorrupt, format.ErrSignatureMismatch)
	}
	if s.Selector() == 0 {
		return fmt.Errorf("%w: zero selector", ErrCorrupt)
	}
	if s.heapStart() != format.SegmentHeaderSize {
		return fmt.Errorf("%w: heap start 0x%x", ErrCorrupt, s.heapStart())
	}
	if s.heapEnd() != len(data) {
		return fmt.Errorf("%w: heap end 0x%x, size 0x%x", ErrCorrupt, s.heapEnd(), len(data))
	}

	it := s.Cells()
	pos := s.heapStart()
	prevFree := false
	for {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if c.Offset != pos {
			return fmt.Errorf("%w: gap at 0x%x", ErrCorrupt, pos)
		}
		if c.Free && prevFree {
			return fmt.Errorf("%w: uncoalesced free cells at 0x%x", ErrCorrupt, c.Offset)
		}
		prevFree = c.Free
		pos += c.Size
	}
	if pos != s.heapEnd() {
		return fmt.Errorf("%w: cells end at 0x%x, heap ends at 0x%x", ErrCorrupt, pos, s.heapEnd())
	}
	return nil
}

package segment

import (
	"io"

	"github.com/joshuapare/atomkit/internal/format"
)

// CellIterator walks the cells of a segment in address order. The segment must
// not be mutated while iterating.
type CellIterator struct {
	s    *Segment
	off  int
	done bool
}

// Cells returns an iterator positioned at the first cell.
func (s *Segment) Cells() *CellIterator {
	return &CellIterator{
		s:   s,
		off: s.heapStart(),
	}
}

// Next returns the next cell, or io.EOF after the last one. A malformed cell
// ends iteration with an error.
func (it *CellIterator) Next() (format.Cell, error) {
	if it.done {
		return format.Cell{}, io.EOF
	}

	end := it.s.heapEnd()
	if it.off >= end {
		it.done = true
		return format.Cell{}, io.EOF
	}

	cell, next, err := format.NextCell(it.s.mem.Bytes(), it.off, end)
	if err != nil {
		it.done = true
		return format.Cell{}, err
	}
	it.off = next
	return cell, nil
}

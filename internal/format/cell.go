package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/atomkit/internal/buf"
)

// Cell represents a single allocation (free or in-use) within a segment.
//
// Cell header layout (little-endian):
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. Handles point here.
type Cell struct {
	Offset int    // Offset of the size header within the segment
	Size   int    // Total size including header
	Free   bool   // True when the cell is marked as free
	Data   []byte // Payload bytes (alias of underlying buffer)
}

// Handle returns the payload offset, which is what the arena hands out.
func (c Cell) Handle() int { return c.Offset + CellHeaderSize }

// NextCell decodes the cell at off and returns it together with the offset of
// the following cell. end bounds the cell area (exclusive).
func NextCell(b []byte, off, end int) (Cell, int, error) {
	if end > len(b) {
		end = len(b)
	}
	if off < SegmentHeaderSize || off+CellHeaderSize > end {
		return Cell{}, 0, fmt.Errorf("cell: offset %d: %w", off, ErrTruncated)
	}
	raw := buf.I32LE(b[off:])
	if raw == 0 {
		return Cell{}, 0, errors.New("cell: zero length")
	}
	allocated := raw < 0
	size := int(raw)
	if allocated {
		size = -size
	}
	if size < MinCellSize || size&CellAlignmentMask != 0 {
		return Cell{}, 0, fmt.Errorf("cell: bad declared size %d at %d", size, off)
	}
	next := off + size
	if next > end {
		return Cell{}, 0, fmt.Errorf("cell: %w", ErrTruncated)
	}
	return Cell{
		Offset: off,
		Size:   size,
		Free:   !allocated,
		Data:   b[off+CellHeaderSize : next],
	}, next, nil
}

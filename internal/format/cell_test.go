package format

import (
	"encoding/binary"
	"testing"
)

func TestNextCellAllocated(t *testing.T) {
	buf := make([]byte, 0x100)
	cellOff := SegmentHeaderSize
	size := 0x30
	binary.LittleEndian.PutUint32(buf[cellOff:], uint32(-size))
	buf[cellOff+4] = 'a'

	cell, next, err := NextCell(buf, cellOff, len(buf))
	if err != nil {
		t.Fatalf("NextCell: %v", err)
	}
	if cell.Free {
		t.Fatalf("expected allocated cell")
	}
	if cell.Size != size || cell.Data[0] != 'a' {
		t.Fatalf("unexpected cell: %+v", cell)
	}
	if cell.Handle() != cellOff+CellHeaderSize {
		t.Fatalf("handle mismatch: %d", cell.Handle())
	}
	if next != cellOff+size {
		t.Fatalf("next offset mismatch: %d", next)
	}
}

func TestNextCellFree(t *testing.T) {
	buf := make([]byte, 0x100)
	cellOff := SegmentHeaderSize
	binary.LittleEndian.PutUint32(buf[cellOff:], 0x20)

	cell, _, err := NextCell(buf, cellOff, len(buf))
	if err != nil {
		t.Fatalf("NextCell: %v", err)
	}
	if !cell.Free {
		t.Fatalf("expected free cell")
	}
}

func TestNextCellErrors(t *testing.T) {
	buf := make([]byte, 0x40)

	if _, _, err := NextCell(buf, 0, len(buf)); err == nil {
		t.Fatalf("expected error for offset inside segment header")
	}
	if _, _, err := NextCell(buf, SegmentHeaderSize, len(buf)); err == nil {
		t.Fatalf("expected error for zero length cell")
	}

	binary.LittleEndian.PutUint32(buf[SegmentHeaderSize:], 6)
	if _, _, err := NextCell(buf, SegmentHeaderSize, len(buf)); err == nil {
		t.Fatalf("expected error for undersized cell")
	}

	binary.LittleEndian.PutUint32(buf[SegmentHeaderSize:], 0x80)
	if _, _, err := NextCell(buf, SegmentHeaderSize, len(buf)); err == nil {
		t.Fatalf("expected error for cell past end")
	}
}

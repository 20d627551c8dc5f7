// Package format houses the byte layouts shared by the segment arena and the
// atom table. Everything here is plain offsets and little-endian helpers so the
// higher-level packages never hard-code a field position.
package format

// SegmentSignature is the four-byte signature at the start of every segment.
// Layout:
//
//	0x00  'S' 'G' 'M' 'T'
var SegmentSignature = []byte{'S', 'G', 'M', 'T'}

// ============================================================================
// Segment Instance Header
// ============================================================================
// The first SegmentHeaderSize bytes of a segment hold per-segment instance
// data. Offset 0 is never handed out as a cell handle, so a zero handle always
// means "none".
const (
	SegSignatureOffset = 0x00 // 4 bytes, "SGMT"
	SegSelectorOffset  = 0x04 // u16, segment selector
	SegAtomTableOffset = 0x06 // u16, handle of the atom table (0 = none)
	SegHeapStartOffset = 0x08 // u16, offset of the first cell
	SegHeapEndOffset   = 0x0A // u16, offset one past the last cell (0 means 0x10000)
	SegReservedOffset  = 0x0C // 4 bytes, always zero

	SegmentHeaderSize = 0x10

	// MaxSegmentSize is the largest addressable segment. Handles are 16-bit.
	MaxSegmentSize = 0x10000

	// DefaultSegmentSize is the initial size of a new segment before growth.
	DefaultSegmentSize = 0x1000

	// SegmentGrowStep is the granularity the arena grows by.
	SegmentGrowStep = 0x400
)

// ============================================================================
// Cells
// ============================================================================
const (
	// CellHeaderSize is the number of bytes used by the signed size field
	// preceding every cell (free or in use).
	CellHeaderSize = 4

	// CellAlignment is the required alignment of cells and their payloads.
	// String atoms drop the two low bits of a handle, so this must stay 4.
	CellAlignment = 4

	// CellAlignmentMask is CellAlignment - 1.
	CellAlignmentMask = CellAlignment - 1

	// MinCellSize is the smallest legal cell including its header.
	MinCellSize = 8
)

// ============================================================================
// Atom Table
// ============================================================================
// Table payload:
//
//	Offset  Size      Description
//	0x00    2         Bucket count (immutable, 0 = invalid table)
//	0x02    2*count   Bucket heads, handle of the first entry (0 = empty)
const (
	TableSizeOffset    = 0x00
	TableEntriesOffset = 0x02
	TableBucketSize    = 2

	// DefaultTableSize is the bucket count used when the caller passes 0.
	DefaultTableSize = 37
)

// ============================================================================
// Atom Entry
// ============================================================================
// Entry payload:
//
//	Offset  Size  Description
//	0x00    2     Handle of the next entry in the bucket chain (0 = end)
//	0x02    2     Reference count
//	0x04    1     String length (0-255)
//	0x05    ...   String bytes, NUL padded to the end of the payload
const (
	EntryNextOffset     = 0x00
	EntryRefCountOffset = 0x02
	EntryLengthOffset   = 0x04
	EntryStringOffset   = 0x05

	// EntryHeaderSize counts one terminator byte on top of the fixed fields,
	// so a padded entry always carries at least one trailing NUL.
	EntryHeaderSize = EntryStringOffset + 1

	// MaxAtomLen is the longest string an entry stores. Longer input is clamped.
	MaxAtomLen = 255
)

// ============================================================================
// Atom Values
// ============================================================================
const (
	// MinStrAtom is the first atom value that denotes a string entry. Every
	// value below it is an integer atom.
	MinStrAtom = 0xC000

	// MaxIntAtom is the largest integer atom.
	MaxIntAtom = MinStrAtom - 1

	// AtomHandleShift converts between entry handles and atom values.
	AtomHandleShift = 2
)

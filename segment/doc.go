// Package segment implements a handle-addressed arena: a single byte region of
// at most 64 KiB holding a small instance header followed by variable-size
// cells.
//
// # Handles
//
// Alloc returns a Handle, the 16-bit offset of a cell's payload. Handles are
// stable for the life of the cell. Byte slices are not: any Alloc may grow or
// relocate the backing memory, so a slice returned by Resolve or Bytes must be
// treated as invalid after the next Alloc, Relocate or Close. Keep handles
// across calls and re-resolve afterwards.
//
//	h, err := seg.Alloc(12)
//	if err != nil {
//	    return err
//	}
//	p, _ := seg.Resolve(h) // valid until the next Alloc
//	copy(p, "hello")
//
// # Layout
//
//	0x0000  instance header (format.SegmentHeaderSize bytes)
//	0x0010  cell, cell, cell, ...  up to the segment size
//
// Each cell starts with a signed 4-byte size: negative when allocated,
// positive when free. Cell sizes are 4-byte aligned so every handle has its two
// low bits clear.
//
// # Allocation
//
// Alloc does a first-fit walk, splitting the chosen cell when the remainder is
// at least format.MinCellSize bytes. When nothing fits the segment grows in
// format.SegmentGrowStep increments up to Options.MaxSize, merging the new space
// with a trailing free cell. Free coalesces with both neighbours.
//
// Options.RelocateEveryAlloc moves the backing to fresh memory on every Alloc.
// Tests use it to prove that callers never keep a view across an allocation.
//
// # Thread Safety
//
// Segments are not thread-safe.
package segment

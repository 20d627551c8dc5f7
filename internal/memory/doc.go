// Package memory provides the relocatable backing stores behind a segment.
//
// A Backing owns one contiguous byte region. Grow and Relocate are allowed to
// move that region, so any slice obtained from Bytes is only valid until the
// next Grow, Relocate or Close. Callers keep offsets, never slices.
//
// Implementations:
//
//   - Heap: a Go byte slice, reallocated on growth
//   - Mapped: an anonymous private mapping (unix), remapped on growth.
//     Non-unix builds return a Heap from NewMapped.
//
// Relocation poisons the region it leaves behind when the old memory is still
// addressable (Heap), so stale views read PoisonByte instead of plausible data.
package memory

// Package buf contains helpers for bounds-checked, endian-safe decoding of
// segment bytes. None of these helpers panic on short input.
package buf

import "encoding/binary"

// I32LE reads a little-endian int32 from b. Returns 0 when b is too short.
func I32LE(b []byte) int32 {
	if len(b) < 4 {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// Package wide converts between NUL-terminated UTF-16 strings and the narrow
// Windows-1252 bytes stored in atom tables.
package wide

import (
	"unicode/utf16"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// MaxNarrow is the longest narrow string Narrow produces.
const MaxNarrow = 255

// Len returns the number of UTF-16 units before the first NUL.
func Len(w []uint16) int {
	for i, u := range w {
		if u == 0 {
			return i
		}
	}
	return len(w)
}

// Narrow converts w up to its first NUL into Windows-1252. Characters the code
// page cannot represent become its substitute byte. The result is clamped to MaxNarrow bytes.
func Narrow(w []uint16) []byte {
	s := string(utf16.Decode(w[:Len(w)]))
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, _, err := transform.Bytes(enc, []byte(s))
	if err != nil {
		out = []byte(s)
	}
	if len(out) > MaxNarrow {
		out = out[:MaxNarrow]
	}
	return out
}

// Widen converts Windows-1252 bytes up to the first NUL into UTF-16, without a
// terminator.
func Widen(b []byte) []uint16 {
	for i, c := range b {
		if c == 0 {
			b = b[:i]
			break
		}
	}
	s, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		s = b
	}
	return utf16.Encode([]rune(string(s)))
}

// Copy widens src into dst, writing at most len(dst)-1 units and a NUL. It
// returns the number of units before the terminator. A zero-length dst is left
// untouched.
func Copy(dst []uint16, src []byte) int {
	if len(dst) == 0 {
		return 0
	}
	w := Widen(src)
	n := min(len(w), len(dst)-1)
	copy(dst, w[:n])
	dst[n] = 0
	return n
}

// FromString returns s as a NUL-terminated UTF-16 string.
func FromString(s string) []uint16 {
	return append(utf16.Encode([]rune(s)), 0)
}

// ToString decodes w up to its first NUL.
func ToString(w []uint16) string {
	return string(utf16.Decode(w[:Len(w)]))
}

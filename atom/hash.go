package atom

// Hash returns the bucket index of s in a table with size buckets.
//
// Each byte is upper-cased and offset by its index before being folded in, so
// anagrams rarely collide. Bytes above 0x7F are sign-extended, matching tables
// built with a signed narrow char type. size must be non-zero.
func Hash(size uint16, s []byte) uint16 {
	var h uint16
	for i, b := range s {
		h ^= uint16(int16(int8(upper(b)))) + uint16(i)
	}
	return h % size
}

// upper is toupper in the C locale.
func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// equalFold compares a and b byte by byte with ASCII-only case folding.
func equalFold(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if upper(a[i]) != upper(b[i]) {
			return false
		}
	}
	return true
}

package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe returns a+b, or ok = false when the sum does not fit in int.
func AddOverflowSafe(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}

// MulOverflowSafe returns a*b, or ok = false when the product does not fit in
// int. Segment-derived counts are small, but the bucket count is read from
// memory that may be corrupt.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	return p, true
}

// CheckListBounds reports the end offset of count elements of elementSize
// bytes starting at offset, failing when any step overflows or the list runs
// past bufLen.
//
// The atom table checks its bucket array this way before walking chains:
//
//	_, err := buf.CheckListBounds(len(payload), format.TableEntriesOffset, int(size), format.TableBucketSize)
func CheckListBounds(bufLen, offset, count, elementSize int) (int, error) {
	switch {
	case offset < 0:
		return 0, fmt.Errorf("negative offset: %d", offset)
	case count < 0:
		return 0, fmt.Errorf("negative count: %d", count)
	case elementSize < 0:
		return 0, fmt.Errorf("negative element size: %d", elementSize)
	}

	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns b[off:off+n], or ok = false when that range leaves b.
// Segment.Resolve cuts cell payloads with it and entry views cut their
// strings with it.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] lies inside b.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

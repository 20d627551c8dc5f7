package atom

import (
	"fmt"

	"github.com/joshuapare/atomkit/internal/buf"
	"github.com/joshuapare/atomkit/internal/format"
)

// entryView is the payload of an entry cell. Like every segment view it is
// only valid until the next allocation in the segment.
type entryView []byte

func (e entryView) next() uint16     { return format.ReadU16(e, format.EntryNextOffset) }
func (e entryView) refCount() uint16 { return format.ReadU16(e, format.EntryRefCountOffset) }
func (e entryView) length() int      { return int(e[format.EntryLengthOffset]) }

// str returns the stored name. It is nil only for a view checkEntry would
// have rejected.
func (e entryView) str() []byte {
	s, _ := buf.Slice(e, format.EntryStringOffset, e.length())
	return s
}

func (e entryView) setNext(h uint16)     { format.PutU16(e, format.EntryNextOffset, h) }
func (e entryView) setRefCount(n uint16) { format.PutU16(e, format.EntryRefCountOffset, n) }

// init writes a fresh entry. The string area is filled with s and the rest of
// the payload is NUL, so a terminator always follows the string.
func (e entryView) init(next uint16, s []byte) {
	e.setNext(next)
	e.setRefCount(1)
	e[format.EntryLengthOffset] = byte(len(s))
	area := e[format.EntryStringOffset:]
	n := copy(area, s)
	clear(area[n:])
}

// matches reports whether the entry holds s (length and case-insensitive bytes).
func (e entryView) matches(s []byte) bool {
	return e.length() == len(s) && equalFold(e.str(), s)
}

// checkEntry validates an entry payload against its declared length.
func checkEntry(p []byte) (entryView, error) {
	if len(p) < format.EntryHeaderSize {
		return nil, fmt.Errorf("%w: entry payload %d bytes", ErrCorrupt, len(p))
	}
	// The string must be followed by at least one NUL.
	if n := int(p[format.EntryLengthOffset]); !buf.Has(p, format.EntryStringOffset, n+1) {
		return nil, fmt.Errorf("%w: entry length %d exceeds payload %d", ErrCorrupt, n, len(p))
	}
	return entryView(p), nil
}

package atom

import (
	"fmt"

	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/segment"
)

// Atom identifies an integer value or an interned string.
type Atom uint16

const (
	// MinStrAtom is the first string atom.
	MinStrAtom Atom = format.MinStrAtom

	// MaxIntAtom is the largest integer atom.
	MaxIntAtom Atom = format.MaxIntAtom
)

// IsInt reports whether a is an integer atom.
func (a Atom) IsInt() bool { return a < MinStrAtom }

// Handle returns the entry handle a string atom refers to, or 0 for an
// integer atom.
func (a Atom) Handle() segment.Handle {
	if a.IsInt() {
		return 0
	}
	return segment.Handle(uint16(a) << format.AtomHandleShift)
}

// FromHandle returns the string atom for an entry handle. h must be 4-byte
// aligned.
func FromHandle(h segment.Handle) Atom {
	return Atom(format.MinStrAtom | (h >> format.AtomHandleShift))
}

// String renders integer atoms as "#n" and string atoms in hex.
func (a Atom) String() string {
	if a.IsInt() {
		return fmt.Sprintf("#%d", uint16(a))
	}
	return fmt.Sprintf("0x%04X", uint16(a))
}

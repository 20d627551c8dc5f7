package atom

import (
	"strconv"

	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/logger"
)

// Name is the argument to Add and Find: either a string or a raw small
// integer passed in place of a string.
type Name struct {
	s     string
	id    uint16
	isInt bool
}

// Str returns a string name.
func Str(s string) Name { return Name{s: s} }

// Bytes returns a string name from raw narrow bytes.
func Bytes(b []byte) Name { return Name{s: string(b)} }

// MakeIntAtom returns a name that is the integer atom id itself.
func MakeIntAtom(id uint16) Name { return Name{id: id, isInt: true} }

// String returns the name text, or "#id" for raw integers.
func (n Name) String() string {
	if n.isInt {
		return "#" + strconv.Itoa(int(n.id))
	}
	return n.s
}

// IntAtom reports whether n denotes an integer atom. Raw integers always do;
// an error is returned when the value is not below MinStrAtom. Strings do when
// they are '#' followed only by decimal digits with a value in 1..MaxIntAtom.
// A '#' string that fails to parse is logged and treated as an ordinary string.
func (n Name) IntAtom() (Atom, bool, error) {
	if n.isInt {
		if Atom(n.id) >= MinStrAtom {
			return 0, true, ErrInvalidAtom
		}
		return Atom(n.id), true, nil
	}
	a, ok := parseIntAtom(n.s)
	return a, ok, nil
}

// key returns the bytes stored for a string name, clamped to MaxAtomLen.
func (n Name) key() []byte {
	s := n.s
	if len(s) > format.MaxAtomLen {
		s = s[:format.MaxAtomLen]
	}
	return []byte(s)
}

func parseIntAtom(s string) (Atom, bool) {
	if len(s) == 0 || s[0] != '#' {
		return 0, false
	}
	digits := s[1:]
	if digits == "" {
		logger.Warn("found atom named like an integer atom", "name", s)
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			logger.Warn("found atom named like an integer atom", "name", s)
			return 0, false
		}
	}
	v, err := strconv.ParseUint(digits, 10, 16)
	if err != nil || v == 0 || v > format.MaxIntAtom {
		logger.Warn("integer atom out of range", "name", s)
		return 0, false
	}
	return Atom(v), true
}

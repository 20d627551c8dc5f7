package atom

import "errors"

var (
	// ErrNoMemory indicates the segment could not allocate a table or entry.
	ErrNoMemory = errors.New("atom: out of memory")

	// ErrNotFound indicates the name or atom has no live entry.
	ErrNotFound = errors.New("atom: not found")

	// ErrNoTable indicates the segment has no valid atom table.
	ErrNoTable = errors.New("atom: no atom table")

	// ErrInvalidAtom indicates a raw integer atom at or above 0xC000.
	ErrInvalidAtom = errors.New("atom: invalid integer atom")

	// ErrCorrupt indicates a table or entry that failed a consistency check.
	ErrCorrupt = errors.New("atom: corrupt table")

	// ErrShortBuffer indicates a zero-capacity name buffer.
	ErrShortBuffer = errors.New("atom: buffer has no room for a terminator")
)

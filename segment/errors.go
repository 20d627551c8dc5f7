package segment

import "errors"

var (
	// ErrNoSpace indicates that no free cell was large enough and the segment
	// could not grow further.
	ErrNoSpace = errors.New("segment: no free cell large enough")

	// ErrBadHandle indicates a handle that does not address a cell payload.
	ErrBadHandle = errors.New("segment: bad handle")

	// ErrNotAllocated indicates a handle whose cell is free.
	ErrNotAllocated = errors.New("segment: cell not allocated")

	// ErrNeedSmall indicates a non-positive allocation request.
	ErrNeedSmall = errors.New("segment: need must be positive")

	// ErrBadSelector indicates a zero selector.
	ErrBadSelector = errors.New("segment: selector must be non-zero")

	// ErrCorrupt indicates the header or cell chain failed validation.
	ErrCorrupt = errors.New("segment: corrupt")

	// ErrClosed indicates use of a closed segment.
	ErrClosed = errors.New("segment: closed")
)

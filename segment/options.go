package segment

import (
	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/memory"
)

// Options configures a segment.
type Options struct {
	// Backing selects heap or mmap storage.
	Backing memory.Kind

	// InitialSize is the starting segment size, rounded up to
	// format.SegmentGrowStep. Zero means format.DefaultSegmentSize.
	InitialSize int

	// MaxSize caps growth. Zero or anything above format.MaxSegmentSize
	// means format.MaxSegmentSize.
	MaxSize int

	// RelocateEveryAlloc moves the backing memory on every Alloc.
	RelocateEveryAlloc bool
}

// DefaultOptions returns heap-backed options with default sizing.
func DefaultOptions() Options {
	return Options{
		Backing:     memory.KindHeap,
		InitialSize: format.DefaultSegmentSize,
		MaxSize:     format.MaxSegmentSize,
	}
}

// normalize clamps sizes to grow-step multiples within the addressable range.
func (o Options) normalize() Options {
	if o.MaxSize <= 0 || o.MaxSize > format.MaxSegmentSize {
		o.MaxSize = format.MaxSegmentSize
	}
	o.MaxSize &^= format.SegmentGrowStep - 1
	if o.MaxSize < format.SegmentGrowStep {
		o.MaxSize = format.SegmentGrowStep
	}
	if o.InitialSize <= 0 {
		o.InitialSize = format.DefaultSegmentSize
	}
	o.InitialSize = format.AlignGrow(o.InitialSize)
	if o.InitialSize > o.MaxSize {
		o.InitialSize = o.MaxSize
	}
	return o
}

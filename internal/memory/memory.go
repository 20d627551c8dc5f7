package memory

import (
	"errors"
	"fmt"
	"strings"
)

// PoisonByte is written over memory a Heap backing has moved away from.
const PoisonByte = 0xDD

var (
	// ErrClosed indicates use of a backing after Close.
	ErrClosed = errors.New("memory: backing closed")

	// ErrBadSize indicates a non-positive size request.
	ErrBadSize = errors.New("memory: size must be positive")
)

// Backing is a contiguous, relocatable byte region.
type Backing interface {
	// Bytes returns the current region. The slice is invalid after Grow,
	// Relocate or Close.
	Bytes() []byte

	// Len returns the current region size.
	Len() int

	// Grow enlarges the region to at least size bytes, preserving contents.
	// New bytes are zero. The region may move.
	Grow(size int) error

	// Relocate moves the region to fresh memory, preserving contents.
	Relocate() error

	// Close releases the region.
	Close() error
}

// Kind selects a Backing implementation.
type Kind uint8

const (
	KindHeap Kind = iota
	KindMapped
)

// String returns the config spelling of k.
func (k Kind) String() string {
	switch k {
	case KindHeap:
		return "heap"
	case KindMapped:
		return "mmap"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind parses "heap" or "mmap" (case-insensitive). Empty means heap.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "heap":
		return KindHeap, nil
	case "mmap", "mapped":
		return KindMapped, nil
	default:
		return 0, fmt.Errorf("memory: unknown backing kind %q", s)
	}
}

// New creates a backing of the given kind and size.
func New(kind Kind, size int) (Backing, error) {
	switch kind {
	case KindHeap:
		return NewHeap(size)
	case KindMapped:
		return NewMapped(size)
	default:
		return nil, fmt.Errorf("memory: unknown backing kind %d", kind)
	}
}

func poison(b []byte) {
	for i := range b {
		b[i] = PoisonByte
	}
}

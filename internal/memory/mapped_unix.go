//go:build unix

package memory

import (
	"errors"

	"golang.org/x/sys/unix"
)

// Mapped is a Backing stored in an anonymous private mapping. Growing or
// relocating maps a new region and unmaps the old one, so stale views fault
// instead of silently reading old data.
type Mapped struct {
	data []byte
}

// NewMapped maps a zeroed anonymous region of size bytes.
func NewMapped(size int) (Backing, error) {
	if size <= 0 {
		return nil, ErrBadSize
	}
	data, err := mapAnon(size)
	if err != nil {
		return nil, err
	}
	return &Mapped{data: data}, nil
}

func mapAnon(size int) ([]byte, error) {
	prot := unix.PROT_READ | unix.PROT_WRITE
	flags := unix.MAP_ANON | unix.MAP_PRIVATE
	return unix.Mmap(-1, 0, size, prot, flags)
}

func (m *Mapped) Bytes() []byte { return m.data }

func (m *Mapped) Len() int { return len(m.data) }

func (m *Mapped) Grow(size int) error {
	if m.data == nil {
		return ErrClosed
	}
	if size <= len(m.data) {
		return nil
	}
	return m.remap(size)
}

func (m *Mapped) Relocate() error {
	if m.data == nil {
		return ErrClosed
	}
	return m.remap(len(m.data))
}

func (m *Mapped) remap(size int) error {
	next, err := mapAnon(size)
	if err != nil {
		return err
	}
	copy(next, m.data)
	old := m.data
	m.data = next
	return unix.Munmap(old)
}

func (m *Mapped) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}

var _ Backing = (*Mapped)(nil)

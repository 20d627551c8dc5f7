package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/memory"
)

// newTestSegment creates a segment and registers cleanup.
func newTestSegment(t testing.TB, opts *Options) *Segment {
	t.Helper()
	s, err := New(1, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// variants returns the option sets every allocator test runs against.
func variants() map[string]*Options {
	heap := DefaultOptions()
	mapped := DefaultOptions()
	mapped.Backing = memory.KindMapped
	reloc := DefaultOptions()
	reloc.RelocateEveryAlloc = true
	return map[string]*Options{"heap": &heap, "mmap": &mapped, "relocate": &reloc}
}

func TestNew_Header(t *testing.T) {
	s, err := New(0x1234, nil)
	require.NoError(t, err)
	defer s.Close()

	data := s.Bytes()
	assert.Equal(t, "SGMT", string(data[:4]))
	assert.Equal(t, uint16(0x1234), s.Selector())
	assert.Zero(t, s.AtomTable())
	assert.Equal(t, format.DefaultSegmentSize, s.Size())
	require.NoError(t, s.Validate())

	st := s.Stats()
	assert.Equal(t, 1, st.Cells)
	assert.Equal(t, 1, st.FreeCells)
	assert.Equal(t, format.DefaultSegmentSize-format.SegmentHeaderSize, st.FreeBytes)
}

func TestNew_ZeroSelector(t *testing.T) {
	_, err := New(0, nil)
	require.ErrorIs(t, err, ErrBadSelector)
}

func TestSetAtomTable(t *testing.T) {
	s := newTestSegment(t, nil)
	s.SetAtomTable(0x40)
	assert.Equal(t, Handle(0x40), s.AtomTable())
}

func TestOptions_Normalize(t *testing.T) {
	o := Options{InitialSize: 1, MaxSize: 0x20000}.normalize()
	assert.Equal(t, format.SegmentGrowStep, o.InitialSize)
	assert.Equal(t, format.MaxSegmentSize, o.MaxSize)

	o = Options{InitialSize: 0x3000, MaxSize: 0x1801}.normalize()
	assert.Equal(t, 0x1800, o.MaxSize)
	assert.Equal(t, 0x1800, o.InitialSize)
}

func TestAlloc_Basic(t *testing.T) {
	for name, opts := range variants() {
		t.Run(name, func(t *testing.T) {
			s := newTestSegment(t, opts)

			h, err := s.Alloc(10)
			require.NoError(t, err)
			require.NotZero(t, h)
			assert.Zero(t, h&3, "handles are 4-byte aligned")

			p, err := s.Resolve(h)
			require.NoError(t, err)
			assert.Len(t, p, 12, "payload is rounded up to alignment")
			for _, b := range p {
				assert.Zero(t, b)
			}
			require.NoError(t, s.Validate())
		})
	}
}

func TestAlloc_DistinctHandles(t *testing.T) {
	for name, opts := range variants() {
		t.Run(name, func(t *testing.T) {
			s := newTestSegment(t, opts)
			seen := map[Handle]bool{}
			for i := range 50 {
				h, err := s.Alloc(8 + i)
				require.NoError(t, err)
				require.False(t, seen[h], "duplicate handle 0x%x", h)
				seen[h] = true

				p, err := s.Resolve(h)
				require.NoError(t, err)
				p[0] = byte(i)
			}
			// Contents survive every grow and relocation.
			i := 0
			it := s.Cells()
			for {
				c, err := it.Next()
				if err != nil {
					break
				}
				if !c.Free {
					assert.Equal(t, byte(i), c.Data[0])
					i++
				}
			}
			assert.Equal(t, 50, i)
			require.NoError(t, s.Validate())
		})
	}
}

func TestAlloc_NeedSmall(t *testing.T) {
	s := newTestSegment(t, nil)
	_, err := s.Alloc(0)
	require.ErrorIs(t, err, ErrNeedSmall)
}

func TestAlloc_GrowsAndRelocates(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialSize = format.SegmentGrowStep
	s := newTestSegment(t, &opts)

	gen := s.Generation()
	h, err := s.Alloc(2000)
	require.NoError(t, err)
	assert.Greater(t, s.Size(), format.SegmentGrowStep)
	assert.Greater(t, s.Generation(), gen)
	assert.Equal(t, 1, s.Stats().Grows)

	_, err = s.Resolve(h)
	require.NoError(t, err)
	require.NoError(t, s.Validate())
}

func TestAlloc_GrowMergesTrailingFree(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialSize = format.SegmentGrowStep
	s := newTestSegment(t, &opts)

	// Leaves a trailing free cell smaller than the next request.
	_, err := s.Alloc(format.SegmentGrowStep - format.SegmentHeaderSize - 200)
	require.NoError(t, err)
	_, err = s.Alloc(400)
	require.NoError(t, err)

	assert.Equal(t, 2*format.SegmentGrowStep, s.Size(), "trailing free space is reused")
	require.NoError(t, s.Validate())
}

func TestAlloc_NoSpace(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialSize = format.SegmentGrowStep
	opts.MaxSize = 2 * format.SegmentGrowStep
	s := newTestSegment(t, &opts)

	_, err := s.Alloc(3 * format.SegmentGrowStep)
	require.ErrorIs(t, err, ErrNoSpace)

	for {
		if _, err = s.Alloc(100); err != nil {
			break
		}
	}
	require.ErrorIs(t, err, ErrNoSpace)
	assert.Equal(t, 2*format.SegmentGrowStep, s.Size())
	require.NoError(t, s.Validate())
}

func TestAlloc_FullSegmentHandles(t *testing.T) {
	s := newTestSegment(t, nil)
	var last Handle
	for {
		h, err := s.Alloc(252)
		if err != nil {
			require.ErrorIs(t, err, ErrNoSpace)
			break
		}
		last = h
	}
	assert.Equal(t, format.MaxSegmentSize, s.Size())
	assert.Greater(t, int(last), 0xF000, "handles reach the top of the segment")
	require.NoError(t, s.Validate())
}

func TestFree_ReuseAndCoalesce(t *testing.T) {
	for name, opts := range variants() {
		t.Run(name, func(t *testing.T) {
			s := newTestSegment(t, opts)

			a, err := s.Alloc(16)
			require.NoError(t, err)
			b, err := s.Alloc(16)
			require.NoError(t, err)
			c, err := s.Alloc(16)
			require.NoError(t, err)

			require.NoError(t, s.Free(a))
			require.NoError(t, s.Free(c))
			require.NoError(t, s.Validate())
			require.NoError(t, s.Free(b))
			require.NoError(t, s.Validate())

			st := s.Stats()
			assert.Equal(t, 1, st.Cells, "everything coalesces back into one free cell")
			assert.Equal(t, 0, st.UsedCells)

			again, err := s.Alloc(16)
			require.NoError(t, err)
			assert.Equal(t, a, again, "first fit reuses the lowest cell")
		})
	}
}

func TestFree_Errors(t *testing.T) {
	s := newTestSegment(t, nil)
	h, err := s.Alloc(32)
	require.NoError(t, err)

	require.ErrorIs(t, s.Free(0), ErrBadHandle)
	require.ErrorIs(t, s.Free(h+2), ErrBadHandle)
	require.ErrorIs(t, s.Free(0xFFFC), ErrBadHandle)

	require.NoError(t, s.Free(h))
	require.ErrorIs(t, s.Free(h), ErrNotAllocated)
}

func TestFree_RejectsInteriorHandle(t *testing.T) {
	s := newTestSegment(t, nil)
	h, err := s.Alloc(64)
	require.NoError(t, err)

	// Forge an allocated-looking header inside the payload.
	p, err := s.Resolve(h)
	require.NoError(t, err)
	format.PutI32(p, 8, -8)

	require.ErrorIs(t, s.Free(h+12), ErrBadHandle)
	require.NoError(t, s.Validate())
}

func TestFree_PoisonsPayload(t *testing.T) {
	s := newTestSegment(t, nil)
	h, err := s.Alloc(8)
	require.NoError(t, err)
	_, err = s.Alloc(8) // keeps h from merging into the trailing free cell
	require.NoError(t, err)

	require.NoError(t, s.Free(h))
	assert.Equal(t, byte(memory.PoisonByte), s.Bytes()[int(h)])
}

func TestResolve_Errors(t *testing.T) {
	s := newTestSegment(t, nil)
	_, err := s.Resolve(0)
	require.ErrorIs(t, err, ErrBadHandle)
	_, err = s.Resolve(format.SegmentHeaderSize + format.CellHeaderSize)
	require.ErrorIs(t, err, ErrNotAllocated)
}

func TestRelocate_StaleViewDiffers(t *testing.T) {
	s := newTestSegment(t, nil)
	h, err := s.Alloc(4)
	require.NoError(t, err)
	p, err := s.Resolve(h)
	require.NoError(t, err)
	copy(p, "keep")

	require.NoError(t, s.Relocate())
	assert.Equal(t, byte(memory.PoisonByte), p[0], "old view is poisoned")

	fresh, err := s.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(fresh[:4]))
	assert.Equal(t, 1, s.Stats().Relocations)
}

func TestRelocateEveryAlloc_Generation(t *testing.T) {
	opts := DefaultOptions()
	opts.RelocateEveryAlloc = true
	s := newTestSegment(t, &opts)

	for i := range 5 {
		_, err := s.Alloc(8)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), s.Generation())
	}
}

func TestClose(t *testing.T) {
	s, err := New(1, nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = s.Alloc(8)
	require.ErrorIs(t, err, ErrClosed)
	_, err = s.Resolve(0x14)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, s.Free(0x14), ErrClosed)
	require.ErrorIs(t, s.Relocate(), ErrClosed)
	require.ErrorIs(t, s.Validate(), ErrClosed)

	assert.True(t, s.Closed())
	assert.Zero(t, s.Selector())
	assert.Zero(t, s.AtomTable())
	s.SetAtomTable(0x14)
	assert.Zero(t, s.AtomTable())

	st := s.Stats()
	assert.Zero(t, st.Size)
	assert.Zero(t, st.Cells)
	assert.Equal(t, 1, st.Allocs)
	assert.Equal(t, 1, st.Frees)
}

package atom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/atomkit/internal/memory"
	"github.com/joshuapare/atomkit/segment"
)

// backings returns the segment options every table test runs against.
func backings() map[string]segment.Options {
	heap := segment.DefaultOptions()
	mapped := segment.DefaultOptions()
	mapped.Backing = memory.KindMapped
	reloc := segment.DefaultOptions()
	reloc.RelocateEveryAlloc = true
	return map[string]segment.Options{"heap": heap, "mmap": mapped, "relocate": reloc}
}

func newSegment(t testing.TB, sel uint16, opts segment.Options) *segment.Segment {
	t.Helper()
	seg, err := segment.New(sel, &opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = seg.Close() })
	return seg
}

// newTable returns a fresh registry and a default table in segment 1.
func newTable(t testing.TB, opts segment.Options) (*Registry, *Table) {
	t.Helper()
	reg := NewRegistry()
	tbl, err := reg.InitTable(newSegment(t, 1, opts), 0)
	require.NoError(t, err)
	return reg, tbl
}

func mustAdd(t testing.TB, tbl *Table, s string) Atom {
	t.Helper()
	a, err := tbl.Add(Str(s))
	require.NoError(t, err)
	return a
}

func entries(t testing.TB, tbl *Table) []EntryInfo {
	t.Helper()
	var out []EntryInfo
	require.NoError(t, tbl.Walk(func(e EntryInfo) bool {
		out = append(out, e)
		return true
	}))
	return out
}

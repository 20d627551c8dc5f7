package atom

import (
	"fmt"

	"github.com/joshuapare/atomkit/segment"
)

// EntryInfo is a copy of one table entry.
type EntryInfo struct {
	Atom     Atom
	Handle   segment.Handle
	Bucket   uint16
	Next     segment.Handle
	RefCount uint16
	Name     string
}

// TableStats summarizes a table's shape.
type TableStats struct {
	Buckets      int
	EmptyBuckets int
	Entries      int
	References   int
	LongestChain int
}

// Handle returns the segment handle behind a string atom, or 0 for an
// integer atom.
func Handle(a Atom) segment.Handle { return a.Handle() }

// Entry returns a snapshot of the entry behind a string atom.
func (t *Table) Entry(a Atom) (EntryInfo, error) {
	if a.IsInt() {
		return EntryInfo{}, fmt.Errorf("%w: %s has no entry", ErrNotFound, a)
	}
	_, hash, _, err := t.link(a)
	if err != nil {
		return EntryInfo{}, err
	}
	ev, err := t.entry(a.Handle())
	if err != nil {
		return EntryInfo{}, err
	}
	return snapshot(a.Handle(), hash, ev), nil
}

func snapshot(h segment.Handle, bucket uint16, ev entryView) EntryInfo {
	return EntryInfo{
		Atom:     FromHandle(h),
		Handle:   h,
		Bucket:   bucket,
		Next:     ev.next(),
		RefCount: ev.refCount(),
		Name:     string(ev.str()),
	}
}

// Walk calls fn for every entry, bucket by bucket in chain order. Returning
// false from fn stops the walk. fn must not modify the table.
func (t *Table) Walk(fn func(EntryInfo) bool) error {
	v, err := t.view()
	if err != nil {
		return err
	}
	size := v.size()
	for b := uint16(0); b < size; b++ {
		e, steps := v.head(b), 0
		for e != 0 {
			ev, err := t.entry(e)
			if err != nil {
				return err
			}
			if !fn(snapshot(e, b, ev)) {
				return nil
			}
			if steps++; steps > maxChain {
				return fmt.Errorf("%w: bucket %d loops", ErrCorrupt, b)
			}
			e = ev.next()
		}
	}
	return nil
}

// Stats walks the table and reports its shape.
func (t *Table) Stats() (TableStats, error) {
	n, err := t.Buckets()
	if err != nil {
		return TableStats{}, err
	}
	st := TableStats{Buckets: int(n)}
	chains := make([]int, n)
	err = t.Walk(func(e EntryInfo) bool {
		st.Entries++
		st.References += int(e.RefCount)
		chains[e.Bucket]++
		return true
	})
	if err != nil {
		return TableStats{}, err
	}
	for _, c := range chains {
		if c == 0 {
			st.EmptyBuckets++
		}
		st.LongestChain = max(st.LongestChain, c)
	}
	return st, nil
}

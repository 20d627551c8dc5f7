package atom

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/joshuapare/atomkit/internal/buf"
	"github.com/joshuapare/atomkit/internal/format"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/segment"
)

// maxChain bounds chain walks. A segment cannot hold more entries than this,
// so a longer walk means the chain loops.
const maxChain = format.MaxSegmentSize / format.MinCellSize

// Table is the atom table of one segment. It holds no pointers into segment
// memory; every operation re-resolves the table from the segment header.
type Table struct {
	seg *segment.Segment
}

// tableView is the bucket array payload. Only valid until the next
// allocation in the segment.
type tableView []byte

func (v tableView) size() uint16 { return format.ReadU16(v, format.TableSizeOffset) }

func (v tableView) head(i uint16) segment.Handle {
	return format.ReadU16(v, format.TableEntriesOffset+int(i)*format.TableBucketSize)
}

func (v tableView) setHead(i uint16, h segment.Handle) {
	format.PutU16(v, format.TableEntriesOffset+int(i)*format.TableBucketSize, h)
}

// initTable allocates an empty table of count buckets and records it in the
// segment header.
func initTable(seg *segment.Segment, count uint16) (segment.Handle, error) {
	if count == 0 {
		count = format.DefaultTableSize
	}
	h, err := seg.Alloc(format.TablePayloadSize(int(count)))
	if err != nil {
		return 0, fmt.Errorf("%w: table of %d buckets: %w", ErrNoMemory, count, err)
	}
	p, err := seg.Resolve(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	v := tableView(p)
	format.PutU16(v, format.TableSizeOffset, count)
	for i := uint16(0); i < count; i++ {
		v.setHead(i, 0)
	}
	seg.SetAtomTable(h)

	logger.Debug("atom table initialized", "selector", seg.Selector(), "buckets", count, "handle", h)
	return h, nil
}

// hasTable reports whether seg carries a usable table.
func hasTable(seg *segment.Segment) bool {
	_, err := resolveTable(seg)
	return err == nil
}

func resolveTable(seg *segment.Segment) (tableView, error) {
	if seg.Closed() {
		return nil, fmt.Errorf("%w: %w", ErrNoTable, segment.ErrClosed)
	}
	h := seg.AtomTable()
	if h == 0 {
		return nil, ErrNoTable
	}
	p, err := seg.Resolve(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoTable, err)
	}
	if len(p) < format.TableEntriesOffset {
		return nil, fmt.Errorf("%w: table payload %d bytes", ErrNoTable, len(p))
	}
	v := tableView(p)
	if v.size() == 0 {
		return nil, ErrNoTable
	}
	if _, err := buf.CheckListBounds(len(p), format.TableEntriesOffset, int(v.size()), format.TableBucketSize); err != nil {
		return nil, fmt.Errorf("%w: buckets: %w", ErrCorrupt, err)
	}
	return v, nil
}

// Segment returns the segment that owns the table.
func (t *Table) Segment() *segment.Segment { return t.seg }

// Selector returns the owning segment's selector.
func (t *Table) Selector() uint16 { return t.seg.Selector() }

// Buckets returns the bucket count.
func (t *Table) Buckets() (uint16, error) {
	v, err := resolveTable(t.seg)
	if err != nil {
		return 0, err
	}
	return v.size(), nil
}

func (t *Table) view() (tableView, error) { return resolveTable(t.seg) }

func (t *Table) entry(h segment.Handle) (entryView, error) {
	p, err := t.seg.Resolve(h)
	if err != nil {
		return nil, fmt.Errorf("%w: entry 0x%04x: %w", ErrNotFound, h, err)
	}
	return checkEntry(p)
}

// Add interns name and returns its atom. Integer names return their value
// without touching the table. An equal string (case-insensitive) already in
// the table gains a reference instead of a new entry. Names longer than 255
// bytes are clamped.
func (t *Table) Add(name Name) (Atom, error) {
	if a, ok, err := name.IntAtom(); ok {
		return a, err
	}
	s := name.key()

	v, err := t.view()
	if err != nil {
		return 0, err
	}
	hash := Hash(v.size(), s)

	e, steps := v.head(hash), 0
	for e != 0 {
		ev, err := t.entry(e)
		if err != nil {
			return 0, err
		}
		if ev.matches(s) {
			if rc := ev.refCount(); rc < math.MaxUint16 {
				ev.setRefCount(rc + 1)
			}
			logger.Debug("atom add existing", "selector", t.Selector(), "name", string(s), "handle", e)
			return FromHandle(e), nil
		}
		if steps++; steps > maxChain {
			return 0, fmt.Errorf("%w: bucket %d loops", ErrCorrupt, hash)
		}
		e = ev.next()
	}

	h, err := t.seg.Alloc(format.EntryPayloadSize(len(s)))
	if err != nil {
		return 0, fmt.Errorf("%w: entry for %q: %w", ErrNoMemory, s, err)
	}

	// The allocation may have moved the segment: re-resolve everything.
	if v, err = t.view(); err != nil {
		return 0, err
	}
	p, err := t.seg.Resolve(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	entryView(p).init(v.head(hash), s)
	v.setHead(hash, h)

	logger.Debug("atom add new", "selector", t.Selector(), "name", string(s), "handle", h)
	return FromHandle(h), nil
}

// Find returns the atom for name without changing any reference count.
func (t *Table) Find(name Name) (Atom, error) {
	if a, ok, err := name.IntAtom(); ok {
		return a, err
	}
	s := name.key()

	v, err := t.view()
	if err != nil {
		return 0, err
	}
	hash := Hash(v.size(), s)

	e, steps := v.head(hash), 0
	for e != 0 {
		ev, err := t.entry(e)
		if err != nil {
			return 0, err
		}
		if ev.matches(s) {
			return FromHandle(e), nil
		}
		if steps++; steps > maxChain {
			return 0, fmt.Errorf("%w: bucket %d loops", ErrCorrupt, hash)
		}
		e = ev.next()
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, s)
}

// link locates the entry for a string atom together with its predecessor.
// The bucket is recomputed from the stored string, so hashing must stay a pure
// function of content. prev is 0 when the entry is the bucket head.
func (t *Table) link(a Atom) (v tableView, hash uint16, prev segment.Handle, err error) {
	v, err = t.view()
	if err != nil {
		return nil, 0, 0, err
	}
	h := a.Handle()
	ev, err := t.entry(h)
	if err != nil {
		return nil, 0, 0, err
	}
	hash = Hash(v.size(), ev.str())

	cur, steps := v.head(hash), 0
	for cur != 0 && cur != h {
		pv, err := t.entry(cur)
		if err != nil {
			return nil, 0, 0, err
		}
		if steps++; steps > maxChain {
			return nil, 0, 0, fmt.Errorf("%w: bucket %d loops", ErrCorrupt, hash)
		}
		prev, cur = cur, pv.next()
	}
	if cur == 0 {
		return nil, 0, 0, fmt.Errorf("%w: %s is not in bucket %d", ErrNotFound, a, hash)
	}
	return v, hash, prev, nil
}

// Delete drops one reference to a. The entry is unlinked and its cell freed
// when the count reaches zero. Integer atoms are accepted and ignored. On
// failure the atom is returned unchanged alongside the error; on success the
// returned atom is 0.
func (t *Table) Delete(a Atom) (Atom, error) {
	if a.IsInt() {
		return 0, nil
	}
	v, hash, prev, err := t.link(a)
	if err != nil {
		return a, err
	}
	h := a.Handle()
	ev, err := t.entry(h)
	if err != nil {
		return a, err
	}

	rc := ev.refCount()
	if rc > 1 {
		ev.setRefCount(rc - 1)
		logger.Debug("atom release", "selector", t.Selector(), "atom", a, "refs", rc-1)
		return 0, nil
	}

	if prev == 0 {
		v.setHead(hash, ev.next())
	} else {
		pv, err := t.entry(prev)
		if err != nil {
			return a, err
		}
		pv.setNext(ev.next())
	}
	ev.setRefCount(0)
	if err := t.seg.Free(h); err != nil {
		return a, fmt.Errorf("%w: free entry: %w", ErrCorrupt, err)
	}

	logger.Debug("atom deleted", "selector", t.Selector(), "atom", a)
	return 0, nil
}

// Name copies the name of a into buf followed by a NUL and returns the number
// of name bytes written. At most len(buf)-1 name bytes are copied; longer
// names are silently truncated. Integer atoms render as "#n".
func (t *Table) Name(a Atom, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, ErrShortBuffer
	}
	var src []byte
	if a.IsInt() {
		src = IntAtomName(a)
	} else {
		ev, err := t.lookup(a)
		if err != nil {
			return 0, err
		}
		src = ev.str()
	}
	n := min(len(src), len(buf)-1)
	copy(buf, src[:n])
	buf[n] = 0
	return n, nil
}

// String returns the full name of a.
func (t *Table) String(a Atom) (string, error) {
	if a.IsInt() {
		return string(IntAtomName(a)), nil
	}
	ev, err := t.lookup(a)
	if err != nil {
		return "", err
	}
	return string(ev.str()), nil
}

// lookup resolves a string atom to its entry, checking that the entry is
// actually linked into its bucket.
func (t *Table) lookup(a Atom) (entryView, error) {
	if _, _, _, err := t.link(a); err != nil {
		return nil, err
	}
	return t.entry(a.Handle())
}

// IntAtomName renders an integer atom as "#n".
func IntAtomName(a Atom) []byte {
	return strconv.AppendUint([]byte{'#'}, uint64(a), 10)
}

// IsNotFound reports whether err means the atom or name is absent, including
// the case where no table exists.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoTable)
}

package atom

import (
	"fmt"

	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/segment"
)

// Scope picks which table a call operates on.
type Scope int

const (
	// ScopeGlobal is the table of the first segment that initialized one.
	ScopeGlobal Scope = iota
	// ScopeLocal is the caller's own segment table, created on demand.
	ScopeLocal
)

// String returns "global" or "local".
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Registry tracks segments by selector and remembers which one holds the
// global table. The zero value is not usable; call NewRegistry.
type Registry struct {
	segments map[uint16]*segment.Segment
	global   uint16
}

// NewRegistry returns an empty registry with no global table.
func NewRegistry() *Registry {
	return &Registry{segments: make(map[uint16]*segment.Segment)}
}

// Attach records seg under its selector. Attaching is implicit in every call
// that takes a segment; it is only needed to resolve a selector first. Closed
// segments are ignored.
func (r *Registry) Attach(seg *segment.Segment) {
	if seg.Closed() {
		return
	}
	r.segments[seg.Selector()] = seg
}

// Segment returns the segment registered under sel.
func (r *Registry) Segment(sel uint16) (*segment.Segment, bool) {
	seg, ok := r.segments[sel]
	return seg, ok
}

// GlobalSelector returns the selector of the global table segment, or 0.
func (r *Registry) GlobalSelector() uint16 { return r.global }

// InitTable creates a table of buckets entries in seg (0 means 37). The first
// segment ever passed to InitTable becomes the global segment, even when the
// allocation then fails. A segment that already holds a table keeps it.
func (r *Registry) InitTable(seg *segment.Segment, buckets uint16) (*Table, error) {
	if seg.Closed() {
		return nil, fmt.Errorf("%w: %w", ErrNoTable, segment.ErrClosed)
	}
	r.Attach(seg)
	if r.global == 0 {
		r.global = seg.Selector()
		logger.Debug("global atom table selected", "selector", r.global)
	}
	if hasTable(seg) {
		return &Table{seg: seg}, nil
	}
	if _, err := initTable(seg, buckets); err != nil {
		return nil, err
	}
	return &Table{seg: seg}, nil
}

// Table returns seg's table. When create is set and seg has none, a default
// table is initialized first.
func (r *Registry) Table(seg *segment.Segment, create bool) (*Table, error) {
	if seg.Closed() {
		return nil, fmt.Errorf("%w: %w", ErrNoTable, segment.ErrClosed)
	}
	r.Attach(seg)
	if hasTable(seg) {
		return &Table{seg: seg}, nil
	}
	if !create {
		return nil, fmt.Errorf("%w: selector 0x%04x", ErrNoTable, seg.Selector())
	}
	return r.InitTable(seg, 0)
}

// Local returns the table of the caller's segment, creating it when create
// is set.
func (r *Registry) Local(seg *segment.Segment, create bool) (*Table, error) {
	return r.Table(seg, create)
}

// Global returns the global table, creating it in the global segment when
// create is set and the table went missing. Before any table was ever
// initialized there is no global segment and ErrNoTable is returned.
func (r *Registry) Global(create bool) (*Table, error) {
	if r.global == 0 {
		return nil, fmt.Errorf("%w: no global segment", ErrNoTable)
	}
	seg, ok := r.segments[r.global]
	if !ok {
		return nil, fmt.Errorf("%w: global selector 0x%04x is not attached", ErrNoTable, r.global)
	}
	return r.Table(seg, create)
}

// Select resolves scope to a table. seg is the caller's segment and is
// ignored for ScopeGlobal.
func (r *Registry) Select(scope Scope, seg *segment.Segment, create bool) (*Table, error) {
	switch scope {
	case ScopeGlobal:
		return r.Global(create)
	case ScopeLocal:
		if seg == nil {
			return nil, fmt.Errorf("%w: local scope without a segment", ErrNoTable)
		}
		return r.Local(seg, create)
	default:
		return nil, fmt.Errorf("atom: unknown scope %s", scope)
	}
}

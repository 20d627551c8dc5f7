// Package atomapi exposes the classic atom entry points on top of package atom.
//
// The 16-bit calls operate on the caller's data segment, which is passed
// explicitly. The 32-bit calls and the Global* family always operate on the
// global table. Every call collapses errors into sentinel returns: 0 for a
// failed add, find or name query, and the unchanged atom for a failed delete.
// The underlying error is logged at debug level.
package atomapi

import (
	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/segment"
)

// API holds the registry every entry point resolves tables through.
type API struct {
	reg *atom.Registry
}

// New returns an API over a fresh registry. When global is non-nil its table
// is initialized immediately, making it the global table.
func New(global *segment.Segment) (*API, error) {
	a := &API{reg: atom.NewRegistry()}
	if global != nil {
		if _, err := a.reg.InitTable(global, 0); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// NewWithRegistry returns an API over an existing registry.
func NewWithRegistry(reg *atom.Registry) *API {
	return &API{reg: reg}
}

// Registry returns the registry behind the API.
func (a *API) Registry() *atom.Registry { return a.reg }

// tableFunc resolves a table lazily so integer atoms never create one.
type tableFunc func() (*atom.Table, error)

func (a *API) local(ds *segment.Segment, create bool) tableFunc {
	return func() (*atom.Table, error) {
		return a.reg.Select(atom.ScopeLocal, ds, create)
	}
}

func (a *API) global(create bool) tableFunc {
	return func() (*atom.Table, error) {
		return a.reg.Select(atom.ScopeGlobal, nil, create)
	}
}

func add(op string, get tableFunc, n atom.Name) atom.Atom {
	if at, ok, err := n.IntAtom(); ok {
		if err != nil {
			logger.Debug(op+" failed", "name", n.String(), "err", err)
			return 0
		}
		return at
	}
	tbl, err := get()
	if err == nil {
		var at atom.Atom
		if at, err = tbl.Add(n); err == nil {
			return at
		}
	}
	logger.Debug(op+" failed", "name", n.String(), "err", err)
	return 0
}

func find(op string, get tableFunc, n atom.Name) atom.Atom {
	if at, ok, err := n.IntAtom(); ok {
		if err != nil {
			logger.Debug(op+" failed", "name", n.String(), "err", err)
			return 0
		}
		return at
	}
	tbl, err := get()
	if err == nil {
		var at atom.Atom
		if at, err = tbl.Find(n); err == nil {
			return at
		}
	}
	logger.Debug(op+" failed", "name", n.String(), "err", err)
	return 0
}

func del(op string, get tableFunc, at atom.Atom) atom.Atom {
	if at.IsInt() {
		return 0
	}
	tbl, err := get()
	if err != nil {
		logger.Debug(op+" failed", "atom", at, "err", err)
		return at
	}
	rest, err := tbl.Delete(at)
	if err != nil {
		logger.Debug(op+" failed", "atom", at, "err", err)
	}
	return rest
}

func name(op string, get tableFunc, at atom.Atom, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	if at.IsInt() {
		src := atom.IntAtomName(at)
		n := min(len(src), len(buf)-1)
		copy(buf, src[:n])
		buf[n] = 0
		return n
	}
	tbl, err := get()
	if err == nil {
		var n int
		if n, err = tbl.Name(at, buf); err == nil {
			return n
		}
	}
	logger.Debug(op+" failed", "atom", at, "err", err)
	return 0
}

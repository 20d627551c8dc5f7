package atomapi

import (
	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/segment"
)

// InitAtomTable16 creates a table with entries buckets (0 means 37) in ds and
// returns its handle, or 0 when the table cannot be allocated. A segment that
// already has a table keeps it.
func (a *API) InitAtomTable16(ds *segment.Segment, entries uint16) segment.Handle {
	if _, err := a.reg.InitTable(ds, entries); err != nil {
		logger.Debug("InitAtomTable16 failed", "selector", ds.Selector(), "entries", entries, "err", err)
		return 0
	}
	return ds.AtomTable()
}

// GetAtomHandle16 returns the entry handle of a string atom, or 0 for an
// integer atom. The atom is not validated.
func (a *API) GetAtomHandle16(at atom.Atom) segment.Handle {
	return atom.Handle(at)
}

// AddAtom16 interns n in ds's table, creating the table when needed.
func (a *API) AddAtom16(ds *segment.Segment, n atom.Name) atom.Atom {
	return add("AddAtom16", a.local(ds, true), n)
}

// DeleteAtom16 releases at in ds's table. It returns 0 on success and at on
// failure.
func (a *API) DeleteAtom16(ds *segment.Segment, at atom.Atom) atom.Atom {
	return del("DeleteAtom16", a.local(ds, false), at)
}

// FindAtom16 looks n up in ds's table.
func (a *API) FindAtom16(ds *segment.Segment, n atom.Name) atom.Atom {
	return find("FindAtom16", a.local(ds, false), n)
}

// GetAtomName16 copies the name of at from ds's table into buf.
func (a *API) GetAtomName16(ds *segment.Segment, at atom.Atom, buf []byte) int {
	return name("GetAtomName16", a.local(ds, false), at, buf)
}

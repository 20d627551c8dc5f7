package atomapi

import (
	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/internal/wide"
)

// The 32-bit local calls share the global table.

// AddAtomA interns n in the global table.
func (a *API) AddAtomA(n atom.Name) atom.Atom { return a.GlobalAddAtomA(n) }

// AddAtomW interns the wide string w in the global table.
func (a *API) AddAtomW(w []uint16) atom.Atom { return a.GlobalAddAtomW(w) }

// DeleteAtom releases at in the global table. It returns 0 on success and at
// on failure.
func (a *API) DeleteAtom(at atom.Atom) atom.Atom { return a.GlobalDeleteAtom(at) }

// FindAtomA looks n up in the global table.
func (a *API) FindAtomA(n atom.Name) atom.Atom { return a.GlobalFindAtomA(n) }

// FindAtomW looks the wide string w up in the global table.
func (a *API) FindAtomW(w []uint16) atom.Atom { return a.GlobalFindAtomW(w) }

// GetAtomNameA copies the name of at into buf.
func (a *API) GetAtomNameA(at atom.Atom, buf []byte) int { return a.GlobalGetAtomNameA(at, buf) }

// GetAtomNameW copies the name of at into buf as UTF-16.
func (a *API) GetAtomNameW(at atom.Atom, buf []uint16) int { return a.GlobalGetAtomNameW(at, buf) }

// GlobalAddAtom16 interns n in the global table.
func (a *API) GlobalAddAtom16(n atom.Name) atom.Atom {
	return add("GlobalAddAtom16", a.global(true), n)
}

// GlobalAddAtomA interns n in the global table.
func (a *API) GlobalAddAtomA(n atom.Name) atom.Atom {
	return add("GlobalAddAtomA", a.global(true), n)
}

// GlobalAddAtomW narrows w and interns it in the global table.
func (a *API) GlobalAddAtomW(w []uint16) atom.Atom {
	return add("GlobalAddAtomW", a.global(true), atom.Bytes(wide.Narrow(w)))
}

// GlobalDeleteAtom releases at in the global table. It returns 0 on success
// and at on failure.
func (a *API) GlobalDeleteAtom(at atom.Atom) atom.Atom {
	return del("GlobalDeleteAtom", a.global(false), at)
}

// GlobalFindAtom16 looks n up in the global table.
func (a *API) GlobalFindAtom16(n atom.Name) atom.Atom {
	return find("GlobalFindAtom16", a.global(false), n)
}

// GlobalFindAtomA looks n up in the global table.
func (a *API) GlobalFindAtomA(n atom.Name) atom.Atom {
	return find("GlobalFindAtomA", a.global(false), n)
}

// GlobalFindAtomW narrows w and looks it up in the global table.
func (a *API) GlobalFindAtomW(w []uint16) atom.Atom {
	return find("GlobalFindAtomW", a.global(false), atom.Bytes(wide.Narrow(w)))
}

// GlobalGetAtomName16 copies the name of at from the global table into buf.
func (a *API) GlobalGetAtomName16(at atom.Atom, buf []byte) int {
	return name("GlobalGetAtomName16", a.global(false), at, buf)
}

// GlobalGetAtomNameA copies the name of at from the global table into buf.
func (a *API) GlobalGetAtomNameA(at atom.Atom, buf []byte) int {
	return name("GlobalGetAtomNameA", a.global(false), at, buf)
}

// GlobalGetAtomNameW copies the name of at from the global table into buf as
// UTF-16, writing at most len(buf)-1 units and a NUL. It returns the number of
// units before the terminator.
func (a *API) GlobalGetAtomNameW(at atom.Atom, buf []uint16) int {
	if len(buf) == 0 {
		return 0
	}
	tmp := make([]byte, wide.MaxNarrow+1)
	n := name("GlobalGetAtomNameW", a.global(false), at, tmp)
	if n == 0 {
		buf[0] = 0
		return 0
	}
	return wide.Copy(buf, tmp[:n])
}

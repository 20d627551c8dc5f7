// Package atom implements reference-counted atom tables: hash tables that
// intern short strings inside a segment arena and identify them by 16-bit
// atoms.
//
// # Atoms
//
// An Atom below format.MinStrAtom (0xC000) is an integer atom. It carries its
// own value and never touches a table. Names of the form "#1234" and names
// built with MakeIntAtom produce integer atoms.
//
// Every other atom names a string entry. The atom is derived from the entry's
// segment handle (0xC000 | handle>>2) and converts back without a lookup.
//
// # Tables
//
// A table lives in its segment: a bucket array cell whose handle is stored in
// the segment's instance header, plus one cell per entry. Entries in a bucket
// form a singly-linked chain through their next handles. Strings compare by
// length and ASCII case-insensitive bytes and are clamped to 255 bytes.
//
//	reg := atom.NewRegistry()
//	tbl, err := reg.InitTable(seg, 0) // 37 buckets
//	a, err := tbl.Add(atom.Str("Hello"))
//	b, err := tbl.Add(atom.Str("HELLO")) // a == b, refcount 2
//
// # Relocation
//
// Any segment allocation may move the segment's memory. Table code therefore
// keeps handles, never byte slices, across Alloc calls and re-resolves the
// bucket array and entries afterwards.
//
// # Global and local tables
//
// Registry records which segment initialized the first table. That table is
// the global table used by the 32-bit API; 16-bit calls select the caller's
// segment explicitly through Registry.Local or Registry.Select.
package atom

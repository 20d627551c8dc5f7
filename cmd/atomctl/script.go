package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/joshuapare/atomkit/atom"
	"github.com/joshuapare/atomkit/atomapi"
	"github.com/joshuapare/atomkit/internal/logger"
	"github.com/joshuapare/atomkit/segment"
)

// globalSelector is the selector of the segment holding the global table.
const globalSelector = 1

// errSyntax marks a malformed script line.
var errSyntax = errors.New("syntax error")

// session owns the segments a script creates. Segments are created lazily
// the first time a selector is named.
type session struct {
	api      *atomapi.API
	opts     segment.Options
	buckets  uint16
	segments map[uint16]*segment.Segment
}

func newSession(opts segment.Options, buckets uint16) (*session, error) {
	global, err := segment.New(globalSelector, &opts)
	if err != nil {
		return nil, err
	}
	api := atomapi.NewWithRegistry(atom.NewRegistry())
	if h := api.InitAtomTable16(global, buckets); h == 0 {
		_ = global.Close()
		return nil, fmt.Errorf("cannot create the global table with %d buckets", buckets)
	}
	return &session{
		api:      api,
		opts:     opts,
		buckets:  buckets,
		segments: map[uint16]*segment.Segment{globalSelector: global},
	}, nil
}

// Close releases every segment.
func (s *session) Close() error {
	var errs []error
	for _, seg := range s.segments {
		errs = append(errs, seg.Close())
	}
	return errors.Join(errs...)
}

func (s *session) segment(sel uint16) (*segment.Segment, error) {
	if seg, ok := s.segments[sel]; ok {
		return seg, nil
	}
	seg, err := segment.New(sel, &s.opts)
	if err != nil {
		return nil, err
	}
	s.segments[sel] = seg
	s.api.Registry().Attach(seg)
	return seg, nil
}

// target is "global" or a segment selector.
type target struct {
	global bool
	sel    uint16
}

func (t target) String() string {
	if t.global {
		return "global"
	}
	return fmt.Sprintf("0x%04X", t.sel)
}

func parseTarget(s string) (target, error) {
	if strings.EqualFold(s, "global") {
		return target{global: true}, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil || v == 0 {
		return target{}, fmt.Errorf("%w: bad selector %q", errSyntax, s)
	}
	return target{sel: uint16(v)}, nil
}

func parseAtom(s string) (atom.Atom, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: bad atom %q", errSyntax, s)
	}
	return atom.Atom(v), nil
}

// parseName reads a name argument. "int:N" builds a raw integer atom.
func parseName(s string) (atom.Name, error) {
	if rest, ok := strings.CutPrefix(s, "int:"); ok {
		v, err := strconv.ParseUint(rest, 0, 16)
		if err != nil {
			return atom.Name{}, fmt.Errorf("%w: bad integer %q", errSyntax, rest)
		}
		return atom.MakeIntAtom(uint16(v)), nil
	}
	return atom.Str(s), nil
}

// Result is the outcome of one script line.
type Result struct {
	Line    int              `json:"line"`
	Command string           `json:"command"`
	Target  string           `json:"target,omitempty"`
	Arg     string           `json:"arg,omitempty"`
	Atom    *uint16          `json:"atom,omitempty"`
	Handle  uint16           `json:"handle,omitempty"`
	Value   string           `json:"value,omitempty"`
	Entries []atom.EntryInfo `json:"entries,omitempty"`
	Stats   *atom.TableStats `json:"stats,omitempty"`
}

// Text renders r as one or more output lines.
func (r Result) Text() string {
	var b strings.Builder
	switch r.Command {
	case "init":
		fmt.Fprintf(&b, "init %s -> table 0x%04X", r.Target, r.Handle)
	case "add", "find":
		fmt.Fprintf(&b, "%s %s %q -> %s", r.Command, r.Target, r.Arg, atomText(r.atomOrZero()))
	case "delete":
		fmt.Fprintf(&b, "delete %s %s -> %s", r.Target, r.Arg, atomText(r.atomOrZero()))
	case "name":
		fmt.Fprintf(&b, "name %s %s -> %q", r.Target, r.Arg, r.Value)
	case "dump":
		fmt.Fprintf(&b, "dump %s: %d entries", r.Target, len(r.Entries))
		for _, e := range r.Entries {
			fmt.Fprintf(&b, "\n  [%2d] %s handle=0x%04X refs=%d %q", e.Bucket, e.Atom, e.Handle, e.RefCount, e.Name)
		}
	case "stats":
		st := r.Stats
		fmt.Fprintf(&b, "stats %s: buckets=%d entries=%d refs=%d longest=%d empty=%d",
			r.Target, st.Buckets, st.Entries, st.References, st.LongestChain, st.EmptyBuckets)
	}
	return b.String()
}

// atomOrZero returns the result atom, or 0 when the line produced none.
func (r Result) atomOrZero() atom.Atom {
	if r.Atom == nil {
		return 0
	}
	return atom.Atom(*r.Atom)
}

// atomValue boxes a so that a zero atom still appears in JSON output.
func atomValue(a atom.Atom) *uint16 {
	v := uint16(a)
	return &v
}

func atomText(a atom.Atom) string {
	if a == 0 {
		return "0"
	}
	return a.String()
}

// Run executes every line of r. Blank lines and lines starting with '#' are
// skipped. A malformed line aborts the script; API failures are part of the
// results, reported as sentinel zeros.
func (s *session) Run(r io.Reader) ([]Result, error) {
	var results []Result
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		res, err := s.exec(text)
		if err != nil {
			return results, fmt.Errorf("line %d: %w", line, err)
		}
		res.Line = line
		results = append(results, res)
	}
	if err := sc.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (s *session) exec(text string) (Result, error) {
	cmd, rest, _ := strings.Cut(text, " ")
	cmd = strings.ToLower(cmd)
	tgtText, arg, _ := strings.Cut(strings.TrimSpace(rest), " ")
	arg = strings.TrimSpace(arg)

	tgt, err := parseTarget(tgtText)
	if err != nil {
		return Result{}, err
	}
	res := Result{Command: cmd, Target: tgt.String(), Arg: arg}
	logger.Debug("script command", "cmd", cmd, "target", res.Target, "arg", arg)

	var seg *segment.Segment
	if !tgt.global {
		if seg, err = s.segment(tgt.sel); err != nil {
			return Result{}, err
		}
	}

	switch cmd {
	case "init":
		if tgt.global {
			return Result{}, fmt.Errorf("%w: init needs a selector", errSyntax)
		}
		buckets := s.buckets
		if arg != "" {
			v, err := strconv.ParseUint(arg, 0, 16)
			if err != nil {
				return Result{}, fmt.Errorf("%w: bad bucket count %q", errSyntax, arg)
			}
			buckets = uint16(v)
		}
		res.Handle = s.api.InitAtomTable16(seg, buckets)

	case "add", "find":
		name, err := parseName(arg)
		if err != nil {
			return Result{}, err
		}
		var a atom.Atom
		switch {
		case cmd == "add" && tgt.global:
			a = s.api.GlobalAddAtomA(name)
		case cmd == "add":
			a = s.api.AddAtom16(seg, name)
		case tgt.global:
			a = s.api.GlobalFindAtomA(name)
		default:
			a = s.api.FindAtom16(seg, name)
		}
		res.Atom = atomValue(a)

	case "delete":
		a, err := parseAtom(arg)
		if err != nil {
			return Result{}, err
		}
		if tgt.global {
			res.Atom = atomValue(s.api.GlobalDeleteAtom(a))
		} else {
			res.Atom = atomValue(s.api.DeleteAtom16(seg, a))
		}

	case "name":
		atomArg, capText, _ := strings.Cut(arg, " ")
		a, err := parseAtom(atomArg)
		if err != nil {
			return Result{}, err
		}
		size := 256
		if capText = strings.TrimSpace(capText); capText != "" {
			if size, err = strconv.Atoi(capText); err != nil || size < 0 {
				return Result{}, fmt.Errorf("%w: bad capacity %q", errSyntax, capText)
			}
		}
		buf := make([]byte, size)
		var n int
		if tgt.global {
			n = s.api.GlobalGetAtomNameA(a, buf)
		} else {
			n = s.api.GetAtomName16(seg, a, buf)
		}
		res.Atom = atomValue(a)
		res.Value = string(buf[:n])

	case "dump", "stats":
		scope := atom.ScopeLocal
		if tgt.global {
			scope = atom.ScopeGlobal
		}
		tbl, err := s.api.Registry().Select(scope, seg, false)
		if err != nil {
			return Result{}, err
		}
		if cmd == "stats" {
			st, err := tbl.Stats()
			if err != nil {
				return Result{}, err
			}
			res.Stats = &st
			break
		}
		if err := tbl.Walk(func(e atom.EntryInfo) bool {
			res.Entries = append(res.Entries, e)
			return true
		}); err != nil {
			return Result{}, err
		}

	default:
		return Result{}, fmt.Errorf("%w: unknown command %q", errSyntax, cmd)
	}
	return res, nil
}

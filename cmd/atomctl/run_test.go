package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/joshuapare/atomkit/segment"
)

const basicScript = `# global table
add global Hello
add global HELLO
add global World
find global hello
find global missing
name global 0xC019
name global 0xC019 4
dump global

# local segment 2
add 2 local
find 2 LOCAL
delete 2 0xC019
find 2 local
add global #1234
add global int:7
delete global 1234
`

func TestRunCommand_Text(t *testing.T) {
	resetFlags(false)
	output, err := captureOutput(t, func() error {
		return runScript([]string{writeScript(t, basicScript)})
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	assertContains(t, output, []string{
		`add global "Hello" -> 0xC019`,
		`add global "HELLO" -> 0xC019`,
		`add global "World" -> 0xC01D`,
		`find global "hello" -> 0xC019`,
		`find global "missing" -> 0`,
		`name global 0xC019 -> "Hello"`,
		`name global 0xC019 4 -> "Hel"`,
		"dump global: 2 entries",
		`[18] 0xC019 handle=0x0064 refs=2 "Hello"`,
		`[10] 0xC01D handle=0x0074 refs=1 "World"`,
		`add 0x0002 "local" -> 0xC019`,
		`find 0x0002 "LOCAL" -> 0xC019`,
		"delete 0x0002 0xC019 -> 0",
		`find 0x0002 "local" -> 0`,
		`add global "#1234" -> #1234`,
		`add global "int:7" -> #7`,
		"delete global 1234 -> 0",
	})
	assertNotContains(t, output, []string{"# global table"})
}

func TestRunCommand_JSON(t *testing.T) {
	resetFlags(true)
	output, err := captureOutput(t, func() error {
		return runScript([]string{writeScript(t, "add global Hello\nstats global\n")})
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	assertJSON(t, output)
	assertContains(t, output, []string{`"command": "add"`, `"atom": 49177`, `"Entries": 1`})
}

func TestRunCommand_JSONInitHandle(t *testing.T) {
	resetFlags(true)
	output, err := captureOutput(t, func() error {
		return runScript([]string{writeScript(t, "init 2\nadd 2 x\ndelete 2 0xC019\n")})
	})
	if err != nil {
		t.Fatalf("runScript() error = %v", err)
	}
	assertJSON(t, output)

	var results []Result
	if err := json.Unmarshal([]byte(output), &results); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Handle == 0 || results[0].Atom != nil {
		t.Errorf("init result = %+v, want a table handle and no atom", results[0])
	}
	if results[1].Atom == nil || *results[1].Atom != 0xC019 || results[1].Handle != 0 {
		t.Errorf("add result = %+v, want atom 0xC019 and no handle", results[1])
	}
	if results[2].Atom == nil || *results[2].Atom != 0 {
		t.Errorf("delete result = %+v, want atom 0 for success", results[2])
	}
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"unknown command", "frob global x\n"},
		{"missing target", "add\n"},
		{"bad selector", "add 0 x\n"},
		{"bad atom", "delete global nope\n"},
		{"init global", "init global\n"},
		{"no table", "dump 5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(false)
			_, err := captureOutput(t, func() error {
				return runScript([]string{writeScript(t, tt.script)})
			})
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error %q does not name the line", err)
			}
		})
	}
}

func TestRunCommand_MissingFile(t *testing.T) {
	resetFlags(false)
	if err := runScript([]string{"/nonexistent/script.atoms"}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestSession_InitAndLocalTables(t *testing.T) {
	sess, err := newSession(segment.DefaultOptions(), 37)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	results, err := sess.Run(strings.NewReader("init 3 5\nadd 3 x\nstats 3\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Handle == 0 {
		t.Error("init returned a zero table handle")
	}
	if results[0].Atom != nil {
		t.Errorf("init reported atom %d, want none", *results[0].Atom)
	}
	if st := results[2].Stats; st == nil || st.Buckets != 5 || st.Entries != 1 {
		t.Errorf("stats = %+v, want 5 buckets and 1 entry", st)
	}
	if results[2].Line != 3 {
		t.Errorf("line = %d, want 3", results[2].Line)
	}
}

func TestSession_RelocatingSegments(t *testing.T) {
	opts := segment.DefaultOptions()
	opts.RelocateEveryAlloc = true
	sess, err := newSession(opts, 37)
	if err != nil {
		t.Fatal(err)
	}
	defer sess.Close()

	results, err := sess.Run(strings.NewReader(basicScript))
	if err != nil {
		t.Fatal(err)
	}
	var dump Result
	for _, r := range results {
		if r.Command == "dump" {
			dump = r
		}
	}
	if len(dump.Entries) != 2 {
		t.Errorf("dump has %d entries, want 2", len(dump.Entries))
	}
}

func TestParseTarget(t *testing.T) {
	tgt, err := parseTarget("GLOBAL")
	if err != nil || !tgt.global {
		t.Errorf("parseTarget(GLOBAL) = %+v, %v", tgt, err)
	}
	tgt, err = parseTarget("0x20")
	if err != nil || tgt.sel != 0x20 {
		t.Errorf("parseTarget(0x20) = %+v, %v", tgt, err)
	}
	if _, err := parseTarget("70000"); !errors.Is(err, errSyntax) {
		t.Errorf("parseTarget(70000) error = %v, want errSyntax", err)
	}
}

package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute(%q) error: %v", args, err)
	}
	return out.String()
}

func TestDumpCommand(t *testing.T) {
	out := runCommand(t, "dump", "a(b|c)")
	for _, want := range []string{"pattern: a(b|c)", "groups:  2", "program:", "dfa program:", "reverse dfa program:"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump output missing %q:\n%s", want, out)
		}
	}
}

func TestDumpCommandWordBoundary(t *testing.T) {
	out := runCommand(t, "dump", `\bfoo`)
	if strings.Contains(out, "dfa program:") {
		t.Errorf("dump printed a DFA program for a word-boundary pattern:\n%s", out)
	}
}

func TestMatchCommand(t *testing.T) {
	out := runCommand(t, "match", "a+", "baaac")
	if !strings.Contains(out, "match: [1, 4)") {
		t.Errorf("match output = %q, want offsets [1, 4)", out)
	}
}

func TestMatchCommandCaptures(t *testing.T) {
	out := runCommand(t, "match", "--captures", `(?P<word>\w+)!`, "say hi!")
	if !strings.Contains(out, "match: [4, 7)") {
		t.Errorf("match output = %q, want offsets [4, 7)", out)
	}
	if !strings.Contains(out, `group word: [4, 6) "hi"`) {
		t.Errorf("match output = %q, want group word", out)
	}
}

func TestMatchCommandEngines(t *testing.T) {
	for _, engine := range []string{"automatic", "backtrack", "nfa"} {
		out := runCommand(t, "match", "--engine", engine, "b.d", "abcd")
		if !strings.Contains(out, "match: [1, 4)") {
			t.Errorf("engine %s output = %q, want offsets [1, 4)", engine, out)
		}
	}
}

func TestMatchCommandNoMatch(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"match", "b.c", "abcd"})
	if err := cmd.Execute(); !errors.Is(err, errNoMatch) {
		t.Fatalf("Execute() error = %v, want errNoMatch", err)
	}
	if !strings.Contains(out.String(), "no match") {
		t.Errorf("output = %q, want a no match notice", out.String())
	}
}

func TestMatchCommandBadEngine(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"match", "--engine", "bogus", "a", "a"})
	if err := cmd.Execute(); err == nil {
		t.Error("Execute() succeeded with a bogus engine name")
	}
}

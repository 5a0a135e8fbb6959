package regexec

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/regexec/program"
)

func mustNew(t *testing.T, pattern string, config Config) *Executor {
	t.Helper()
	e, err := NewWithConfig(pattern, config)
	if err != nil {
		t.Fatalf("NewWithConfig(%q) error: %v", pattern, err)
	}
	return e
}

func TestExecWholeMatch(t *testing.T) {
	e := mustNew(t, "a+", NewConfig())
	caps := []int{-1, -1}
	if !e.Exec(caps, []byte("baaac"), 0) {
		t.Fatal("no match")
	}
	if caps[0] != 1 || caps[1] != 4 {
		t.Errorf("match = [%d, %d), want [1, 4)", caps[0], caps[1])
	}
}

func TestExecGroupCaptures(t *testing.T) {
	e := mustNew(t, "(a)(b)?", NewConfig())
	caps := e.AllocCaptures()
	if !e.Exec(caps, []byte("ac"), 0) {
		t.Fatal("no match")
	}
	want := []int{0, 1, 0, 1, -1, -1}
	if !reflect.DeepEqual(caps, want) {
		t.Errorf("captures = %v, want %v", caps, want)
	}
}

func TestExecWordBoundaryFallsBackFromDFA(t *testing.T) {
	// \b makes the pattern DFA-ineligible; the automatic engine must still
	// answer correctly through the simulations.
	e := mustNew(t, `\bword\b`, NewConfig())
	if e.CanDFA() {
		t.Error("CanDFA() = true for a word-boundary pattern")
	}
	// Ineligibility only routes searches away from the DFA; all three
	// programs are still compiled.
	if e.DFAProgram() == nil || e.ReverseProgram() == nil {
		t.Error("DFA programs were not compiled")
	}
	if !e.DFAProgram().IsBytes() || !e.ReverseProgram().IsReversed() {
		t.Error("DFA programs compiled with the wrong modes")
	}
	caps := []int{-1, -1}
	if !e.Exec(caps, []byte("a word here"), 0) {
		t.Fatal("no match")
	}
	if caps[0] != 2 || caps[1] != 6 {
		t.Errorf("match = [%d, %d), want [2, 6)", caps[0], caps[1])
	}
	if e.Exec(nil, []byte("swordfish"), 0) {
		t.Error("matched inside a word")
	}
}

func TestExecSizeLimit(t *testing.T) {
	_, err := NewWithConfig("a{100000}", NewConfig().WithSizeLimit(1000))
	if err == nil {
		t.Fatal("compile succeeded, want size limit error")
	}
	if !errors.Is(err, &program.CompileError{Kind: program.SizeLimitExceeded}) {
		t.Errorf("error = %v, want SizeLimitExceeded", err)
	}
}

func TestExecPinnedLiterals(t *testing.T) {
	e := mustNew(t, "abc|def", NewConfig().WithEngine(Literals))
	caps := []int{-1, -1}
	if !e.Exec(caps, []byte("xxdefyy"), 0) {
		t.Fatal("no match")
	}
	if caps[0] != 2 || caps[1] != 5 {
		t.Errorf("match = [%d, %d), want [2, 5)", caps[0], caps[1])
	}

	// A pattern that is not a pure literal alternation never matches under
	// the pinned literal engine.
	e = mustNew(t, "a+", NewConfig().WithEngine(Literals))
	if e.Exec(nil, []byte("aaa"), 0) {
		t.Error("literal engine matched a non-literal pattern")
	}
}

// equivalenceCases exercise every engine against the standard library.
var equivalenceCases = []struct {
	name    string
	pattern string
	text    string
}{
	{"literal", "abc", "xxabcyy"},
	{"alternation first wins", "a|ab", "ab"},
	{"shorter alternative starts later", "a|ba", "ba"},
	{"longest alternative starts first", "b|ab|aab", "aab"},
	{"greedy", "a+b+", "xaabbz"},
	{"lazy", "a+?", "aaa"},
	{"anchors", "^ab.*z$", "abcz"},
	{"multiline", "(?m)^b$", "a\nb\nc"},
	{"groups", "(a+)(b*)", "caab"},
	{"adjacent groups", "(a)(b)", "ab"},
	{"nested alternation", "(a|ab)(c|bcd)", "abcd"},
	{"empty anchors", "^$", ""},
	{"class", "[0-9]{2,4}", "a12345b"},
	{"unicode", `\pL+`, "12héllo!"},
	{"no match", "xyz", "abcabc"},
	{"empty match", "z*", "abc"},
	{"word boundary", `\bfoo`, "a foo"},
}

func TestEnginesAgreeWithOracle(t *testing.T) {
	engines := []Engine{Automatic, Backtrack, Nfa}
	for _, tc := range equivalenceCases {
		re := regexp.MustCompile(tc.pattern)
		text := []byte(tc.text)
		want := re.FindSubmatchIndex(text)
		for _, engine := range engines {
			t.Run(tc.name+"/"+engine.String(), func(t *testing.T) {
				e := mustNew(t, tc.pattern, NewConfig().WithEngine(engine))
				caps := e.AllocCaptures()
				got := e.Exec(caps, text, 0)
				if got != (want != nil) {
					t.Fatalf("match = %v, oracle = %v", got, want != nil)
				}
				if got && !reflect.DeepEqual(caps, want) {
					t.Errorf("captures = %v, want %v", caps, want)
				}

				// Whole-match searches must agree with the full ones.
				whole := []int{-1, -1}
				if got2 := e.Exec(whole, text, 0); got2 != got {
					t.Fatalf("whole-match result %v != full result %v", got2, got)
				}
				if got && (whole[0] != want[0] || whole[1] != want[1]) {
					t.Errorf("whole match = [%d, %d), want [%d, %d)", whole[0], whole[1], want[0], want[1])
				}
			})
		}
	}
}

func TestExecZeroWidthMatch(t *testing.T) {
	// A match that ends where the search began needs no reverse DFA scan.
	e := mustNew(t, "b*", NewConfig())
	caps := []int{-1, -1}
	if !e.Exec(caps, []byte("ab"), 0) {
		t.Fatal("no match")
	}
	if caps[0] != 0 || caps[1] != 0 {
		t.Errorf("match = [%d, %d), want [0, 0)", caps[0], caps[1])
	}
}

func TestExecStartOffset(t *testing.T) {
	e := mustNew(t, "ab", NewConfig())
	caps := []int{-1, -1}
	if !e.Exec(caps, []byte("abxab"), 1) {
		t.Fatal("no match from offset 1")
	}
	if caps[0] != 3 || caps[1] != 5 {
		t.Errorf("match = [%d, %d), want [3, 5)", caps[0], caps[1])
	}

	anchored := mustNew(t, "^ab", NewConfig())
	if anchored.Exec(nil, []byte("abab"), 2) {
		t.Error("^ab matched at offset 2")
	}
}

func TestExecDFACacheFallback(t *testing.T) {
	// A cache too small for the pattern forces the automatic engine off
	// the DFA mid-search; the result must not change.
	pattern := "abcdefghijklmnopqrstuvwxyz"
	text := []byte("xx" + pattern + "yy")
	e := mustNew(t, pattern, NewConfig().WithDFAMaxStates(8))
	caps := []int{-1, -1}
	if !e.Exec(caps, text, 0) {
		t.Fatal("no match")
	}
	if caps[0] != 2 || caps[1] != 2+len(pattern) {
		t.Errorf("match = [%d, %d), want [2, %d)", caps[0], caps[1], 2+len(pattern))
	}
}

func TestExecLargeTextUsesPikeVM(t *testing.T) {
	// Push the text past the backtracker's bitmap budget so the automatic
	// path lands on the PikeVM, with a word boundary to disable the DFA.
	text := []byte(strings.Repeat("x", 3<<20) + " needle")
	e := mustNew(t, `\bneedle\b`, NewConfig())
	caps := []int{-1, -1}
	if !e.Exec(caps, text, 0) {
		t.Fatal("no match")
	}
	if caps[1] != len(text) {
		t.Errorf("match end = %d, want %d", caps[1], len(text))
	}
}

func TestExecByteMode(t *testing.T) {
	e := mustNew(t, "héllo", NewConfig().WithBytes(true))
	text := []byte("xx héllo yy")
	caps := []int{-1, -1}
	if !e.Exec(caps, text, 0) {
		t.Fatal("no match")
	}
	want := regexp.MustCompile("héllo").FindIndex(text)
	if caps[0] != want[0] || caps[1] != want[1] {
		t.Errorf("match = [%d, %d), want [%d, %d)", caps[0], caps[1], want[0], want[1])
	}
}

func TestExecPanics(t *testing.T) {
	e := mustNew(t, "(a)(b)", NewConfig())
	mustPanic(t, "start out of range", func() {
		e.Exec(nil, []byte("ab"), 3)
	})
	mustPanic(t, "negative start", func() {
		e.Exec(nil, []byte("ab"), -1)
	})
	mustPanic(t, "bad caps length", func() {
		e.Exec(make([]int, 4), []byte("ab"), 0)
	})
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: no panic", name)
		}
	}()
	f()
}

func TestExecConcurrent(t *testing.T) {
	e := mustNew(t, `(\w+)@(\w+)`, NewConfig())
	texts := [][]byte{
		[]byte("mail me at alice@example any time"),
		[]byte("no address here"),
		[]byte("bob@host"),
	}
	oracle := regexp.MustCompile(`(\w+)@(\w+)`)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				text := texts[j%len(texts)]
				want := oracle.FindSubmatchIndex(text)
				caps := e.AllocCaptures()
				got := e.Exec(caps, text, 0)
				if got != (want != nil) {
					t.Errorf("match = %v, oracle = %v on %q", got, want != nil, text)
					return
				}
				if got && !reflect.DeepEqual(caps, want) {
					t.Errorf("captures = %v, want %v on %q", caps, want, text)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCaptureNames(t *testing.T) {
	e := mustNew(t, `(?P<user>\w+)@(?P<host>\w+)`, NewConfig())
	want := []string{"", "user", "host"}
	if got := e.CaptureNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("CaptureNames() = %v, want %v", got, want)
	}
	if e.NumCaptures() != 3 {
		t.Errorf("NumCaptures() = %d, want 3", e.NumCaptures())
	}
}

func TestMatch(t *testing.T) {
	e := mustNew(t, "ab+c", NewConfig())
	if !e.Match([]byte("xxabbbcyy")) {
		t.Error("Match() = false")
	}
	if e.Match([]byte("ac")) {
		t.Error("Match() = true")
	}
}

func TestParseEngine(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want Engine
	}{
		{"automatic", Automatic},
		{"auto", Automatic},
		{"backtrack", Backtrack},
		{"nfa", Nfa},
		{"literals", Literals},
	} {
		got, err := ParseEngine(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseEngine(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseEngine("bogus"); err == nil {
		t.Error("ParseEngine(bogus) succeeded")
	}
}

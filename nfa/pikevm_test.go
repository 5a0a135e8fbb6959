package nfa

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/coregx/regexec/program"
)

func compile(t *testing.T, pattern string) *program.Program {
	t.Helper()
	prog, err := program.NewBuilder(pattern).Compile()
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", pattern, err)
	}
	return prog
}

func runPikeVM(prog *program.Program, caps []int, in program.Input, start int) bool {
	vm := NewPikeVM(prog)
	return vm.Exec(vm.NewState(), caps, in, start)
}

func runBacktracker(prog *program.Program, caps []int, in program.Input, start int) bool {
	b := NewBacktracker(prog)
	return b.Exec(b.NewState(), caps, in, start)
}

type engineFunc func(prog *program.Program, caps []int, in program.Input, start int) bool

// oracleCases are checked against the standard library, which shares both
// the pattern grammar and the leftmost-first match policy.
var oracleCases = []struct {
	name    string
	pattern string
	text    string
}{
	{"literal", "abc", "xxabcyy"},
	{"literal at start", "abc", "abcabc"},
	{"no match", "zzz", "aaabbb"},
	{"empty pattern", "", "abc"},
	{"empty text", "a?", ""},
	{"alternation first wins", "a|ab", "ab"},
	{"alternation second", "foo|bar", "xbary"},
	{"greedy star", "a*", "aaab"},
	{"lazy star", "a*?", "aaab"},
	{"greedy plus", "ab+", "xabbbz"},
	{"optional", "colou?r", "color"},
	{"counted repeat", "a{2,3}", "aaaa"},
	{"nested groups", "(a(b)c)d", "zabcdy"},
	{"unset group", "(a)|(b)", "b"},
	{"group in star", "(ab)*", "ababab"},
	{"anchored both", "^abc$", "abc"},
	{"anchor rejects", "^bc", "abc"},
	{"dollar", "c$", "abc"},
	{"multiline caret", "(?m)^b.", "ab\nbc"},
	{"word boundary", `\bfoo\b`, "a foo bar"},
	{"no word boundary", `\Bar\b`, "bar"},
	{"char class", "[b-d]+", "abcde"},
	{"negated class", "[^a]+", "aabba"},
	{"dot", "a.c", "abc"},
	{"dot rejects newline", "a.c", "a\nc abc"},
	{"unicode literal", "héllo", "say héllo!"},
	{"unicode class", `\pL+`, "12abéΔ!"},
	{"case fold", "(?i)AbC", "xxabcyy"},
	{"empty alternative", "a|", "b"},
	{"epsilon cycle", "(a*)*", "b"},
	{"nullable star body", "(a?)*", "b"},
	{"nullable plus body", "(a*)+", "b"},
}

func testEngineAgainstOracle(t *testing.T, run engineFunc) {
	for _, tc := range oracleCases {
		t.Run(tc.name, func(t *testing.T) {
			prog := compile(t, tc.pattern)
			re := regexp.MustCompile(tc.pattern)
			text := []byte(tc.text)
			want := re.FindSubmatchIndex(text)

			caps := prog.AllocCaptures()
			got := run(prog, caps, program.NewCharInput(text), 0)
			if got != (want != nil) {
				t.Fatalf("match = %v, oracle = %v", got, want != nil)
			}
			if got && !reflect.DeepEqual(caps, want) {
				t.Errorf("captures = %v, want %v", caps, want)
			}
		})
	}
}

func TestPikeVMAgainstOracle(t *testing.T) {
	testEngineAgainstOracle(t, runPikeVM)
}

func TestPikeVMStartOffset(t *testing.T) {
	text := []byte("abcabc")
	prog := compile(t, "abc")
	caps := make([]int, 2)
	if !runPikeVM(prog, caps, program.NewCharInput(text), 1) {
		t.Fatal("no match from offset 1")
	}
	if caps[0] != 3 || caps[1] != 6 {
		t.Errorf("match = [%d, %d), want [3, 6)", caps[0], caps[1])
	}

	// Text-start anchors hold at position 0, not at the search start.
	anchored := compile(t, "^abc")
	if runPikeVM(anchored, nil, program.NewCharInput(text), 3) {
		t.Error("^abc matched at offset 3")
	}
}

func TestPikeVMByteMode(t *testing.T) {
	patterns := []string{"héllo", "[α-ω]+", "a.c", `\x{10348}`}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			prog, err := program.NewBuilder(pattern).Bytes(true).Compile()
			if err != nil {
				t.Fatalf("Compile error: %v", err)
			}
			text := []byte("xx héllo αβγ a_c \U00010348 yy")
			want := regexp.MustCompile(pattern).FindIndex(text)
			caps := make([]int, 2)
			got := runPikeVM(prog, caps, program.NewByteInput(text), 0)
			if got != (want != nil) {
				t.Fatalf("match = %v, oracle = %v", got, want != nil)
			}
			if got && (caps[0] != want[0] || caps[1] != want[1]) {
				t.Errorf("match = [%d, %d), want [%d, %d)", caps[0], caps[1], want[0], want[1])
			}
		})
	}
}

func TestPikeVMWholeMatchOnly(t *testing.T) {
	prog := compile(t, "(a+)(b+)")
	text := []byte("xaabby")
	caps := make([]int, 2)
	if !runPikeVM(prog, caps, program.NewCharInput(text), 0) {
		t.Fatal("no match")
	}
	if caps[0] != 1 || caps[1] != 5 {
		t.Errorf("match = [%d, %d), want [1, 5)", caps[0], caps[1])
	}
	// Existence-only search with no capture buffer at all.
	if !runPikeVM(prog, nil, program.NewCharInput(text), 0) {
		t.Error("existence-only search failed")
	}
}

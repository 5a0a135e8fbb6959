// Package regexec executes regular expressions by choosing, per search,
// among several matching engines compiled from one pattern.
//
// An Executor owns up to three compiled forms of the pattern: a general
// program with full capture tracking, a byte-mode forward program for the
// lazy DFA, and a byte-mode reverse program that recovers match starts
// after a forward DFA scan. The automatic engine picks the cheapest
// applicable engine for each search; callers can also pin one engine for
// every search.
//
// An Executor is immutable after construction and safe for concurrent
// use: all mutable per-search state (thread lists, bitmaps, DFA caches)
// lives in pooled search states that no two searches share.
package regexec

import (
	"fmt"
	"sync"

	"github.com/coregx/regexec/dfa/lazy"
	"github.com/coregx/regexec/nfa"
	"github.com/coregx/regexec/program"
)

// Executor runs searches for one compiled pattern.
type Executor struct {
	prog    *program.Program // general program, full capture tracking
	dfaProg *program.Program // byte mode, unanchored prefix embedded
	revProg *program.Program // byte mode, reversed
	canDFA  bool
	engine  Engine
	config  Config

	pike *nfa.PikeVM
	back *nfa.Backtracker
	pool sync.Pool // of *searchState
}

// searchState is the mutable state one search borrows from the pool.
// The DFAs live here, not on the Executor, because their state caches
// grow during a scan; pooling keeps each cache warm across sequential
// searches without any cross-search sharing.
type searchState struct {
	fwd       *lazy.DFA
	rev       *lazy.DFA
	pikeState *nfa.PikeVMState
	backState *nfa.BacktrackerState
}

// New compiles pattern with the default configuration.
func New(pattern string) (*Executor, error) {
	return NewWithConfig(pattern, NewConfig())
}

// NewWithConfig compiles pattern under config. The pattern is compiled
// three times, all under the same size limit: once for the
// capture-tracking engines, once forward and once reversed for the DFA
// pair. Any compile failure aborts construction, whether or not the DFA
// programs would ever run.
func NewWithConfig(pattern string, config Config) (*Executor, error) {
	prog, err := program.NewBuilder(pattern).
		SizeLimit(config.SizeLimit()).
		Bytes(config.Bytes()).
		Compile()
	if err != nil {
		return nil, err
	}
	e := &Executor{
		prog:   prog,
		engine: config.Engine(),
		config: config,
		canDFA: lazy.CanExec(prog),
	}
	e.dfaProg, err = program.NewBuilder(pattern).
		SizeLimit(config.SizeLimit()).
		DFA(true).
		Compile()
	if err != nil {
		return nil, err
	}
	e.revProg, err = program.NewBuilder(pattern).
		SizeLimit(config.SizeLimit()).
		DFA(true).
		Reverse(true).
		Compile()
	if err != nil {
		return nil, err
	}
	e.pike = nfa.NewPikeVM(prog)
	e.back = nfa.NewBacktracker(prog)
	e.pool.New = func() any { return e.newSearchState() }

	// Surface DFA construction problems at compile time, not mid-search.
	if e.canDFA {
		st := e.getState()
		ok := st.fwd != nil && st.rev != nil
		e.putState(st)
		if !ok {
			return nil, fmt.Errorf("regexec: internal error: dfa construction failed for %q", pattern)
		}
	}
	return e, nil
}

func (e *Executor) newSearchState() *searchState {
	st := &searchState{
		pikeState: e.pike.NewState(),
		backState: e.back.NewState(),
	}
	if e.canDFA {
		cfg := lazy.NewConfig()
		if n := e.config.DFAMaxStates(); n > 0 {
			cfg = cfg.WithMaxStates(n)
		}
		fwd, ferr := lazy.New(e.dfaProg, cfg)
		rev, rerr := lazy.New(e.revProg, cfg)
		if ferr == nil && rerr == nil {
			st.fwd, st.rev = fwd, rev
		}
	}
	return st
}

func (e *Executor) getState() *searchState  { return e.pool.Get().(*searchState) }
func (e *Executor) putState(s *searchState) { e.pool.Put(s) }

// Pattern returns the pattern text the Executor was compiled from.
func (e *Executor) Pattern() string {
	return e.prog.Pattern()
}

// Engine returns the configured engine.
func (e *Executor) Engine() Engine {
	return e.engine
}

// Program returns the general capture-tracking program.
func (e *Executor) Program() *program.Program {
	return e.prog
}

// DFAProgram returns the byte-mode forward program compiled for the DFA.
func (e *Executor) DFAProgram() *program.Program {
	return e.dfaProg
}

// ReverseProgram returns the byte-mode reverse program compiled for the
// DFA.
func (e *Executor) ReverseProgram() *program.Program {
	return e.revProg
}

// CanDFA reports whether the DFA pair can run this pattern. It is a
// property of the pattern, fixed at construction.
func (e *Executor) CanDFA() bool {
	return e.canDFA
}

// CaptureNames returns the ordered capture group names. Index 0 is the
// whole match; unnamed groups are "".
func (e *Executor) CaptureNames() []string {
	return e.prog.CaptureNames()
}

// NumCaptures returns the number of capture groups including group 0.
func (e *Executor) NumCaptures() int {
	return e.prog.NumCaptures()
}

// AllocCaptures returns a fresh capture buffer sized for this pattern,
// every slot unset (-1).
func (e *Executor) AllocCaptures() []int {
	return e.prog.AllocCaptures()
}

// Match reports whether the pattern matches anywhere in text.
func (e *Executor) Match(text []byte) bool {
	return e.Exec(nil, text, 0)
}

// Exec searches text for the leftmost-first match at or after start and
// reports whether one was found.
//
// caps selects how much match detail is computed and must have length 0
// (existence only), 2 (whole-match offsets) or 2*NumCaptures() (all
// groups). On a match, slot 2*i holds the start and slot 2*i+1 the end of
// group i; slots of groups that did not participate hold -1. On no match
// the contents of caps are unspecified.
//
// Exec panics when start is out of range or caps has an invalid length:
// both indicate a bug in the caller, not a property of the input.
func (e *Executor) Exec(caps []int, text []byte, start int) bool {
	if start < 0 || start > len(text) {
		panic(fmt.Sprintf("regexec: start offset %d out of range [0, %d]", start, len(text)))
	}
	switch len(caps) {
	case 0, 2:
	default:
		if len(caps) != 2*e.prog.NumCaptures() {
			panic(fmt.Sprintf("regexec: capture buffer length %d, want 0, 2 or %d",
				len(caps), 2*e.prog.NumCaptures()))
		}
	}
	switch e.engine {
	case Backtrack:
		return e.execBacktrack(caps, text, start)
	case Nfa:
		return e.execNfa(caps, text, start)
	case Literals:
		return e.execLiterals(caps, text, start)
	default:
		return e.execAuto(caps, text, start)
	}
}

// execAuto picks the cheapest engine that can answer this search. The
// order mirrors engine cost: DFA scans are linear without capture
// overhead, the literal searcher beats all simulations on pure literal
// patterns, the backtracker wins on small program/input products, and the
// PikeVM is the always-correct fallback.
func (e *Executor) execAuto(caps []int, text []byte, start int) bool {
	if e.canDFA && len(caps) <= 2 {
		if matched, ok := e.execDFA(caps, text, start); ok {
			return matched
		}
		// State cache exhausted; fall through to the simulations.
	} else if len(caps) <= 2 && e.prog.IsLiteral() {
		return e.execLiterals(caps, text, start)
	}
	if nfa.ShouldExec(e.prog.Len(), len(text)) {
		return e.execBacktrack(caps, text, start)
	}
	return e.execNfa(caps, text, start)
}

// execDFA runs the forward scan and, when offsets are wanted, the reverse
// scan. The second return value reports whether the DFA could decide the
// search; false means the caller must fall back.
func (e *Executor) execDFA(caps []int, text []byte, start int) (bool, bool) {
	st := e.getState()
	defer e.putState(st)
	if st.fwd == nil {
		return false, false
	}
	end, err := st.fwd.Search(text, start)
	if err != nil {
		return false, false
	}
	if end < 0 {
		return false, true
	}
	if len(caps) == 0 {
		return true, true
	}
	if end == start {
		// Only an empty match at the start offset can end there.
		caps[0], caps[1] = start, end
		return true, true
	}
	s, err := st.rev.SearchReverse(text, start, end)
	if err != nil || s < 0 {
		return false, false
	}
	caps[0], caps[1] = s, end
	return true, true
}

func (e *Executor) execNfa(caps []int, text []byte, start int) bool {
	st := e.getState()
	defer e.putState(st)
	return e.pike.Exec(st.pikeState, caps, e.input(text), start)
}

func (e *Executor) execBacktrack(caps []int, text []byte, start int) bool {
	st := e.getState()
	defer e.putState(st)
	return e.back.Exec(st.backState, caps, e.input(text), start)
}

// execLiterals runs the prefix searcher alone. Patterns that are not pure
// literal alternations have no usable searcher and never match here.
func (e *Executor) execLiterals(caps []int, text []byte, start int) bool {
	s := e.prog.PrefixSearcher()
	if s == nil || !e.prog.IsLiteral() {
		return false
	}
	m0, m1, ok := s.Find(text, start)
	if !ok {
		return false
	}
	if len(caps) >= 2 {
		caps[0], caps[1] = m0, m1
	}
	return true
}

func (e *Executor) input(text []byte) program.Input {
	if e.prog.IsBytes() {
		return program.NewByteInput(text)
	}
	return program.NewCharInput(text)
}

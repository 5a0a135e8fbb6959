// Package lazy implements a lazy DFA over byte-mode programs.
//
// States are built on demand during a scan: each state is the set of
// program counters a breadth-first NFA simulation would hold, and each
// transition is computed once per (state, byte) pair and cached. The
// result is O(text length) scanning after warmup, at the cost of not
// tracking capture groups: a forward scan yields only the end offset of
// the leftmost-first match, and a second scan with a reverse-compiled
// program recovers the start offset.
//
// The state cache is bounded. When a pathological pattern exhausts it, a
// CacheFull error is returned and the caller falls back to an NFA engine.
//
// A DFA is not safe for concurrent use: scans mutate the cache and the
// internal scratch space. Callers that search concurrently keep a DFA per
// search, typically pooled.
package lazy

import (
	"github.com/coregx/regexec/internal/conv"
	"github.com/coregx/regexec/internal/sparse"
	"github.com/coregx/regexec/program"
)

// eofClass is the pseudo input consumed at the end of a scan. It drives
// the final transition where end-of-text assertions hold and the match
// instruction gets its last chance to be reached.
const eofClass = 256

// endFlags carry the look-ahead context for a single transition: what the
// byte about to be consumed says about line and text boundaries.
type endFlags struct {
	text bool
	line bool
}

// DFA executes one byte-mode program by subset construction on the fly.
type DFA struct {
	prog    *program.Program
	config  Config
	cache   *cache
	reverse bool

	// start states per context flag combination, built on first use
	starts [numStartStates]StateID

	// per-transition scratch
	seen    *sparse.Set
	closed  []uint32
	nextPcs []uint32
	keyBuf  []byte
	matched bool
}

// CanExec reports whether the DFA can run a pattern compiled into prog.
// Word boundary assertions need the rune context on both sides of a
// position, which the byte automaton does not track.
func CanExec(prog *program.Program) bool {
	insts := prog.Insts()
	for i := range insts {
		if insts[i].Op != program.OpLook {
			continue
		}
		switch insts[i].Look {
		case program.LookWordBoundary, program.LookNoWordBoundary:
			return false
		}
	}
	return true
}

// New creates a DFA for prog. The program must be byte mode and free of
// constructs CanExec rejects.
func New(prog *program.Program, config Config) (*DFA, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if !prog.IsBytes() {
		return nil, newError(UnsupportedProgram, "program is not byte mode")
	}
	if !CanExec(prog) {
		return nil, newError(UnsupportedProgram, "program contains word boundary assertions")
	}
	d := &DFA{
		prog:    prog,
		config:  config,
		cache:   newCache(config.MaxStates()),
		reverse: prog.IsReversed(),
		seen:    sparse.NewSet(conv.IntToUint32(prog.Len())),
	}
	for i := range d.starts {
		d.starts[i] = invalidState
	}
	return d, nil
}

// Stats returns state cache statistics for this DFA.
func (d *DFA) Stats() CacheStats {
	return d.cache.stats()
}

// Search scans forward from start and returns the end offset of the
// leftmost-first match, or -1 when there is none. Programs compiled for
// the forward DFA embed an unanchored prefix, so a single scan covers
// every later starting point.
func (d *DFA) Search(text []byte, start int) (int, error) {
	cur, err := d.startState(startContext(text, start))
	if err != nil {
		return -1, err
	}
	lastMatch := -1
	pos := start
	for pos < len(text) {
		b := text[pos]
		t, err := d.transition(cur, b, endFlags{line: b == '\n'})
		if err != nil {
			return -1, err
		}
		if t.match {
			lastMatch = pos
		}
		if t.next == deadState {
			return lastMatch, nil
		}
		cur = t.next
		pos++
	}
	if d.eofMatch(d.cache.get(cur), endFlags{text: true, line: true}) {
		lastMatch = pos
	}
	return lastMatch, nil
}

// SearchReverse scans backward from end over a reverse-compiled program
// and returns the start offset of the leftmost match ending at end, or -1.
// Bytes before bound are never read; bound is the forward search's own
// start offset, so no legal match can begin before it.
func (d *DFA) SearchReverse(text []byte, bound, end int) (int, error) {
	cur, err := d.startState(reverseContext(text, end))
	if err != nil {
		return -1, err
	}
	lastMatch := -1
	pos := end
	for pos > bound {
		b := text[pos-1]
		t, err := d.transition(cur, b, endFlags{line: b == '\n'})
		if err != nil {
			return -1, err
		}
		if t.match {
			lastMatch = pos
		}
		if t.next == deadState {
			return lastMatch, nil
		}
		cur = t.next
		pos--
	}
	eof := endFlags{
		text: bound == 0,
		line: bound == 0 || text[bound-1] == '\n',
	}
	if d.eofMatch(d.cache.get(cur), eof) {
		lastMatch = pos
	}
	return lastMatch, nil
}

// startContext computes the look-behind flags for a forward scan starting
// at pos.
func startContext(text []byte, pos int) ctxFlags {
	if pos == 0 {
		return flagStartText | flagStartLine
	}
	if text[pos-1] == '\n' {
		return flagStartLine
	}
	return 0
}

// reverseContext computes the scan-direction look-behind flags for a
// backward scan originating at end. The reverse program's begin-text
// assertion stands for the original pattern's end-of-text, so the flags
// mirror the text's right edge.
func reverseContext(text []byte, end int) ctxFlags {
	if end == len(text) {
		return flagStartText | flagStartLine
	}
	if text[end] == '\n' {
		return flagStartLine
	}
	return 0
}

// startState interns the start state for the given context flags.
func (d *DFA) startState(f ctxFlags) (StateID, error) {
	if id := d.starts[f]; id != invalidState {
		return id, nil
	}
	pcs := []uint32{d.prog.Start()}
	st, err := d.intern(f, pcs)
	if err != nil {
		return invalidState, err
	}
	d.starts[f] = st
	return st, nil
}

// transition returns the cached edge out of cur on byte b, computing and
// caching it on first use.
func (d *DFA) transition(cur StateID, b byte, end endFlags) (transition, error) {
	st := d.cache.get(cur)
	if t, ok := st.next[b]; ok {
		return t, nil
	}
	t, err := d.computeTransition(st, int(b), end)
	if err != nil {
		return transition{}, err
	}
	st.next[b] = t
	return t, nil
}

// eofMatch reports whether the match instruction is reachable from st at
// the end of a scan, where end-of-text assertions hold. The result is not
// cached: the flags depend on the scan's bound, which varies per search.
func (d *DFA) eofMatch(st *state, end endFlags) bool {
	matched, _ := d.closure(st, eofClass, end)
	return matched
}

// computeTransition closes st under the byte's context and interns the
// successor state.
func (d *DFA) computeTransition(st *state, b int, end endFlags) (transition, error) {
	matched, pcs := d.closure(st, b, end)
	if len(pcs) == 0 {
		return transition{next: deadState, match: matched}, nil
	}
	var f ctxFlags
	if byte(b) == '\n' {
		f = flagStartLine
	}
	next, err := d.intern(f, pcs)
	if err != nil {
		return transition{}, err
	}
	return transition{next: next, match: matched}, nil
}

// closure epsilon-closes st's counters under the given context, collecting
// the consuming instructions live at this position in priority order and
// whether the match instruction is reachable here. A forward walk stops at
// the match instruction: under leftmost-first semantics nothing with lower
// priority than a reachable match can win, so dropping it both preserves
// the tie-breaking rule and keeps states small. A reverse walk keeps going:
// the wanted start offset is the smallest position of any match ending at
// the scan origin, so alternatives longer than an already reachable match
// must stay live. Closure then filters the collected instructions by b and
// returns the successor counters, also in priority order.
func (d *DFA) closure(st *state, b int, end endFlags) (bool, []uint32) {
	d.seen.Clear()
	d.closed = d.closed[:0]
	d.matched = false
	for _, pc := range st.pcs {
		d.walk(pc, st.flags, end)
	}

	d.nextPcs = d.nextPcs[:0]
	if b != eofClass {
		d.seen.Clear()
		insts := d.prog.Insts()
		for _, pc := range d.closed {
			if insts[pc].MatchesByte(byte(b)) && d.seen.Insert(insts[pc].Out) {
				d.nextPcs = append(d.nextPcs, insts[pc].Out)
			}
		}
	}
	return d.matched, d.nextPcs
}

func (d *DFA) walk(pc uint32, f ctxFlags, end endFlags) {
	if d.matched && !d.reverse {
		return
	}
	if !d.seen.Insert(pc) {
		return
	}
	inst := &d.prog.Insts()[pc]
	switch inst.Op {
	case program.OpMatch:
		d.matched = true
	case program.OpBytes:
		d.closed = append(d.closed, pc)
	case program.OpJump, program.OpSave:
		d.walk(inst.Out, f, end)
	case program.OpSplit:
		d.walk(inst.Out, f, end)
		d.walk(inst.Alt, f, end)
	case program.OpLook:
		if holds(inst.Look, f, end) {
			d.walk(inst.Out, f, end)
		}
	}
}

// holds evaluates a zero-width assertion against the state's look-behind
// flags and the transition's look-ahead flags. Word boundaries never reach
// here; CanExec rejects them up front.
func holds(l program.Look, f ctxFlags, end endFlags) bool {
	switch l {
	case program.LookBeginText:
		return f&flagStartText != 0
	case program.LookBeginLine:
		return f&flagStartLine != 0
	case program.LookEndText:
		return end.text
	case program.LookEndLine:
		return end.line
	}
	return false
}

// intern returns the id of the state for (f, pcs), materializing it if
// needed.
func (d *DFA) intern(f ctxFlags, pcs []uint32) (StateID, error) {
	d.keyBuf = stateKey(d.keyBuf, f, pcs)
	if st, ok := d.cache.lookup(d.keyBuf); ok {
		return st.id, nil
	}
	st, err := d.cache.insert(d.keyBuf, f, pcs)
	if err != nil {
		return invalidState, err
	}
	return st.id, nil
}

package nfa

import (
	"github.com/coregx/regexec/program"
)

const (
	// maxBacktrackProgSize is the largest program the backtracker accepts.
	maxBacktrackProgSize = 256

	// maxBacktrackMem caps the visited bitmap at 256 KB, i.e. this many bits.
	maxBacktrackMem = 256 * 1024 * 8
)

// ShouldExec reports whether the backtracker is the right engine for a
// program of progLen instructions over textLen input units. Both the
// program and the (program x positions) bitmap must be small: past that,
// the PikeVM's linear guarantee beats the backtracker's constant factor.
func ShouldExec(progLen, textLen int) bool {
	return progLen <= maxBacktrackProgSize &&
		progLen*(textLen+1) <= maxBacktrackMem
}

// Backtracker is a depth-first simulation made safe by memoization: every
// (pc, position) pair is visited at most once, recorded in a bitmap. That
// bounds the total work at O(program length * text length) while keeping
// the small-input speed of classic backtracking.
//
// The engine is only used when ShouldExec approves the bitmap size; the
// Executor enforces that. Recursion is replaced by an explicit job stack,
// so deeply nested patterns cannot exhaust goroutine stacks.
//
// Thread safety: a Backtracker is immutable. Concurrent searches must each
// use their own BacktrackerState.
type Backtracker struct {
	prog *program.Program
}

// NewBacktracker creates a backtracking engine for the given program.
func NewBacktracker(prog *program.Program) *Backtracker {
	return &Backtracker{prog: prog}
}

// BacktrackerState holds the visited bitmap and the job stack for one
// search. Both are reused across searches to avoid reallocation.
type BacktrackerState struct {
	visited []uint64
	jobs    []job
	stride  int // positions per program counter in the bitmap
}

// NewState returns an empty state; the bitmap grows on first use.
func (b *Backtracker) NewState() *BacktrackerState {
	return &BacktrackerState{}
}

type jobKind uint8

const (
	// jobStep resumes the simulation at a (pc, position) pair.
	jobStep jobKind = iota

	// jobRestore undoes a capture slot write when a branch is abandoned.
	jobRestore
)

// job is one pending unit of work on the explicit stack. Restore jobs are
// interleaved with step jobs so that popping in LIFO order unwinds capture
// writes exactly as returning from recursive calls would.
type job struct {
	kind jobKind
	pc   uint32
	pos  int
	slot int
	old  int
}

// Exec searches for the leftmost-first match at or after start, writing
// group offsets into caps (length 0, 2, or 2*groups). It reports whether a
// match was found. On no match the contents of caps are unspecified.
func (b *Backtracker) Exec(state *BacktrackerState, caps []int, in program.Input, start int) bool {
	for i := range caps {
		caps[i] = -1
	}

	// One bit per (pc, position) pair, shared across all start offsets:
	// a pair that failed from one start fails from every start.
	state.stride = in.Len() + 1
	bits := b.prog.Len() * state.stride
	words := (bits + 63) / 64
	if cap(state.visited) < words {
		state.visited = make([]uint64, words)
	} else {
		state.visited = state.visited[:words]
		for i := range state.visited {
			state.visited[i] = 0
		}
	}
	state.jobs = state.jobs[:0]

	for at := start; ; {
		if b.try(state, caps, in, at) {
			return true
		}
		if at >= in.Len() {
			return false
		}
		_, width := in.Step(at)
		at += width
	}
}

// try runs one anchored attempt from position at, driving the job stack
// until it either reaches a match or drains.
func (b *Backtracker) try(state *BacktrackerState, caps []int, in program.Input, at int) bool {
	state.jobs = append(state.jobs[:0], job{kind: jobStep, pc: b.prog.Start(), pos: at})
	for len(state.jobs) > 0 {
		j := state.jobs[len(state.jobs)-1]
		state.jobs = state.jobs[:len(state.jobs)-1]
		if j.kind == jobRestore {
			if j.slot < len(caps) {
				caps[j.slot] = j.old
			}
			continue
		}
		if b.step(state, caps, in, j.pc, j.pos) {
			return true
		}
	}
	return false
}

// step walks a single thread of control, pushing alternatives and capture
// restores as it goes. It returns true as soon as a match instruction is
// reached; capture slots then hold the winning path's offsets.
func (b *Backtracker) step(state *BacktrackerState, caps []int, in program.Input, pc uint32, pos int) bool {
	insts := b.prog.Insts()
	for {
		if !b.visit(state, pc, pos) {
			return false
		}
		inst := &insts[pc]
		switch inst.Op {
		case program.OpMatch:
			return true
		case program.OpJump:
			pc = inst.Out
		case program.OpSplit:
			state.jobs = append(state.jobs, job{kind: jobStep, pc: inst.Alt, pos: pos})
			pc = inst.Out
		case program.OpSave:
			if inst.Slot < len(caps) {
				state.jobs = append(state.jobs, job{
					kind: jobRestore,
					slot: inst.Slot,
					old:  caps[inst.Slot],
				})
				caps[inst.Slot] = pos
			}
			pc = inst.Out
		case program.OpLook:
			if !in.Assert(inst.Look, pos) {
				return false
			}
			pc = inst.Out
		default:
			r, width := in.Step(pos)
			if r == program.EndOfText {
				return false
			}
			if inst.Op == program.OpBytes {
				if !inst.MatchesByte(byte(r)) {
					return false
				}
			} else if !inst.MatchesRune(r) {
				return false
			}
			pc = inst.Out
			pos += width
		}
	}
}

// visit marks (pc, pos) in the bitmap, reporting false when the pair has
// already been explored.
func (b *Backtracker) visit(state *BacktrackerState, pc uint32, pos int) bool {
	idx := int(pc)*state.stride + pos
	word, bit := idx/64, uint(idx%64)
	if state.visited[word]&(1<<bit) != 0 {
		return false
	}
	state.visited[word] |= 1 << bit
	return true
}

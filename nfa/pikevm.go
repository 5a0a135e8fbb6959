// Package nfa provides the two program-driven matching engines that are
// always capable of full capture tracking: the PikeVM breadth-first
// simulator and the bounded backtracker.
//
// Both engines are parameterized over a program.Program and a program.Input
// and never retain either beyond a call. Mutable per-search state lives in
// explicit state values so one engine instance can serve concurrent
// searches, each with its own state.
package nfa

import (
	"github.com/coregx/regexec/internal/conv"
	"github.com/coregx/regexec/internal/sparse"
	"github.com/coregx/regexec/program"
)

// PikeVM is a breadth-first Thompson simulation with per-thread capture
// slots. It is the slowest engine but always applicable: any program, any
// input size, full capture tracking.
//
// Time is O(text length * program length): the sparse-set dedup bounds each
// step to at most one live thread per program counter.
//
// Thread safety: a PikeVM is immutable. Concurrent searches must each use
// their own PikeVMState.
type PikeVM struct {
	prog *program.Program
}

// NewPikeVM creates a simulator for the given program.
func NewPikeVM(prog *program.Program) *PikeVM {
	return &PikeVM{prog: prog}
}

// PikeVMState holds the mutable per-search state: the two alternating
// thread lists and a working capture buffer.
type PikeVMState struct {
	clist, nlist threadList
	scratch      []int
}

// NewState returns a state sized for this simulator's program.
func (p *PikeVM) NewState() *PikeVMState {
	n := conv.IntToUint32(p.prog.Len())
	return &PikeVMState{
		clist:   threadList{set: sparse.NewSet(n)},
		nlist:   threadList{set: sparse.NewSet(n)},
		scratch: make([]int, 2*p.prog.NumCaptures()),
	}
}

// thread is one live simulation thread: a program counter waiting on a
// consuming (or match) instruction, plus its capture snapshot.
type thread struct {
	pc   uint32
	caps []int
}

// threadList is an ordered list of live threads. Order is priority:
// earlier threads correspond to earlier pattern alternatives and win ties.
// The sparse set also marks epsilon instructions already expanded in the
// current step, bounding the closure.
type threadList struct {
	set     *sparse.Set
	threads []thread
}

func (l *threadList) clear() {
	l.set.Clear()
	l.threads = l.threads[:0]
}

// Exec searches for the leftmost-first match at or after start, writing
// group offsets into caps (length 0, 2, or 2*groups). It reports whether a
// match was found. On no match the contents of caps are unspecified.
func (p *PikeVM) Exec(state *PikeVMState, caps []int, in program.Input, start int) bool {
	slots := len(caps)
	wcaps := state.scratch[:min(slots, len(state.scratch))]
	for i := range wcaps {
		wcaps[i] = -1
	}
	clist, nlist := &state.clist, &state.nlist
	clist.clear()
	nlist.clear()

	insts := p.prog.Insts()
	matched := false
	pos := start
	for {
		if len(clist.threads) == 0 && matched {
			break
		}
		// Until a match is found, seed a fresh start thread at every
		// position. It is appended after surviving threads, so earlier
		// starts keep higher priority: leftmost-first.
		if !matched {
			p.add(clist, p.prog.Start(), pos, in, wcaps)
		}
		r, width := in.Step(pos)
		for i := 0; i < len(clist.threads); i++ {
			t := clist.threads[i]
			inst := &insts[t.pc]
			if inst.Op == program.OpMatch {
				if slots > 0 {
					copy(caps, t.caps)
				}
				matched = true
				// Lower-priority threads in this step can no longer win.
				break
			}
			if r == program.EndOfText {
				continue
			}
			ok := false
			if inst.Op == program.OpBytes {
				ok = inst.MatchesByte(byte(r))
			} else {
				ok = inst.MatchesRune(r)
			}
			if ok {
				p.add(nlist, inst.Out, pos+width, in, t.caps)
			}
		}
		if r == program.EndOfText {
			break
		}
		pos += width
		*clist, *nlist = *nlist, *clist
		nlist.clear()
	}
	return matched
}

// add epsilon-closes pc into list: splits, jumps, saves and satisfied
// assertions are followed until a consuming or match instruction remains.
// tcaps is a working buffer; save slots are set before recursing and
// restored afterwards, and each stored thread takes its own snapshot.
func (p *PikeVM) add(list *threadList, pc uint32, pos int, in program.Input, tcaps []int) {
	if !list.set.Insert(pc) {
		return
	}
	inst := &p.prog.Insts()[pc]
	switch inst.Op {
	case program.OpJump:
		p.add(list, inst.Out, pos, in, tcaps)
	case program.OpSplit:
		p.add(list, inst.Out, pos, in, tcaps)
		p.add(list, inst.Alt, pos, in, tcaps)
	case program.OpSave:
		if inst.Slot < len(tcaps) {
			old := tcaps[inst.Slot]
			tcaps[inst.Slot] = pos
			p.add(list, inst.Out, pos, in, tcaps)
			tcaps[inst.Slot] = old
		} else {
			p.add(list, inst.Out, pos, in, tcaps)
		}
	case program.OpLook:
		if in.Assert(inst.Look, pos) {
			p.add(list, inst.Out, pos, in, tcaps)
		}
	default:
		var snapshot []int
		if len(tcaps) > 0 {
			snapshot = make([]int, len(tcaps))
			copy(snapshot, tcaps)
		}
		list.threads = append(list.threads, thread{pc: pc, caps: snapshot})
	}
}

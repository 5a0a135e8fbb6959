// Package program defines the compiled instruction representation shared by
// every matching engine.
//
// A Program is an immutable sequence of instructions produced by the Builder.
// It is safe to share a single Program across any number of concurrent
// searches: nothing in this package mutates a Program after Compile returns.
//
// The instruction set is a small bytecode in the Thompson/Pike tradition:
// consuming instructions (OpRune, OpRanges, OpBytes), control flow (OpSplit,
// OpJump), capture bookkeeping (OpSave), zero-width assertions (OpLook) and
// the terminal OpMatch. Split alternatives are ordered: Out is tried before
// Alt, which is what gives every engine leftmost-first (Perl) semantics.
package program

import (
	"fmt"
	"strings"

	"github.com/coregx/regexec/literal"
)

// Op identifies the kind of an instruction.
type Op uint8

const (
	// OpMatch ends a successful match attempt.
	OpMatch Op = iota

	// OpRune matches a single rune (character-mode programs only).
	OpRune

	// OpRanges matches a rune against a sorted list of inclusive ranges
	// (character-mode programs only).
	OpRanges

	// OpBytes matches a single byte in [Lo, Hi] (byte-mode programs only).
	OpBytes

	// OpSplit forks execution: Out is the preferred branch, Alt the fallback.
	OpSplit

	// OpJump transfers control to Out without consuming input.
	OpJump

	// OpSave records the current input position in capture slot Slot.
	OpSave

	// OpLook asserts a zero-width condition at the current position.
	OpLook
)

// String returns a human-readable opcode name.
func (op Op) String() string {
	switch op {
	case OpMatch:
		return "Match"
	case OpRune:
		return "Rune"
	case OpRanges:
		return "Ranges"
	case OpBytes:
		return "Bytes"
	case OpSplit:
		return "Split"
	case OpJump:
		return "Jump"
	case OpSave:
		return "Save"
	case OpLook:
		return "Look"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Look identifies a zero-width assertion.
type Look uint8

const (
	// LookBeginText asserts the position is the start of the text.
	LookBeginText Look = iota

	// LookEndText asserts the position is the end of the text.
	LookEndText

	// LookBeginLine asserts the position follows a newline or is position 0.
	LookBeginLine

	// LookEndLine asserts the position precedes a newline or is the end.
	LookEndLine

	// LookWordBoundary asserts a \b word boundary.
	LookWordBoundary

	// LookNoWordBoundary asserts a \B non-boundary.
	LookNoWordBoundary
)

// String returns a human-readable assertion name.
func (l Look) String() string {
	switch l {
	case LookBeginText:
		return "BeginText"
	case LookEndText:
		return "EndText"
	case LookBeginLine:
		return "BeginLine"
	case LookEndLine:
		return "EndLine"
	case LookWordBoundary:
		return "WordBoundary"
	case LookNoWordBoundary:
		return "NoWordBoundary"
	default:
		return fmt.Sprintf("Unknown(%d)", l)
	}
}

// Inst is a single program instruction. Which fields are meaningful depends
// on Op; unused fields are zero.
type Inst struct {
	Op Op

	// Out is the next program counter. For OpSplit it is the preferred
	// (higher priority) branch.
	Out uint32

	// Alt is the lower priority branch of OpSplit.
	Alt uint32

	// Slot is the capture slot written by OpSave. Slot 2*i and 2*i+1 hold
	// the start and end of group i.
	Slot int

	// Look is the assertion tested by OpLook.
	Look Look

	// Lo, Hi bound the byte range of OpBytes (inclusive).
	Lo, Hi byte

	// Rune is the rune matched by OpRune.
	Rune rune

	// Ranges holds inclusive rune range pairs [lo0, hi0, lo1, hi1, ...]
	// for OpRanges, sorted by lo.
	Ranges []rune
}

// MatchesRune reports whether the instruction accepts r. Valid only for
// OpRune and OpRanges.
func (i *Inst) MatchesRune(r rune) bool {
	switch i.Op {
	case OpRune:
		return r == i.Rune
	case OpRanges:
		for j := 0; j < len(i.Ranges); j += 2 {
			if r < i.Ranges[j] {
				return false
			}
			if r <= i.Ranges[j+1] {
				return true
			}
		}
		return false
	}
	return false
}

// MatchesByte reports whether the instruction accepts b. Valid only for
// OpBytes.
func (i *Inst) MatchesByte(b byte) bool {
	return i.Op == OpBytes && i.Lo <= b && b <= i.Hi
}

// String returns a human-readable form of the instruction.
func (i *Inst) String() string {
	switch i.Op {
	case OpMatch:
		return "Match"
	case OpRune:
		return fmt.Sprintf("Rune %q -> %d", i.Rune, i.Out)
	case OpRanges:
		var sb strings.Builder
		sb.WriteString("Ranges ")
		for j := 0; j < len(i.Ranges); j += 2 {
			if j > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%q-%q", i.Ranges[j], i.Ranges[j+1])
		}
		fmt.Fprintf(&sb, " -> %d", i.Out)
		return sb.String()
	case OpBytes:
		return fmt.Sprintf("Bytes 0x%02X-0x%02X -> %d", i.Lo, i.Hi, i.Out)
	case OpSplit:
		return fmt.Sprintf("Split -> %d, %d", i.Out, i.Alt)
	case OpJump:
		return fmt.Sprintf("Jump -> %d", i.Out)
	case OpSave:
		return fmt.Sprintf("Save %d -> %d", i.Slot, i.Out)
	case OpLook:
		return fmt.Sprintf("Look %s -> %d", i.Look, i.Out)
	default:
		return fmt.Sprintf("Unknown(%d)", i.Op)
	}
}

// Program is an immutable compiled pattern. It is produced once by a Builder
// and thereafter shared read-only by all searches.
type Program struct {
	insts        []Inst
	pattern      string
	captureNames []string
	prefixes     *literal.Seq
	searcher     *literal.Searcher
	start        uint32
	byteMode     bool
	reversed     bool
	hasPrefix    bool // embedded (?s:.)*? unanchored prefix
	onlyLiteral  bool // the whole pattern is its literal alternatives
}

// Insts returns the instruction sequence. Callers must not modify it.
func (p *Program) Insts() []Inst {
	return p.insts
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}

// Start returns the entry program counter.
func (p *Program) Start() uint32 {
	return p.start
}

// Pattern returns the original pattern text.
func (p *Program) Pattern() string {
	return p.pattern
}

// CaptureNames returns the ordered capture group names. Index 0 is always ""
// (the whole match); unnamed groups are "". Callers must not modify the
// returned slice.
func (p *Program) CaptureNames() []string {
	return p.captureNames
}

// NumCaptures returns the number of capture groups including group 0.
func (p *Program) NumCaptures() int {
	return len(p.captureNames)
}

// AllocCaptures returns a fresh capture buffer of length 2*NumCaptures()
// with every slot unset (-1).
func (p *Program) AllocCaptures() []int {
	caps := make([]int, 2*p.NumCaptures())
	for i := range caps {
		caps[i] = -1
	}
	return caps
}

// Prefixes returns the literal prefixes extracted from the pattern.
// The sequence is empty when no useful prefix exists.
func (p *Program) Prefixes() *literal.Seq {
	return p.prefixes
}

// PrefixSearcher returns a substring searcher over the literal prefixes,
// or nil when the program has no usable prefixes.
func (p *Program) PrefixSearcher() *literal.Searcher {
	return p.searcher
}

// IsLiteral reports whether the entire pattern is covered by its literal
// prefixes, making the literal searcher a complete engine for it.
func (p *Program) IsLiteral() bool {
	return p.onlyLiteral
}

// IsBytes reports whether the program uses byte-oriented addressing.
func (p *Program) IsBytes() bool {
	return p.byteMode
}

// IsReversed reports whether the program was compiled over the reversed
// pattern (used by the reverse DFA pass).
func (p *Program) IsReversed() bool {
	return p.reversed
}

// HasUnanchoredPrefix reports whether a leading (?s:.)*? loop is embedded,
// letting a single forward scan find matches starting anywhere.
func (p *Program) HasUnanchoredPrefix() bool {
	return p.hasPrefix
}

// String returns a listing of the program, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for pc := range p.insts {
		fmt.Fprintf(&sb, "%04d %s\n", pc, p.insts[pc].String())
	}
	return sb.String()
}

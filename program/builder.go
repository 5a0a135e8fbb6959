package program

import (
	"errors"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/regexec/internal/conv"
	"github.com/coregx/regexec/literal"
)

// DefaultSizeLimit is the default instruction budget for compiled programs.
// The limit is the single resource-control knob against pathological
// patterns such as huge bounded repetitions.
const DefaultSizeLimit = 65536

// Builder compiles a pattern into a Program.
//
// The zero configuration compiles a character-mode forward program.
// SizeLimit bounds the instruction count, Bytes
// switches to byte-oriented addressing, DFA lowers everything to byte
// instructions and embeds an unanchored (?s:.)*? prefix unless the pattern
// is start-anchored, Reverse compiles over the reversed pattern.
//
// Example:
//
//	prog, err := program.NewBuilder(`(foo|bar)\d+`).
//		SizeLimit(10000).
//		Compile()
type Builder struct {
	pattern   string
	sizeLimit int
	bytes     bool
	dfa       bool
	reverse   bool
}

// NewBuilder returns a builder for the given pattern with the default
// size limit.
func NewBuilder(pattern string) *Builder {
	return &Builder{
		pattern:   pattern,
		sizeLimit: DefaultSizeLimit,
	}
}

// SizeLimit sets the maximum number of instructions the compiled program
// may contain.
func (b *Builder) SizeLimit(n int) *Builder {
	b.sizeLimit = n
	return b
}

// Bytes selects byte-oriented addressing for the general program.
func (b *Builder) Bytes(on bool) *Builder {
	b.bytes = on
	return b
}

// DFA compiles a byte-mode program suitable for deterministic execution,
// with an embedded unanchored prefix unless the pattern is start-anchored.
func (b *Builder) DFA(on bool) *Builder {
	b.dfa = on
	return b
}

// Reverse compiles the program over the reversed pattern. Used together
// with DFA to recover match start offsets.
func (b *Builder) Reverse(on bool) *Builder {
	b.reverse = on
	return b
}

// Compile translates the pattern. It returns a *CompileError of kind
// Syntax when the pattern is invalid, or of kind SizeLimitExceeded when the
// compiled form would exceed the instruction budget. No partial program is
// ever returned.
func (b *Builder) Compile() (*Program, error) {
	re, err := syntax.Parse(b.pattern, syntax.Perl)
	if err != nil {
		kind := Syntax
		var perr *syntax.Error
		if errors.As(err, &perr) && perr.Code == syntax.ErrInvalidRepeatSize {
			// Oversized bounded repetitions are a resource failure, not a
			// grammar failure: they are exactly what the size limit guards.
			kind = SizeLimitExceeded
		}
		return nil, &CompileError{Kind: kind, Pattern: b.pattern, Cause: err}
	}

	maxCap := re.MaxCap()
	names := re.CapNames()
	if len(names) == 0 {
		names = make([]string, maxCap+1)
	}

	var prefixes *literal.Seq
	if !b.dfa && !b.reverse {
		prefixes = literal.NewExtractor(literal.DefaultExtractorConfig()).ExtractPrefixes(re)
	} else {
		prefixes = literal.NewSeq()
	}

	simplified := re.Simplify()

	c := &compiler{
		sizeLimit: b.sizeLimit,
		byteMode:  b.bytes || b.dfa,
		reverse:   b.reverse,
	}

	embedPrefix := b.dfa && !b.reverse && !isAnchoredStart(simplified)
	start, err := c.compileProgram(simplified, embedPrefix)
	if err != nil {
		return nil, &CompileError{Kind: SizeLimitExceeded, Pattern: b.pattern, Cause: err}
	}

	p := &Program{
		insts:        c.insts,
		pattern:      b.pattern,
		captureNames: names,
		prefixes:     prefixes,
		start:        start,
		byteMode:     b.bytes || b.dfa,
		reversed:     b.reverse,
		hasPrefix:    embedPrefix,
	}
	p.onlyLiteral = maxCap == 0 && prefixes.AllComplete() && prefixes.MinLen() > 0
	if !prefixes.IsEmpty() && prefixes.MinLen() > 0 {
		searcher, serr := literal.NewSearcher(prefixes)
		if serr == nil {
			p.searcher = searcher
		} else {
			p.onlyLiteral = false
		}
	}
	return p, nil
}

// isAnchoredStart reports whether every match of re must begin at the start
// of the text, making the unanchored DFA prefix unnecessary.
func isAnchoredStart(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpBeginText:
		return true
	case syntax.OpConcat:
		return len(re.Sub) > 0 && isAnchoredStart(re.Sub[0])
	case syntax.OpCapture, syntax.OpPlus:
		return len(re.Sub) > 0 && isAnchoredStart(re.Sub[0])
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			if !isAnchoredStart(sub) {
				return false
			}
		}
		return len(re.Sub) > 0
	default:
		return false
	}
}

// isNullable reports whether re can match the empty string.
func isNullable(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpEmptyMatch, syntax.OpStar, syntax.OpQuest,
		syntax.OpBeginText, syntax.OpEndText,
		syntax.OpBeginLine, syntax.OpEndLine,
		syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return true
	case syntax.OpLiteral:
		return len(re.Rune) == 0
	case syntax.OpCapture, syntax.OpPlus:
		return isNullable(re.Sub[0])
	case syntax.OpRepeat:
		return re.Min == 0 || isNullable(re.Sub[0])
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if !isNullable(sub) {
				return false
			}
		}
		return true
	case syntax.OpAlternate:
		for _, sub := range re.Sub {
			if isNullable(sub) {
				return true
			}
		}
		return false
	}
	return false
}

var errSizeLimit = errors.New("program size limit exceeded")

// patchSide selects which field of an instruction a patch ref targets.
type patchSide uint8

const (
	patchOut patchSide = iota
	patchAlt
)

type patchRef struct {
	pc   uint32
	side patchSide
}

// frag is a compiled fragment: an entry point plus the dangling exits that
// the next fragment must be patched into.
type frag struct {
	start uint32
	out   []patchRef
}

type compiler struct {
	insts     []Inst
	sizeLimit int
	byteMode  bool
	reverse   bool
}

func (c *compiler) emit(inst Inst) (uint32, error) {
	if len(c.insts) >= c.sizeLimit {
		return 0, errSizeLimit
	}
	pc := conv.IntToUint32(len(c.insts))
	c.insts = append(c.insts, inst)
	return pc, nil
}

func (c *compiler) patch(refs []patchRef, to uint32) {
	for _, ref := range refs {
		if ref.side == patchOut {
			c.insts[ref.pc].Out = to
		} else {
			c.insts[ref.pc].Alt = to
		}
	}
}

// compileProgram assembles Save(0) <pattern> Save(1) Match, optionally
// preceded by the unanchored any-byte prefix, and returns the entry pc.
func (c *compiler) compileProgram(re *syntax.Regexp, embedPrefix bool) (uint32, error) {
	var prefixSplit uint32
	if embedPrefix {
		// L0: Split -> body, L1    (prefer leaving the loop: leftmost-first)
		// L1: Bytes 00-FF -> L0
		pc0, err := c.emit(Inst{Op: OpSplit})
		if err != nil {
			return 0, err
		}
		pc1, err := c.emit(Inst{Op: OpBytes, Lo: 0, Hi: 0xFF, Out: pc0})
		if err != nil {
			return 0, err
		}
		c.insts[pc0].Alt = pc1
		prefixSplit = pc0
	}

	pcSave0, err := c.emit(Inst{Op: OpSave, Slot: 0})
	if err != nil {
		return 0, err
	}
	f, err := c.compile(re)
	if err != nil {
		return 0, err
	}
	c.insts[pcSave0].Out = f.start
	pcSave1, err := c.emit(Inst{Op: OpSave, Slot: 1})
	if err != nil {
		return 0, err
	}
	c.patch(f.out, pcSave1)
	pcMatch, err := c.emit(Inst{Op: OpMatch})
	if err != nil {
		return 0, err
	}
	c.insts[pcSave1].Out = pcMatch

	if embedPrefix {
		c.insts[prefixSplit].Out = pcSave0
		return prefixSplit, nil
	}
	return pcSave0, nil
}

//nolint:gocyclo // dispatch over the syntax tree is inherently wide
func (c *compiler) compile(re *syntax.Regexp) (frag, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return c.emitFail()
	case syntax.OpEmptyMatch:
		return c.emitNop()
	case syntax.OpLiteral:
		return c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
	case syntax.OpCharClass:
		return c.compileClass(re.Rune)
	case syntax.OpAnyChar:
		return c.compileClass([]rune{0, unicode.MaxRune})
	case syntax.OpAnyCharNotNL:
		return c.compileClass([]rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune})
	case syntax.OpBeginText:
		return c.compileLook(LookBeginText)
	case syntax.OpEndText:
		return c.compileLook(LookEndText)
	case syntax.OpBeginLine:
		return c.compileLook(LookBeginLine)
	case syntax.OpEndLine:
		return c.compileLook(LookEndLine)
	case syntax.OpWordBoundary:
		return c.compileLook(LookWordBoundary)
	case syntax.OpNoWordBoundary:
		return c.compileLook(LookNoWordBoundary)
	case syntax.OpCapture:
		return c.compileCapture(re)
	case syntax.OpConcat:
		return c.compileConcat(re.Sub)
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpRepeat:
		return c.compileRepeat(re)
	default:
		// Parse with syntax.Perl produces no other ops.
		return c.emitFail()
	}
}

// emitFail produces a fragment that can never match: an empty range set.
func (c *compiler) emitFail() (frag, error) {
	pc, err := c.emit(Inst{Op: OpRanges, Ranges: nil})
	if err != nil {
		return frag{}, err
	}
	return frag{start: pc, out: nil}, nil
}

// emitNop produces an empty-width fragment via an unpatched jump.
func (c *compiler) emitNop() (frag, error) {
	pc, err := c.emit(Inst{Op: OpJump})
	if err != nil {
		return frag{}, err
	}
	return frag{start: pc, out: []patchRef{{pc, patchOut}}}, nil
}

func (c *compiler) compileLook(look Look) (frag, error) {
	if c.reverse {
		switch look {
		case LookBeginText:
			look = LookEndText
		case LookEndText:
			look = LookBeginText
		case LookBeginLine:
			look = LookEndLine
		case LookEndLine:
			look = LookBeginLine
		}
	}
	pc, err := c.emit(Inst{Op: OpLook, Look: look})
	if err != nil {
		return frag{}, err
	}
	return frag{start: pc, out: []patchRef{{pc, patchOut}}}, nil
}

func (c *compiler) compileLiteral(runes []rune, fold bool) (frag, error) {
	if len(runes) == 0 {
		return c.emitNop()
	}
	frags := make([]frag, 0, len(runes))
	for i := range runes {
		r := runes[i]
		if c.reverse {
			r = runes[len(runes)-1-i]
		}
		var f frag
		var err error
		if fold {
			f, err = c.compileClass(foldRanges(r))
		} else {
			f, err = c.compileRune(r)
		}
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, f)
	}
	return c.cat(frags), nil
}

// compileRune emits the instructions matching a single rune, honouring the
// addressing mode and compile direction.
func (c *compiler) compileRune(r rune) (frag, error) {
	if !c.byteMode {
		pc, err := c.emit(Inst{Op: OpRune, Rune: r})
		if err != nil {
			return frag{}, err
		}
		return frag{start: pc, out: []patchRef{{pc, patchOut}}}, nil
	}
	var buf [4]byte
	n := utf8.EncodeRune(buf[:], r)
	frags := make([]frag, 0, n)
	for i := 0; i < n; i++ {
		b := buf[i]
		if c.reverse {
			// Reversed programs consume the encoding back to front.
			b = buf[n-1-i]
		}
		pc, err := c.emit(Inst{Op: OpBytes, Lo: b, Hi: b})
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, frag{start: pc, out: []patchRef{{pc, patchOut}}})
	}
	return c.cat(frags), nil
}

// compileClass emits a character class given inclusive rune range pairs.
func (c *compiler) compileClass(ranges []rune) (frag, error) {
	if !c.byteMode {
		rs := make([]rune, len(ranges))
		copy(rs, ranges)
		pc, err := c.emit(Inst{Op: OpRanges, Ranges: rs})
		if err != nil {
			return frag{}, err
		}
		return frag{start: pc, out: []patchRef{{pc, patchOut}}}, nil
	}

	// Byte mode: lower each rune range to UTF-8 byte sequences and
	// alternate the resulting byte chains.
	var frags []frag
	for i := 0; i < len(ranges); i += 2 {
		for _, seq := range utf8Sequences(ranges[i], ranges[i+1]) {
			f, err := c.compileByteSeq(seq)
			if err != nil {
				return frag{}, err
			}
			frags = append(frags, f)
		}
	}
	if len(frags) == 0 {
		return c.emitFail()
	}
	return c.alt(frags)
}

func (c *compiler) compileByteSeq(seq utf8Sequence) (frag, error) {
	frags := make([]frag, 0, len(seq))
	for i := range seq {
		br := seq[i]
		if c.reverse {
			br = seq[len(seq)-1-i]
		}
		pc, err := c.emit(Inst{Op: OpBytes, Lo: br.lo, Hi: br.hi})
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, frag{start: pc, out: []patchRef{{pc, patchOut}}})
	}
	return c.cat(frags), nil
}

func (c *compiler) compileCapture(re *syntax.Regexp) (frag, error) {
	openSlot, closeSlot := 2*re.Cap, 2*re.Cap+1
	if c.reverse {
		openSlot, closeSlot = closeSlot, openSlot
	}
	pcOpen, err := c.emit(Inst{Op: OpSave, Slot: openSlot})
	if err != nil {
		return frag{}, err
	}
	sub, err := c.compile(re.Sub[0])
	if err != nil {
		return frag{}, err
	}
	c.insts[pcOpen].Out = sub.start
	pcClose, err := c.emit(Inst{Op: OpSave, Slot: closeSlot})
	if err != nil {
		return frag{}, err
	}
	c.patch(sub.out, pcClose)
	return frag{start: pcOpen, out: []patchRef{{pcClose, patchOut}}}, nil
}

func (c *compiler) compileConcat(subs []*syntax.Regexp) (frag, error) {
	if len(subs) == 0 {
		return c.emitNop()
	}
	frags := make([]frag, 0, len(subs))
	if c.reverse {
		for i := len(subs) - 1; i >= 0; i-- {
			f, err := c.compile(subs[i])
			if err != nil {
				return frag{}, err
			}
			frags = append(frags, f)
		}
	} else {
		for _, sub := range subs {
			f, err := c.compile(sub)
			if err != nil {
				return frag{}, err
			}
			frags = append(frags, f)
		}
	}
	return c.cat(frags), nil
}

// cat chains fragments in emission order; each fragment's exits are patched
// to the next fragment's entry.
func (c *compiler) cat(frags []frag) frag {
	out := frags[0]
	for _, next := range frags[1:] {
		c.patch(out.out, next.start)
		out = frag{start: out.start, out: next.out}
	}
	return out
}

// alt builds a split chain over the fragments; earlier fragments win ties.
func (c *compiler) alt(frags []frag) (frag, error) {
	if len(frags) == 1 {
		return frags[0], nil
	}
	// Build right-leaning: Split(f0, Split(f1, ... fn)).
	cur := frags[len(frags)-1]
	for i := len(frags) - 2; i >= 0; i-- {
		pc, err := c.emit(Inst{Op: OpSplit, Out: frags[i].start, Alt: cur.start})
		if err != nil {
			return frag{}, err
		}
		merged := make([]patchRef, 0, len(frags[i].out)+len(cur.out))
		merged = append(merged, frags[i].out...)
		merged = append(merged, cur.out...)
		cur = frag{start: pc, out: merged}
	}
	return cur, nil
}

func (c *compiler) compileAlternate(subs []*syntax.Regexp) (frag, error) {
	frags := make([]frag, 0, len(subs))
	for _, sub := range subs {
		f, err := c.compile(sub)
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, f)
	}
	if len(frags) == 0 {
		return c.emitNop()
	}
	return c.alt(frags)
}

func (c *compiler) compileStar(sub *syntax.Regexp, nonGreedy bool) (frag, error) {
	if isNullable(sub) {
		// A body that can match empty still runs once before the loop may
		// exit, so x* compiles as (x+)?: the exit split sits after the
		// body and capture writes from an empty pass reach the match.
		// Re-entering the body on an empty pass is cut by the engines'
		// per-position deduplication.
		f, err := c.compilePlus(sub, nonGreedy)
		if err != nil {
			return frag{}, err
		}
		pcSplit, err := c.emit(Inst{Op: OpSplit})
		if err != nil {
			return frag{}, err
		}
		if nonGreedy {
			c.insts[pcSplit].Alt = f.start
			return frag{start: pcSplit, out: append([]patchRef{{pcSplit, patchOut}}, f.out...)}, nil
		}
		c.insts[pcSplit].Out = f.start
		return frag{start: pcSplit, out: append([]patchRef{{pcSplit, patchAlt}}, f.out...)}, nil
	}

	pcSplit, err := c.emit(Inst{Op: OpSplit})
	if err != nil {
		return frag{}, err
	}
	f, err := c.compile(sub)
	if err != nil {
		return frag{}, err
	}
	c.patch(f.out, pcSplit)
	if nonGreedy {
		c.insts[pcSplit].Alt = f.start
		return frag{start: pcSplit, out: []patchRef{{pcSplit, patchOut}}}, nil
	}
	c.insts[pcSplit].Out = f.start
	return frag{start: pcSplit, out: []patchRef{{pcSplit, patchAlt}}}, nil
}

func (c *compiler) compilePlus(sub *syntax.Regexp, nonGreedy bool) (frag, error) {
	f, err := c.compile(sub)
	if err != nil {
		return frag{}, err
	}
	pcSplit, err := c.emit(Inst{Op: OpSplit})
	if err != nil {
		return frag{}, err
	}
	c.patch(f.out, pcSplit)
	if nonGreedy {
		c.insts[pcSplit].Alt = f.start
		return frag{start: f.start, out: []patchRef{{pcSplit, patchOut}}}, nil
	}
	c.insts[pcSplit].Out = f.start
	return frag{start: f.start, out: []patchRef{{pcSplit, patchAlt}}}, nil
}

func (c *compiler) compileQuest(sub *syntax.Regexp, nonGreedy bool) (frag, error) {
	pcSplit, err := c.emit(Inst{Op: OpSplit})
	if err != nil {
		return frag{}, err
	}
	f, err := c.compile(sub)
	if err != nil {
		return frag{}, err
	}
	if nonGreedy {
		c.insts[pcSplit].Alt = f.start
		out := append([]patchRef{{pcSplit, patchOut}}, f.out...)
		return frag{start: pcSplit, out: out}, nil
	}
	c.insts[pcSplit].Out = f.start
	out := append([]patchRef{{pcSplit, patchAlt}}, f.out...)
	return frag{start: pcSplit, out: out}, nil
}

// compileRepeat expands x{min,max}. syntax.Regexp.Simplify removes most
// repeats, but the expansion is kept as a guard with an explicit budget
// check so huge counts fail with a size error before allocating anything.
func (c *compiler) compileRepeat(re *syntax.Regexp) (frag, error) {
	minCount, maxCount := re.Min, re.Max
	if minCount > c.sizeLimit || maxCount > c.sizeLimit {
		return frag{}, errSizeLimit
	}
	sub := re.Sub[0]
	nonGreedy := re.Flags&syntax.NonGreedy != 0

	var frags []frag
	for i := 0; i < minCount; i++ {
		f, err := c.compile(sub)
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, f)
	}
	switch {
	case maxCount == -1:
		f, err := c.compileStar(sub, nonGreedy)
		if err != nil {
			return frag{}, err
		}
		frags = append(frags, f)
	case maxCount > minCount:
		for i := minCount; i < maxCount; i++ {
			f, err := c.compileQuest(sub, nonGreedy)
			if err != nil {
				return frag{}, err
			}
			frags = append(frags, f)
		}
	}
	if len(frags) == 0 {
		return c.emitNop()
	}
	return c.cat(frags), nil
}

// foldRanges returns the sorted singleton ranges of r's simple case fold
// orbit.
func foldRanges(r rune) []rune {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	// Insertion sort; orbits have at most a handful of members.
	for i := 1; i < len(orbit); i++ {
		j := i
		for j > 0 && orbit[j] < orbit[j-1] {
			orbit[j], orbit[j-1] = orbit[j-1], orbit[j]
			j--
		}
	}
	ranges := make([]rune, 0, 2*len(orbit))
	for _, f := range orbit {
		ranges = append(ranges, f, f)
	}
	return ranges
}

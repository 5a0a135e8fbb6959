package literal

import (
	"regexp/syntax"
)

// ExtractorConfig bounds literal extraction.
//
// Limits keep extraction cheap on pathological patterns: wide alternations
// would otherwise produce unbounded literal sets, and concatenations of
// alternations grow multiplicatively.
type ExtractorConfig struct {
	// MaxLiterals caps the number of extracted alternatives. Default: 64.
	MaxLiterals int

	// MaxLiteralLen caps the byte length of each alternative. Default: 64.
	MaxLiteralLen int
}

// DefaultExtractorConfig returns the default extraction limits.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
	}
}

// Extractor derives prefix literals from a parsed pattern.
//
// The result is a Seq whose literals are, in priority order, the byte
// sequences any match must start with. When every literal is Complete the
// sequence describes the entire pattern and substring search alone decides
// a match.
type Extractor struct {
	config ExtractorConfig
}

// NewExtractor returns an extractor with the given limits.
func NewExtractor(config ExtractorConfig) *Extractor {
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = 64
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = 64
	}
	return &Extractor{config: config}
}

// ExtractPrefixes returns the literal prefixes of re. The returned sequence
// is empty when no useful prefix exists (for example when the pattern starts
// with a repetition or a large character class).
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	seq := e.extract(re)
	if seq == nil {
		return NewSeq()
	}
	return seq
}

// extract returns the literal alternatives of re, or nil when re cannot be
// usefully described by literals.
func (e *Extractor) extract(re *syntax.Regexp) *Seq {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			// Folded literals would need case expansion; bail out.
			return nil
		}
		s := NewSeq()
		b := []byte(string(re.Rune))
		if len(b) > e.config.MaxLiteralLen {
			b = b[:e.config.MaxLiteralLen]
			s.Push(Literal{Bytes: b, Complete: false})
			return s
		}
		s.Push(Literal{Bytes: b, Complete: true})
		return s

	case syntax.OpEmptyMatch:
		s := NewSeq()
		s.Push(Literal{Bytes: nil, Complete: true})
		return s

	case syntax.OpCharClass:
		return e.extractClass(re.Rune)

	case syntax.OpCapture:
		return e.extract(re.Sub[0])

	case syntax.OpConcat:
		return e.extractConcat(re.Sub)

	case syntax.OpAlternate:
		return e.extractAlternate(re.Sub)

	default:
		return nil
	}
}

// extractClass expands a character class into one literal per rune, in
// range order. Classes wider than MaxLiterals have no useful literal form.
func (e *Extractor) extractClass(ranges []rune) *Seq {
	s := NewSeq()
	for i := 0; i < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if int(hi)-int(lo)+1 > e.config.MaxLiterals-s.Len() {
			return nil
		}
		for r := lo; r <= hi; r++ {
			s.Push(Literal{Bytes: []byte(string(r)), Complete: true})
		}
	}
	if s.IsEmpty() {
		return nil
	}
	return s
}

func (e *Extractor) extractConcat(subs []*syntax.Regexp) *Seq {
	if len(subs) == 0 {
		return nil
	}
	acc := e.extract(subs[0])
	if acc == nil {
		return nil
	}
	for _, sub := range subs[1:] {
		if !acc.AllComplete() {
			// Earlier element already truncated: the literals stay
			// prefixes regardless of what follows.
			return acc
		}
		next := e.extract(sub)
		if next == nil {
			// Non-literal tail: keep what we have as prefixes.
			acc.MakeInexact()
			return acc
		}
		crossed, ok := e.cross(acc, next)
		if !ok {
			acc.MakeInexact()
			return acc
		}
		acc = crossed
	}
	return acc
}

// cross concatenates every literal in a with every literal in b, preserving
// priority order (a-major). Fails when the product exceeds the limits.
func (e *Extractor) cross(a, b *Seq) (*Seq, bool) {
	if a.Len()*b.Len() > e.config.MaxLiterals {
		return nil, false
	}
	out := NewSeq()
	for i := 0; i < a.Len(); i++ {
		for j := 0; j < b.Len(); j++ {
			la, lb := a.Get(i), b.Get(j)
			joined := make([]byte, 0, la.Len()+lb.Len())
			joined = append(joined, la.Bytes...)
			joined = append(joined, lb.Bytes...)
			if len(joined) > e.config.MaxLiteralLen {
				return nil, false
			}
			out.Push(Literal{Bytes: joined, Complete: la.Complete && lb.Complete})
		}
	}
	return out, true
}

func (e *Extractor) extractAlternate(subs []*syntax.Regexp) *Seq {
	out := NewSeq()
	for _, sub := range subs {
		s := e.extract(sub)
		if s == nil || s.IsEmpty() {
			// One alternative with no literal form poisons the union.
			return nil
		}
		for i := 0; i < s.Len(); i++ {
			if out.Len() >= e.config.MaxLiterals {
				return nil
			}
			out.Push(s.Get(i))
		}
	}
	return out
}

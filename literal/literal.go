// Package literal extracts and searches literal byte sequences from regex
// patterns.
//
// A pattern like `foo|bar` is fully described by its literal alternatives;
// one like `foo\d+` only guarantees the prefix "foo". The extractor walks a
// regexp/syntax tree and produces a Seq of alternatives; the Searcher turns
// a Seq into a substring scanner, using plain bytes.Index for a single
// literal and an Aho-Corasick automaton for several.
package literal

import "fmt"

// Literal is one byte-sequence alternative extracted from a pattern.
type Literal struct {
	// Bytes is the literal byte sequence.
	Bytes []byte

	// Complete is true when matching Bytes is a complete match of the
	// sub-pattern it was extracted from, not just a required prefix.
	Complete bool
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a debugging form of the literal.
func (l Literal) String() string {
	return fmt.Sprintf("literal{%q, complete=%v}", l.Bytes, l.Complete)
}

// Seq is an ordered set of literal alternatives. Order matters: earlier
// literals correspond to earlier pattern alternatives and therefore carry
// higher match priority.
type Seq struct {
	lits []Literal
}

// NewSeq returns an empty sequence.
func NewSeq() *Seq {
	return &Seq{}
}

// Push appends a literal to the sequence.
func (s *Seq) Push(lit Literal) {
	s.lits = append(s.lits, lit)
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	return len(s.lits)
}

// IsEmpty reports whether the sequence holds no literals.
func (s *Seq) IsEmpty() bool {
	return len(s.lits) == 0
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.lits[i]
}

// AllComplete reports whether every literal is complete, i.e. the sequence
// describes the whole pattern rather than a set of required prefixes.
func (s *Seq) AllComplete() bool {
	if len(s.lits) == 0 {
		return false
	}
	for _, lit := range s.lits {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// MakeInexact clears the Complete flag on every literal. Used when a
// required suffix follows the extracted prefixes.
func (s *Seq) MakeInexact() {
	for i := range s.lits {
		s.lits[i].Complete = false
	}
}

// MinLen returns the length of the shortest literal, or 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if len(s.lits) == 0 {
		return 0
	}
	minLen := s.lits[0].Len()
	for _, lit := range s.lits[1:] {
		if lit.Len() < minLen {
			minLen = lit.Len()
		}
	}
	return minLen
}

// String returns a debugging form of the sequence.
func (s *Seq) String() string {
	return fmt.Sprintf("seq%v", s.lits)
}

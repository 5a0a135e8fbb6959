package literal

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// Searcher performs substring search over a literal sequence.
//
// One literal uses bytes.Index directly. Several literals share an
// Aho-Corasick automaton built once at construction; its leftmost match
// semantics line up with the priority order of the sequence.
type Searcher struct {
	single []byte
	auto   *ahocorasick.Automaton
}

// NewSearcher builds a searcher for the given sequence. The sequence must
// be non-empty and must not contain an empty literal (an empty needle would
// match everywhere; callers route such patterns to a real engine instead).
func NewSearcher(seq *Seq) (*Searcher, error) {
	if seq.IsEmpty() {
		return nil, errEmptySeq
	}
	for i := 0; i < seq.Len(); i++ {
		if seq.Get(i).Len() == 0 {
			return nil, errEmptyLiteral
		}
	}

	if seq.Len() == 1 {
		return &Searcher{single: seq.Get(0).Bytes}, nil
	}

	builder := ahocorasick.NewBuilder()
	for i := 0; i < seq.Len(); i++ {
		builder.AddPattern(seq.Get(i).Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &Searcher{auto: auto}, nil
}

// Find returns the span of the first literal occurrence at or after 'at'.
// Offsets are absolute within haystack. ok is false when no literal occurs.
func (s *Searcher) Find(haystack []byte, at int) (start, end int, ok bool) {
	if at > len(haystack) {
		return 0, 0, false
	}
	if s.single != nil {
		i := bytes.Index(haystack[at:], s.single)
		if i < 0 {
			return 0, 0, false
		}
		return at + i, at + i + len(s.single), true
	}
	m := s.auto.Find(haystack, at)
	if m == nil {
		return 0, 0, false
	}
	return m.Start, m.End, true
}

type searcherError string

func (e searcherError) Error() string { return string(e) }

const (
	errEmptySeq     = searcherError("literal: empty sequence")
	errEmptyLiteral = searcherError("literal: empty literal in sequence")
)

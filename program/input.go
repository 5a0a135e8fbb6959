package program

import (
	"regexp/syntax"
	"unicode/utf8"
)

// EndOfText is returned by Step at or past the end of the input.
const EndOfText rune = -1

// Input abstracts the text being searched so the same engines can drive
// byte-mode and character-mode programs. An Input never outlives the search
// call that created it, and engines never retain one.
type Input interface {
	// Len returns the length of the text in bytes.
	Len() int

	// Step returns the token starting at byte offset pos and its width in
	// bytes. At or past the end it returns (EndOfText, 0).
	Step(pos int) (r rune, width int)

	// Assert reports whether the zero-width assertion holds at pos.
	Assert(look Look, pos int) bool
}

// ByteInput addresses the text one byte at a time. Word characters for
// \b and \B are the ASCII set [0-9A-Za-z_].
type ByteInput struct {
	text []byte
}

// NewByteInput returns a byte-oriented view of text.
func NewByteInput(text []byte) ByteInput {
	return ByteInput{text: text}
}

// Len returns the text length in bytes.
func (in ByteInput) Len() int {
	return len(in.text)
}

// Step returns the byte at pos as a rune of width 1.
func (in ByteInput) Step(pos int) (rune, int) {
	if pos < 0 || pos >= len(in.text) {
		return EndOfText, 0
	}
	return rune(in.text[pos]), 1
}

// Assert reports whether look holds at pos, using ASCII word characters.
func (in ByteInput) Assert(look Look, pos int) bool {
	switch look {
	case LookBeginText:
		return pos == 0
	case LookEndText:
		return pos == len(in.text)
	case LookBeginLine:
		return pos == 0 || in.text[pos-1] == '\n'
	case LookEndLine:
		return pos == len(in.text) || in.text[pos] == '\n'
	case LookWordBoundary:
		return in.wordBefore(pos) != in.wordAfter(pos)
	case LookNoWordBoundary:
		return in.wordBefore(pos) == in.wordAfter(pos)
	}
	return false
}

func (in ByteInput) wordBefore(pos int) bool {
	return pos > 0 && isWordByte(in.text[pos-1])
}

func (in ByteInput) wordAfter(pos int) bool {
	return pos < len(in.text) && isWordByte(in.text[pos])
}

func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('A' <= b && b <= 'Z') ||
		('a' <= b && b <= 'z')
}

// CharInput addresses the text one decoded rune at a time. Word characters
// for \b and \B are the ASCII set [0-9A-Za-z_], as in regexp/syntax: the
// views differ only in token decoding, never in assertions.
type CharInput struct {
	text []byte
}

// NewCharInput returns a character-oriented view of text.
func NewCharInput(text []byte) CharInput {
	return CharInput{text: text}
}

// Len returns the text length in bytes.
func (in CharInput) Len() int {
	return len(in.text)
}

// Step decodes the rune starting at pos and returns it with its width.
func (in CharInput) Step(pos int) (rune, int) {
	if pos < 0 || pos >= len(in.text) {
		return EndOfText, 0
	}
	r, width := utf8.DecodeRune(in.text[pos:])
	return r, width
}

// Assert reports whether look holds at pos, using ASCII word characters.
func (in CharInput) Assert(look Look, pos int) bool {
	switch look {
	case LookBeginText:
		return pos == 0
	case LookEndText:
		return pos == len(in.text)
	case LookBeginLine:
		return pos == 0 || in.text[pos-1] == '\n'
	case LookEndLine:
		return pos == len(in.text) || in.text[pos] == '\n'
	case LookWordBoundary:
		return in.wordBefore(pos) != in.wordAfter(pos)
	case LookNoWordBoundary:
		return in.wordBefore(pos) == in.wordAfter(pos)
	}
	return false
}

func (in CharInput) wordBefore(pos int) bool {
	if pos <= 0 {
		return false
	}
	r, _ := utf8.DecodeLastRune(in.text[:pos])
	return syntax.IsWordChar(r)
}

func (in CharInput) wordAfter(pos int) bool {
	if pos >= len(in.text) {
		return false
	}
	r, _ := utf8.DecodeRune(in.text[pos:])
	return syntax.IsWordChar(r)
}

package program

import "unicode/utf8"

// byteRange is an inclusive range of byte values.
type byteRange struct {
	lo, hi byte
}

// utf8Sequence is a sequence of 1-4 byte ranges that together match the
// UTF-8 encodings of a contiguous range of scalar values. For example the
// rune range U+0000-U+FFFF lowers to sequences like
// [0x00-0x7F], [0xC2-0xDF][0x80-0xBF], [0xE0][0xA0-0xBF][0x80-0xBF], ...
type utf8Sequence []byteRange

type scalarRange struct {
	start, end rune
}

// split separates a range straddling the surrogate gap. Scalar values in
// U+D800-U+DFFF have no UTF-8 encoding.
func (r scalarRange) split() (scalarRange, scalarRange, bool) {
	if r.start < 0xE000 && r.end > 0xD7FF {
		return scalarRange{r.start, 0xD7FF}, scalarRange{0xE000, r.end}, true
	}
	return scalarRange{}, scalarRange{}, false
}

func (r scalarRange) valid() bool {
	return !(r.start >= 0xD800 && r.end <= 0xDFFF)
}

func maxScalarValue(nbytes int) rune {
	switch nbytes {
	case 1:
		return 0x7F
	case 2:
		return 0x7FF
	case 3:
		return 0xFFFF
	default:
		return utf8.MaxRune
	}
}

// utf8Sequences lowers the inclusive rune range [lo, hi] to byte-range
// sequences. Each returned sequence matches a distinct slice of the range;
// together they match exactly the UTF-8 encodings of every valid scalar in
// [lo, hi]. The sequences are returned in ascending scalar order.
//
// This is the on-demand analogue of a precomputed UTF-8 automaton: the
// builder alternates the sequences to produce byte-mode instructions.
func utf8Sequences(lo, hi rune) []utf8Sequence {
	if hi > utf8.MaxRune {
		hi = utf8.MaxRune
	}
	if lo > hi {
		return nil
	}

	var seqs []utf8Sequence
	stack := []scalarRange{{lo, hi}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

	attempt:
		for {
			if r1, r2, ok := r.split(); ok {
				stack = append(stack, r2)
				r = r1
				continue
			}
			if !r.valid() {
				break
			}
			// Split so both endpoints encode to the same byte length.
			for i := 1; i < 4; i++ {
				max := maxScalarValue(i)
				if r.start <= max && max < r.end {
					stack = append(stack, scalarRange{max + 1, r.end})
					r.end = max
					continue attempt
				}
			}
			if r.end <= 0x7F {
				seqs = append(seqs, utf8Sequence{{byte(r.start), byte(r.end)}})
				break
			}
			// Split on continuation-byte alignment so that trailing byte
			// ranges always cover full 0x80-0xBF spans.
			for i := 1; i < 4; i++ {
				m := rune(1)<<(6*uint(i)) - 1
				if (r.start & ^m) != (r.end & ^m) {
					if (r.start & m) != 0 {
						stack = append(stack, scalarRange{(r.start | m) + 1, r.end})
						r.end = r.start | m
						continue attempt
					}
					if (r.end & m) != m {
						stack = append(stack, scalarRange{r.end & ^m, r.end})
						r.end = (r.end & ^m) - 1
						continue attempt
					}
				}
			}
			var startBuf, endBuf [4]byte
			n := utf8.EncodeRune(startBuf[:], r.start)
			m := utf8.EncodeRune(endBuf[:], r.end)
			seq := make(utf8Sequence, n)
			for i := 0; i < n; i++ {
				seq[i] = byteRange{startBuf[i], endBuf[i]}
			}
			_ = m // both ends encode to the same length by construction
			seqs = append(seqs, seq)
			break
		}
	}

	// Ascending scalar order keeps byte-mode alternation priority aligned
	// with the character-mode range order.
	sortSequences(seqs)
	return seqs
}

func sortSequences(seqs []utf8Sequence) {
	// Insertion sort: the splitter produces nearly sorted output and the
	// sequence count per range is tiny (at most a few dozen).
	for i := 1; i < len(seqs); i++ {
		j := i
		for j > 0 && seqLess(seqs[j], seqs[j-1]) {
			seqs[j], seqs[j-1] = seqs[j-1], seqs[j]
			j--
		}
	}
}

func seqLess(a, b utf8Sequence) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for i := range a {
		if a[i].lo != b[i].lo {
			return a[i].lo < b[i].lo
		}
	}
	return false
}

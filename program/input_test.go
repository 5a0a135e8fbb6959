package program

import "testing"

func TestByteInputStep(t *testing.T) {
	in := NewByteInput([]byte("ab\xff"))
	tests := []struct {
		pos       int
		wantR     rune
		wantWidth int
	}{
		{0, 'a', 1},
		{1, 'b', 1},
		{2, 0xff, 1}, // raw byte, not a decoded rune
		{3, EndOfText, 0},
		{-1, EndOfText, 0},
	}
	for _, tt := range tests {
		r, w := in.Step(tt.pos)
		if r != tt.wantR || w != tt.wantWidth {
			t.Errorf("Step(%d) = (%d, %d), want (%d, %d)", tt.pos, r, w, tt.wantR, tt.wantWidth)
		}
	}
}

func TestCharInputStep(t *testing.T) {
	text := []byte("aé€")
	in := NewCharInput(text)
	r, w := in.Step(0)
	if r != 'a' || w != 1 {
		t.Errorf("Step(0) = (%q, %d), want ('a', 1)", r, w)
	}
	r, w = in.Step(1)
	if r != 'é' || w != 2 {
		t.Errorf("Step(1) = (%q, %d), want ('é', 2)", r, w)
	}
	r, w = in.Step(3)
	if r != '€' || w != 3 {
		t.Errorf("Step(3) = (%q, %d), want ('€', 3)", r, w)
	}
	if r, _ := in.Step(len(text)); r != EndOfText {
		t.Errorf("Step(len) = %d, want EndOfText", r)
	}
}

func TestAssertTextAndLine(t *testing.T) {
	text := []byte("ab\ncd")
	for _, in := range []Input{NewByteInput(text), NewCharInput(text)} {
		if !in.Assert(LookBeginText, 0) || in.Assert(LookBeginText, 1) {
			t.Errorf("%T: LookBeginText wrong", in)
		}
		if !in.Assert(LookEndText, 5) || in.Assert(LookEndText, 4) {
			t.Errorf("%T: LookEndText wrong", in)
		}
		if !in.Assert(LookBeginLine, 3) || in.Assert(LookBeginLine, 4) {
			t.Errorf("%T: LookBeginLine wrong", in)
		}
		if !in.Assert(LookEndLine, 2) || !in.Assert(LookEndLine, 5) || in.Assert(LookEndLine, 1) {
			t.Errorf("%T: LookEndLine wrong", in)
		}
	}
}

func TestAssertWordBoundary(t *testing.T) {
	text := []byte("a_1 x")
	in := NewByteInput(text)
	wantBoundary := map[int]bool{0: true, 1: false, 2: false, 3: true, 4: true, 5: true}
	for pos, want := range wantBoundary {
		if got := in.Assert(LookWordBoundary, pos); got != want {
			t.Errorf("ByteInput \\b at %d = %v, want %v", pos, got, want)
		}
		if got := in.Assert(LookNoWordBoundary, pos); got == want {
			t.Errorf("ByteInput \\B at %d = %v, want %v", pos, got, !want)
		}
	}
}

func TestAssertWordBoundaryNonASCII(t *testing.T) {
	// \b uses ASCII word characters in both views, matching regexp/syntax:
	// é is not a word character even when decoded as a rune.
	text := []byte("aé")
	for _, in := range []Input{NewByteInput(text), NewCharInput(text)} {
		if !in.Assert(LookWordBoundary, 0) {
			t.Errorf("%T: \\b should hold before a", in)
		}
		if !in.Assert(LookWordBoundary, 1) {
			t.Errorf("%T: \\b should hold between a and é", in)
		}
		if in.Assert(LookWordBoundary, len(text)) {
			t.Errorf("%T: \\b should not hold after é", in)
		}
	}
}

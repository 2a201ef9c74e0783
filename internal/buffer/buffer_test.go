package buffer

import (
	"errors"
	"math/rand"
	"testing"
)

func TestInsertDelete(t *testing.T) {
	b := NewString("foo(bar)")
	b.Insert(4, []byte("baz"))
	if got := b.String(); got != "foo(bazbar)" {
		t.Fatalf("after insert = %q, want %q", got, "foo(bazbar)")
	}
	b.Delete(0, 3)
	if got := b.String(); got != "(bazbar)" {
		t.Fatalf("after delete = %q, want %q", got, "(bazbar)")
	}
	if b.Version() != 2 {
		t.Fatalf("version = %d, want 2", b.Version())
	}
}

func TestLineArithmetic(t *testing.T) {
	b := NewString("ab\ncdef\n\ng")
	if b.LineCount() != 4 {
		t.Fatalf("LineCount = %d, want 4", b.LineCount())
	}
	cases := []struct {
		pos, start, end, line, col int
	}{
		{0, 0, 2, 0, 0},
		{2, 0, 2, 0, 2},
		{3, 3, 7, 1, 0},
		{7, 3, 7, 1, 4},
		{8, 8, 8, 2, 0},
		{9, 9, 10, 3, 0},
		{10, 9, 10, 3, 1},
	}
	for _, tc := range cases {
		if got := b.LineStart(tc.pos); got != tc.start {
			t.Fatalf("LineStart(%d) = %d, want %d", tc.pos, got, tc.start)
		}
		if got := b.LineEnd(tc.pos); got != tc.end {
			t.Fatalf("LineEnd(%d) = %d, want %d", tc.pos, got, tc.end)
		}
		line, col := b.LineColForOffset(tc.pos)
		if line != tc.line || col != tc.col {
			t.Fatalf("LineColForOffset(%d) = %d:%d, want %d:%d", tc.pos, line, col, tc.line, tc.col)
		}
	}
}

func TestOffsetForLineColClamps(t *testing.T) {
	b := NewString("ab\ncdef\n")
	if got := b.OffsetForLineCol(0, 10); got != 2 {
		t.Fatalf("OffsetForLineCol(0, 10) = %d, want 2", got)
	}
	if got := b.OffsetForLineCol(1, 2); got != 5 {
		t.Fatalf("OffsetForLineCol(1, 2) = %d, want 5", got)
	}
	if got := b.OffsetForLineCol(9, 0); got != 8 {
		t.Fatalf("OffsetForLineCol(9, 0) = %d, want 8", got)
	}
}

func TestContractViolationPanics(t *testing.T) {
	b := NewString("abc")
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %v, want error", r)
		}
		var re *RangeError
		if !errors.As(err, &re) {
			t.Fatalf("recovered %T, want *RangeError", r)
		}
		if re.Op != "delete" {
			t.Fatalf("op = %q, want %q", re.Op, "delete")
		}
	}()
	b.Delete(2, 5)
}

func TestRandomEditsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := NewString("")
	alphabet := []byte("ab\n\n c")
	for step := 0; step < 500; step++ {
		if b.Len() > 0 && rng.Intn(3) == 0 {
			s := rng.Intn(b.Len() + 1)
			e := s + rng.Intn(b.Len()-s+1)
			b.Delete(s, e)
		} else {
			n := rng.Intn(5)
			text := make([]byte, n)
			for i := range text {
				text[i] = alphabet[rng.Intn(len(alphabet))]
			}
			b.Insert(rng.Intn(b.Len()+1), text)
		}
		want := NewString(b.String())
		if b.LineCount() != want.LineCount() {
			t.Fatalf("step %d: LineCount = %d, want %d", step, b.LineCount(), want.LineCount())
		}
		for line := 0; line < b.LineCount(); line++ {
			start, end := b.LineBounds(line)
			for col := 0; col <= end-start; col++ {
				off := b.OffsetForLineCol(line, col)
				l, c := b.LineColForOffset(off)
				if l != line || c != col {
					t.Fatalf("step %d: round trip %d:%d -> %d -> %d:%d", step, line, col, off, l, c)
				}
			}
		}
	}
}

package syntax

import (
	"reflect"
	"testing"
)

func bracketTokens(s string) []Token {
	var toks []Token
	for i := 0; i < len(s); i++ {
		switch {
		case isBracket(s[i]):
			toks = append(toks, delimToken(i, s[i]))
		case s[i] != ' ':
			toks = append(toks, Token{Start: i, End: i + 1, Kind: KindIdentifier})
		}
	}
	return toks
}

func TestRepairParens(t *testing.T) {
	cases := []struct {
		src    string
		level  []int
		parent []int
		match  []int
	}{
		{"(a)", []int{0, 1, 0}, []int{None, 0, None}, []int{2, None, 0}},
		{"([])", []int{0, 1, 1, 0}, []int{None, 0, 0, None}, []int{3, 2, 1, 0}},
		{")a", []int{0, 0}, []int{None, None}, []int{None, None}},
		{"(]", []int{0, 1}, []int{None, 0}, []int{None, None}},
		{"((a", []int{0, 1, 2}, []int{None, 0, 1}, []int{None, None, None}},
		{"{a}b", []int{0, 1, 0, 0}, []int{None, 0, None, None}, []int{2, None, 0, None}},
	}
	for _, tc := range cases {
		var toks Tokens
		toks.Set(bracketTokens(tc.src))
		if !reflect.DeepEqual(toks.Level, tc.level) {
			t.Fatalf("%q: level = %v, want %v", tc.src, toks.Level, tc.level)
		}
		if !reflect.DeepEqual(toks.Parent, tc.parent) {
			t.Fatalf("%q: parent = %v, want %v", tc.src, toks.Parent, tc.parent)
		}
		if !reflect.DeepEqual(toks.Match, tc.match) {
			t.Fatalf("%q: match = %v, want %v", tc.src, toks.Match, tc.match)
		}
	}
}

func TestSpliceRepairsFromSplicePoint(t *testing.T) {
	var toks Tokens
	toks.Set(bracketTokens("(a [b] c)"))

	// "(a [b] c)" -> "(a [b c)": drop the "]" at index 4.
	toks.Splice(4, 5, nil, -1)
	var want Tokens
	want.Set(bracketTokens("(a [b c)"))
	if !reflect.DeepEqual(toks.Clone(), want.Clone()) {
		t.Fatalf("after splice = %+v\nwant %+v", toks, want)
	}
	if toks.Match[0] != None || toks.Match[2] != None {
		t.Fatalf("outer brackets should be unmatched: %v", toks.Match)
	}

	// Put it back; the outer pair matches again.
	toks.Splice(4, 4, []Token{delimToken(5, ']')}, 1)
	want.Set(bracketTokens("(a [b] c)"))
	if !reflect.DeepEqual(toks.Clone(), want.Clone()) {
		t.Fatalf("after re-insert = %+v\nwant %+v", toks, want)
	}
}

func TestSearchAndAt(t *testing.T) {
	var toks Tokens
	toks.Set([]Token{{Start: 0, End: 3}, {Start: 4, End: 5}})
	if got := toks.Search(3); got != 1 {
		t.Fatalf("Search(3) = %d, want 1", got)
	}
	if got := toks.At(2); got != 0 {
		t.Fatalf("At(2) = %d, want 0", got)
	}
	if got := toks.At(3); got != None {
		t.Fatalf("At(3) = %d, want None", got)
	}
	if got := toks.At(9); got != None {
		t.Fatalf("At(9) = %d, want None", got)
	}
	if r := toks.Ranges(); len(r) != 2 || r[1] != (Range{4, 5}) || r[1].Len() != 1 {
		t.Fatalf("Ranges() = %v", r)
	}
}

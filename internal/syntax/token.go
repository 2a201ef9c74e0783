// Package syntax holds the tokenizer engines and the structures they share:
// a flat token arena with index-aligned paren arrays, highlighting,
// indentation and formatting.
package syntax

import "sort"

// None marks an absent parent or match index.
const None = -1

type Kind uint8

const (
	KindIdentifier Kind = iota
	KindKeyword
	KindNumber
	KindString
	KindComment
	KindOperator
	KindPunctuation
	KindError
)

var kindNames = [...]string{
	KindIdentifier:  "identifier",
	KindKeyword:     "keyword",
	KindNumber:      "number",
	KindString:      "string",
	KindComment:     "comment",
	KindOperator:    "operator",
	KindPunctuation: "punctuation",
	KindError:       "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

// Token is one lexical unit. Delim is the bracket byte for bracket tokens
// and zero otherwise.
type Token struct {
	Start int
	End   int
	Kind  Kind
	Delim byte
}

func (t Token) Range() Range { return Range{Start: t.Start, End: t.End} }

func (t Token) IsOpen() bool {
	return t.Delim == '(' || t.Delim == '[' || t.Delim == '{'
}

func (t Token) IsClose() bool {
	return t.Delim == ')' || t.Delim == ']' || t.Delim == '}'
}

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	case '{':
		return '}'
	}
	return 0
}

// Tokens is the arena an engine maintains: the token sequence plus the
// paren arrays, all indexed by token position.
type Tokens struct {
	Toks   []Token
	Level  []int
	Parent []int
	Match  []int
}

func (t *Tokens) Len() int { return len(t.Toks) }

// Search returns the index of the first token whose end is past pos.
func (t *Tokens) Search(pos int) int {
	return sort.Search(len(t.Toks), func(i int) bool { return t.Toks[i].End > pos })
}

// At returns the index of the token covering pos, or None when pos is in
// whitespace or past the last token.
func (t *Tokens) At(pos int) int {
	i := t.Search(pos)
	if i < len(t.Toks) && t.Toks[i].Start <= pos {
		return i
	}
	return None
}

// Ranges returns a copy of the token ranges.
func (t *Tokens) Ranges() []Range {
	out := make([]Range, len(t.Toks))
	for i, tok := range t.Toks {
		out[i] = tok.Range()
	}
	return out
}

// Set replaces the whole token sequence and recomputes every paren array.
func (t *Tokens) Set(toks []Token) {
	t.Toks = toks
	t.RepairParens(0)
}

// Splice replaces Toks[lo:hi] with repl, shifting the tokens after hi by
// delta, then repairs paren metadata from lo onward.
func (t *Tokens) Splice(lo, hi int, repl []Token, delta int) {
	tail := t.Toks[hi:]
	if delta != 0 {
		for i := range tail {
			tail[i].Start += delta
			tail[i].End += delta
		}
	}
	n := lo + len(repl) + len(tail)
	if n <= cap(t.Toks) && len(repl) <= hi-lo {
		copy(t.Toks[lo:], repl)
		copy(t.Toks[lo+len(repl):], tail)
		t.Toks = t.Toks[:n]
	} else {
		toks := make([]Token, 0, n+n/4)
		toks = append(toks, t.Toks[:lo]...)
		toks = append(toks, repl...)
		toks = append(toks, tail...)
		t.Toks = toks
	}
	t.RepairParens(lo)
}

func resize(s []int, n int) []int {
	if n <= cap(s) {
		return s[:n]
	}
	out := make([]int, n, n+n/4)
	copy(out, s)
	return out
}

// RepairParens recomputes Level, Parent and Match for tokens from onward.
// Entries before from are trusted; the stack of brackets still open at from
// is rebuilt by walking Parent links back from the previous token.
func (t *Tokens) RepairParens(from int) {
	n := len(t.Toks)
	if from > n {
		from = n
	}
	t.Level = resize(t.Level, n)
	t.Parent = resize(t.Parent, n)
	t.Match = resize(t.Match, n)

	var stack []int
	if from > 0 {
		k := from - 1
		top := t.Parent[k]
		if t.Toks[k].IsOpen() {
			top = k
		}
		for p := top; p != None; p = t.Parent[p] {
			stack = append(stack, p)
		}
		for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
			stack[i], stack[j] = stack[j], stack[i]
		}
		for _, p := range stack {
			t.Match[p] = None
		}
	}

	for i := from; i < n; i++ {
		tok := t.Toks[i]
		parent := None
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		switch {
		case tok.IsOpen():
			t.Level[i] = len(stack)
			t.Parent[i] = parent
			t.Match[i] = None
			stack = append(stack, i)
		case tok.IsClose() && parent != None && closerFor(t.Toks[parent].Delim) == tok.Delim:
			stack = stack[:len(stack)-1]
			t.Level[i] = len(stack)
			t.Parent[i] = t.Parent[parent]
			t.Match[i] = parent
			t.Match[parent] = i
		default:
			t.Level[i] = len(stack)
			t.Parent[i] = parent
			t.Match[i] = None
		}
	}
}

// Clone returns a deep copy, used to compare incremental and full rebuilds.
func (t *Tokens) Clone() Tokens {
	return Tokens{
		Toks:   append([]Token(nil), t.Toks...),
		Level:  append([]int(nil), t.Level...),
		Parent: append([]int(nil), t.Parent...),
		Match:  append([]int(nil), t.Match...),
	}
}

package syntax

import (
	"bytes"

	"github.com/gdamore/tcell/v2"
)

// genericGrammar splits text into words, numbers, double-quoted strings,
// brackets and single punctuation bytes. A configured comment prefix runs
// to the end of its line.
type genericGrammar struct {
	comment []byte
}

func (g genericGrammar) next(src []byte, pos int) (Token, bool) {
	pos = skipSpace(src, pos)
	if pos >= len(src) {
		return Token{}, false
	}
	c := src[pos]
	tok := Token{Start: pos, End: pos + 1, Kind: KindOperator}
	switch {
	case len(g.comment) > 0 && bytes.HasPrefix(src[pos:], g.comment):
		tok.End, tok.Kind = scanToEOL(src, pos), KindComment
	case c == '"':
		if end, ok := scanQuoted(src, pos, '"', true, false); ok {
			tok.End, tok.Kind = end, KindString
		}
	case isDigit(c):
		tok.End, tok.Kind = scanNumber(src, pos), KindNumber
	case isLetter(c):
		tok.End, tok.Kind = scanWhile(src, pos, isIdentPart), KindIdentifier
	case isBracket(c):
		tok = delimToken(pos, c)
	case c < 0x20 || c == 0x7f:
		tok.Kind = KindError
	}
	return tok, true
}

// GenericEngine is the fallback for grammars without a dedicated engine.
// Edit notifications are no-ops: the full token arena is rebuilt lazily on
// the first query after the source changed, and highlighting only lexes
// the lines it was asked for.
type GenericEngine struct {
	Base
	g       genericGrammar
	version uint64
	built   bool
}

func NewGenericEngine(src Source, opts Options) *GenericEngine {
	e := &GenericEngine{Base: NewBase(src, opts)}
	e.g = genericGrammar{comment: []byte(e.Opts.CommentPrefix)}
	return e
}

func (e *GenericEngine) Family() Family      { return FamilyGeneric }
func (e *GenericEngine) BeforeEdit(_, _ int) {}
func (e *GenericEngine) AfterEdit(_, _ int)  {}

func (e *GenericEngine) Reset() {
	e.built = false
}

func (e *GenericEngine) refresh() {
	if e.built && e.version == e.Src.Version() {
		return
	}
	e.Toks.Set(lexAll(e.g, e.Src.Bytes(), 0, e.Toks.Toks[:0]))
	e.version = e.Src.Version()
	e.built = true
}

func (e *GenericEngine) Tokens() *Tokens {
	e.refresh()
	return &e.Toks
}

func (e *GenericEngine) Highlight(start, end int, out []tcell.Color) {
	src := e.Src.Bytes()
	var window Tokens
	for pos := lineStartOf(src, start); ; {
		tok, ok := e.g.next(src, pos)
		if !ok || tok.Start >= end {
			break
		}
		window.Toks = append(window.Toks, tok)
		pos = tok.End
	}
	window.Highlight(src, start, end, e.Opts.Palette, e.emphasis, out)
}

func (e *GenericEngine) IndentFor(lineStart int) int {
	e.refresh()
	return e.Base.IndentFor(lineStart)
}

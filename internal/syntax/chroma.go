package syntax

import (
	"math"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/logger"
)

// ChromaEngine tokenizes with a chroma lexer. Chroma lexers are regex state
// machines that cannot resume mid-document, so the token arena is rebuilt
// on the first query and lazily on the first arena query after the source
// changed. Highlighting a stale engine lexes only the queried lines,
// starting earlier when an unchanged multi-line token reaches into them.
type ChromaEngine struct {
	Base
	lexer   chroma.Lexer
	version uint64
	built   bool
	// dirty is the lowest offset edited since the arena was built.
	dirty int
}

// NewChromaEngine looks the lexer up by name, then by filename. ok is false
// when chroma knows neither.
func NewChromaEngine(name, filename string, src Source, opts Options) (*ChromaEngine, bool) {
	lexer := lexers.Get(name)
	if lexer == nil && filename != "" {
		lexer = lexers.Match(filename)
	}
	if lexer == nil {
		return nil, false
	}
	return &ChromaEngine{Base: NewBase(src, opts), lexer: chroma.Coalesce(lexer)}, true
}

func (e *ChromaEngine) Family() Family     { return FamilyChroma }
func (e *ChromaEngine) AfterEdit(_, _ int) {}
func (e *ChromaEngine) Reset()             { e.built = false }

func (e *ChromaEngine) BeforeEdit(start, _ int) {
	e.dirty = min(e.dirty, start)
}

func (e *ChromaEngine) current() bool {
	return e.built && e.version == e.Src.Version()
}

func (e *ChromaEngine) Tokens() *Tokens {
	e.refresh()
	return &e.Toks
}

func (e *ChromaEngine) Highlight(start, end int, out []tcell.Color) {
	if !e.built || e.current() {
		e.refresh()
		e.Base.Highlight(start, end, out)
		return
	}
	src := e.Src.Bytes()
	from := lineStartOf(src, start)
	if from < e.dirty {
		if i := e.Toks.At(from); i != None && e.Toks.Toks[i].Start < from {
			from = lineStartOf(src, e.Toks.Toks[i].Start)
		}
	}
	to := lineEndOf(src, max(end-1, start))
	var window Tokens
	window.Toks = e.tokenise(src[from:to], from)
	window.Highlight(src, start, end, e.Opts.Palette, e.emphasis, out)
}

func (e *ChromaEngine) IndentFor(lineStart int) int {
	e.refresh()
	return e.Base.IndentFor(lineStart)
}

func (e *ChromaEngine) refresh() {
	if e.current() {
		return
	}
	e.version = e.Src.Version()
	e.built = true
	e.dirty = math.MaxInt
	e.Toks.Set(e.tokenise(e.Src.Bytes(), 0))
}

// tokenise lexes text, which sits at offset base in the document.
func (e *ChromaEngine) tokenise(text []byte, base int) []Token {
	it, err := e.lexer.Tokenise(&chroma.TokeniseOptions{State: "root"}, string(text))
	if err != nil {
		logger.Warn("chroma tokenise failed", "lexer", e.lexer.Config().Name, "err", err)
		return nil
	}
	toks := convertChroma(it.Tokens(), len(text))
	if base != 0 {
		for i := range toks {
			toks[i].Start += base
			toks[i].End += base
		}
	}
	return toks
}

func chromaKind(t chroma.TokenType) Kind {
	switch t.Category() {
	case chroma.Keyword:
		return KindKeyword
	case chroma.Comment:
		return KindComment
	case chroma.Operator:
		return KindOperator
	case chroma.Punctuation:
		return KindPunctuation
	case chroma.Literal:
		if t.InSubCategory(chroma.LiteralString) {
			return KindString
		}
		return KindNumber
	}
	if t == chroma.Error {
		return KindError
	}
	return KindIdentifier
}

// convertChroma maps chroma tokens onto byte ranges. Whitespace inside
// non-comment, non-string tokens becomes gap; brackets in punctuation and
// operator tokens become their own delimiter tokens.
func convertChroma(in []chroma.Token, limit int) []Token {
	var out []Token
	off := 0
	for _, ct := range in {
		start := off
		off += len(ct.Value)
		if start >= limit {
			break
		}
		end := min(off, limit)
		kind := chromaKind(ct.Type)
		val := ct.Value[:end-start]
		if kind == KindComment || kind == KindString {
			s, e := trimSpaceBounds(val)
			if s < e {
				out = append(out, Token{Start: start + s, End: start + e, Kind: kind})
			}
			continue
		}
		splitBrackets := kind == KindPunctuation || kind == KindOperator
		i := 0
		for i < len(val) {
			if isSpace(val[i]) {
				i++
				continue
			}
			if splitBrackets && isBracket(val[i]) {
				out = append(out, delimToken(start+i, val[i]))
				i++
				continue
			}
			j := i + 1
			for j < len(val) && !isSpace(val[j]) && !(splitBrackets && isBracket(val[j])) {
				j++
			}
			out = append(out, Token{Start: start + i, End: start + j, Kind: kind})
			i = j
		}
	}
	return out
}

func trimSpaceBounds(s string) (int, int) {
	i, j := 0, len(s)
	for i < j && isSpace(s[i]) {
		i++
	}
	for j > i && isSpace(s[j-1]) {
		j--
	}
	return i, j
}

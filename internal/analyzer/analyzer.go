// Package analyzer selects a syntax engine for a document and exposes one
// query surface over it, whichever grammar family is active.
package analyzer

import (
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/logger"
	"github.com/kobzarvs/qtext/internal/syntax"
	"github.com/kobzarvs/qtext/internal/treesitter"
)

type Analyzer struct {
	src    syntax.Source
	path   string
	lang   *config.Language
	engine syntax.Engine
	log    *zap.SugaredLogger
}

// Open builds the analyzer for the document at path. The engine is chosen
// once from the file name; the token arena is built before Open returns.
func Open(path string, src syntax.Source, cfg config.Config, langs config.Languages) *Analyzer {
	a := &Analyzer{
		src:  src,
		path: path,
		lang: langs.Match(path),
		log:  logger.Named("analyzer"),
	}
	a.engine = a.selectEngine(cfg)
	a.log.Debugw("engine selected", "path", path, "language", a.Language(), "family", a.engine.Family().String())
	return a
}

// Palette converts theme colors to a highlight palette.
func Palette(cfg config.Config) *syntax.Palette {
	t := cfg.Theme
	return &syntax.Palette{
		Default:         config.Color(t.Foreground),
		Identifier:      config.Color(t.SyntaxVariable),
		Keyword:         config.Color(t.SyntaxKeyword),
		Number:          config.Color(t.SyntaxNumber),
		String:          config.Color(t.SyntaxString),
		Comment:         config.Color(t.SyntaxComment),
		Operator:        config.Color(t.SyntaxOperator),
		Punctuation:     config.Color(t.SyntaxPunctuation),
		Error:           config.Color(t.SyntaxUnknown),
		HashIdentifiers: cfg.Editor.HashIdentifiers,
	}
}

func (a *Analyzer) options(cfg config.Config) syntax.Options {
	opts := syntax.Options{
		Metrics: syntax.Metrics{
			TabWidth:    cfg.Editor.TabWidth,
			IndentWidth: cfg.Editor.IndentWidth,
		},
		Palette: Palette(cfg),
	}
	if a.lang == nil {
		opts.Formatter = syntax.FormatterFor(config.FormatterTrim)
		return opts
	}
	if a.lang.IndentWidth > 0 {
		opts.IndentWidth = a.lang.IndentWidth
	}
	opts.CommentPrefix = a.lang.CommentToken
	opts.Formatter = syntax.FormatterFor(a.lang.Formatter)
	return opts
}

func (a *Analyzer) selectEngine(cfg config.Config) syntax.Engine {
	opts := a.options(cfg)
	if a.lang == nil {
		if cfg.Editor.Fallback == config.FallbackNone {
			return syntax.NewNoneEngine(a.src, opts)
		}
		return syntax.NewGenericEngine(a.src, opts)
	}

	name := a.lang.GrammarName()
	switch a.lang.Engine {
	case config.EngineCLike:
		return syntax.NewCLikeEngine(name, a.src, opts)
	case config.EngineLisp:
		return syntax.NewLispEngine(a.src, opts)
	case config.EngineJSON:
		return syntax.NewJSONEngine(a.src, opts)
	case config.EngineTreeSitter:
		e, err := treesitter.New(name, a.src, opts)
		if err == nil {
			return e
		}
		a.log.Warnw("tree-sitter unavailable, using generic engine", "language", name, "err", err)
	case config.EngineChroma:
		if e, ok := syntax.NewChromaEngine(name, a.path, a.src, opts); ok {
			return e
		}
		a.log.Warnw("no chroma lexer, using generic engine", "language", name)
	case config.EngineNone:
		return syntax.NewNoneEngine(a.src, opts)
	}
	return syntax.NewGenericEngine(a.src, opts)
}

// Language returns the matched language name, or "" for unknown files.
func (a *Analyzer) Language() string {
	if a.lang == nil {
		return ""
	}
	return a.lang.Name
}

func (a *Analyzer) Family() syntax.Family { return a.engine.Family() }

// BeforeEdit must be called with the buffer still unchanged and the range
// about to be removed.
func (a *Analyzer) BeforeEdit(start, end int) { a.engine.BeforeEdit(start, end) }

// AfterEdit must be called once the buffer holds the new text, with the
// range just inserted.
func (a *Analyzer) AfterEdit(start, end int) { a.engine.AfterEdit(start, end) }

// Reset rebuilds the token arena from scratch.
func (a *Analyzer) Reset() { a.engine.Reset() }

func (a *Analyzer) Tokens() *syntax.Tokens { return a.engine.Tokens() }

func (a *Analyzer) TokenRanges() []syntax.Range { return a.engine.Tokens().Ranges() }

func (a *Analyzer) ParenLevels() []int  { return a.engine.Tokens().Level }
func (a *Analyzer) ParenParents() []int { return a.engine.Tokens().Parent }
func (a *Analyzer) ParenMatches() []int { return a.engine.Tokens().Match }

// Highlight returns one color per byte of [start, end).
func (a *Analyzer) Highlight(start, end int) []tcell.Color {
	if end <= start {
		return nil
	}
	out := make([]tcell.Color, end-start)
	a.engine.Highlight(start, end, out)
	return out
}

func (a *Analyzer) IndentFor(lineStart int) int { return a.engine.IndentFor(lineStart) }

func (a *Analyzer) CommentPrefix() (string, bool) { return a.engine.CommentPrefix() }

// Format returns the reformatted document, or false when the formatter
// rejected it.
func (a *Analyzer) Format(src []byte) ([]byte, bool) {
	out, ok := a.engine.Format(src)
	if !ok {
		a.log.Debugw("format rejected", "path", a.path, "family", a.engine.Family().String())
	}
	return out, ok
}

// ToggleMode flips the comment-emphasis mode. It reports the new mode, or
// false when the engine has none.
func (a *Analyzer) ToggleMode() bool {
	if t, ok := a.engine.(syntax.ModeToggler); ok {
		return t.ToggleMode()
	}
	return false
}

// TokenAt returns the token covering pos.
func (a *Analyzer) TokenAt(pos int) (syntax.Token, bool) {
	toks := a.engine.Tokens()
	i := toks.At(pos)
	if i == syntax.None {
		return syntax.Token{}, false
	}
	return toks.Toks[i], true
}

// TokenRangeAt returns the range of the token covering pos, or the empty
// range at pos in whitespace. Selections snap to it.
func (a *Analyzer) TokenRangeAt(pos int) syntax.Range {
	if tok, ok := a.TokenAt(pos); ok {
		return tok.Range()
	}
	return syntax.Range{Start: pos, End: pos}
}

// MatchingBracket returns the start of the partner of the bracket at pos.
func (a *Analyzer) MatchingBracket(pos int) (int, bool) {
	return a.engine.Tokens().MatchingBracket(pos)
}

func (a *Analyzer) Close() {
	if a.engine != nil {
		a.engine.Close()
	}
}

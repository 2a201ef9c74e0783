package syntax

import "github.com/gdamore/tcell/v2"

// Family tags which grammar family an engine implements.
type Family int

const (
	FamilyNone Family = iota
	FamilyCLike
	FamilyLisp
	FamilyJSON
	FamilyTreeSitter
	FamilyChroma
	FamilyGeneric
)

var familyNames = [...]string{
	FamilyNone:       "none",
	FamilyCLike:      "clike",
	FamilyLisp:       "lisp",
	FamilyJSON:       "json",
	FamilyTreeSitter: "treesitter",
	FamilyChroma:     "chroma",
	FamilyGeneric:    "generic",
}

func (f Family) String() string {
	if int(f) >= 0 && int(f) < len(familyNames) {
		return familyNames[f]
	}
	return "unknown"
}

// Source is the read-only view of a document an engine analyzes.
// *buffer.Buffer satisfies it.
type Source interface {
	Bytes() []byte
	Version() uint64
}

// Engine is the capability set every grammar family provides.
//
// BeforeEdit is called with the buffer still in its pre-edit state and the
// range about to be removed; AfterEdit with the post-edit buffer and the
// range just inserted. A pure insert has an empty removed range, a pure
// delete an empty inserted one.
type Engine interface {
	Family() Family
	Reset()
	BeforeEdit(start, end int)
	AfterEdit(start, end int)
	Tokens() *Tokens
	Highlight(start, end int, out []tcell.Color)
	IndentFor(lineStart int) int
	CommentPrefix() (string, bool)
	Format(src []byte) ([]byte, bool)
	Close()
}

// ModeToggler is implemented by engines with a comment-emphasis display
// mode. The mode changes colors only, never the token structure.
type ModeToggler interface {
	ToggleMode() bool
}

// Options are shared by every engine.
type Options struct {
	Metrics
	CommentPrefix string
	Formatter     Formatter
	Palette       *Palette
}

func (o *Options) defaults() {
	if o.TabWidth <= 0 {
		o.TabWidth = 4
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	if o.Formatter == nil {
		o.Formatter = FormatterFor("")
	}
	if o.Palette == nil {
		o.Palette = &Palette{Default: tcell.ColorDefault}
	}
}

// Base implements the queries that only depend on a token arena. Engines
// embed it and keep Toks current.
type Base struct {
	Src      Source
	Opts     Options
	Toks     Tokens
	emphasis bool
}

func NewBase(src Source, opts Options) Base {
	opts.defaults()
	return Base{Src: src, Opts: opts}
}

func (b *Base) Highlight(start, end int, out []tcell.Color) {
	b.Toks.Highlight(b.Src.Bytes(), start, end, b.Opts.Palette, b.emphasis, out)
}

func (b *Base) IndentFor(lineStart int) int {
	return b.Toks.IndentFor(b.Src.Bytes(), lineStart, b.Opts.Metrics)
}

func (b *Base) CommentPrefix() (string, bool) {
	return b.Opts.CommentPrefix, b.Opts.CommentPrefix != ""
}

func (b *Base) Format(src []byte) ([]byte, bool) {
	return b.Opts.Formatter(src, b.Opts.IndentWidth)
}

func (b *Base) ToggleMode() bool {
	b.emphasis = !b.emphasis
	return b.emphasis
}

func (b *Base) Close() {
	b.Toks = Tokens{}
}

// NoneEngine performs no analysis: no tokens, default colors, zero indent.
type NoneEngine struct {
	Base
}

func NewNoneEngine(src Source, opts Options) *NoneEngine {
	return &NoneEngine{Base: NewBase(src, opts)}
}

func (e *NoneEngine) Family() Family      { return FamilyNone }
func (e *NoneEngine) Reset()              {}
func (e *NoneEngine) BeforeEdit(_, _ int) {}
func (e *NoneEngine) AfterEdit(_, _ int)  {}
func (e *NoneEngine) Tokens() *Tokens     { return &e.Toks }
func (e *NoneEngine) IndentFor(int) int   { return 0 }

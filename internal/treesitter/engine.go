// Package treesitter adapts tree-sitter grammars to the syntax.Engine
// interface. Parsing is incremental through Tree.Edit; tokens are rebuilt
// from the leaves of the top-level nodes an edit touched.
package treesitter

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/toml"
	"github.com/smacker/go-tree-sitter/yaml"

	"github.com/kobzarvs/qtext/internal/logger"
	"github.com/kobzarvs/qtext/internal/syntax"
)

func grammar(name string) *sitter.Language {
	switch name {
	case "bash", "sh", "shell", "zsh":
		return bash.GetLanguage()
	case "toml":
		return toml.GetLanguage()
	case "yaml", "yml":
		return yaml.GetLanguage()
	}
	return nil
}

// Supported reports whether a grammar is compiled in for name.
func Supported(name string) bool {
	return grammar(name) != nil
}

type Engine struct {
	syntax.Base
	name    string
	parser  *sitter.Parser
	tree    *sitter.Tree
	pending *sitter.EditInput
}

var _ syntax.Engine = (*Engine)(nil)

func New(name string, src syntax.Source, opts syntax.Options) (*Engine, error) {
	lang := grammar(name)
	if lang == nil {
		return nil, fmt.Errorf("treesitter: no grammar for %q", name)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	e := &Engine{Base: syntax.NewBase(src, opts), name: name, parser: p}
	e.Reset()
	return e, nil
}

func (e *Engine) Family() syntax.Family { return syntax.FamilyTreeSitter }

func (e *Engine) Tokens() *syntax.Tokens { return &e.Toks }

func (e *Engine) Reset() {
	e.pending = nil
	src := e.Src.Bytes()
	tree, err := e.parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		logger.Warn("tree-sitter parse failed", "grammar", e.name, "err", err)
		e.Toks.Set(fillGaps(nil, src, 0, len(src)))
		return
	}
	e.setTree(tree)
	c := collector{src: src}
	c.walk(tree.RootNode(), "")
	e.Toks.Set(fillGaps(c.out, src, 0, len(src)))
}

func (e *Engine) setTree(tree *sitter.Tree) {
	if e.tree != nil {
		e.tree.Close()
	}
	e.tree = tree
}

// lineIndexed sources answer row/column queries without a scan.
type lineIndexed interface {
	LineColForOffset(pos int) (line, col int)
}

// point converts a byte offset to a tree-sitter row/column point.
func (e *Engine) point(pos int) sitter.Point {
	if li, ok := e.Src.(lineIndexed); ok {
		row, col := li.LineColForOffset(pos)
		return sitter.Point{Row: uint32(row), Column: uint32(col)}
	}
	return pointAt(e.Src.Bytes(), pos)
}

func pointAt(src []byte, pos int) sitter.Point {
	row, col := 0, 0
	for i := 0; i < pos && i < len(src); i++ {
		if src[i] == '\n' {
			row++
			col = 0
		} else {
			col++
		}
	}
	return sitter.Point{Row: uint32(row), Column: uint32(col)}
}

func (e *Engine) BeforeEdit(start, end int) {
	e.pending = &sitter.EditInput{
		StartIndex:  uint32(start),
		OldEndIndex: uint32(end),
		StartPoint:  e.point(start),
		OldEndPoint: e.point(end),
	}
}

// AfterEdit reparses with the edited old tree and rebuilds tokens only for
// the top-level nodes around the edit. Rebuilding stops at the first
// top-level node past the edit that starts where an old top-level node
// now starts; from there on both parses agree.
func (e *Engine) AfterEdit(start, end int) {
	edit := e.pending
	e.pending = nil
	if edit == nil || e.tree == nil || int(edit.StartIndex) != start {
		e.Reset()
		return
	}
	src := e.Src.Bytes()
	edit.NewEndIndex = uint32(end)
	edit.NewEndPoint = e.point(end)
	old := e.tree
	old.Edit(*edit)
	tree, err := e.parser.ParseCtx(context.Background(), old, src)
	if err != nil {
		logger.Warn("tree-sitter reparse failed", "grammar", e.name, "err", err)
		e.Reset()
		return
	}
	e.tree = tree
	defer old.Close()
	e.splice(old.RootNode(), tree.RootNode(), start, end, end-int(edit.OldEndIndex))
}

func (e *Engine) splice(oldRoot, root *sitter.Node, start, end, delta int) {
	src := e.Src.Bytes()
	n := int(root.ChildCount())

	// The node before the edited one may have been reduced on a token the
	// edit changed, and an extra such as a comment can sit in between.
	// Rebuilding starts after the last earlier node both parses agree on.
	k := max(childAt(root, start)-2, 0)
	from, lo := 0, 0
	for ; k > 0; k-- {
		prev := root.Child(k - 1)
		if !sameShape(childStartingAt(oldRoot, int(prev.StartByte())), prev) {
			continue
		}
		from = int(root.Child(k).StartByte())
		lo = e.Toks.Search(from)
		if lo == len(e.Toks.Toks) || e.Toks.Toks[lo].Start >= from {
			break
		}
	}
	if k == 0 {
		from, lo = 0, 0
	}

	c := collector{src: src, from: from}
	hi, stop := len(e.Toks.Toks), len(src)
	for i := k; i < n; i++ {
		child := root.Child(i)
		if cs := int(child.StartByte()); i > k && cs >= end && sameNode(childStartingAt(oldRoot, cs), child) {
			if j := e.Toks.Search(cs - delta); j < len(e.Toks.Toks) && e.Toks.Toks[j].Start == cs-delta {
				hi, stop = j, cs
				break
			}
		}
		c.walk(child, root.Type())
	}
	e.Toks.Splice(lo, hi, fillGaps(c.out, src, from, stop), delta)
}

// childAt returns the index of the last child of n starting at or before pos.
func childAt(n *sitter.Node, pos int) int {
	i := sort.Search(int(n.ChildCount()), func(i int) bool {
		return int(n.Child(i).StartByte()) > pos
	})
	return max(i-1, 0)
}

func childStartingAt(n *sitter.Node, pos int) *sitter.Node {
	count := int(n.ChildCount())
	i := sort.Search(count, func(i int) bool {
		return int(n.Child(i).StartByte()) >= pos
	})
	if i < count && int(n.Child(i).StartByte()) == pos {
		return n.Child(i)
	}
	return nil
}

// sameShape reports whether an old and a new top-level node cover the same
// bytes with the same kind of node.
func sameShape(old, cur *sitter.Node) bool {
	return old != nil &&
		old.Type() == cur.Type() &&
		old.EndByte() == cur.EndByte() &&
		old.ChildCount() == cur.ChildCount() &&
		old.HasError() == cur.HasError()
}

// sameNode is sameShape for error-free nodes, after which both parses
// continue identically.
func sameNode(old, cur *sitter.Node) bool {
	return sameShape(old, cur) && !cur.HasError()
}

func (e *Engine) Close() {
	if e.tree != nil {
		e.tree.Close()
		e.tree = nil
	}
	if e.parser != nil {
		e.parser.Close()
		e.parser = nil
	}
	e.Base.Close()
}

// atomic node types are kept whole instead of being split into leaves.
func atomic(n *sitter.Node) bool {
	t := n.Type()
	return n.IsNamed() && (strings.Contains(t, "comment") || strings.Contains(t, "string") || t == "heredoc_body")
}

// collector gathers leaf tokens in document order, skipping everything
// that starts before from.
type collector struct {
	src  []byte
	from int
	out  []syntax.Token
}

func (c *collector) walk(n *sitter.Node, parent string) {
	if n == nil || c.from > 0 && int(n.EndByte()) <= c.from {
		return
	}
	if n.ChildCount() == 0 || atomic(n) {
		start, end := int(n.StartByte()), int(n.EndByte())
		if start < c.from || start >= end || end > len(c.src) || n.IsMissing() {
			return
		}
		if len(c.out) > 0 && start < c.out[len(c.out)-1].End {
			return
		}
		c.out = append(c.out, classify(n, parent, c.src[start:end]))
		return
	}
	t := n.Type()
	for i := 0; i < int(n.ChildCount()); i++ {
		c.walk(n.Child(i), t)
	}
}

func classify(n *sitter.Node, parent string, text []byte) syntax.Token {
	tok := syntax.Token{Start: int(n.StartByte()), End: int(n.EndByte()), Kind: syntax.KindIdentifier}
	t := strings.ToLower(n.Type())
	switch {
	case t == "error":
		tok.Kind = syntax.KindError
	case strings.Contains(t, "comment"):
		tok.Kind = syntax.KindComment
	case strings.Contains(t, "string") || t == "heredoc_body" || t == "raw_string":
		tok.Kind = syntax.KindString
	case strings.Contains(t, "number") || strings.Contains(t, "integer") || strings.Contains(t, "float") ||
		t == "boolean" || t == "null_scalar" || t == "local_date_time" || t == "offset_date_time":
		tok.Kind = syntax.KindNumber
	case !n.IsNamed():
		tok.Kind = classifyAnonymous(t, text, &tok)
	case parent == "command_name" || strings.HasSuffix(t, "keyword"):
		tok.Kind = syntax.KindKeyword
	}
	return tok
}

func classifyAnonymous(t string, text []byte, tok *syntax.Token) syntax.Kind {
	if len(text) > 0 && len(text) <= 2 {
		last := text[len(text)-1]
		switch last {
		case '(', '[', '{':
			tok.Delim = last
			return syntax.KindPunctuation
		}
		switch text[0] {
		case ')', ']', '}':
			tok.Delim = text[0]
			return syntax.KindPunctuation
		}
	}
	for _, c := range []byte(t) {
		if !(c >= 'a' && c <= 'z' || c == '_') {
			return syntax.KindOperator
		}
	}
	return syntax.KindKeyword
}

// fillGaps turns any non-whitespace bytes of [from, to) the tree left
// uncovered into identifier tokens so the arena still covers the document.
func fillGaps(toks []syntax.Token, src []byte, from, to int) []syntax.Token {
	out := make([]syntax.Token, 0, len(toks))
	pos := from
	emitGap := func(end int) {
		for pos < end {
			for pos < end && isSpace(src[pos]) {
				pos++
			}
			start := pos
			for pos < end && !isSpace(src[pos]) {
				pos++
			}
			if start < pos {
				out = append(out, syntax.Token{Start: start, End: pos, Kind: syntax.KindIdentifier})
			}
		}
	}
	for _, tok := range toks {
		emitGap(tok.Start)
		out = append(out, tok)
		pos = tok.End
	}
	emitGap(to)
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

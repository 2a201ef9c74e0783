package syntax

import "bytes"

// Metrics are the widths indentation is computed with.
type Metrics struct {
	TabWidth    int
	IndentWidth int
}

func lineStartOf(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.LastIndexByte(src[:pos], '\n') + 1
}

func lineEndOf(src []byte, pos int) int {
	if pos >= len(src) {
		return len(src)
	}
	i := bytes.IndexByte(src[pos:], '\n')
	if i < 0 {
		return len(src)
	}
	return pos + i
}

// LineIndent is the leading whitespace width of the line containing pos.
func LineIndent(src []byte, pos int, tabWidth int) int {
	width := 0
	for _, c := range src[lineStartOf(src, pos):] {
		switch c {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}

// IndentFor computes the indentation of the line starting at lineStart.
//
// A line opening with a matched closer aligns with its opener's line. After
// a line ending in an opener, the opener's line indent plus one level is
// used. Otherwise the enclosing opener of the previous token is the anchor,
// plus one level. With no anchor the result is zero.
func (t *Tokens) IndentFor(src []byte, lineStart int, m Metrics) int {
	if lineStart < 0 || lineStart > len(src) {
		return 0
	}
	lineEnd := lineEndOf(src, lineStart)
	i := t.Search(lineStart)
	if i < len(t.Toks) {
		first := t.Toks[i]
		if first.Start >= lineStart && first.Start < lineEnd && first.IsClose() && t.Match[i] != None {
			return LineIndent(src, t.Toks[t.Match[i]].Start, m.TabWidth)
		}
	}

	k := i - 1
	if i < len(t.Toks) && t.Toks[i].Start < lineStart {
		k = i
	}
	if k < 0 {
		return 0
	}
	if t.Toks[k].IsOpen() {
		return LineIndent(src, t.Toks[k].Start, m.TabWidth) + m.IndentWidth
	}
	anchor := t.Parent[k]
	if anchor == None {
		return 0
	}
	return LineIndent(src, t.Toks[anchor].Start, m.TabWidth) + m.IndentWidth
}

// MatchingBracket returns the offset of the partner of the bracket covering
// pos, if any.
func (t *Tokens) MatchingBracket(pos int) (int, bool) {
	i := t.At(pos)
	if i == None || t.Match[i] == None {
		return 0, false
	}
	return t.Toks[t.Match[i]].Start, true
}

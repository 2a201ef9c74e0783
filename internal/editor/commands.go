package editor

import (
	"bytes"
	"sort"
	"strings"
)

// Newline breaks the line at every cursor and indents the new line as the
// analyzer suggests.
func (s *Session) Newline() {
	s.Type("\n")
	s.IndentLine()
}

// IndentLine replaces the leading whitespace of each cursor's line with
// the analyzer's indentation for it.
func (s *Session) IndentLine() {
	if s.an == nil {
		return
	}
	for _, c := range s.cursors {
		s.reindent(s.buf.LineStart(c.Head.Pos))
	}
}

func (s *Session) reindent(ls int) {
	src := s.buf.Bytes()
	ws := ls
	for ws < len(src) && (src[ws] == ' ' || src[ws] == '\t') {
		ws++
	}
	want := strings.Repeat(" ", s.an.IndentFor(ls))
	if string(src[ls:ws]) == want {
		return
	}
	s.replace(ls, ws, []byte(want))
}

// commentLines returns the lines touched by the cursors and selections,
// highest first.
func (s *Session) commentLines() []int {
	seen := make(map[int]bool)
	for _, c := range s.cursors {
		start, end := s.Selection(c)
		first, last := s.buf.Line(start), s.buf.Line(end)
		if last > first && end == s.buf.LineStart(end) {
			last--
		}
		for l := first; l <= last; l++ {
			seen[l] = true
		}
	}
	lines := make([]int, 0, len(seen))
	for l := range seen {
		lines = append(lines, l)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lines)))
	return lines
}

// ToggleComment comments the touched lines with the language's line
// comment prefix, or uncomments them when every non-blank one already
// carries it. The prefix goes at the smallest indentation of the block.
func (s *Session) ToggleComment() {
	if s.an == nil {
		return
	}
	prefix, ok := s.an.CommentPrefix()
	if !ok {
		return
	}
	lines := s.commentLines()

	minIndent := -1
	allCommented := true
	for _, l := range lines {
		start, end := s.buf.LineBounds(l)
		text := s.buf.Bytes()[start:end]
		body := bytes.TrimLeft(text, " \t")
		if len(body) == 0 {
			continue
		}
		if indent := len(text) - len(body); minIndent < 0 || indent < minIndent {
			minIndent = indent
		}
		if !bytes.HasPrefix(body, []byte(prefix)) {
			allCommented = false
		}
	}
	if minIndent < 0 {
		return
	}

	for _, l := range lines {
		start, end := s.buf.LineBounds(l)
		text := s.buf.Bytes()[start:end]
		body := bytes.TrimLeft(text, " \t")
		if len(body) == 0 {
			continue
		}
		if allCommented {
			at := start + len(text) - len(body)
			n := len(prefix)
			if len(body) > n && body[n] == ' ' {
				n++
			}
			s.replace(at, at+n, nil)
			continue
		}
		s.replace(start+minIndent, start+minIndent, []byte(prefix+" "))
	}
}

// Format rewrites the buffer with the analyzer's formatter. Cursors keep
// their line and column. It reports whether the buffer changed.
func (s *Session) Format() bool {
	if s.an == nil {
		return false
	}
	out, ok := s.an.Format(s.buf.Bytes())
	if !ok {
		s.log.Debugw("format unavailable")
		return false
	}
	if bytes.Equal(out, s.buf.Bytes()) {
		return false
	}

	type lineCol struct{ hl, hc, tl, tc int }
	saved := make([]lineCol, len(s.cursors))
	for i, c := range s.cursors {
		hl, hc := s.buf.LineColForOffset(c.Head.Pos)
		tl, tc := s.buf.LineColForOffset(c.Tail.Pos)
		saved[i] = lineCol{hl, hc, tl, tc}
	}
	s.replace(0, s.buf.Len(), out)
	for i, c := range s.cursors {
		lc := saved[i]
		c.Head = s.point(s.buf.OffsetForLineCol(lc.hl, lc.hc))
		c.Tail = s.point(s.buf.OffsetForLineCol(lc.tl, lc.tc))
	}
	return true
}

// ToggleMode flips the analyzer's display mode.
func (s *Session) ToggleMode() bool {
	if s.an == nil {
		return false
	}
	return s.an.ToggleMode()
}

package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// moveTo places c's head at pos. Without a mark the tail follows.
func (s *Session) moveTo(c *Cursor, p Point) {
	c.Head = p
	if !s.marked {
		c.Tail = p
	}
}

// moveAll applies a horizontal motion to every cursor; the target column
// is taken from the new position.
func (s *Session) moveAll(next func(pos int) int) {
	for _, c := range s.cursors {
		s.moveTo(c, s.point(next(c.Head.Pos)))
	}
}

func (s *Session) MoveLeft() {
	s.moveAll(func(pos int) int {
		if pos == 0 {
			return 0
		}
		_, size := utf8.DecodeLastRune(s.buf.Bytes()[:pos])
		return pos - size
	})
}

func (s *Session) MoveRight() {
	s.moveAll(func(pos int) int {
		if pos >= s.buf.Len() {
			return pos
		}
		_, size := utf8.DecodeRune(s.buf.Bytes()[pos:])
		return pos + size
	})
}

// MoveUp goes to the previous line at the remembered column, clamped to
// the line length. On the first line it goes to the start of the buffer.
func (s *Session) MoveUp() {
	for _, c := range s.cursors {
		line := s.buf.Line(c.Head.Pos)
		if line == 0 {
			s.moveTo(c, Point{Pos: 0, Col: c.Head.Col})
			continue
		}
		pos := s.buf.OffsetForLineCol(line-1, c.Head.Col)
		s.moveTo(c, Point{Pos: pos, Col: c.Head.Col})
	}
}

// MoveDown goes to the next line at the remembered column. On the last
// line it goes to the end of the buffer.
func (s *Session) MoveDown() {
	for _, c := range s.cursors {
		line := s.buf.Line(c.Head.Pos)
		if line >= s.buf.LineCount()-1 {
			s.moveTo(c, Point{Pos: s.buf.Len(), Col: c.Head.Col})
			continue
		}
		pos := s.buf.OffsetForLineCol(line+1, c.Head.Col)
		s.moveTo(c, Point{Pos: pos, Col: c.Head.Col})
	}
}

func (s *Session) MoveLineStart() { s.moveAll(s.buf.LineStart) }
func (s *Session) MoveLineEnd()   { s.moveAll(s.buf.LineEnd) }
func (s *Session) MoveFileStart() { s.moveAll(func(int) int { return 0 }) }
func (s *Session) MoveFileEnd()   { s.moveAll(func(int) int { return s.buf.Len() }) }

func (s *Session) MoveWordLeft() {
	s.moveAll(func(pos int) int { return wordLeft(s.buf.Bytes(), pos) })
}

func (s *Session) MoveWordRight() {
	s.moveAll(func(pos int) int { return wordRight(s.buf.Bytes(), pos) })
}

// SelectAll collapses to one cursor and selects the whole buffer.
func (s *Session) SelectAll() {
	s.CollapseCursors()
	c := s.cursors[0]
	c.Tail = s.point(0)
	c.Head = s.point(s.buf.Len())
	s.marked = true
}

// AddCursorBelow adds a cursor one line below the newest cursor, at its
// remembered column.
func (s *Session) AddCursorBelow() {
	last := s.cursors[len(s.cursors)-1]
	line := s.buf.Line(last.Head.Pos)
	if line >= s.buf.LineCount()-1 {
		return
	}
	c := s.AddCursor(s.buf.OffsetForLineCol(line+1, last.Head.Col))
	c.Head.Col = last.Head.Col
	c.Tail = c.Head
}

func isWordSegment(seg []byte) bool {
	r, _ := utf8.DecodeRune(seg)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordRight skips to the end of the next word.
func wordRight(src []byte, pos int) int {
	rest := src[pos:]
	state := -1
	for len(rest) > 0 {
		var seg []byte
		seg, rest, state = uniseg.FirstWord(rest, state)
		pos += len(seg)
		if isWordSegment(seg) {
			break
		}
	}
	return pos
}

// wordLeft returns the start of the word before pos, or the start of the
// line when no word precedes pos on it.
func wordLeft(src []byte, pos int) int {
	if pos == 0 {
		return 0
	}
	start := 0
	for i := pos - 2; i >= 0; i-- {
		if src[i] == '\n' {
			start = i + 1
			break
		}
	}
	target := start
	rest := src[start:pos]
	off := start
	state := -1
	for len(rest) > 0 {
		var seg []byte
		seg, rest, state = uniseg.FirstWord(rest, state)
		if isWordSegment(seg) {
			target = off
		}
		off += len(seg)
	}
	return target
}

// Goto places c at pos, clamped to the buffer.
func (s *Session) Goto(c *Cursor, pos int) {
	s.moveTo(c, s.point(pos))
}

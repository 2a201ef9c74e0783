// Package editor implements the edit session: one or more cursors over a
// single buffer, with every mutation reported to the language analyzer and
// propagated to every cursor.
package editor

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kobzarvs/qtext/internal/buffer"
	"github.com/kobzarvs/qtext/internal/logger"
)

// Analyzer is the part of language analysis the session drives.
// *analyzer.Analyzer satisfies it.
type Analyzer interface {
	BeforeEdit(start, end int)
	AfterEdit(start, end int)
	IndentFor(lineStart int) int
	CommentPrefix() (string, bool)
	Format(src []byte) ([]byte, bool)
	ToggleMode() bool
}

// Point is a caret position. Col is the column vertical motion aims for;
// it survives moves across shorter lines.
type Point struct {
	Pos int
	Col int
}

type Cursor struct {
	Head      Point
	Tail      Point
	Clipboard []byte
	id        int
}

// ID is the cursor's creation number. Cursors are ordered by it.
func (c *Cursor) ID() int { return c.id }

type Options struct {
	// Keymap maps key names such as "ctrl+c" to action names.
	Keymap map[string]string
}

type Session struct {
	buf     *buffer.Buffer
	an      Analyzer
	cursors []*Cursor
	marked  bool
	nextID  int
	opts    Options
	log     *zap.SugaredLogger

	// actionHook observes every executed action; used by tests.
	actionHook func(action string)
}

// New opens a session with one cursor at the start of buf. an may be nil.
func New(buf *buffer.Buffer, an Analyzer, opts Options) *Session {
	s := &Session{buf: buf, an: an, opts: opts, log: logger.Named("editor")}
	s.AddCursor(0)
	return s
}

func (s *Session) Buffer() *buffer.Buffer { return s.buf }

// Cursors returns the cursors in creation order.
func (s *Session) Cursors() []*Cursor { return s.cursors }

// Primary is the oldest cursor.
func (s *Session) Primary() *Cursor { return s.cursors[0] }

func (s *Session) Marked() bool { return s.marked }

func (s *Session) point(pos int) Point {
	pos = s.buf.Clamp(pos)
	return Point{Pos: pos, Col: pos - s.buf.LineStart(pos)}
}

// AddCursor creates a cursor at pos, clamped to the buffer.
func (s *Session) AddCursor(pos int) *Cursor {
	p := s.point(pos)
	c := &Cursor{Head: p, Tail: p, id: s.nextID}
	s.nextID++
	s.cursors = append(s.cursors, c)
	return c
}

// CollapseCursors keeps only the oldest cursor. The clipboards of all
// cursors are concatenated into it in cursor order.
func (s *Session) CollapseCursors() {
	if len(s.cursors) == 1 {
		return
	}
	var clip []byte
	for _, c := range s.cursors {
		clip = append(clip, c.Clipboard...)
	}
	first := s.cursors[0]
	first.Clipboard = clip
	for i := 1; i < len(s.cursors); i++ {
		s.cursors[i] = nil
	}
	s.cursors = s.cursors[:1]
}

// Selection returns the selected range of c. It is empty at the head when
// the session is not marked.
func (s *Session) Selection(c *Cursor) (int, int) {
	if !s.marked {
		return c.Head.Pos, c.Head.Pos
	}
	return min(c.Head.Pos, c.Tail.Pos), max(c.Head.Pos, c.Tail.Pos)
}

// SetMark starts a selection at every cursor.
func (s *Session) SetMark() {
	for _, c := range s.cursors {
		c.Tail = c.Head
	}
	s.marked = true
}

func (s *Session) ClearMark()  { s.marked = false }
func (s *Session) ToggleMark() { s.marked = !s.marked }

// replace is the single mutation path: the analyzer sees the edit on both
// sides of the buffer change, then every cursor point is moved.
func (s *Session) replace(start, end int, text []byte) {
	if start == end && len(text) == 0 {
		return
	}
	if s.an != nil {
		s.an.BeforeEdit(start, end)
	}
	s.buf.Replace(start, end, text)
	if s.an != nil {
		s.an.AfterEdit(start, start+len(text))
	}
	for _, c := range s.cursors {
		s.shift(&c.Head, start, end, len(text))
		s.shift(&c.Tail, start, end, len(text))
	}
}

// shift moves p across a replacement of [start, end) by n bytes. Points
// inside the removed range collapse to start; points at or after the
// insertion point are pushed past the inserted text.
func (s *Session) shift(p *Point, start, end, n int) {
	pos := p.Pos
	switch {
	case pos > end:
		pos -= end - start
	case pos >= start:
		pos = start
	}
	if n > 0 && pos >= start {
		pos += n
	}
	if pos != p.Pos {
		*p = s.point(pos)
	}
}

// Insert puts text at c's head. c ends up after the text, and so does any
// other point sitting at the same offset.
func (s *Session) Insert(c *Cursor, text []byte) {
	s.replace(c.Head.Pos, c.Head.Pos, text)
}

// Delete removes [start, end) after clamping it to the buffer.
func (s *Session) Delete(start, end int) {
	start, end = s.buf.Clamp(start), s.buf.Clamp(end)
	if start > end {
		start, end = end, start
	}
	s.replace(start, end, nil)
}

// deleteSelections removes every cursor's selection and ends the mark. It
// reports whether the session was marked.
func (s *Session) deleteSelections() bool {
	if !s.marked {
		return false
	}
	for _, c := range s.cursors {
		start, end := s.Selection(c)
		s.replace(start, end, nil)
	}
	s.marked = false
	return true
}

// Type inserts text at every cursor, replacing the selections first.
func (s *Session) Type(text string) {
	if text == "" {
		return
	}
	s.deleteSelections()
	for _, c := range s.cursors {
		s.Insert(c, []byte(text))
	}
}

func (s *Session) Backspace() {
	if s.deleteSelections() {
		return
	}
	for _, c := range s.cursors {
		pos := c.Head.Pos
		if pos == 0 {
			continue
		}
		_, size := utf8.DecodeLastRune(s.buf.Bytes()[:pos])
		s.replace(pos-size, pos, nil)
	}
}

func (s *Session) DeleteChar() {
	if s.deleteSelections() {
		return
	}
	for _, c := range s.cursors {
		pos := c.Head.Pos
		if pos >= s.buf.Len() {
			continue
		}
		_, size := utf8.DecodeRune(s.buf.Bytes()[pos:])
		s.replace(pos, pos+size, nil)
	}
}

func (s *Session) DeleteWordLeft() {
	if s.deleteSelections() {
		return
	}
	for _, c := range s.cursors {
		pos := c.Head.Pos
		s.replace(wordLeft(s.buf.Bytes(), pos), pos, nil)
	}
}

// Copy replaces each cursor's clipboard with its selection. Without a mark
// the selection is empty, and so is the clipboard afterwards.
func (s *Session) Copy() {
	for _, c := range s.cursors {
		start, end := s.Selection(c)
		c.Clipboard = s.buf.Slice(start, end)
	}
}

// Cut copies and then deletes each selection, ending the mark.
func (s *Session) Cut() {
	s.Copy()
	s.deleteSelections()
}

// Paste inserts each cursor's own clipboard at its head.
func (s *Session) Paste() {
	s.deleteSelections()
	for _, c := range s.cursors {
		if len(c.Clipboard) > 0 {
			s.Insert(c, c.Clipboard)
		}
	}
}

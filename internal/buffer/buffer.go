// Package buffer holds the raw bytes of an open document and the position
// arithmetic the rest of the editor core is built on.
package buffer

import (
	"fmt"
	"sort"

	"github.com/kobzarvs/qtext/internal/logger"
)

// RangeError is the panic value raised when a caller passes offsets outside
// [0, Len()]. Callers are expected to clamp before calling in.
type RangeError struct {
	Op    string
	Start int
	End   int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("buffer: %s [%d, %d) out of range for length %d", e.Op, e.Start, e.End, e.Len)
}

// Buffer is a mutable byte sequence with a newline index.
// It does not track offsets held elsewhere: every mutation invalidates them.
type Buffer struct {
	data     []byte
	newlines []int // offsets of '\n', ascending
	version  uint64
}

func New(content []byte) *Buffer {
	b := &Buffer{data: append([]byte(nil), content...)}
	b.newlines = indexNewlines(b.data, 0, nil)
	return b
}

func NewString(content string) *Buffer {
	return New([]byte(content))
}

func indexNewlines(data []byte, base int, out []int) []int {
	for i, c := range data {
		if c == '\n' {
			out = append(out, base+i)
		}
	}
	return out
}

func (b *Buffer) check(op string, start, end int) {
	if start < 0 || start > end || end > len(b.data) {
		err := &RangeError{Op: op, Start: start, End: end, Len: len(b.data)}
		logger.Error("buffer contract violation", "op", op, "start", start, "end", end, "len", len(b.data))
		panic(err)
	}
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.data) }

// Version increases by one on every mutation.
func (b *Buffer) Version() uint64 { return b.version }

// Bytes returns the live content. The slice must not be modified and is only
// valid until the next mutation.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) String() string { return string(b.data) }

func (b *Buffer) ByteAt(pos int) byte {
	b.check("byteAt", pos, pos+1)
	return b.data[pos]
}

// Slice returns a copy of the bytes in [start, end).
func (b *Buffer) Slice(start, end int) []byte {
	b.check("slice", start, end)
	return append([]byte(nil), b.data[start:end]...)
}

// Insert places text at pos.
func (b *Buffer) Insert(pos int, text []byte) {
	b.check("insert", pos, pos)
	if len(text) == 0 {
		return
	}
	n := len(text)
	b.data = append(b.data, text...)
	copy(b.data[pos+n:], b.data[pos:len(b.data)-n])
	copy(b.data[pos:], text)

	i := sort.SearchInts(b.newlines, pos)
	added := indexNewlines(text, pos, nil)
	for j := i; j < len(b.newlines); j++ {
		b.newlines[j] += n
	}
	if len(added) > 0 {
		tail := append(added, b.newlines[i:]...)
		b.newlines = append(b.newlines[:i], tail...)
	}
	b.version++
}

// Delete removes the bytes in [start, end).
func (b *Buffer) Delete(start, end int) {
	b.check("delete", start, end)
	if start == end {
		return
	}
	n := end - start
	b.data = append(b.data[:start], b.data[end:]...)

	lo := sort.SearchInts(b.newlines, start)
	hi := sort.SearchInts(b.newlines, end)
	b.newlines = append(b.newlines[:lo], b.newlines[hi:]...)
	for j := lo; j < len(b.newlines); j++ {
		b.newlines[j] -= n
	}
	b.version++
}

// Replace deletes [start, end) and inserts text at start.
func (b *Buffer) Replace(start, end int, text []byte) {
	b.Delete(start, end)
	b.Insert(start, text)
}

// LineCount is the number of newline-separated lines; an empty buffer has one.
func (b *Buffer) LineCount() int { return len(b.newlines) + 1 }

// LineStart returns the offset of the first byte of the line containing pos.
func (b *Buffer) LineStart(pos int) int {
	b.check("lineStart", pos, pos)
	i := sort.SearchInts(b.newlines, pos)
	if i == 0 {
		return 0
	}
	return b.newlines[i-1] + 1
}

// LineEnd returns the offset of the terminator of the line containing pos,
// or Len() on the last line.
func (b *Buffer) LineEnd(pos int) int {
	b.check("lineEnd", pos, pos)
	i := sort.SearchInts(b.newlines, pos)
	if i == len(b.newlines) {
		return len(b.data)
	}
	return b.newlines[i]
}

// Line returns the zero-based line number containing pos.
func (b *Buffer) Line(pos int) int {
	b.check("line", pos, pos)
	return sort.SearchInts(b.newlines, pos)
}

// LineBounds returns [start, end) of line, excluding its terminator.
// Lines past the end clamp to the last line.
func (b *Buffer) LineBounds(line int) (int, int) {
	if line < 0 {
		line = 0
	}
	if line > len(b.newlines) {
		line = len(b.newlines)
	}
	start := 0
	if line > 0 {
		start = b.newlines[line-1] + 1
	}
	end := len(b.data)
	if line < len(b.newlines) {
		end = b.newlines[line]
	}
	return start, end
}

// OffsetForLineCol converts a zero-based line and byte column into an offset.
// col is clamped to the line length so the result never passes the terminator.
func (b *Buffer) OffsetForLineCol(line, col int) int {
	start, end := b.LineBounds(line)
	if col < 0 {
		col = 0
	}
	if start+col > end {
		return end
	}
	return start + col
}

// LineColForOffset is the inverse of OffsetForLineCol.
func (b *Buffer) LineColForOffset(pos int) (line, col int) {
	b.check("lineCol", pos, pos)
	line = sort.SearchInts(b.newlines, pos)
	start := 0
	if line > 0 {
		start = b.newlines[line-1] + 1
	}
	return line, pos - start
}

// Clamp saturates pos into [0, Len()].
func (b *Buffer) Clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(b.data) {
		return len(b.data)
	}
	return pos
}

package syntax

import (
	"hash/fnv"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette maps token kinds to display colors.
type Palette struct {
	Default     tcell.Color
	Identifier  tcell.Color
	Keyword     tcell.Color
	Number      tcell.Color
	String      tcell.Color
	Comment     tcell.Color
	Operator    tcell.Color
	Punctuation tcell.Color
	Error       tcell.Color
	// HashIdentifiers gives each identifier a hue derived from its text.
	HashIdentifiers bool
}

func (p *Palette) For(kind Kind) tcell.Color {
	switch kind {
	case KindIdentifier:
		return p.Identifier
	case KindKeyword:
		return p.Keyword
	case KindNumber:
		return p.Number
	case KindString:
		return p.String
	case KindComment:
		return p.Comment
	case KindOperator:
		return p.Operator
	case KindPunctuation:
		return p.Punctuation
	case KindError:
		return p.Error
	}
	return p.Default
}

// IdentifierColor derives a stable color from an identifier's text.
func IdentifierColor(name []byte) tcell.Color {
	h := fnv.New32a()
	_, _ = h.Write(name)
	sum := h.Sum32()
	hue := float64(sum % 360)
	sat := 0.35 + float64((sum>>9)%20)/100
	c := colorful.Hsv(hue, sat, 0.92).Clamped()
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Highlight fills out with one color per byte of [start, end). Bytes not
// covered by a token keep the default color. With emphasis set, comments
// take the default color and everything else is dimmed to the comment color.
func (t *Tokens) Highlight(src []byte, start, end int, p *Palette, emphasis bool, out []tcell.Color) {
	for i := range out {
		out[i] = p.Default
	}
	for i := t.Search(start); i < len(t.Toks); i++ {
		tok := t.Toks[i]
		if tok.Start >= end {
			break
		}
		color := p.For(tok.Kind)
		if tok.Kind == KindIdentifier && p.HashIdentifiers && tok.End <= len(src) {
			color = IdentifierColor(src[tok.Start:tok.End])
		}
		if emphasis {
			if tok.Kind == KindComment {
				color = p.Default
			} else {
				color = p.Comment
			}
		}
		lo, hi := max(tok.Start, start), min(tok.End, end)
		for j := lo; j < hi; j++ {
			out[j-start] = color
		}
	}
}

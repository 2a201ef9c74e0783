package syntax

import "bytes"

// jsonGrammar accepts JSON plus the comments of JSONC. Bare words other
// than true/false/null lex as errors.
type jsonGrammar struct{}

// NewJSONEngine returns an incremental JSON engine.
func NewJSONEngine(src Source, opts Options) *LexEngine {
	if opts.Formatter == nil {
		opts.Formatter = FormatJSON
	}
	return newLexEngine(FamilyJSON, jsonGrammar{}, src, opts)
}

func (jsonGrammar) next(src []byte, pos int) (Token, bool) {
	pos = skipSpace(src, pos)
	if pos >= len(src) {
		return Token{}, false
	}
	c := src[pos]
	var c1 byte
	if pos+1 < len(src) {
		c1 = src[pos+1]
	}
	tok := Token{Start: pos, End: pos + 1, Kind: KindError}

	switch {
	case c == '"':
		end, ok := scanQuoted(src, pos, '"', true, false)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case c == '/' && c1 == '/':
		tok.End, tok.Kind = scanToEOL(src, pos), KindComment
	case c == '/' && c1 == '*':
		tok.Kind = KindComment
		if i := bytes.Index(src[pos+2:], []byte("*/")); i >= 0 {
			tok.End = pos + 2 + i + 2
		} else {
			tok.End = len(src)
		}
	case isDigit(c) || c == '-':
		tok.End, tok.Kind = scanNumber(src, pos+1), KindNumber
	case isLetter(c):
		tok.End = scanWhile(src, pos, isIdentPart)
		switch string(src[pos:tok.End]) {
		case "true", "false", "null":
			tok.Kind = KindKeyword
		}
	case c == '{' || c == '[' || c == '}' || c == ']':
		tok = delimToken(pos, c)
	case c == ':' || c == ',':
		tok.Kind = KindPunctuation
	}
	return tok, true
}

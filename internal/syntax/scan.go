package syntax

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c >= 0x80
}

func isIdentPart(c byte) bool { return isLetter(c) || isDigit(c) }

func skipSpace(src []byte, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

func scanWhile(src []byte, pos int, f func(byte) bool) int {
	for pos < len(src) && f(src[pos]) {
		pos++
	}
	return pos
}

// scanToEOL returns the offset of the next '\n' at or after pos, or len(src).
func scanToEOL(src []byte, pos int) int {
	for pos < len(src) && src[pos] != '\n' {
		pos++
	}
	return pos
}

// scanQuoted scans a quote-delimited literal whose opening quote is at pos.
// With multiline false an unterminated literal stops before the newline.
// ok reports whether the closing quote was found.
func scanQuoted(src []byte, pos int, quote byte, escapes, multiline bool) (end int, ok bool) {
	i := pos + 1
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && escapes:
			if i+1 < len(src) && (multiline || src[i+1] != '\n') {
				i += 2
				continue
			}
			i++
		case c == quote:
			return i + 1, true
		case c == '\n' && !multiline:
			return i, false
		default:
			i++
		}
	}
	return len(src), false
}

// scanNumber scans digits, letters (hex digits, suffixes, exponents) and
// digit separators, a '.' only when a digit follows, and a sign directly
// after an exponent marker.
func scanNumber(src []byte, pos int) int {
	i := pos
	for i < len(src) {
		c := src[i]
		switch {
		case isIdentPart(c) && c < 0x80:
			i++
		case c == '.' && i+1 < len(src) && isDigit(src[i+1]):
			i++
		case (c == '+' || c == '-') && i > pos && isExponent(src, pos, i-1):
			i++
		default:
			return i
		}
	}
	return i
}

func isExponent(src []byte, start, i int) bool {
	c := src[i] | 0x20
	hex := i-start >= 1 && src[start] == '0' && start+1 < len(src) && src[start+1]|0x20 == 'x'
	if hex {
		return c == 'p'
	}
	return c == 'e'
}

func delimToken(pos int, c byte) Token {
	return Token{Start: pos, End: pos + 1, Kind: KindPunctuation, Delim: c}
}

func isBracket(c byte) bool {
	switch c {
	case '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func keywordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

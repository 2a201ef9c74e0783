package syntax

import "bytes"

var lispSpecialForms = keywordSet(
	"def", "defn", "defn-", "defmacro", "defmulti", "defmethod", "defprotocol", "defrecord", "deftype",
	"defonce", "define", "defun", "defvar", "defparameter", "fn", "lambda", "let", "let*", "letfn",
	"loop", "recur", "if", "if-not", "when", "when-not", "when-let", "if-let", "cond", "case", "do",
	"begin", "progn", "quote", "var", "try", "catch", "finally", "throw", "ns", "require", "import",
	"and", "or", "not", "set!", "while", "for", "doseq", "dotimes", "nil", "true", "false",
)

// lispGrammar handles the s-expression family. Commas are whitespace.
type lispGrammar struct{}

// NewLispEngine returns an incremental engine for Clojure/Scheme-like sources.
func NewLispEngine(src Source, opts Options) *LexEngine {
	if opts.CommentPrefix == "" {
		opts.CommentPrefix = ";"
	}
	return newLexEngine(FamilyLisp, lispGrammar{}, src, opts)
}

func isLispSpace(c byte) bool { return isSpace(c) || c == ',' }

func isLispDelimiter(c byte) bool {
	return isLispSpace(c) || isBracket(c) || c == '"' || c == ';'
}

func (lispGrammar) next(src []byte, pos int) (Token, bool) {
	pos = scanWhile(src, pos, isLispSpace)
	if pos >= len(src) {
		return Token{}, false
	}
	c := src[pos]
	var c1 byte
	if pos+1 < len(src) {
		c1 = src[pos+1]
	}
	tok := Token{Start: pos, End: pos + 1, Kind: KindOperator}

	switch {
	case c == ';':
		tok.End, tok.Kind = scanToEOL(src, pos), KindComment
	case c == '#' && c1 == '|':
		tok.Kind = KindComment
		if i := bytes.Index(src[pos+2:], []byte("|#")); i >= 0 {
			tok.End = pos + 2 + i + 2
		} else {
			tok.End = len(src)
		}
	case c == '"':
		end, ok := scanQuoted(src, pos, '"', true, true)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case c == '#' && c1 == '"':
		end, ok := scanQuoted(src, pos+1, '"', true, true)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case c == '\\' && pos+1 < len(src) && !isSpace(c1):
		tok.End = scanWhile(src, pos+2, func(b byte) bool { return !isLispDelimiter(b) })
		tok.Kind = KindString
	case isBracket(c):
		tok = delimToken(pos, c)
	case c == '#' && (c1 == '(' || c1 == '{' || c1 == '_' || c1 == '\''):
		// reader dispatch; the bracket that follows is its own token
	case c == '\'' || c == '`' || c == '~' || c == '@' || c == '^':
		if c == '~' && c1 == '@' {
			tok.End = pos + 2
		}
	default:
		tok.End = scanWhile(src, pos, func(b byte) bool { return !isLispDelimiter(b) })
		word := src[pos:tok.End]
		switch {
		case word[0] == ':':
			tok.Kind = KindNumber
		case isLispNumber(word):
			tok.Kind = KindNumber
		case lispSpecialForms[string(word)]:
			tok.Kind = KindKeyword
		default:
			tok.Kind = KindIdentifier
		}
	}
	return tok, true
}

func isLispNumber(word []byte) bool {
	if len(word) == 0 {
		return false
	}
	if (word[0] == '+' || word[0] == '-') && len(word) > 1 {
		word = word[1:]
	}
	return isDigit(word[0])
}

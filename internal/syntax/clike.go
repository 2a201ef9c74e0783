package syntax

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// clikeGrammar covers the brace languages: // and /* */ comments, quoted
// strings, char literals and per-language raw strings.
type clikeGrammar struct {
	keywords map[string]bool
	// rawQuote opens a multi-line string without escapes ('`' in Go).
	rawQuote byte
	// templateQuote opens a multi-line string with escapes ('`' in JS).
	templateQuote byte
	chars         bool
	lineStrings   bool // zig \\ strings
	directives    bool // #include, #[attr]
	annotations   bool // @builtin, @Override
}

var clikeGrammars = map[string]*clikeGrammar{
	"go": {
		keywords: keywordSet("break", "case", "chan", "const", "continue", "default", "defer", "else",
			"fallthrough", "for", "func", "go", "goto", "if", "import", "interface", "map", "package",
			"range", "return", "select", "struct", "switch", "type", "var", "true", "false", "nil", "iota"),
		rawQuote: '`',
		chars:    true,
	},
	"c": {
		keywords: keywordSet("auto", "break", "case", "char", "const", "continue", "default", "do",
			"double", "else", "enum", "extern", "float", "for", "goto", "if", "inline", "int", "long",
			"register", "restrict", "return", "short", "signed", "sizeof", "static", "struct", "switch",
			"typedef", "union", "unsigned", "void", "volatile", "while", "bool", "true", "false", "NULL",
			"class", "namespace", "template", "typename", "public", "private", "protected", "virtual",
			"nullptr", "new", "delete", "this", "using"),
		chars:      true,
		directives: true,
	},
	"javascript": {
		keywords: keywordSet("break", "case", "catch", "class", "const", "continue", "debugger", "default",
			"delete", "do", "else", "export", "extends", "finally", "for", "function", "if", "import", "in",
			"instanceof", "let", "new", "return", "super", "switch", "this", "throw", "try", "typeof", "var",
			"void", "while", "with", "yield", "async", "await", "of", "null", "undefined", "true", "false",
			"interface", "type", "enum", "implements", "readonly"),
		templateQuote: '`',
		chars:         false,
		annotations:   true,
	},
	"rust": {
		keywords: keywordSet("as", "async", "await", "break", "const", "continue", "crate", "dyn", "else",
			"enum", "extern", "false", "fn", "for", "if", "impl", "in", "let", "loop", "match", "mod", "move",
			"mut", "pub", "ref", "return", "self", "Self", "static", "struct", "super", "trait", "true",
			"type", "unsafe", "use", "where", "while"),
		chars:      true,
		directives: true,
	},
	"zig": {
		keywords: keywordSet("addrspace", "align", "allowzero", "and", "anyframe", "anytype", "asm", "async",
			"await", "break", "callconv", "catch", "comptime", "const", "continue", "defer", "else", "enum",
			"errdefer", "error", "export", "extern", "fn", "for", "if", "inline", "noalias", "nosuspend",
			"noinline", "opaque", "or", "orelse", "packed", "pub", "resume", "return", "linksection",
			"struct", "suspend", "switch", "test", "threadlocal", "try", "union", "unreachable",
			"usingnamespace", "var", "volatile", "while", "true", "false", "null", "undefined"),
		chars:       true,
		lineStrings: true,
		annotations: true,
	},
	"java": {
		keywords: keywordSet("abstract", "assert", "boolean", "break", "byte", "case", "catch", "char",
			"class", "const", "continue", "default", "do", "double", "else", "enum", "extends", "final",
			"finally", "float", "for", "goto", "if", "implements", "import", "instanceof", "int",
			"interface", "long", "native", "new", "package", "private", "protected", "public", "return",
			"short", "static", "strictfp", "super", "switch", "synchronized", "this", "throw", "throws",
			"transient", "try", "void", "volatile", "while", "true", "false", "null", "var", "record"),
		chars:       true,
		annotations: true,
	},
}

func clikeGrammarFor(name string) *clikeGrammar {
	if g, ok := clikeGrammars[strings.ToLower(name)]; ok {
		return g
	}
	return clikeGrammars["c"]
}

// NewCLikeEngine returns an incremental engine for the brace language name.
// Unknown names get the C keyword set.
func NewCLikeEngine(name string, src Source, opts Options) *LexEngine {
	if opts.CommentPrefix == "" {
		opts.CommentPrefix = "//"
	}
	return newLexEngine(FamilyCLike, clikeGrammarFor(name), src, opts)
}

func isOperatorByte(c byte) bool {
	return strings.IndexByte("+-*/%=&|^!<>~?:.\\#@'", c) >= 0
}

func (g *clikeGrammar) next(src []byte, pos int) (Token, bool) {
	pos = skipSpace(src, pos)
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
	case c == '/' && c1 == '/':
		tok.End, tok.Kind = scanToEOL(src, pos), KindComment
	case c == '/' && c1 == '*':
		tok.Kind = KindComment
		if i := bytes.Index(src[pos+2:], []byte("*/")); i >= 0 {
			tok.End = pos + 2 + i + 2
		} else {
			tok.End = len(src)
		}
	case c == '"':
		end, ok := scanQuoted(src, pos, '"', true, false)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case c == '\'' && g.chars:
		if end, ok := scanChar(src, pos); ok {
			tok.End, tok.Kind = end, KindString
		}
	case g.rawQuote != 0 && c == g.rawQuote:
		end, ok := scanQuoted(src, pos, c, false, true)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case g.templateQuote != 0 && c == g.templateQuote:
		end, ok := scanQuoted(src, pos, c, true, true)
		tok.End, tok.Kind = end, KindString
		if !ok {
			tok.Kind = KindError
		}
	case g.lineStrings && c == '\\' && c1 == '\\':
		tok.End, tok.Kind = scanToEOL(src, pos), KindString
	case isDigit(c) || c == '.' && isDigit(c1):
		tok.End, tok.Kind = scanNumber(src, pos), KindNumber
	case isLetter(c) || c == '$':
		tok.End = scanWhile(src, pos, func(b byte) bool { return isIdentPart(b) || b == '$' })
		tok.Kind = KindIdentifier
		if g.keywords[string(src[pos:tok.End])] {
			tok.Kind = KindKeyword
		}
	case (c == '#' && g.directives || c == '@' && g.annotations) && isLetter(c1):
		tok.End, tok.Kind = scanWhile(src, pos+1, isIdentPart), KindKeyword
	case isBracket(c):
		tok = delimToken(pos, c)
	case c == ',' || c == ';':
		tok.Kind = KindPunctuation
	case isOperatorByte(c):
		tok.End = pos + 1
		for tok.End < len(src) && isOperatorByte(src[tok.End]) && src[tok.End] != '\'' {
			if src[tok.End] == '/' && tok.End+1 < len(src) && (src[tok.End+1] == '/' || src[tok.End+1] == '*') {
				break
			}
			tok.End++
		}
	default:
		tok.Kind = KindError
	}
	return tok, true
}

// scanChar scans a char literal: an escape sequence or a single UTF-8
// character between single quotes.
func scanChar(src []byte, pos int) (int, bool) {
	if pos+1 >= len(src) {
		return 0, false
	}
	if src[pos+1] == '\\' {
		end, ok := scanQuoted(src, pos, '\'', true, false)
		if ok && end-pos <= 12 {
			return end, true
		}
		return 0, false
	}
	_, size := utf8.DecodeRune(src[pos+1:])
	if src[pos+1] == '\n' || src[pos+1] == '\'' {
		return 0, false
	}
	if end := pos + 1 + size; end < len(src) && src[end] == '\'' {
		return end + 1, true
	}
	return 0, false
}

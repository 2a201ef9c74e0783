package syntax

import (
	"bytes"
	"errors"
	"go/format"
	"io"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/kobzarvs/qtext/internal/logger"
)

// Formatter rewrites a whole document. ok is false when the source could
// not be formatted; the caller must then leave the buffer alone.
type Formatter func(src []byte, indentWidth int) (out []byte, ok bool)

// FormatterFor returns the formatter registered under name. Unknown and
// empty names get TrimTrailingWhitespace.
func FormatterFor(name string) Formatter {
	switch name {
	case "gofmt":
		return FormatGo
	case "json":
		return FormatJSON
	case "yaml":
		return FormatYAML
	}
	return func(src []byte, _ int) ([]byte, bool) {
		return TrimTrailingWhitespace(src), true
	}
}

// TrimTrailingWhitespace removes spaces and tabs at the end of every line.
// Line terminators, including "\r\n", are kept exactly.
func TrimTrailingWhitespace(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for len(src) > 0 {
		line := src
		rest := []byte(nil)
		term := []byte(nil)
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			line, rest, term = src[:i], src[i+1:], src[i:i+1]
		}
		if n := len(line); n > 0 && line[n-1] == '\r' && term != nil {
			line, term = line[:n-1], src[n-1:n+1]
		}
		out = append(out, bytes.TrimRight(line, " \t")...)
		out = append(out, term...)
		src = rest
	}
	return out
}

func FormatGo(src []byte, _ int) ([]byte, bool) {
	out, err := format.Source(src)
	if err != nil {
		logger.Debug("gofmt failed", "err", err)
		return nil, false
	}
	return out, true
}

func FormatJSON(src []byte, indentWidth int) ([]byte, bool) {
	if !gjson.ValidBytes(src) {
		logger.Debug("json format: invalid document")
		return nil, false
	}
	if indentWidth <= 0 {
		indentWidth = 2
	}
	return pretty.PrettyOptions(src, &pretty.Options{
		Width:  80,
		Prefix: "",
		Indent: strings.Repeat(" ", indentWidth),
	}), true
}

// FormatYAML re-encodes every document in src, keeping comments attached
// to their nodes.
func FormatYAML(src []byte, indentWidth int) ([]byte, bool) {
	if indentWidth <= 0 {
		indentWidth = 2
	}
	dec := yaml.NewDecoder(bytes.NewReader(src))
	var docs []*yaml.Node
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Debug("yaml format failed", "err", err)
			return nil, false
		}
		docs = append(docs, &doc)
	}
	if len(docs) == 0 {
		return TrimTrailingWhitespace(src), true
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indentWidth)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			logger.Debug("yaml encode failed", "err", err)
			return nil, false
		}
	}
	if err := enc.Close(); err != nil {
		return nil, false
	}
	return buf.Bytes(), true
}

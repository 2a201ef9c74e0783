package app

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/analyzer"
	"github.com/kobzarvs/qtext/internal/buffer"
	"github.com/kobzarvs/qtext/internal/config"
	"github.com/kobzarvs/qtext/internal/editor"
	"github.com/kobzarvs/qtext/internal/logger"
	"github.com/kobzarvs/qtext/internal/syntax"
)

const usage = `usage: qtext [flags] <command> <file> [script]

commands:
  tokens     list tokens with their kinds
  parens     list brackets with level, parent and partner
  indent     print the suggested indentation of every line
  format     print the formatted document
  highlight  print the document in 24-bit color
  replay     apply an edit script, print the result and check the tokens
`

// ErrMismatch is returned by replay when the incrementally maintained
// tokens differ from a fresh tokenization of the final text.
var ErrMismatch = errors.New("incremental tokens differ from full tokenization")

// App is the top-level runtime for qtext.
type App struct {
	args []string
	out  io.Writer
}

func New(args []string) *App {
	return &App{args: args, out: os.Stdout}
}

type document struct {
	path  string
	cfg   config.Config
	langs config.Languages
	buf   *buffer.Buffer
	an    *analyzer.Analyzer
	sess  *editor.Session
}

func (a *App) Run() error {
	fs := flag.NewFlagSet("qtext", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	debug := fs.Bool("debug", false, "log at debug level")
	logPath := fs.String("log", "", "log file path")
	if err := fs.Parse(a.args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}
	args := fs.Args()
	if len(args) < 2 {
		return errors.New(usage)
	}
	cmd, path := args[0], args[1]

	if *debug || *logPath != "" {
		if err := logger.Init(logger.Options{Path: *logPath, Debug: *debug}); err != nil {
			return err
		}
		defer logger.Close()
	}

	doc, err := open(path)
	if err != nil {
		return err
	}
	defer doc.an.Close()
	logger.Debug("opened", "path", path, "language", doc.an.Language(), "family", doc.an.Family().String())

	switch cmd {
	case "tokens":
		return a.tokens(doc)
	case "parens":
		return a.parens(doc)
	case "indent":
		return a.indent(doc)
	case "format":
		return a.format(doc)
	case "highlight":
		return a.highlight(doc)
	case "replay":
		if len(args) < 3 {
			return errors.New("replay needs a script file")
		}
		script, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer script.Close()
		return a.replay(doc, script)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func open(path string) (*document, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	buf := buffer.New(data)
	an := analyzer.Open(path, buf, cfg, langs)
	sess := editor.New(buf, an, editor.Options{Keymap: cfg.Keymap})
	return &document{path: path, cfg: cfg, langs: langs, buf: buf, an: an, sess: sess}, nil
}

func (a *App) tokens(doc *document) error {
	w := bufio.NewWriter(a.out)
	src := doc.buf.Bytes()
	for _, t := range doc.an.Tokens().Toks {
		fmt.Fprintf(w, "%d\t%d\t%s\t%q\n", t.Start, t.End, t.Kind, src[t.Start:t.End])
	}
	return w.Flush()
}

func (a *App) parens(doc *document) error {
	w := bufio.NewWriter(a.out)
	toks := doc.an.Tokens()
	for i, t := range toks.Toks {
		if t.Delim == 0 {
			continue
		}
		partner := syntax.None
		if m := toks.Match[i]; m != syntax.None {
			partner = toks.Toks[m].Start
		}
		fmt.Fprintf(w, "%d\t%c\tlevel=%d\tparent=%d\tmatch=%d\n", t.Start, t.Delim, toks.Level[i], toks.Parent[i], partner)
	}
	return w.Flush()
}

func (a *App) indent(doc *document) error {
	w := bufio.NewWriter(a.out)
	for line := 0; line < doc.buf.LineCount(); line++ {
		start, end := doc.buf.LineBounds(line)
		fmt.Fprintf(w, "%d\t%s\n", doc.an.IndentFor(start), bytes.TrimLeft(doc.buf.Slice(start, end), " \t"))
	}
	return w.Flush()
}

func (a *App) format(doc *document) error {
	out, ok := doc.an.Format(doc.buf.Bytes())
	if !ok {
		return fmt.Errorf("%s: formatter rejected the document", doc.path)
	}
	_, err := a.out.Write(out)
	return err
}

func (a *App) highlight(doc *document) error {
	w := bufio.NewWriter(a.out)
	writeColored(w, doc.buf.Bytes(), doc.an.Highlight(0, doc.buf.Len()))
	return w.Flush()
}

// writeColored writes src with an SGR foreground sequence wherever the
// color changes.
func writeColored(w io.Writer, src []byte, colors []tcell.Color) {
	cur := tcell.ColorReset
	for i, c := range colors {
		if c != cur {
			if r, g, b := c.RGB(); r >= 0 {
				fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm", r, g, b)
			} else {
				io.WriteString(w, "\x1b[39m")
			}
			cur = c
		}
		w.Write(src[i : i+1])
	}
	if cur != tcell.ColorReset {
		io.WriteString(w, "\x1b[0m")
	}
}

// replay runs script against the session. Each line is one step:
//
//	type TEXT        insert TEXT (a quoted Go string allows escapes)
//	goto POS         move the primary cursor
//	cursor POS       add a cursor
//	delete START END remove a byte range
//	ACTION           any keymap action, such as newline or paste
//
// Blank lines and lines starting with # are skipped.
func (a *App) replay(doc *document, script io.Reader) error {
	sc := bufio.NewScanner(script)
	for n := 1; sc.Scan(); n++ {
		if err := step(doc.sess, sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if _, err := a.out.Write(doc.buf.Bytes()); err != nil {
		return err
	}

	fresh := analyzer.Open(doc.path, doc.buf, doc.cfg, doc.langs)
	defer fresh.Close()
	if !reflect.DeepEqual(doc.an.Tokens().Clone(), fresh.Tokens().Clone()) {
		logger.Error("replay mismatch", "path", doc.path, "family", doc.an.Family().String())
		return ErrMismatch
	}
	return nil
}

func step(s *editor.Session, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	switch verb {
	case "type":
		text := rest
		if strings.HasPrefix(rest, `"`) {
			t, err := strconv.Unquote(rest)
			if err != nil {
				return err
			}
			text = t
		}
		s.Type(text)
	case "goto", "cursor":
		pos, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil {
			return err
		}
		if verb == "goto" {
			s.Goto(s.Primary(), pos)
		} else {
			s.AddCursor(pos)
		}
	case "delete":
		var start, end int
		if _, err := fmt.Sscan(rest, &start, &end); err != nil {
			return err
		}
		s.Delete(start, end)
	default:
		if !s.Exec(verb) {
			return fmt.Errorf("unknown action %q", verb)
		}
	}
	return nil
}

package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/kobzarvs/qtext/internal/logger"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("QTEXT_CONFIG_HOME", t.TempDir())
	var out bytes.Buffer
	a := New(args)
	a.out = &out
	err := a.Run()
	return out.String(), err
}

func TestTokensCommand(t *testing.T) {
	path := writeFile(t, "x.go", "f(a)")
	out, err := run(t, "tokens", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "0\t1\tidentifier\t\"f\"\n" +
		"1\t2\tpunctuation\t\"(\"\n" +
		"2\t3\tidentifier\t\"a\"\n" +
		"3\t4\tpunctuation\t\")\"\n"
	if out != want {
		t.Fatalf("tokens = %q, want %q", out, want)
	}
}

func TestParensCommand(t *testing.T) {
	path := writeFile(t, "x.go", "f(a)")
	out, err := run(t, "parens", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "1\t(\tlevel=0\tparent=-1\tmatch=3\n" +
		"3\t)\tlevel=0\tparent=-1\tmatch=1\n"
	if out != want {
		t.Fatalf("parens = %q, want %q", out, want)
	}
}

func TestIndentCommand(t *testing.T) {
	path := writeFile(t, "x.go", "f() {\nx\n}\n")
	out, err := run(t, "indent", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "0\tf() {\n4\tx\n0\t}\n0\t\n"
	if out != want {
		t.Fatalf("indent = %q, want %q", out, want)
	}
}

func TestFormatCommand(t *testing.T) {
	path := writeFile(t, "x.json", `{"a":1}`)
	out, err := run(t, "format", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "{\n  \"a\": 1\n}\n"; out != want {
		t.Fatalf("format = %q, want %q", out, want)
	}

	broken := writeFile(t, "y.json", `{"a":`)
	if _, err := run(t, "format", broken); err == nil {
		t.Fatalf("format of broken json succeeded")
	}
}

var sgr = regexp.MustCompile("\x1b\\[[0-9;]*m")

func TestHighlightCommand(t *testing.T) {
	src := "// note\nfunc f() {}\n"
	path := writeFile(t, "x.go", src)
	out, err := run(t, "highlight", path)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "\x1b[38;2;") {
		t.Fatalf("highlight output has no color: %q", out)
	}
	if plain := sgr.ReplaceAllString(out, ""); plain != src {
		t.Fatalf("stripped output = %q, want %q", plain, src)
	}
}

func TestReplay(t *testing.T) {
	path := writeFile(t, "x.go", "a\n")
	script := writeFile(t, "edits.txt", "# build a function\ntype \"func f() {\"\nnewline\ntype x\n")
	out, err := run(t, "replay", path, script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "func f() {\n    xa\n"; out != want {
		t.Fatalf("replay = %q, want %q", out, want)
	}
}

func TestReplayMultiCursorDelete(t *testing.T) {
	path := writeFile(t, "x.clj", "(a)\n(b)\n")
	script := writeFile(t, "edits.txt", "goto 1\ncursor 5\ntype \"+ \"\ndelete 0 1\n")
	out, err := run(t, "replay", path, script)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := "+ a)\n(+ b)\n"; out != want {
		t.Fatalf("replay = %q, want %q", out, want)
	}
}

func TestReplayReportsBadLine(t *testing.T) {
	path := writeFile(t, "x.go", "a\n")
	script := writeFile(t, "edits.txt", "type b\nfly_away\n")
	_, err := run(t, "replay", path, script)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v, want a line 2 error", err)
	}
	if errors.Is(err, ErrMismatch) {
		t.Fatalf("err = %v, want a script error", err)
	}
}

func TestUsageErrors(t *testing.T) {
	if _, err := run(t, "tokens"); err == nil {
		t.Fatalf("missing file accepted")
	}
	path := writeFile(t, "x.go", "a\n")
	if _, err := run(t, "explode", path); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v, want unknown command", err)
	}
	if _, err := run(t, "tokens", filepath.Join(t.TempDir(), "missing.go")); err == nil {
		t.Fatalf("missing file opened")
	}
}

func TestLogFlag(t *testing.T) {
	path := writeFile(t, "x.go", "a\n")
	logPath := filepath.Join(t.TempDir(), "qtext.log")
	defer func() { logger.L, logger.S = nil, nil }()
	if _, err := run(t, "--debug", "--log", logPath, "tokens", path); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "opened") {
		t.Fatalf("log = %q, want an opened entry", data)
	}
}

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersBeforeInitAreNoops(t *testing.T) {
	L, S = nil, nil
	Debug("ignored", "k", 1)
	Error("ignored")
	if Named("x") == nil {
		t.Fatalf("Named before Init returned nil")
	}
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(core)
	defer func() { L, S = nil, nil }()

	Warn("engine selected", "engine", "clike")
	Named("analyzer").Infow("open", "path", "a.go")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Message != "engine selected" || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("entry0 = %q/%v", entries[0].Message, entries[0].Level)
	}
	if entries[1].LoggerName != "analyzer" {
		t.Fatalf("logger name = %q, want %q", entries[1].LoggerName, "analyzer")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "qtext.log")
	if err := Init(Options{Path: path, Debug: true}); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("hello", "n", 3)
	Close()
	L, S = nil, nil

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log file missing message: %q", data)
	}
}

func TestLogPathEnv(t *testing.T) {
	t.Setenv("QTEXT_LOG_FILE", "")
	t.Setenv("QTEXT_CONFIG_HOME", "/tmp/qtext-home")
	got, err := getLogPath()
	if err != nil {
		t.Fatalf("getLogPath error: %v", err)
	}
	if got != "/tmp/qtext-home/qtext.log" {
		t.Fatalf("getLogPath = %q, want %q", got, "/tmp/qtext-home/qtext.log")
	}
}

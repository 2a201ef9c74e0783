package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("QTEXT_CONFIG_HOME", "/tmp/qtext-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/qtext-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/qtext-config")
	}

	t.Setenv("QTEXT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/qtext" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/qtext")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "test.toml"), `
foreground = "#111111"
syntax-keyword = "#222222"
syntax-comment = "#333333"
`)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
tab-width = 8
hash-identifiers = false
fallback = "none"

[theme]
theme = "test"
syntax-comment = "#123456"

[keymap]
"ctrl+q" = "collapse_cursors"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.TabWidth != 8 {
		t.Fatalf("TabWidth = %d, want 8", cfg.Editor.TabWidth)
	}
	if cfg.Editor.IndentWidth != 4 {
		t.Fatalf("IndentWidth = %d, want 4", cfg.Editor.IndentWidth)
	}
	if cfg.Editor.HashIdentifiers {
		t.Fatalf("HashIdentifiers = true, want false")
	}
	if cfg.Editor.Fallback != FallbackNone {
		t.Fatalf("Fallback = %q, want %q", cfg.Editor.Fallback, FallbackNone)
	}
	if cfg.Theme.Foreground != "#111111" {
		t.Fatalf("Foreground = %q, want %q", cfg.Theme.Foreground, "#111111")
	}
	if cfg.Theme.SyntaxKeyword != "#222222" {
		t.Fatalf("SyntaxKeyword = %q, want %q", cfg.Theme.SyntaxKeyword, "#222222")
	}
	if cfg.Theme.SyntaxComment != "#123456" {
		t.Fatalf("SyntaxComment = %q, want %q", cfg.Theme.SyntaxComment, "#123456")
	}
	if cfg.Keymap["ctrl+q"] != "collapse_cursors" {
		t.Fatalf("keymap ctrl+q = %q, want %q", cfg.Keymap["ctrl+q"], "collapse_cursors")
	}
	if cfg.Keymap["left"] != "move_left" {
		t.Fatalf("keymap left = %q, want %q", cfg.Keymap["left"], "move_left")
	}
}

func TestLoadKeepsHashIdentifiersWhenUnset(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[editor]\ntab-width = 2\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Editor.HashIdentifiers {
		t.Fatalf("HashIdentifiers = false, want default true")
	}
}

func TestLoadRejectsBadFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)
	writeFile(t, filepath.Join(dir, "config.toml"), "[editor]\nfallback = \"maybe\"\n")

	if _, err := Load(); err == nil {
		t.Fatalf("Load error = nil, want error")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}

func TestColor(t *testing.T) {
	if got := Color("#FF0000"); got != tcell.NewRGBColor(255, 0, 0) {
		t.Fatalf("Color(#FF0000) = %v", got)
	}
	if got := Color(""); got != tcell.ColorDefault {
		t.Fatalf("Color(\"\") = %v, want default", got)
	}
}

package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", ".go"}},
			{Name: "shell", FileTypes: []string{".bashrc", "Makefile"}},
		},
	}

	if got := cfg.Match("main.go"); got == nil || got.Name != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
	if got := cfg.Match("src/MAIN.GO"); got == nil || got.Name != "go" {
		t.Fatalf("Match MAIN.GO = %#v, want go", got)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match(".bashrc"); got == nil || got.Name != "shell" {
		t.Fatalf("Match .bashrc = %#v, want shell", got)
	}
	if got := cfg.Match("Makefile"); got == nil || got.Name != "shell" {
		t.Fatalf("Match Makefile = %#v, want shell", got)
	}
	if got := cfg.Match("unknown.txt"); got != nil {
		t.Fatalf("Match unknown.txt = %#v, want nil", got)
	}
}

func TestDefaultLanguagesAreValid(t *testing.T) {
	seen := map[string]string{}
	for _, lang := range DefaultLanguages().Languages {
		if err := validateLanguage(lang); err != nil {
			t.Fatalf("default %q invalid: %v", lang.Name, err)
		}
		for _, ft := range lang.FileTypes {
			if prev, ok := seen[ft]; ok {
				t.Fatalf("file type %q bound to both %q and %q", ft, prev, lang.Name)
			}
			seen[ft] = lang.Name
		}
	}
	if got := DefaultLanguages().Match("x.yml"); got == nil || got.GrammarName() != "yaml" {
		t.Fatalf("Match x.yml = %#v, want yaml", got)
	}
}

func TestLoadLanguagesOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "go"
indent-width = 8

[[language]]
name = "txt"
file-types = ["txt"]
engine = "generic"
comment-token = "#"
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	goLang := cfg.Match("a.go")
	if goLang == nil {
		t.Fatalf("go language missing")
	}
	if goLang.IndentWidth != 8 {
		t.Fatalf("go IndentWidth = %d, want 8", goLang.IndentWidth)
	}
	if goLang.Engine != EngineCLike || goLang.Formatter != FormatterGofmt {
		t.Fatalf("go overlay lost built-in fields: %#v", goLang)
	}
	txt := cfg.Match("notes.txt")
	if txt == nil || txt.Engine != EngineGeneric || txt.CommentToken != "#" {
		t.Fatalf("Match notes.txt = %#v", txt)
	}
	if cfg.Match("a.json") == nil {
		t.Fatalf("built-in json dropped by overlay")
	}
}

func TestLoadLanguagesRejectsUnknownEngine(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "odd"
file-types = ["odd"]
engine = "parser"
`)

	_, err := LoadLanguages()
	if err == nil || !strings.Contains(err.Error(), "unknown engine") {
		t.Fatalf("LoadLanguages error = %v, want unknown engine", err)
	}
}

func TestLoadLanguagesMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QTEXT_CONFIG_HOME", dir)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) != len(DefaultLanguages().Languages) {
		t.Fatalf("Languages len = %d, want %d", len(cfg.Languages), len(DefaultLanguages().Languages))
	}
}

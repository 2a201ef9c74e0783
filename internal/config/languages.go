package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Engine families a language can be bound to.
const (
	EngineCLike      = "clike"
	EngineLisp       = "lisp"
	EngineJSON       = "json"
	EngineTreeSitter = "treesitter"
	EngineChroma     = "chroma"
	EngineGeneric    = "generic"
	EngineNone       = "none"
)

// Formatters a language can be bound to.
const (
	FormatterGofmt = "gofmt"
	FormatterJSON  = "json"
	FormatterYAML  = "yaml"
	FormatterTrim  = "trim"
)

type Language struct {
	Name         string   `toml:"name"`
	FileTypes    []string `toml:"file-types"`
	Engine       string   `toml:"engine"`
	CommentToken string   `toml:"comment-token"`
	IndentWidth  int      `toml:"indent-width"`
	Formatter    string   `toml:"formatter"`
	// Grammar names the tree-sitter grammar or chroma lexer; defaults to Name.
	Grammar string `toml:"grammar"`
}

func (l Language) GrammarName() string {
	if l.Grammar != "" {
		return l.Grammar
	}
	return l.Name
}

type Languages struct {
	Languages []Language `toml:"language"`
}

func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// Lookup returns the language with the given name.
func (l Languages) Lookup(name string) *Language {
	for i := range l.Languages {
		if l.Languages[i].Name == name {
			return &l.Languages[i]
		}
	}
	return nil
}

// DefaultLanguages is the closed built-in extension table.
func DefaultLanguages() Languages {
	return Languages{Languages: []Language{
		{Name: "go", FileTypes: []string{"go"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 4, Formatter: FormatterGofmt},
		{Name: "c", FileTypes: []string{"c", "h", "cc", "cpp", "hpp"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 4},
		{Name: "javascript", FileTypes: []string{"js", "mjs", "cjs", "ts", "tsx", "jsx"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 2},
		{Name: "rust", FileTypes: []string{"rs"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 4},
		{Name: "zig", FileTypes: []string{"zig"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 4},
		{Name: "java", FileTypes: []string{"java"}, Engine: EngineCLike, CommentToken: "//", IndentWidth: 4},
		{Name: "clojure", FileTypes: []string{"clj", "cljs", "cljc", "edn"}, Engine: EngineLisp, CommentToken: ";", IndentWidth: 2},
		{Name: "scheme", FileTypes: []string{"scm", "el", "janet", "lisp"}, Engine: EngineLisp, CommentToken: ";", IndentWidth: 2},
		{Name: "json", FileTypes: []string{"json", "jsonc"}, Engine: EngineJSON, IndentWidth: 2, Formatter: FormatterJSON},
		{Name: "bash", FileTypes: []string{"sh", "bash", "zsh", ".bashrc", ".zshrc"}, Engine: EngineTreeSitter, CommentToken: "#", IndentWidth: 2},
		{Name: "toml", FileTypes: []string{"toml"}, Engine: EngineTreeSitter, CommentToken: "#", IndentWidth: 2},
		{Name: "yaml", FileTypes: []string{"yaml", "yml"}, Engine: EngineTreeSitter, CommentToken: "#", IndentWidth: 2, Formatter: FormatterYAML},
		{Name: "python", FileTypes: []string{"py"}, Engine: EngineChroma, CommentToken: "#", IndentWidth: 4},
		{Name: "ruby", FileTypes: []string{"rb"}, Engine: EngineChroma, CommentToken: "#", IndentWidth: 2},
		{Name: "lua", FileTypes: []string{"lua"}, Engine: EngineChroma, CommentToken: "--", IndentWidth: 2},
		{Name: "perl", FileTypes: []string{"pl"}, Engine: EngineChroma, CommentToken: "#", IndentWidth: 4},
		{Name: "php", FileTypes: []string{"php"}, Engine: EngineChroma, CommentToken: "//", IndentWidth: 4},
		{Name: "sql", FileTypes: []string{"sql"}, Engine: EngineChroma, CommentToken: "--", IndentWidth: 2},
		{Name: "css", FileTypes: []string{"css"}, Engine: EngineChroma, IndentWidth: 2},
		{Name: "html", FileTypes: []string{"html", "htm"}, Engine: EngineChroma, IndentWidth: 2},
	}}
}

// LoadLanguages returns the built-in table overlaid with languages.toml.
// User entries replace built-ins of the same name and are matched first.
func LoadLanguages() (Languages, error) {
	langs := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return langs, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return langs, nil
		}
		return langs, err
	}
	merged, err := mergeLanguages(langs, string(data))
	if err != nil {
		return langs, fmt.Errorf("languages %s: %w", path, err)
	}
	return merged, nil
}

func mergeLanguages(base Languages, data string) (Languages, error) {
	var user Languages
	if _, err := toml.Decode(data, &user); err != nil {
		return base, err
	}
	out := Languages{}
	seen := make(map[string]bool, len(user.Languages))
	for _, lang := range user.Languages {
		if lang.Name == "" {
			return base, fmt.Errorf("language entry without a name")
		}
		if prev := base.Lookup(lang.Name); prev != nil {
			lang = overlayLanguage(*prev, lang)
		}
		if err := validateLanguage(lang); err != nil {
			return base, err
		}
		seen[lang.Name] = true
		out.Languages = append(out.Languages, lang)
	}
	for _, lang := range base.Languages {
		if !seen[lang.Name] {
			out.Languages = append(out.Languages, lang)
		}
	}
	return out, nil
}

func overlayLanguage(dst, src Language) Language {
	if len(src.FileTypes) > 0 {
		dst.FileTypes = src.FileTypes
	}
	if src.Engine != "" {
		dst.Engine = src.Engine
	}
	if src.CommentToken != "" {
		dst.CommentToken = src.CommentToken
	}
	if src.IndentWidth > 0 {
		dst.IndentWidth = src.IndentWidth
	}
	if src.Formatter != "" {
		dst.Formatter = src.Formatter
	}
	if src.Grammar != "" {
		dst.Grammar = src.Grammar
	}
	return dst
}

func validateLanguage(lang Language) error {
	switch lang.Engine {
	case EngineCLike, EngineLisp, EngineJSON, EngineTreeSitter, EngineChroma, EngineGeneric, EngineNone:
	case "":
		return fmt.Errorf("language %q: missing engine", lang.Name)
	default:
		return fmt.Errorf("language %q: unknown engine %q", lang.Name, lang.Engine)
	}
	switch lang.Formatter {
	case "", FormatterGofmt, FormatterJSON, FormatterYAML, FormatterTrim:
	default:
		return fmt.Errorf("language %q: unknown formatter %q", lang.Name, lang.Formatter)
	}
	return nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}

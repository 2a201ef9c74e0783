package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
)

const (
	FallbackGeneric = "generic"
	FallbackNone    = "none"
)

type EditorOptions struct {
	TabWidth        int    `toml:"tab-width"`
	IndentWidth     int    `toml:"indent-width"`
	HashIdentifiers bool   `toml:"hash-identifiers"`
	Fallback        string `toml:"fallback"`
}

type Theme struct {
	Theme             string `toml:"theme"`
	Foreground        string `toml:"foreground"`
	Background        string `toml:"background"`
	SyntaxKeyword     string `toml:"syntax-keyword"`
	SyntaxString      string `toml:"syntax-string"`
	SyntaxComment     string `toml:"syntax-comment"`
	SyntaxNumber      string `toml:"syntax-number"`
	SyntaxOperator    string `toml:"syntax-operator"`
	SyntaxPunctuation string `toml:"syntax-punctuation"`
	SyntaxUnknown     string `toml:"syntax-unknown"`
	SyntaxVariable    string `toml:"syntax-variable"`
}

type Config struct {
	Editor EditorOptions     `toml:"editor"`
	Theme  Theme             `toml:"theme"`
	Keymap map[string]string `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			TabWidth:        4,
			IndentWidth:     4,
			HashIdentifiers: true,
			Fallback:        FallbackGeneric,
		},
		Theme: Theme{
			Foreground:        "#B3B1AD",
			Background:        "#0A0E14",
			SyntaxKeyword:     "#FFA759",
			SyntaxString:      "#BAE67E",
			SyntaxComment:     "#5C6773",
			SyntaxNumber:      "#D4BFFF",
			SyntaxOperator:    "#F29668",
			SyntaxPunctuation: "#C0C0C0",
			SyntaxUnknown:     "#FF0000",
			SyntaxVariable:    "#B3B1AD",
		},
		Keymap: map[string]string{
			"left":           "move_left",
			"right":          "move_right",
			"up":             "move_up",
			"down":           "move_down",
			"home":           "line_start",
			"end":            "line_end",
			"ctrl+home":      "file_start",
			"ctrl+end":       "file_end",
			"ctrl+left":      "word_left",
			"ctrl+right":     "word_right",
			"ctrl+space":     "set_mark",
			"ctrl+g":         "clear_mark",
			"ctrl+k":         "toggle_mark",
			"ctrl+a":         "select_all",
			"ctrl+c":         "copy",
			"ctrl+x":         "cut",
			"ctrl+v":         "paste",
			"backspace":      "backspace",
			"del":            "delete_char",
			"enter":          "newline",
			"tab":            "indent_line",
			"ctrl+/":         "toggle_comment",
			"ctrl+d":         "add_cursor_below",
			"esc":            "collapse_cursors",
			"alt+f":          "format",
			"ctrl+t":         "toggle_mode",
			"ctrl+backspace": "delete_word_left",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := apply(&cfg, string(data)); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func apply(cfg *Config, data string) error {
	var userCfg Config
	meta, err := toml.Decode(data, &userCfg)
	if err != nil {
		return err
	}

	if userCfg.Editor.TabWidth > 0 {
		cfg.Editor.TabWidth = userCfg.Editor.TabWidth
	}
	if userCfg.Editor.IndentWidth > 0 {
		cfg.Editor.IndentWidth = userCfg.Editor.IndentWidth
	}
	if meta.IsDefined("editor", "hash-identifiers") {
		cfg.Editor.HashIdentifiers = userCfg.Editor.HashIdentifiers
	}
	switch userCfg.Editor.Fallback {
	case "":
	case FallbackGeneric, FallbackNone:
		cfg.Editor.Fallback = userCfg.Editor.Fallback
	default:
		return fmt.Errorf("editor.fallback: unknown value %q", userCfg.Editor.Fallback)
	}

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	for key, action := range userCfg.Keymap {
		cfg.Keymap[key] = action
	}
	return nil
}

func mergeTheme(dst *Theme, src Theme) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.Foreground, src.Foreground)
	set(&dst.Background, src.Background)
	set(&dst.SyntaxKeyword, src.SyntaxKeyword)
	set(&dst.SyntaxString, src.SyntaxString)
	set(&dst.SyntaxComment, src.SyntaxComment)
	set(&dst.SyntaxNumber, src.SyntaxNumber)
	set(&dst.SyntaxOperator, src.SyntaxOperator)
	set(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	set(&dst.SyntaxUnknown, src.SyntaxUnknown)
	set(&dst.SyntaxVariable, src.SyntaxVariable)
}

// Color parses a theme hex string. Unparseable values fall back to the
// terminal default color.
func Color(hex string) tcell.Color {
	if hex == "" {
		return tcell.ColorDefault
	}
	return tcell.GetColor(hex)
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The file may hold the keys at the top
// level or wrapped in a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	var wrapped struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrapped); err == nil && wrapped.Theme != (Theme{}) {
		return wrapped.Theme, nil
	}
	var theme Theme
	if _, err := toml.Decode(string(data), &theme); err != nil {
		return Theme{}, fmt.Errorf("theme %q: %w", name, err)
	}
	return theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("QTEXT_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "qtext"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qtext"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

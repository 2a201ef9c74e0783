package editor

import (
	"sort"
	"strings"
	"testing"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qtext/internal/config"
)

func TestDefaultHotkeysTriggerActions(t *testing.T) {
	cfg := config.Default()
	keys := sortedKeys(cfg.Keymap)
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			s := newTestSession("one\ntwo\nthree", cfg)
			var got []string
			s.actionHook = func(action string) {
				got = append(got, action)
			}
			_ = s.HandleKey(eventForKeyString(t, key))
			if len(got) == 0 {
				t.Fatalf("no action executed for %q", key)
			}
			if len(got) > 1 {
				t.Fatalf("multiple actions executed for %q: %v", key, got)
			}
			if got[0] != cfg.Keymap[key] {
				t.Fatalf("action = %q, want %q", got[0], cfg.Keymap[key])
			}
		})
	}
}

func TestUnboundRuneIsTyped(t *testing.T) {
	s := newTestSession("", config.Default())
	if !s.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Fatalf("HandleKey(x) = false")
	}
	if got := s.Buffer().String(); got != "x" {
		t.Fatalf("buffer = %q, want %q", got, "x")
	}
	if s.HandleKey(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)) {
		t.Fatalf("HandleKey(F5) = true")
	}
	if s.Exec("no_such_action") {
		t.Fatalf("Exec(no_such_action) = true")
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var namedKeys = map[string]tcell.Key{
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"enter":     tcell.KeyEnter,
	"backspace": tcell.KeyBackspace,
	"del":       tcell.KeyDelete,
	"tab":       tcell.KeyTab,
	"esc":       tcell.KeyEscape,
}

// eventForKeyString builds the event a terminal would deliver for a keymap
// name. ctrl+letter arrives as a control code without modifiers.
func eventForKeyString(t *testing.T, key string) *tcell.EventKey {
	t.Helper()
	mods, base := "", key
	if i := strings.LastIndex(key, "+"); i > 0 {
		mods, base = key[:i], key[i+1:]
	}
	var mod tcell.ModMask
	for _, part := range strings.FieldsFunc(mods, func(r rune) bool { return r == '+' }) {
		switch part {
		case "ctrl":
			mod |= tcell.ModCtrl
		case "alt":
			mod |= tcell.ModAlt
		case "shift":
			mod |= tcell.ModShift
		default:
			t.Fatalf("unknown modifier %q in %q", part, key)
		}
	}

	if k, ok := namedKeys[base]; ok {
		return tcell.NewEventKey(k, 0, mod)
	}
	if base == "space" {
		return tcell.NewEventKey(tcell.KeyRune, ' ', mod)
	}
	r := []rune(base)
	if len(r) != 1 {
		t.Fatalf("unsupported key %q", key)
	}
	if mod == tcell.ModCtrl && unicode.IsLetter(r[0]) {
		return tcell.NewEventKey(ctrlKeyForRune(r[0]), 0, tcell.ModNone)
	}
	return tcell.NewEventKey(tcell.KeyRune, r[0], mod)
}

func ctrlKeyForRune(r rune) tcell.Key {
	return tcell.KeyCtrlA + tcell.Key(unicode.ToLower(r)-'a')
}

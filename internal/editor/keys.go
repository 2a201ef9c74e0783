package editor

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

const (
	actionMoveLeft       = "move_left"
	actionMoveRight      = "move_right"
	actionMoveUp         = "move_up"
	actionMoveDown       = "move_down"
	actionWordLeft       = "word_left"
	actionWordRight      = "word_right"
	actionLineStart      = "line_start"
	actionLineEnd        = "line_end"
	actionFileStart      = "file_start"
	actionFileEnd        = "file_end"
	actionSetMark        = "set_mark"
	actionClearMark      = "clear_mark"
	actionToggleMark     = "toggle_mark"
	actionSelectAll      = "select_all"
	actionCopy           = "copy"
	actionCut            = "cut"
	actionPaste          = "paste"
	actionBackspace      = "backspace"
	actionDeleteChar     = "delete_char"
	actionDeleteWordLeft = "delete_word_left"
	actionNewline        = "newline"
	actionIndentLine     = "indent_line"
	actionToggleComment  = "toggle_comment"
	actionAddCursorBelow = "add_cursor_below"
	actionCollapse       = "collapse_cursors"
	actionFormat         = "format"
	actionToggleMode     = "toggle_mode"
)

// Exec runs the named action. It reports false for unknown names.
func (s *Session) Exec(action string) bool {
	if s.actionHook != nil {
		s.actionHook(action)
	}
	switch action {
	case actionMoveLeft:
		s.MoveLeft()
	case actionMoveRight:
		s.MoveRight()
	case actionMoveUp:
		s.MoveUp()
	case actionMoveDown:
		s.MoveDown()
	case actionWordLeft:
		s.MoveWordLeft()
	case actionWordRight:
		s.MoveWordRight()
	case actionLineStart:
		s.MoveLineStart()
	case actionLineEnd:
		s.MoveLineEnd()
	case actionFileStart:
		s.MoveFileStart()
	case actionFileEnd:
		s.MoveFileEnd()
	case actionSetMark:
		s.SetMark()
	case actionClearMark:
		s.ClearMark()
	case actionToggleMark:
		s.ToggleMark()
	case actionSelectAll:
		s.SelectAll()
	case actionCopy:
		s.Copy()
	case actionCut:
		s.Cut()
	case actionPaste:
		s.Paste()
	case actionBackspace:
		s.Backspace()
	case actionDeleteChar:
		s.DeleteChar()
	case actionDeleteWordLeft:
		s.DeleteWordLeft()
	case actionNewline:
		s.Newline()
	case actionIndentLine:
		s.IndentLine()
	case actionToggleComment:
		s.ToggleComment()
	case actionAddCursorBelow:
		s.AddCursorBelow()
	case actionCollapse:
		s.CollapseCursors()
	case actionFormat:
		s.Format()
	case actionToggleMode:
		s.ToggleMode()
	default:
		s.log.Debugw("unknown action", "action", action)
		return false
	}
	return true
}

// HandleKey runs the action bound to ev, or types the rune of an unbound
// printable key. It reports whether the key was used.
func (s *Session) HandleKey(ev *tcell.EventKey) bool {
	if key := keyString(ev); key != "" {
		if action, ok := s.opts.Keymap[key]; ok {
			return s.Exec(action)
		}
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		s.Type(string(ev.Rune()))
		return true
	}
	return false
}

func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if mods&tcell.ModCtrl != 0 {
		switch ev.Key() {
		case tcell.KeyHome:
			return "ctrl+home"
		case tcell.KeyEnd:
			return "ctrl+end"
		case tcell.KeyLeft:
			return "ctrl+left"
		case tcell.KeyRight:
			return "ctrl+right"
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			return "ctrl+backspace"
		}
	}
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if mods&tcell.ModCtrl != 0 {
			if r == ' ' {
				return "ctrl+space"
			}
			return "ctrl+" + strings.ToLower(string(r))
		}
		if mods&tcell.ModAlt != 0 {
			return "alt+" + strings.ToLower(string(r))
		}
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// Tab, Enter and Backspace share codes with ctrl+i, ctrl+m and ctrl+h.
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	case tcell.KeyEscape:
		return "esc"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlSpace:
		return "ctrl+space"
	case tcell.KeyCtrlUnderscore:
		return "ctrl+/"
	}
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+key-tcell.KeyCtrlA))
	}
	return ""
}

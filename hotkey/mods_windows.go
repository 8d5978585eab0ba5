//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"voiceout/shortcut"
)

// Meta binds to the Windows key.
func modifiers(m shortcut.Modifiers) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if m.Control {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	if m.Alt {
		mods = append(mods, hotkey.ModAlt)
	}
	if m.Meta {
		mods = append(mods, hotkey.ModWin)
	}
	return mods
}

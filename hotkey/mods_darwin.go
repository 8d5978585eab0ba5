//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"voiceout/shortcut"
)

// Meta is Command on macOS.
func modifiers(m shortcut.Modifiers) []hotkey.Modifier {
	var mods []hotkey.Modifier
	if m.Control {
		mods = append(mods, hotkey.ModCtrl)
	}
	if m.Shift {
		mods = append(mods, hotkey.ModShift)
	}
	if m.Alt {
		mods = append(mods, hotkey.ModOption)
	}
	if m.Meta {
		mods = append(mods, hotkey.ModCmd)
	}
	return mods
}

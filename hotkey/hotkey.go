package hotkey

import (
	"errors"
	"strings"

	"voiceout/shortcut"
)

// Hotkey is one OS-wide key combination. Keydown fires each time the
// combination is pressed while registered.
type Hotkey interface {
	Register() error
	Unregister()
	Keydown() <-chan struct{}
}

// Factory builds an unregistered Hotkey for a shortcut.
type Factory func(shortcut.Shortcut) (Hotkey, error)

var ErrUnknownKey = errors.New("key has no global hotkey mapping")

// keyName folds the spellings produced by keyboard event sources onto the
// names used in the per-platform key tables.
func keyName(key string) string {
	k := strings.ToLower(key)
	switch k {
	case " ", "spacebar":
		return "space"
	case "return":
		return "enter"
	case "esc":
		return "escape"
	case "arrowup":
		return "up"
	case "arrowdown":
		return "down"
	case "arrowleft":
		return "left"
	case "arrowright":
		return "right"
	case "del":
		return "delete"
	}
	return k
}

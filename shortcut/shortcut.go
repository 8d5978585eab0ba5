package shortcut

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Modifiers are the four independent modifier flags of a shortcut.
type Modifiers struct {
	Control bool `json:"control"`
	Shift   bool `json:"shift"`
	Alt     bool `json:"alt"`
	Meta    bool `json:"meta"`
}

// Any reports whether at least one modifier is held.
func (m Modifiers) Any() bool {
	return m.Control || m.Shift || m.Alt || m.Meta
}

// Shortcut is a key plus modifiers. Values are replaced whole, never patched.
type Shortcut struct {
	Key       string    `json:"key"`
	Modifiers Modifiers `json:"modifiers"`
}

// Default returns control+s, the shortcut active at startup and after a reset.
func Default() Shortcut {
	return Shortcut{
		Key:       "s",
		Modifiers: Modifiers{Control: true},
	}
}

var modifierKeys = map[string]bool{
	"control": true,
	"shift":   true,
	"alt":     true,
	"meta":    true,
}

// IsModifierKey reports whether key names a modifier rather than a real key.
func IsModifierKey(key string) bool {
	return modifierKeys[strings.ToLower(key)]
}

// Valid reports whether s may be set by the user: one or more modifiers and a
// non-modifier key.
func (s Shortcut) Valid() bool {
	return s.Modifiers.Any() && s.Key != "" && !IsModifierKey(s.Key)
}

// Accelerator renders s in accelerator form, e.g. "Shift+CommandOrControl+T".
func (s Shortcut) Accelerator() string {
	parts := make([]string, 0, 5)
	if s.Modifiers.Control {
		parts = append(parts, "Control")
	}
	if s.Modifiers.Shift {
		parts = append(parts, "Shift")
	}
	if s.Modifiers.Alt {
		parts = append(parts, "Alt")
	}
	if s.Modifiers.Meta {
		parts = append(parts, "CommandOrControl")
	}
	key := s.Key
	switch {
	case isSpace(key):
		key = "Space"
	case len([]rune(key)) == 1:
		key = strings.ToUpper(key)
	}
	return strings.Join(append(parts, key), "+")
}

// Label renders s for display, e.g. "Shift + Cmd + T".
func (s Shortcut) Label() string {
	parts := make([]string, 0, 5)
	if s.Modifiers.Control {
		parts = append(parts, "Ctrl")
	}
	if s.Modifiers.Shift {
		parts = append(parts, "Shift")
	}
	if s.Modifiers.Alt {
		parts = append(parts, "Alt")
	}
	if s.Modifiers.Meta {
		parts = append(parts, "Cmd")
	}
	key := strings.ToUpper(s.Key)
	if isSpace(s.Key) {
		key = "Space"
	}
	return strings.Join(append(parts, key), " + ")
}

// isSpace reports whether key names the space bar. Browsers send " ", the
// terminal and fyne front ends send "space".
func isSpace(key string) bool {
	return key == " " || strings.EqualFold(key, "space")
}

func (s Shortcut) String() string {
	return s.Accelerator()
}

var ErrMalformed = errors.New("malformed shortcut payload")

// Decode checks the wire shape of a shortcut payload: an object with a string
// "key" and an object "modifiers". Modifier flags that are absent or not
// booleans read as false.
func Decode(raw []byte) (Shortcut, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Shortcut{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	keyRaw, ok := obj["key"]
	if !ok {
		return Shortcut{}, fmt.Errorf("%w: missing key", ErrMalformed)
	}
	var key *string
	if err := json.Unmarshal(keyRaw, &key); err != nil || key == nil {
		return Shortcut{}, fmt.Errorf("%w: key is not a string", ErrMalformed)
	}

	modsRaw, ok := obj["modifiers"]
	if !ok {
		return Shortcut{}, fmt.Errorf("%w: missing modifiers", ErrMalformed)
	}
	var mods map[string]json.RawMessage
	if err := json.Unmarshal(modsRaw, &mods); err != nil || mods == nil {
		return Shortcut{}, fmt.Errorf("%w: modifiers is not an object", ErrMalformed)
	}

	return Shortcut{
		Key: *key,
		Modifiers: Modifiers{
			Control: flag(mods, "control"),
			Shift:   flag(mods, "shift"),
			Alt:     flag(mods, "alt"),
			Meta:    flag(mods, "meta"),
		},
	}, nil
}

func flag(mods map[string]json.RawMessage, name string) bool {
	var v bool
	if raw, ok := mods[name]; ok {
		_ = json.Unmarshal(raw, &v)
	}
	return v
}

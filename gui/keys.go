package gui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"voiceout/view"
)

// modState follows modifier keys between key-down and key-up; Fyne key events
// carry no modifier flags of their own.
type modState struct {
	mu                         sync.Mutex
	control, shift, alt, super int
}

func (m *modState) counter(name fyne.KeyName) *int {
	switch name {
	case desktop.KeyControlLeft, desktop.KeyControlRight:
		return &m.control
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return &m.shift
	case desktop.KeyAltLeft, desktop.KeyAltRight:
		return &m.alt
	case desktop.KeySuperLeft, desktop.KeySuperRight:
		return &m.super
	}
	return nil
}

// down records a key press. It returns the event for a non-modifier key.
func (m *modState) down(name fyne.KeyName) (view.KeyEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.counter(name); c != nil {
		*c++
		return view.KeyEvent{}, false
	}
	return view.KeyEvent{
		Key:     keyName(name),
		Control: m.control > 0,
		Shift:   m.shift > 0,
		Alt:     m.alt > 0,
		Meta:    m.super > 0,
	}, true
}

func (m *modState) up(name fyne.KeyName) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c := m.counter(name); c != nil && *c > 0 {
		*c--
	}
}

// clear forgets held modifiers, e.g. when the window loses focus mid-chord.
func (m *modState) clear() {
	m.mu.Lock()
	m.control, m.shift, m.alt, m.super = 0, 0, 0, 0
	m.mu.Unlock()
}

func keyName(name fyne.KeyName) string {
	switch name {
	case fyne.KeyReturn, fyne.KeyEnter:
		return "enter"
	case fyne.KeyPageUp:
		return "pageup"
	case fyne.KeyPageDown:
		return "pagedown"
	}
	return strings.ToLower(string(name))
}

// Package view holds the toolkit-independent state behind the main and
// settings views. The terminal and desktop front ends only translate key
// events and render.
package view

import (
	"strings"

	"voiceout/shortcut"
)

// KeyEvent is one key-down as reported by a front end.
type KeyEvent struct {
	Key     string
	Control bool
	Shift   bool
	Alt     bool
	Meta    bool
}

func (e KeyEvent) modifiers() shortcut.Modifiers {
	return shortcut.Modifiers{Control: e.Control, Shift: e.Shift, Alt: e.Alt, Meta: e.Meta}
}

const recordingText = "Press shortcut keys..."

// Recorder is the settings view state machine: idle or recording.
type Recorder struct {
	recording bool
	current   shortcut.Shortcut
}

func NewRecorder() *Recorder {
	return &Recorder{current: shortcut.Default()}
}

func (r *Recorder) Recording() bool { return r.recording }

// Start arms recording; the next acceptable key-down becomes the candidate.
func (r *Recorder) Start() {
	r.recording = true
}

// Cancel leaves recording without a new shortcut.
func (r *Recorder) Cancel() {
	r.recording = false
}

// KeyDown evaluates ev while recording. It returns a candidate and true when
// ev holds a modifier and a non-modifier key; otherwise recording continues.
func (r *Recorder) KeyDown(ev KeyEvent) (shortcut.Shortcut, bool) {
	if !r.recording {
		return shortcut.Shortcut{}, false
	}
	s := shortcut.Shortcut{Key: strings.ToLower(ev.Key), Modifiers: ev.modifiers()}
	if !s.Valid() {
		return shortcut.Shortcut{}, false
	}
	r.recording = false
	r.current = s
	return s, true
}

// Reset goes idle and returns the default shortcut to send.
func (r *Recorder) Reset() shortcut.Shortcut {
	r.recording = false
	r.current = shortcut.Default()
	return r.current
}

// Set records the shortcut the background reported.
func (r *Recorder) Set(s shortcut.Shortcut) {
	r.current = s
}

func (r *Recorder) Current() shortcut.Shortcut { return r.current }

func (r *Recorder) Text() string {
	if r.recording {
		return recordingText
	}
	return r.current.Label()
}

// MainText is the main view's sentence for s.
func MainText(s shortcut.Shortcut) string {
	return "Press " + s.Label() + " to speak selected text"
}

// Main is the main view: the current shortcut and whether settings are open.
type Main struct {
	Shortcut     shortcut.Shortcut
	SettingsOpen bool
}

func NewMain() *Main {
	return &Main{Shortcut: shortcut.Default()}
}

func (m *Main) Text() string { return MainText(m.Shortcut) }

func (m *Main) ToggleSettings() { m.SettingsOpen = !m.SettingsOpen }

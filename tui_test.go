package main

import (
	"encoding/json"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"voiceout/channel"
	"voiceout/shortcut"
	"voiceout/view"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestKeyEventFromTea(t *testing.T) {
	tests := []struct {
		name string
		in   tea.KeyMsg
		want view.KeyEvent
	}{
		{"plain", runes("t"), view.KeyEvent{Key: "t"}},
		{"upper", runes("T"), view.KeyEvent{Key: "t", Shift: true}},
		{"alt", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, view.KeyEvent{Key: "x", Alt: true}},
		{"alt upper", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("X"), Alt: true}, view.KeyEvent{Key: "x", Alt: true, Shift: true}},
		{"ctrl", tea.KeyMsg{Type: tea.KeyCtrlS}, view.KeyEvent{Key: "s", Control: true}},
		{"ctrl alt", tea.KeyMsg{Type: tea.KeyCtrlT, Alt: true}, view.KeyEvent{Key: "t", Control: true, Alt: true}},
		{"shift tab", tea.KeyMsg{Type: tea.KeyShiftTab}, view.KeyEvent{Key: "tab", Shift: true}},
		{"ctrl up", tea.KeyMsg{Type: tea.KeyCtrlUp}, view.KeyEvent{Key: "up", Control: true}},
		{"f5", tea.KeyMsg{Type: tea.KeyF5}, view.KeyEvent{Key: "f5"}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}, view.KeyEvent{Key: "space"}},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, view.KeyEvent{Key: "escape"}},
	}
	for _, tt := range tests {
		if got := keyEventFromTea(tt.in); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

type sentMsg struct {
	name    string
	payload any
}

type recordingConn struct {
	sent []sentMsg
}

func (c *recordingConn) On(string, func(json.RawMessage)) func() { return func() {} }

func (c *recordingConn) Send(name string, payload any) error {
	c.sent = append(c.sent, sentMsg{name, payload})
	return nil
}

func update(t *testing.T, m tuiModel, msgs ...tea.Msg) (tuiModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(tuiModel)
	}
	return m, cmd
}

func TestTUIRecordShortcut(t *testing.T) {
	conn := &recordingConn{}
	m := newTUIModel(conn, "")

	m, _ = update(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.rec.Recording() {
		t.Fatal("not recording after enter")
	}
	if !strings.Contains(m.View(), "Press shortcut keys...") {
		t.Error("recording prompt missing from view")
	}

	// bare keys keep recording, q does not quit
	m, cmd := update(t, m, runes("q"))
	if cmd != nil {
		t.Error("q quit while recording")
	}
	if !m.rec.Recording() || len(conn.sent) != 0 {
		t.Fatalf("recording=%v sent=%v", m.rec.Recording(), conn.sent)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT, Alt: true})
	if m.rec.Recording() {
		t.Error("still recording after valid combo")
	}
	want := shortcut.Shortcut{Key: "t", Modifiers: shortcut.Modifiers{Control: true, Alt: true}}
	if len(conn.sent) != 1 || conn.sent[0].name != channel.SetShortcut || conn.sent[0].payload != want {
		t.Fatalf("sent = %+v", conn.sent)
	}
	if !strings.Contains(m.View(), "Ctrl + Alt + T") {
		t.Error("new label missing from view")
	}
}

func TestTUIEscCancelsRecording(t *testing.T) {
	conn := &recordingConn{}
	m := newTUIModel(conn, "")

	m, _ = update(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyEnter})
	if !m.rec.Recording() {
		t.Fatal("not recording after enter")
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil {
		t.Error("esc produced a command")
	}
	if m.rec.Recording() {
		t.Fatal("still recording after esc")
	}
	if !m.main.SettingsOpen {
		t.Error("esc while recording closed settings")
	}
	if len(conn.sent) != 0 {
		t.Errorf("sent = %+v", conn.sent)
	}
	if m.main.Shortcut != shortcut.Default() {
		t.Errorf("shortcut changed to %+v", m.main.Shortcut)
	}

	// a second esc goes back as usual
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.main.SettingsOpen {
		t.Error("settings still open after second esc")
	}
}

func TestTUIRecordSpace(t *testing.T) {
	conn := &recordingConn{}
	m := newTUIModel(conn, "")

	m, _ = update(t, m,
		runes("s"),
		tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" "), Alt: true},
	)
	if m.rec.Recording() {
		t.Fatal("still recording after alt+space")
	}
	if len(conn.sent) != 1 {
		t.Fatalf("sent = %+v", conn.sent)
	}
	got, ok := conn.sent[0].payload.(shortcut.Shortcut)
	if !ok {
		t.Fatalf("payload %T", conn.sent[0].payload)
	}
	if got.Label() != "Alt + Space" || got.Accelerator() != "Alt+Space" {
		t.Errorf("label %q accelerator %q", got.Label(), got.Accelerator())
	}
	if !strings.Contains(m.View(), "Alt + Space") {
		t.Error("space label missing from view")
	}
}

func TestTUIErrorLine(t *testing.T) {
	m := newTUIModel(&recordingConn{}, "")
	m, _ = update(t, m, ErrorMsg{Text: "Could not register Control+Alt+T"})
	if !strings.Contains(m.View(), "Could not register Control+Alt+T") {
		t.Error("error missing from view")
	}

	// starting a new recording clears it
	m, _ = update(t, m, runes("s"), tea.KeyMsg{Type: tea.KeyEnter})
	if strings.Contains(m.View(), "Could not register") {
		t.Error("error survived a new recording")
	}
}

func TestTUIReset(t *testing.T) {
	conn := &recordingConn{}
	m := newTUIModel(conn, "")
	m, _ = update(t, m,
		ShortcutMsg{Shortcut: shortcut.Shortcut{Key: "x", Modifiers: shortcut.Modifiers{Alt: true}}},
		runes("s"),
		runes("r"),
	)
	if len(conn.sent) != 1 || conn.sent[0].payload != shortcut.Default() {
		t.Fatalf("sent = %+v", conn.sent)
	}
	if m.main.Shortcut != shortcut.Default() {
		t.Errorf("main shortcut = %+v", m.main.Shortcut)
	}
}

func TestTUIShortcutChanged(t *testing.T) {
	m := newTUIModel(&recordingConn{}, "system:espeak-ng | 127.0.0.1:7419")
	m, _ = update(t, m, ShortcutMsg{Shortcut: shortcut.Shortcut{Key: "t", Modifiers: shortcut.Modifiers{Shift: true, Meta: true}}})
	v := m.View()
	if !strings.Contains(v, "Shift + Cmd + T") {
		t.Errorf("view missing label:\n%s", v)
	}
	if !strings.Contains(v, "system:espeak-ng") {
		t.Errorf("view missing mode line:\n%s", v)
	}
}

func TestTUISettingsNavigation(t *testing.T) {
	m := newTUIModel(&recordingConn{}, "")
	m, _ = update(t, m, runes("s"))
	if !m.main.SettingsOpen {
		t.Fatal("settings not open")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.main.SettingsOpen {
		t.Fatal("settings still open after esc")
	}
	_, cmd := update(t, m, runes("q"))
	if cmd == nil {
		t.Fatal("q did not quit")
	}
}

func TestTUIDisconnectQuits(t *testing.T) {
	m := newTUIModel(&recordingConn{}, "")
	m, cmd := update(t, m, DisconnectedMsg{})
	if cmd == nil || !m.gone {
		t.Fatal("disconnect did not quit")
	}
}

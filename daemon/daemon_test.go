package daemon

import (
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"

	"voiceout/channel"
	"voiceout/hotkey"
	"voiceout/registry"
	"voiceout/shortcut"
)

type sent struct {
	to      string // "*" for broadcast
	name    string
	payload shortcut.Shortcut
}

// fakeHub records outbound notifications together with the hotkey journal so
// ordering between registration and broadcast can be checked.
type fakeHub struct {
	mu      sync.Mutex
	journal *hotkey.Journal
	out     []sent
	order   []string
}

func (f *fakeHub) Reply(window, name string, payload any) error {
	f.record(window, name, payload)
	return nil
}

func (f *fakeHub) Broadcast(name string, payload any) {
	f.record("*", name, payload)
}

func (f *fakeHub) record(to, name string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, _ := payload.(shortcut.Shortcut)
	f.out = append(f.out, sent{to, name, s})
	if f.journal != nil {
		f.order = append(f.journal.Entries(), name)
	}
}

func setup(t *testing.T, reject ...string) (*Handler, *fakeHub, *hotkey.Journal) {
	t.Helper()
	j := &hotkey.Journal{}
	reg := registry.New(registry.Options{
		Factory: hotkey.FakeFactory(j, errors.New("taken"), reject...),
	})
	t.Cleanup(reg.UnregisterAll)

	h := New(reg)
	hub := &fakeHub{journal: j}
	h.Attach(hub)
	if !h.Start() {
		t.Fatal("Start() failed to register default shortcut")
	}
	return h, hub, j
}

func msg(name, payload string) channel.Message {
	m := channel.Message{Name: name}
	if payload != "" {
		m.Payload = json.RawMessage(payload)
	}
	return m
}

const shiftMetaT = `{"key":"t","modifiers":{"control":false,"shift":true,"alt":false,"meta":true}}`

func TestStartsWithDefault(t *testing.T) {
	h, _, j := setup(t)
	if h.Current() != shortcut.Default() {
		t.Errorf("Current() = %+v, want default", h.Current())
	}
	if got := j.Entries(); !reflect.DeepEqual(got, []string{"register Control+S"}) {
		t.Errorf("journal = %v", got)
	}
}

func TestGetShortcutRepliesToSender(t *testing.T) {
	h, hub, _ := setup(t)

	h.Handle("win-a", msg(channel.GetShortcut, ""))

	want := []sent{{"win-a", channel.GetShortcutReply, shortcut.Default()}}
	if !reflect.DeepEqual(hub.out, want) {
		t.Errorf("sent = %+v, want %+v", hub.out, want)
	}
}

func TestSetShortcut(t *testing.T) {
	h, hub, j := setup(t)

	h.Handle("win-a", msg(channel.SetShortcut, shiftMetaT))

	want := shortcut.Shortcut{Key: "t", Modifiers: shortcut.Modifiers{Shift: true, Meta: true}}
	if h.Current() != want {
		t.Errorf("Current() = %+v, want %+v", h.Current(), want)
	}

	// exactly one broadcast, to everyone, after re-registration
	if len(hub.out) != 1 || hub.out[0] != (sent{"*", channel.ShortcutChanged, want}) {
		t.Fatalf("sent = %+v", hub.out)
	}
	wantOrder := []string{
		"register Control+S",
		"unregister Control+S",
		"register Shift+CommandOrControl+T",
		channel.ShortcutChanged,
	}
	if !reflect.DeepEqual(hub.order, wantOrder) {
		t.Errorf("order = %v, want %v", hub.order, wantOrder)
	}
	if j.Active() != 1 {
		t.Errorf("active hotkeys = %d, want 1", j.Active())
	}
}

func TestSetShortcutRegistrationFailureStillBroadcasts(t *testing.T) {
	h, hub, j := setup(t, "Shift+CommandOrControl+T")

	h.Handle("win-a", msg(channel.SetShortcut, shiftMetaT))

	if h.Current().Accelerator() != "Shift+CommandOrControl+T" {
		t.Errorf("Current() = %v", h.Current())
	}
	if len(hub.out) != 1 || hub.out[0].name != channel.ShortcutChanged {
		t.Errorf("sent = %+v", hub.out)
	}
	if j.Active() != 0 {
		t.Errorf("active hotkeys = %d, want 0", j.Active())
	}
}

func TestMalformedSetIsDropped(t *testing.T) {
	payloads := []string{
		`{"key":"t"}`,
		`{"key":5,"modifiers":{"shift":true}}`,
		`{"modifiers":{"shift":true}}`,
		`"ctrl+t"`,
		`null`,
	}
	for _, p := range payloads {
		h, hub, j := setup(t)
		h.Handle("win-a", msg(channel.SetShortcut, p))

		if h.Current() != shortcut.Default() {
			t.Errorf("%s: state changed to %+v", p, h.Current())
		}
		if len(hub.out) != 0 {
			t.Errorf("%s: sent %+v", p, hub.out)
		}
		if n := len(j.Entries()); n != 1 {
			t.Errorf("%s: registry touched, journal %v", p, j.Entries())
		}
	}
}

func TestMissingPayloadIsDropped(t *testing.T) {
	h, hub, _ := setup(t)
	h.Handle("win-a", msg(channel.SetShortcut, ""))
	if h.Current() != shortcut.Default() || len(hub.out) != 0 {
		t.Errorf("state %+v, sent %+v", h.Current(), hub.out)
	}
}

func TestUnknownNameIgnored(t *testing.T) {
	h, hub, _ := setup(t)
	h.Handle("win-a", msg("speak-now", `{}`))
	h.Handle("win-a", msg(channel.ShortcutChanged, shiftMetaT))
	if len(hub.out) != 0 || h.Current() != shortcut.Default() {
		t.Errorf("state %+v, sent %+v", h.Current(), hub.out)
	}
}

func TestResetToDefault(t *testing.T) {
	h, hub, _ := setup(t)
	h.Handle("win-a", msg(channel.SetShortcut, shiftMetaT))

	def, _ := json.Marshal(shortcut.Default())
	h.Handle("win-b", msg(channel.SetShortcut, string(def)))

	if h.Current() != shortcut.Default() {
		t.Errorf("Current() = %+v, want default", h.Current())
	}
	if len(hub.out) != 2 || hub.out[1].payload != shortcut.Default() {
		t.Errorf("sent = %+v", hub.out)
	}
}

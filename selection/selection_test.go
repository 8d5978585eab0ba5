package selection

import (
	"errors"
	"testing"
	"time"
)

type memClipboard struct {
	text    string
	writes  []string
	readErr error
}

func (m *memClipboard) Read() (string, error) {
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.text, nil
}

func (m *memClipboard) Write(s string) error {
	m.text = s
	m.writes = append(m.writes, s)
	return nil
}

func TestCopyReaderCapturesAndRestores(t *testing.T) {
	clip := &memClipboard{text: "previous"}
	r := &CopyReader{
		Clipboard: clip,
		Keystroke: func() error { clip.text = "selected words"; return nil },
		Timeout:   100 * time.Millisecond,
	}

	got, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got != "selected words" {
		t.Errorf("got %q, want %q", got, "selected words")
	}
	if clip.text != "previous" {
		t.Errorf("clipboard = %q, want previous content restored", clip.text)
	}
}

func TestCopyReaderNothingSelected(t *testing.T) {
	clip := &memClipboard{text: "previous"}
	r := &CopyReader{
		Clipboard: clip,
		Keystroke: func() error { return nil },
		Timeout:   40 * time.Millisecond,
	}

	got, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if clip.text != "previous" {
		t.Errorf("clipboard = %q, want previous content restored", clip.text)
	}
}

func TestCopyReaderKeystrokeError(t *testing.T) {
	clip := &memClipboard{text: "previous"}
	r := &CopyReader{
		Clipboard: clip,
		Keystroke: func() error { return errors.New("no uinput") },
	}
	if _, err := r.Read(); err == nil {
		t.Fatal("expected error")
	}
	if clip.text != "previous" {
		t.Errorf("clipboard = %q, want previous content restored", clip.text)
	}
}

func TestChain(t *testing.T) {
	fail := ReaderFunc(func() (string, error) { return "", errors.New("boom") })
	empty := ReaderFunc(func() (string, error) { return "  ", nil })
	text := ReaderFunc(func() (string, error) { return "hello", nil })

	tests := []struct {
		name    string
		chain   Chain
		want    string
		wantErr bool
	}{
		{"first wins", Chain{text, fail}, "hello", false},
		{"skip failing", Chain{fail, text}, "hello", false},
		{"empty stops", Chain{empty, text}, "", false},
		{"all fail", Chain{fail, fail}, "", true},
		{"nil entries", Chain{nil, text}, "hello", false},
	}
	for _, tt := range tests {
		got, err := tt.chain.Read()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

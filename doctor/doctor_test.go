package doctor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		if got := confirm(strings.NewReader(tt.in), "ok?"); got != tt.want {
			t.Errorf("confirm(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	if got := preview("  hello \n  world ", 80); got != "hello world" {
		t.Errorf("got %q", got)
	}
	if got := preview("abcdef", 3); got != "abc..." {
		t.Errorf("got %q", got)
	}
}

type memClipboard struct {
	data     string
	writeErr error
	drop     bool
}

func (m *memClipboard) io() clipboardIO {
	return clipboardIO{
		read: func() (string, error) { return m.data, nil },
		write: func(s string) error {
			if m.writeErr != nil {
				return m.writeErr
			}
			if !m.drop {
				m.data = s
			}
			return nil
		},
	}
}

func TestRoundTripRestores(t *testing.T) {
	m := &memClipboard{data: "previous"}
	if err := roundTrip(m.io(), time.Second); err != nil {
		t.Fatal(err)
	}
	if m.data != "previous" {
		t.Errorf("clipboard = %q, want previous contents restored", m.data)
	}
}

func TestRoundTripWriteError(t *testing.T) {
	m := &memClipboard{writeErr: errors.New("no display")}
	err := roundTrip(m.io(), time.Second)
	if err == nil || !strings.Contains(err.Error(), "write") {
		t.Fatalf("err = %v, want write failure", err)
	}
}

func TestRoundTripMismatch(t *testing.T) {
	m := &memClipboard{data: "stuck", drop: true}
	if err := roundTrip(m.io(), time.Second); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestRoundTripTimeout(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	c := clipboardIO{
		read:  func() (string, error) { <-block; return "", nil },
		write: func(string) error { return nil },
	}
	if err := roundTrip(c, 20*time.Millisecond); err == nil {
		t.Fatal("expected timeout")
	}
}

// Package selection reads the text currently highlighted in any application.
package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	cb "github.com/atotto/clipboard"
)

// Reader returns the current OS text selection, or "" when nothing is selected.
type Reader interface {
	Read() (string, error)
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func() (string, error)

func (f ReaderFunc) Read() (string, error) { return f() }

// Chain tries each reader in order and returns the first non-blank text.
// Errors are only reported when every reader failed.
type Chain []Reader

func (c Chain) Read() (string, error) {
	var errs []error
	for _, r := range c {
		if r == nil {
			continue
		}
		text, err := r.Read()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		// a working reader that saw nothing means nothing is selected
		return "", nil
	}
	return "", errors.Join(errs...)
}

const (
	copyTimeout  = 300 * time.Millisecond
	pollInterval = 15 * time.Millisecond
)

// Clipboard abstracts the system clipboard for the copy strategy.
type Clipboard interface {
	Read() (string, error)
	Write(string) error
}

type systemClipboard struct{}

func (systemClipboard) Read() (string, error) { return cb.ReadAll() }
func (systemClipboard) Write(s string) error  { return cb.WriteAll(s) }

// CopyReader captures the selection by sending the copy keystroke to the
// focused window and reading the clipboard. The previous clipboard content is
// put back afterwards.
type CopyReader struct {
	Clipboard Clipboard
	Keystroke func() error
	Timeout   time.Duration
}

// NewCopyReader uses the system clipboard and the platform copy shortcut.
func NewCopyReader() *CopyReader {
	return &CopyReader{
		Clipboard: systemClipboard{},
		Keystroke: sendCopy,
		Timeout:   copyTimeout,
	}
}

func (r *CopyReader) Read() (string, error) {
	prev, _ := r.Clipboard.Read()

	sentinel := fmt.Sprintf("voiceout-%d", time.Now().UnixNano())
	if err := r.Clipboard.Write(sentinel); err != nil {
		return "", fmt.Errorf("prime clipboard: %w", err)
	}
	defer r.Clipboard.Write(prev)

	if err := r.Keystroke(); err != nil {
		return "", fmt.Errorf("send copy keystroke: %w", err)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = copyTimeout
	}
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		got, err := r.Clipboard.Read()
		if err == nil && got != sentinel {
			return got, nil
		}
		time.Sleep(pollInterval)
	}
	return "", nil
}

// New returns the platform default reader.
func New() Reader {
	if p := primaryReader(); p != nil {
		return Chain{p, NewCopyReader()}
	}
	return NewCopyReader()
}

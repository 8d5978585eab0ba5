package doctor

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
)

type clipboardIO struct {
	read  func() (string, error)
	write func(string) error
}

var systemClipboard = clipboardIO{read: clipboard.ReadAll, write: clipboard.WriteAll}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[2/4] Clipboard round trip")

	if clipboard.Unsupported {
		fmt.Println("  FAIL: no clipboard tool found (install wl-clipboard, xclip or xsel)")
		return false
	}

	if err := roundTrip(systemClipboard, 3*time.Second); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Println("  PASS: clipboard write/read/restore verified")
	return true
}

// roundTrip writes a marker, reads it back and restores the previous
// contents. The selection fallback does exactly this on every hotkey press.
func roundTrip(c clipboardIO, timeout time.Duration) error {
	type result struct {
		phase string
		err   error
	}
	ch := make(chan result, 1)

	go func() {
		prev, _ := c.read()
		marker := fmt.Sprintf("voiceout-doctor-%d", time.Now().UnixNano())
		if err := c.write(marker); err != nil {
			ch <- result{"write", err}
			return
		}
		got, err := c.read()
		if err != nil {
			ch <- result{"read", err}
			return
		}
		if got != marker {
			ch <- result{"read", fmt.Errorf("wrote %q, got %q", marker, got)}
			return
		}
		if err := c.write(prev); err != nil {
			ch <- result{"restore", err}
			return
		}
		ch <- result{}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return fmt.Errorf("clipboard %s failed: %w", res.phase, res.err)
		}
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("clipboard timed out (clipboard tool hung, compositor not accessible?)")
	}
}

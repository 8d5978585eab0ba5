//go:build darwin

package selection

import "github.com/micmonay/keybd_event"

// Init is a no-op on macOS; the key bonding is created per keystroke.
func Init() error { return nil }

func sendCopy() error {
	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_C)
	kb.HasSuper(true) // Cmd+C on macOS
	return kb.Launching()
}

//go:build !darwin

package selection

import (
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

var (
	kb     keybd_event.KeyBonding
	kbOnce sync.Once
	kbErr  error
)

// Init creates the virtual keyboard ahead of the first hotkey press. On Linux
// the compositor needs a moment before it routes events from a new device.
func Init() error {
	kbOnce.Do(func() {
		kb, kbErr = keybd_event.NewKeyBonding()
		if kbErr == nil && needsSettle {
			time.Sleep(2 * time.Second)
		}
	})
	return kbErr
}

func sendCopy() error {
	if err := Init(); err != nil {
		return err
	}
	kb.SetKeys(keybd_event.VK_C)
	kb.HasCTRL(true)
	return kb.Launching()
}

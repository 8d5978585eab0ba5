package view

import (
	"encoding/json"
	"sync"

	"voiceout/channel"
	"voiceout/log"
	"voiceout/shortcut"
)

// Conn is the window side of the channel.
type Conn interface {
	On(name string, fn func(payload json.RawMessage)) func()
	Send(name string, payload any) error
}

// Mount subscribes to shortcut updates and asks for the current value.
// onShortcut receives every valid shortcut from either a reply or a
// broadcast. The returned unmount removes both subscriptions.
func Mount(c Conn, onShortcut func(shortcut.Shortcut)) (unmount func(), err error) {
	handle := func(name string) func(json.RawMessage) {
		return func(raw json.RawMessage) {
			s, err := shortcut.Decode(raw)
			if err != nil {
				log.Warnf("ignoring %s: %v", name, err)
				return
			}
			onShortcut(s)
		}
	}

	offReply := c.On(channel.GetShortcutReply, handle(channel.GetShortcutReply))
	offChanged := c.On(channel.ShortcutChanged, handle(channel.ShortcutChanged))

	var once sync.Once
	unmount = func() {
		once.Do(func() {
			offReply()
			offChanged()
		})
	}

	if err := c.Send(channel.GetShortcut, nil); err != nil {
		unmount()
		return nil, err
	}
	return unmount, nil
}

// SendShortcut asks the background to adopt s.
func SendShortcut(c Conn, s shortcut.Shortcut) error {
	return c.Send(channel.SetShortcut, s)
}

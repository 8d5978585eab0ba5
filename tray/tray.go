// Package tray shows a status icon for the headless background process. It
// talks to the background like any other window.
package tray

import (
	"sync"
	"time"

	"voiceout/log"
	"voiceout/shortcut"
	"voiceout/view"
)

const idleTooltip = "voiceout"

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	mu      sync.Mutex
	label   = shortcut.Default().Label()
	resetFn func()

	// errorTimeout is how long a failure stays on the icon. Each SetError
	// restarts it; errGen lets a superseded timer tell it is stale.
	errorTimeout = 10 * time.Second
	errGen       int
	errTimer     *time.Timer
	warning      bool
)

// Attach mirrors the current shortcut into the menu and wires the reset item
// to the channel. The returned func unsubscribes.
func Attach(c view.Conn) (func(), error) {
	mu.Lock()
	resetFn = func() {
		if err := view.SendShortcut(c, shortcut.Default()); err != nil {
			log.Warnf("tray reset: %v", err)
		}
	}
	mu.Unlock()
	return view.Mount(c, func(s shortcut.Shortcut) { SetShortcut(s.Label()) })
}

func SetShortcut(l string) {
	mu.Lock()
	label = l
	mu.Unlock()
	updateShortcut(l)
}

// SetError shows msg in the tooltip with a warning badge for a while.
func SetError(msg string) {
	mu.Lock()
	errGen++
	gen := errGen
	warning = true
	if errTimer != nil {
		errTimer.Stop()
	}
	errTimer = time.AfterFunc(errorTimeout, func() { clearError(gen) })
	mu.Unlock()

	updateWarning(true)
	updateTooltip("voiceout: " + msg)
}

func clearError(gen int) {
	mu.Lock()
	if gen != errGen {
		mu.Unlock()
		return
	}
	warning = false
	errTimer = nil
	mu.Unlock()

	updateWarning(false)
	updateTooltip(idleTooltip)
}

func warningShown() bool {
	mu.Lock()
	defer mu.Unlock()
	return warning
}

// Quit asks the process to exit; the channel from Init closes.
func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}

func currentLabel() string {
	mu.Lock()
	defer mu.Unlock()
	return label
}

func reset() {
	mu.Lock()
	fn := resetFn
	mu.Unlock()
	if fn != nil {
		fn()
	}
}

func shortcutTitle(l string) string {
	return "Speak selection: " + l
}

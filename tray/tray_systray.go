//go:build linux || darwin

package tray

import (
	"sync"

	"fyne.io/systray"
)

var (
	mShortcut *systray.MenuItem
	endFn     func()
	endOnce   sync.Once
	ready     = make(chan struct{})
)

// Init shows the icon and returns a channel closed when the user picks Quit.
func Init() <-chan struct{} {
	start, end := systray.RunWithExternalLoop(onReady, onExit)
	endFn = end
	runStart(start)
	return quitCh
}

// Close removes the icon.
func Close() {
	endOnce.Do(func() {
		if endFn != nil {
			endFn()
		}
	})
}

func onReady() {
	systray.SetTemplateIcon(iconIdleHi, iconIdle)
	systray.SetTooltip(idleTooltip)

	mShortcut = systray.AddMenuItem(shortcutTitle(currentLabel()), "Current global shortcut")
	mShortcut.Disable()
	mReset := systray.AddMenuItem("Reset Shortcut", "Restore the default shortcut")

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit voiceout")

	go func() {
		for {
			select {
			case <-mReset.ClickedCh:
				reset()
			case <-mQuit.ClickedCh:
				Quit()
				return
			}
		}
	}()

	close(ready)
}

func onExit() {
	Quit()
}

func updateShortcut(l string) {
	select {
	case <-ready:
	default:
		return
	}
	mShortcut.SetTitle(shortcutTitle(l))
}

func updateWarning(on bool) {
	select {
	case <-ready:
	default:
		return
	}
	if on {
		systray.SetIcon(iconWarnHi)
	} else {
		systray.SetTemplateIcon(iconIdleHi, iconIdle)
	}
}

func updateTooltip(msg string) {
	select {
	case <-ready:
	default:
		return
	}
	systray.SetTooltip(msg)
}

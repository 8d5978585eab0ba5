package tray

import "golang.design/x/hotkey/mainthread"

// Cocoa wants the status item created on the main thread.
func runStart(start func()) {
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
}

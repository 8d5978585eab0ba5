package tray

// The StatusNotifierItem is served over D-Bus from any goroutine.
func runStart(start func()) {
	start()
}

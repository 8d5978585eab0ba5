//go:build !linux && !darwin

package tray

func Init() <-chan struct{} { return quitCh }
func Close()                {}
func updateShortcut(string) {}
func updateWarning(bool)    {}
func updateTooltip(string)  {}

//go:build gui

package main

import (
	"fmt"
	"os"
	"runtime"

	"voiceout/channel"
	"voiceout/gui"
)

var guiApp *gui.App

func initGUI() {
	guiMode = true

	// Lock this goroutine to OS thread for Fyne/GLFW
	runtime.LockOSThread()

	guiApp = gui.NewApp(run)
	if err := gui.Run(guiApp); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		hooks.Run()
		os.Exit(1)
	}
	hooks.Run()
	os.Exit(0)
}

func attachGUI(c *channel.Client) (func(), error) {
	return guiApp.Attach(c)
}

func quitGUI() {
	if guiApp != nil {
		guiApp.Quit()
	}
}

//go:build !gui

package main

import (
	"errors"
	"fmt"
	"os"

	"voiceout/channel"
)

var errNoGUI = errors.New("built without GUI support (rebuild with -tags gui)")

func initGUI() {
	fmt.Fprintf(os.Stderr, "voiceout: %v\n", errNoGUI)
	os.Exit(1)
}

func attachGUI(*channel.Client) (func(), error) {
	return nil, errNoGUI
}

func quitGUI() {}

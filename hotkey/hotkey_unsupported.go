//go:build !linux && !darwin && !windows

package hotkey

import (
	"errors"

	"voiceout/shortcut"
)

var errUnsupported = errors.New("global hotkeys are not supported on this platform")

func New(shortcut.Shortcut) (Hotkey, error) { return nil, errUnsupported }

func Supported(string) bool { return false }

func Diagnose() (string, error) { return "", errUnsupported }

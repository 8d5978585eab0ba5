//go:build linux

package selection

import (
	"errors"
	"os"
	"os/exec"
)

const needsSettle = true

var lookPath = exec.LookPath

// primaryCommands read the X11/Wayland PRIMARY selection, which holds the
// highlighted text without any copy action.
func primaryCommands() [][]string {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return [][]string{{"wl-paste", "--primary", "--no-newline"}}
	}
	return [][]string{
		{"xclip", "-o", "-selection", "primary"},
		{"xsel", "-o", "-p"},
	}
}

func primaryReader() Reader {
	for _, argv := range primaryCommands() {
		if _, err := lookPath(argv[0]); err != nil {
			continue
		}
		return commandReader(argv)
	}
	return nil
}

func commandReader(argv []string) Reader {
	return ReaderFunc(func() (string, error) {
		out, err := exec.Command(argv[0], argv[1:]...).Output()
		if err != nil {
			// wl-paste and xclip exit non-zero when the selection is empty
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return "", nil
			}
			return "", err
		}
		return string(out), nil
	})
}

//go:build darwin

package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

type osascript struct{}

func New() Notifier {
	return osascript{}
}

func (osascript) Notify(ctx context.Context, summary, body string) error {
	script := fmt.Sprintf("display notification %s with title %s",
		strconv.Quote(body), strconv.Quote(appName+": "+summary))
	out, err := exec.CommandContext(ctx, "osascript", "-e", script).CombinedOutput()
	if err != nil {
		trimmed := strings.TrimSpace(string(out))
		if trimmed == "" {
			return fmt.Errorf("desktop notify failed: %w", err)
		}
		return fmt.Errorf("desktop notify failed: %w (%s)", err, trimmed)
	}
	return nil
}

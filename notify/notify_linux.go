//go:build linux

package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	method     = busName + ".Notify"
	timeoutMS  = int32(5000)
)

// desktop sends freedesktop notifications over the session bus. Each new
// notification replaces the previous one.
type desktop struct {
	mu        sync.Mutex
	replaceID uint32
}

func New() Notifier {
	return &desktop{}
}

func (d *desktop) Notify(ctx context.Context, summary, body string) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("desktop notify: session bus: %w", err)
	}
	defer conn.Close()

	d.mu.Lock()
	replace := d.replaceID
	d.mu.Unlock()

	obj := conn.Object(busName, dbus.ObjectPath(objectPath))
	call := obj.CallWithContext(ctx, method, 0,
		appName,
		replace,
		"",
		summary,
		body,
		[]string{},
		map[string]dbus.Variant{},
		timeoutMS,
	)
	if call.Err != nil {
		return fmt.Errorf("desktop notify failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("desktop notify invalid response: %w", err)
	}
	d.mu.Lock()
	d.replaceID = id
	d.mu.Unlock()
	return nil
}

//go:build !linux && !darwin

package notify

// New returns Nop; failures still reach the diagnostics log.
func New() Notifier {
	return Nop{}
}

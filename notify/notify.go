// Package notify shows desktop notifications for errors the user would
// otherwise only find in the log.
package notify

import "context"

const appName = "voiceout"

type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, summary, body string) error

func (f Func) Notify(ctx context.Context, summary, body string) error {
	return f(ctx, summary, body)
}

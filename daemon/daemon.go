// Package daemon is the background side of the shortcut protocol: it owns the
// current shortcut and answers windows over the channel.
package daemon

import (
	"sync"

	"voiceout/channel"
	"voiceout/log"
	"voiceout/shortcut"
)

// Sender is the outbound half of the hub.
type Sender interface {
	Reply(window, name string, payload any) error
	Broadcast(name string, payload any)
}

// Registrar binds a shortcut to the OS.
type Registrar interface {
	Register(s shortcut.Shortcut) bool
}

// Handler holds the single current shortcut. It is meant to be driven by the
// hub's dispatch goroutine; Current may be read from anywhere.
type Handler struct {
	registrar Registrar
	sender    Sender

	mu      sync.RWMutex
	current shortcut.Shortcut
}

// New starts at shortcut.Default. Call Start to register it.
func New(r Registrar) *Handler {
	return &Handler{registrar: r, current: shortcut.Default()}
}

// Attach sets where replies and broadcasts go. It must be called before the
// hub starts dispatching.
func (h *Handler) Attach(s Sender) {
	h.sender = s
}

// Start registers the current shortcut.
func (h *Handler) Start() bool {
	return h.registrar.Register(h.Current())
}

func (h *Handler) Current() shortcut.Shortcut {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

func (h *Handler) Handle(window string, msg channel.Message) {
	switch msg.Name {
	case channel.GetShortcut:
		h.getShortcut(window)
	case channel.SetShortcut:
		h.setShortcut(window, msg)
	default:
		log.Warnf("window %s sent unknown notification %q", window, msg.Name)
	}
}

func (h *Handler) getShortcut(window string) {
	if h.sender == nil {
		return
	}
	if err := h.sender.Reply(window, channel.GetShortcutReply, h.Current()); err != nil {
		log.Warnf("reply to %s: %v", window, err)
	}
}

// setShortcut replaces the shortcut, re-registers it and tells every window.
// The broadcast goes out even when registration fails so all windows agree
// with the background state.
func (h *Handler) setShortcut(window string, msg channel.Message) {
	s, err := shortcut.Decode(msg.Payload)
	if err != nil {
		log.Warnf("window %s: dropping set-shortcut: %v", window, err)
		return
	}

	h.mu.Lock()
	h.current = s
	h.mu.Unlock()

	h.registrar.Register(s)

	if h.sender != nil {
		h.sender.Broadcast(channel.ShortcutChanged, s)
	}
}

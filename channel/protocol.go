// Package channel carries named notifications between the background process
// and its windows over a local WebSocket.
package channel

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Notification names.
const (
	GetShortcut      = "get-shortcut"
	GetShortcutReply = "get-shortcut-reply"
	SetShortcut      = "set-shortcut"
	ShortcutChanged  = "shortcut-changed"
)

// Message is the envelope of every frame: {"name": ..., "payload": ...}.
type Message struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var ErrBadMessage = errors.New("channel: bad message")

// Encode builds a frame. A nil payload is omitted.
func Encode(name string, payload any) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrBadMessage)
	}
	msg := Message{Name: name}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("channel: marshal %s payload: %w", name, err)
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}

// Decode parses a frame. The payload is left raw for the receiver to check.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}
	if msg.Name == "" {
		return Message{}, fmt.Errorf("%w: missing name", ErrBadMessage)
	}
	return msg, nil
}

// URL returns the WebSocket endpoint served at addr.
func URL(addr string) string {
	return "ws://" + addr + "/ws"
}

// Package speech turns text into audible speech.
package speech

import (
	"context"
	"fmt"
	"strings"
)

// Engine speaks text. Speak may block until playback ends; callers that do
// not care about the outcome run it in a goroutine.
type Engine interface {
	Speak(ctx context.Context, text string) error
	Stop()
	Name() string
}

const (
	EngineAuto   = "auto"
	EngineSystem = "system"
	EngineGoogle = "google"
)

// Config selects and tunes an engine.
type Config struct {
	Engine string
	// Command overrides system engine detection (say, espeak-ng, espeak, spd-say, powershell).
	Command string
	Voice   string
	// Rate is words per minute for the system engine; 0 keeps its default.
	Rate   int
	Google GoogleConfig
}

type GoogleConfig struct {
	Language     string
	Voice        string
	SpeakingRate float64
	Pitch        float64
	VolumeGainDb float64
	// Encoding is "mp3" or "linear16".
	Encoding   string
	SampleRate int
}

// New builds the engine named in cfg. "auto" and "" pick the system engine.
func New(cfg Config) (Engine, error) {
	switch strings.ToLower(cfg.Engine) {
	case "", EngineAuto, EngineSystem:
		e := NewSystem(cfg.Command, cfg.Voice, cfg.Rate)
		if !e.Available() {
			return nil, fmt.Errorf("no system text-to-speech command found")
		}
		return e, nil
	case EngineGoogle:
		return NewGoogle(cfg.Google), nil
	default:
		return nil, fmt.Errorf("unknown speech engine %q", cfg.Engine)
	}
}

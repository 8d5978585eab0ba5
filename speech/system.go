package speech

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

var (
	lookPath = exec.LookPath
	command  = exec.CommandContext
)

const powershellScript = `Add-Type -AssemblyName System.Speech; ` +
	`$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; ` +
	`$s.Speak([Console]::In.ReadToEnd())`

// System speaks through the platform's text-to-speech command.
type System struct {
	backend string
	voice   string
	rate    int

	mu      sync.Mutex
	cancels map[int]context.CancelFunc
	nextID  int
}

// NewSystem detects a backend, or uses override when it is on PATH.
func NewSystem(override, voice string, rate int) *System {
	return &System{
		backend: detectBackend(override),
		voice:   voice,
		rate:    rate,
		cancels: make(map[int]context.CancelFunc),
	}
}

func (s *System) Available() bool { return s != nil && s.backend != "" }

func (s *System) Name() string { return "system:" + s.backend }

func (s *System) Speak(ctx context.Context, text string) error {
	if !s.Available() {
		return fmt.Errorf("no text-to-speech backend")
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	id := s.track(cancel)
	defer s.untrack(id)

	args, stdin := backendArgs(s.backend, s.voice, s.rate, text)
	cmd := command(ctx, s.backend, args...)
	if stdin {
		cmd.Stdin = strings.NewReader(text)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w (%s)", s.backend, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Stop kills every utterance still playing. The command dies with its
// context, so an utterance that has not started yet never starts.
func (s *System) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *System) track(cancel context.CancelFunc) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.cancels[s.nextID] = cancel
	return s.nextID
}

func (s *System) untrack(id int) {
	s.mu.Lock()
	cancel := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *System) inFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cancels)
}

func detectBackend(override string) string {
	if override != "" && override != EngineAuto {
		if _, err := lookPath(override); err == nil {
			return override
		}
		return ""
	}
	for _, candidate := range candidates() {
		if _, err := lookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func candidates() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"say"}
	case "windows":
		return []string{"powershell"}
	}
	return []string{"espeak-ng", "espeak", "spd-say"}
}

// backendArgs returns argv for backend and whether text goes on stdin.
func backendArgs(backend, voice string, rate int, text string) ([]string, bool) {
	var args []string
	switch backend {
	case "say":
		if voice != "" {
			args = append(args, "-v", voice)
		}
		if rate > 0 {
			args = append(args, "-r", strconv.Itoa(rate))
		}
		return append(args, "-f", "-"), true
	case "espeak", "espeak-ng":
		if voice != "" {
			args = append(args, "-v", voice)
		}
		if rate > 0 {
			args = append(args, "-s", strconv.Itoa(rate))
		}
		return append(args, "--stdin"), true
	case "spd-say":
		args = append(args, "--wait")
		if voice != "" {
			args = append(args, "-l", voice)
		}
		if rate > 0 {
			// spd-say takes -100..100 around a ~175 wpm default
			args = append(args, "-r", strconv.Itoa(clamp((rate-175)/2, -100, 100)))
		}
		return append(args, text), false
	case "powershell":
		return []string{"-NoProfile", "-NonInteractive", "-Command", powershellScript}, true
	}
	return []string{text}, false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

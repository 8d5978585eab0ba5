package speech

import (
	"context"
	"sync"
)

// Fake records spoken text. Spoken receives each utterance.
type Fake struct {
	Err    error
	Spoken chan string

	mu    sync.Mutex
	texts []string
	stops int
}

func NewFake() *Fake {
	return &Fake{Spoken: make(chan string, 16)}
}

func (f *Fake) Speak(_ context.Context, text string) error {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()
	select {
	case f.Spoken <- text:
	default:
	}
	return f.Err
}

func (f *Fake) Stop() {
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Package registry owns the OS-wide hotkey that speaks the current selection.
package registry

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"voiceout/hotkey"
	"voiceout/log"
	"voiceout/notify"
	"voiceout/selection"
	"voiceout/shortcut"
	"voiceout/speech"
)

const notifyTimeout = 3 * time.Second

type Options struct {
	Factory  hotkey.Factory
	Reader   selection.Reader
	Engine   speech.Engine
	Notifier notify.Notifier
}

type binding struct {
	hk   hotkey.Hotkey
	stop chan struct{}
	done chan struct{}
}

type Registry struct {
	factory  hotkey.Factory
	reader   selection.Reader
	engine   speech.Engine
	notifier notify.Notifier

	// regMu serializes Register and UnregisterAll so at most one hotkey is held
	regMu  sync.Mutex
	mu     sync.Mutex
	held   []*binding
	spoken atomic.Int64
	speaks sync.WaitGroup
}

func New(opts Options) *Registry {
	r := &Registry{
		factory:  opts.Factory,
		reader:   opts.Reader,
		engine:   opts.Engine,
		notifier: opts.Notifier,
	}
	if r.factory == nil {
		r.factory = hotkey.New
	}
	if r.notifier == nil {
		r.notifier = notify.Nop{}
	}
	return r
}

// Register drops every hotkey held so far and binds s in their place. On
// failure nothing is left registered and the user gets a desktop notification.
func (r *Registry) Register(s shortcut.Shortcut) bool {
	r.regMu.Lock()
	defer r.regMu.Unlock()
	r.unregisterAll()

	accel := s.Accelerator()
	log.Infof("registering global shortcut %s", accel)

	hk, err := r.factory(s)
	if err == nil {
		err = hk.Register()
	}
	if err != nil {
		log.Registration(accel, false, err)
		r.notifyFailure(accel, err)
		return false
	}
	log.Registration(accel, true, nil)

	b := &binding{hk: hk, stop: make(chan struct{}), done: make(chan struct{})}
	r.mu.Lock()
	r.held = append(r.held, b)
	r.mu.Unlock()

	go r.listen(b)
	return true
}

func (r *Registry) listen(b *binding) {
	defer close(b.done)
	for {
		select {
		case <-b.stop:
			return
		case <-b.hk.Keydown():
			log.Info("hotkey_down")
			r.Activate()
		}
	}
}

// UnregisterAll releases every hotkey the registry holds.
func (r *Registry) UnregisterAll() {
	r.regMu.Lock()
	defer r.regMu.Unlock()
	r.unregisterAll()
}

func (r *Registry) unregisterAll() {
	r.mu.Lock()
	held := r.held
	r.held = nil
	r.mu.Unlock()

	for _, b := range held {
		close(b.stop)
		b.hk.Unregister()
		<-b.done
	}
}

// Registered reports how many hotkeys are currently held.
func (r *Registry) Registered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.held)
}

// Activate reads the current selection and, if it holds any text, speaks it
// without waiting for playback.
func (r *Registry) Activate() {
	if r.reader == nil || r.engine == nil {
		return
	}
	text, err := r.reader.Read()
	if err != nil {
		log.Warnf("selection read failed: %v", err)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		log.Info("selection_empty")
		return
	}

	r.spoken.Add(1)
	log.Spoken(r.engine.Name(), text)

	r.speaks.Add(1)
	go func() {
		defer r.speaks.Done()
		if err := r.engine.Speak(context.Background(), text); err != nil {
			log.Errorf("speak failed: %v", err)
		}
	}()
}

// Spoken counts activations that reached the speech engine.
func (r *Registry) Spoken() int {
	return int(r.spoken.Load())
}

// Wait blocks until every speech started by Activate has returned.
func (r *Registry) Wait() {
	r.speaks.Wait()
}

func (r *Registry) notifyFailure(accel string, cause error) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	body := "Could not register " + accel + ": " + cause.Error()
	if err := r.notifier.Notify(ctx, "Shortcut unavailable", body); err != nil {
		log.Warnf("notify: %v", err)
	}
}

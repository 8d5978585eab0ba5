package hotkey

import (
	"sync"

	"voiceout/shortcut"
)

// Fake is an in-memory Hotkey. Events are appended to the shared Journal so
// tests can assert ordering across several fakes.
type Fake struct {
	Shortcut shortcut.Shortcut
	Err      error

	journal *Journal
	keydown chan struct{}
	mu      sync.Mutex
	active  bool
}

// Journal records Register/Unregister calls made through FakeFactory.
type Journal struct {
	mu      sync.Mutex
	entries []string
	fakes   []*Fake
}

func (j *Journal) add(e string) {
	j.mu.Lock()
	j.entries = append(j.entries, e)
	j.mu.Unlock()
}

// Entries returns "register <accel>" / "unregister <accel>" lines in call order.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// Last returns the most recently created fake, or nil.
func (j *Journal) Last() *Fake {
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.fakes) == 0 {
		return nil
	}
	return j.fakes[len(j.fakes)-1]
}

// Active counts fakes currently registered.
func (j *Journal) Active() int {
	j.mu.Lock()
	fakes := append([]*Fake(nil), j.fakes...)
	j.mu.Unlock()
	n := 0
	for _, f := range fakes {
		if f.Registered() {
			n++
		}
	}
	return n
}

// FakeFactory returns a Factory producing Fakes tracked by j. Registration
// fails with fail for any shortcut whose accelerator is listed in reject.
func FakeFactory(j *Journal, fail error, reject ...string) Factory {
	return func(s shortcut.Shortcut) (Hotkey, error) {
		f := NewFake(s)
		f.journal = j
		for _, r := range reject {
			if r == s.Accelerator() {
				f.Err = fail
			}
		}
		j.mu.Lock()
		j.fakes = append(j.fakes, f)
		j.mu.Unlock()
		return f, nil
	}
}

func NewFake(s shortcut.Shortcut) *Fake {
	return &Fake{
		Shortcut: s,
		keydown:  make(chan struct{}, 1),
	}
}

func (f *Fake) Register() error {
	if f.journal != nil {
		f.journal.add("register " + f.Shortcut.Accelerator())
	}
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	f.active = true
	f.mu.Unlock()
	return nil
}

func (f *Fake) Unregister() {
	f.mu.Lock()
	was := f.active
	f.active = false
	f.mu.Unlock()
	if was && f.journal != nil {
		f.journal.add("unregister " + f.Shortcut.Accelerator())
	}
}

func (f *Fake) Registered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *Fake) Keydown() <-chan struct{} { return f.keydown }

// SimKeydown fires the hotkey if it is registered.
func (f *Fake) SimKeydown() {
	if f.Registered() {
		f.keydown <- struct{}{}
	}
}

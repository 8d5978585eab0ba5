package shutdown

import (
	"os"
	"sync"
)

// Hooks runs cleanups in reverse registration order, exactly once, whichever
// exit path gets there first.
type Hooks struct {
	mu   sync.Mutex
	fns  []func()
	once sync.Once
}

func (h *Hooks) Add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

func (h *Hooks) Run() {
	h.once.Do(func() {
		h.mu.Lock()
		fns := h.fns
		h.fns = nil
		h.mu.Unlock()
		for i := len(fns) - 1; i >= 0; i-- {
			fns[i]()
		}
	})
}

// OnSignal runs h and then calls exit when an interrupt arrives.
func (h *Hooks) OnSignal(exit func()) {
	ch := make(chan os.Signal, 1)
	Notify(ch)
	go func() {
		<-ch
		h.Run()
		exit()
	}()
}

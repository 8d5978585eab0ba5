package shutdown

import (
	"reflect"
	"sync"
	"testing"
)

func TestHooksReverseOrder(t *testing.T) {
	var h Hooks
	var got []string
	h.Add(func() { got = append(got, "log") })
	h.Add(func() { got = append(got, "hub") })
	h.Add(func() { got = append(got, "hotkey") })

	h.Run()

	want := []string{"hotkey", "hub", "log"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHooksRunOnce(t *testing.T) {
	var h Hooks
	var mu sync.Mutex
	n := 0
	h.Add(func() { mu.Lock(); n++; mu.Unlock() })

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Run()
		}()
	}
	wg.Wait()
	h.Run()

	if n != 1 {
		t.Errorf("hook ran %d times, want 1", n)
	}
}

func TestHooksEmpty(t *testing.T) {
	var h Hooks
	h.Run() // should not panic
}

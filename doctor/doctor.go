package doctor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"voiceout/hotkey"
	"voiceout/selection"
	"voiceout/shortcut"
	"voiceout/speech"
)

const testPhrase = "voiceout doctor test"

// Run executes interactive diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(cfg speech.Config) int {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "voiceout doctor needs an interactive terminal")
		return 1
	}

	resetTerminal()
	setupInterruptHandler()

	fmt.Println("voiceout doctor - interactive system diagnostics")
	fmt.Println("================================================")

	allPass := true

	if !checkHotkey() {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}
	if allPass && !checkSelection() {
		allPass = false
	}
	if !checkSpeech(cfg) {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkHotkey() bool {
	fmt.Println()
	fmt.Println("[1/4] Hotkey registration")

	msg, err := hotkey.Diagnose()
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	fmt.Printf("  %s\n", msg)

	def := shortcut.Default()
	hk, err := hotkey.New(def)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	if err := hk.Register(); err != nil {
		fmt.Printf("  FAIL: could not register %s: %v\n", def.Accelerator(), err)
		return false
	}
	defer hk.Unregister()

	fmt.Printf("Press %s...\n", def.Label())
	select {
	case <-hk.Keydown():
		fmt.Println("  PASS: hotkey detected")
		// the key combo may leave the terminal in a strange state
		resetTerminal()
		return true
	case <-time.After(10 * time.Second):
		fmt.Println("  FAIL: timeout waiting for hotkey")
		return false
	}
}

func checkSelection() bool {
	fmt.Println()
	fmt.Println("[3/4] Selection reading")

	if err := selection.Init(); err != nil {
		fmt.Printf("  FAIL: virtual keyboard: %v\n", err)
		fmt.Println("  Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
		return false
	}

	fmt.Println("Highlight some text in another window...")
	countdown(5)

	text, err := selection.New().Read()
	if err != nil {
		fmt.Printf("  FAIL: reading selection: %v\n", err)
		return false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		fmt.Println("  FAIL: nothing was selected")
		return false
	}

	resetTerminal()
	fmt.Printf("\n  Selected text: %s\n\n", preview(text, 80))
	if !confirm(os.Stdin, "Is this the text you highlighted?") {
		fmt.Println("  FAIL: selection not confirmed")
		return false
	}
	fmt.Println("  PASS: selection verified by user")
	return true
}

func checkSpeech(cfg speech.Config) bool {
	fmt.Println()
	fmt.Println("[4/4] Speech output")

	eng, err := speech.New(cfg)
	if err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	defer eng.Stop()

	fmt.Printf("  Speaking %q with %s...\n", testPhrase, eng.Name())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := eng.Speak(ctx, testPhrase); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}

	if !confirm(os.Stdin, "Did you hear the phrase?") {
		fmt.Println("  FAIL: speech not confirmed")
		return false
	}
	fmt.Println("  PASS: speech verified by user")
	return true
}

func countdown(n int) {
	for i := n; i > 0; i-- {
		fmt.Printf("  %d...\n", i)
		time.Sleep(time.Second)
	}
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(r io.Reader, question string) bool {
	fmt.Printf("%s [y/n]: ", question)
	answer, _ := bufio.NewReader(r).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"voiceout/channel"
	"voiceout/config"
	"voiceout/daemon"
	"voiceout/doctor"
	"voiceout/log"
	"voiceout/notify"
	"voiceout/registry"
	"voiceout/selection"
	"voiceout/shutdown"
	"voiceout/speech"
	"voiceout/tray"
)

var version = "dev"

const envBackground = "_VOICEOUT_BG"

var guiMode bool

// hooks is shared with the GUI entry point, which exits from the main thread.
var hooks shutdown.Hooks

// earlyArg finds -name or -name=value in os.Args before flag.Parse runs.
func earlyArg(name string) (string, bool) {
	args := os.Args[1:]
	for i, arg := range args {
		if arg == "--" {
			break
		}
		trimmed := strings.TrimLeft(arg, "-")
		if trimmed == arg {
			continue
		}
		if trimmed == name {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				return args[i+1], true
			}
			return "", true
		}
		if v, ok := strings.CutPrefix(trimmed, name+"="); ok {
			return v, true
		}
	}
	return "", false
}

func hasGUIFlag() bool {
	v, ok := earlyArg("gui")
	return ok && v != "false" && v != "0"
}

// initCrashLog routes fatal runtime errors to crash_log.txt. It runs before
// any cgo code.
func initCrashLog() {
	p, _ := earlyArg("logpath")
	dir, err := log.ResolveDir(p)
	if err != nil {
		return
	}
	log.SetDir(dir)
	if err := log.EnsureDir(); err != nil {
		return
	}
	crashPath := filepath.Join(dir, "crash_log.txt")
	crashFile, err := os.OpenFile(crashPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	fmt.Fprintf(crashFile, "\n=== Session %s [pid=%d] ===\n", time.Now().Format("2006-01-02 15:04:05"), os.Getpid())
	debug.SetCrashOutput(crashFile, debug.CrashOptions{})
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func modeLineText(engine, addr string) string {
	return fmt.Sprintf("[%s | %s]", engine, addr)
}

func run() {
	cfgFlags := config.RegisterFlags(flag.CommandLine)
	versionFlag := flag.Bool("version", false, "Print version and exit")
	doctorFlag := flag.Bool("doctor", false, "Run system diagnostics and exit")
	tuiFlag := flag.Bool("tui", true, "Run with terminal UI")
	windowFlag := flag.Bool("window", false, "Attach a terminal window to an already running voiceout")
	flag.Bool("gui", false, "Run with a desktop window and tray icon (build with -tags gui)")
	logPathFlag := flag.String("logpath", "", "log directory path (default: OS-specific location, use ./ for current dir)")
	crashFlag := flag.Bool("crash", false, "Trigger synthetic panic for testing crash logging")
	flag.Parse()

	logPath, err := log.ResolveDir(*logPathFlag)
	if err != nil {
		fatalf("failed to resolve log directory: %v", err)
	}
	log.SetDir(logPath)
	if err := log.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not create log directory: %v\n", err)
	}

	if *crashFlag {
		panic("TEST CRASH: synthetic panic to verify crash logging")
	}

	if *versionFlag {
		fmt.Printf("voiceout %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(cfgFlags.Path())
	if err != nil {
		fatalf("%v", err)
	}
	cfgFlags.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}
	if err := cfg.ExportCredentials(); err != nil {
		fatalf("%v", err)
	}

	if *doctorFlag {
		os.Exit(doctor.Run(cfg.SpeechConfig()))
	}

	if *windowFlag {
		os.Exit(runWindow(cfg.Addr))
	}

	// Daemonize in non-TUI mode: re-exec in background, return shell prompt
	if !*tuiFlag && !guiMode && os.Getenv(envBackground) == "" {
		exe, _ := os.Executable()
		cmd := exec.Command(exe, os.Args[1:]...)
		cmd.Env = append(os.Environ(), envBackground+"=1")
		devnull, _ := os.Open(os.DevNull)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = devnull, devnull, devnull
		if err := cmd.Start(); err != nil {
			fatalf("%v", err)
		}
		os.Exit(0)
	}

	if err := log.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not init logging: %v\n", err)
	}
	hooks.Add(log.Close)

	engine, err := speech.New(cfg.SpeechConfig())
	if err != nil {
		log.Errorf("speech engine init error: %v", err)
		fatalf("%v", err)
	}

	if err := selection.Init(); err != nil {
		log.Warnf("copy keystroke init: %v", err)
		fmt.Fprintf(os.Stderr, "Warning: copy keystroke unavailable: %v\n", err)
		fmt.Fprintln(os.Stderr, "Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
	}

	desktop := notify.New()
	reg := registry.New(registry.Options{
		Reader: selection.New(),
		Engine: engine,
		Notifier: notify.Func(func(ctx context.Context, summary, body string) error {
			tray.SetError(body)
			tuiSend(ErrorMsg{Text: body})
			return desktop.Notify(ctx, summary, body)
		}),
	})
	handler := daemon.New(reg)
	hub := channel.NewHub(channel.HubOptions{Addr: cfg.Addr}, handler)
	handler.Attach(hub)

	// the startup shortcut is held before any window can send set-shortcut
	registered := handler.Start()

	ctx, cancel := context.WithCancel(context.Background())
	if err := hub.Start(ctx); err != nil {
		cancel()
		reg.UnregisterAll()
		log.Errorf("channel start error: %v", err)
		fatalf("%v (is voiceout already running? try -window)", err)
	}

	hooks.Add(func() { log.SessionEnd(reg.Spoken()) })
	hooks.Add(engine.Stop)
	hooks.Add(func() {
		if err := hub.Stop(); err != nil {
			log.Warnf("%v", err)
		}
		cancel()
	})
	hooks.Add(reg.UnregisterAll)

	if !registered {
		fmt.Fprintf(os.Stderr, "Warning: could not register %s\n", handler.Current().Label())
	}
	log.SessionStart(engine.Name(), handler.Current().Accelerator(), hub.URL())

	if guiMode {
		attachWindow(ctx, hub.URL(), attachGUI)
		hooks.OnSignal(func() {
			quitGUI()
			os.Exit(0)
		})
		return
	}

	trayQuit := tray.Init()
	hooks.Add(tray.Close)
	attachWindow(ctx, hub.URL(), func(c *channel.Client) (func(), error) {
		return tray.Attach(c)
	})

	if *tuiFlag {
		client, err := channel.Dial(ctx, hub.URL())
		if err != nil {
			hooks.Run()
			fatalf("%v", err)
		}
		tuiDone := make(chan struct{})
		hooks.Add(func() {
			quitTUI()
			select {
			case <-tuiDone:
			case <-time.After(time.Second):
			}
		})
		go func() {
			defer close(tuiDone)
			if err := runTUI(client, modeLineText(engine.Name(), cfg.Addr)); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			client.Close()
			tray.Quit()
		}()
	}

	sigChan := make(chan os.Signal, 1)
	shutdown.Notify(sigChan)
	select {
	case <-sigChan:
	case <-trayQuit:
	}
	hooks.Run()
	os.Exit(0)
}

// attachWindow dials the local hub for a window that lives as long as the
// process. Failures are logged; the background keeps running without it.
func attachWindow(ctx context.Context, url string, attach func(c *channel.Client) (func(), error)) {
	client, err := channel.Dial(ctx, url)
	if err != nil {
		log.Warnf("window dial: %v", err)
		return
	}
	unmount, err := attach(client)
	if err != nil {
		log.Warnf("window attach: %v", err)
		client.Close()
		return
	}
	hooks.Add(func() {
		unmount()
		client.Close()
	})
}

// runWindow attaches a terminal window to a background started elsewhere.
func runWindow(addr string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := channel.Dial(ctx, channel.URL(addr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no voiceout running at %s: %v\n", addr, err)
		return 1
	}
	defer client.Close()
	if err := runTUI(client, modeLineText("attached", addr)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

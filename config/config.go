// Package config loads voiceout settings from defaults, a TOML file, .env,
// the environment and command-line flags, in that order.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"voiceout/speech"
)

const (
	DefaultAddr = "127.0.0.1:7419"
	envConfig   = "VOICEOUT_CONFIG"
	credEnv     = "GOOGLE_APPLICATION_CREDENTIALS"
)

type Config struct {
	// Addr is where the background process serves the notification channel.
	Addr   string       `toml:"addr" env:"VOICEOUT_ADDR"`
	Speech SpeechConfig `toml:"speech"`
	Google GoogleConfig `toml:"google"`
}

type SpeechConfig struct {
	Engine  string `toml:"engine" env:"VOICEOUT_ENGINE"`   // auto|system|google
	Command string `toml:"command" env:"VOICEOUT_COMMAND"` // say, espeak-ng, espeak, spd-say, powershell
	Voice   string `toml:"voice" env:"VOICEOUT_VOICE"`
	Rate    int    `toml:"rate" env:"VOICEOUT_RATE"` // words per minute, 0 = engine default
}

type GoogleConfig struct {
	Credentials  string  `toml:"credentials" env:"VOICEOUT_GOOGLE_CREDENTIALS"`
	Language     string  `toml:"language" env:"VOICEOUT_GOOGLE_LANGUAGE"`
	Voice        string  `toml:"voice" env:"VOICEOUT_GOOGLE_VOICE"`
	SpeakingRate float64 `toml:"speaking_rate" env:"VOICEOUT_GOOGLE_SPEAKING_RATE"`
	Pitch        float64 `toml:"pitch" env:"VOICEOUT_GOOGLE_PITCH"`
	VolumeGainDb float64 `toml:"volume_gain_db" env:"VOICEOUT_GOOGLE_VOLUME_DB"`
	Encoding     string  `toml:"encoding" env:"VOICEOUT_GOOGLE_ENCODING"` // mp3|linear16
	SampleRate   int     `toml:"sample_rate" env:"VOICEOUT_GOOGLE_SAMPLE_RATE"`
}

func Defaults() Config {
	return Config{
		Addr: DefaultAddr,
		Speech: SpeechConfig{
			Engine: speech.EngineAuto,
		},
		Google: GoogleConfig{
			Language:     "en-US",
			SpeakingRate: 1.0,
			Encoding:     "mp3",
			SampleRate:   24000,
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/voiceout/config.toml, or the OS equivalent.
func DefaultPath() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "voiceout", "config.toml"), nil
}

// Load layers the TOML file at path (DefaultPath when empty), .env and the
// environment over Defaults. A missing default file is fine; a missing
// explicit one is not.
func Load(path string) (Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("config path: %w", err)
		}
		path = p
	}
	if err := loadFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			err = nil
		}
		if err != nil {
			return cfg, err
		}
	}

	_ = godotenv.Load()
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("config env: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Speech.Engine) {
	case "", speech.EngineAuto, speech.EngineSystem, speech.EngineGoogle:
	default:
		return fmt.Errorf("unknown engine %q (want auto, system or google)", c.Speech.Engine)
	}
	if c.Speech.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %d", c.Speech.Rate)
	}

	host, port, err := net.SplitHostPort(c.Addr)
	if err != nil {
		return fmt.Errorf("invalid addr %q: %w", c.Addr, err)
	}
	if host == "" {
		return fmt.Errorf("invalid addr %q: host required", c.Addr)
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid addr %q: bad port", c.Addr)
	}

	switch strings.ToLower(c.Google.Encoding) {
	case "mp3", "linear16":
	default:
		return fmt.Errorf("unknown google encoding %q (want mp3 or linear16)", c.Google.Encoding)
	}
	if c.Google.VolumeGainDb < -96 || c.Google.VolumeGainDb > 16 {
		return fmt.Errorf("google volume gain must be within -96..16 dB, got %v", c.Google.VolumeGainDb)
	}
	return nil
}

// ExportCredentials points GOOGLE_APPLICATION_CREDENTIALS at the configured key
// file when the environment does not already name one.
func (c Config) ExportCredentials() error {
	if !strings.EqualFold(c.Speech.Engine, speech.EngineGoogle) {
		return nil
	}
	cred := strings.TrimSpace(os.Getenv(credEnv))
	if cred == "" {
		cred = strings.TrimSpace(c.Google.Credentials)
		if cred == "" {
			return nil
		}
		os.Setenv(credEnv, cred)
	}
	if _, err := os.Stat(cred); err != nil {
		return fmt.Errorf("google credentials: %w", err)
	}
	return nil
}

func (c Config) SpeechConfig() speech.Config {
	return speech.Config{
		Engine:  c.Speech.Engine,
		Command: c.Speech.Command,
		Voice:   c.Speech.Voice,
		Rate:    c.Speech.Rate,
		Google: speech.GoogleConfig{
			Language:     c.Google.Language,
			Voice:        c.Google.Voice,
			SpeakingRate: c.Google.SpeakingRate,
			Pitch:        c.Google.Pitch,
			VolumeGainDb: c.Google.VolumeGainDb,
			Encoding:     c.Google.Encoding,
			SampleRate:   c.Google.SampleRate,
		},
	}
}

// Flags are the command-line overrides. Only flags the user actually set
// replace loaded values.
type Flags struct {
	fs     *flag.FlagSet
	path   string
	addr   string
	engine string
	voice  string
	rate   int
}

func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.path, "config", "", "Path to config.toml")
	fs.StringVar(&f.addr, "addr", DefaultAddr, "Notification channel address (host:port)")
	fs.StringVar(&f.engine, "engine", speech.EngineAuto, "Speech engine: auto, system or google")
	fs.StringVar(&f.voice, "voice", "", "Voice name passed to the speech engine")
	fs.IntVar(&f.rate, "rate", 0, "Speaking rate in words per minute (system engine)")
	return f
}

func (f *Flags) Path() string { return f.path }

func (f *Flags) Apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = f.addr
		case "engine":
			cfg.Speech.Engine = f.engine
		case "voice":
			cfg.Speech.Voice = f.voice
			cfg.Google.Voice = f.voice
		case "rate":
			cfg.Speech.Rate = f.rate
		}
	})
}

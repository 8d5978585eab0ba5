package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "VOICEOUT_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	t.Setenv(envConfig, filepath.Join(t.TempDir(), "missing.toml"))
}

func TestDefaultsValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Defaults() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
addr = "127.0.0.1:9000"

[speech]
engine = "system"
command = "espeak-ng"
rate = 220

[google]
language = "de-DE"
encoding = "linear16"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.Speech.Engine != "system" || cfg.Speech.Command != "espeak-ng" || cfg.Speech.Rate != 220 {
		t.Errorf("Speech = %+v", cfg.Speech)
	}
	if cfg.Google.Language != "de-DE" || cfg.Google.Encoding != "linear16" {
		t.Errorf("Google = %+v", cfg.Google)
	}
	// untouched keys keep defaults
	if cfg.Google.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", cfg.Google.SampleRate)
	}
}

func TestLoadBadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "addr = [")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[speech]\nengine = \"system\"\nvoice = \"en\"\n")
	t.Setenv("VOICEOUT_ENGINE", "google")
	t.Setenv("VOICEOUT_GOOGLE_SPEAKING_RATE", "1.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Speech.Engine != "google" {
		t.Errorf("Engine = %q, want google", cfg.Speech.Engine)
	}
	if cfg.Speech.Voice != "en" {
		t.Errorf("Voice = %q, want en from file", cfg.Speech.Voice)
	}
	if cfg.Google.SpeakingRate != 1.5 {
		t.Errorf("SpeakingRate = %v, want 1.5", cfg.Google.SpeakingRate)
	}
}

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f := RegisterFlags(fs)
	if err := fs.Parse([]string{"-engine", "google", "-config", "/tmp/x.toml"}); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	cfg.Addr = "127.0.0.1:1234"
	cfg.Speech.Rate = 150
	f.Apply(&cfg)

	if cfg.Speech.Engine != "google" {
		t.Errorf("Engine = %q, want google", cfg.Speech.Engine)
	}
	if cfg.Addr != "127.0.0.1:1234" {
		t.Errorf("Addr = %q, unset flag must not override", cfg.Addr)
	}
	if cfg.Speech.Rate != 150 {
		t.Errorf("Rate = %d, unset flag must not override", cfg.Speech.Rate)
	}
	if f.Path() != "/tmp/x.toml" {
		t.Errorf("Path() = %q", f.Path())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"google", func(c *Config) { c.Speech.Engine = "Google" }, true},
		{"unknown engine", func(c *Config) { c.Speech.Engine = "festival" }, false},
		{"negative rate", func(c *Config) { c.Speech.Rate = -1 }, false},
		{"no port", func(c *Config) { c.Addr = "localhost" }, false},
		{"no host", func(c *Config) { c.Addr = ":7419" }, false},
		{"bad port", func(c *Config) { c.Addr = "127.0.0.1:http" }, false},
		{"ephemeral port", func(c *Config) { c.Addr = "127.0.0.1:0" }, true},
		{"linear16", func(c *Config) { c.Google.Encoding = "LINEAR16" }, true},
		{"ogg", func(c *Config) { c.Google.Encoding = "ogg" }, false},
		{"loud", func(c *Config) { c.Google.VolumeGainDb = 20 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestSpeechConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Speech.Engine = "system"
	cfg.Speech.Voice = "en-us"
	cfg.Google.Encoding = "linear16"

	sc := cfg.SpeechConfig()
	if sc.Engine != "system" || sc.Voice != "en-us" {
		t.Errorf("got %+v", sc)
	}
	if sc.Google.Encoding != "linear16" || sc.Google.SampleRate != 24000 {
		t.Errorf("google = %+v", sc.Google)
	}
}

func TestExportCredentials(t *testing.T) {
	t.Setenv(credEnv, "")
	key := filepath.Join(t.TempDir(), "sa.json")
	if err := os.WriteFile(key, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Defaults()
	cfg.Speech.Engine = "google"
	cfg.Google.Credentials = key
	if err := cfg.ExportCredentials(); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(credEnv); got != key {
		t.Errorf("%s = %q, want %q", credEnv, got, key)
	}

	t.Setenv(credEnv, filepath.Join(t.TempDir(), "missing.json"))
	if err := cfg.ExportCredentials(); err == nil {
		t.Error("expected error for missing key file")
	}
}

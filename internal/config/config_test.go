package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	if diff := cmp.Diff(Default(), embeddedDefault()); diff != "" {
		t.Errorf("embedded YAML differs from Default() (-want +got):\n%s", diff)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("Default() is invalid: %v", err)
	}
}

func TestLoadCustomPathOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("game:\n  win_value: 1024\nlog:\n  level: debug\nssh:\n  idle_timeout: 5m\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	want := Default()
	want.Game.WinValue = 1024
	want.Log.Level = "debug"
	want.SSH.IdleTimeout = 5 * time.Minute
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of missing custom file should fail")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("game: [unclosed"), 0o644)
	if _, err := Load(bad); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("game:\n  spawn_four_probability: 1.5\n"), 0o644)
	if _, err := Load(invalid); err == nil {
		t.Error("Load() should reject out-of-range probability")
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	os.Mkdir("configs", 0o755)
	os.WriteFile(filepath.Join("configs", LocalFileName), []byte("game:\n  history_limit: 10\n"), 0o644)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Game.HistoryLimit != 10 {
		t.Errorf("HistoryLimit = %d, want 10", cfg.Game.HistoryLimit)
	}
	if cfg.Game.WinValue != 2048 {
		t.Errorf("WinValue = %d, want default 2048", cfg.Game.WinValue)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative probability", func(c *Config) { c.Game.Spawn4Prob = -0.1 }},
		{"win value not power of two", func(c *Config) { c.Game.WinValue = 1000 }},
		{"win value too small", func(c *Config) { c.Game.WinValue = 2 }},
		{"zero history", func(c *Config) { c.Game.HistoryLimit = 0 }},
		{"empty date format", func(c *Config) { c.Game.DateFormat = "" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

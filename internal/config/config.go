// Package config provides YAML-based configuration loading for the
// 2048 game, its storage, logging and SSH server.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the complete application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// GameConfig defines the engine rules.
type GameConfig struct {
	Spawn4Prob   float64 `yaml:"spawn_four_probability"` // Probability of spawning 4 instead of 2 (0.0-1.0)
	WinValue     int     `yaml:"win_value"`
	HistoryLimit int     `yaml:"history_limit"`
	DateFormat   string  `yaml:"date_format"` // Go time layout for record dates
	Seed         int64   `yaml:"seed"`        // 0 means seed from the clock
}

// StorageConfig defines where state is persisted.
type StorageConfig struct {
	DBPath    string `yaml:"db_path"`
	Namespace string `yaml:"namespace"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"` // empty = ~/.t2048/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Game.Spawn4Prob < 0 || c.Game.Spawn4Prob > 1 {
		return fmt.Errorf("config: spawn_four_probability %v out of range [0, 1]", c.Game.Spawn4Prob)
	}
	if c.Game.WinValue < 4 || c.Game.WinValue&(c.Game.WinValue-1) != 0 {
		return fmt.Errorf("config: win_value %d is not a power of two >= 4", c.Game.WinValue)
	}
	if c.Game.HistoryLimit <= 0 {
		return fmt.Errorf("config: history_limit must be positive, got %d", c.Game.HistoryLimit)
	}
	if c.Game.DateFormat == "" {
		return fmt.Errorf("config: date_format is empty")
	}
	if c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage db_path is empty")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

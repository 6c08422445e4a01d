package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Game: GameConfig{
			Spawn4Prob:   0.10,
			WinValue:     2048,
			HistoryLimit: 100,
			DateFormat:   "2006/1/2 15:04:05",
		},
		Storage: StorageConfig{
			DBPath:    "~/.t2048/state.db",
			Namespace: "local",
		},
		Log: LogConfig{
			Level: "info",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// t2048 is the 2048 sliding-tile puzzle for the terminal.
//
// Usage:
//
//	t2048 play               - Play in this terminal
//	t2048 records            - Show game history, stats and leaderboard
//	t2048 serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Config YAML (default: ~/.t2048/config.yaml, ./configs/t2048.yaml)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.t2048/state.db)
//	--player <name>     - Storage namespace for local play (default: local)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagPlayer   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 - Slide and merge tiles in your terminal",
	Long: `2048 is a sliding-tile puzzle: merge equal tiles to reach 2048.

Available commands:
  play     - Play in this terminal
  records  - Show history, statistics and the leaderboard
  serve    - Start SSH server for remote play

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 records --top 10
  t2048 serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to state database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player namespace for local play (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagPlayer != "" {
		cfg.Storage.Namespace = flagPlayer
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	return cfg, cfg.Validate()
}

// newLogger builds the application logger.
func newLogger(cfg config.Config, prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           cfg.LogLevel(),
	})
}

// engineOptions translates the game config into engine options.
// The seed is left out so each SSH session draws its own.
func engineOptions(cfg config.Config) []t2048.Option {
	return []t2048.Option{
		t2048.WithSpawn4Prob(cfg.Game.Spawn4Prob),
		t2048.WithWinValue(cfg.Game.WinValue),
		t2048.WithHistoryLimit(cfg.Game.HistoryLimit),
		t2048.WithDateFormat(cfg.Game.DateFormat),
	}
}

// seed returns the configured seed or a time-based one.
func seed(cfg config.Config) int64 {
	if cfg.Game.Seed != 0 {
		return cfg.Game.Seed
	}
	return time.Now().UnixNano()
}

// mustSetup loads config and opens the store, exiting on failure.
func mustSetup(prefix string) (config.Config, *log.Logger, *storage.Store) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg, prefix)

	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("opened database", "path", cfg.Storage.DBPath)
	return cfg, logger, store
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game of 2048 in this terminal.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  R                - New game
  C                - Keep going after reaching 2048
  Esc/B            - Back to menu
  ?                - Toggle full help
  Q/Ctrl+C         - Quit

Best score and the last games are saved in the database under the
player namespace (--player, default "local").

Examples:
  t2048 play
  t2048 play --player alice
  t2048 play --seed 42 --db ./state.db
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Fprintln(os.Stderr, "Error: play needs an interactive terminal")
		os.Exit(1)
	}

	cfg, logger, store := mustSetup("t2048")

	if w, h, err := term.GetSize(fd); err == nil {
		logger.Debug("terminal size", "width", w, "height", h)
	}

	player := cfg.Storage.Namespace
	opts := append(engineOptions(cfg),
		t2048.WithSeed(seed(cfg)),
		t2048.WithLogger(logger),
	)
	engine := t2048.New(store.Bucket(player), opts...)

	runErr := tui.Run(engine, player, store, logger)

	// Close store before potential exit
	store.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

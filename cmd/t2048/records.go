package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/storage"
	"github.com/vovakirdan/tui-2048/internal/t2048"
)

var (
	flagTop     int
	flagPlayers bool
	flagClear   bool
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show game history and statistics",
	Long: `Display the saved game history and statistics of a player.

Examples:
  t2048 records                  # History of the local player
  t2048 records --player alice   # History of an SSH user
  t2048 records --top 10         # Shared leaderboard
  t2048 records --players        # Players with saved state
  t2048 records --clear          # Forget best score and history`,
	Args: cobra.NoArgs,
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().IntVar(&flagTop, "top", 0, "Show the N best games of all players")
	recordsCmd.Flags().BoolVar(&flagPlayers, "players", false, "List players with saved state")
	recordsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the player's best score and history")
}

func runRecords(_ *cobra.Command, _ []string) {
	cfg, logger, store := mustSetup("t2048")
	defer store.Close()

	player := cfg.Storage.Namespace

	switch {
	case flagClear:
		if err := store.ClearNamespace(player); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing records: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared best score and history of %q\n", player)
		return

	case flagPlayers:
		printPlayers(store)
		return

	case flagTop > 0:
		printLeaderboard(store, flagTop)
		return
	}

	engine := t2048.New(store.Bucket(player), append(engineOptions(cfg), t2048.WithLogger(logger))...)
	engine.InitBestScore()
	printHistory(player, engine.BestScore(), engine.Records())
}

func printHistory(player string, best int, history []t2048.Record) {
	fmt.Printf("Records - %s\n", player)
	fmt.Println()

	if len(history) == 0 {
		fmt.Println("No games recorded yet.")
		fmt.Println()
		fmt.Println("Play 't2048 play' and finish a game to start your history!")
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-4s  %s\n", "#", "Score", "Time", "Won", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-4s  %s\n", "-", "-----", "----", "---", "----")

	for i, r := range history {
		won := "-"
		if r.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-8d  %-8s  %-4s  %s\n", i+1, r.Score, r.DurationOrZero(), won, r.Date)
	}

	stats := t2048.ComputeStats(history)
	fmt.Println()
	fmt.Printf("Games: %d  Wins: %d  Average: %.0f  Played: %s\n",
		stats.Games, stats.Wins, stats.AvgScore, stats.TotalTime)
	fmt.Printf("Best: %d\n", best)
}

func printLeaderboard(store *storage.Store, limit int) {
	scores, err := store.TopScores(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Leaderboard")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No finished games yet.")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-8s  %-4s  %s\n", "Rank", "Player", "Score", "Won", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %-4s  %s\n", "----", "------", "-----", "---", "----")

	for i, e := range scores {
		won := "-"
		if e.Won {
			won = "yes"
		}
		fmt.Printf("  %-4d  %-16s  %-8d  %-4s  %s\n", i+1, e.Player, e.Score, won, e.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printPlayers(store *storage.Store) {
	players, err := store.Namespaces()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing players: %v\n", err)
		os.Exit(1)
	}

	if len(players) == 0 {
		fmt.Println("No saved players.")
		return
	}

	fmt.Printf("  %-16s  %-8s  %s\n", "Player", "High", "Last played")
	fmt.Printf("  %-16s  %-8s  %s\n", "------", "----", "-----------")
	for _, p := range players {
		high, err := store.HighScore(p.Name)
		if err != nil {
			high = 0
		}
		fmt.Printf("  %-16s  %-8d  %s\n", p.Name, high, p.UpdatedAt.Local().Format(time.DateTime))
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagScoresPlayer string
	flagScoresTUI    bool
	flagScoresReset  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the high score table",
	Long: `Display the top 10 high scores.

Examples:
  tetris scores
  tetris scores --player alice
  tetris scores --tui`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show scores for a single player")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in a scrollable table")
	scoresCmd.Flags().BoolVar(&flagScoresReset, "reset", false, "Delete all recorded scores")
}

func runScores(cmd *cobra.Command, args []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresReset {
		if err := store.ClearScores(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All scores cleared.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if _, tuiErr := tui.RunScoreboard(store, width, height); tuiErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", tuiErr)
			os.Exit(1)
		}
		return
	}

	var scores []storage.ScoreEntry
	if flagScoresPlayer != "" {
		scores, err = store.PlayerScores(flagScoresPlayer, 10)
	} else {
		scores, err = store.TopScores(10)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	// Display scores
	if flagScoresPlayer != "" {
		fmt.Printf("High Scores - %s\n", flagScoresPlayer)
	} else {
		fmt.Println("High Scores")
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tetris play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-10s  %-6s  %-5s  %s\n", "Rank", "Player", "Score", "Lines", "Level", "Date")
	fmt.Printf("  %-4s  %-12s  %-10s  %-6s  %-5s  %s\n", "----", "------", "-----", "-----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-10d  %-6d  %-5d  %s\n", i+1, entry.Player, entry.Score, entry.Lines, entry.Level, dateStr)
	}

	// Show aggregate stats
	fmt.Println()
	if stats, statsErr := store.GetStats(); statsErr == nil && stats.GamesCount > 0 {
		fmt.Printf("Games: %d  Best: %d  Lines: %d  Avg: %.0f\n",
			stats.GamesCount, stats.HighScore, stats.TotalLines, stats.AvgScore)
	}
}

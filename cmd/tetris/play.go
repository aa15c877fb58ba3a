package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLevel      int
	flagNoGhost    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the current terminal",
	Long: `Start a session in the current terminal.

Controls:
  Left/Right, A/D  - Move
  Down/S           - Soft drop
  Up/X/W           - Rotate clockwise
  Z                - Rotate counter-clockwise
  Space            - Hard drop
  P                - Pause
  R                - Restart
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Start at level 1
  normal - Start at level 5
  hard   - Start at level 9
  fixed  - Keep the config's start level

Examples:
  tetris play
  tetris play --level 9
  tetris play --difficulty hard
  tetris play --no-ghost
  tetris play --config ./my-tetris.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "Start level 1-15 (0 = pick interactively)")
	playCmd.Flags().BoolVar(&flagNoGhost, "no-ghost", false, "Hide the ghost piece")
}

func runPlay(cmd *cobra.Command, args []string) {
	// Create runtime config, probing the terminal size early for the
	// level selector
	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	// Load gameplay config
	gameCfg, err := config.LoadTetris(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if flagDifficulty != "" {
		config.ApplyTetrisPreset(&gameCfg, config.DifficultyPreset(flagDifficulty))
	}
	if flagNoGhost {
		gameCfg.Gameplay.Ghost = false
	}

	switch {
	case flagLevel > 0:
		gameCfg.Gameplay.StartLevel = flagLevel

	case flagLevel == 0 && flagDifficulty == "":
		// Show the start-level selector
		level, selErr := tui.RunLevelSelector(cfg, gameCfg.Gameplay.StartLevel)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			os.Exit(1)
		}

		// User pressed back or quit
		if level == 0 {
			return
		}
		gameCfg.Gameplay.StartLevel = level
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the session
	runErr := tui.Run(gameCfg, store, cfg, playerName())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playerName picks the name scores are recorded under.
func playerName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "player"
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/config"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the gameplay config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to ~/.tetris/configs/tetris.yaml",
	Long: `Write the commented default config to ~/.tetris/configs/tetris.yaml
so it can be edited. Subsequent 'tetris play' runs pick it up
automatically.

Examples:
  tetris config init
  tetris config init --force`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) {
	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot get home directory: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(home, ".tetris", "configs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create config directory: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(dir, "tetris.yaml")
	if _, err := os.Stat(path); err == nil && !flagConfigForce {
		fmt.Fprintf(os.Stderr, "Config already exists at %s (use --force to overwrite)\n", path)
		os.Exit(1)
	}

	if err := os.WriteFile(path, config.DefaultYAML(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote default config to %s\n", path)
}

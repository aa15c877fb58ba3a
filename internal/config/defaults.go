package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the default session configuration.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Board: BoardConfig{
			Rows: 20,
			Cols: 10,
		},
		Timing: TimingConfig{
			MoveRepeat:      0.05,
			MoveRepeatDelay: 0.15,
			SoftDropFactor:  20,
			LockDelay:       0.4,
			LockMoveLimit:   15,
			LineClearPause:  0.3,
		},
		Gameplay: GameplayConfig{
			StartLevel: 1,
			Ghost:      true,
		},
	}
}

// DefaultYAML returns the embedded default YAML, for `tetris config init`.
func DefaultYAML() []byte {
	return defaultTetrisYAML
}

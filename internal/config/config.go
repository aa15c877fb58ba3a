// Package config provides YAML-based configuration loading and difficulty
// presets for the tetris session.
package config

// TetrisConfig contains the tunable parameters of a session.
type TetrisConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Timing   TimingConfig   `yaml:"timing"`
	Gameplay GameplayConfig `yaml:"gameplay"`
}

// BoardConfig defines the playfield dimensions.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// TimingConfig defines the input and lock timing constants, in seconds.
type TimingConfig struct {
	MoveRepeat      float64 `yaml:"move_repeat"`       // auto-shift interval
	MoveRepeatDelay float64 `yaml:"move_repeat_delay"` // delay before auto-shift
	SoftDropFactor  float64 `yaml:"soft_drop_factor"`  // gravity divisor while soft dropping
	LockDelay       float64 `yaml:"lock_delay"`
	LockMoveLimit   int     `yaml:"lock_move_limit"`
	LineClearPause  float64 `yaml:"line_clear_pause"`
}

// GameplayConfig defines session-level gameplay options.
type GameplayConfig struct {
	StartLevel int  `yaml:"start_level"` // fixed for the whole session
	Ghost      bool `yaml:"ghost"`       // draw the ghost piece
}

// DifficultyPreset represents a named starting difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// StartLevelForPreset returns the session start level for a preset.
// The fixed preset keeps whatever the config file says.
func StartLevelForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 5
	case DifficultyHard:
		return 9
	default:
		return 1
	}
}

// ApplyTetrisPreset modifies the config based on a difficulty preset.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		return
	}
	cfg.Gameplay.StartLevel = StartLevelForPreset(preset)
}

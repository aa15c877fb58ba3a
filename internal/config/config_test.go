package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	var cfg TetrisConfig
	if err := yaml.Unmarshal(defaultTetrisYAML, &cfg); err != nil {
		t.Fatalf("embedded default should parse: %v", err)
	}
	if cfg != DefaultTetrisConfig() {
		t.Errorf("embedded default diverged from hardcoded default:\n  %+v\n  %+v",
			cfg, DefaultTetrisConfig())
	}
}

func TestApplyTetrisPreset(t *testing.T) {
	tests := []struct {
		preset    DifficultyPreset
		wantLevel int
	}{
		{DifficultyEasy, 1},
		{DifficultyNormal, 5},
		{DifficultyHard, 9},
	}
	for _, tt := range tests {
		cfg := DefaultTetrisConfig()
		ApplyTetrisPreset(&cfg, tt.preset)
		if cfg.Gameplay.StartLevel != tt.wantLevel {
			t.Errorf("%s: start level %d, want %d", tt.preset, cfg.Gameplay.StartLevel, tt.wantLevel)
		}
	}

	// The fixed preset keeps the configured level.
	cfg := DefaultTetrisConfig()
	cfg.Gameplay.StartLevel = 12
	ApplyTetrisPreset(&cfg, DifficultyFixed)
	if cfg.Gameplay.StartLevel != 12 {
		t.Errorf("fixed preset should keep the configured level, got %d", cfg.Gameplay.StartLevel)
	}
}

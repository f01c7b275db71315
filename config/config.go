// Package config provides unified configuration loading: defaults
// overlaid by an optional YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fcrew/fcrew/learning"
	"github.com/fcrew/fcrew/memory"
)

// Config is the complete module configuration.
type Config struct {
	// Learning holds the learner hyperparameters and checkpoint path.
	Learning LearningConfig `yaml:"learning"`
	// Memory configures the long-term memory store.
	Memory memory.Config `yaml:"memory"`
	// Prompts configures prompt template storage.
	Prompts PromptsConfig `yaml:"prompts"`
	// Redis configures the optional Redis model store.
	Redis learning.RedisOptions `yaml:"redis"`
	// Log configures logging.
	Log LogConfig `yaml:"log"`
}

// LearningConfig wraps the learner hyperparameters with persistence
// settings.
type LearningConfig struct {
	learning.LearnerConfig `yaml:",inline"`

	// ModelPath is where the file model store keeps checkpoints.
	ModelPath string `yaml:"model_path"`
}

// PromptsConfig configures prompt storage.
type PromptsConfig struct {
	// StoragePath is the template directory; empty keeps templates in
	// memory only.
	StoragePath string `yaml:"storage_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level: debug, info, warn, error.
	Level string `yaml:"level"`
	// Development enables human-friendly console output.
	Development bool `yaml:"development"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Learning: LearningConfig{
			LearnerConfig: learning.DefaultLearnerConfig(),
			ModelPath:     "data/model.json",
		},
		Memory:  memory.DefaultConfig("data/memory.db"),
		Prompts: PromptsConfig{StoragePath: "data/prompts"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load returns the defaults overlaid with the YAML file at path. A
// missing file yields the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	l := c.Learning
	if l.LearningRate <= 0 || l.LearningRate > 1 {
		return fmt.Errorf("learning_rate must be in (0, 1], got %v", l.LearningRate)
	}
	if l.DiscountFactor < 0 || l.DiscountFactor > 1 {
		return fmt.Errorf("discount_factor must be in [0, 1], got %v", l.DiscountFactor)
	}
	if l.ExplorationRate < 0 || l.ExplorationRate > 1 {
		return fmt.Errorf("exploration_rate must be in [0, 1], got %v", l.ExplorationRate)
	}
	if l.MinExplorationRate < 0 || l.MinExplorationRate > l.ExplorationRate {
		return fmt.Errorf("min_exploration_rate must be in [0, exploration_rate], got %v", l.MinExplorationRate)
	}
	if l.ExplorationDecay <= 0 || l.ExplorationDecay > 1 {
		return fmt.Errorf("exploration_decay must be in (0, 1], got %v", l.ExplorationDecay)
	}
	if c.Memory.MaxRecords < 0 {
		return fmt.Errorf("memory max_records must be >= 0, got %d", c.Memory.MaxRecords)
	}
	return nil
}

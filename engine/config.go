package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

var ErrInvalidConfig = errors.New("invalid engine config")

// Config holds the tunable search options.
type Config struct {
	MaxDepth      int     `json:"max_depth"`
	TimeLimit     float64 `json:"time_limit_seconds"`
	UseBook       bool    `json:"use_book"`
	BookDeviation float64 `json:"book_deviation"`
	NullMove      bool    `json:"null_move"`
	NullReduction int     `json:"null_reduction"`
	NullMinDepth  int     `json:"null_min_depth"`
	UseTT         bool    `json:"use_tt"`
	TTSizeMB      int     `json:"tt_size_mb"`
}

func DefaultConfig() Config {
	return Config{
		MaxDepth:      3,
		TimeLimit:     5.0,
		UseBook:       true,
		BookDeviation: 0.1,
		NullMove:      true,
		NullReduction: 2,
		NullMinDepth:  3,
		UseTT:         true,
		TTSizeMB:      DefaultTTSize,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 1 || c.MaxDepth > MaxDepthLimit:
		return fmt.Errorf("%w: max_depth %d outside [1, %d]", ErrInvalidConfig, c.MaxDepth, MaxDepthLimit)
	case c.TimeLimit < 0:
		return fmt.Errorf("%w: negative time_limit_seconds %v", ErrInvalidConfig, c.TimeLimit)
	case c.BookDeviation < 0 || c.BookDeviation > 1:
		return fmt.Errorf("%w: book_deviation %v outside [0, 1]", ErrInvalidConfig, c.BookDeviation)
	case c.NullReduction < 1:
		return fmt.Errorf("%w: null_reduction must be positive, got %d", ErrInvalidConfig, c.NullReduction)
	case c.NullMinDepth < 1:
		return fmt.Errorf("%w: null_min_depth must be positive, got %d", ErrInvalidConfig, c.NullMinDepth)
	case c.TTSizeMB < 1:
		return fmt.Errorf("%w: tt_size_mb must be positive, got %d", ErrInvalidConfig, c.TTSizeMB)
	}
	return nil
}

// Budget is the time limit as a duration; zero means unbounded.
func (c Config) Budget() time.Duration {
	return time.Duration(c.TimeLimit * float64(time.Second))
}

// LoadConfig reads a JSON file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

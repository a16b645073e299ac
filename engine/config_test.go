package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Budget() != 5*time.Second {
		t.Fatalf("budget %v", cfg.Budget())
	}
}

func TestConfigValidate(t *testing.T) {
	mutations := map[string]func(*Config){
		"depth zero":     func(c *Config) { c.MaxDepth = 0 },
		"depth too deep": func(c *Config) { c.MaxDepth = MaxDepthLimit + 1 },
		"negative time":  func(c *Config) { c.TimeLimit = -1 },
		"deviation":      func(c *Config) { c.BookDeviation = 1.5 },
		"reduction":      func(c *Config) { c.NullReduction = 0 },
		"min depth":      func(c *Config) { c.NullMinDepth = 0 },
		"tt size":        func(c *Config) { c.TTSizeMB = 0 },
	}
	for name, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.json")
	if err := os.WriteFile(path, []byte(`{"max_depth": 5, "null_move": false}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MaxDepth != 5 || cfg.NullMove || !cfg.UseTT || cfg.NullReduction != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"max_depth": 500}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing file accepted")
	}
}

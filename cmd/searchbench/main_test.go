package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"minimax-engine/engine"
	"minimax-engine/rules"
)

func benchConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.MaxDepth = 2
	cfg.TimeLimit = 0
	cfg.UseBook = false
	cfg.TTSizeMB = 1
	return cfg
}

func TestRunWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "mem.out")
	if err := run(benchConfig(), rules.StartFEN, 1, cpu, mem, zerolog.Nop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, path := range []string{cpu, mem} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Fatalf("%s not written: %v", path, err)
		}
	}
}

func TestRunFlushesCPUProfileOnError(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.out")
	mem := filepath.Join(dir, "missing", "mem.out")
	if err := run(benchConfig(), rules.StartFEN, 1, cpu, mem, zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for an unwritable heap profile")
	}
	if info, err := os.Stat(cpu); err != nil || info.Size() == 0 {
		t.Fatalf("CPU profile not flushed: %v", err)
	}
}

func TestRunRejectsBadFEN(t *testing.T) {
	if err := run(benchConfig(), "garbage", 1, "", "", zerolog.Nop()); err == nil {
		t.Fatalf("expected an error for a malformed FEN")
	}
}

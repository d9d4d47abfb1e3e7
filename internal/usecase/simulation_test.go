package usecase

import (
	"testing"
	"time"

	"TickForge/internal/sim"
)

func TestSimulationConfigDefaults(t *testing.T) {
	var cfg SimulationConfig
	cfg.setDefaults()

	if cfg.TickInterval != 2*time.Second {
		t.Errorf("TickInterval = %v, want 2s", cfg.TickInterval)
	}
	if cfg.AutosaveInterval != 60*time.Second {
		t.Errorf("AutosaveInterval = %v, want 60s", cfg.AutosaveInterval)
	}
	if cfg.NewsBuffer != 200 {
		t.Errorf("NewsBuffer = %d, want 200", cfg.NewsBuffer)
	}
	if cfg.Engine.Seed == 0 {
		t.Error("zero seed not replaced, every run would replay the same path")
	}
}

func TestSimulationConfigKeepsExplicitValues(t *testing.T) {
	cfg := SimulationConfig{
		Engine:           sim.Config{Seed: 42},
		TickInterval:     time.Second,
		AutosaveInterval: 5 * time.Minute,
		NewsBuffer:       50,
	}
	cfg.setDefaults()

	if cfg.Engine.Seed != 42 {
		t.Errorf("Seed = %d, want the explicit 42", cfg.Engine.Seed)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("TickInterval = %v, want 1s", cfg.TickInterval)
	}
	if cfg.AutosaveInterval != 5*time.Minute {
		t.Errorf("AutosaveInterval = %v, want 5m", cfg.AutosaveInterval)
	}
	if cfg.NewsBuffer != 50 {
		t.Errorf("NewsBuffer = %d, want 50", cfg.NewsBuffer)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://localhost/tickforge?sslmode=disable
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("environment = %q, want development", cfg.Environment)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Sim.TickInterval != 2*time.Second {
		t.Errorf("sim.tick_interval = %v, want 2s", cfg.Sim.TickInterval)
	}
	if cfg.Sim.MinutesPerTick != 5 {
		t.Errorf("sim.minutes_per_tick = %d, want 5", cfg.Sim.MinutesPerTick)
	}
	if cfg.Sim.MarketOpen != 570 || cfg.Sim.MarketClose != 960 {
		t.Errorf("market hours = %d..%d, want 570..960", cfg.Sim.MarketOpen, cfg.Sim.MarketClose)
	}
	if cfg.Kafka.TicksTopic != "tickforge.ticks" {
		t.Errorf("kafka.ticks_topic = %q", cfg.Kafka.TicksTopic)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
sim:
  seed: 42
  minutes_per_tick: 1
  market_open: 600
  market_close: 900
postgres:
  dsn: postgres://db/tickforge
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sim.Seed != 42 {
		t.Errorf("sim.seed = %d, want 42", cfg.Sim.Seed)
	}
	if cfg.Sim.MinutesPerTick != 1 {
		t.Errorf("sim.minutes_per_tick = %d, want 1", cfg.Sim.MinutesPerTick)
	}
	if cfg.Sim.MarketOpen != 600 || cfg.Sim.MarketClose != 900 {
		t.Errorf("market hours = %d..%d", cfg.Sim.MarketOpen, cfg.Sim.MarketClose)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing dsn", ``},
		{"bad market hours", `
postgres:
  dsn: postgres://db/tickforge
sim:
  market_open: 960
  market_close: 570
`},
		{"kafka enabled without brokers", `
postgres:
  dsn: postgres://db/tickforge
kafka:
  enabled: true
`},
		{"clickhouse enabled without host", `
postgres:
  dsn: postgres://db/tickforge
clickhouse:
  enabled: true
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			if _, err := Load(path); err == nil {
				t.Fatalf("Load succeeded, want validation error")
			}
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	path := writeConfig(t, `
postgres:
  dsn: postgres://db/tickforge
`)

	t.Setenv("SIM_SEED", "1337")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("LoadWithEnv: %v", err)
	}
	if cfg.Sim.Seed != 1337 {
		t.Errorf("sim.seed = %d, want 1337", cfg.Sim.Seed)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis override not applied: %+v", cfg.Redis)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" {
		t.Errorf("kafka brokers = %v", cfg.Kafka.Brokers)
	}
}

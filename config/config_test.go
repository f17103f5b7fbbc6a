package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sim.TickRate != 30 {
		t.Errorf("TickRate = %d, want 30", cfg.Sim.TickRate)
	}
	if cfg.Derived.CountdownTicks != 150 {
		t.Errorf("CountdownTicks = %d, want 150", cfg.Derived.CountdownTicks)
	}
	if cfg.Derived.VictoryTicks != 150 {
		t.Errorf("VictoryTicks = %d, want 150", cfg.Derived.VictoryTicks)
	}
	if cfg.Derived.TickInterval != time.Second/30 {
		t.Errorf("TickInterval = %v, want %v", cfg.Derived.TickInterval, time.Second/30)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("sim:\n  countdown_seconds: 2\narena:\n  width: 800\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Arena.Width != 800 {
		t.Errorf("Width = %v, want 800", cfg.Arena.Width)
	}
	// Untouched fields keep their defaults
	if cfg.Arena.Depth != 400 {
		t.Errorf("Depth = %v, want 400", cfg.Arena.Depth)
	}
	if cfg.Derived.CountdownTicks != 60 {
		t.Errorf("CountdownTicks = %d, want 60", cfg.Derived.CountdownTicks)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tick rate", "sim:\n  tick_rate: 0\n"},
		{"negative arena", "arena:\n  height: -1\n"},
		{"tiny roster", "roster:\n  size: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	MustInit("")
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Cfg().WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if cfg.Odds.HouseEdge != Cfg().Odds.HouseEdge {
		t.Errorf("HouseEdge = %v, want %v", cfg.Odds.HouseEdge, Cfg().Odds.HouseEdge)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultTuning(t *testing.T) {
	tun := Default()
	if tun.TickHz != 60 {
		t.Errorf("TickHz = %d, want 60", tun.TickHz)
	}
	if got := tun.Encounter.FirstSpawnDelay(); got != 2*time.Second {
		t.Errorf("FirstSpawnDelay = %v, want 2s", got)
	}
	if tun.Encounter.MaxFillAttempts <= 0 {
		t.Error("Expected a positive fill attempt limit")
	}
	if got := tun.TickInterval(); got != time.Second/60 {
		t.Errorf("TickInterval = %v, want %v", got, time.Second/60)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	tun, err := Parse([]byte("player:\n  speed: 200\n"), nil)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if tun.Player.Speed != 200 {
		t.Errorf("Player.Speed = %v, want 200", tun.Player.Speed)
	}
	if tun.Player.Health != 100 {
		t.Errorf("Player.Health = %v, want default 100", tun.Player.Health)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero tick", "tick_hz: 0\n"},
		{"no health", "player:\n  health: 0\n"},
		{"no fill attempts", "encounter:\n  max_fill_attempts: 0\n"},
		{"malformed", "player: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data), nil); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("tick_hz: 30\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvTuning, path)
	tun, got, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if tun.TickHz != 30 {
		t.Errorf("TickHz = %d, want 30", tun.TickHz)
	}
}

func TestWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("tick_hz: 60\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := Watch(path)
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("tick_hz: 90\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A save can surface as several events; partial writes may parse as defaults.
	timeout := time.After(5 * time.Second)
	for {
		select {
		case tun := <-w.Updates:
			if tun.TickHz == 90 {
				return
			}
		case <-w.Errors:
		case <-timeout:
			t.Fatal("timed out waiting for reload")
		}
	}
}

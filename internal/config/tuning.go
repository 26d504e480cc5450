// Package config loads the simulation tuning and watches it for changes.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed tuning.yaml
var defaultTuning []byte

// EnvTuning names the environment variable holding an override file path.
const EnvTuning = "ARENACORE_TUNING"

// Player tunes the player actor and its weapons.
type Player struct {
	Health              float64 `yaml:"health"`
	Radius              float64 `yaml:"radius"`
	Speed               float64 `yaml:"speed"`
	ShotSpeed           float64 `yaml:"shot_speed"`
	ShotDamage          float64 `yaml:"shot_damage"`
	FireIntervalMs      int     `yaml:"fire_interval_ms"`
	SecondaryDamage     float64 `yaml:"secondary_damage"`
	SecondaryIntervalMs int     `yaml:"secondary_interval_ms"`
}

// FireInterval returns the primary weapon's refire delay.
func (p Player) FireInterval() time.Duration {
	return time.Duration(p.FireIntervalMs) * time.Millisecond
}

// SecondaryInterval returns the secondary weapon's refire delay.
func (p Player) SecondaryInterval() time.Duration {
	return time.Duration(p.SecondaryIntervalMs) * time.Millisecond
}

// Encounter tunes stage pacing and procedural rosters.
type Encounter struct {
	FirstSpawnDelayMs int `yaml:"first_spawn_delay_ms"`
	VictoryCooldownMs int `yaml:"victory_cooldown_ms"`
	EssencePerStage   int `yaml:"essence_per_stage"`
	ProceduralOffset  int `yaml:"procedural_offset"`
	BudgetBase        int `yaml:"budget_base"`
	MaxFillAttempts   int `yaml:"max_fill_attempts"`
	MaxRoster         int `yaml:"max_roster"`
}

// FirstSpawnDelay returns the delay between entering a stage and its first spawn.
func (e Encounter) FirstSpawnDelay() time.Duration {
	return time.Duration(e.FirstSpawnDelayMs) * time.Millisecond
}

// VictoryCooldown returns the pause after a roster is cleared.
func (e Encounter) VictoryCooldown() time.Duration {
	return time.Duration(e.VictoryCooldownMs) * time.Millisecond
}

// Ambient tunes the per-tick random spawns during a fight.
type Ambient struct {
	MinionChance         float64 `yaml:"minion_chance"`
	MinionChancePerLevel float64 `yaml:"minion_chance_per_level"`
	PickupChance         float64 `yaml:"pickup_chance"`
	PowerChance          float64 `yaml:"power_chance"`
	HealValue            float64 `yaml:"heal_value"`
}

// Tuning is the full set of tunable values.
type Tuning struct {
	TickHz    int       `yaml:"tick_hz"`
	Player    Player    `yaml:"player"`
	Encounter Encounter `yaml:"encounter"`
	Ambient   Ambient   `yaml:"ambient"`
}

// TickInterval returns the wall-clock length of one tick.
func (t *Tuning) TickInterval() time.Duration {
	if t.TickHz <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(t.TickHz)
}

// Validate rejects values the simulation cannot run with.
func (t *Tuning) Validate() error {
	switch {
	case t.TickHz <= 0:
		return fmt.Errorf("tick_hz must be positive, got %d", t.TickHz)
	case t.Player.Health <= 0:
		return fmt.Errorf("player.health must be positive, got %v", t.Player.Health)
	case t.Encounter.MaxFillAttempts <= 0:
		return fmt.Errorf("encounter.max_fill_attempts must be positive, got %d", t.Encounter.MaxFillAttempts)
	case t.Encounter.MaxRoster <= 0:
		return fmt.Errorf("encounter.max_roster must be positive, got %d", t.Encounter.MaxRoster)
	}
	return nil
}

// Default returns the embedded tuning.
func Default() *Tuning {
	t, err := Parse(defaultTuning, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded tuning: %v", err))
	}
	return t
}

// Parse decodes data over base, or over the embedded defaults when base is nil.
// Keys absent from data keep the base value.
func Parse(data []byte, base *Tuning) (*Tuning, error) {
	t := &Tuning{}
	if base != nil {
		*t = *base
	} else if err := yaml.Unmarshal(defaultTuning, t); err != nil {
		return nil, fmt.Errorf("parse embedded tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Load returns the embedded defaults overlaid with the file at path, if path is set.
func Load(path string) (*Tuning, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return Parse(data, nil)
}

// LoadFromEnv loads the file named by ARENACORE_TUNING, if set.
func LoadFromEnv() (*Tuning, string, error) {
	path := os.Getenv(EnvTuning)
	t, err := Load(path)
	return t, path, err
}

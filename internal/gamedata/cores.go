package gamedata

import "time"

// CoreDef describes an equip-able core granted by a defeated boss's essence.
type CoreDef struct {
	ID          string  `yaml:"id"` // Matches the boss that grants it
	Name        string  `yaml:"name"`
	Passive     string  `yaml:"passive"`
	Active      string  `yaml:"active"`
	CooldownMs  int     `yaml:"cooldown_ms"`
	Cue         string  `yaml:"cue"`
	DamageMult  float64 `yaml:"damage_multiplier"`
	TakenMult   float64 `yaml:"damage_taken_multiplier"`
	PickupBonus float64 `yaml:"pickup_radius_bonus"`
}

// Cooldown returns the active ability cooldown.
func (c *CoreDef) Cooldown() time.Duration {
	return time.Duration(c.CooldownMs) * time.Millisecond
}

// CoresFile represents the structure of cores.yaml.
type CoresFile struct {
	Cores []CoreDef `yaml:"cores"`
}

// LoadCores loads core definitions from the embedded cores.yaml file.
func LoadCores() ([]CoreDef, error) {
	file, err := Load[CoresFile]("cores.yaml")
	if err != nil {
		return nil, err
	}
	return file.Cores, nil
}

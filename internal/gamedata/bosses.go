package gamedata

import "fmt"

// Archetype is the coarse behavioural category of a boss.
type Archetype string

const (
	ArchetypeSwarm        Archetype = "swarm"
	ArchetypeAggressor    Archetype = "aggressor"
	ArchetypeSpecialist   Archetype = "specialist"
	ArchetypeFieldControl Archetype = "field_control"
)

// BossDef is the static metadata of a boss or minion kind.
type BossDef struct {
	ID            string    `yaml:"id"`             // Behaviour key (e.g., "splitter")
	Name          string    `yaml:"name"`           // Display name
	Color         string    `yaml:"color"`          // Hex colour hint for the renderer
	Health        float64   `yaml:"health"`         // Base health
	Radius        float64   `yaml:"radius"`         // Body radius in arena units
	Speed         float64   `yaml:"speed"`          // Base speed in units per second
	ContactDamage float64   `yaml:"contact_damage"` // Damage dealt on touching the player
	Tier          int       `yaml:"tier"`           // Difficulty tier 1-3, the procedural budget cost
	Archetype     Archetype `yaml:"archetype"`
	Keystone      bool      `yaml:"keystone"`  // May anchor a procedural roster
	Companion     bool      `yaml:"companion"` // Spawned by another boss, never rostered directly
}

// Validate checks the definition's invariants.
func (d *BossDef) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("boss definition without id")
	}
	if d.Health <= 0 {
		return fmt.Errorf("boss %s: health must be positive", d.ID)
	}
	if d.Tier < 1 || d.Tier > 3 {
		return fmt.Errorf("boss %s: tier %d out of range 1-3", d.ID, d.Tier)
	}
	switch d.Archetype {
	case ArchetypeSwarm, ArchetypeAggressor, ArchetypeSpecialist, ArchetypeFieldControl:
	default:
		return fmt.Errorf("boss %s: unknown archetype %q", d.ID, d.Archetype)
	}
	return nil
}

// MinionDef is the static metadata of a summoned, non-boss actor.
type MinionDef struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Color         string  `yaml:"color"`
	Health        float64 `yaml:"health"`
	Radius        float64 `yaml:"radius"`
	Speed         float64 `yaml:"speed"`
	ContactDamage float64 `yaml:"contact_damage"`
	LifetimeMs    int     `yaml:"lifetime_ms"` // Zero means no lifetime limit
}

// BossesFile represents the structure of bosses.yaml.
type BossesFile struct {
	Bosses  []BossDef   `yaml:"bosses"`
	Minions []MinionDef `yaml:"minions"`
}

// LoadBosses loads boss and minion definitions from the embedded bosses.yaml file.
func LoadBosses() ([]BossDef, []MinionDef, error) {
	file, err := Load[BossesFile]("bosses.yaml")
	if err != nil {
		return nil, nil, err
	}
	for i := range file.Bosses {
		if err := file.Bosses[i].Validate(); err != nil {
			return nil, nil, err
		}
	}
	return file.Bosses, file.Minions, nil
}

// GlyphRune returns the first letter of the name as the renderer glyph.
func (d *BossDef) GlyphRune() rune {
	if len(d.Name) == 0 {
		return '?'
	}
	return rune(d.Name[0])
}

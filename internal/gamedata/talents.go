package gamedata

// TalentDef is a purchasable passive that feeds the modifier recompute.
type TalentDef struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Description  string  `yaml:"description"`
	Cost         int     `yaml:"cost"` // Talent points
	DamageMult   float64 `yaml:"damage_multiplier"`
	TakenMult    float64 `yaml:"damage_taken_multiplier"`
	PickupBonus  float64 `yaml:"pickup_radius_bonus"`
	EssenceGain  float64 `yaml:"essence_gain_modifier"`
	PowerRate    float64 `yaml:"power_spawn_rate_modifier"`
	RageImmunity bool    `yaml:"rage_immunity"`
}

// TalentsFile represents the structure of talents.yaml.
type TalentsFile struct {
	Talents []TalentDef `yaml:"talents"`
}

// LoadTalents loads talent definitions from the embedded talents.yaml file.
func LoadTalents() ([]TalentDef, error) {
	file, err := Load[TalentsFile]("talents.yaml")
	if err != nil {
		return nil, err
	}
	return file.Talents, nil
}

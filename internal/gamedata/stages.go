package gamedata

// Roster is the fixed boss line-up of an early stage.
type Roster struct {
	Stage  int      `yaml:"stage"`
	Bosses []string `yaml:"bosses"`
}

// Unlock is a thematic reward granted when the player reaches a stage.
type Unlock struct {
	Stage        int    `yaml:"stage"`
	Power        string `yaml:"power"`
	TalentPoints int    `yaml:"talent_points"`
	Message      string `yaml:"message"`
}

// StagesFile represents the structure of stages.yaml.
type StagesFile struct {
	Rosters []Roster `yaml:"rosters"`
	Unlocks []Unlock `yaml:"unlocks"`
}

// LoadStages loads the fixed rosters and the unlock table from stages.yaml.
func LoadStages() (StagesFile, error) {
	return Load[StagesFile]("stages.yaml")
}

// PowerDef is a player power that can be picked up and fired with the secondary trigger.
type PowerDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	Kind       string  `yaml:"kind"` // Effect kind it spawns
	Damage     float64 `yaml:"damage"`
	Radius     float64 `yaml:"radius"`
	DurationMs int     `yaml:"duration_ms"`
	Slow       float64 `yaml:"slow"`
	Cue        string  `yaml:"cue"`
}

// PowersFile represents the structure of powers.yaml.
type PowersFile struct {
	Powers []PowerDef `yaml:"powers"`
}

// LoadPowers loads power definitions from the embedded powers.yaml file.
func LoadPowers() ([]PowerDef, error) {
	file, err := Load[PowersFile]("powers.yaml")
	if err != nil {
		return nil, err
	}
	return file.Powers, nil
}

package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
)

// =============================================================================
// BossRegistry
// =============================================================================

// BossRegistry holds loaded boss and minion definitions and provides lookup utilities.
type BossRegistry struct {
	bosses  map[string]*BossDef
	all     []BossDef
	minions map[string]*MinionDef
}

// NewBossRegistry creates a registry from loaded definitions.
func NewBossRegistry(bosses []BossDef, minions []MinionDef) (*BossRegistry, error) {
	registry := &BossRegistry{
		bosses:  make(map[string]*BossDef),
		all:     bosses,
		minions: make(map[string]*MinionDef),
	}
	for i := range bosses {
		if _, dup := registry.bosses[bosses[i].ID]; dup {
			return nil, fmt.Errorf("duplicate boss id %q", bosses[i].ID)
		}
		if err := checkColor("boss "+bosses[i].ID, bosses[i].Color); err != nil {
			return nil, err
		}
		registry.bosses[bosses[i].ID] = &bosses[i]
	}
	for i := range minions {
		if err := checkColor("minion "+minions[i].ID, minions[i].Color); err != nil {
			return nil, err
		}
		registry.minions[minions[i].ID] = &minions[i]
	}
	return registry, nil
}

// LoadBossRegistry loads and creates a registry from the embedded bosses.yaml.
func LoadBossRegistry() (*BossRegistry, error) {
	bosses, minions, err := LoadBosses()
	if err != nil {
		return nil, err
	}
	if len(bosses) == 0 {
		return nil, errors.New("no bosses loaded from bosses.yaml")
	}
	return NewBossRegistry(bosses, minions)
}

// MustLoadBossRegistry loads a registry, panicking on error.
func MustLoadBossRegistry() *BossRegistry {
	registry, err := LoadBossRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the boss definition with the given ID, or nil if not found.
func (r *BossRegistry) GetByID(id string) *BossDef {
	return r.bosses[id]
}

// Minion returns the minion definition with the given ID, or nil if not found.
func (r *BossRegistry) Minion(id string) *MinionDef {
	return r.minions[id]
}

// All returns all boss definitions in file order.
func (r *BossRegistry) All() []BossDef {
	return r.all
}

// Count returns the number of boss types in the registry.
func (r *BossRegistry) Count() int {
	return len(r.all)
}

// Pool returns the ids of rosterable bosses of the given tier, in file order.
// Companions are excluded because their partner spawns them.
func (r *BossRegistry) Pool(tier int) []string {
	var ids []string
	for i := range r.all {
		if r.all[i].Tier == tier && !r.all[i].Companion {
			ids = append(ids, r.all[i].ID)
		}
	}
	return ids
}

// Keystones returns the ids of bosses that may anchor a procedural roster, in file order.
func (r *BossRegistry) Keystones() []string {
	var ids []string
	for i := range r.all {
		if r.all[i].Keystone {
			ids = append(ids, r.all[i].ID)
		}
	}
	return ids
}

// =============================================================================
// CoreRegistry
// =============================================================================

// CoreRegistry holds loaded core definitions.
type CoreRegistry struct {
	cores map[string]*CoreDef
	all   []CoreDef
}

// NewCoreRegistry creates a registry from loaded core definitions.
func NewCoreRegistry(cores []CoreDef) *CoreRegistry {
	registry := &CoreRegistry{
		cores: make(map[string]*CoreDef),
		all:   cores,
	}
	for i := range cores {
		registry.cores[cores[i].ID] = &cores[i]
	}
	return registry
}

// LoadCoreRegistry loads and creates a registry from the embedded cores.yaml.
func LoadCoreRegistry() (*CoreRegistry, error) {
	cores, err := LoadCores()
	if err != nil {
		return nil, err
	}
	if len(cores) == 0 {
		return nil, errors.New("no cores loaded from cores.yaml")
	}
	return NewCoreRegistry(cores), nil
}

// GetByID returns the core definition with the given ID, or nil if not found.
func (r *CoreRegistry) GetByID(id string) *CoreDef {
	return r.cores[id]
}

// All returns all core definitions.
func (r *CoreRegistry) All() []CoreDef {
	return r.all
}

// Count returns the number of cores in the registry.
func (r *CoreRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// TalentRegistry
// =============================================================================

// TalentRegistry holds loaded talent definitions.
type TalentRegistry struct {
	talents map[string]*TalentDef
	all     []TalentDef
}

// NewTalentRegistry creates a registry from loaded talent definitions.
func NewTalentRegistry(talents []TalentDef) *TalentRegistry {
	registry := &TalentRegistry{
		talents: make(map[string]*TalentDef),
		all:     talents,
	}
	for i := range talents {
		registry.talents[talents[i].ID] = &talents[i]
	}
	return registry
}

// LoadTalentRegistry loads and creates a registry from the embedded talents.yaml.
func LoadTalentRegistry() (*TalentRegistry, error) {
	talents, err := LoadTalents()
	if err != nil {
		return nil, err
	}
	return NewTalentRegistry(talents), nil
}

// GetByID returns the talent definition with the given ID, or nil if not found.
func (r *TalentRegistry) GetByID(id string) *TalentDef {
	return r.talents[id]
}

// GetMultiple returns talent definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *TalentRegistry) GetMultiple(ids []string) []*TalentDef {
	result := make([]*TalentDef, 0, len(ids))
	for _, id := range ids {
		if talent := r.talents[id]; talent != nil {
			result = append(result, talent)
		}
	}
	return result
}

// All returns all talent definitions.
func (r *TalentRegistry) All() []TalentDef {
	return r.all
}

// =============================================================================
// PowerRegistry
// =============================================================================

// PowerRegistry holds loaded power definitions.
type PowerRegistry struct {
	powers map[string]*PowerDef
	all    []PowerDef
}

// NewPowerRegistry creates a registry from loaded power definitions.
func NewPowerRegistry(powers []PowerDef) *PowerRegistry {
	registry := &PowerRegistry{
		powers: make(map[string]*PowerDef),
		all:    powers,
	}
	for i := range powers {
		registry.powers[powers[i].ID] = &powers[i]
	}
	return registry
}

// LoadPowerRegistry loads and creates a registry from the embedded powers.yaml.
func LoadPowerRegistry() (*PowerRegistry, error) {
	powers, err := LoadPowers()
	if err != nil {
		return nil, err
	}
	return NewPowerRegistry(powers), nil
}

// GetByID returns the power definition with the given ID, or nil if not found.
func (r *PowerRegistry) GetByID(id string) *PowerDef {
	return r.powers[id]
}

// PickRandom selects one of the given unlocked power ids uniformly.
// Ids without a definition are ignored; returns nil when none remain.
func (r *PowerRegistry) PickRandom(rng *rand.Rand, unlocked []string) *PowerDef {
	candidates := r.GetMultiple(unlocked)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[rng.Intn(len(candidates))]
}

// GetMultiple returns power definitions for a list of IDs.
// Missing IDs are silently skipped.
func (r *PowerRegistry) GetMultiple(ids []string) []*PowerDef {
	result := make([]*PowerDef, 0, len(ids))
	for _, id := range ids {
		if power := r.powers[id]; power != nil {
			result = append(result, power)
		}
	}
	return result
}

// =============================================================================
// StageTable
// =============================================================================

// StageTable answers roster and unlock lookups by stage number.
type StageTable struct {
	rosters map[int][]string
	unlocks map[int]Unlock
	last    int
}

// NewStageTable indexes the loaded stages file.
func NewStageTable(file StagesFile) *StageTable {
	t := &StageTable{
		rosters: make(map[int][]string),
		unlocks: make(map[int]Unlock),
	}
	for _, r := range file.Rosters {
		t.rosters[r.Stage] = r.Bosses
		if r.Stage > t.last {
			t.last = r.Stage
		}
	}
	for _, u := range file.Unlocks {
		t.unlocks[u.Stage] = u
	}
	return t
}

// LoadStageTable loads the embedded stages.yaml.
func LoadStageTable() (*StageTable, error) {
	file, err := LoadStages()
	if err != nil {
		return nil, err
	}
	if len(file.Rosters) == 0 {
		return nil, errors.New("no rosters loaded from stages.yaml")
	}
	return NewStageTable(file), nil
}

// Roster returns the fixed roster of a stage and whether one exists.
func (t *StageTable) Roster(stage int) ([]string, bool) {
	r, ok := t.rosters[stage]
	return r, ok
}

// LastFixed returns the highest stage with a fixed roster.
func (t *StageTable) LastFixed() int { return t.last }

// Unlock returns the thematic unlock for reaching the given stage, if any.
func (t *StageTable) Unlock(stage int) (Unlock, bool) {
	u, ok := t.unlocks[stage]
	return u, ok
}

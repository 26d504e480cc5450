package encounter

import (
	"slices"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/gamedata"
)

// Planner picks the boss line-up of a stage: the fixed table for early stages and a
// budgeted procedural selection after it.
type Planner struct {
	defs   *gamedata.BossRegistry
	stages *gamedata.StageTable
	tuning config.Encounter
}

// NewPlanner creates a roster planner.
func NewPlanner(defs *gamedata.BossRegistry, stages *gamedata.StageTable, tuning config.Encounter) *Planner {
	return &Planner{defs: defs, stages: stages, tuning: tuning}
}

// Budget returns the difficulty budget of a procedural stage.
func (p *Planner) Budget(stage int) int {
	return max(stage-p.tuning.ProceduralOffset, 0)/2 + p.tuning.BudgetBase
}

// Roster returns the boss ids for a stage.
func (p *Planner) Roster(stage int) []string {
	if r, ok := p.stages.Roster(stage); ok {
		return slices.Clone(r)
	}
	return p.Procedural(stage)
}

// Procedural builds a roster: a keystone by rotating index, then a greedy fill from
// the highest tier pool down. The result is deterministic for a stage and pool order,
// and its tier sum never exceeds the budget.
func (p *Planner) Procedural(stage int) []string {
	budget := p.Budget(stage)
	n := max(stage-p.tuning.ProceduralOffset-1, 0)
	var roster []string
	spent := 0

	keys := p.defs.Keystones()
	for i := range keys {
		id := keys[(n+i)%len(keys)]
		if tier := p.tier(id); tier <= budget {
			roster = append(roster, id)
			spent += tier
			break
		}
	}

	tried := make(map[int]int)
	failures := 0
	for tier := 3; tier >= 1; {
		if len(roster) >= p.tuning.MaxRoster || spent >= budget || failures >= p.tuning.MaxFillAttempts {
			break
		}
		pool := p.defs.Pool(tier)
		if tier > budget-spent || tried[tier] >= len(pool) {
			tier--
			continue
		}
		id := pool[(n+tried[tier])%len(pool)]
		tried[tier]++
		if slices.Contains(roster, id) {
			failures++
			continue
		}
		roster = append(roster, id)
		spent += tier
	}
	return roster
}

// Cost returns the summed tier of a roster.
func (p *Planner) Cost(roster []string) int {
	total := 0
	for _, id := range roster {
		total += p.tier(id)
	}
	return total
}

func (p *Planner) tier(id string) int {
	if def := p.defs.GetByID(id); def != nil {
		return def.Tier
	}
	return 0
}

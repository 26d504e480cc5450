// Package encounter decides which bosses fight in each stage, tracks whether a fight
// is on, and hands out rewards when a roster falls.
package encounter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/gamedata"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/progress"
	"github.com/samdwyer/arenacore/internal/telemetry"
	"github.com/samdwyer/arenacore/internal/world"
)

// Phase is a lifecycle state of the orchestrator.
type Phase string

const (
	// PhaseIdle - no stage entered yet
	PhaseIdle Phase = "idle"
	// PhasePending - waiting for the spawn cooldown
	PhasePending Phase = "pending"
	// PhaseFighting - a roster is on the field
	PhaseFighting Phase = "fighting"
	// PhaseCleared - the roster fell; rewards granted, cooling down
	PhaseCleared Phase = "cleared"
)

const (
	evEnter   = "enter"
	evSpawn   = "spawn"
	evClear   = "clear"
	evAdvance = "advance"
	evReset   = "reset"
)

// Spawner creates bosses and minions. The boss registry satisfies it.
type Spawner interface {
	Spawn(w *world.World, id string, pos geom.Vec2) (*entity.Actor, error)
	SpawnMinion(w *world.World, kind string, pos geom.Vec2, owner *entity.Actor) (*entity.Actor, error)
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Spawner Spawner
	Planner *Planner
	Stages  *gamedata.StageTable
	Cores   *gamedata.CoreRegistry
	Powers  *gamedata.PowerRegistry
	Store   progress.Store
	Slot    string
	Tuning  *config.Tuning
	Logger  *log.Logger
}

// Orchestrator owns the fight-active flag and stage progression.
type Orchestrator struct {
	deps      Deps
	lifecycle *fsm.FSM
	tracer    trace.Tracer

	Stage                 int
	BossActive            bool
	BossHasSpawnedThisRun bool
	NextSpawnAt           time.Duration
	Record                progress.Record

	// Unlocked is the ids unlocked by the last victory, for the banner.
	Unlocked []string
}

// New creates an orchestrator in the idle phase with the given progression record.
func New(deps Deps, rec progress.Record) *Orchestrator {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	if deps.Tuning == nil {
		deps.Tuning = config.Default()
	}
	if deps.Slot == "" {
		deps.Slot = "main"
	}
	o := &Orchestrator{
		deps:   deps,
		tracer: telemetry.Tracer("encounter"),
		Stage:  1,
		Record: rec,
	}
	o.lifecycle = fsm.NewFSM(
		string(PhaseIdle),
		fsm.Events{
			{Name: evEnter, Src: []string{string(PhaseIdle), string(PhasePending), string(PhaseCleared)}, Dst: string(PhasePending)},
			{Name: evSpawn, Src: []string{string(PhasePending)}, Dst: string(PhaseFighting)},
			{Name: evClear, Src: []string{string(PhaseFighting)}, Dst: string(PhaseCleared)},
			{Name: evAdvance, Src: []string{string(PhaseCleared)}, Dst: string(PhasePending)},
			{Name: evReset, Src: []string{string(PhasePending), string(PhaseFighting), string(PhaseCleared)}, Dst: string(PhaseIdle)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				deps.Logger.Printf("encounter: %s -> %s (stage %d)", e.Src, e.Dst, o.Stage)
			},
		},
	)
	return o
}

// SetTuning swaps the pacing and ambient tables. Takes effect on the next Update.
func (o *Orchestrator) SetTuning(t *config.Tuning) {
	o.deps.Tuning = t
	if o.deps.Planner != nil {
		o.deps.Planner.tuning = t.Encounter
	}
}

// Phase returns the current lifecycle phase.
func (o *Orchestrator) Phase() Phase { return Phase(o.lifecycle.Current()) }

// fire runs a lifecycle event. A no-op transition is not an error.
func (o *Orchestrator) fire(ctx context.Context, event string) {
	if err := o.lifecycle.Event(ctx, event); err != nil {
		var noop fsm.NoTransitionError
		if errors.As(err, &noop) {
			return
		}
		o.deps.Logger.Printf("encounter: event %s from %s: %v", event, o.lifecycle.Current(), err)
	}
}

// EnterStage starts a stage: the first roster spawns after the first-spawn delay.
func (o *Orchestrator) EnterStage(ctx context.Context, w *world.World, stage int) {
	o.Stage = max(stage, 1)
	o.NextSpawnAt = w.Now() + o.deps.Tuning.Encounter.FirstSpawnDelay()
	o.fire(ctx, evEnter)
}

// Reset returns to idle and forgets the run.
func (o *Orchestrator) Reset(ctx context.Context) {
	o.fire(ctx, evReset)
	o.BossActive = false
	o.BossHasSpawnedThisRun = false
}

// Update spawns the next roster once the cooldown has elapsed and no boss lives,
// then runs the ambient spawns of an active fight.
func (o *Orchestrator) Update(ctx context.Context, w *world.World) {
	if o.Phase() == PhaseCleared && w.Now() >= o.NextSpawnAt {
		o.fire(ctx, evAdvance)
	}
	if o.Phase() == PhasePending && w.Now() >= o.NextSpawnAt && !w.BossAlive() {
		o.spawnRoster(ctx, w)
	}
	o.Ambient(w)
}

// spawnRoster spawns every boss of the current stage. Unknown ids are logged and
// skipped; a roster that produces nothing is skipped as a whole.
func (o *Orchestrator) spawnRoster(ctx context.Context, w *world.World) {
	ctx, span := o.tracer.Start(ctx, "encounter.spawn")
	defer span.End()

	roster := o.deps.Planner.Roster(o.Stage)
	span.SetAttributes(
		attribute.Int("stage", o.Stage),
		attribute.Int("roster.size", len(roster)),
		attribute.Int("roster.cost", o.deps.Planner.Cost(roster)),
	)

	spawned := 0
	for i, id := range roster {
		pos := spawnPoint(w, i, len(roster))
		if _, err := o.deps.Spawner.Spawn(w, id, pos); err != nil {
			o.deps.Logger.Printf("encounter: stage %d: %v", o.Stage, err)
			span.RecordError(err)
			telemetry.SpanEvent(ctx, "encounter.spawn_failed", attribute.String("boss.id", id), attribute.Int("stage", o.Stage))
			continue
		}
		spawned++
	}
	span.SetAttributes(attribute.Int("roster.spawned", spawned))

	if spawned == 0 {
		o.deps.Logger.Printf("encounter: stage %d produced no bosses, skipping", o.Stage)
		o.Stage++
		o.NextSpawnAt = w.Now() + o.deps.Tuning.Encounter.FirstSpawnDelay()
		return
	}
	o.BossActive = true
	o.BossHasSpawnedThisRun = true
	o.fire(ctx, evSpawn)
	w.Notify(fmt.Sprintf("Stage %d", o.Stage))
	w.Play("boss_spawn")
}

// spawnPoint spreads n bosses across the arc opposite the arena's lower edge.
func spawnPoint(w *world.World, i, n int) geom.Vec2 {
	c := w.Arena.Center()
	if n == 1 {
		return c.Add(geom.V(0, -w.Arena.Bounds.Height/3))
	}
	spread := math.Pi * 0.8
	theta := -math.Pi/2 - spread/2 + spread*float64(i)/float64(n-1)
	return c.Add(geom.FromAngle(theta).Scale(w.Arena.Bounds.Height / 3))
}

// Reconcile runs after cleanup. It keeps BossActive equal to "a boss lives" and
// declares victory when a fight's roster is gone.
func (o *Orchestrator) Reconcile(ctx context.Context, w *world.World) {
	o.BossActive = w.BossAlive()
	if o.Phase() == PhaseFighting && !o.BossActive && !w.PlayerDown {
		o.victory(ctx, w)
	}
}

// victory advances the stage, grants rewards and persists progression.
func (o *Orchestrator) victory(ctx context.Context, w *world.World) {
	ctx, span := o.tracer.Start(ctx, "encounter.victory")
	defer span.End()

	cleared := o.Stage
	o.fire(ctx, evClear)

	gain := 1.0
	if p := w.Player(); p != nil {
		gain = p.Status.Mods.EssenceGainModifier
	}
	essence := int(math.Round(float64(o.deps.Tuning.Encounter.EssencePerStage*cleared) * gain))
	w.Essence += essence
	o.Record.Essence += essence

	o.Unlocked = o.Unlocked[:0]
	for _, id := range w.Defeated {
		if o.deps.Cores != nil && o.deps.Cores.GetByID(id) != nil && o.Record.UnlockCore(id) {
			o.Unlocked = append(o.Unlocked, id)
		}
	}
	banner := fmt.Sprintf("Stage %d cleared  +%d essence", cleared, essence)
	if u, ok := o.deps.Stages.Unlock(cleared + 1); ok {
		if o.Record.UnlockPower(u.Power) {
			o.Unlocked = append(o.Unlocked, u.Power)
		}
		o.Record.TalentPoints += u.TalentPoints
		if u.Message != "" {
			banner += "  " + u.Message
		}
	}

	o.Stage = cleared + 1
	o.Record.HighestStage = max(o.Record.HighestStage, o.Stage)
	if p := w.Player(); p != nil {
		o.Record.Level = p.Level
	}
	o.Record.Experience = w.Experience
	w.Defeated = w.Defeated[:0]
	o.NextSpawnAt = w.Now() + o.deps.Tuning.Encounter.VictoryCooldown()

	span.SetAttributes(
		attribute.Int("stage.cleared", cleared),
		attribute.Int("essence.granted", essence),
		attribute.StringSlice("unlocked", o.Unlocked),
	)
	if o.deps.Store != nil {
		if err := o.deps.Store.Save(ctx, o.deps.Slot, o.Record); err != nil {
			o.deps.Logger.Printf("encounter: save progress: %v", err)
			span.RecordError(err)
		}
	}
	w.Notify(banner)
	w.Play("victory")
}

// Ambient rolls the per-tick minion, heal and power spawns. It does nothing unless a
// boss is active.
func (o *Orchestrator) Ambient(w *world.World) {
	if !o.BossActive || w.Player() == nil {
		return
	}
	t := o.deps.Tuning.Ambient
	rng := w.Rng
	p := w.Player()

	if rng.Float64() < t.MinionChance+float64(p.Level)*t.MinionChancePerLevel {
		if _, err := o.deps.Spawner.SpawnMinion(w, "minion", w.Arena.EdgePoint(rng, 20), nil); err != nil {
			o.deps.Logger.Printf("encounter: ambient minion: %v", err)
		}
	}
	if rng.Float64() < t.PickupChance {
		w.DropPickup(world.PickupHeal, w.Arena.RandomPoint(rng, 40), t.HealValue)
	}
	if rng.Float64() < t.PowerChance*p.Status.Mods.PowerSpawnRateModifier && o.deps.Powers != nil {
		if def := o.deps.Powers.PickRandom(rng, o.Record.UnlockedPowers); def != nil {
			pk := w.DropPickup(world.PickupPower, w.Arena.RandomPoint(rng, 40), 0)
			pk.Power = def.ID
		}
	}
}

package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/arenacore/internal/boss"
	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/cores"
	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/encounter"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/gamedata"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/progress"
	"github.com/samdwyer/arenacore/internal/status"
	"github.com/samdwyer/arenacore/internal/telemetry"
	"github.com/samdwyer/arenacore/internal/world"
)

const (
	playerColor = "#F8F8F2"
	powerColor  = "#8BE9FD"
	bannerTTL   = 3 * time.Second
)

var (
	ErrCoreLocked      = errors.New("core not unlocked")
	ErrUnknownTalent   = errors.New("unknown talent")
	ErrTalentOwned     = errors.New("talent already owned")
	ErrNoTalentPoints  = errors.New("not enough talent points")
	ErrNoCoresUnlocked = errors.New("no cores unlocked")
)

// banner keeps the latest notification on the HUD for bannerTTL.
type banner struct {
	text  string
	at    time.Duration
	clock func() time.Duration
	next  world.Notifier
}

func (b *banner) Notify(text string) {
	b.text = text
	if b.clock != nil {
		b.at = b.clock()
	}
	if b.next != nil {
		b.next.Notify(text)
	}
}

func (b *banner) current(now time.Duration) string {
	if b.text == "" || now-b.at >= bannerTTL {
		return ""
	}
	return b.text
}

// Simulation owns one world and advances it a tick at a time. Step is not safe for
// concurrent use; the terminal loop calls it from a single goroutine.
type Simulation struct {
	cfg    Config
	tuning *config.Tuning
	logger *log.Logger
	tracer trace.Tracer

	bosses  *boss.Registry
	powers  *gamedata.PowerRegistry
	talents *gamedata.TalentRegistry

	World   *world.World
	Orch    *encounter.Orchestrator
	Loadout *cores.Loadout
	State   State

	banner        *banner
	runs          int
	lastFire      time.Duration
	lastSecondary time.Duration
}

// NewSimulation loads the data tables and progression and starts the first run.
func NewSimulation(ctx context.Context, cfg Config) (*Simulation, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}
	if cfg.Tuning == nil {
		cfg.Tuning = config.Default()
	}
	if cfg.Slot == "" {
		cfg.Slot = "main"
	}

	bossDefs, err := gamedata.LoadBossRegistry()
	if err != nil {
		return nil, fmt.Errorf("load bosses: %w", err)
	}
	bosses, err := boss.NewRegistry(bossDefs, cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("build boss registry: %w", err)
	}
	stages, err := gamedata.LoadStageTable()
	if err != nil {
		return nil, fmt.Errorf("load stages: %w", err)
	}
	coreDefs, err := gamedata.LoadCoreRegistry()
	if err != nil {
		return nil, fmt.Errorf("load cores: %w", err)
	}
	powers, err := gamedata.LoadPowerRegistry()
	if err != nil {
		return nil, fmt.Errorf("load powers: %w", err)
	}
	talents, err := gamedata.LoadTalentRegistry()
	if err != nil {
		return nil, fmt.Errorf("load talents: %w", err)
	}

	rec := progress.Default()
	if cfg.Store != nil {
		loaded, err := cfg.Store.Load(ctx, cfg.Slot)
		switch {
		case errors.Is(err, progress.ErrNoRecord):
		case err != nil:
			cfg.Logger.Printf("game: load progress: %v", err)
			span.RecordError(err)
		default:
			rec = loaded
		}
	}

	s := &Simulation{
		cfg:     cfg,
		tuning:  cfg.Tuning,
		logger:  cfg.Logger,
		tracer:  tracer,
		bosses:  bosses,
		powers:  powers,
		talents: talents,
		banner:  &banner{next: cfg.Notifier},
	}
	s.Loadout = cores.NewLoadout(coreDefs, bosses, cfg.Logger)
	s.Orch = encounter.New(encounter.Deps{
		Spawner: bosses,
		Planner: encounter.NewPlanner(bossDefs, stages, cfg.Tuning.Encounter),
		Stages:  stages,
		Cores:   coreDefs,
		Powers:  powers,
		Store:   cfg.Store,
		Slot:    cfg.Slot,
		Tuning:  cfg.Tuning,
		Logger:  cfg.Logger,
	}, rec)
	s.startRun(ctx)

	span.SetAttributes(
		attribute.Int64("seed", cfg.Seed),
		attribute.Int("bosses", bossDefs.Count()),
		attribute.Int("record.highest_stage", rec.HighestStage),
		attribute.String("record.core", rec.EquippedCore),
	)
	return s, nil
}

// Tuning returns the active tuning.
func (s *Simulation) Tuning() *config.Tuning { return s.tuning }

// startRun builds a fresh world and enters stage 1. Progression carries over.
func (s *Simulation) startRun(ctx context.Context) {
	w := world.New(world.Options{
		Seed:     s.cfg.Seed + int64(s.runs),
		Audio:    s.cfg.Audio,
		Notifier: s.banner,
		Logger:   s.logger,
	})
	s.banner.clock = w.Now
	s.banner.text = ""
	w.Behaviors = s.bosses
	w.Cores = s.Loadout

	rec := &s.Orch.Record
	pt := s.tuning.Player
	c := w.Arena.Center()
	p := entity.NewPlayer(geom.V(c.X, c.Y+w.Bounds().Height*0.3), pt.Radius, pt.Health, pt.Speed)
	p.Level = max(rec.Level, 1)
	w.Experience = rec.Experience
	w.SetPlayer(p)

	s.World = w
	s.State = StatePlaying
	s.lastFire, s.lastSecondary = -time.Hour, -time.Hour

	s.Loadout.Reset()
	if rec.EquippedCore != "" {
		if err := s.Loadout.Equip(w, rec.EquippedCore); err != nil {
			s.logger.Printf("game: %v", err)
		}
	}
	s.recompute()

	if s.runs > 0 {
		s.Orch.Reset(ctx)
	}
	s.Orch.EnterStage(ctx, w, 1)
	s.runs++
}

// Restart abandons the current run and starts a new one at stage 1.
func (s *Simulation) Restart(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "game.restart")
	defer span.End()
	span.SetAttributes(
		attribute.Int("run", s.runs),
		attribute.Int("stage", s.Orch.Stage),
		attribute.Bool("player.down", s.World.PlayerDown),
	)
	s.save(ctx)
	s.startRun(ctx)
}

// ApplyTuning swaps the tuning between ticks.
func (s *Simulation) ApplyTuning(t *config.Tuning) {
	s.tuning = t
	s.Orch.SetTuning(t)
	if p := s.World.Player(); p != nil {
		p.Speed = t.Player.Speed
	}
	s.logger.Printf("game: tuning reloaded (%d Hz)", t.TickHz)
}

// =============================================================================
// Tick
// =============================================================================

// Step advances the simulation by dt.
func (s *Simulation) Step(ctx context.Context, dt time.Duration, in world.Input) {
	w := s.World
	w.Advance(dt)
	w.DecayStatuses()

	s.Orch.Update(ctx, w)
	w.Scheduler.RunDue(w, w.Now())

	s.control(ctx, in)

	// Actors spawned during this loop act in the same tick.
	for i := 0; i < len(w.Actors); i++ {
		a := w.Actors[i]
		if !a.Alive() {
			continue
		}
		w.Behaviors.Logic(w, a)
		w.Move(a)
	}

	w.Contacts()
	w.CollectPickups()
	w.Effects.Advance(w)
	w.Cleanup()
	s.Orch.Reconcile(ctx, w)

	if w.PlayerDown && s.State == StatePlaying {
		s.State = StateDown
		w.Notify(fmt.Sprintf("Fallen on stage %d  press r to restart", s.Orch.Stage))
		s.save(ctx)
	}
	if s.cfg.Renderer != nil {
		s.cfg.Renderer.Sync(s.Frame())
	}
}

// control applies the player's input: movement, weapons, power and core active.
func (s *Simulation) control(ctx context.Context, in world.Input) {
	w := s.World
	p := w.Player()
	if !p.Alive() {
		return
	}
	p.Vel = in.Move.Scale(p.Speed)
	w.Move(p)
	if d := in.Aim.Sub(p.Pos); !d.IsZero() {
		p.Facing = d.Norm()
	}
	if p.Status.Stunned(w.Now()) {
		return
	}

	if in.Combo {
		s.Loadout.Activate(ctx, w, in.Aim)
		return
	}

	pt := s.tuning.Player
	if in.Primary && w.Now()-s.lastFire >= pt.FireInterval() {
		s.lastFire = w.Now()
		s.shoot(p.Facing, pt.ShotDamage, 4)
	}
	switch {
	case in.SecondaryPressed && w.HeldPower != "":
		s.usePower(in.Aim)
	case in.Secondary && w.Now()-s.lastSecondary >= pt.SecondaryInterval():
		s.lastSecondary = w.Now()
		s.shoot(p.Facing, pt.SecondaryDamage, 7)
	}
}

func (s *Simulation) shoot(dir geom.Vec2, damage, radius float64) {
	w := s.World
	p := w.Player()
	w.AddEffect(&effect.Effect{
		Kind:     effect.Projectile,
		Caster:   p,
		Friendly: true,
		Pos:      p.Pos.Add(dir.Scale(p.Radius)),
		Vel:      dir.Scale(s.tuning.Player.ShotSpeed),
		Radius:   radius,
		Damage:   damage,
		Color:    playerColor,
		Duration: 2 * time.Second,
	})
	w.Play("shot")
}

// kindByName maps a data-table effect name to its kind.
func kindByName(name string) (effect.Kind, bool) {
	for k := effect.Projectile; k <= effect.Ward; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// usePower spends the held power.
func (s *Simulation) usePower(aim geom.Vec2) {
	w := s.World
	id := w.HeldPower
	w.HeldPower = ""
	def := s.powers.GetByID(id)
	if def == nil {
		s.logger.Printf("game: held power %q is not defined", id)
		return
	}
	kind, ok := kindByName(def.Kind)
	if !ok {
		s.logger.Printf("game: power %s has unknown kind %q", def.ID, def.Kind)
		return
	}

	p := w.Player()
	e := &effect.Effect{
		Kind:     kind,
		Caster:   p,
		Friendly: true,
		Color:    powerColor,
		Duration: time.Duration(def.DurationMs) * time.Millisecond,
	}
	switch kind {
	case effect.Shockwave:
		e.Pos = p.Pos
		e.Radius = p.Radius
		e.MaxRadius = def.Radius
		e.Growth = def.Radius * 2
		e.Damage = def.Damage
	case effect.ChainLightning:
		e.Pos = p.Pos
		e.Damage = def.Damage
		e.Jumps = 4
		e.JumpRange = def.Radius
		e.Falloff = 0.8
	case effect.SlowZone, effect.DilationField:
		e.Pos = aim
		e.Radius = def.Radius
		e.SlowFactor = def.Slow
		e.DamagePerSecond = def.Damage
	case effect.Ward:
		e.Pos = p.Pos
		e.Anchor = p
		e.Radius = def.Radius
	default:
		s.logger.Printf("game: power %s: %s cannot be cast by the player", def.ID, def.Kind)
		return
	}
	w.AddEffect(e)
	w.Play(def.Cue)
}

// Frame builds the renderer snapshot with the HUD values the world does not own.
func (s *Simulation) Frame() world.Frame {
	w := s.World
	f := w.Frame()
	f.Stage = s.Orch.Stage
	f.Banner = s.banner.current(w.Now())
	if def := s.Loadout.Equipped(); def != nil {
		if r := s.Loadout.Remaining(w.Now()); r > 0 {
			f.Core = fmt.Sprintf("%s %.0fs", def.Name, r.Seconds())
		} else {
			f.Core = def.Name + " ready"
		}
	}
	return f
}

// =============================================================================
// Progression
// =============================================================================

func talentSource(t *gamedata.TalentDef) status.Source {
	return status.Source{
		Name:                   "talent:" + t.ID,
		DamageMultiplier:       t.DamageMult,
		DamageTakenMultiplier:  t.TakenMult,
		PickupRadiusBonus:      t.PickupBonus,
		EssenceGainModifier:    t.EssenceGain,
		PowerSpawnRateModifier: t.PowerRate,
		RageImmunity:           t.RageImmunity,
	}
}

// recompute rebuilds the player's modifiers from owned talents and the equipped core.
func (s *Simulation) recompute() {
	owned := s.talents.GetMultiple(s.Orch.Record.Talents)
	sources := make([]status.Source, 0, len(owned)+1)
	for _, t := range owned {
		sources = append(sources, talentSource(t))
	}
	sources = append(sources, s.Loadout.Modifiers())
	s.World.Player().Status.Recompute(sources...)
}

// EquipCore equips an unlocked core and persists the choice.
func (s *Simulation) EquipCore(ctx context.Context, id string) error {
	rec := &s.Orch.Record
	if !slices.Contains(rec.UnlockedCores, id) {
		return fmt.Errorf("equip %q: %w", id, ErrCoreLocked)
	}
	if err := s.Loadout.Equip(s.World, id); err != nil {
		return err
	}
	rec.EquippedCore = id
	s.recompute()
	s.save(ctx)
	s.World.Notify("Core: " + s.Loadout.Equipped().Name)
	return nil
}

// CycleCore equips the next unlocked core after the current one.
func (s *Simulation) CycleCore(ctx context.Context) error {
	unlocked := s.Orch.Record.UnlockedCores
	if len(unlocked) == 0 {
		return ErrNoCoresUnlocked
	}
	next := unlocked[0]
	if def := s.Loadout.Equipped(); def != nil {
		if i := slices.Index(unlocked, def.ID); i >= 0 {
			next = unlocked[(i+1)%len(unlocked)]
		}
	}
	return s.EquipCore(ctx, next)
}

// BuyTalent spends talent points on a talent and applies it at once.
func (s *Simulation) BuyTalent(ctx context.Context, id string) error {
	def := s.talents.GetByID(id)
	if def == nil {
		return fmt.Errorf("buy %q: %w", id, ErrUnknownTalent)
	}
	rec := &s.Orch.Record
	if slices.Contains(rec.Talents, id) {
		return fmt.Errorf("buy %q: %w", id, ErrTalentOwned)
	}
	if rec.TalentPoints < def.Cost {
		return fmt.Errorf("buy %q (cost %d, have %d): %w", id, def.Cost, rec.TalentPoints, ErrNoTalentPoints)
	}
	rec.TalentPoints -= def.Cost
	rec.Talents = append(rec.Talents, id)
	s.recompute()
	s.save(ctx)
	s.World.Notify("Talent: " + def.Name)
	return nil
}

// save persists the progression record with the run's level and experience.
func (s *Simulation) save(ctx context.Context) {
	if s.cfg.Store == nil {
		return
	}
	rec := &s.Orch.Record
	if p := s.World.Player(); p != nil {
		rec.Level = max(rec.Level, p.Level)
	}
	rec.Experience = max(rec.Experience, s.World.Experience)
	if err := s.cfg.Store.Save(ctx, s.cfg.Slot, *rec); err != nil {
		s.logger.Printf("game: save progress: %v", err)
	}
}

package game

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/encounter"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/progress"
	"github.com/samdwyer/arenacore/internal/world"
)

const tick = 16 * time.Millisecond

func newTestSimulation(t *testing.T, rec *progress.Record) (*Simulation, *progress.MemoryStore) {
	t.Helper()
	ctx := context.Background()
	store := progress.NewMemoryStore()
	if rec != nil {
		if err := store.Save(ctx, "main", *rec); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	sim, err := NewSimulation(ctx, Config{Seed: 11, Store: store})
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}
	return sim, store
}

func countEffects(w *world.World, kind effect.Kind) int {
	n := 0
	for _, e := range w.Effects.Active() {
		if e.Kind == kind && e.Friendly {
			n++
		}
	}
	return n
}

type countingRenderer struct {
	frames int
	last   world.Frame
}

func (r *countingRenderer) Sync(f world.Frame) {
	r.frames++
	r.last = f
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StatePlaying, "playing"},
		{StateDown, "down"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.expected)
		}
	}
}

func TestNewSimulationStartsAtStageOne(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)

	if sim.Orch.Stage != 1 {
		t.Errorf("Stage = %d, want 1", sim.Orch.Stage)
	}
	if sim.Orch.Phase() != encounter.PhasePending {
		t.Errorf("Phase = %v, want pending", sim.Orch.Phase())
	}
	p := sim.World.Player()
	if p == nil || !p.Alive() {
		t.Fatal("Expected a living player")
	}
	if p.Pos.Dist(geom.V(400, 384)) > 1e-9 {
		t.Errorf("player Pos = %v, want (400,384)", p.Pos)
	}
	if sim.State != StatePlaying {
		t.Errorf("State = %v, want playing", sim.State)
	}
}

func TestNewSimulationRestoresProgress(t *testing.T) {
	rec := progress.Default()
	rec.Level = 3
	rec.Experience = 250
	rec.UnlockedCores = []string{"teleporter"}
	rec.EquippedCore = "teleporter"
	sim, _ := newTestSimulation(t, &rec)

	if got := sim.World.Player().Level; got != 3 {
		t.Errorf("player Level = %d, want 3", got)
	}
	if got := sim.World.Experience; got != 250 {
		t.Errorf("Experience = %d, want 250", got)
	}
	def := sim.Loadout.Equipped()
	if def == nil || def.ID != "teleporter" {
		t.Errorf("Equipped() = %v, want teleporter", def)
	}
}

func TestStepSpawnsFirstRosterAfterDelay(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	ctx := context.Background()

	for now := time.Duration(0); now < 1900*time.Millisecond; now += tick {
		sim.Step(ctx, tick, world.Input{})
	}
	if sim.World.BossAlive() {
		t.Fatal("Expected no boss before the first spawn delay")
	}
	for i := 0; i < 20; i++ {
		sim.Step(ctx, tick, world.Input{})
	}
	bosses := sim.World.Bosses()
	if len(bosses) != 1 || bosses[0].Kind != "splitter" {
		t.Fatalf("Bosses() = %v, want [splitter]", bosses)
	}
	if !sim.Orch.BossActive {
		t.Error("Expected BossActive after spawning")
	}
}

func TestPrimaryFireRespectsInterval(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	ctx := context.Background()
	in := world.Input{Aim: geom.V(400, 0), Primary: true, PrimaryPressed: true}

	sim.Step(ctx, tick, in)
	in.PrimaryPressed = false
	for i := 0; i < 11; i++ {
		sim.Step(ctx, tick, in)
	}
	if got := countEffects(sim.World, effect.Projectile); got != 1 {
		t.Fatalf("projectiles after 192ms = %d, want 1", got)
	}
	sim.Step(ctx, tick, in)
	if got := countEffects(sim.World, effect.Projectile); got != 2 {
		t.Errorf("projectiles after 208ms = %d, want 2", got)
	}
	if f := sim.World.Player().Facing; math.Abs(f.Y+1) > 1e-9 {
		t.Errorf("Facing = %v, want straight up", f)
	}
}

func TestSecondarySpendsHeldPower(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	sim.World.HeldPower = "quake"

	sim.Step(context.Background(), tick, world.Input{
		Aim:              geom.V(400, 100),
		Secondary:        true,
		SecondaryPressed: true,
	})

	if sim.World.HeldPower != "" {
		t.Errorf("HeldPower = %q, want empty", sim.World.HeldPower)
	}
	if got := countEffects(sim.World, effect.Shockwave); got != 1 {
		t.Errorf("shockwaves = %d, want 1", got)
	}
	if got := countEffects(sim.World, effect.Projectile); got != 0 {
		t.Errorf("projectiles = %d, want 0 when a power is spent", got)
	}
}

func TestSecondaryFiresHeavyShotWithoutPower(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	sim.Step(context.Background(), tick, world.Input{Aim: geom.V(400, 100), Secondary: true, SecondaryPressed: true})

	var shot *effect.Effect
	for _, e := range sim.World.Effects.Active() {
		if e.Kind == effect.Projectile {
			shot = e
		}
	}
	if shot == nil {
		t.Fatal("Expected a heavy shot")
	}
	if shot.Damage != config.Default().Player.SecondaryDamage {
		t.Errorf("shot Damage = %v, want %v", shot.Damage, config.Default().Player.SecondaryDamage)
	}
}

func TestComboActivatesEquippedCore(t *testing.T) {
	rec := progress.Default()
	rec.UnlockedCores = []string{"teleporter"}
	rec.EquippedCore = "teleporter"
	sim, _ := newTestSimulation(t, &rec)

	sim.Step(context.Background(), tick, world.Input{Aim: geom.V(400, 100), Combo: true})

	p := sim.World.Player()
	if math.Abs(p.Pos.Y-204) > 1e-6 || math.Abs(p.Pos.X-400) > 1e-6 {
		t.Errorf("player Pos after blink = %v, want (400,204)", p.Pos)
	}
	if sim.Loadout.LastActivated != tick {
		t.Errorf("LastActivated = %v, want %v", sim.Loadout.LastActivated, tick)
	}
	if got := countEffects(sim.World, effect.Projectile); got != 0 {
		t.Errorf("projectiles = %d, want 0 on a combo tick", got)
	}
}

func TestCycleCoreKeepsCooldown(t *testing.T) {
	rec := progress.Default()
	rec.UnlockedCores = []string{"teleporter"}
	rec.EquippedCore = "teleporter"
	sim, _ := newTestSimulation(t, &rec)
	ctx := context.Background()

	sim.Step(ctx, tick, world.Input{Aim: geom.V(400, 100), Combo: true})
	if err := sim.CycleCore(ctx); err != nil {
		t.Fatalf("CycleCore() error = %v", err)
	}
	pos := sim.World.Player().Pos
	sim.Step(ctx, tick, world.Input{Aim: geom.V(400, 100), Combo: true})

	if got := sim.World.Player().Pos; got.Dist(pos) > 1e-9 {
		t.Errorf("player Pos = %v, want %v: blink fired inside its cooldown", got, pos)
	}
	if sim.Loadout.LastActivated != tick {
		t.Errorf("LastActivated = %v, want %v", sim.Loadout.LastActivated, tick)
	}
}

func TestEquipCoreRequiresUnlock(t *testing.T) {
	sim, store := newTestSimulation(t, nil)
	ctx := context.Background()

	if err := sim.EquipCore(ctx, "aegis"); !errors.Is(err, ErrCoreLocked) {
		t.Fatalf("EquipCore(locked) error = %v, want ErrCoreLocked", err)
	}

	sim.Orch.Record.UnlockCore("aegis")
	if err := sim.EquipCore(ctx, "aegis"); err != nil {
		t.Fatalf("EquipCore() error = %v", err)
	}
	if got := sim.World.Player().Shield; got != 1 {
		t.Errorf("Shield = %d, want 1", got)
	}
	saved, err := store.Load(ctx, "main")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.EquippedCore != "aegis" {
		t.Errorf("saved EquippedCore = %q, want aegis", saved.EquippedCore)
	}

	f := sim.Frame()
	if !strings.HasSuffix(f.Core, "ready") {
		t.Errorf("Frame().Core = %q, want a ready core", f.Core)
	}
	if !strings.HasPrefix(f.Banner, "Core: ") {
		t.Errorf("Frame().Banner = %q, want the equip banner", f.Banner)
	}
}

func TestCycleCore(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	ctx := context.Background()

	if err := sim.CycleCore(ctx); !errors.Is(err, ErrNoCoresUnlocked) {
		t.Fatalf("CycleCore() error = %v, want ErrNoCoresUnlocked", err)
	}
	sim.Orch.Record.UnlockCore("splitter")
	sim.Orch.Record.UnlockCore("aegis")

	want := []string{"splitter", "aegis", "splitter"}
	for i, id := range want {
		if err := sim.CycleCore(ctx); err != nil {
			t.Fatalf("CycleCore() #%d error = %v", i, err)
		}
		if got := sim.Loadout.Equipped().ID; got != id {
			t.Errorf("CycleCore() #%d equipped %q, want %q", i, got, id)
		}
	}
}

func TestBuyTalent(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	ctx := context.Background()

	if err := sim.BuyTalent(ctx, "sharpened"); !errors.Is(err, ErrNoTalentPoints) {
		t.Fatalf("BuyTalent(no points) error = %v, want ErrNoTalentPoints", err)
	}
	sim.Orch.Record.TalentPoints = 1
	if err := sim.BuyTalent(ctx, "sharpened"); err != nil {
		t.Fatalf("BuyTalent() error = %v", err)
	}
	if got := sim.World.Player().Status.Mods.DamageMultiplier; math.Abs(got-1.15) > 1e-9 {
		t.Errorf("DamageMultiplier = %v, want 1.15", got)
	}
	if sim.Orch.Record.TalentPoints != 0 {
		t.Errorf("TalentPoints = %d, want 0", sim.Orch.Record.TalentPoints)
	}
	if err := sim.BuyTalent(ctx, "sharpened"); !errors.Is(err, ErrTalentOwned) {
		t.Errorf("BuyTalent(owned) error = %v, want ErrTalentOwned", err)
	}
	if err := sim.BuyTalent(ctx, "nope"); !errors.Is(err, ErrUnknownTalent) {
		t.Errorf("BuyTalent(unknown) error = %v, want ErrUnknownTalent", err)
	}
}

func TestTalentsAndCoreModifiersCombine(t *testing.T) {
	rec := progress.Default()
	rec.Talents = []string{"hardened"}
	rec.UnlockedCores = []string{"lich"}
	rec.EquippedCore = "lich"
	sim, _ := newTestSimulation(t, &rec)

	want := 0.85 * 1.1
	if got := sim.World.Player().Status.Mods.DamageTakenMultiplier; math.Abs(got-want) > 1e-9 {
		t.Errorf("DamageTakenMultiplier = %v, want %v", got, want)
	}
}

func TestPlayerDownAndRestart(t *testing.T) {
	sim, store := newTestSimulation(t, nil)
	ctx := context.Background()
	first := sim.World

	sim.World.Kill(sim.World.Player(), nil)
	sim.Step(ctx, tick, world.Input{})
	if sim.State != StateDown {
		t.Fatalf("State = %v, want down", sim.State)
	}
	if store.Saves != 1 {
		t.Errorf("Saves = %d, want 1", store.Saves)
	}

	sim.Restart(ctx)
	if sim.State != StatePlaying {
		t.Errorf("State after restart = %v, want playing", sim.State)
	}
	if sim.World == first {
		t.Error("Expected a fresh world after restart")
	}
	if !sim.World.Player().Alive() {
		t.Error("Expected a living player after restart")
	}
	if sim.Orch.Stage != 1 || sim.Orch.Phase() != encounter.PhasePending {
		t.Errorf("after restart Stage=%d Phase=%v, want 1/pending", sim.Orch.Stage, sim.Orch.Phase())
	}
}

func TestStepSyncsRenderer(t *testing.T) {
	r := &countingRenderer{}
	sim, err := NewSimulation(context.Background(), Config{Seed: 1, Renderer: r})
	if err != nil {
		t.Fatalf("NewSimulation() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		sim.Step(context.Background(), tick, world.Input{})
	}
	if r.frames != 3 {
		t.Errorf("frames = %d, want 3", r.frames)
	}
	if r.last.Stage != 1 || r.last.Player == nil {
		t.Errorf("last frame Stage=%d Player=%v, want stage 1 with a player", r.last.Stage, r.last.Player)
	}
}

func TestStepIsDeterministic(t *testing.T) {
	run := func() (geom.Vec2, int, int) {
		sim, _ := newTestSimulation(t, nil)
		ctx := context.Background()
		in := world.Input{Aim: geom.V(400, 80), Primary: true, Move: geom.V(1, 0)}
		for i := 0; i < 300; i++ {
			sim.Step(ctx, tick, in)
		}
		return sim.World.Player().Pos, len(sim.World.Actors), sim.World.Effects.Count()
	}
	p1, a1, e1 := run()
	p2, a2, e2 := run()
	if p1 != p2 || a1 != a2 || e1 != e2 {
		t.Errorf("runs diverged: (%v,%d,%d) vs (%v,%d,%d)", p1, a1, e1, p2, a2, e2)
	}
}

func TestApplyTuning(t *testing.T) {
	sim, _ := newTestSimulation(t, nil)
	tuning := config.Default()
	tuning.Player.Speed = 240

	sim.ApplyTuning(tuning)
	if got := sim.World.Player().Speed; got != 240 {
		t.Errorf("player Speed = %v, want 240", got)
	}
	if sim.Tuning() != tuning {
		t.Error("Expected Tuning() to return the applied tuning")
	}
}

func TestKindByName(t *testing.T) {
	tests := []struct {
		name string
		want effect.Kind
		ok   bool
	}{
		{"shockwave", effect.Shockwave, true},
		{"ward", effect.Ward, true},
		{"dilation_field", effect.DilationField, true},
		{"bogus", 0, false},
	}
	for _, tt := range tests {
		got, ok := kindByName(tt.name)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("kindByName(%q) = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

// Package cores implements the equip-able core abilities: a passive hook set that
// rewrites the player's combat events and an active ability on a cooldown.
package cores

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/gamedata"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/status"
	"github.com/samdwyer/arenacore/internal/telemetry"
	"github.com/samdwyer/arenacore/internal/world"
)

// ErrUnknownCore is returned when equipping an id with no definition or hooks.
var ErrUnknownCore = errors.New("unknown core")

// Summoner spawns minions on behalf of an owner. The boss registry satisfies it.
type Summoner interface {
	SpawnMinion(w *world.World, kind string, pos geom.Vec2, owner *entity.Actor) (*entity.Actor, error)
}

// Hooks is the behaviour bundle of one core. Active is required; the rest are optional.
type Hooks struct {
	Equip       func(l *Loadout, w *world.World)
	Active      func(l *Loadout, w *world.World, aim geom.Vec2)
	DamageDealt func(l *Loadout, w *world.World, h *world.Hit)
	DamageTaken func(l *Loadout, w *world.World, h *world.Hit)
	ShieldBreak func(l *Loadout, w *world.World)
	Pickup      func(l *Loadout, w *world.World, p *world.Pickup)
	Collision   func(l *Loadout, w *world.World, other *entity.Actor)
}

var catalogue = map[string]*Hooks{}

func register(id string, h *Hooks) {
	if h.Active == nil {
		panic("cores: " + id + " registered without an active")
	}
	catalogue[id] = h
}

// state is the private bag of the cores. It lives for a run, across swaps.
type state struct {
	lastCheat time.Duration
	cheated   bool
}

// Loadout holds the equipped core and implements world.Interceptor for the player.
type Loadout struct {
	defs     *gamedata.CoreRegistry
	summoner Summoner
	logger   *log.Logger
	tracer   trace.Tracer

	def   *gamedata.CoreDef
	hooks *Hooks
	state state

	// used holds the last activation per core id for the current run, so swapping
	// cores never refreshes a cooldown. primed marks cores whose equip hook ran.
	used   map[string]time.Duration
	primed map[string]bool

	LastActivated time.Duration
}

var _ world.Interceptor = (*Loadout)(nil)

// NewLoadout creates an empty loadout. summoner may be nil if no core summons.
func NewLoadout(defs *gamedata.CoreRegistry, summoner Summoner, logger *log.Logger) *Loadout {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loadout{
		defs:     defs,
		summoner: summoner,
		logger:   logger,
		tracer:   telemetry.Tracer("cores"),
		used:     make(map[string]time.Duration),
		primed:   make(map[string]bool),
	}
}

// Equip swaps in the core with the given id. Re-equipping the current core is a
// no-op. The equip hook runs the first time a core is equipped in a run.
func (l *Loadout) Equip(w *world.World, id string) error {
	def := l.defs.GetByID(id)
	hooks, ok := catalogue[id]
	if def == nil || !ok {
		return ErrUnknownCore
	}
	if l.def != nil && l.def.ID == id {
		return nil
	}
	l.def, l.hooks = def, hooks
	l.LastActivated = l.used[id]
	if hooks.Equip != nil && w != nil && !l.primed[id] {
		l.primed[id] = true
		hooks.Equip(l, w)
	}
	return nil
}

// Reset removes the current core and forgets every cooldown. A new run starts here.
func (l *Loadout) Reset() {
	l.def, l.hooks = nil, nil
	l.state = state{}
	l.LastActivated = 0
	clear(l.used)
	clear(l.primed)
}

// Equipped returns the current core definition, or nil.
func (l *Loadout) Equipped() *gamedata.CoreDef { return l.def }

// Modifiers returns the static modifier source of the equipped core.
func (l *Loadout) Modifiers() status.Source {
	if l.def == nil {
		return status.Source{Name: "core"}
	}
	return status.Source{
		Name:                  "core:" + l.def.ID,
		DamageMultiplier:      l.def.DamageMult,
		DamageTakenMultiplier: l.def.TakenMult,
		PickupRadiusBonus:     l.def.PickupBonus,
	}
}

// Ready reports whether the active ability is off cooldown.
func (l *Loadout) Ready(now time.Duration) bool {
	if l.def == nil {
		return false
	}
	last, ok := l.used[l.def.ID]
	return !ok || now-last >= l.def.Cooldown()
}

// Remaining returns the cooldown left on the active ability.
func (l *Loadout) Remaining(now time.Duration) time.Duration {
	if l.Ready(now) || l.def == nil {
		return 0
	}
	return l.def.Cooldown() - (now - l.used[l.def.ID])
}

// Activate fires the active ability toward aim. Within the cooldown it does nothing
// and reports false.
func (l *Loadout) Activate(ctx context.Context, w *world.World, aim geom.Vec2) bool {
	if !l.Ready(w.Now()) || !w.Player().Alive() {
		return false
	}
	_, span := l.tracer.Start(ctx, "core.activate")
	defer span.End()
	span.SetAttributes(
		attribute.String("core.id", l.def.ID),
		attribute.Int64("sim.now_ms", w.Now().Milliseconds()),
	)

	l.hooks.Active(l, w, aim)
	l.used[l.def.ID] = w.Now()
	l.LastActivated = w.Now()
	w.Play(l.def.Cue)
	return true
}

// ============================================================================
// world.Interceptor
// ============================================================================

// DamageDealt runs the passive on hits the player deals.
func (l *Loadout) DamageDealt(w *world.World, h *world.Hit) {
	if l.hooks != nil && l.hooks.DamageDealt != nil {
		l.hooks.DamageDealt(l, w, h)
	}
}

// DamageTaken runs the passive on hits the player takes.
func (l *Loadout) DamageTaken(w *world.World, h *world.Hit) {
	if l.hooks != nil && l.hooks.DamageTaken != nil {
		l.hooks.DamageTaken(l, w, h)
	}
}

// ShieldBreak runs when a shield charge absorbs a hit.
func (l *Loadout) ShieldBreak(w *world.World) {
	if l.hooks != nil && l.hooks.ShieldBreak != nil {
		l.hooks.ShieldBreak(l, w)
	}
}

// Pickup runs when the player collects a pickup, before its value is applied.
func (l *Loadout) Pickup(w *world.World, p *world.Pickup) {
	if l.hooks != nil && l.hooks.Pickup != nil {
		l.hooks.Pickup(l, w, p)
	}
}

// Collision runs when a hostile actor touches the player.
func (l *Loadout) Collision(w *world.World, other *entity.Actor) {
	if l.hooks != nil && l.hooks.Collision != nil {
		l.hooks.Collision(l, w, other)
	}
}

package world

import (
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// ============================================================================
// External collaborators
// ============================================================================

// Frame is the read-only view handed to the rendering layer once per tick.
type Frame struct {
	Now     time.Duration
	Bounds  geom.Rect
	Arena   *Arena
	Player  *entity.Actor
	Actors  []*entity.Actor
	Effects []*effect.Effect
	Pickups []*Pickup
	Stage   int
	Essence int
	Power   string
	Core    string // Equipped core and its cooldown state
	Banner  string
}

// Renderer keeps a visual representation in sync with the simulation.
type Renderer interface {
	Sync(f Frame)
}

// Input is the per-tick snapshot of the player's controls.
type Input struct {
	Aim  geom.Vec2 // Aim point in arena space
	Move geom.Vec2 // Movement direction; zero when idle

	Primary   bool
	Secondary bool

	PrimaryPressed   bool
	SecondaryPressed bool
	// Combo is the edge of both triggers pressed together. It invokes the core active.
	Combo bool
}

// Audio plays cues by id. Implementations must not block.
type Audio interface {
	Play(cue string)
	StartLoop(cue string) int
	StopLoop(handle int)
}

// Notifier shows a transient banner.
type Notifier interface {
	Notify(text string)
}

// NopAudio discards every cue.
type NopAudio struct{}

func (NopAudio) Play(string) {}
func (NopAudio) StartLoop(string) int { return 0 }
func (NopAudio) StopLoop(int) {}

// NopNotifier discards every banner.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}

// ============================================================================
// Hook dispatch
// ============================================================================

// Hit is one damage event travelling through the pipeline. Hooks may rewrite Amount
// or set Vetoed.
type Hit struct {
	Target *entity.Actor
	Source *entity.Actor
	Amount float64
	Cause  string
	Fatal  bool // The hit would bring the target to zero health
	Vetoed bool
}

// Behaviors dispatches per-actor behaviour hooks by actor kind.
type Behaviors interface {
	Logic(w *World, a *entity.Actor)
	Damage(w *World, a *entity.Actor, h *Hit)
	Collide(w *World, a, other *entity.Actor)
	Death(w *World, a *entity.Actor)
}

// Interceptor observes and rewrites combat events on the player's behalf.
type Interceptor interface {
	DamageDealt(w *World, h *Hit)
	// DamageTaken runs before the ledger's taken multiplier and may veto a fatal blow.
	DamageTaken(w *World, h *Hit)
	ShieldBreak(w *World)
	Pickup(w *World, p *Pickup)
	Collision(w *World, other *entity.Actor)
}

type nopBehaviors struct{}

func (nopBehaviors) Logic(*World, *entity.Actor) {}
func (nopBehaviors) Damage(*World, *entity.Actor, *Hit) {}
func (nopBehaviors) Collide(*World, *entity.Actor, *entity.Actor) {}
func (nopBehaviors) Death(*World, *entity.Actor) {}

type nopInterceptor struct{}

func (nopInterceptor) DamageDealt(*World, *Hit) {}
func (nopInterceptor) DamageTaken(*World, *Hit) {}
func (nopInterceptor) ShieldBreak(*World) {}
func (nopInterceptor) Pickup(*World, *Pickup) {}
func (nopInterceptor) Collision(*World, *entity.Actor) {}

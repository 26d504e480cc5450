// Package entity provides the simulated actors: the player, bosses, minions and puppets.
package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/status"
)

// Flag is a boolean property of an actor.
type Flag uint16

const (
	FlagPlayer Flag = 1 << iota
	FlagBoss
	FlagMinion
	FlagFriendly // Fights on the player's side
	FlagPuppet
	FlagFrozen
	FlagPetrified
	FlagEnraged
	FlagInvulnerable
	FlagDead
	FlagImmobile
	FlagUntargetable
)

// Actor is any simulated entity with a position and health.
type Actor struct {
	InstanceID string // Creation-time unique token
	Kind       string // Definition id (boss id, minion kind or "player")
	Name       string
	Color      string // Hex colour style hint for the renderer

	Pos    geom.Vec2
	Vel    geom.Vec2
	Facing geom.Vec2
	Radius float64
	Speed  float64 // Base speed in units per second

	Health    float64
	MaxHealth float64
	Shield    int // Player only: hits absorbed before health is touched

	ContactDamage float64
	Level         int // Player level, or tier for bosses
	Flags         Flag

	Status *status.Ledger
	State  any // Owned exclusively by the actor's behaviour entry

	// Partner is a mutual back-reference for paired bosses. It never implies ownership.
	Partner *Actor
	// Pool, when set, is the authoritative health of every member.
	Pool *HealthPool
	// Owner is the actor that summoned this one (puppets, drones), if any.
	Owner *Actor

	SpawnedAt time.Duration
	ExpiresAt time.Duration // Zero means no lifetime limit

	deathHandled bool
}

// New creates an actor with a fresh instance id and an empty status ledger.
func New(kind string, pos geom.Vec2, radius, health float64) *Actor {
	return &Actor{
		InstanceID: uuid.NewString(),
		Kind:       kind,
		Name:       kind,
		Pos:        pos,
		Radius:     radius,
		Health:     health,
		MaxHealth:  health,
		Facing:     geom.V(1, 0),
		Status:     status.NewLedger(),
	}
}

// NewPlayer creates the player actor.
func NewPlayer(pos geom.Vec2, radius, health, speed float64) *Actor {
	p := New("player", pos, radius, health)
	p.Name = "Player"
	p.Speed = speed
	p.Flags = FlagPlayer | FlagFriendly
	p.Level = 1
	return p
}

// Has reports whether every bit of f is set.
func (a *Actor) Has(f Flag) bool { return a.Flags&f == f }

// Set turns the flag bits on.
func (a *Actor) Set(f Flag) { a.Flags |= f }

// Clear turns the flag bits off.
func (a *Actor) Clear(f Flag) { a.Flags &^= f }

// IsPlayer reports whether the actor is the player.
func (a *Actor) IsPlayer() bool { return a != nil && a.Has(FlagPlayer) }

// IsBoss reports whether the actor is boss-tagged.
func (a *Actor) IsBoss() bool { return a != nil && a.Has(FlagBoss) }

// Alive returns true if the actor exists, is not dead and has health remaining.
// A nil actor is never alive, which keeps partner checks nil-safe.
func (a *Actor) Alive() bool {
	return a != nil && !a.Has(FlagDead) && a.Health > 0
}

// Hostile reports whether a is an enemy of the player.
func (a *Actor) Hostile() bool {
	return a != nil && !a.Has(FlagFriendly)
}

// Targetable reports whether effects and projectiles may hit the actor.
func (a *Actor) Targetable() bool {
	return a.Alive() && !a.Has(FlagUntargetable)
}

// HealthFraction returns health as a fraction of the maximum.
func (a *Actor) HealthFraction() float64 {
	if a.MaxHealth <= 0 {
		return 0
	}
	return a.Health / a.MaxHealth
}

// TakeDamage reduces health and returns the actual damage taken.
// Pool members route the damage through their pool so every member reports the same value.
func (a *Actor) TakeDamage(amount float64) float64 {
	if amount <= 0 || !a.Alive() {
		return 0
	}
	if a.Pool != nil {
		return a.Pool.Damage(amount)
	}
	actual := amount
	if actual > a.Health {
		actual = a.Health
	}
	a.Health -= actual
	return actual
}

// Heal restores health up to the maximum and returns the amount healed.
func (a *Actor) Heal(amount float64) float64 {
	if amount <= 0 || !a.Alive() {
		return 0
	}
	if a.Pool != nil {
		return a.Pool.Heal(amount)
	}
	actual := amount
	if a.Health+actual > a.MaxHealth {
		actual = a.MaxHealth - a.Health
	}
	a.Health += actual
	return actual
}

// Expired reports whether a lifetime-limited actor has run out of time.
func (a *Actor) Expired(now time.Duration) bool {
	return a.ExpiresAt > 0 && now >= a.ExpiresAt
}

// MarkDead flags the actor dead. It returns true only for the first call, so death
// handling can be guarded against running twice.
func (a *Actor) MarkDead() bool {
	if a.deathHandled {
		return false
	}
	a.deathHandled = true
	a.Health = 0
	a.Set(FlagDead)
	return true
}

// CanMove reports whether the actor may change position this tick.
func (a *Actor) CanMove(now time.Duration) bool {
	if !a.Alive() || a.Has(FlagImmobile) || a.Has(FlagFrozen) || a.Has(FlagPetrified) {
		return false
	}
	return !a.Status.Stunned(now)
}

// Link records a mutual partner reference between two actors.
func Link(a, b *Actor) {
	a.Partner = b
	b.Partner = a
}

package world

import (
	"math"
	"time"

	"github.com/samdwyer/arenacore/internal/geom"
)

// PickupKind identifies what a pickup grants.
type PickupKind int

const (
	PickupEssence PickupKind = iota
	PickupHeal
	PickupPower
)

const (
	pickupRadius   = 14.0
	pickupLifetime = 12 * time.Second
)

// Pickup is a collectible lying in the arena.
type Pickup struct {
	Kind      PickupKind
	Pos       geom.Vec2
	Value     float64
	Power     string // Power id, for PickupPower
	ExpiresAt time.Duration
}

// Expired reports whether the pickup has timed out.
func (p *Pickup) Expired(now time.Duration) bool {
	return p.ExpiresAt > 0 && now >= p.ExpiresAt
}

// Glyph returns the display character for the pickup.
func (p *Pickup) Glyph() rune {
	switch p.Kind {
	case PickupHeal:
		return '+'
	case PickupPower:
		return '?'
	default:
		return '$'
	}
}

// DropPickup places a pickup with the default lifetime.
func (w *World) DropPickup(kind PickupKind, pos geom.Vec2, value float64) *Pickup {
	p := &Pickup{Kind: kind, Pos: pos, Value: value, ExpiresAt: w.now + pickupLifetime}
	w.Pickups = append(w.Pickups, p)
	return p
}

// CollectPickups gathers every pickup within the player's pickup radius.
func (w *World) CollectPickups() {
	pl := w.player
	if !pl.Alive() {
		return
	}
	reach := pl.Radius + pickupRadius + pl.Status.Mods.PickupRadiusBonus
	for i := len(w.Pickups) - 1; i >= 0; i-- {
		p := w.Pickups[i]
		if p.Pos.Dist(pl.Pos) > reach {
			continue
		}
		w.Pickups = append(w.Pickups[:i], w.Pickups[i+1:]...)
		w.Cores.Pickup(w, p)
		switch p.Kind {
		case PickupEssence:
			w.Essence += int(math.Round(p.Value * pl.Status.Mods.EssenceGainModifier))
		case PickupHeal:
			pl.Heal(p.Value)
		case PickupPower:
			w.HeldPower = p.Power
		}
		w.Play("pickup")
	}
}

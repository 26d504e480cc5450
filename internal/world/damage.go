package world

import (
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
)

const (
	// ContactGrace is the window after a contact hit during which further contact is ignored.
	ContactGrace = 500 * time.Millisecond

	bossExperience   = 25
	minionExperience = 2
	experiencePerLvl = 100
)

// Damage routes one damage event through the interceptors and hooks, applies it and
// returns the health actually removed. It satisfies effect.Host.
//
// Player targets: core DamageTaken (may veto) → taken multiplier → shield.
// Other targets: core DamageDealt and damage multiplier for player sources → behaviour
// Damage hook (may amplify, veto or redirect) → invulnerability.
func (w *World) Damage(target *entity.Actor, amount float64, source *entity.Actor, cause string) float64 {
	if !target.Alive() || amount <= 0 {
		return 0
	}
	h := &Hit{Target: target, Source: source, Amount: amount, Cause: cause}

	if target.IsPlayer() {
		h.Fatal = amount*target.Status.Mods.DamageTakenMultiplier >= target.Health
		w.Cores.DamageTaken(w, h)
		if h.Vetoed {
			return 0
		}
		h.Amount *= target.Status.Mods.DamageTakenMultiplier
		if target.Shield > 0 && h.Amount > 0 {
			target.Shield--
			w.Play("shield_break")
			w.Cores.ShieldBreak(w)
			return 0
		}
	} else {
		if source.IsPlayer() {
			mult := w.player.Status.Mods.DamageMultiplier
			h.Fatal = h.Amount*mult >= target.Health
			w.Cores.DamageDealt(w, h)
			h.Amount *= mult
		}
		h.Fatal = h.Amount >= target.Health
		w.Behaviors.Damage(w, target, h)
		if h.Vetoed || target.Has(entity.FlagInvulnerable) {
			return 0
		}
	}

	applied := target.TakeDamage(h.Amount)
	if target.Pool != nil && target.Pool.Depleted() {
		for _, m := range target.Pool.Members {
			w.Kill(m, source)
		}
		w.Kill(target, source)
	} else if target.Health <= 0 {
		w.Kill(target, source)
	}
	return applied
}

// Kill marks an actor dead and runs its death hook exactly once.
func (w *World) Kill(a *entity.Actor, killer *entity.Actor) {
	if a == nil || !a.MarkDead() {
		return
	}
	if a.IsPlayer() {
		w.PlayerDown = true
		w.Play("player_down")
		return
	}
	w.Behaviors.Death(w, a)
	if !a.Hostile() {
		return
	}
	w.Kills++
	switch {
	case a.IsBoss():
		w.Defeated = append(w.Defeated, a.Kind)
		w.GrantExperience(bossExperience * max(a.Level, 1))
	case a.Has(entity.FlagMinion):
		w.GrantExperience(minionExperience)
		w.DropPickup(PickupEssence, a.Pos, 1)
	}
}

// GrantExperience adds experience and levels the player up.
func (w *World) GrantExperience(xp int) {
	w.Experience += xp
	if w.player == nil {
		return
	}
	lvl := 1 + w.Experience/experiencePerLvl
	if lvl > w.player.Level {
		w.player.Level = lvl
		w.Play("level_up")
	}
}

// Contacts resolves body collisions: hostile actors touching the player deal contact
// damage, friendly summons touching hostiles deal theirs. Hooks see every contact.
func (w *World) Contacts() {
	p := w.player
	for i := len(w.Actors) - 1; i >= 0; i-- {
		if i >= len(w.Actors) {
			continue
		}
		a := w.Actors[i]
		if !a.Alive() {
			continue
		}
		if a.Hostile() {
			if !p.Alive() || !overlap(a, p) {
				continue
			}
			w.Behaviors.Collide(w, a, p)
			w.Cores.Collision(w, a)
			if a.ContactDamage > 0 && a.Alive() && w.now-w.lastContact >= ContactGrace {
				w.lastContact = w.now
				w.Damage(p, a.ContactDamage, a, "contact")
			}
			continue
		}
		if a.ContactDamage <= 0 {
			continue
		}
		for _, e := range w.Enemies() {
			if overlap(a, e) {
				w.Damage(e, a.ContactDamage*w.delta.Seconds(), a, "contact")
			}
		}
	}
}

func overlap(a, b *entity.Actor) bool {
	return a.Pos.Dist(b.Pos) <= a.Radius+b.Radius
}

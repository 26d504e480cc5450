package cores

import (
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/status"
	"github.com/samdwyer/arenacore/internal/world"
)

// shotCause is the cause string of damage dealt by projectiles.
var shotCause = effect.Projectile.String()

const (
	coreColor = "#7fd8ff"

	shotSpeed  = 380.0
	shotDamage = 12.0

	phylacteryCooldown = 60 * time.Second
	blinkDistance      = 180.0
	chargeLifetime     = 4 * time.Second
	freezeChance       = 0.2
)

func init() {
	register("splitter", &Hooks{
		DamageDealt: splitterDealt,
		Active: func(l *Loadout, w *world.World, _ geom.Vec2) {
			p := w.Player()
			for _, dir := range geom.Ring(geom.Vec2{}, 1, 8, 0) {
				shoot(w, p.Pos, dir, shotDamage)
			}
		},
	})
	register("berserker", &Hooks{
		DamageDealt: berserkerDealt,
		Active: func(l *Loadout, w *world.World, _ geom.Vec2) {
			w.ApplyStatus(w.Player(), status.Rage, 5*time.Second)
		},
	})
	register("aegis", &Hooks{
		Equip:       restoreShield,
		ShieldBreak: aegisBreak,
		Active:      func(l *Loadout, w *world.World, _ geom.Vec2) { restoreShield(l, w) },
	})
	register("lich", &Hooks{
		DamageTaken: lichTaken,
		Active: func(l *Loadout, w *world.World, _ geom.Vec2) {
			p := w.Player()
			p.Heal(p.MaxHealth * 0.25)
		},
	})
	register("stormcaller", &Hooks{
		DamageDealt: stormDealt,
		Active: func(l *Loadout, w *world.World, aim geom.Vec2) {
			w.AddEffect(&effect.Effect{
				Kind:      effect.ChainLightning,
				Caster:    w.Player(),
				Friendly:  true,
				Pos:       aim,
				Damage:    30,
				Jumps:     5,
				JumpRange: 160,
				Falloff:   0.8,
				Color:     coreColor,
				Duration:  300 * time.Millisecond,
			})
		},
	})
	register("cryomancer", &Hooks{
		DamageDealt: cryoDealt,
		Active: func(l *Loadout, w *world.World, _ geom.Vec2) {
			w.AddEffect(&effect.Effect{
				Kind:      effect.Shockwave,
				Caster:    w.Player(),
				Friendly:  true,
				Pos:       w.Player().Pos,
				Radius:    10,
				MaxRadius: 160,
				Growth:    320,
				Damage:    10,
				Status:    status.Frozen,
				StatusDur: 1500 * time.Millisecond,
				Color:     coreColor,
			})
		},
	})
	register("tidecaller", &Hooks{
		Pickup: func(l *Loadout, w *world.World, p *world.Pickup) {
			slowZone(w, p.Pos, 40, 4*time.Second, 0)
		},
		Active: func(l *Loadout, w *world.World, aim geom.Vec2) {
			slowZone(w, aim, 70, 6*time.Second, 5)
		},
	})
	register("teleporter", &Hooks{
		Active: blink,
	})
	register("hive_queen", &Hooks{
		Pickup: func(l *Loadout, w *world.World, p *world.Pickup) {
			if p.Kind == world.PickupEssence {
				p.Value++
			}
		},
		Active: hiveActive,
	})
	register("gorgon", &Hooks{
		Collision: func(l *Loadout, w *world.World, other *entity.Actor) {
			w.ApplyStatus(other, status.Petrified, 600*time.Millisecond)
		},
		Active: func(l *Loadout, w *world.World, _ geom.Vec2) {
			p := w.Player()
			w.AddEffect(&effect.Effect{
				Kind:     effect.Ward,
				Caster:   p,
				Friendly: true,
				Anchor:   p,
				Pos:      p.Pos,
				Radius:   p.Radius + 28,
				Color:    coreColor,
				Duration: 3 * time.Second,
			})
		},
	})
}

// shoot fires a friendly projectile owned by the player.
func shoot(w *world.World, from, dir geom.Vec2, damage float64) {
	w.AddEffect(&effect.Effect{
		Kind:     effect.Projectile,
		Caster:   w.Player(),
		Friendly: true,
		Pos:      from,
		Vel:      dir.Norm().Scale(shotSpeed),
		Radius:   4,
		Damage:   damage,
		Color:    coreColor,
		Duration: 3 * time.Second,
	})
}

func slowZone(w *world.World, at geom.Vec2, radius float64, d time.Duration, dps float64) {
	w.AddEffect(&effect.Effect{
		Kind:            effect.SlowZone,
		Caster:          w.Player(),
		Friendly:        true,
		Pos:             at,
		Radius:          radius,
		SlowFactor:      0.5,
		DamagePerSecond: dps,
		Color:           coreColor,
		Duration:        d,
	})
}

// A kill by a shot splits into two shots fanned away from the player.
func splitterDealt(l *Loadout, w *world.World, h *world.Hit) {
	if !h.Fatal || h.Cause != shotCause {
		return
	}
	dir := h.Target.Pos.Sub(w.Player().Pos).Norm()
	if dir.IsZero() {
		dir = geom.Vec2{X: 1}
	}
	for _, da := range []float64{-0.4, 0.4} {
		shoot(w, h.Target.Pos, dir.Rotate(da), shotDamage*0.5)
	}
}

func berserkerDealt(l *Loadout, w *world.World, h *world.Hit) {
	p := w.Player()
	if p.HealthFraction() < 0.5 {
		h.Amount *= 1.25
	}
	if p.Status.Active(status.Rage, w.Now()) {
		h.Amount *= 1.5
	}
}

func restoreShield(l *Loadout, w *world.World) {
	if p := w.Player(); p != nil && p.Shield < 1 {
		p.Shield = 1
	}
}

func aegisBreak(l *Loadout, w *world.World) {
	p := w.Player()
	w.AddEffect(&effect.Effect{
		Kind:      effect.Shockwave,
		Caster:    p,
		Friendly:  true,
		Pos:       p.Pos,
		Radius:    p.Radius,
		MaxRadius: 120,
		Growth:    300,
		Damage:    20,
		Color:     coreColor,
	})
}

// The phylactery vetoes one fatal blow per cooldown and heals.
func lichTaken(l *Loadout, w *world.World, h *world.Hit) {
	if !h.Fatal {
		return
	}
	s := &l.state
	if s.cheated && w.Now()-s.lastCheat < phylacteryCooldown {
		return
	}
	s.cheated = true
	s.lastCheat = w.Now()
	h.Vetoed = true
	p := w.Player()
	p.Heal(p.MaxHealth * 0.3)
	w.Play("phylactery")
	l.logger.Printf("phylactery spent at %v", w.Now())
}

// Shots build static charge; a hit with a full charge arcs onward and spends it.
func stormDealt(l *Loadout, w *world.World, h *world.Hit) {
	if h.Cause != shotCause {
		return
	}
	p := w.Player()
	if p.Status.Count(status.StaticCharge) < 3 {
		w.ApplyStatus(p, status.StaticCharge, chargeLifetime)
		return
	}
	p.Status.Remove(status.StaticCharge)
	w.AddEffect(&effect.Effect{
		Kind:      effect.ChainLightning,
		Caster:    p,
		Friendly:  true,
		Pos:       h.Target.Pos,
		Damage:    h.Amount,
		Jumps:     3,
		JumpRange: 140,
		Falloff:   0.7,
		Color:     coreColor,
		Duration:  250 * time.Millisecond,
		Struck:    map[*entity.Actor]bool{h.Target: true},
	})
}

func cryoDealt(l *Loadout, w *world.World, h *world.Hit) {
	if h.Cause != shotCause {
		return
	}
	if w.Rng.Float64() < freezeChance {
		w.ApplyStatus(h.Target, status.Frozen, time.Second)
	}
}

func blink(l *Loadout, w *world.World, aim geom.Vec2) {
	p := w.Player()
	to := aim.Sub(p.Pos)
	if to.IsZero() {
		return
	}
	dist := min(blinkDistance, to.Len())
	p.Pos = w.Arena.Resolve(p.Pos.Add(to.Norm().Scale(dist)), p.Radius)
}

func hiveActive(l *Loadout, w *world.World, _ geom.Vec2) {
	if l.summoner == nil {
		l.logger.Printf("hive core: no summoner configured")
		return
	}
	p := w.Player()
	for _, pos := range geom.Ring(p.Pos, p.Radius+24, 3, 0) {
		if _, err := l.summoner.SpawnMinion(w, "drone", pos, p); err != nil {
			l.logger.Printf("hive core summon: %v", err)
		}
	}
}

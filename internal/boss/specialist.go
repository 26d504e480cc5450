package boss

import (
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/status"
	"github.com/samdwyer/arenacore/internal/world"
)

// ============================================================================
// Specialist archetype
// ============================================================================

type castState struct {
	LastCast time.Duration
	LastAlt  time.Duration
}

type aegisState struct {
	LastWard  time.Duration
	WardUntil time.Duration
}

// warded reports whether a friendly ward currently covers the player.
func warded(c *Context) bool {
	p := c.Player()
	for _, e := range c.W.Effects.Active() {
		if e.Kind == effect.Ward && e.Friendly && !e.Removed() && e.Overlaps(p) {
			return true
		}
	}
	return false
}

func init() {
	register("teleporter", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Stop()
			if !c.Ready(&s.LastCast, 2400*time.Millisecond) {
				return
			}
			dest := c.W.Arena.RandomPoint(c.W.Rng, 40)
			for i := 0; i < 5 && dest.Dist(c.Player().Pos) < 120; i++ {
				dest = c.W.Arena.RandomPoint(c.W.Rng, 40)
			}
			c.Blink(dest)
			c.W.Play("blink")
			c.After(300*time.Millisecond, func(c *Context) {
				c.Spread(c.Aim(), 4, 0.6, 240, 9)
			})
		},
	})

	register("sniper", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(300)
			if c.Ready(&s.LastCast, 1400*time.Millisecond) {
				c.Fire(c.Aim(), 420, 14)
				c.W.Play("snipe")
			}
		},
	})

	register("cryomancer", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(220)
			if c.Ready(&s.LastCast, 1800*time.Millisecond) {
				for _, dir := range []float64{-0.2, 0, 0.2} {
					p := c.Fire(c.Aim().Rotate(dir), 200, 8)
					p.Status = status.Frozen
					p.StatusDur = 800 * time.Millisecond
				}
			}
		},
	})

	register("stormcaller", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(240)
			if c.Player().Pos.Dist(c.Self.Pos) <= 300 && c.Ready(&s.LastCast, 3200*time.Millisecond) {
				c.Cast(&effect.Effect{
					Kind:      effect.ChainLightning,
					Pos:       c.Self.Pos,
					Jumps:     4,
					JumpRange: 300,
					Damage:    14,
					Falloff:   0.8,
					Duration:  300 * time.Millisecond,
				})
				c.W.Play("thunder")
			}
		},
	})

	register("gorgon", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(200)
			if !c.Ready(&s.LastCast, 4*time.Second) {
				return
			}
			gorgon := c.Self
			c.Cast(&effect.Effect{
				Kind:     effect.Beam,
				Anchor:   gorgon,
				Pos:      gorgon.Pos,
				Dir:      c.Aim(),
				Length:   380,
				Width:    10,
				Damage:   6,
				Fuse:     500 * time.Millisecond,
				Duration: 1100 * time.Millisecond,
				OnHit: func(h effect.Host, e *effect.Effect, target *entity.Actor) {
					if target.IsPlayer() && warded(c) {
						h.ApplyStatus(gorgon, status.Petrified, 1500*time.Millisecond)
						return
					}
					h.ApplyStatus(target, status.Petrified, time.Second)
				},
			})
			c.W.Play("gaze")
		},
	})

	register("aegis", &Hooks{
		NewState: func() any { return &aegisState{} },
		Logic: func(c *Context) {
			s := stateOf[aegisState](c)
			c.Chase(0.7)
			if c.Ready(&s.LastWard, 7*time.Second) {
				s.WardUntil = c.Now() + 2*time.Second
				c.W.ApplyStatus(c.Self, "aegis_ward", 2*time.Second)
				c.W.Play("ward_up")
			}
		},
		OnDamage: func(c *Context, h *world.Hit) {
			s := stateOf[aegisState](c)
			if c.Now() < s.WardUntil {
				c.Self.Heal(h.Amount)
				h.Vetoed = true
			}
		},
	})

	register("mirror", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(200)
			if c.Ready(&s.LastCast, 2*time.Second) {
				c.Spread(c.Aim(), 5, 0.8, 220, 7)
			}
		},
		OnDamage: func(c *Context, h *world.Hit) {
			if h.Source == nil || h.Source.Hostile() || h.Vetoed {
				return
			}
			c.W.Damage(c.Player(), h.Amount*0.3, c.Self, "mirror")
		},
	})

	register("lich", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(240)
			if c.Ready(&s.LastAlt, time.Second) {
				if n := c.W.CountKind("skeleton", c.Self); n > 0 {
					c.Self.Heal(10 * float64(n))
				}
			}
			if !c.Ready(&s.LastCast, 3500*time.Millisecond) {
				return
			}
			lich := c
			for i := 0; i < 3; i++ {
				offset := c.Aim().Rotate(float64(i-1) * 2.1).Scale(40 + c.W.Rng.Float64()*40)
				c.Cast(&effect.Effect{
					Kind:     effect.Rune,
					Pos:      c.Player().Pos.Add(offset),
					Radius:   30,
					Damage:   10,
					Fuse:     1200 * time.Millisecond,
					Duration: 2 * time.Second,
					OnTrigger: func(_ effect.Host, e *effect.Effect) {
						if lich.Self.Alive() {
							lich.Summon("skeleton", e.Pos)
						}
					},
				})
			}
		},
		OnDeath: func(c *Context) {
			for _, s := range c.W.Owned(c.Self) {
				c.W.Kill(s, nil)
			}
		},
	})

	register("chronomancer", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			for _, e := range c.W.Effects.Active() {
				if e.Kind == effect.DilationField && e.Caster == c.Self && e.Overlaps(c.Self) {
					c.W.ApplyStatus(c.Self, status.Hasted, 300*time.Millisecond)
					break
				}
			}
			c.Keep(250)
			if c.Ready(&s.LastCast, 4*time.Second) {
				c.Cast(&effect.Effect{
					Kind:       effect.DilationField,
					Pos:        c.Player().Pos,
					Radius:     80,
					SlowFactor: 0.4,
					Duration:   4 * time.Second,
					LoopCue:    "dilation",
				})
			}
			if c.Ready(&s.LastAlt, 2*time.Second) {
				c.Spread(c.Aim(), 3, 0.4, 180, 8)
			}
		},
	})
}

package boss

import (
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/status"
)

// ============================================================================
// Field control archetype
// ============================================================================

type wardenState struct {
	LastShot time.Duration
}

type pillarState struct {
	LastCast time.Duration
	Raised   bool
}

type conduitState struct {
	Satellites []*entity.Actor
	LastBeam   time.Duration
	LastPulse  time.Duration
}

type voidState struct {
	LastTrail   time.Duration
	LastPhase   time.Duration
	PhasedUntil time.Duration
}

func init() {
	register("warden", &Hooks{
		NewState: func() any { return &wardenState{} },
		Init: func(c *Context) {
			c.Cast(&effect.Effect{
				Kind:            effect.ShrinkingBox,
				Pos:             c.W.Arena.Center(),
				HalfSize:        c.W.Bounds().Height / 2,
				MinHalfSize:     110,
				Growth:          6,
				DamagePerSecond: 8,
				LoopCue:         "box_hum",
			})
		},
		Logic: func(c *Context) {
			s := stateOf[wardenState](c)
			c.Chase(0.6)
			if c.Ready(&s.LastShot, 2500*time.Millisecond) {
				c.Fire(c.Aim(), 200, 10)
			}
		},
		// The box and any volleys still in flight go down with the warden.
		OnDeath: func(c *Context) {
			c.W.Effects.RemoveByCaster(c.W, c.Self)
		},
	})

	register("tidecaller", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(220)
			if c.Ready(&s.LastCast, 2*time.Second) {
				c.Cast(&effect.Effect{
					Kind:            effect.SlowZone,
					Pos:             c.Player().Pos,
					Radius:          55,
					SlowFactor:      0.5,
					DamagePerSecond: 2,
					Duration:        5 * time.Second,
				})
				c.W.Play("splash")
			}
		},
	})

	register("architect", &Hooks{
		NewState: func() any { return &pillarState{} },
		Init: func(c *Context) {
			s := stateOf[pillarState](c)
			b := c.W.Bounds()
			for _, p := range []geom.Vec2{
				geom.V(b.Width/4, b.Height/4), geom.V(3*b.Width/4, b.Height/4),
				geom.V(b.Width/4, 3*b.Height/4), geom.V(3*b.Width/4, 3*b.Height/4),
			} {
				c.W.Arena.RaisePillar(geom.RectAround(p, 20))
			}
			s.Raised = true
			c.W.Play("pillars_rise")
		},
		Logic: func(c *Context) {
			s := stateOf[pillarState](c)
			p := c.Player()
			p.Pos = c.W.Arena.Resolve(p.Pos, p.Radius)
			c.Chase(0.8)
			if c.Ready(&s.LastCast, 3*time.Second) {
				c.Nova(8, 180, 9)
			}
		},
		OnDeath: func(c *Context) {
			s := stateOf[pillarState](c)
			if s.Raised {
				c.W.Arena.ClearPillars()
				s.Raised = false
			}
		},
	})

	register("singularity", &Hooks{
		NewState: func() any { return &castState{} },
		Init: func(c *Context) {
			c.Cast(&effect.Effect{
				Kind:            effect.GravityWell,
				Anchor:          c.Self,
				Pos:             c.Self.Pos,
				Radius:          30,
				MaxRadius:       260,
				Pull:            55,
				DamagePerSecond: 6,
				LoopCue:         "well_hum",
			})
		},
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Chase(0.3)
			if c.Ready(&s.LastCast, 3*time.Second) {
				c.Cast(&effect.Effect{
					Kind:      effect.Shockwave,
					Pos:       c.Self.Pos,
					Radius:    c.Self.Radius,
					MaxRadius: 140,
					Growth:    200,
					Damage:    12,
				})
			}
		},
	})

	register("runesmith", &Hooks{
		NewState: func() any { return &castState{} },
		Logic: func(c *Context) {
			s := stateOf[castState](c)
			c.Keep(260)
			if !c.Ready(&s.LastCast, 4*time.Second) {
				return
			}
			center := c.Player().Pos
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					c.Cast(&effect.Effect{
						Kind:     effect.Rune,
						Pos:      center.Add(geom.V(float64(dx)*60, float64(dy)*60)),
						Radius:   24,
						Damage:   14,
						Fuse:     1200 * time.Millisecond,
						Duration: 1500 * time.Millisecond,
					})
				}
			}
			c.W.Play("runes")
		},
	})

	register("conduit", &Hooks{
		NewState: func() any { return &conduitState{} },
		Init: func(c *Context) {
			s := stateOf[conduitState](c)
			c.Self.Set(entity.FlagImmobile)
			pool := entity.NewPool(c.Self.InstanceID, c.Self.MaxHealth, c.Self)
			for _, off := range []geom.Vec2{geom.V(-160, 0), geom.V(160, 0)} {
				sat := c.Summon("satellite", c.Self.Pos.Add(off))
				if sat == nil {
					continue
				}
				sat.Set(entity.FlagImmobile)
				pool.Join(sat)
				s.Satellites = append(s.Satellites, sat)
			}
		},
		Logic: func(c *Context) {
			s := stateOf[conduitState](c)
			c.Stop()
			if c.Self.Pool != nil {
				c.Self.Pool.Sync()
			}
			interval := 2200 * time.Millisecond
			if c.Ready(&s.LastBeam, interval) {
				for _, sat := range s.Satellites {
					if !sat.Alive() {
						continue
					}
					to := sat.Pos.Sub(c.Self.Pos)
					c.Cast(&effect.Effect{
						Kind:            effect.Beam,
						Anchor:          c.Self,
						Pos:             c.Self.Pos,
						Dir:             to.Norm(),
						Length:          to.Len(),
						Width:           6,
						DamagePerSecond: 20,
						Duration:        interval,
					})
				}
			}
			if c.Ready(&s.LastPulse, 5*time.Second) {
				c.Cast(&effect.Effect{
					Kind:      effect.Shockwave,
					Pos:       c.Self.Pos,
					Radius:    c.Self.Radius,
					MaxRadius: 220,
					Growth:    180,
					Damage:    14,
				})
			}
		},
	})

	register("sentinel_a", &Hooks{
		NewState: func() any { return &castState{} },
		Init: func(c *Context) {
			b := c.W.Bounds()
			mirror := geom.V(b.Width-c.Self.Pos.X, b.Height-c.Self.Pos.Y)
			partner := c.SpawnBoss("sentinel_b", mirror)
			if partner == nil {
				return
			}
			entity.Link(c.Self, partner)
			entity.NewPool(c.Self.InstanceID, c.Self.MaxHealth+partner.MaxHealth, c.Self, partner)
		},
		Logic: sentinelLogic,
	})
	register("sentinel_b", &Hooks{
		NewState: func() any { return &castState{} },
		Logic:    sentinelLogic,
	})

	register("voidwalker", &Hooks{
		NewState: func() any { return &voidState{} },
		Logic: func(c *Context) {
			s := stateOf[voidState](c)
			if c.Self.Has(entity.FlagUntargetable) && c.Now() >= s.PhasedUntil {
				c.Self.Clear(entity.FlagUntargetable)
			}
			c.Chase(1)
			if c.Ready(&s.LastTrail, 400*time.Millisecond) {
				c.Cast(&effect.Effect{
					Kind:       effect.SlowZone,
					Pos:        c.Self.Pos,
					Radius:     26,
					SlowFactor: 0.6,
					Duration:   3 * time.Second,
				})
			}
			if c.Ready(&s.LastPhase, 6*time.Second) {
				s.PhasedUntil = c.Now() + time.Second
				c.Self.Set(entity.FlagUntargetable)
				c.W.ApplyStatus(c.Self, status.Phased, time.Second)
				c.W.Play("phase_out")
			}
		},
	})
}

func sentinelLogic(c *Context) {
	s := stateOf[castState](c)
	c.Keep(260)
	if c.Ready(&s.LastCast, 2*time.Second) {
		c.Spread(c.Aim(), 2, 0.3, 230, 9)
	}
	if c.Self.Pool != nil {
		c.Self.Pool.Sync()
	}
}

package boss

import (
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/status"
	"github.com/samdwyer/arenacore/internal/world"
)

// ============================================================================
// Aggressor archetype
// ============================================================================

const (
	chargeInterval  = 3500 * time.Millisecond
	chargeTelegraph = time.Second
	dashTime        = 450 * time.Millisecond
	dashSpeed       = 420.0
)

type chargeState struct {
	LastCharge time.Duration
	Charging   bool
	DashUntil  time.Duration
}

type rageState struct {
	Rage Once
}

type twinState struct {
	LastVolley time.Duration
	Enraged    Once
}

type strikeState struct {
	LastStrike time.Duration
	BusyUntil  time.Duration
}

type juggernautState struct {
	DashUntil time.Duration
}

// dash launches the actor toward target for dashTime.
func dash(c *Context, target geom.Vec2, until *time.Duration) {
	dir := target.Sub(c.Self.Pos).Norm()
	if dir.IsZero() {
		dir = c.Self.Facing
	}
	c.Self.Facing = dir
	c.Self.Vel = dir.Scale(dashSpeed)
	*until = c.Now() + dashTime
	c.W.Play("dash")
}

func twinLogic(c *Context) {
	s := stateOf[twinState](c)
	if c.Self.Partner != nil && !c.Self.Partner.Alive() && s.Enraged.Fire() {
		c.Enrage(1.5, 1.5)
		c.W.Notify(c.Self.Name + " is enraged!")
	}
	offset := geom.V(60, 0)
	if c.Self.Kind == "twin_luna" {
		offset = geom.V(-60, 0)
	}
	c.W.Steer(c.Self, c.Player().Pos.Add(offset), c.Self.Speed)
	interval := 2600 * time.Millisecond
	if c.Self.Has(entity.FlagEnraged) {
		interval = 1600 * time.Millisecond
	}
	if c.Ready(&s.LastVolley, interval) {
		c.Spread(c.Aim(), 3, 0.5, 260, 8)
	}
}

func init() {
	register("charger", &Hooks{
		NewState: func() any { return &chargeState{} },
		Logic: func(c *Context) {
			s := stateOf[chargeState](c)
			if c.Now() < s.DashUntil {
				return
			}
			if s.Charging {
				c.Stop()
				return
			}
			c.Chase(0.8)
			if c.Ready(&s.LastCharge, chargeInterval) {
				s.Charging = true
				c.Stop()
				aim := c.Player().Pos
				c.W.Play("charge_telegraph")
				c.After(chargeTelegraph, func(c *Context) {
					s := stateOf[chargeState](c)
					s.Charging = false
					dash(c, aim, &s.DashUntil)
				})
			}
		},
	})

	register("berserker", &Hooks{
		NewState: func() any { return &rageState{} },
		Logic: func(c *Context) {
			s := stateOf[rageState](c)
			if c.Self.HealthFraction() < 0.5 && s.Rage.Fire() {
				c.Enrage(1.6, 1.5)
				c.W.Notify("The Berserker enrages!")
			}
			c.Chase(1)
		},
	})

	register("twin_sol", &Hooks{
		NewState: func() any { return &twinState{} },
		Init: func(c *Context) {
			luna := c.SpawnBoss("twin_luna", c.Self.Pos.Add(geom.V(-80, 0)))
			if luna != nil {
				entity.Link(c.Self, luna)
			}
		},
		Logic: twinLogic,
	})
	register("twin_luna", &Hooks{
		NewState: func() any { return &twinState{} },
		Logic:    twinLogic,
	})

	register("blademaster", &Hooks{
		NewState: func() any { return &strikeState{} },
		Logic: func(c *Context) {
			s := stateOf[strikeState](c)
			if c.Now() < s.BusyUntil {
				c.Stop()
				return
			}
			c.Chase(1.1)
			if c.Player().Pos.Dist(c.Self.Pos) < 160 && c.Ready(&s.LastStrike, 2800*time.Millisecond) {
				s.BusyUntil = c.Now() + 700*time.Millisecond
				c.Stop()
				c.Cast(&effect.Effect{
					Kind:     effect.Cone,
					Pos:      c.Self.Pos,
					Dir:      c.Aim(),
					Radius:   120,
					Width:    0.6,
					Damage:   18,
					Fuse:     700 * time.Millisecond,
					Duration: time.Second,
				})
			}
		},
	})

	register("ravager", &Hooks{
		NewState: func() any { return &strikeState{} },
		Logic: func(c *Context) {
			s := stateOf[strikeState](c)
			c.Chase(0.9)
			interval := 2500 * time.Millisecond
			if c.Self.HealthFraction() < 0.4 {
				interval = 1400 * time.Millisecond
			}
			if c.Ready(&s.LastStrike, interval) {
				c.Cast(&effect.Effect{
					Kind:      effect.Shockwave,
					Pos:       c.Self.Pos,
					Radius:    c.Self.Radius,
					MaxRadius: 180,
					Growth:    260,
					Damage:    16,
				})
				c.W.Play("stomp")
			}
		},
	})

	register("lancer", &Hooks{
		NewState: func() any { return &strikeState{} },
		Logic: func(c *Context) {
			s := stateOf[strikeState](c)
			if c.Now() < s.BusyUntil {
				c.Stop()
				return
			}
			c.Keep(180)
			if c.Ready(&s.LastStrike, 3*time.Second) {
				s.BusyUntil = c.Now() + time.Second
				c.Cast(&effect.Effect{
					Kind:     effect.Beam,
					Anchor:   c.Self,
					Pos:      c.Self.Pos,
					Dir:      c.Aim(),
					Length:   420,
					Width:    8,
					Damage:   20,
					Fuse:     400 * time.Millisecond,
					Duration: time.Second,
					LoopCue:  "beam_hum",
				})
			}
		},
	})

	register("juggernaut", &Hooks{
		NewState: func() any { return &juggernautState{} },
		Logic: func(c *Context) {
			s := stateOf[juggernautState](c)
			for _, name := range []string{status.Stunned, status.Frozen, status.Petrified} {
				c.Self.Status.Remove(name)
			}
			c.Self.Status.StunnedUntil = 0
			c.Self.Clear(entity.FlagFrozen | entity.FlagPetrified)
			if c.Now() < s.DashUntil {
				return
			}
			if c.Self.Status.Count(status.Frenzy) >= 3 {
				c.Self.Status.Remove(status.Frenzy)
				dash(c, c.Player().Pos, &s.DashUntil)
				return
			}
			c.Chase(1)
		},
		OnDamage: func(c *Context, h *world.Hit) {
			c.W.ApplyStatus(c.Self, status.Frenzy, 4*time.Second)
		},
	})
}

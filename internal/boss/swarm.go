package boss

import (
	"math"
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// ============================================================================
// Swarm archetype
// ============================================================================

const (
	splitterWave      = 6
	splitterInner     = 60.0
	splitterOuter     = 110.0
	splitterWaveDelay = 250 * time.Millisecond
)

type spawnerState struct {
	LastSpawn time.Duration
}

type broodState struct {
	Phaser *Phaser
}

type fractalState struct {
	Shards []*entity.Actor
}

func init() {
	register("splitter", &Hooks{
		Logic: func(c *Context) { c.Chase(1) },
		OnDeath: func(c *Context) {
			c.SummonRing("minion", splitterWave, splitterInner)
			// Unowned: tasks owned by a dead actor are dropped.
			self, reg := c.Self, c.reg
			c.W.After(splitterWaveDelay, nil, func(w *world.World) {
				next := &Context{W: w, Self: self, reg: reg}
				next.SummonRing("minion", splitterWave, splitterOuter)
			})
		},
	})

	register("spore_mother", &Hooks{
		NewState: func() any { return &spawnerState{} },
		Logic: func(c *Context) {
			s := stateOf[spawnerState](c)
			c.Chase(0.6)
			if c.Ready(&s.LastSpawn, 2200*time.Millisecond) {
				phase := c.W.Rng.Float64() * 2 * math.Pi
				for i := 0; i < 3; i++ {
					c.Summon("spore", c.Self.Pos.Add(geom.FromAngle(phase+float64(i)*2*math.Pi/3).Scale(c.Self.Radius+10)))
				}
				c.W.Play("spore_release")
			}
		},
	})

	register("hive_queen", &Hooks{
		NewState: func() any { return &spawnerState{} },
		Logic: func(c *Context) {
			s := stateOf[spawnerState](c)
			c.Keep(200)
			if c.Ready(&s.LastSpawn, 3*time.Second) {
				for i := 0; i < 2 && c.W.CountKind("drone", c.Self) < 8; i++ {
					c.Summon("drone", c.Self.Pos.Add(geom.FromAngle(float64(i)*math.Pi).Scale(30)))
				}
			}
		},
		OnDamage: func(c *Context, h *world.Hit) {
			if c.W.CountKind("drone", c.Self) >= 4 {
				h.Amount *= 0.5
			}
		},
		OnDeath: func(c *Context) {
			for _, d := range c.W.Owned(c.Self) {
				c.W.Kill(d, nil)
			}
		},
	})

	register("fractal", &Hooks{
		NewState: func() any { return &fractalState{} },
		Init: func(c *Context) {
			s := stateOf[fractalState](c)
			pool := entity.NewPool(c.Self.InstanceID, c.Self.MaxHealth, c.Self)
			for i, shard := range c.SummonRing("shard_mote", 3, 70) {
				if o, ok := shard.State.(*orbitState); ok {
					o.Angle = float64(i) * 2 * math.Pi / 3
				}
				pool.Join(shard)
				s.Shards = append(s.Shards, shard)
			}
		},
		Logic: func(c *Context) {
			c.Chase(1)
			if c.Self.Pool != nil {
				c.Self.Pool.Sync()
			}
		},
	})

	register("broodmaw", &Hooks{
		NewState: func() any { return &broodState{Phaser: NewPhaser(0.75, 0.5, 0.25)} },
		Logic: func(c *Context) {
			s := stateOf[broodState](c)
			if s.Phaser == nil {
				s.Phaser = NewPhaser(0.75, 0.5, 0.25)
			}
			c.Chase(0.9)
			for n := s.Phaser.Check(c.Self.HealthFraction()); n > 0; n-- {
				c.SummonRing("minion", 5, 50)
				c.W.Play("brood_wave")
			}
		},
	})

	register("puppeteer", &Hooks{
		NewState: func() any { return &spawnerState{} },
		Init: func(c *Context) {
			c.SummonRing("puppet", 3, 60)
		},
		Logic: func(c *Context) {
			s := stateOf[spawnerState](c)
			c.Keep(220)
			if c.Ready(&s.LastSpawn, 5*time.Second) {
				for c.W.CountKind("puppet", c.Self) < 3 {
					if c.Summon("puppet", c.Self.Pos.Add(c.Aim().Scale(40))) == nil {
						break
					}
				}
			}
		},
		OnDamage: func(c *Context, h *world.Hit) {
			if c.W.CountKind("puppet", c.Self) > 0 {
				h.Amount *= 0.25
			}
		},
		OnDeath: func(c *Context) {
			for _, p := range c.W.Owned(c.Self) {
				c.W.Kill(p, nil)
			}
		},
	})
}

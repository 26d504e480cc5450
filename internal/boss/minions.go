package boss

import (
	"math"
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// minionKinds are the summoned, non-boss behaviours.
var minionKinds = []string{"minion", "drone", "spore", "puppet", "skeleton", "shard_mote", "satellite"}

// target returns whom a summoned actor goes after: the player for hostile summons,
// the nearest enemy for friendly ones.
func (c *Context) target() *entity.Actor {
	if c.Self.Hostile() {
		return c.Player()
	}
	return c.W.NearestEnemy(c.Self.Pos, math.Inf(1))
}

// pursue steers toward the current target, or stops when there is none.
func pursue(c *Context) {
	t := c.target()
	if !t.Alive() {
		c.Stop()
		return
	}
	c.W.Steer(c.Self, t.Pos, c.Self.Speed)
}

type orbitState struct {
	Angle float64
}

func init() {
	register("minion", &Hooks{Logic: pursue})
	register("puppet", &Hooks{Logic: pursue})
	register("skeleton", &Hooks{Logic: pursue})
	register("satellite", &Hooks{Logic: func(c *Context) { c.Stop() }})

	register("drone", &Hooks{
		NewState: func() any { return &orbitState{} },
		Logic: func(c *Context) {
			s := stateOf[orbitState](c)
			t := c.target()
			if t.Alive() && t.Pos.Dist(c.Self.Pos) < 160 || !c.Self.Owner.Alive() {
				pursue(c)
				return
			}
			s.Angle += 2 * c.W.Delta().Seconds()
			c.W.Steer(c.Self, c.Self.Owner.Pos.Add(geom.FromAngle(s.Angle).Scale(50)), c.Self.Speed)
		},
	})

	register("spore", &Hooks{
		Logic: func(c *Context) {
			c.W.Steer(c.Self, c.Player().Pos, c.Self.Speed)
		},
		OnCollision: func(c *Context, other *entity.Actor) {
			if other.IsPlayer() {
				c.W.Damage(other, c.Self.ContactDamage, c.Self, "spore")
				c.W.Kill(c.Self, nil)
			}
		},
		OnDeath: func(c *Context) {
			c.Cast(&effect.Effect{
				Kind:       effect.SlowZone,
				Pos:        c.Self.Pos,
				Radius:     45,
				SlowFactor: 0.5,
				Duration:   3 * time.Second,
			})
		},
	})

	register("shard_mote", &Hooks{
		NewState: func() any { return &orbitState{} },
		Logic: func(c *Context) {
			s := stateOf[orbitState](c)
			owner := c.Self.Owner
			if !owner.Alive() {
				pursue(c)
				return
			}
			s.Angle += 1.4 * c.W.Delta().Seconds()
			c.W.Steer(c.Self, owner.Pos.Add(geom.FromAngle(s.Angle).Scale(70)), c.Self.Speed)
		},
	})
}

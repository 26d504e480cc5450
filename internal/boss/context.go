package boss

import (
	"math"
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// Context is handed to every hook. State is the behaviour state the hook must use:
// the actor's own, or an aspect's isolated copy when a composite borrows the hook.
type Context struct {
	W     *world.World
	Self  *entity.Actor
	State any

	reg *Registry
}

// stateOf returns the context's state as *T. A mismatched state yields a throwaway
// zero value so a hook never panics on a foreign bag.
func stateOf[T any](c *Context) *T {
	if s, ok := c.State.(*T); ok {
		return s
	}
	s := new(T)
	c.State = s
	return s
}

// Now returns the current simulation time.
func (c *Context) Now() time.Duration { return c.W.Now() }

// Player returns the player actor.
func (c *Context) Player() *entity.Actor { return c.W.Player() }

// Ready reports whether more than interval has passed since *last and, if so,
// stamps *last with now.
func (c *Context) Ready(last *time.Duration, interval time.Duration) bool {
	if !c.W.Elapsed(*last, interval) {
		return false
	}
	*last = c.Now()
	return true
}

// Chase steers toward the player at the actor's speed scaled by mult.
func (c *Context) Chase(mult float64) {
	c.W.Steer(c.Self, c.Player().Pos, c.Self.Speed*mult)
}

// Keep maintains a preferred distance from the player.
func (c *Context) Keep(dist float64) {
	to := c.Player().Pos.Sub(c.Self.Pos)
	d := to.Len()
	switch {
	case d < dist*0.8:
		c.W.Steer(c.Self, c.Self.Pos.Sub(to), c.Self.Speed)
	case d > dist*1.2:
		c.W.Steer(c.Self, c.Player().Pos, c.Self.Speed)
	default:
		c.Self.Vel = to.Norm().Rotate(math.Pi / 2).Scale(c.Self.Speed * 0.6)
		c.Self.Facing = to.Norm()
	}
}

// Aim returns the unit direction from the actor to the player.
func (c *Context) Aim() geom.Vec2 {
	dir := c.Player().Pos.Sub(c.Self.Pos).Norm()
	if dir.IsZero() {
		return c.Self.Facing
	}
	return dir
}

// side reports whether effects cast by this actor belong to the player's side.
func (c *Context) side() bool { return c.Self.Has(entity.FlagFriendly) }

// Fire launches a projectile from the actor in direction dir.
func (c *Context) Fire(dir geom.Vec2, speed, damage float64) *effect.Effect {
	e := &effect.Effect{
		Kind:     effect.Projectile,
		Caster:   c.Self,
		Friendly: c.side(),
		Pos:      c.Self.Pos.Add(dir.Scale(c.Self.Radius)),
		Vel:      dir.Norm().Scale(speed),
		Radius:   5,
		Damage:   damage,
		Color:    c.Self.Color,
		Duration: 6 * time.Second,
	}
	c.W.AddEffect(e)
	return e
}

// Spread fires n projectiles fanned across arc radians around dir.
func (c *Context) Spread(dir geom.Vec2, n int, arc, speed, damage float64) {
	if n == 1 {
		c.Fire(dir, speed, damage)
		return
	}
	start := -arc / 2
	step := arc / float64(n-1)
	for i := 0; i < n; i++ {
		c.Fire(dir.Rotate(start+step*float64(i)), speed, damage)
	}
}

// Nova fires n projectiles evenly around the actor.
func (c *Context) Nova(n int, speed, damage float64) {
	for _, p := range geom.Ring(geom.Vec2{}, 1, n, 0) {
		c.Fire(p, speed, damage)
	}
}

// Cast adds an effect owned by this actor's side.
func (c *Context) Cast(e *effect.Effect) *effect.Effect {
	if e.Caster == nil {
		e.Caster = c.Self
	}
	e.Friendly = c.side()
	if e.Color == "" {
		e.Color = c.Self.Color
	}
	c.W.AddEffect(e)
	return e
}

// Summon spawns a minion owned by the actor. Failures are logged and yield nil.
func (c *Context) Summon(kind string, pos geom.Vec2) *entity.Actor {
	a, err := c.reg.SpawnMinion(c.W, kind, pos, c.Self)
	if err != nil {
		c.reg.logger.Printf("summon from %s: %v", c.Self.Kind, err)
		return nil
	}
	return a
}

// SummonRing spawns n minions evenly spaced at radius r around the actor.
func (c *Context) SummonRing(kind string, n int, r float64) []*entity.Actor {
	var out []*entity.Actor
	for _, p := range geom.Ring(c.Self.Pos, r, n, 0) {
		if a := c.Summon(kind, p); a != nil {
			out = append(out, a)
		}
	}
	return out
}

// SpawnBoss spawns another boss definition, for paired and composite encounters.
func (c *Context) SpawnBoss(id string, pos geom.Vec2) *entity.Actor {
	a, err := c.reg.Spawn(c.W, id, pos)
	if err != nil {
		c.reg.logger.Printf("spawn from %s: %v", c.Self.Kind, err)
		return nil
	}
	return a
}

// After schedules a continuation. It is dropped if the actor dies first, and it
// receives the same state the scheduling hook saw.
func (c *Context) After(delay time.Duration, fn func(c *Context)) {
	self, state, reg := c.Self, c.State, c.reg
	c.W.After(delay, self, func(w *world.World) {
		fn(&Context{W: w, Self: self, State: state, reg: reg})
	})
}

// Enrage flags the actor enraged and scales speed and contact damage. It applies once.
func (c *Context) Enrage(speed, contact float64) bool {
	if c.Self.Has(entity.FlagEnraged) {
		return false
	}
	c.Self.Set(entity.FlagEnraged)
	c.Self.Speed *= speed
	c.Self.ContactDamage *= contact
	c.W.Play("enrage")
	return true
}

// Blink moves the actor to p, resolving pillars and bounds.
func (c *Context) Blink(p geom.Vec2) {
	c.Self.Pos = c.W.Arena.Resolve(p, c.Self.Radius)
	c.Self.Vel = geom.Vec2{}
}

// Stop halts the actor for this tick.
func (c *Context) Stop() { c.Self.Vel = geom.Vec2{} }

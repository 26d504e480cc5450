package effect

import (
	"slices"
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// Host is the slice of the world an effect needs while it advances.
type Host interface {
	Now() time.Duration
	Delta() time.Duration
	Player() *entity.Actor
	// Enemies returns the targetable hostile actors.
	Enemies() []*entity.Actor
	// Allies returns the targetable player-side actors, the player included.
	Allies() []*entity.Actor
	Damage(target *entity.Actor, amount float64, source *entity.Actor, cause string) float64
	ApplyStatus(target *entity.Actor, name string, d time.Duration)
	Bounds() geom.Rect
	StartLoop(cue string) int
	StopLoop(handle int)
}

// Engine owns the active effects and advances them once per tick.
type Engine struct {
	effects []*Effect
	nextID  uint64
}

// NewEngine creates an empty effect engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Spawn registers an effect, stamps its start time and acquires its looping cue.
func (g *Engine) Spawn(h Host, e *Effect) uint64 {
	g.nextID++
	e.ID = g.nextID
	now := h.Now()
	if e.Start == 0 {
		e.Start = now
	}
	if e.End == 0 && e.Duration > 0 {
		e.End = e.Start + e.Duration
	}
	if e.Kind == Projectile && e.Radius == 0 {
		e.Radius = 5
	}
	if e.LoopCue != "" {
		e.loop = h.StartLoop(e.LoopCue)
	}
	g.effects = append(g.effects, e)
	return e.ID
}

// Active returns the live effects in spawn order. The slice must not be retained.
func (g *Engine) Active() []*Effect {
	return g.effects
}

// Count returns the number of live effects.
func (g *Engine) Count() int { return len(g.effects) }

// Get returns the effect with the given id, or nil.
func (g *Engine) Get(id uint64) *Effect {
	for _, e := range g.effects {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Advance runs one tick: for every effect the end condition is checked exactly once
// before any further mutation, then the kind update and collisions run. Effects
// spawned or removed by hooks during the tick do not shift the iteration.
func (g *Engine) Advance(h Host) {
	now := h.Now()
	dt := h.Delta().Seconds()
	live := slices.Clone(g.effects)
	for i := len(live) - 1; i >= 0; i-- {
		e := live[i]
		if e.removed {
			continue
		}
		if e.finished(now) {
			g.retire(h, e)
			continue
		}
		g.update(h, e, dt, now)
		g.collide(h, e, dt, now)
		if !e.removed && e.finished(now) {
			g.retire(h, e)
		}
	}
}

// RemoveWhere retires every effect matching pred and returns how many were removed.
func (g *Engine) RemoveWhere(h Host, pred func(*Effect) bool) int {
	n := 0
	for i := len(g.effects) - 1; i >= 0; i-- {
		if pred(g.effects[i]) {
			g.removeAt(h, i)
			n++
		}
	}
	return n
}

// RemoveByCaster retires every effect cast by a.
func (g *Engine) RemoveByCaster(h Host, a *entity.Actor) int {
	return g.RemoveWhere(h, func(e *Effect) bool { return e.Caster == a || e.Anchor == a })
}

// Clear retires all effects, releasing their looping cues.
func (g *Engine) Clear(h Host) {
	for i := len(g.effects) - 1; i >= 0; i-- {
		g.removeAt(h, i)
	}
}

func (g *Engine) retire(h Host, e *Effect) {
	g.removeAt(h, slices.Index(g.effects, e))
}

func (g *Engine) removeAt(h Host, i int) {
	if i < 0 || i >= len(g.effects) {
		return
	}
	e := g.effects[i]
	g.effects = append(g.effects[:i], g.effects[i+1:]...)
	if e.removed {
		return
	}
	e.removed = true
	if e.loop != 0 {
		h.StopLoop(e.loop)
		e.loop = 0
	}
	if e.OnExpire != nil {
		e.OnExpire(h, e)
	}
}

// SpeedFactor returns the product of every slow zone and dilation field that opposes
// the actor and overlaps it. Overlapping fields stack multiplicatively.
func (g *Engine) SpeedFactor(a *entity.Actor, now time.Duration) float64 {
	f := 1.0
	for _, e := range g.effects {
		if e.Kind != SlowZone && e.Kind != DilationField {
			continue
		}
		if e.removed || (e.End > 0 && now >= e.End) || !e.Opposes(a) || !e.Overlaps(a) {
			continue
		}
		if e.SlowFactor > 0 {
			f *= e.SlowFactor
		}
	}
	return f
}

// dilation returns the time factor applied to a projectile by opposing dilation fields.
func (g *Engine) dilation(p *Effect, now time.Duration) float64 {
	f := 1.0
	for _, e := range g.effects {
		if e.Kind != DilationField || e.removed || e.Friendly == p.Friendly {
			continue
		}
		if e.End > 0 && now >= e.End {
			continue
		}
		if geom.CirclesOverlap(e.Pos, e.Radius, p.Pos, p.Radius) && e.SlowFactor > 0 {
			f *= e.SlowFactor
		}
	}
	return f
}

// targets returns the actors an effect may hit.
func targets(h Host, e *Effect) []*entity.Actor {
	if e.Friendly {
		return h.Enemies()
	}
	return h.Allies()
}

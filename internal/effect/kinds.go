package effect

import (
	"math"
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// shockwaveBand is the thickness of a shockwave's damaging ring.
const shockwaveBand = 14.0

// ============================================================================
// Update
// ============================================================================

func (g *Engine) update(h Host, e *Effect, dt float64, now time.Duration) {
	if e.Anchor != nil {
		if !e.Anchor.Alive() {
			e.Triggered = true
			return
		}
		e.Pos = e.Anchor.Pos
	}

	switch e.Kind {
	case Projectile:
		f := g.dilation(e, now)
		e.Pos = e.Pos.Add(e.Vel.Scale(dt * f))
		if !h.Bounds().Contains(e.Pos) {
			e.Triggered = true
			return
		}
		g.reflect(h, e, now)
	case Shockwave:
		e.Radius += e.Growth * dt
		if e.MaxRadius > 0 && e.Radius > e.MaxRadius {
			e.Radius = e.MaxRadius
		}
	case ChainLightning:
		if !e.resolved {
			e.resolved = true
			resolveChain(h, e)
		}
	case Beam:
		if e.Live(now) && e.Spin != 0 {
			e.Dir = e.Dir.Rotate(e.Spin * dt)
		}
	case ShrinkingBox:
		e.HalfSize -= e.Growth * dt
		if e.HalfSize < e.MinHalfSize {
			e.HalfSize = e.MinHalfSize
		}
	case Cone:
		if e.Live(now) && !e.resolved {
			e.resolved = true
			resolveCone(h, e)
			e.Triggered = true
			if e.OnTrigger != nil {
				e.OnTrigger(h, e)
			}
		}
	case Rune:
		if e.Live(now) && !e.resolved {
			e.resolved = true
			for _, t := range targets(h, e) {
				if e.Overlaps(t) && e.strike(t) {
					g.hit(h, e, t, e.Damage)
				}
			}
			e.Triggered = true
			if e.OnTrigger != nil {
				e.OnTrigger(h, e)
			}
		}
	}
}

// ============================================================================
// Collision
// ============================================================================

func (g *Engine) collide(h Host, e *Effect, dt float64, now time.Duration) {
	if e.Triggered && e.Kind != Projectile {
		return
	}
	switch e.Kind {
	case Projectile:
		if e.Triggered {
			return
		}
		for _, t := range targets(h, e) {
			if !e.Overlaps(t) || !e.strike(t) {
				continue
			}
			g.hit(h, e, t, e.Damage)
			if !e.Pierce {
				e.Triggered = true
				return
			}
		}
	case Shockwave:
		for _, t := range targets(h, e) {
			d := t.Pos.Dist(e.Pos)
			if d > e.Radius+t.Radius || d < e.Radius-shockwaveBand-t.Radius {
				continue
			}
			if e.strike(t) {
				g.hit(h, e, t, e.Damage)
			}
		}
	case SlowZone, DilationField:
		if e.DamagePerSecond <= 0 {
			return
		}
		for _, t := range targets(h, e) {
			if e.Overlaps(t) {
				h.Damage(t, e.DamagePerSecond*dt, e.Caster, e.Kind.String())
			}
		}
	case Beam:
		if !e.Live(now) {
			return
		}
		tip := e.Pos.Add(e.Dir.Norm().Scale(e.Length))
		for _, t := range targets(h, e) {
			if geom.SegmentDist(t.Pos, e.Pos, tip) > e.Width+t.Radius {
				continue
			}
			if e.Damage > 0 && e.strike(t) {
				g.hit(h, e, t, e.Damage)
			}
			if e.DamagePerSecond > 0 {
				h.Damage(t, e.DamagePerSecond*dt, e.Caster, e.Kind.String())
			}
		}
	case ShrinkingBox:
		box := geom.RectAround(e.Pos, e.HalfSize)
		for _, t := range targets(h, e) {
			if !box.Contains(t.Pos) {
				h.Damage(t, e.DamagePerSecond*dt, e.Caster, e.Kind.String())
			}
		}
	case GravityWell:
		bounds := h.Bounds()
		for _, t := range targets(h, e) {
			d := t.Pos.Dist(e.Pos)
			if d > e.MaxRadius || d == 0 {
				continue
			}
			if !t.Has(entity.FlagImmobile) {
				step := math.Min(e.Pull*dt, d)
				t.Pos = bounds.Clamp(t.Pos.Add(e.Pos.Sub(t.Pos).Norm().Scale(step)), t.Radius)
			}
			if d <= e.Radius+t.Radius && e.DamagePerSecond > 0 {
				h.Damage(t, e.DamagePerSecond*dt, e.Caster, e.Kind.String())
			}
		}
	}
}

// hit applies one-time damage plus the effect's status payload.
func (g *Engine) hit(h Host, e *Effect, t *entity.Actor, amount float64) {
	if amount > 0 {
		h.Damage(t, amount, e.Caster, e.Kind.String())
	}
	if e.Status != "" && t.Alive() {
		h.ApplyStatus(t, e.Status, e.StatusDur)
	}
	if e.OnHit != nil {
		e.OnHit(h, e, t)
	}
}

// resolveCone damages every target inside the cone once.
func resolveCone(h Host, e *Effect) {
	facing := e.Dir.Angle()
	for _, t := range targets(h, e) {
		d := t.Pos.Dist(e.Pos)
		if d > e.Radius+t.Radius {
			continue
		}
		if d > t.Radius && geom.AngleDiff(t.Pos.Sub(e.Pos).Angle(), facing) > e.Width {
			continue
		}
		if e.strike(t) {
			if e.Damage > 0 {
				h.Damage(t, e.Damage, e.Caster, e.Kind.String())
			}
			if e.Status != "" && t.Alive() {
				h.ApplyStatus(t, e.Status, e.StatusDur)
			}
			if e.OnHit != nil {
				e.OnHit(h, e, t)
			}
		}
	}
}

// resolveChain walks from the origin to the nearest unstruck target in range,
// scaling damage by the falloff at every jump.
func resolveChain(h Host, e *Effect) {
	from := e.Pos
	dmg := e.Damage
	e.Chain = append(e.Chain[:0], from)
	jumps := e.Jumps
	if jumps <= 0 {
		jumps = 1
	}
	for i := 0; i < jumps; i++ {
		var best *entity.Actor
		bestDist := e.JumpRange
		for _, t := range targets(h, e) {
			if e.Struck[t] {
				continue
			}
			if d := t.Pos.Dist(from); d <= bestDist {
				best, bestDist = t, d
			}
		}
		if best == nil {
			break
		}
		e.strike(best)
		h.Damage(best, dmg, e.Caster, e.Kind.String())
		if e.Status != "" && best.Alive() {
			h.ApplyStatus(best, e.Status, e.StatusDur)
		}
		if e.OnHit != nil {
			e.OnHit(h, e, best)
		}
		from = best.Pos
		e.Chain = append(e.Chain, from)
		if e.Falloff > 0 {
			dmg *= e.Falloff
		}
	}
}

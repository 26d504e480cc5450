package effect

import (
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
)

// reflect turns a projectile around when it meets an active ward of the opposing side.
// A projectile reflects at most once.
func (g *Engine) reflect(h Host, p *Effect, now time.Duration) {
	if p.Reflected {
		return
	}
	for _, w := range g.effects {
		if w.Kind != Ward || w.removed || w.Friendly == p.Friendly || w.Triggered {
			continue
		}
		if w.End > 0 && now >= w.End {
			continue
		}
		if !w.Overlaps(&entity.Actor{Pos: p.Pos, Radius: p.Radius}) {
			continue
		}
		Reflect(h, p)
		return
	}
}

// Reflect flips a projectile to the other side and aims it at the nearest target,
// or straight back when there is none.
func Reflect(h Host, p *Effect) {
	if p.Reflected {
		return
	}
	p.Reflected = true
	p.Friendly = !p.Friendly
	p.Caster = nil
	p.Struck = nil
	speed := p.Vel.Len()
	var best *entity.Actor
	bestDist := 0.0
	for _, t := range targets(h, p) {
		d := t.Pos.Dist(p.Pos)
		if best == nil || d < bestDist {
			best, bestDist = t, d
		}
	}
	if best != nil && bestDist > 0 {
		p.Vel = best.Pos.Sub(p.Pos).Norm().Scale(speed)
		return
	}
	p.Vel = p.Vel.Scale(-1)
}

// Package effect owns the timed area, projectile and beam effects of the arena.
package effect

import (
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// Kind discriminates the effect variants.
type Kind int

const (
	Projectile Kind = iota
	Shockwave
	ChainLightning
	SlowZone
	DilationField
	Beam
	Cone
	ShrinkingBox
	Rune
	GravityWell
	Ward
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case Projectile:
		return "projectile"
	case Shockwave:
		return "shockwave"
	case ChainLightning:
		return "chain_lightning"
	case SlowZone:
		return "slow_zone"
	case DilationField:
		return "dilation_field"
	case Beam:
		return "beam"
	case Cone:
		return "cone"
	case ShrinkingBox:
		return "shrinking_box"
	case Rune:
		return "rune"
	case GravityWell:
		return "gravity_well"
	case Ward:
		return "ward"
	default:
		return "unknown"
	}
}

// Effect is a timed world object. Which payload fields matter depends on Kind.
type Effect struct {
	ID       uint64
	Kind     Kind
	Caster   *entity.Actor // nil for reflected or environmental effects
	Friendly bool          // Owned by the player's side

	Pos       geom.Vec2
	Vel       geom.Vec2
	Radius    float64
	MaxRadius float64 // Shockwaves end on reaching it; wells pull within it
	Growth    float64 // Radius change per second (shockwave grow, box shrink)

	Start    time.Duration
	End      time.Duration // Zero means no time limit
	Duration time.Duration // Used to derive End when End is zero
	Fuse     time.Duration // Delay before a cone, rune or beam becomes live

	Damage          float64 // One-time hit damage
	DamagePerSecond float64 // Continuous damage (boxes, wells, zones)
	Color           string

	SlowFactor float64 // Speed multiplier for slow zones and dilation fields
	Status     string  // Status applied on hit
	StatusDur  time.Duration

	Dir    geom.Vec2 // Beam and cone direction
	Spin   float64   // Beam angular velocity in radians per second
	Length float64   // Beam length
	Width  float64   // Beam half width, or cone half angle in radians

	Anchor *entity.Actor // Followed while alive; the effect ends when it dies

	Jumps     int     // Chain lightning jump count
	JumpRange float64 // Chain lightning jump distance
	Falloff   float64 // Damage multiplier per jump
	Chain     []geom.Vec2

	HalfSize    float64 // Shrinking box half extent
	MinHalfSize float64

	Pull   float64 // Gravity well pull speed
	Pierce bool    // Projectile keeps going after a hit

	Reflected bool // A reflected projectile can never be reflected again
	Triggered bool // One-shot resolution happened

	// Struck records targets already hit, keyed by actor identity.
	Struck map[*entity.Actor]bool

	LoopCue string

	// OnTrigger runs once when a one-shot effect resolves (cone, rune).
	OnTrigger func(h Host, e *Effect)
	// OnHit runs after damage is applied to a target.
	OnHit func(h Host, e *Effect, target *entity.Actor)
	// OnExpire runs once when the effect is removed for any reason.
	OnExpire func(h Host, e *Effect)

	loop     int
	resolved bool
	removed  bool
}

// Style is the per-kind rendering hint handed to the rendering layer.
type Style struct {
	Color  string
	Radius float64
	Glyph  rune
}

// Style returns the rendering hint for the effect.
func (e *Effect) Style() Style {
	glyph := '*'
	switch e.Kind {
	case Projectile:
		glyph = 'o'
		if e.Friendly {
			glyph = '.'
		}
	case Shockwave:
		glyph = 'O'
	case ChainLightning:
		glyph = '~'
	case SlowZone:
		glyph = ':'
	case DilationField:
		glyph = '%'
	case Beam:
		glyph = '='
	case Cone:
		glyph = 'v'
	case ShrinkingBox:
		glyph = '#'
	case Rune:
		glyph = '+'
	case GravityWell:
		glyph = '@'
	case Ward:
		glyph = ')'
	}
	r := e.Radius
	if e.Kind == ShrinkingBox {
		r = e.HalfSize
	}
	return Style{Color: e.Color, Radius: r, Glyph: glyph}
}

// Live reports whether a fused effect has armed.
func (e *Effect) Live(now time.Duration) bool {
	return now >= e.Start+e.Fuse
}

// Opposes reports whether the effect works against the actor's side.
func (e *Effect) Opposes(a *entity.Actor) bool {
	return e.Friendly != a.Has(entity.FlagFriendly)
}

// Overlaps reports whether the actor's circle overlaps the effect's circle.
func (e *Effect) Overlaps(a *entity.Actor) bool {
	return geom.CirclesOverlap(e.Pos, e.Radius, a.Pos, a.Radius)
}

// Removed reports whether the engine has retired the effect.
func (e *Effect) Removed() bool { return e.removed }

func (e *Effect) strike(a *entity.Actor) bool {
	if e.Struck == nil {
		e.Struck = make(map[*entity.Actor]bool)
	}
	if e.Struck[a] {
		return false
	}
	e.Struck[a] = true
	return true
}

// finished reports the end conditions: time elapsed, radius reached or one-shot fired.
func (e *Effect) finished(now time.Duration) bool {
	if e.End > 0 && now >= e.End {
		return true
	}
	if e.Kind == Shockwave && e.MaxRadius > 0 && e.Radius >= e.MaxRadius {
		return true
	}
	return e.Triggered
}

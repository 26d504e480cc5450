// Package geom provides the 2D vector maths shared by the simulation.
package geom

import "math"

// Vec2 is a point or direction in arena space.
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Dist(b Vec2) float64 { return a.Sub(b).Len() }
func (a Vec2) Angle() float64 { return math.Atan2(a.Y, a.X) }
func (a Vec2) IsZero() bool { return a.X == 0 && a.Y == 0 }
func (a Vec2) Lerp(b Vec2, t float64) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Norm returns the unit vector in the direction of a, or the zero vector.
func (a Vec2) Norm() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Rotate rotates a by theta radians counter-clockwise.
func (a Vec2) Rotate(theta float64) Vec2 {
	s, c := math.Sincos(theta)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// FromAngle returns the unit vector at theta radians.
func FromAngle(theta float64) Vec2 {
	s, c := math.Sincos(theta)
	return Vec2{c, s}
}

// CirclesOverlap reports whether two circles intersect.
func CirclesOverlap(a Vec2, ra float64, b Vec2, rb float64) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	r := ra + rb
	return dx*dx+dy*dy <= r*r
}

// SegmentDist returns the distance from p to the segment ab.
func SegmentDist(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}

// AngleDiff returns the absolute smallest difference between two angles.
func AngleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d < -math.Pi {
		d += 2 * math.Pi
	} else if d > math.Pi {
		d -= 2 * math.Pi
	}
	return math.Abs(d)
}

// Ring returns n points evenly spaced on a circle of radius r around c.
func Ring(c Vec2, r float64, n int, phase float64) []Vec2 {
	out := make([]Vec2, n)
	for i := 0; i < n; i++ {
		theta := phase + 2*math.Pi*float64(i)/float64(n)
		out[i] = c.Add(FromAngle(theta).Scale(r))
	}
	return out
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// RectAround returns the rectangle of the given half extent centred on c.
func RectAround(c Vec2, half float64) Rect {
	return Rect{X: c.X - half, Y: c.Y - half, Width: 2 * half, Height: 2 * half}
}

// Center returns the centre of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Contains returns true if the given point is inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Clamp returns p moved inside the rectangle, inset by margin.
func (r Rect) Clamp(p Vec2, margin float64) Vec2 {
	p.X = math.Max(r.X+margin, math.Min(r.X+r.Width-margin, p.X))
	p.Y = math.Max(r.Y+margin, math.Min(r.Y+r.Height-margin, p.Y))
	return p
}

package world

import (
	"math/rand"

	"github.com/samdwyer/arenacore/internal/geom"
)

const (
	// Default arena dimensions in world units.
	DefaultWidth  = 800
	DefaultHeight = 480

	// CellSize is the edge of one occupancy grid cell in world units.
	CellSize = 20
)

// Arena is the rectangular fighting area with its coarse pillar grid.
type Arena struct {
	Bounds  geom.Rect
	Cols    int
	Rows    int
	Tiles   [][]Tile
	Pillars []geom.Rect
}

// NewArena creates an open arena of the given size.
func NewArena(width, height float64) *Arena {
	cols := int(width) / CellSize
	rows := int(height) / CellSize
	tiles := make([][]Tile, rows)
	for y := range tiles {
		tiles[y] = make([]Tile, cols)
		for x := range tiles[y] {
			tiles[y][x] = TileFloor
		}
	}
	return &Arena{
		Bounds: geom.Rect{Width: width, Height: height},
		Cols:   cols,
		Rows:   rows,
		Tiles:  tiles,
	}
}

// Center returns the centre of the arena.
func (a *Arena) Center() geom.Vec2 { return a.Bounds.Center() }

// cell converts a world position to grid coordinates.
func (a *Arena) cell(p geom.Vec2) (int, int) {
	return int(p.X) / CellSize, int(p.Y) / CellSize
}

// IsPassable returns true if the given position is inside the arena and not in a pillar.
func (a *Arena) IsPassable(p geom.Vec2) bool {
	if !a.Bounds.Contains(p) {
		return false
	}
	return a.TileAt(p).IsPassable()
}

// TileAt returns the tile under the position. Outside the grid counts as a pillar.
func (a *Arena) TileAt(p geom.Vec2) Tile {
	x, y := a.cell(p)
	if x < 0 || x >= a.Cols || y < 0 || y >= a.Rows {
		return TilePillar
	}
	return a.Tiles[y][x]
}

// RaisePillar marks the rectangle impassable.
func (a *Arena) RaisePillar(r geom.Rect) {
	a.Pillars = append(a.Pillars, r)
	a.paint(r, TilePillar)
}

// ClearPillars drops every pillar.
func (a *Arena) ClearPillars() {
	for _, r := range a.Pillars {
		a.paint(r, TileFloor)
	}
	a.Pillars = nil
}

func (a *Arena) paint(r geom.Rect, t Tile) {
	x0, y0 := a.cell(geom.V(r.X, r.Y))
	x1, y1 := a.cell(geom.V(r.X+r.Width-1, r.Y+r.Height-1))
	for y := max(y0, 0); y <= min(y1, a.Rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, a.Cols-1); x++ {
			a.Tiles[y][x] = t
		}
	}
}

// Resolve keeps a circle inside the arena and pushes it out of any pillar it overlaps.
func (a *Arena) Resolve(p geom.Vec2, radius float64) geom.Vec2 {
	p = a.Bounds.Clamp(p, radius)
	for _, r := range a.Pillars {
		grown := geom.Rect{X: r.X - radius, Y: r.Y - radius, Width: r.Width + 2*radius, Height: r.Height + 2*radius}
		if !grown.Contains(p) {
			continue
		}
		left := p.X - grown.X
		right := grown.X + grown.Width - p.X
		top := p.Y - grown.Y
		bottom := grown.Y + grown.Height - p.Y
		switch min(left, right, top, bottom) {
		case left:
			p.X = grown.X
		case right:
			p.X = grown.X + grown.Width
		case top:
			p.Y = grown.Y
		default:
			p.Y = grown.Y + grown.Height
		}
	}
	return a.Bounds.Clamp(p, radius)
}

// RandomPoint returns a random passable point at least margin away from the edges.
func (a *Arena) RandomPoint(rng *rand.Rand, margin float64) geom.Vec2 {
	// Try random points until we find a passable one (max 100 attempts)
	for i := 0; i < 100; i++ {
		p := geom.V(
			a.Bounds.X+margin+rng.Float64()*(a.Bounds.Width-2*margin),
			a.Bounds.Y+margin+rng.Float64()*(a.Bounds.Height-2*margin),
		)
		if a.IsPassable(p) {
			return p
		}
	}
	return a.Center()
}

// EdgePoint returns a random point on the arena border, inset by margin.
func (a *Arena) EdgePoint(rng *rand.Rand, margin float64) geom.Vec2 {
	b := a.Bounds
	switch rng.Intn(4) {
	case 0:
		return geom.V(b.X+margin+rng.Float64()*(b.Width-2*margin), b.Y+margin)
	case 1:
		return geom.V(b.X+margin+rng.Float64()*(b.Width-2*margin), b.Y+b.Height-margin)
	case 2:
		return geom.V(b.X+margin, b.Y+margin+rng.Float64()*(b.Height-2*margin))
	default:
		return geom.V(b.X+b.Width-margin, b.Y+margin+rng.Float64()*(b.Height-2*margin))
	}
}

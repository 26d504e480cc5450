// Package world holds the shared simulation context: actors, effects, the arena,
// deferred tasks and the damage pipeline.
package world

// Tile is one cell of the arena's coarse occupancy grid.
type Tile rune

const (
	// TileFloor is open ground.
	TileFloor Tile = '.'
	// TilePillar is an impassable pillar raised during a fight.
	TilePillar Tile = '#'
)

// IsPassable returns true if actors can move through the tile.
func (t Tile) IsPassable() bool {
	return t == TileFloor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}

package game

import (
	"log"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/progress"
	"github.com/samdwyer/arenacore/internal/world"
)

// Config holds simulation options. Zero values select defaults.
type Config struct {
	// Seed for random number generation. Runs with the same seed and input replay
	// identically.
	Seed int64

	Tuning *config.Tuning

	// Store persists progression under Slot. Nil keeps progression in memory.
	Store progress.Store
	Slot  string

	Audio    world.Audio
	Notifier world.Notifier // Receives banners in addition to the HUD
	Renderer world.Renderer
	Logger   *log.Logger
}

package game

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/arenacore/internal/config"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/ui"
	"github.com/samdwyer/arenacore/internal/world"
)

// Game runs a Simulation in the terminal.
type Game struct {
	screen  *ui.Screen
	sim     *Simulation
	input   *ui.InputMapper
	watcher *config.Watcher
	running bool
}

// New creates the terminal screen and the simulation. watcher may be nil.
func New(ctx context.Context, cfg Config, watcher *config.Watcher) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	layout := ui.DefaultLayout(geom.Rect{Width: world.DefaultWidth, Height: world.DefaultHeight})
	cfg.Renderer = ui.NewRenderer(screen, layout)
	sim, err := NewSimulation(ctx, cfg)
	if err != nil {
		screen.Close()
		return nil, err
	}

	input := ui.NewInputMapper(layout)
	input.SetAim(sim.World.Arena.Center())
	return &Game{
		screen:  screen,
		sim:     sim,
		input:   input,
		watcher: watcher,
		running: true,
	}, nil
}

// Run executes the main loop: terminal events are folded into the input mapper as
// they arrive, and the simulation steps on every tick.
func (g *Game) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := g.screen.Events(ctx)
	var reloadErrs <-chan error
	if g.watcher != nil {
		reloadErrs = g.watcher.Errors
	}

	dt := g.sim.Tuning().TickInterval()
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	for g.running {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resize := ev.(*tcell.EventResize); resize {
				g.screen.Sync()
				continue
			}
			g.input.Handle(ev)
			g.command(ctx)
		case err := <-reloadErrs:
			g.sim.logger.Printf("game: tuning reload: %v", err)
		case <-ticker.C:
			if g.watcher != nil {
				if t := g.watcher.Latest(); t != nil {
					g.sim.ApplyTuning(t)
					dt = t.TickInterval()
					ticker.Reset(dt)
				}
			}
			g.sim.Step(ctx, dt, g.input.Snapshot())
		}
	}
	return nil
}

// command handles the non-gameplay keys.
func (g *Game) command(ctx context.Context) {
	switch g.input.TakeCommand() {
	case ui.CommandQuit:
		g.running = false
	case ui.CommandRestart:
		g.sim.Restart(ctx)
	case ui.CommandCycleCore:
		if err := g.sim.CycleCore(ctx); err != nil {
			if errors.Is(err, ErrNoCoresUnlocked) {
				g.sim.World.Notify("No cores unlocked yet")
				return
			}
			g.sim.logger.Printf("game: %v", err)
		}
	}
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}

package world

import (
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/samdwyer/arenacore/internal/effect"
	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/geom"
)

// Options configures a new World.
type Options struct {
	Width, Height float64
	Seed          int64
	Audio         Audio
	Notifier      Notifier
	Logger        *log.Logger
}

var _ effect.Host = (*World)(nil)

// World is the context passed by reference into every hook and tick function.
// It replaces any package-level simulation state.
type World struct {
	now   time.Duration
	delta time.Duration

	player  *entity.Actor
	Actors  []*entity.Actor // Every non-player actor, friendly or hostile
	Pickups []*Pickup

	Effects   *effect.Engine
	Scheduler *Scheduler
	Arena     *Arena
	Rng       *rand.Rand

	Audio     Audio
	Notifier  Notifier
	Behaviors Behaviors
	Cores     Interceptor
	Logger    *log.Logger

	// Per-run tallies.
	Essence    int
	Experience int
	Kills      int
	Defeated   []string // Boss kinds killed since the last stage reset
	HeldPower  string
	PlayerDown bool

	lastContact time.Duration
}

// New creates a world with an empty arena and no-op collaborators where none are given.
func New(opts Options) *World {
	if opts.Width == 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height == 0 {
		opts.Height = DefaultHeight
	}
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return &World{
		delta:     16 * time.Millisecond,
		Effects:   effect.NewEngine(),
		Scheduler: NewScheduler(),
		Arena:     NewArena(opts.Width, opts.Height),
		Rng:       rand.New(rand.NewSource(opts.Seed)),
		Audio:     opts.Audio,
		Notifier:  opts.Notifier,
		Behaviors: nopBehaviors{},
		Cores:     nopInterceptor{},
		Logger:    opts.Logger,
	}
}

// Advance moves simulation time forward by dt.
func (w *World) Advance(dt time.Duration) {
	w.delta = dt
	w.now += dt
}

// Now returns the current simulation time.
func (w *World) Now() time.Duration { return w.now }

// Delta returns the length of the current tick.
func (w *World) Delta() time.Duration { return w.delta }

// Bounds returns the arena rectangle.
func (w *World) Bounds() geom.Rect { return w.Arena.Bounds }

// Player returns the player actor.
func (w *World) Player() *entity.Actor { return w.player }

// SetPlayer installs the player actor.
func (w *World) SetPlayer(p *entity.Actor) { w.player = p }

// Elapsed reports whether more than interval has passed since last.
func (w *World) Elapsed(last, interval time.Duration) bool {
	return w.now-last > interval
}

// After schedules fn to run once delay has passed, provided owner is still alive then.
func (w *World) After(delay time.Duration, owner *entity.Actor, fn func(w *World)) {
	w.Scheduler.At(w.now+delay, owner, fn)
}

// ============================================================================
// Actors
// ============================================================================

// Spawn adds an actor to the world.
func (w *World) Spawn(a *entity.Actor) *entity.Actor {
	a.SpawnedAt = w.now
	w.Actors = append(w.Actors, a)
	return a
}

// Enemies returns the targetable hostile actors.
func (w *World) Enemies() []*entity.Actor {
	out := make([]*entity.Actor, 0, len(w.Actors))
	for _, a := range w.Actors {
		if a.Hostile() && a.Targetable() {
			out = append(out, a)
		}
	}
	return out
}

// Allies returns the targetable player-side actors, the player first.
func (w *World) Allies() []*entity.Actor {
	out := make([]*entity.Actor, 0, 4)
	if w.player.Targetable() {
		out = append(out, w.player)
	}
	for _, a := range w.Actors {
		if !a.Hostile() && a.Targetable() {
			out = append(out, a)
		}
	}
	return out
}

// Bosses returns every boss-tagged actor still alive.
func (w *World) Bosses() []*entity.Actor {
	var out []*entity.Actor
	for _, a := range w.Actors {
		if a.IsBoss() && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// BossAlive reports whether any boss-tagged actor has positive health.
func (w *World) BossAlive() bool {
	for _, a := range w.Actors {
		if a.IsBoss() && a.Alive() {
			return true
		}
	}
	return false
}

// CountKind returns the number of living actors of the given kind owned by owner.
// A nil owner counts every actor of the kind.
func (w *World) CountKind(kind string, owner *entity.Actor) int {
	n := 0
	for _, a := range w.Actors {
		if a.Kind == kind && a.Alive() && (owner == nil || a.Owner == owner) {
			n++
		}
	}
	return n
}

// Owned returns the living actors summoned by owner.
func (w *World) Owned(owner *entity.Actor) []*entity.Actor {
	var out []*entity.Actor
	for _, a := range w.Actors {
		if a.Owner == owner && a.Alive() {
			out = append(out, a)
		}
	}
	return out
}

// NearestEnemy returns the closest targetable hostile actor to p within maxDist, or nil.
func (w *World) NearestEnemy(p geom.Vec2, maxDist float64) *entity.Actor {
	var best *entity.Actor
	for _, a := range w.Enemies() {
		if d := a.Pos.Dist(p); d <= maxDist {
			best, maxDist = a, d
		}
	}
	return best
}

// ApplyStatus records a status on the target. Frozen and petrified also set their flags.
func (w *World) ApplyStatus(target *entity.Actor, name string, d time.Duration) {
	if !target.Alive() {
		return
	}
	if target.Status.Add(name, "", d, w.now) {
		syncStatusFlags(target, w.now)
	}
}

// syncStatusFlags mirrors the stun-like statuses onto the actor's flags.
func syncStatusFlags(a *entity.Actor, now time.Duration) {
	if a.Status.Active("frozen", now) {
		a.Set(entity.FlagFrozen)
	} else {
		a.Clear(entity.FlagFrozen)
	}
	if a.Status.Active("petrified", now) {
		a.Set(entity.FlagPetrified)
	} else {
		a.Clear(entity.FlagPetrified)
	}
}

// DecayStatuses expires timed statuses on every actor.
func (w *World) DecayStatuses() {
	w.player.Status.TickExpire(w.now)
	syncStatusFlags(w.player, w.now)
	for _, a := range w.Actors {
		a.Status.TickExpire(w.now)
		syncStatusFlags(a, w.now)
	}
}

// Move steps an actor along its velocity, honouring stuns, slow fields and pillars.
func (w *World) Move(a *entity.Actor) {
	if !a.CanMove(w.now) || a.Vel.IsZero() {
		return
	}
	f := a.Status.SpeedFactor(w.now) * w.Effects.SpeedFactor(a, w.now)
	next := a.Pos.Add(a.Vel.Scale(w.delta.Seconds() * f))
	a.Pos = w.Arena.Resolve(next, a.Radius)
}

// Steer sets an actor's velocity toward target at its base speed.
func (w *World) Steer(a *entity.Actor, target geom.Vec2, speed float64) {
	dir := target.Sub(a.Pos)
	if dir.Len() < 1 {
		a.Vel = geom.Vec2{}
		return
	}
	a.Facing = dir.Norm()
	a.Vel = a.Facing.Scale(speed)
}

// ============================================================================
// Effects and audio
// ============================================================================

// AddEffect hands an effect to the engine.
func (w *World) AddEffect(e *effect.Effect) uint64 {
	return w.Effects.Spawn(w, e)
}

// Play fires a one-shot audio cue.
func (w *World) Play(cue string) { w.Audio.Play(cue) }

// StartLoop starts a looping cue.
func (w *World) StartLoop(cue string) int { return w.Audio.StartLoop(cue) }

// StopLoop stops a looping cue.
func (w *World) StopLoop(handle int) { w.Audio.StopLoop(handle) }

// Notify shows a banner.
func (w *World) Notify(text string) { w.Notifier.Notify(text) }

// ============================================================================
// Cleanup
// ============================================================================

// Cleanup expires lifetime-limited actors and removes the dead, iterating in reverse.
func (w *World) Cleanup() {
	for i := len(w.Actors) - 1; i >= 0; i-- {
		if i >= len(w.Actors) {
			continue
		}
		a := w.Actors[i]
		if a.Alive() && a.Expired(w.now) {
			w.Kill(a, nil)
		}
	}
	for i := len(w.Actors) - 1; i >= 0; i-- {
		if !w.Actors[i].Alive() {
			w.Actors = append(w.Actors[:i], w.Actors[i+1:]...)
		}
	}
	for i := len(w.Pickups) - 1; i >= 0; i-- {
		if w.Pickups[i].Expired(w.now) {
			w.Pickups = append(w.Pickups[:i], w.Pickups[i+1:]...)
		}
	}
}

// Reset clears actors, effects, pickups and tasks between stages.
func (w *World) Reset() {
	w.Effects.Clear(w)
	w.Scheduler.Clear()
	w.Actors = nil
	w.Pickups = nil
	w.Defeated = nil
	w.Arena.ClearPillars()
}

// Frame builds the renderer snapshot.
func (w *World) Frame() Frame {
	return Frame{
		Now:     w.now,
		Bounds:  w.Arena.Bounds,
		Arena:   w.Arena,
		Player:  w.player,
		Actors:  w.Actors,
		Effects: w.Effects.Active(),
		Pickups: w.Pickups,
		Essence: w.Essence,
		Power:   w.HeldPower,
	}
}

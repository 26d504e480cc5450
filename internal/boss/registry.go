// Package boss holds the behaviour table: per-kind lifecycle hooks joined with the
// static boss metadata from gamedata.
package boss

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
	"github.com/samdwyer/arenacore/internal/gamedata"
	"github.com/samdwyer/arenacore/internal/geom"
	"github.com/samdwyer/arenacore/internal/world"
)

// ErrUnknownBoss is returned when no definition exists for a requested id.
var ErrUnknownBoss = errors.New("unknown boss")

// Hooks is the lifecycle bundle of one behaviour. Only Logic is required; a nil hook
// is an explicit no-op.
type Hooks struct {
	// NewState returns a fresh behaviour state. Borrowers call it to get an isolated copy.
	NewState    func() any
	Init        func(c *Context)
	Logic       func(c *Context)
	OnDamage    func(c *Context, h *world.Hit)
	OnCollision func(c *Context, other *entity.Actor)
	OnDeath     func(c *Context)
}

// behaviours is the closed hook table keyed by boss or minion id.
var behaviours = map[string]*Hooks{}

func register(id string, h *Hooks) {
	if _, dup := behaviours[id]; dup {
		panic("boss: duplicate behaviour " + id)
	}
	behaviours[id] = h
}

// Registry joins definitions with hooks and dispatches hooks by actor kind.
// It implements world.Behaviors.
type Registry struct {
	defs   *gamedata.BossRegistry
	hooks  map[string]*Hooks
	logger *log.Logger
}

var _ world.Behaviors = (*Registry)(nil)

// NewRegistry validates that every definition has a behaviour with a Logic hook.
func NewRegistry(defs *gamedata.BossRegistry, logger *log.Logger) (*Registry, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	r := &Registry{defs: defs, hooks: make(map[string]*Hooks), logger: logger}
	for _, d := range defs.All() {
		h, ok := behaviours[d.ID]
		if !ok {
			return nil, fmt.Errorf("boss %s: no behaviour registered", d.ID)
		}
		if h.Logic == nil {
			return nil, fmt.Errorf("boss %s: behaviour has no logic hook", d.ID)
		}
		r.hooks[d.ID] = h
	}
	for _, id := range minionKinds {
		if defs.Minion(id) == nil {
			return nil, fmt.Errorf("minion %s: no definition", id)
		}
		r.hooks[id] = behaviours[id]
	}
	return r, nil
}

// MustLoadRegistry loads the embedded definitions and builds the registry, panicking on error.
func MustLoadRegistry(logger *log.Logger) *Registry {
	r, err := NewRegistry(gamedata.MustLoadBossRegistry(), logger)
	if err != nil {
		panic(err)
	}
	return r
}

// Defs returns the underlying definition table.
func (r *Registry) Defs() *gamedata.BossRegistry { return r.defs }

// Hooks returns the hook bundle for an id, or nil.
func (r *Registry) Hooks(id string) *Hooks { return r.hooks[id] }

// IDs returns every boss id with a behaviour, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.hooks))
	for id := range r.hooks {
		if r.defs.GetByID(id) != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Spawn creates a boss actor, adds it to the world and runs its Init hook.
// An unknown id returns ErrUnknownBoss and creates nothing.
func (r *Registry) Spawn(w *world.World, id string, pos geom.Vec2) (*entity.Actor, error) {
	def := r.defs.GetByID(id)
	h := r.hooks[id]
	if def == nil || h == nil {
		return nil, fmt.Errorf("spawn %q: %w", id, ErrUnknownBoss)
	}
	a := entity.New(id, pos, def.Radius, def.Health)
	a.Name = def.Name
	a.Color = def.Color
	a.Speed = def.Speed
	a.ContactDamage = def.ContactDamage
	a.Level = def.Tier
	a.Set(entity.FlagBoss)
	if h.NewState != nil {
		a.State = h.NewState()
	}
	w.Spawn(a)
	if h.Init != nil {
		h.Init(r.context(w, a, a.State))
	}
	return a, nil
}

// SpawnMinion creates a summoned actor of the given kind owned by owner.
func (r *Registry) SpawnMinion(w *world.World, kind string, pos geom.Vec2, owner *entity.Actor) (*entity.Actor, error) {
	def := r.defs.Minion(kind)
	h := r.hooks[kind]
	if def == nil || h == nil {
		return nil, fmt.Errorf("spawn minion %q: %w", kind, ErrUnknownBoss)
	}
	a := entity.New(kind, w.Arena.Resolve(pos, def.Radius), def.Radius, def.Health)
	a.Name = def.Name
	a.Color = def.Color
	a.Speed = def.Speed
	a.ContactDamage = def.ContactDamage
	a.Owner = owner
	a.Set(entity.FlagMinion)
	if owner != nil && owner.Has(entity.FlagFriendly) {
		a.Set(entity.FlagFriendly)
	}
	if def.LifetimeMs > 0 {
		a.ExpiresAt = w.Now() + time.Duration(def.LifetimeMs)*time.Millisecond
	}
	if h.NewState != nil {
		a.State = h.NewState()
	}
	w.Spawn(a)
	if h.Init != nil {
		h.Init(r.context(w, a, a.State))
	}
	return a, nil
}

func (r *Registry) context(w *world.World, a *entity.Actor, state any) *Context {
	return &Context{W: w, Self: a, State: state, reg: r}
}

// ============================================================================
// world.Behaviors
// ============================================================================

// Logic runs the per-tick hook of a living actor.
func (r *Registry) Logic(w *world.World, a *entity.Actor) {
	if h := r.hooks[a.Kind]; h != nil && h.Logic != nil && a.Alive() {
		h.Logic(r.context(w, a, a.State))
	}
}

// Damage runs the on-damage hook, which may rewrite or veto the hit.
func (r *Registry) Damage(w *world.World, a *entity.Actor, hit *world.Hit) {
	if h := r.hooks[a.Kind]; h != nil && h.OnDamage != nil {
		h.OnDamage(r.context(w, a, a.State), hit)
	}
}

// Collide runs the on-collision hook.
func (r *Registry) Collide(w *world.World, a, other *entity.Actor) {
	if h := r.hooks[a.Kind]; h != nil && h.OnCollision != nil {
		h.OnCollision(r.context(w, a, a.State), other)
	}
}

// Death runs the on-death hook.
func (r *Registry) Death(w *world.World, a *entity.Actor) {
	if h := r.hooks[a.Kind]; h != nil && h.OnDeath != nil {
		h.OnDeath(r.context(w, a, a.State))
	}
}

package boss

import (
	"time"

	"github.com/samdwyer/arenacore/internal/world"
)

const (
	channelInterval = 4 * time.Second
	aspectLifetime  = 9 * time.Second
	maxAspects      = 3
)

// pantheonAspects are the definitions the composite borrows, in channel order.
var pantheonAspects = []string{"sniper", "aegis", "lich", "ravager", "tidecaller", "stormcaller", "runesmith", "chronomancer"}

// Aspect is a borrowed behaviour with its own isolated state and expiry.
type Aspect struct {
	ID      string
	State   any
	Expires time.Duration
}

type pantheonState struct {
	Aspects     map[string]*Aspect
	Order       []string // Active aspect ids, oldest first
	Next        int
	LastChannel time.Duration
}

// Active returns the ids of the channelled aspects, oldest first.
func (s *pantheonState) Active() []string { return s.Order }

// channel borrows the next aspect in rotation. An active aspect has its expiry refreshed;
// a new one is skipped when the composite already holds the maximum.
func (s *pantheonState) channel(c *Context) {
	id := pantheonAspects[s.Next%len(pantheonAspects)]
	s.Next++
	if a, ok := s.Aspects[id]; ok {
		a.Expires = c.Now() + aspectLifetime
		return
	}
	if len(s.Order) >= maxAspects {
		return
	}
	h := c.reg.Hooks(id)
	if h == nil {
		c.reg.logger.Printf("pantheon: aspect %s has no behaviour", id)
		return
	}
	var state any
	if h.NewState != nil {
		state = h.NewState()
	}
	s.Aspects[id] = &Aspect{ID: id, State: state, Expires: c.Now() + aspectLifetime}
	s.Order = append(s.Order, id)
	c.W.Notify("Pantheon channels the " + id)
}

// expire drops aspects past their expiry.
func (s *pantheonState) expire(now time.Duration) {
	kept := s.Order[:0]
	for _, id := range s.Order {
		if now >= s.Aspects[id].Expires {
			delete(s.Aspects, id)
			continue
		}
		kept = append(kept, id)
	}
	s.Order = kept
}

// borrow builds a context running as the composite with the aspect's own state injected.
func (s *pantheonState) borrow(c *Context, id string) (*Hooks, *Context) {
	a := s.Aspects[id]
	h := c.reg.Hooks(id)
	if a == nil || h == nil {
		return nil, nil
	}
	return h, &Context{W: c.W, Self: c.Self, State: a.State, reg: c.reg}
}

func init() {
	register("pantheon", &Hooks{
		NewState: func() any { return &pantheonState{Aspects: make(map[string]*Aspect)} },
		Logic: func(c *Context) {
			s := stateOf[pantheonState](c)
			if s.Aspects == nil {
				s.Aspects = make(map[string]*Aspect)
			}
			s.expire(c.Now())
			if c.Ready(&s.LastChannel, channelInterval) {
				s.channel(c)
			}
			c.Chase(0.8)
			for _, id := range s.Order {
				if h, ac := s.borrow(c, id); h != nil && h.Logic != nil {
					h.Logic(ac)
				}
			}
		},
		OnDamage: func(c *Context, hit *world.Hit) {
			s := stateOf[pantheonState](c)
			for _, id := range s.Order {
				if h, ac := s.borrow(c, id); h != nil && h.OnDamage != nil {
					h.OnDamage(ac, hit)
				}
			}
		},
		OnDeath: func(c *Context) {
			s := stateOf[pantheonState](c)
			for _, id := range s.Order {
				if h, ac := s.borrow(c, id); h != nil && h.OnDeath != nil {
					h.OnDeath(ac)
				}
			}
		},
	})
}

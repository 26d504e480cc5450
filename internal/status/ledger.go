// Package status tracks timed buffs/debuffs and the derived stat modifiers of an actor.
package status

import (
	"sort"
	"time"
)

// Well-known status names.
const (
	Stunned      = "stunned"
	Frozen       = "frozen"
	Petrified    = "petrified"
	Slowed       = "slowed"
	Chilled      = "chilled"
	Rage         = "rage"
	StaticCharge = "static_charge"
	Frenzy       = "frenzy"
	Hasted       = "hasted"
	Phased       = "phased"
)

// counterCaps lists the statuses that count up instead of refreshing only.
var counterCaps = map[string]int{
	StaticCharge: 3,
	Frenzy:       3,
}

var stunLike = map[string]bool{Stunned: true, Frozen: true, Petrified: true}

// slowFactors is the speed multiplier applied while a slow-like status is active.
var slowFactors = map[string]float64{Slowed: 0.5, Chilled: 0.7}

// Entry is a single named timed status.
type Entry struct {
	Name  string
	Icon  string
	Start time.Duration
	End   time.Duration
	Count int // Charge count for counter statuses, 1 otherwise
}

// Weight returns the visual weight of the entry in (0, 1].
func (e *Entry) Weight() float64 {
	limit, ok := counterCaps[e.Name]
	if !ok || limit == 0 {
		return 1
	}
	return float64(e.Count) / float64(limit)
}

// Ledger holds the statuses and modifiers of one actor.
type Ledger struct {
	entries      map[string]*Entry
	StunnedUntil time.Duration
	Mods         Modifiers
}

// NewLedger creates an empty ledger with neutral modifiers.
func NewLedger() *Ledger {
	return &Ledger{
		entries: make(map[string]*Entry),
		Mods:    Neutral(),
	}
}

// IsStunLike reports whether the status blocks movement.
func IsStunLike(name string) bool { return stunLike[name] }

// IsSlowLike reports whether the status reduces speed.
func IsSlowLike(name string) bool {
	_, ok := slowFactors[name]
	return ok
}

// Vetoed reports whether adding name would be suppressed right now.
// Stun and slow are ignored while rage is active and the rage immunity talent is owned.
func (l *Ledger) Vetoed(name string, now time.Duration) bool {
	if !IsStunLike(name) && !IsSlowLike(name) {
		return false
	}
	return l.Mods.RageImmunity && l.Active(Rage, now)
}

// Add inserts or refreshes a timed status. It returns false when the status was vetoed.
func (l *Ledger) Add(name, icon string, d time.Duration, now time.Duration) bool {
	if l.Vetoed(name, now) {
		return false
	}
	end := now + d
	e, ok := l.entries[name]
	if !ok {
		e = &Entry{Name: name, Icon: icon, Start: now, End: end, Count: 1}
		l.entries[name] = e
	} else {
		if end > e.End {
			e.End = end
		}
		if limit, counter := counterCaps[name]; counter && e.Count < limit {
			e.Count++
		}
		if icon != "" {
			e.Icon = icon
		}
	}
	if IsStunLike(name) && e.End > l.StunnedUntil {
		l.StunnedUntil = e.End
	}
	return true
}

// Remove drops a status immediately.
func (l *Ledger) Remove(name string) {
	delete(l.entries, name)
}

// TickExpire removes entries whose end time has passed and returns their names, sorted.
func (l *Ledger) TickExpire(now time.Duration) []string {
	var expired []string
	for name, e := range l.entries {
		if now >= e.End {
			delete(l.entries, name)
			expired = append(expired, name)
		}
	}
	sort.Strings(expired)
	return expired
}

// Active reports whether the named status is present and not yet ended.
func (l *Ledger) Active(name string, now time.Duration) bool {
	e, ok := l.entries[name]
	return ok && now < e.End
}

// Get returns the entry for name, or nil.
func (l *Ledger) Get(name string) *Entry {
	return l.entries[name]
}

// Count returns the charge count of a status, 0 if absent.
func (l *Ledger) Count(name string) int {
	if e, ok := l.entries[name]; ok {
		return e.Count
	}
	return 0
}

// Stunned reports whether movement is blocked at now.
func (l *Ledger) Stunned(now time.Duration) bool {
	return now < l.StunnedUntil
}

// SpeedFactor returns the product of every active slow-like status factor.
func (l *Ledger) SpeedFactor(now time.Duration) float64 {
	f := 1.0
	for name, factor := range slowFactors {
		if l.Active(name, now) {
			f *= factor
		}
	}
	if l.Active(Hasted, now) {
		f *= 1.5
	}
	return f
}

// Entries returns the active entries ordered by name.
func (l *Ledger) Entries() []*Entry {
	out := make([]*Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Clear drops every status and the stun timer; modifiers are kept.
func (l *Ledger) Clear() {
	l.entries = make(map[string]*Entry)
	l.StunnedUntil = 0
}

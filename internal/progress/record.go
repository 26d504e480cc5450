// Package progress persists the player's meta progression between runs.
package progress

import (
	"context"
	"errors"
	"slices"
	"sync"
)

// ErrNoRecord is returned when a slot has never been saved.
var ErrNoRecord = errors.New("no saved record")

// Record is the persisted progression of one save slot.
type Record struct {
	HighestStage   int      `msgpack:"highest_stage"`
	Level          int      `msgpack:"level"`
	Experience     int      `msgpack:"experience"`
	Essence        int      `msgpack:"essence"`
	UnlockedCores  []string `msgpack:"unlocked_cores"`
	EquippedCore   string   `msgpack:"equipped_core"`
	UnlockedPowers []string `msgpack:"unlocked_powers"`
	Talents        []string `msgpack:"talents"`
	TalentPoints   int      `msgpack:"talent_points"`
}

// Default returns the record of a fresh save.
func Default() Record {
	return Record{HighestStage: 1, Level: 1}
}

// UnlockCore adds a core id if it is not already unlocked. It reports whether the
// set changed.
func (r *Record) UnlockCore(id string) bool {
	if id == "" || slices.Contains(r.UnlockedCores, id) {
		return false
	}
	r.UnlockedCores = append(r.UnlockedCores, id)
	return true
}

// UnlockPower adds a power id if it is not already unlocked.
func (r *Record) UnlockPower(id string) bool {
	if id == "" || slices.Contains(r.UnlockedPowers, id) {
		return false
	}
	r.UnlockedPowers = append(r.UnlockedPowers, id)
	return true
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	r.UnlockedCores = slices.Clone(r.UnlockedCores)
	r.UnlockedPowers = slices.Clone(r.UnlockedPowers)
	r.Talents = slices.Clone(r.Talents)
	return r
}

// Store loads and saves records by slot name.
type Store interface {
	Load(ctx context.Context, slot string) (Record, error)
	Save(ctx context.Context, slot string, rec Record) error
}

// MemoryStore keeps records in memory. Used by tests and when no save path is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	Saves   int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Load returns the record in slot, or ErrNoRecord.
func (m *MemoryStore) Load(_ context.Context, slot string) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[slot]
	if !ok {
		return Default(), ErrNoRecord
	}
	return rec.Clone(), nil
}

// Save stores a copy of rec in slot.
func (m *MemoryStore) Save(_ context.Context, slot string, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[slot] = rec.Clone()
	m.Saves++
	return nil
}

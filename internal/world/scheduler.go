package world

import (
	"sort"
	"time"

	"github.com/samdwyer/arenacore/internal/entity"
)

// Task is a deferred continuation. Owner, when set, must still be alive when the task
// comes due or the task is dropped.
type Task struct {
	At    time.Duration
	Owner *entity.Actor
	Fn    func(w *World)
	seq   uint64
}

// Scheduler is the queue of deferred tasks processed once per tick in due order.
type Scheduler struct {
	tasks []*Task
	seq   uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// At schedules fn for the given simulation time.
func (s *Scheduler) At(at time.Duration, owner *entity.Actor, fn func(w *World)) {
	s.seq++
	s.tasks = append(s.tasks, &Task{At: at, Owner: owner, Fn: fn, seq: s.seq})
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int { return len(s.tasks) }

// Clear drops every pending task.
func (s *Scheduler) Clear() { s.tasks = nil }

// RunDue runs every task due at or before now, ordered by due time then insertion.
// Tasks scheduled while running wait for the next call. Returns the number executed.
func (s *Scheduler) RunDue(w *World, now time.Duration) int {
	var due, keep []*Task
	for _, t := range s.tasks {
		if t.At <= now {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	if len(due) == 0 {
		return 0
	}
	s.tasks = keep
	sort.Slice(due, func(i, j int) bool {
		if due[i].At != due[j].At {
			return due[i].At < due[j].At
		}
		return due[i].seq < due[j].seq
	})
	ran := 0
	for _, t := range due {
		if t.Owner != nil && !t.Owner.Alive() {
			continue
		}
		t.Fn(w)
		ran++
	}
	return ran
}

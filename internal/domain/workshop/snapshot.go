package workshop

import (
	"fmt"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// Snapshot is the persistable scheduling state of a workshop. Job progress
// lives with the jobs themselves.
type Snapshot struct {
	ID              string
	Name            string
	Working         bool
	Workforce       float64
	MaxWorkforce    float64
	Position        shared.Position
	Current         JobRef
	Queue           []JobRef
	LastUpdate      time.Time
	EndTimeEstimate time.Time
}

// Snapshot captures the workshop's scheduling state
func (w *Workshop) Snapshot() Snapshot {
	return Snapshot{
		ID:              w.id,
		Name:            w.name,
		Working:         w.working,
		Workforce:       w.workforce,
		MaxWorkforce:    w.maxWorkforce,
		Position:        w.position,
		Current:         w.current,
		Queue:           w.queue.Entries(),
		LastUpdate:      w.lastUpdate,
		EndTimeEstimate: w.endTimeEstimate,
	}
}

// Restore loads a snapshot taken from the workshop with the same id. Refs are
// not validated here; stale ones are dropped on the next tick.
func (w *Workshop) Restore(s Snapshot) error {
	if s.ID != w.id {
		return shared.NewValidationError("id", fmt.Sprintf("snapshot of workshop %s cannot restore %s", s.ID, w.id))
	}
	w.working = s.Working
	w.stalled = false
	w.workforce = s.Workforce
	w.maxWorkforce = s.MaxWorkforce
	w.position = s.Position
	w.current = s.Current
	w.queue = NewJobQueue(s.Queue...)
	w.queue.Remove(s.Current)
	if !s.LastUpdate.IsZero() {
		w.lastUpdate = s.LastUpdate
	}
	w.updateETA()
	if w.endTimeEstimate.IsZero() {
		w.endTimeEstimate = s.EndTimeEstimate
	}
	return nil
}

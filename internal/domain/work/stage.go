package work

import (
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// WorkStage is a single unit of progress keyed by one resource.
//
// State Machine:
//
//	PENDING (workDone < totalWork) -> COMPLETE (workDone >= totalWork)
//
// Invariants:
//   - 0 <= workDone <= totalWork
//   - a complete stage only returns to PENDING through ForceComplete(false)
type WorkStage struct {
	index     int
	resource  ResourceKind
	totalWork float64
	workDone  float64
}

// NewWorkStage creates a pending stage
func NewWorkStage(index int, resource ResourceKind, totalWork float64) (*WorkStage, error) {
	if index < 0 {
		return nil, shared.NewValidationError("index", fmt.Sprintf("stage index cannot be negative, got %d", index))
	}
	if totalWork < 0 {
		return nil, shared.NewValidationError("total_work", fmt.Sprintf("stage %d total work cannot be negative, got %g", index, totalWork))
	}
	return &WorkStage{
		index:     index,
		resource:  resource,
		totalWork: totalWork,
	}, nil
}

func (s *WorkStage) Index() int             { return s.index }
func (s *WorkStage) Kind() TaskKind         { return TaskKindForStage(s.index) }
func (s *WorkStage) Resource() ResourceKind { return s.resource }
func (s *WorkStage) TotalWork() float64     { return s.totalWork }
func (s *WorkStage) WorkDone() float64      { return s.workDone }

// WorkLeft returns the work still needed to complete the stage
func (s *WorkStage) WorkLeft() float64 {
	return s.totalWork - s.workDone
}

// Complete returns true once all work has been applied
func (s *WorkStage) Complete() bool {
	return s.workDone >= s.totalWork
}

// Fraction returns the completed share of the stage in [0, 1]
func (s *WorkStage) Fraction() float64 {
	if s.totalWork <= 0 {
		return 1
	}
	return s.workDone / s.totalWork
}

// ApplyWork adds work to the stage and returns the part that was not needed.
// Non-positive amounts are ignored.
func (s *WorkStage) ApplyWork(amount float64) float64 {
	if amount <= 0 {
		return 0
	}
	left := s.WorkLeft()
	if amount >= left {
		s.workDone = s.totalWork
		return amount - left
	}
	s.workDone += amount
	return 0
}

// ForceComplete jumps the stage to COMPLETE, or resets it to zero progress.
func (s *WorkStage) ForceComplete(complete bool) {
	if complete {
		s.workDone = s.totalWork
		return
	}
	s.workDone = 0
}

func (s *WorkStage) String() string {
	return fmt.Sprintf("%s[%s] %.1f/%.1f", s.Kind(), s.resource.Name(), s.workDone, s.totalWork)
}

package workshop

import (
	"fmt"
	"time"
)

// NoticeKind classifies user-visible scheduler messages
type NoticeKind string

const (
	NoticeOnHold          NoticeKind = "ON_HOLD"
	NoticeThrottled       NoticeKind = "THROTTLED"
	NoticeNotEnoughEnergy NoticeKind = "NOT_ENOUGH_ENERGY"
	NoticeUnreachable     NoticeKind = "UNREACHABLE"
	NoticeInvalidJob      NoticeKind = "INVALID_JOB"
	NoticeStageComplete   NoticeKind = "STAGE_COMPLETE"
	NoticeJobComplete     NoticeKind = "JOB_COMPLETE"
	NoticeJobReleased     NoticeKind = "JOB_RELEASED"
	NoticeIdle            NoticeKind = "IDLE"
)

// Level returns the log level a notice should be reported at
func (k NoticeKind) Level() string {
	switch k {
	case NoticeOnHold, NoticeNotEnoughEnergy, NoticeUnreachable, NoticeInvalidJob:
		return "WARNING"
	case NoticeThrottled:
		return "DEBUG"
	default:
		return "INFO"
	}
}

// Notice is a user-visible message produced while scheduling
type Notice struct {
	Kind    NoticeKind
	Job     JobRef
	Message string
}

func (n Notice) String() string {
	if n.Job == "" {
		return fmt.Sprintf("[%s] %s", n.Kind, n.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", n.Kind, n.Job, n.Message)
}

// TickReport summarizes what a workshop did during one tick
type TickReport struct {
	WorkshopID    string
	Elapsed       time.Duration
	Budget        float64
	WorkPerformed float64
	ResourceUsed  map[string]float64
	EnergyUsed    float64
	Refunded      map[string]float64
	Throttled     bool
	Notices       []Notice
	Completed     []JobRef
	Status        Status
	ETA           float64
}

func newTickReport(workshopID string, elapsed time.Duration) TickReport {
	return TickReport{
		WorkshopID:   workshopID,
		Elapsed:      elapsed,
		ResourceUsed: make(map[string]float64),
		Refunded:     make(map[string]float64),
	}
}

func (r *TickReport) notice(kind NoticeKind, job JobRef, format string, args ...interface{}) {
	r.Notices = append(r.Notices, Notice{Kind: kind, Job: job, Message: fmt.Sprintf(format, args...)})
}

// HasNotice reports whether a notice of the given kind was produced
func (r TickReport) HasNotice(kind NoticeKind) bool {
	for _, n := range r.Notices {
		if n.Kind == kind {
			return true
		}
	}
	return false
}

package work

import "fmt"

// ErrStageOrderViolation indicates an attempt to move a composite job past a
// stage that is not complete for every member. This is a programming error.
type ErrStageOrderViolation struct {
	JobName     string
	Stage       int
	MemberIndex int
	MemberName  string
}

func (e *ErrStageOrderViolation) Error() string {
	if e.MemberName == "" {
		return fmt.Sprintf("composite job %s cannot leave stage %d: job is already complete", e.JobName, e.Stage)
	}
	return fmt.Sprintf("composite job %s cannot leave stage %d: member %d (%s) is incomplete",
		e.JobName, e.Stage, e.MemberIndex, e.MemberName)
}

// ErrTopologyMismatch indicates member jobs with different stage layouts
type ErrTopologyMismatch struct {
	JobName     string
	MemberIndex int
	Reason      string
}

func (e *ErrTopologyMismatch) Error() string {
	return fmt.Sprintf("composite job %s member %d does not match stage layout: %s",
		e.JobName, e.MemberIndex, e.Reason)
}

// ErrProgressMismatch indicates persisted progress that does not fit a job
type ErrProgressMismatch struct {
	JobName string
	Reason  string
}

func (e *ErrProgressMismatch) Error() string {
	return fmt.Sprintf("cannot restore progress of %s: %s", e.JobName, e.Reason)
}

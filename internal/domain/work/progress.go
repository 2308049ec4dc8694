package work

import "fmt"

// StageProgress is the persisted state of one stage
type StageProgress struct {
	Index     int
	Resource  string
	TotalWork float64
	WorkDone  float64
}

// JobProgress is the persisted state of a job
type JobProgress struct {
	CurrentIndex int
	Stages       []StageProgress
}

// CompositeProgress is the persisted state of a composite job
type CompositeProgress struct {
	StageIndex int
	Members    []JobProgress
}

// Progress captures the job's stage progress
func (j *Job) Progress() JobProgress {
	p := JobProgress{CurrentIndex: j.currentIndex, Stages: make([]StageProgress, len(j.stages))}
	for i, s := range j.stages {
		p.Stages[i] = StageProgress{
			Index:     s.index,
			Resource:  s.resource.Name(),
			TotalWork: s.totalWork,
			WorkDone:  s.workDone,
		}
	}
	return p
}

// RestoreProgress replays persisted work onto the job.
// Stages persisted as finished are forced complete; partial stages get their
// work re-applied (clamped to the stage's own total). The current index is
// re-derived so the stage invariant holds even for inconsistent input.
func (j *Job) RestoreProgress(p JobProgress) error {
	if len(p.Stages) != len(j.stages) {
		return &ErrProgressMismatch{
			JobName: j.name,
			Reason:  fmt.Sprintf("expected %d stages, got %d", len(j.stages), len(p.Stages)),
		}
	}
	for i, sp := range p.Stages {
		if sp.Index != j.stages[i].index {
			return &ErrProgressMismatch{
				JobName: j.name,
				Reason:  fmt.Sprintf("stage %d has index %d, expected %d", i, sp.Index, j.stages[i].index),
			}
		}
	}

	for i, sp := range p.Stages {
		stage := j.stages[i]
		finished := sp.TotalWork > 0 && sp.WorkDone >= sp.TotalWork
		stage.ForceComplete(finished)
		if !finished {
			stage.ApplyWork(sp.WorkDone)
		}
	}
	j.currentIndex = 0
	j.advance()
	j.remaining = nil
	j.refreshParameters()
	return nil
}

// Progress captures the composite's stage pointer and every member's progress
func (c *CompositeJob) Progress() CompositeProgress {
	p := CompositeProgress{StageIndex: c.stageIndex, Members: make([]JobProgress, len(c.jobs))}
	for i, job := range c.jobs {
		p.Members[i] = job.Progress()
	}
	return p
}

// RestoreProgress replays persisted progress onto every member.
// The restored stage pointer never lands beyond the lowest stage that still
// has incomplete members.
func (c *CompositeJob) RestoreProgress(p CompositeProgress) error {
	if len(p.Members) != len(c.jobs) {
		return &ErrProgressMismatch{
			JobName: c.name,
			Reason:  fmt.Sprintf("expected %d members, got %d", len(c.jobs), len(p.Members)),
		}
	}
	for i, mp := range p.Members {
		if err := c.jobs[i].RestoreProgress(mp); err != nil {
			return err
		}
	}

	lowest := c.lowestOpenStage()
	c.stageIndex = lowest
	if p.StageIndex >= 0 && p.StageIndex < lowest {
		c.stageIndex = p.StageIndex
	}
	c.invalidate()
	c.selectMember()
	return nil
}

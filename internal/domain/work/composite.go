package work

import (
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/pkg/utils"
)

// CompositeJob aggregates jobs that share one stage layout, e.g. one job per
// part of a kit. The kit as a whole is in a single stage at a time: it only
// moves on once that stage is complete for every member.
//
// Work is drained sequentially: it flows into the first member that has not
// finished the current stage until that member's stage completes, then into
// the next such member.
type CompositeJob struct {
	id         string
	name       string
	jobs       []*Job
	stageIndex int
	jobIndex   int

	// stageRemaining caches the merged remaining requirement per stage
	stageRemaining map[int]Requirement
}

// NewCompositeJob creates a composite from member jobs.
// All members must have the same stage indices and stage resources.
func NewCompositeJob(name string, jobs []*Job) (*CompositeJob, error) {
	if len(jobs) == 0 {
		return nil, shared.NewValidationError("jobs", fmt.Sprintf("composite job %q needs at least one member", name))
	}
	ref := jobs[0]
	for i, job := range jobs {
		if job == nil {
			return nil, &ErrTopologyMismatch{JobName: name, MemberIndex: i, Reason: "member is nil"}
		}
		if job.StageCount() != ref.StageCount() {
			return nil, &ErrTopologyMismatch{
				JobName:     name,
				MemberIndex: i,
				Reason:      fmt.Sprintf("has %d stages, expected %d", job.StageCount(), ref.StageCount()),
			}
		}
		for s := range job.stages {
			a, b := job.stages[s], ref.stages[s]
			if a.index != b.index || a.resource.Name() != b.resource.Name() {
				return nil, &ErrTopologyMismatch{
					JobName:     name,
					MemberIndex: i,
					Reason:      fmt.Sprintf("stage %d is %s, expected %s", s, a, b),
				}
			}
		}
	}

	c := &CompositeJob{
		id:   utils.GenerateID("kit", name),
		name: name,
		jobs: append([]*Job(nil), jobs...),
	}
	c.stageIndex = c.lowestOpenStage()
	c.selectMember()
	return c, nil
}

func (c *CompositeJob) ID() string             { return c.id }
func (c *CompositeJob) Name() string           { return c.name }
func (c *CompositeJob) Len() int               { return len(c.jobs) }
func (c *CompositeJob) StageCount() int        { return c.jobs[0].StageCount() }
func (c *CompositeJob) CurrentStageIndex() int { return c.stageIndex }
func (c *CompositeJob) CurrentJobIndex() int   { return c.jobIndex }

// Jobs returns the member jobs
func (c *CompositeJob) Jobs() []*Job {
	return append([]*Job(nil), c.jobs...)
}

// Complete reports whether the stage pointer moved past the last stage
func (c *CompositeJob) Complete() bool {
	return c.stageIndex >= c.StageCount()
}

// CurrentKind returns the kind of the current stage
func (c *CompositeJob) CurrentKind() TaskKind {
	return TaskKindForStage(c.stageIndex)
}

// CurrentStage returns the current stage of the first member, which carries
// the resource every member consumes in this stage. Nil once complete.
func (c *CompositeJob) CurrentStage() *WorkStage {
	stage, ok := c.jobs[0].Stage(c.stageIndex)
	if !ok {
		return nil
	}
	return stage
}

// CurrentJob returns the member currently receiving work, or nil when no
// member has work left in the current stage
func (c *CompositeJob) CurrentJob() *Job {
	if c.Complete() || c.jobIndex >= len(c.jobs) {
		return nil
	}
	return c.jobs[c.jobIndex]
}

// StageComplete reports whether stage s is complete for every member
func (c *CompositeJob) StageComplete(s int) bool {
	for _, job := range c.jobs {
		if !job.StageComplete(s) {
			return false
		}
	}
	return true
}

// AwaitingNextStage reports whether the current stage is done for every
// member and NextStage may be called
func (c *CompositeJob) AwaitingNextStage() bool {
	return !c.Complete() && c.StageComplete(c.stageIndex)
}

// WorkLeftInStage sums the work left in stage s over all members
func (c *CompositeJob) WorkLeftInStage(s int) float64 {
	left := 0.0
	for _, job := range c.jobs {
		left += job.WorkLeftInStage(s)
	}
	return left
}

// StageTotalWork sums the total work of stage s over all members
func (c *CompositeJob) StageTotalWork(s int) float64 {
	total := 0.0
	for _, job := range c.jobs {
		if stage, ok := job.Stage(s); ok {
			total += stage.TotalWork()
		}
	}
	return total
}

// StageFraction returns the completed share of stage s over all members
func (c *CompositeJob) StageFraction(s int) float64 {
	total := c.StageTotalWork(s)
	if total <= 0 {
		if c.StageComplete(s) {
			return 1
		}
		return 0
	}
	return (total - c.WorkLeftInStage(s)) / total
}

// TotalWork sums the total work of every member
func (c *CompositeJob) TotalWork() float64 {
	total := 0.0
	for _, job := range c.jobs {
		total += job.TotalWork()
	}
	return total
}

// FractionDone returns the completed share of all members' work
func (c *CompositeJob) FractionDone() float64 {
	total := c.TotalWork()
	if total <= 0 {
		if c.Complete() {
			return 1
		}
		return 0
	}
	done := 0.0
	for _, job := range c.jobs {
		done += job.WorkDone()
	}
	return done / total
}

// ParameterValue sums a parameter's current value over all members
func (c *CompositeJob) ParameterValue(name string) float64 {
	v := 0.0
	for _, job := range c.jobs {
		v += job.ParameterValue(name)
	}
	return v
}

// DoWork applies work to the current member only and returns the unused part.
// When that member finishes the current stage the pointer moves to the next
// member still in it. The stage pointer itself only moves via NextStage.
func (c *CompositeJob) DoWork(w float64) float64 {
	job := c.CurrentJob()
	if job == nil {
		return w
	}
	left := job.DoWorkInStage(c.stageIndex, w)
	if w > 0 {
		delete(c.stageRemaining, c.stageIndex)
	}
	if job.StageComplete(c.stageIndex) {
		c.selectMember()
	}
	return left
}

// NextStage advances the composite to the following stage. It fails with
// ErrStageOrderViolation unless the current stage is complete for every member.
func (c *CompositeJob) NextStage() error {
	if c.Complete() {
		return &ErrStageOrderViolation{JobName: c.name, Stage: c.stageIndex, MemberIndex: -1}
	}
	for i, job := range c.jobs {
		if !job.StageComplete(c.stageIndex) {
			return &ErrStageOrderViolation{
				JobName:     c.name,
				Stage:       c.stageIndex,
				MemberIndex: i,
				MemberName:  job.Name(),
			}
		}
	}
	c.stageIndex++
	c.invalidate()
	c.selectMember()
	return nil
}

// MustNextStage is NextStage for callers that treat an incomplete stage as an
// invariant violation; it panics instead of returning the error.
func (c *CompositeJob) MustNextStage() {
	if err := c.NextStage(); err != nil {
		panic(err)
	}
}

// SetStageComplete forces stage s complete or incomplete on every member and
// re-derives the stage pointer.
func (c *CompositeJob) SetStageComplete(s int, complete bool) {
	for _, job := range c.jobs {
		job.SetStageComplete(s, complete)
	}
	c.stageIndex = c.lowestOpenStage()
	c.invalidate()
	c.selectMember()
}

// RemainingRequirement merges the remaining requirement of every member that
// still has work in the current stage. Cached until work is applied or the
// stage changes.
func (c *CompositeJob) RemainingRequirement(calc RequirementCalculator) Requirement {
	if req, ok := c.stageRemaining[c.stageIndex]; ok {
		return req
	}
	var total Requirement
	for _, job := range c.jobs {
		if job.CurrentIndex() != c.stageIndex {
			continue
		}
		total.Update(calc.Remaining(job))
	}
	if c.stageRemaining == nil {
		c.stageRemaining = make(map[int]Requirement)
	}
	c.stageRemaining[c.stageIndex] = total
	return total
}

func (c *CompositeJob) lowestOpenStage() int {
	count := c.StageCount()
	for s := 0; s < count; s++ {
		if !c.StageComplete(s) {
			return s
		}
	}
	return count
}

func (c *CompositeJob) selectMember() {
	c.jobIndex = len(c.jobs)
	if c.Complete() {
		return
	}
	for i, job := range c.jobs {
		if !job.StageComplete(c.stageIndex) {
			c.jobIndex = i
			return
		}
	}
}

func (c *CompositeJob) invalidate() {
	c.stageRemaining = nil
	for _, job := range c.jobs {
		job.remaining = nil
	}
}

func (c *CompositeJob) String() string {
	return fmt.Sprintf("%s [%s] %d members, %.1f%%", c.name, c.CurrentKind(), len(c.jobs), c.FractionDone()*100)
}

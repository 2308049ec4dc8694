package work

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/pkg/utils"
)

// Well-known parameter names
const (
	// ParamMass is the mass accrued by the job; its slope drives resource consumption
	ParamMass = "mass"

	// ParamCost is the funds value accrued by the job
	ParamCost = "cost"
)

// Job is an ordered sequence of WorkStages plus a set of ParameterCurves.
//
// Stages live in a slice owned by the job and are addressed by index;
// there are no links between stages.
//
// State Machine:
//
//	stage 0 -> stage 1 -> ... -> stage N-1 -> COMPLETE
//
// Invariants:
//   - currentIndex is the lowest index of a stage that is not complete,
//     or len(stages) when every stage is complete
//   - parameter values always reflect FractionDone()
type Job struct {
	id           string
	name         string
	stages       []*WorkStage
	parameters   map[string]*ParameterCurve
	values       map[string]float64
	currentIndex int
	totalWork    float64

	// remaining caches the requirement to finish the current stage;
	// cleared whenever positive work is applied
	remaining *Requirement
}

// NewJob creates a job from stages (sorted by index, indices must be unique)
// and named parameter curves.
func NewJob(name string, stages []*WorkStage, parameters map[string]*ParameterCurve) (*Job, error) {
	if len(stages) == 0 {
		return nil, shared.NewValidationError("stages", fmt.Sprintf("job %q needs at least one stage", name))
	}

	sorted := make([]*WorkStage, len(stages))
	copy(sorted, stages)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].index < sorted[j].index })
	for i, s := range sorted {
		if s == nil {
			return nil, shared.NewValidationError("stages", fmt.Sprintf("job %q has a nil stage", name))
		}
		if i > 0 && s.index == sorted[i-1].index {
			return nil, shared.NewValidationError("stages", fmt.Sprintf("job %q has duplicate stage index %d", name, s.index))
		}
	}

	params := make(map[string]*ParameterCurve, len(parameters))
	for k, v := range parameters {
		if v != nil {
			params[k] = v
		}
	}

	j := &Job{
		id:         utils.GenerateID("job", name),
		name:       name,
		stages:     sorted,
		parameters: params,
		values:     make(map[string]float64, len(params)),
	}
	for _, s := range sorted {
		j.totalWork += s.totalWork
	}
	j.advance()
	j.refreshParameters()
	return j, nil
}

func (j *Job) ID() string         { return j.id }
func (j *Job) Name() string       { return j.name }
func (j *Job) TotalWork() float64 { return j.totalWork }
func (j *Job) StageCount() int    { return len(j.stages) }
func (j *Job) CurrentIndex() int  { return j.currentIndex }
func (j *Job) Complete() bool     { return j.currentIndex >= len(j.stages) }

// Stages returns the job's stages in index order
func (j *Job) Stages() []*WorkStage {
	out := make([]*WorkStage, len(j.stages))
	copy(out, j.stages)
	return out
}

// Stage returns the stage at position s
func (j *Job) Stage(s int) (*WorkStage, bool) {
	if s < 0 || s >= len(j.stages) {
		return nil, false
	}
	return j.stages[s], true
}

// CurrentStage returns the active stage, or nil once the job is complete
func (j *Job) CurrentStage() *WorkStage {
	if j.Complete() {
		return nil
	}
	return j.stages[j.currentIndex]
}

// StageComplete reports whether stage s is complete.
// Positions past the last stage count as complete; negative ones never do.
func (j *Job) StageComplete(s int) bool {
	if s < 0 {
		return false
	}
	if s >= len(j.stages) {
		return true
	}
	return j.stages[s].Complete()
}

// WorkLeftInStage returns the work still needed by stage s
func (j *Job) WorkLeftInStage(s int) float64 {
	if stage, ok := j.Stage(s); ok {
		return stage.WorkLeft()
	}
	return 0
}

// WorkDone returns the work applied to stages up to and including the current one
func (j *Job) WorkDone() float64 {
	done := 0.0
	for i := 0; i <= j.currentIndex && i < len(j.stages); i++ {
		done += j.stages[i].workDone
	}
	return done
}

// FractionDone returns WorkDone / TotalWork
func (j *Job) FractionDone() float64 {
	if j.totalWork <= 0 {
		if j.Complete() {
			return 1
		}
		return 0
	}
	return j.WorkDone() / j.totalWork
}

// Parameter returns the named curve
func (j *Job) Parameter(name string) (*ParameterCurve, bool) {
	c, ok := j.parameters[name]
	return c, ok
}

// ParameterValue returns the named curve evaluated at the current fraction
func (j *Job) ParameterValue(name string) float64 {
	return j.values[name]
}

// ParameterNames returns the names of all curves in lexical order
func (j *Job) ParameterNames() []string {
	names := make([]string, 0, len(j.parameters))
	for name := range j.parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DoWork applies work to the current stage and returns the unused part.
// When the stage completes the job moves to the next stage; work never
// spills over into it within a single call.
func (j *Job) DoWork(w float64) float64 {
	if j.Complete() {
		return w
	}
	if w <= 0 {
		return 0
	}
	left := j.stages[j.currentIndex].ApplyWork(w)
	j.remaining = nil
	j.advance()
	j.refreshParameters()
	return left
}

// DoWorkInStage applies work only if the job's current stage is s.
// Otherwise nothing is done and all of w is returned.
func (j *Job) DoWorkInStage(s int, w float64) float64 {
	if j.currentIndex != s {
		return w
	}
	return j.DoWork(w)
}

// SetStageComplete forces stages complete or incomplete.
//
// Marking stage s complete completes every stage from the current one up to s.
// Marking it incomplete resets s and every later stage. s is clamped to the
// valid stage range.
func (j *Job) SetStageComplete(s int, complete bool) {
	s = int(utils.Clamp(float64(s), 0, float64(len(j.stages)-1)))
	if complete {
		for i := j.currentIndex; i <= s; i++ {
			j.stages[i].ForceComplete(true)
		}
		j.advance()
	} else {
		for i := s; i < len(j.stages); i++ {
			j.stages[i].ForceComplete(false)
		}
		if s < j.currentIndex {
			j.currentIndex = s
		}
	}
	j.remaining = nil
	j.refreshParameters()
}

// advance moves currentIndex to the lowest incomplete stage at or after it
func (j *Job) advance() {
	for j.currentIndex < len(j.stages) && j.stages[j.currentIndex].Complete() {
		j.currentIndex++
	}
}

func (j *Job) refreshParameters() {
	f := j.FractionDone()
	for name, curve := range j.parameters {
		j.values[name] = curve.Evaluate(f)
	}
}

func (j *Job) String() string {
	return fmt.Sprintf("%s (%d/%d stages, %.1f%%)", j.name, j.currentIndex, len(j.stages), j.FractionDone()*100)
}

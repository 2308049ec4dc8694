package work

import (
	"fmt"

	"github.com/andrescamacho/groundworks-go/pkg/utils"
)

// Requirement is the cost of performing a quantum of work.
type Requirement struct {
	Work           float64
	Energy         float64
	Resource       ResourceKind
	ResourceAmount float64
	ResourceMass   float64
}

// IsZero reports whether the requirement asks for nothing
func (r Requirement) IsZero() bool {
	return r.Work <= 0 && r.Energy <= 0 && r.ResourceAmount <= 0
}

// Update adds other into r. Both must consume the same resource unless one of
// them has none yet; mismatching resources leave r untouched and return false.
func (r *Requirement) Update(other Requirement) bool {
	if !r.Resource.IsZero() && !other.Resource.IsZero() && r.Resource.Name() != other.Resource.Name() {
		return false
	}
	if r.Resource.IsZero() {
		r.Resource = other.Resource
	}
	r.Work += other.Work
	r.Energy += other.Energy
	r.ResourceAmount += other.ResourceAmount
	r.ResourceMass += other.ResourceMass
	return true
}

// Clear resets the requirement to zero
func (r *Requirement) Clear() {
	*r = Requirement{}
}

func (r Requirement) String() string {
	return fmt.Sprintf("work=%.2f %s=%.3f (mass %.3f) energy=%.3f",
		r.Work, r.Resource.Name(), r.ResourceAmount, r.ResourceMass, r.Energy)
}

// RequirementCalculator converts work into resource mass, resource units and
// energy using a job's mass-accrual curve. It holds no state besides the name
// of the curve it reads.
type RequirementCalculator struct {
	massParameter string
}

// NewRequirementCalculator creates a calculator that reads the ParamMass curve
func NewRequirementCalculator() RequirementCalculator {
	return RequirementCalculator{massParameter: ParamMass}
}

// ForWork returns what it costs to apply candidate work to the job's current stage.
//
//  1. candidate is clamped to the current stage's work left
//  2. f0 = FractionDone, f1 = f0 + work/TotalWork
//  3. mass = max(curve(f1) - curve(f0), 0)
//  4. units = mass / density, energy = mass * energy per mass
func (c RequirementCalculator) ForWork(job *Job, candidate float64) Requirement {
	stage := job.CurrentStage()
	if stage == nil || candidate <= 0 {
		return Requirement{}
	}

	w := utils.Min(candidate, stage.WorkLeft())
	req := Requirement{Work: w, Resource: stage.Resource()}
	if w <= 0 || job.TotalWork() <= 0 {
		return req
	}

	curve, ok := job.Parameter(c.mass())
	if !ok {
		return req
	}

	f0 := job.FractionDone()
	f1 := f0 + w/job.TotalWork()
	mass := utils.Max(curve.Evaluate(f1)-curve.Evaluate(f0), 0)

	req.ResourceMass = mass
	req.ResourceAmount = stage.Resource().UnitsForMass(mass)
	req.Energy = stage.Resource().EnergyForMass(mass)
	return req
}

// Remaining returns the requirement to finish the job's current stage.
// The result is memoized on the job until positive work is applied to it.
func (c RequirementCalculator) Remaining(job *Job) Requirement {
	if job.remaining != nil {
		return *job.remaining
	}
	var req Requirement
	if stage := job.CurrentStage(); stage != nil {
		req = c.ForWork(job, stage.WorkLeft())
	}
	job.remaining = &req
	return req
}

func (c RequirementCalculator) mass() string {
	if c.massParameter == "" {
		return ParamMass
	}
	return c.massParameter
}

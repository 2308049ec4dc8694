package work

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequirementCalculator_ForWork(t *testing.T) {
	// Material: density 2, 0.5 energy per mass; mass grows 0 -> 10 over 500 work
	calc := NewRequirementCalculator()
	job := newKitPart(t, "beam", 200, 300, 10)

	req := calc.ForWork(job, 100)

	assert.InDelta(t, 100.0, req.Work, 1e-12)
	assert.InDelta(t, 2.0, req.ResourceMass, 1e-12)
	assert.InDelta(t, 1.0, req.ResourceAmount, 1e-12)
	assert.InDelta(t, 1.0, req.Energy, 1e-12)
	assert.Equal(t, "Material", req.Resource.Name())
}

func TestRequirementCalculator_ClampsToStageWorkLeft(t *testing.T) {
	calc := NewRequirementCalculator()
	job := newKitPart(t, "beam", 200, 300, 10)
	job.DoWork(150)

	req := calc.ForWork(job, 1000)

	assert.InDelta(t, 50.0, req.Work, 1e-12)
	assert.InDelta(t, 1.0, req.ResourceMass, 1e-12)
}

func TestRequirementCalculator_NonNegativeMass(t *testing.T) {
	// A decreasing curve would yield negative mass; it is clamped to zero.
	stage, _ := NewWorkStage(0, testMaterial, 100)
	job, err := NewJob("shrink", []*WorkStage{stage}, map[string]*ParameterCurve{ParamMass: LinearCurve(5, 0)})
	assert.NoError(t, err)

	req := NewRequirementCalculator().ForWork(job, 10)
	assert.Equal(t, 0.0, req.ResourceMass)
	assert.Equal(t, 0.0, req.ResourceAmount)
	assert.Equal(t, 0.0, req.Energy)
	assert.InDelta(t, 10.0, req.Work, 1e-12)
}

func TestRequirementCalculator_RemainingIsMemoized(t *testing.T) {
	calc := NewRequirementCalculator()
	job := newKitPart(t, "beam", 200, 300, 10)

	first := calc.Remaining(job)
	assert.NotNil(t, job.remaining)
	assert.InDelta(t, 200.0, first.Work, 1e-12)
	assert.InDelta(t, 4.0, first.ResourceMass, 1e-12)

	// zero work keeps the cache, positive work clears it
	job.DoWork(0)
	assert.NotNil(t, job.remaining)
	job.DoWork(100)
	assert.Nil(t, job.remaining)
	assert.InDelta(t, 100.0, calc.Remaining(job).Work, 1e-12)
}

func TestRequirement_UpdateAndClear(t *testing.T) {
	var total Requirement
	assert.True(t, total.Update(Requirement{Work: 1, Energy: 2, Resource: testMaterial, ResourceAmount: 3, ResourceMass: 6}))
	assert.True(t, total.Update(Requirement{Work: 1, Energy: 2, Resource: testMaterial, ResourceAmount: 3, ResourceMass: 6}))
	assert.False(t, total.Update(Requirement{Work: 1, Resource: testParts}))

	assert.Equal(t, 2.0, total.Work)
	assert.Equal(t, 4.0, total.Energy)
	assert.Equal(t, 6.0, total.ResourceAmount)

	total.Clear()
	assert.True(t, total.IsZero())
	assert.True(t, total.Resource.IsZero())
}

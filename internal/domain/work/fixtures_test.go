package work

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testMaterial = MustResourceKind("Material", 2.0, 0.5)
	testParts    = MustResourceKind("SpecializedParts", 4.0, 1.0)
)

// newKitPart builds a two-stage job (assembly + construction) whose mass
// grows linearly from 0 to mass over the whole job.
func newKitPart(t *testing.T, name string, assembly, construction, mass float64) *Job {
	t.Helper()
	a, err := NewWorkStage(0, testMaterial, assembly)
	require.NoError(t, err)
	c, err := NewWorkStage(1, testParts, construction)
	require.NoError(t, err)
	job, err := NewJob(name, []*WorkStage{a, c}, map[string]*ParameterCurve{
		ParamMass: LinearCurve(0, mass),
		ParamCost: LinearCurve(0, mass*100),
	})
	require.NoError(t, err)
	return job
}

func newKit(t *testing.T, name string, parts ...*Job) *CompositeJob {
	t.Helper()
	kit, err := NewCompositeJob(name, parts)
	require.NoError(t, err)
	return kit
}

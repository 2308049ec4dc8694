package workshop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

func TestSettings_DistanceEfficiency(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		distance float64
		want     float64
	}{
		{0, 1},
		{50, 1},
		{125, 0.55},
		{200, 0.1},
		{200.01, 0},
		{1000, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, s.DistanceEfficiency(tt.distance), 1e-9, "distance %v", tt.distance)
	}
}

func TestSettings_DistanceEfficiencyIsMonotonic(t *testing.T) {
	s := DefaultSettings()
	prev := s.DistanceEfficiency(0)
	for d := 1.0; d <= 250; d++ {
		got := s.DistanceEfficiency(d)
		assert.LessOrEqual(t, got, prev, "distance %v", d)
		prev = got
	}
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"negative min distance", func(s *Settings) { s.MinDistance = -1 }},
		{"max below min", func(s *Settings) { s.MaxDistance = 10 }},
		{"zero min efficiency", func(s *Settings) { s.MinEfficiency = 0 }},
		{"energy threshold above one", func(s *Settings) { s.EnergyShutdownThreshold = 1.5 }},
		{"hold threshold of one", func(s *Settings) { s.ResourceHoldThreshold = 1 }},
		{"no energy resource", func(s *Settings) { s.EnergyResource = "" }},
		{"no steps", func(s *Settings) { s.MaxStepsPerTick = 0 }},
	}

	assert.NoError(t, DefaultSettings().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestCanWorkKind(t *testing.T) {
	assert.True(t, CanWorkKind(work.TaskKindAssembly, DeployStateIdle))
	assert.True(t, CanWorkKind(work.TaskKindAssembly, DeployStateDeployed))
	assert.False(t, CanWorkKind(work.TaskKindAssembly, DeployStateDeploying))
	assert.False(t, CanWorkKind(work.TaskKindConstruction, DeployStateIdle))
	assert.False(t, CanWorkKind(work.TaskKindConstruction, DeployStateDeploying))
	assert.True(t, CanWorkKind(work.TaskKindConstruction, DeployStateDeployed))
}

func TestParseDeployState(t *testing.T) {
	state, err := ParseDeployState(" deployed ")
	assert.NoError(t, err)
	assert.Equal(t, DeployStateDeployed, state)

	state, err = ParseDeployState("")
	assert.NoError(t, err)
	assert.Equal(t, DeployStateIdle, state)

	_, err = ParseDeployState("flying")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	r := NewRegistry()
	r.Register(f.workshop)

	got, err := r.Get("ws-1")
	assert.NoError(t, err)
	assert.Same(t, f.workshop, got)
	assert.Equal(t, 1, r.Len())
	assert.Len(t, r.All(), 1)

	r.Unregister("ws-1")
	_, err = r.Get("ws-1")
	var notFound *ErrWorkshopNotFound
	assert.ErrorAs(t, err, &notFound)
}

package scenario

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

const outpostScenario = `
name: outpost
resources:
  - name: Material
    density: 2
    energy_per_mass: 0.5
  - name: SpecializedParts
    density: 4
    energy_per_mass: 1
pool:
  - resource: Material
    stock: 1000
  - resource: ElectricCharge
    stock: 100
    capacity: 500
    regen_per_second: 1
hosts:
  - id: hab-1
    name: Habitat
    position: {x: 10, y: 0, z: 0}
    kit:
      name: Habitat kit
      parts:
        - name: Module
          count: 2
          stages:
            - kind: ASSEMBLY
              resource: Material
              work: 3600
            - kind: CONSTRUCTION
              resource: SpecializedParts
              work: 7200
          curves:
            mass:
              points:
                - {at: 0, value: 0}
                - {at: 1, value: 1500}
  - id: tower-1
    position: {x: 400, y: 0, z: 0}
    deploy_state: deploying
    deploy_seconds: 60
    kit:
      parts:
        - name: Mast
          stages:
            - {kind: ASSEMBLY, resource: Material, work: 600}
            - {kind: CONSTRUCTION, resource: SpecializedParts, work: 600}
vessels:
  - id: crawler
    position: {x: 0, y: 0, z: 0}
    workforce: 3
    max_workforce: 5
    workshops:
      - id: ws-main
        name: Main workshop
        kinds: [ASSEMBLY, CONSTRUCTION]
        queue: [hab-1]
        autostart: true
      - id: ws-builder
        kinds: [construction]
        discover: true
`

func loadOutpost(t *testing.T) *World {
	t.Helper()
	fsys := fstest.MapFS{"world.yaml": &fstest.MapFile{Data: []byte(outpostScenario)}}
	world, err := NewLoader(fsys).Load(context.Background(), "world.yaml")
	require.NoError(t, err)
	return world
}

func TestLoader_BuildsWorld(t *testing.T) {
	// Act
	world := loadOutpost(t)

	// Assert
	assert.Equal(t, "outpost", world.Name())
	assert.Equal(t, []string{"Material", "SpecializedParts"}, world.Catalog().Names())
	assert.Equal(t, 1000.0, world.Pool().Stock("Material"))

	hab, ok := world.Sites().Site("hab-1")
	require.True(t, ok)
	assert.Equal(t, "Habitat", hab.Name())
	assert.Equal(t, workshop.DeployStateIdle, hab.DeployState())
	assert.Equal(t, 2, hab.Job().Len())
	assert.Equal(t, "Habitat kit", hab.Job().Name())
	assert.Equal(t, "Module #1", hab.Job().Jobs()[0].Name())
	assert.InDelta(t, 3600.0*2, hab.Job().StageTotalWork(0), 1e-9)

	tower, ok := world.Sites().Site("tower-1")
	require.True(t, ok)
	assert.Equal(t, workshop.DeployStateDeploying, tower.DeployState())
	assert.Equal(t, time.Minute, tower.DeployTimeLeft())
	assert.Equal(t, "tower-1", tower.Job().Name())

	provider, ok := world.Provider("ws-main")
	require.True(t, ok)
	assert.Equal(t, 3.0, provider.Workforce())
	_, ok = world.Provider("missing")
	assert.False(t, ok)
}

func TestWorld_BuildWorkshops(t *testing.T) {
	// Arrange
	world := loadOutpost(t)
	registry := workshop.NewRegistry()

	// Act
	autostart, err := world.BuildWorkshops(workshop.DefaultSettings(), shared.NewMockClock(time.Time{}), registry)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"ws-main"}, autostart)
	assert.Equal(t, 2, registry.Len())

	main, err := registry.Get("ws-main")
	require.NoError(t, err)
	assert.Equal(t, []workshop.JobRef{"hab-1"}, main.Queue())
	assert.Equal(t, 3.0, main.Workforce())
	assert.Equal(t, 5.0, main.MaxWorkforce())

	builder, err := registry.Get("ws-builder")
	require.NoError(t, err)
	assert.Equal(t, []work.TaskKind{work.TaskKindConstruction}, builder.Kinds())
	assert.Empty(t, builder.Queue(), "assembly-stage kits and out-of-range sites are not discovered")
}

func TestWorld_AdvanceDeploysAndRegenerates(t *testing.T) {
	world := loadOutpost(t)

	world.Advance(30 * time.Second)
	tower, _ := world.Sites().Site("tower-1")
	assert.Equal(t, workshop.DeployStateDeploying, tower.DeployState())
	assert.Equal(t, 130.0, world.Pool().Stock("ElectricCharge"))

	world.Advance(30 * time.Second)
	assert.Equal(t, workshop.DeployStateDeployed, tower.DeployState())
}

func TestLoader_RejectsInvalidScenarios(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "name: [unterminated"},
		{"missing name", "resources: [{name: Material, density: 1}]"},
		{"no resources", "name: x"},
		{"zero density", "name: x\nresources: [{name: Material, density: 0}]"},
		{"unknown resource", `
name: x
resources: [{name: Material, density: 1}]
hosts:
  - id: h
    kit:
      parts:
        - name: p
          stages: [{kind: ASSEMBLY, resource: Unobtainium, work: 1}]
`},
		{"bad task kind", `
name: x
resources: [{name: Material, density: 1}]
hosts:
  - id: h
    kit:
      parts:
        - name: p
          stages: [{kind: DEMOLITION, resource: Material, work: 1}]
`},
		{"duplicate host", `
name: x
resources: [{name: Material, density: 1}]
hosts:
  - id: h
    kit: {parts: [{name: p, stages: [{kind: ASSEMBLY, resource: Material, work: 1}]}]}
  - id: h
    kit: {parts: [{name: p, stages: [{kind: ASSEMBLY, resource: Material, work: 1}]}]}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestHostRegistry(t *testing.T) {
	world := loadOutpost(t)
	hosts := world.Sites()

	all := hosts.All()
	require.Len(t, all, 2)
	assert.Equal(t, "hab-1", all[0].ID())

	hab, _ := hosts.Site("hab-1")
	hab.Destroy()
	resolved, ok := hosts.Resolve("hab-1")
	require.True(t, ok)
	assert.False(t, resolved.Recheck())

	hosts.Remove("hab-1")
	_, ok = hosts.Resolve("hab-1")
	assert.False(t, ok)
	assert.Error(t, hosts.Register(NewSiteHost("tower-1", "", shared.Position{}, nil)))
}

func TestLoader_ShippedScenario(t *testing.T) {
	// Arrange
	path := filepath.Join("..", "..", "..", "configs", "scenarios", "outpost.yaml")
	registry := workshop.NewRegistry()

	// Act
	world, err := NewLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	autostart, err := world.BuildWorkshops(workshop.DefaultSettings(), shared.NewMockClock(time.Time{}), registry)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"ws-fab"}, autostart)
	assert.Equal(t, 4000.0, world.Pool().Stock("ElectricCharge"))

	hab, ok := world.Sites().Site("hab-1")
	require.True(t, ok)
	assert.Equal(t, 3, hab.Job().Len(), "hull plus two life support parts")

	fab, err := registry.Get("ws-fab")
	require.NoError(t, err)
	assert.Equal(t, []workshop.JobRef{"hab-1", "dome-2"}, fab.Queue(), "beacon-3 is out of reach")

	yard, err := registry.Get("ws-yard")
	require.NoError(t, err)
	assert.Empty(t, yard.Queue())
}

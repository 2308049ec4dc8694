package workshop

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

const energyResource = "ElectricCharge"

var (
	// one unit per mass, half an energy unit per mass
	testMaterial = work.MustResourceKind("Material", 1.0, 0.5)
	testParts    = work.MustResourceKind("SpecializedParts", 1.0, 0.5)
)

type fakeHost struct {
	id       string
	name     string
	position shared.Position
	job      *work.CompositeJob
	state    DeployState
	gone     bool
}

func (h *fakeHost) ID() string                { return h.id }
func (h *fakeHost) Name() string              { return h.name }
func (h *fakeHost) Position() shared.Position { return h.position }
func (h *fakeHost) Recheck() bool             { return !h.gone }
func (h *fakeHost) Job() *work.CompositeJob   { return h.job }
func (h *fakeHost) DeployState() DeployState  { return h.state }

type fakeHosts map[string]*fakeHost

func (f fakeHosts) Resolve(id string) (Host, bool) {
	h, ok := f[id]
	if !ok {
		return nil, false
	}
	return h, true
}

func (f fakeHosts) add(h *fakeHost) JobRef {
	f[h.id] = h
	return JobRef(h.id)
}

// fakePool grants up to its stock; resources without a stock entry are unlimited
type fakePool struct {
	stock     map[string]float64
	requested map[string]float64
	refunded  map[string]float64
}

func newFakePool(stock map[string]float64) *fakePool {
	if stock == nil {
		stock = map[string]float64{}
	}
	return &fakePool{stock: stock, requested: map[string]float64{}, refunded: map[string]float64{}}
}

func (p *fakePool) Request(resource string, amount float64) float64 {
	p.requested[resource] += amount
	have, limited := p.stock[resource]
	if !limited {
		return amount
	}
	granted := amount
	if have < granted {
		granted = have
	}
	p.stock[resource] = have - granted
	return granted
}

func (p *fakePool) Refund(resource string, amount float64) {
	p.refunded[resource] += amount
	if _, limited := p.stock[resource]; limited {
		p.stock[resource] += amount
	}
}

// newKit builds a kit of parts with the given assembly/construction work.
// Mass grows linearly with work, one mass unit per unit of work.
func newKit(t *testing.T, name string, parts int, assembly, construction float64) *work.CompositeJob {
	t.Helper()
	jobs := make([]*work.Job, 0, parts)
	for i := 0; i < parts; i++ {
		a, err := work.NewWorkStage(0, testMaterial, assembly)
		require.NoError(t, err)
		c, err := work.NewWorkStage(1, testParts, construction)
		require.NoError(t, err)
		job, err := work.NewJob(name, []*work.WorkStage{a, c}, map[string]*work.ParameterCurve{
			work.ParamMass: work.LinearCurve(0, assembly+construction),
		})
		require.NoError(t, err)
		jobs = append(jobs, job)
	}
	kit, err := work.NewCompositeJob(name, jobs)
	require.NoError(t, err)
	return kit
}

func newHost(t *testing.T, id string, x float64, kit *work.CompositeJob) *fakeHost {
	t.Helper()
	return &fakeHost{
		id:       id,
		name:     id,
		position: shared.NewPosition(x, 0, 0),
		job:      kit,
		state:    DeployStateDeployed,
	}
}

type workshopFixture struct {
	workshop *Workshop
	hosts    fakeHosts
	pool     *fakePool
	clock    *shared.MockClock
}

func newWorkshopFixture(t *testing.T, workforce float64, stock map[string]float64, kinds ...work.TaskKind) *workshopFixture {
	t.Helper()
	hosts := fakeHosts{}
	pool := newFakePool(stock)
	clock := shared.NewMockClock(time.Time{})
	ws, err := NewWorkshop("ws-1", "Workshop", kinds, DefaultSettings(), hosts, pool, clock)
	require.NoError(t, err)
	ws.SetWorkforce(workforce, 0)
	return &workshopFixture{workshop: ws, hosts: hosts, pool: pool, clock: clock}
}

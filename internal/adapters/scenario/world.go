package scenario

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/adapters/pool"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// World is a loaded scenario: resources, sites, the resource pool and the
// vessels carrying workshops. It is the Environment workshops tick in.
type World struct {
	name      string
	catalog   *work.ResourceCatalog
	hosts     *HostRegistry
	pool      *pool.MemoryPool
	vessels   map[string]*Vessel
	providers map[string]*Vessel
	workshops []workshopSeed
}

type workshopSeed struct {
	vessel *Vessel
	doc    WorkshopDocument
}

func (w *World) Name() string                   { return w.name }
func (w *World) Catalog() *work.ResourceCatalog { return w.catalog }
func (w *World) Sites() *HostRegistry           { return w.hosts }
func (w *World) Pool() *pool.MemoryPool         { return w.pool }
func (w *World) Hosts() workshop.HostDirectory  { return w.hosts }

// Vessel returns the vessel with the given id
func (w *World) Vessel(id string) (*Vessel, bool) {
	v, ok := w.vessels[id]
	return v, ok
}

// Provider returns the vessel hosting a workshop
func (w *World) Provider(workshopID string) (workshop.WorkforceProvider, bool) {
	v, ok := w.providers[workshopID]
	if !ok {
		return nil, false
	}
	return v, true
}

// Advance regenerates the pool and progresses site deployment
func (w *World) Advance(elapsed time.Duration) {
	w.pool.Advance(elapsed)
	w.hosts.Advance(elapsed)
}

// BuildWorkshops creates every workshop declared in the scenario, seeds its
// queue and registers it. It returns the ids of workshops marked autostart;
// starting them is left to the caller so persisted state can be restored first.
func (w *World) BuildWorkshops(settings workshop.Settings, clock shared.Clock, registry *workshop.Registry) ([]string, error) {
	var autostart []string
	for _, seed := range w.workshops {
		kinds, err := parseKinds(seed.doc.Kinds)
		if err != nil {
			return nil, fmt.Errorf("workshop %s: %w", seed.doc.ID, err)
		}
		ws, err := workshop.NewWorkshop(seed.doc.ID, seed.doc.Name, kinds, settings, w.hosts, w.pool, clock)
		if err != nil {
			return nil, fmt.Errorf("workshop %s: %w", seed.doc.ID, err)
		}
		ws.UpdateFromProvider(seed.vessel)

		for _, ref := range seed.doc.Queue {
			if err := ws.Enqueue(workshop.JobRef(ref)); err != nil {
				return nil, fmt.Errorf("workshop %s: %w", seed.doc.ID, err)
			}
		}
		if seed.doc.Discover {
			ws.DiscoverJobs(w.hosts.All())
		}

		registry.Register(ws)
		if seed.doc.Autostart {
			autostart = append(autostart, ws.ID())
		}
	}
	return autostart, nil
}

// Build turns a validated document into a World
func Build(doc Document) (*World, error) {
	world := &World{
		name:      doc.Name,
		hosts:     NewHostRegistry(),
		pool:      pool.NewMemoryPool(),
		vessels:   make(map[string]*Vessel),
		providers: make(map[string]*Vessel),
	}

	catalog, err := work.NewResourceCatalog()
	if err != nil {
		return nil, err
	}
	for _, r := range doc.Resources {
		kind, err := work.NewResourceKind(r.Name, r.Density, r.EnergyPerMass)
		if err != nil {
			return nil, err
		}
		if err := catalog.Register(kind); err != nil {
			return nil, err
		}
	}
	world.catalog = catalog

	for _, r := range doc.Pool {
		if err := world.pool.Define(r.Resource, pool.Reservoir{
			Stock:    r.Stock,
			Capacity: r.Capacity,
			Regen:    r.RegenPerSecond,
		}); err != nil {
			return nil, err
		}
	}

	for _, h := range doc.Hosts {
		host, err := buildHost(h, catalog)
		if err != nil {
			return nil, fmt.Errorf("host %s: %w", h.ID, err)
		}
		if err := world.hosts.Register(host); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool)
	for _, v := range doc.Vessels {
		if _, exists := world.vessels[v.ID]; exists {
			return nil, fmt.Errorf("vessel %s declared twice", v.ID)
		}
		vessel := NewVessel(v.ID, v.Name, toPosition(v.Position), v.Workforce, v.MaxWorkforce)
		world.vessels[v.ID] = vessel
		for _, ws := range v.Workshops {
			if seen[ws.ID] {
				return nil, fmt.Errorf("workshop %s declared twice", ws.ID)
			}
			seen[ws.ID] = true
			world.providers[ws.ID] = vessel
			world.workshops = append(world.workshops, workshopSeed{vessel: vessel, doc: ws})
		}
	}
	return world, nil
}

func buildHost(doc HostDocument, catalog *work.ResourceCatalog) (*SiteHost, error) {
	kit, err := buildKit(doc, catalog)
	if err != nil {
		return nil, err
	}
	host := NewSiteHost(doc.ID, doc.Name, toPosition(doc.Position), kit)

	state, err := workshop.ParseDeployState(doc.DeployState)
	if err != nil {
		return nil, err
	}
	switch state {
	case workshop.DeployStateDeployed:
		host.Deploy(0)
	case workshop.DeployStateDeploying:
		host.Deploy(shared.SecondsToDuration(doc.DeploySeconds))
	}
	return host, nil
}

func buildKit(doc HostDocument, catalog *work.ResourceCatalog) (*work.CompositeJob, error) {
	var jobs []*work.Job
	for _, part := range doc.Kit.Parts {
		count := part.Count
		if count == 0 {
			count = 1
		}
		for i := 1; i <= count; i++ {
			name := part.Name
			if count > 1 {
				name = fmt.Sprintf("%s #%d", part.Name, i)
			}
			job, err := buildJob(name, part, catalog)
			if err != nil {
				return nil, err
			}
			jobs = append(jobs, job)
		}
	}

	name := doc.Kit.Name
	if name == "" {
		name = doc.Name
	}
	if name == "" {
		name = doc.ID
	}
	return work.NewCompositeJob(name, jobs)
}

func buildJob(name string, part PartDocument, catalog *work.ResourceCatalog) (*work.Job, error) {
	stages := make([]*work.WorkStage, 0, len(part.Stages))
	for _, s := range part.Stages {
		kind, err := work.ParseTaskKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part.Name, err)
		}
		resource, ok := catalog.Lookup(s.Resource)
		if !ok {
			return nil, fmt.Errorf("part %s: unknown resource %q", part.Name, s.Resource)
		}
		stage, err := work.NewWorkStage(kind.StageIndex(), resource, s.Work)
		if err != nil {
			return nil, fmt.Errorf("part %s: %w", part.Name, err)
		}
		stages = append(stages, stage)
	}

	curves := make(map[string]*work.ParameterCurve, len(part.Curves))
	for param, c := range part.Curves {
		mode, err := work.ParseInterpolation(c.Interpolation)
		if err != nil {
			return nil, fmt.Errorf("part %s curve %s: %w", part.Name, param, err)
		}
		points := make([]work.ControlPoint, 0, len(c.Points))
		for _, p := range c.Points {
			points = append(points, work.ControlPoint{Fraction: p.At, Value: p.Value})
		}
		curve, err := work.NewParameterCurve(mode, points...)
		if err != nil {
			return nil, fmt.Errorf("part %s curve %s: %w", part.Name, param, err)
		}
		curves[param] = curve
	}

	return work.NewJob(name, stages, curves)
}

func parseKinds(names []string) ([]work.TaskKind, error) {
	kinds := make([]work.TaskKind, 0, len(names))
	for _, n := range names {
		kind, err := work.ParseTaskKind(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func toPosition(p PositionDocument) shared.Position {
	return shared.NewPosition(p.X, p.Y, p.Z)
}

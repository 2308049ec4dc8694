package scenario

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// SiteHost is a construction site: a position, a kit and its deployment state
type SiteHost struct {
	id         string
	name       string
	position   shared.Position
	job        *work.CompositeJob
	state      workshop.DeployState
	deployLeft time.Duration
	destroyed  bool
}

// NewSiteHost creates a packed (IDLE) site
func NewSiteHost(id, name string, position shared.Position, job *work.CompositeJob) *SiteHost {
	if name == "" {
		name = id
	}
	return &SiteHost{
		id:       id,
		name:     name,
		position: position,
		job:      job,
		state:    workshop.DeployStateIdle,
	}
}

func (h *SiteHost) ID() string                        { return h.id }
func (h *SiteHost) Name() string                      { return h.name }
func (h *SiteHost) Position() shared.Position         { return h.position }
func (h *SiteHost) Job() *work.CompositeJob           { return h.job }
func (h *SiteHost) DeployState() workshop.DeployState { return h.state }
func (h *SiteHost) Recheck() bool                     { return !h.destroyed && h.job != nil }
func (h *SiteHost) DeployTimeLeft() time.Duration     { return h.deployLeft }
func (h *SiteHost) MoveTo(position shared.Position)   { h.position = position }

// Destroy removes the site from the world; workshops drop it on their next tick
func (h *SiteHost) Destroy() {
	h.destroyed = true
}

// Deploy starts unfolding the kit. A non-positive duration deploys at once.
func (h *SiteHost) Deploy(duration time.Duration) {
	if duration <= 0 {
		h.state = workshop.DeployStateDeployed
		h.deployLeft = 0
		return
	}
	h.state = workshop.DeployStateDeploying
	h.deployLeft = duration
}

// Pack folds the kit back up
func (h *SiteHost) Pack() {
	h.state = workshop.DeployStateIdle
	h.deployLeft = 0
}

func (h *SiteHost) advance(elapsed time.Duration) {
	if h.state != workshop.DeployStateDeploying {
		return
	}
	h.deployLeft -= elapsed
	if h.deployLeft <= 0 {
		h.deployLeft = 0
		h.state = workshop.DeployStateDeployed
	}
}

// HostRegistry is an in-memory HostDirectory
type HostRegistry struct {
	mu    sync.RWMutex
	hosts map[string]*SiteHost
}

// NewHostRegistry creates an empty registry
func NewHostRegistry() *HostRegistry {
	return &HostRegistry{hosts: make(map[string]*SiteHost)}
}

// Register adds a site; ids must be unique
func (r *HostRegistry) Register(h *SiteHost) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.hosts[h.id]; exists {
		return fmt.Errorf("host %s already registered", h.id)
	}
	r.hosts[h.id] = h
	return nil
}

// Remove deletes a site; unknown ids are ignored
func (r *HostRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.hosts, id)
}

// Site returns the concrete site with the given id
func (r *HostRegistry) Site(id string) (*SiteHost, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hosts[id]
	return h, ok
}

// Resolve implements workshop.HostResolver
func (r *HostRegistry) Resolve(id string) (workshop.Host, bool) {
	h, ok := r.Site(id)
	if !ok {
		return nil, false
	}
	return h, true
}

// All implements workshop.HostDirectory; hosts are ordered by id
func (r *HostRegistry) All() []workshop.Host {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.hosts))
	for id := range r.hosts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	all := make([]workshop.Host, 0, len(ids))
	for _, id := range ids {
		all = append(all, r.hosts[id])
	}
	return all
}

// Advance progresses deployment on every site
func (r *HostRegistry) Advance(elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hosts {
		h.advance(elapsed)
	}
}

package workshop

import (
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

// JobRef identifies a job by the id of the host that owns it.
// Workshops only ever hold refs and resolve them on every tick, so a host can
// be destroyed or moved without the workshop noticing until then.
type JobRef string

// Host is the entity under construction. It owns exactly one composite job.
type Host interface {
	ID() string
	Name() string
	Position() shared.Position
	// Recheck reports whether the host still exists and can be worked on
	Recheck() bool
	Job() *work.CompositeJob
	DeployState() DeployState
}

// HostResolver looks hosts up by id
type HostResolver interface {
	Resolve(id string) (Host, bool)
}

// HostDirectory is a HostResolver that can also enumerate hosts, used for
// discovering nearby jobs.
type HostDirectory interface {
	HostResolver
	All() []Host
}

// ResourcePool hands out resources. Request returns the granted amount, which
// is never more than requested and may be zero. Calls are atomic from the
// caller's point of view.
type ResourcePool interface {
	Request(resource string, amount float64) float64
	Refund(resource string, amount float64)
}

// WorkforceProvider yields the workforce and position of the vessel hosting a
// workshop. Values are recomputed by the host, not by the scheduler.
type WorkforceProvider interface {
	Workforce() float64
	MaxWorkforce() float64
	Position() shared.Position
}

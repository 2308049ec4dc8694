package ports

import (
	"context"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// WorkshopStateRepository persists workshop scheduling state (queue order,
// current job, working flag, end time estimate)
type WorkshopStateRepository interface {
	// Save upserts the snapshot
	Save(ctx context.Context, snapshot workshop.Snapshot) error

	// FindByID returns the snapshot, or nil when none was persisted
	FindByID(ctx context.Context, id string) (*workshop.Snapshot, error)

	FindAll(ctx context.Context) ([]workshop.Snapshot, error)
}

// JobProgressRepository persists composite job progress keyed by host id
type JobProgressRepository interface {
	Save(ctx context.Context, hostID, jobName string, progress work.CompositeProgress) error

	// FindByHost returns the progress, or nil when none was persisted
	FindByHost(ctx context.Context, hostID string) (*work.CompositeProgress, error)
}

// NoticeLog records user-visible scheduler notices
type NoticeLog interface {
	Log(ctx context.Context, workshopID string, notice workshop.Notice) error
}

// MetricsRecorder receives the outcome of every tick
type MetricsRecorder interface {
	RecordTick(report workshop.TickReport, queueLength int)
}

// Environment is the world workshops operate in: the hosts they work on, the
// vessels that supply their workforce, and whatever evolves on its own
// between ticks (resource regeneration, deployment).
type Environment interface {
	Hosts() workshop.HostDirectory

	// Provider returns the vessel hosting a workshop, if it has one
	Provider(workshopID string) (workshop.WorkforceProvider, bool)

	// Advance moves the environment forward by elapsed simulation time
	Advance(elapsed time.Duration)
}

// NoticeRecord is a notice read back from the notice log
type NoticeRecord struct {
	Timestamp time.Time
	Level     string
	Notice    workshop.Notice
}

// NoticeHistory reads persisted notices, newest first. An empty level means
// every level.
type NoticeHistory interface {
	Recent(ctx context.Context, workshopID string, limit int, level string) ([]NoticeRecord, error)
}

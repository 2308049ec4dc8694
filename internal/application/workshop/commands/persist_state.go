package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// PersistStateCommand saves job progress and workshop state
type PersistStateCommand struct{}

// RestoreStateCommand loads persisted job progress and workshop state onto
// the registered workshops and the environment's hosts
type RestoreStateCommand struct{}

// StateResponse counts what was saved or restored
type StateResponse struct {
	Workshops int
	Jobs      int
}

// PersistStateHandler - Handles persist commands
type PersistStateHandler struct {
	registry  *workshop.Registry
	env       ports.Environment
	workshops ports.WorkshopStateRepository
	progress  ports.JobProgressRepository
}

// NewPersistStateHandler creates a new persist handler
func NewPersistStateHandler(
	registry *workshop.Registry,
	env ports.Environment,
	workshops ports.WorkshopStateRepository,
	progress ports.JobProgressRepository,
) *PersistStateHandler {
	return &PersistStateHandler{registry: registry, env: env, workshops: workshops, progress: progress}
}

// Handle executes the persist command
func (h *PersistStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*PersistStateCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	resp := &StateResponse{}
	for _, host := range h.env.Hosts().All() {
		job := host.Job()
		if job == nil {
			continue
		}
		if err := h.progress.Save(ctx, host.ID(), job.Name(), job.Progress()); err != nil {
			return nil, fmt.Errorf("failed to persist progress of %s: %w", host.ID(), err)
		}
		resp.Jobs++
	}
	for _, w := range h.registry.All() {
		if err := h.workshops.Save(ctx, w.Snapshot()); err != nil {
			return nil, fmt.Errorf("failed to persist workshop %s: %w", w.ID(), err)
		}
		resp.Workshops++
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelDebug, "State persisted", map[string]interface{}{
		"action":    "persist",
		"workshops": resp.Workshops,
		"jobs":      resp.Jobs,
	})
	return resp, nil
}

// RestoreStateHandler - Handles restore commands
type RestoreStateHandler struct {
	registry  *workshop.Registry
	env       ports.Environment
	workshops ports.WorkshopStateRepository
	progress  ports.JobProgressRepository
}

// NewRestoreStateHandler creates a new restore handler
func NewRestoreStateHandler(
	registry *workshop.Registry,
	env ports.Environment,
	workshops ports.WorkshopStateRepository,
	progress ports.JobProgressRepository,
) *RestoreStateHandler {
	return &RestoreStateHandler{registry: registry, env: env, workshops: workshops, progress: progress}
}

// Handle executes the restore command. Progress that no longer matches a
// host's job layout is skipped with a warning.
func (h *RestoreStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*RestoreStateCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	logger := logging.LoggerFromContext(ctx)
	resp := &StateResponse{}
	for _, host := range h.env.Hosts().All() {
		job := host.Job()
		if job == nil {
			continue
		}
		progress, err := h.progress.FindByHost(ctx, host.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load progress of %s: %w", host.ID(), err)
		}
		if progress == nil {
			continue
		}
		if err := job.RestoreProgress(*progress); err != nil {
			logger.Log(logging.LevelWarning, fmt.Sprintf("Discarding persisted progress: %v", err), map[string]interface{}{
				"host": host.ID(),
			})
			continue
		}
		resp.Jobs++
	}

	for _, w := range h.registry.All() {
		snapshot, err := h.workshops.FindByID(ctx, w.ID())
		if err != nil {
			return nil, fmt.Errorf("failed to load workshop %s: %w", w.ID(), err)
		}
		if snapshot == nil {
			continue
		}
		if err := w.Restore(*snapshot); err != nil {
			return nil, err
		}
		resp.Workshops++
	}

	logger.Log(logging.LevelInfo, "State restored", map[string]interface{}{
		"action":    "restore",
		"workshops": resp.Workshops,
		"jobs":      resp.Jobs,
	})
	return resp, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// DiscoverJobsCommand enqueues every nearby job the workshop can work on
type DiscoverJobsCommand struct {
	WorkshopID string
}

// DiscoverJobsResponse lists the refs that were added, nearest first
type DiscoverJobsResponse struct {
	Added []string
	*QueueResponse
}

// DiscoverJobsHandler - Handles job discovery
type DiscoverJobsHandler struct {
	registry *workshop.Registry
	env      ports.Environment
}

// NewDiscoverJobsHandler creates a new discovery handler
func NewDiscoverJobsHandler(registry *workshop.Registry, env ports.Environment) *DiscoverJobsHandler {
	return &DiscoverJobsHandler{registry: registry, env: env}
}

// Handle executes the discovery command
func (h *DiscoverJobsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DiscoverJobsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}

	added := w.DiscoverJobs(h.env.Hosts().All())
	resp := &DiscoverJobsResponse{Added: make([]string, 0, len(added)), QueueResponse: newQueueResponse(w)}
	for _, ref := range added {
		resp.Added = append(resp.Added, string(ref))
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Jobs discovered", map[string]interface{}{
		"action":      "discover",
		"workshop_id": w.ID(),
		"added":       len(added),
	})
	return resp, nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// StartWorkshopCommand starts a workshop
type StartWorkshopCommand struct {
	WorkshopID string
}

// StopWorkshopCommand stops a workshop; with Reset the current job goes back
// to the queue
type StopWorkshopCommand struct {
	WorkshopID string
	Reset      bool
}

// LifecycleResponse reports the workshop's state after start/stop
type LifecycleResponse struct {
	WorkshopID string
	Status     workshop.Status
	Current    string
	ETA        float64
}

func newLifecycleResponse(w *workshop.Workshop) *LifecycleResponse {
	current, _ := w.Current()
	return &LifecycleResponse{WorkshopID: w.ID(), Status: w.Status(), Current: string(current), ETA: w.ETA()}
}

// StartWorkshopHandler - Handles start commands
type StartWorkshopHandler struct {
	registry *workshop.Registry
	env      ports.Environment
}

// NewStartWorkshopHandler creates a new start handler
func NewStartWorkshopHandler(registry *workshop.Registry, env ports.Environment) *StartWorkshopHandler {
	return &StartWorkshopHandler{registry: registry, env: env}
}

// Handle executes the start command. Workforce is refreshed from the hosting
// vessel first so a freshly crewed workshop can start.
func (h *StartWorkshopHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartWorkshopCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	if h.env != nil {
		if provider, ok := h.env.Provider(w.ID()); ok {
			w.UpdateFromProvider(provider)
		}
	}
	if err := w.Start(); err != nil {
		return nil, fmt.Errorf("failed to start workshop %s: %w", w.ID(), err)
	}

	current, _ := w.Current()
	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Workshop started", map[string]interface{}{
		"action":      "start",
		"workshop_id": w.ID(),
		"job":         string(current),
		"eta":         workshop.FormatETA(w.ETA()),
	})
	return newLifecycleResponse(w), nil
}

// StopWorkshopHandler - Handles stop commands
type StopWorkshopHandler struct {
	registry *workshop.Registry
}

// NewStopWorkshopHandler creates a new stop handler
func NewStopWorkshopHandler(registry *workshop.Registry) *StopWorkshopHandler {
	return &StopWorkshopHandler{registry: registry}
}

// Handle executes the stop command
func (h *StopWorkshopHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StopWorkshopCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	w.Stop(cmd.Reset)

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Workshop stopped", map[string]interface{}{
		"action":      "stop",
		"workshop_id": w.ID(),
		"reset":       cmd.Reset,
	})
	return newLifecycleResponse(w), nil
}

package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// QueueResponse is the queue state after a queue command
type QueueResponse struct {
	WorkshopID string
	Current    string
	Queue      []string
}

func newQueueResponse(w *workshop.Workshop) *QueueResponse {
	current, _ := w.Current()
	resp := &QueueResponse{WorkshopID: w.ID(), Current: string(current), Queue: make([]string, 0)}
	for _, ref := range w.Queue() {
		resp.Queue = append(resp.Queue, string(ref))
	}
	return resp
}

// EnqueueJobCommand appends a job to a workshop's queue
type EnqueueJobCommand struct {
	WorkshopID string
	JobRef     string
}

// EnqueueJobHandler - Handles enqueue commands
type EnqueueJobHandler struct {
	registry *workshop.Registry
}

// NewEnqueueJobHandler creates a new enqueue handler
func NewEnqueueJobHandler(registry *workshop.Registry) *EnqueueJobHandler {
	return &EnqueueJobHandler{registry: registry}
}

// Handle executes the enqueue command
func (h *EnqueueJobHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*EnqueueJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	if err := w.Enqueue(workshop.JobRef(cmd.JobRef)); err != nil {
		return nil, fmt.Errorf("failed to enqueue %s: %w", cmd.JobRef, err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Job enqueued", map[string]interface{}{
		"action":      "enqueue",
		"workshop_id": w.ID(),
		"job":         cmd.JobRef,
	})
	return newQueueResponse(w), nil
}

// DequeueJobCommand pops the head of a workshop's queue
type DequeueJobCommand struct {
	WorkshopID string
}

// DequeueJobResponse carries the popped ref
type DequeueJobResponse struct {
	JobRef string
	Found  bool
	*QueueResponse
}

// DequeueJobHandler - Handles dequeue commands
type DequeueJobHandler struct {
	registry *workshop.Registry
}

// NewDequeueJobHandler creates a new dequeue handler
func NewDequeueJobHandler(registry *workshop.Registry) *DequeueJobHandler {
	return &DequeueJobHandler{registry: registry}
}

// Handle executes the dequeue command
func (h *DequeueJobHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DequeueJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	ref, found := w.Dequeue()
	return &DequeueJobResponse{JobRef: string(ref), Found: found, QueueResponse: newQueueResponse(w)}, nil
}

// RemoveJobCommand deletes a job from a workshop's queue, or drops it as the
// current job
type RemoveJobCommand struct {
	WorkshopID string
	JobRef     string
}

// RemoveJobHandler - Handles remove commands
type RemoveJobHandler struct {
	registry *workshop.Registry
}

// NewRemoveJobHandler creates a new remove handler
func NewRemoveJobHandler(registry *workshop.Registry) *RemoveJobHandler {
	return &RemoveJobHandler{registry: registry}
}

// Handle executes the remove command
func (h *RemoveJobHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RemoveJobCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	if err := w.Remove(workshop.JobRef(cmd.JobRef)); err != nil {
		return nil, err
	}
	return newQueueResponse(w), nil
}

// MoveJobUpCommand moves a queued job one place towards the head
type MoveJobUpCommand struct {
	WorkshopID string
	JobRef     string
}

// MoveJobUpHandler - Handles move-up commands
type MoveJobUpHandler struct {
	registry *workshop.Registry
}

// NewMoveJobUpHandler creates a new move-up handler
func NewMoveJobUpHandler(registry *workshop.Registry) *MoveJobUpHandler {
	return &MoveJobUpHandler{registry: registry}
}

// Handle executes the move-up command
func (h *MoveJobUpHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*MoveJobUpCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	if err := w.MoveUp(workshop.JobRef(cmd.JobRef)); err != nil {
		return nil, err
	}
	return newQueueResponse(w), nil
}

// StartTaskCommand makes a job the workshop's current job
type StartTaskCommand struct {
	WorkshopID string
	JobRef     string
}

// StartTaskHandler - Handles start-task commands
type StartTaskHandler struct {
	registry *workshop.Registry
}

// NewStartTaskHandler creates a new start-task handler
func NewStartTaskHandler(registry *workshop.Registry) *StartTaskHandler {
	return &StartTaskHandler{registry: registry}
}

// Handle executes the start-task command
func (h *StartTaskHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*StartTaskCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	w, err := h.registry.Get(cmd.WorkshopID)
	if err != nil {
		return nil, err
	}
	if err := w.StartTask(workshop.JobRef(cmd.JobRef)); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", cmd.JobRef, err)
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Task started", map[string]interface{}{
		"action":      "start_task",
		"workshop_id": w.ID(),
		"job":         cmd.JobRef,
	})
	return newQueueResponse(w), nil
}

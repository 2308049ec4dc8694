package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// GetWorkshopStatusQuery represents a query for one workshop's status
type GetWorkshopStatusQuery struct {
	WorkshopID string
}

// GetWorkshopStatusResponse represents the result of the status query
type GetWorkshopStatusResponse struct {
	Workshop dtos.WorkshopStatusDTO
}

// GetWorkshopStatusHandler handles the GetWorkshopStatus query
type GetWorkshopStatusHandler struct {
	registry *workshop.Registry
	env      ports.Environment
}

// NewGetWorkshopStatusHandler creates a new GetWorkshopStatusHandler
func NewGetWorkshopStatusHandler(registry *workshop.Registry, env ports.Environment) *GetWorkshopStatusHandler {
	return &GetWorkshopStatusHandler{registry: registry, env: env}
}

// Handle executes the GetWorkshopStatus query
func (h *GetWorkshopStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetWorkshopStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetWorkshopStatusQuery")
	}

	w, err := h.registry.Get(query.WorkshopID)
	if err != nil {
		return nil, err
	}
	return &GetWorkshopStatusResponse{Workshop: dtos.NewWorkshopStatusDTO(w, h.env.Hosts())}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// ListWorkshopsQuery represents a query to list every workshop
type ListWorkshopsQuery struct {
	Status string // Optional: only workshops in this status
}

// ListWorkshopsResponse represents the result of listing workshops
type ListWorkshopsResponse struct {
	Workshops []dtos.WorkshopStatusDTO
}

// ListWorkshopsHandler handles the ListWorkshops query
type ListWorkshopsHandler struct {
	registry *workshop.Registry
	env      ports.Environment
}

// NewListWorkshopsHandler creates a new ListWorkshopsHandler
func NewListWorkshopsHandler(registry *workshop.Registry, env ports.Environment) *ListWorkshopsHandler {
	return &ListWorkshopsHandler{registry: registry, env: env}
}

// Handle executes the ListWorkshops query
func (h *ListWorkshopsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListWorkshopsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListWorkshopsQuery")
	}

	resp := &ListWorkshopsResponse{Workshops: make([]dtos.WorkshopStatusDTO, 0)}
	for _, w := range h.registry.All() {
		if query.Status != "" && string(w.Status()) != query.Status {
			continue
		}
		resp.Workshops = append(resp.Workshops, dtos.NewWorkshopStatusDTO(w, h.env.Hosts()))
	}
	return resp, nil
}

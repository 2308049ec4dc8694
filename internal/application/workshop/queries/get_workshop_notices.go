package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

const defaultNoticeLimit = 50

// GetWorkshopNoticesQuery asks for the most recent notices of a workshop
type GetWorkshopNoticesQuery struct {
	WorkshopID string
	Limit      int    // Optional: defaults to 50
	Level      string // Optional: INFO, WARNING or DEBUG
}

// GetWorkshopNoticesResponse lists notices newest first
type GetWorkshopNoticesResponse struct {
	Notices []ports.NoticeRecord
}

// GetWorkshopNoticesHandler handles the GetWorkshopNotices query
type GetWorkshopNoticesHandler struct {
	registry *workshop.Registry
	history  ports.NoticeHistory
}

// NewGetWorkshopNoticesHandler creates a new GetWorkshopNoticesHandler
func NewGetWorkshopNoticesHandler(registry *workshop.Registry, history ports.NoticeHistory) *GetWorkshopNoticesHandler {
	return &GetWorkshopNoticesHandler{registry: registry, history: history}
}

// Handle executes the GetWorkshopNotices query
func (h *GetWorkshopNoticesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetWorkshopNoticesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetWorkshopNoticesQuery")
	}

	if _, err := h.registry.Get(query.WorkshopID); err != nil {
		return nil, err
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultNoticeLimit
	}
	records, err := h.history.Recent(ctx, query.WorkshopID, limit, query.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to read notices of %s: %w", query.WorkshopID, err)
	}
	if records == nil {
		records = make([]ports.NoticeRecord, 0)
	}
	return &GetWorkshopNoticesResponse{Notices: records}, nil
}

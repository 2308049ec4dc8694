package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// TickWorkshopsCommand advances workshops by elapsed simulation time.
// No ids means every registered workshop.
type TickWorkshopsCommand struct {
	Elapsed     time.Duration
	WorkshopIDs []string
}

// TickWorkshopsResponse aggregates the per-workshop tick reports
type TickWorkshopsResponse struct {
	Reports       []workshop.TickReport
	Completed     []string
	WorkPerformed float64
}

// TickWorkshopsHandler drives the scheduler: it refreshes each workshop's
// workforce from its vessel, ticks it, reports notices and metrics, and
// finally advances the environment.
type TickWorkshopsHandler struct {
	registry *workshop.Registry
	env      ports.Environment
	notices  ports.NoticeLog
	metrics  ports.MetricsRecorder
}

// NewTickWorkshopsHandler creates a new tick handler. notices and metrics may be nil.
func NewTickWorkshopsHandler(
	registry *workshop.Registry,
	env ports.Environment,
	notices ports.NoticeLog,
	metrics ports.MetricsRecorder,
) *TickWorkshopsHandler {
	return &TickWorkshopsHandler{
		registry: registry,
		env:      env,
		notices:  notices,
		metrics:  metrics,
	}
}

// Handle executes the tick command
func (h *TickWorkshopsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*TickWorkshopsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Elapsed <= 0 {
		return nil, fmt.Errorf("elapsed time must be positive, got %s", cmd.Elapsed)
	}

	workshops, err := h.selectWorkshops(cmd.WorkshopIDs)
	if err != nil {
		return nil, err
	}

	logger := logging.LoggerFromContext(ctx)
	resp := &TickWorkshopsResponse{Reports: make([]workshop.TickReport, 0, len(workshops))}
	for _, w := range workshops {
		if h.env != nil {
			if provider, ok := h.env.Provider(w.ID()); ok {
				w.UpdateFromProvider(provider)
			}
		}

		report := w.Tick(cmd.Elapsed)
		h.publish(ctx, logger, report)
		if h.metrics != nil {
			h.metrics.RecordTick(report, len(w.Queue()))
		}

		resp.Reports = append(resp.Reports, report)
		resp.WorkPerformed += report.WorkPerformed
		for _, ref := range report.Completed {
			resp.Completed = append(resp.Completed, string(ref))
		}
	}

	if h.env != nil {
		h.env.Advance(cmd.Elapsed)
	}
	return resp, nil
}

func (h *TickWorkshopsHandler) selectWorkshops(ids []string) ([]*workshop.Workshop, error) {
	if len(ids) == 0 {
		return h.registry.All(), nil
	}
	selected := make([]*workshop.Workshop, 0, len(ids))
	for _, id := range ids {
		w, err := h.registry.Get(id)
		if err != nil {
			return nil, err
		}
		selected = append(selected, w)
	}
	return selected, nil
}

func (h *TickWorkshopsHandler) publish(ctx context.Context, logger logging.WorkshopLogger, report workshop.TickReport) {
	for _, notice := range report.Notices {
		logger.Log(notice.Kind.Level(), notice.Message, map[string]interface{}{
			"workshop_id": report.WorkshopID,
			"job":         string(notice.Job),
			"notice":      string(notice.Kind),
		})
		if h.notices == nil {
			continue
		}
		if err := h.notices.Log(ctx, report.WorkshopID, notice); err != nil {
			logger.Log(logging.LevelError, fmt.Sprintf("Failed to record notice: %v", err), map[string]interface{}{
				"workshop_id": report.WorkshopID,
			})
		}
	}
}

package setup

import (
	"reflect"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/queries"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	registry *workshop.Registry
	env      ports.Environment
	// Persistence dependencies (optional; without them state is not saved)
	workshopRepo ports.WorkshopStateRepository
	progressRepo ports.JobProgressRepository
	noticeLog    ports.NoticeLog
	metrics      ports.MetricsRecorder
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	registry *workshop.Registry,
	env ports.Environment,
	workshopRepo ports.WorkshopStateRepository,
	progressRepo ports.JobProgressRepository,
	noticeLog ports.NoticeLog,
	metrics ports.MetricsRecorder,
) *HandlerRegistry {
	return &HandlerRegistry{
		registry:     registry,
		env:          env,
		workshopRepo: workshopRepo,
		progressRepo: progressRepo,
		noticeLog:    noticeLog,
		metrics:      metrics,
	}
}

// RegisterWorkshopHandlers registers all workshop command handlers with the mediator
//
// This method registers:
//   - queue commands (enqueue, dequeue, remove, move up, start task)
//   - lifecycle commands (start, stop)
//   - TickWorkshopsCommand → TickWorkshopsHandler
//   - DiscoverJobsCommand → DiscoverJobsHandler
//   - persist/restore commands when repositories are available
func (r *HandlerRegistry) RegisterWorkshopHandlers(m mediator.Mediator) error {
	handlers := map[reflect.Type]mediator.RequestHandler{
		reflect.TypeOf(&commands.EnqueueJobCommand{}):    commands.NewEnqueueJobHandler(r.registry),
		reflect.TypeOf(&commands.DequeueJobCommand{}):    commands.NewDequeueJobHandler(r.registry),
		reflect.TypeOf(&commands.RemoveJobCommand{}):     commands.NewRemoveJobHandler(r.registry),
		reflect.TypeOf(&commands.MoveJobUpCommand{}):     commands.NewMoveJobUpHandler(r.registry),
		reflect.TypeOf(&commands.StartTaskCommand{}):     commands.NewStartTaskHandler(r.registry),
		reflect.TypeOf(&commands.StartWorkshopCommand{}): commands.NewStartWorkshopHandler(r.registry, r.env),
		reflect.TypeOf(&commands.StopWorkshopCommand{}):  commands.NewStopWorkshopHandler(r.registry),
		reflect.TypeOf(&commands.TickWorkshopsCommand{}): commands.NewTickWorkshopsHandler(r.registry, r.env, r.noticeLog, r.metrics),
		reflect.TypeOf(&commands.DiscoverJobsCommand{}):  commands.NewDiscoverJobsHandler(r.registry, r.env),
	}

	// Persistence handlers only when both repositories are wired
	if r.workshopRepo != nil && r.progressRepo != nil {
		handlers[reflect.TypeOf(&commands.PersistStateCommand{})] = commands.NewPersistStateHandler(r.registry, r.env, r.workshopRepo, r.progressRepo)
		handlers[reflect.TypeOf(&commands.RestoreStateCommand{})] = commands.NewRestoreStateHandler(r.registry, r.env, r.workshopRepo, r.progressRepo)
	}

	for requestType, handler := range handlers {
		if err := m.Register(requestType, handler); err != nil {
			return err
		}
	}
	return nil
}

// RegisterQueryHandlers registers the workshop read models
func (r *HandlerRegistry) RegisterQueryHandlers(m mediator.Mediator) error {
	if err := mediator.RegisterHandler[*queries.GetWorkshopStatusQuery](m, queries.NewGetWorkshopStatusHandler(r.registry, r.env)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*queries.ListWorkshopsQuery](m, queries.NewListWorkshopsHandler(r.registry, r.env)); err != nil {
		return err
	}

	// Notice history is only readable when the notice log keeps one
	if history, ok := r.noticeLog.(ports.NoticeHistory); ok {
		return mediator.RegisterHandler[*queries.GetWorkshopNoticesQuery](m, queries.NewGetWorkshopNoticesHandler(r.registry, history))
	}
	return nil
}

// CreateConfiguredMediator creates a mediator with every handler registered.
//
// Requests are serialized (workshops are single-threaded) inside the given
// middlewares, which run outermost first.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}
	m.RegisterMiddleware(mediator.SerializeMiddleware())

	if err := r.RegisterWorkshopHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterQueryHandlers(m); err != nil {
		return nil, err
	}
	return m, nil
}

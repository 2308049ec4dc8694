package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/queries"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// WorkshopServer serves the queue and status API of the daemon.
// Every call is dispatched through the mediator, so it is serialized with
// the scheduler ticks.
type WorkshopServer struct {
	mediator   mediator.Mediator
	logger     logging.WorkshopLogger
	listener   net.Listener
	grpcServer *grpc.Server
}

// NewWorkshopServer listens on a TCP address (host:port)
func NewWorkshopServer(m mediator.Mediator, logger logging.WorkshopLogger, address string) (*WorkshopServer, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	return NewWorkshopServerWithListener(m, logger, listener), nil
}

// NewWorkshopServerWithListener serves on an existing listener
func NewWorkshopServerWithListener(m mediator.Mediator, logger logging.WorkshopLogger, listener net.Listener) *WorkshopServer {
	s := &WorkshopServer{
		mediator: m,
		logger:   logger,
		listener: listener,
	}
	s.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(s.withLogger))
	RegisterWorkshopServiceServer(s.grpcServer, &workshopServiceImpl{mediator: m})
	return s
}

// Addr returns the bound address
func (s *WorkshopServer) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until Stop is called
func (s *WorkshopServer) Serve() error {
	if s.logger != nil {
		s.logger.Log(logging.LevelInfo, "Workshop service listening", map[string]interface{}{
			"address": s.Addr(),
		})
	}
	if err := s.grpcServer.Serve(s.listener); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("gRPC server error: %w", err)
	}
	return nil
}

// Stop drains in-flight calls and stops the server
func (s *WorkshopServer) Stop() {
	s.grpcServer.GracefulStop()
}

// withLogger puts the server logger into the request context so handlers
// log through it
func (s *WorkshopServer) withLogger(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if s.logger != nil {
		ctx = logging.WithLogger(ctx, s.logger)
	}
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return resp, nil
}

// workshopServiceImpl bridges gRPC calls to mediator requests
type workshopServiceImpl struct {
	mediator mediator.Mediator
}

func (s *workshopServiceImpl) ListWorkshops(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ListWorkshopsRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	list, err := mediator.SendAs[*queries.ListWorkshopsResponse](ctx, s.mediator, &queries.ListWorkshopsQuery{Status: req.Status})
	if err != nil {
		return nil, err
	}
	return toStruct(WorkshopList{Workshops: list.Workshops})
}

func (s *workshopServiceImpl) GetWorkshopStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req WorkshopRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	st, err := mediator.SendAs[*queries.GetWorkshopStatusResponse](ctx, s.mediator, &queries.GetWorkshopStatusQuery{WorkshopID: req.WorkshopID})
	if err != nil {
		return nil, err
	}
	return toStruct(st.Workshop)
}

func (s *workshopServiceImpl) GetNotices(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req NoticesRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	notices, err := mediator.SendAs[*queries.GetWorkshopNoticesResponse](ctx, s.mediator, &queries.GetWorkshopNoticesQuery{
		WorkshopID: req.WorkshopID,
		Limit:      req.Limit,
		Level:      req.Level,
	})
	if err != nil {
		return nil, err
	}

	out := NoticeList{Notices: make([]NoticeMessage, len(notices.Notices))}
	for i, r := range notices.Notices {
		out.Notices[i] = NoticeMessage{
			Timestamp: r.Timestamp,
			Level:     r.Level,
			Kind:      string(r.Notice.Kind),
			Job:       string(r.Notice.Job),
			Message:   r.Notice.Message,
		}
	}
	return toStruct(out)
}

func (s *workshopServiceImpl) EnqueueJob(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.jobCommand(ctx, in, func(req JobRequest) mediator.Request {
		return &commands.EnqueueJobCommand{WorkshopID: req.WorkshopID, JobRef: req.JobRef}
	})
}

func (s *workshopServiceImpl) RemoveJob(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.jobCommand(ctx, in, func(req JobRequest) mediator.Request {
		return &commands.RemoveJobCommand{WorkshopID: req.WorkshopID, JobRef: req.JobRef}
	})
}

func (s *workshopServiceImpl) MoveJobUp(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.jobCommand(ctx, in, func(req JobRequest) mediator.Request {
		return &commands.MoveJobUpCommand{WorkshopID: req.WorkshopID, JobRef: req.JobRef}
	})
}

func (s *workshopServiceImpl) StartTask(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return s.jobCommand(ctx, in, func(req JobRequest) mediator.Request {
		return &commands.StartTaskCommand{WorkshopID: req.WorkshopID, JobRef: req.JobRef}
	})
}

func (s *workshopServiceImpl) DequeueJob(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req WorkshopRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	dq, err := mediator.SendAs[*commands.DequeueJobResponse](ctx, s.mediator, &commands.DequeueJobCommand{WorkshopID: req.WorkshopID})
	if err != nil {
		return nil, err
	}
	state := queueState(dq.QueueResponse)
	state.Dequeued = dq.JobRef
	state.Found = dq.Found
	return toStruct(state)
}

func (s *workshopServiceImpl) DiscoverJobs(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req WorkshopRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	discovered, err := mediator.SendAs[*commands.DiscoverJobsResponse](ctx, s.mediator, &commands.DiscoverJobsCommand{WorkshopID: req.WorkshopID})
	if err != nil {
		return nil, err
	}
	state := queueState(discovered.QueueResponse)
	state.Added = discovered.Added
	return toStruct(state)
}

func (s *workshopServiceImpl) StartWorkshop(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req WorkshopRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.lifecycle(ctx, &commands.StartWorkshopCommand{WorkshopID: req.WorkshopID})
}

func (s *workshopServiceImpl) StopWorkshop(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req StopRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	return s.lifecycle(ctx, &commands.StopWorkshopCommand{WorkshopID: req.WorkshopID, Reset: req.Reset})
}

func (s *workshopServiceImpl) jobCommand(ctx context.Context, in *structpb.Struct, build func(JobRequest) mediator.Request) (*structpb.Struct, error) {
	var req JobRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	queue, err := mediator.SendAs[*commands.QueueResponse](ctx, s.mediator, build(req))
	if err != nil {
		return nil, err
	}
	return toStruct(queueState(queue))
}

func (s *workshopServiceImpl) lifecycle(ctx context.Context, cmd mediator.Request) (*structpb.Struct, error) {
	lc, err := mediator.SendAs[*commands.LifecycleResponse](ctx, s.mediator, cmd)
	if err != nil {
		return nil, err
	}
	return toStruct(LifecycleState{
		WorkshopID: lc.WorkshopID,
		Status:     string(lc.Status),
		Current:    lc.Current,
		ETA:        lc.ETA,
		ETAText:    workshop.FormatETA(lc.ETA),
	})
}

func queueState(q *commands.QueueResponse) QueueState {
	if q == nil {
		return QueueState{Queue: make([]string, 0)}
	}
	return QueueState{WorkshopID: q.WorkshopID, Current: q.Current, Queue: q.Queue}
}

package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
)

// WorkshopClient talks to a daemon's workshop service
type WorkshopClient struct {
	conn *grpc.ClientConn
}

// NewWorkshopClient connects to a daemon at address (host:port)
func NewWorkshopClient(address string, opts ...grpc.DialOption) (*WorkshopClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return &WorkshopClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *WorkshopClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *WorkshopClient) call(ctx context.Context, method string, req, resp interface{}) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, in, out); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return fromStruct(out, resp)
}

// ListWorkshops lists workshops, optionally only those in status
func (c *WorkshopClient) ListWorkshops(ctx context.Context, status string) ([]dtos.WorkshopStatusDTO, error) {
	var resp WorkshopList
	if err := c.call(ctx, MethodListWorkshops, ListWorkshopsRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return resp.Workshops, nil
}

// GetWorkshopStatus returns the status of one workshop
func (c *WorkshopClient) GetWorkshopStatus(ctx context.Context, workshopID string) (*dtos.WorkshopStatusDTO, error) {
	var resp dtos.WorkshopStatusDTO
	if err := c.call(ctx, MethodGetWorkshopStatus, WorkshopRequest{WorkshopID: workshopID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetNotices returns the most recent notices of a workshop
func (c *WorkshopClient) GetNotices(ctx context.Context, workshopID string, limit int, level string) ([]NoticeMessage, error) {
	var resp NoticeList
	req := NoticesRequest{WorkshopID: workshopID, Limit: limit, Level: level}
	if err := c.call(ctx, MethodGetNotices, req, &resp); err != nil {
		return nil, err
	}
	return resp.Notices, nil
}

// EnqueueJob appends a job to the workshop's queue
func (c *WorkshopClient) EnqueueJob(ctx context.Context, workshopID, jobRef string) (*QueueState, error) {
	return c.queueCall(ctx, MethodEnqueueJob, JobRequest{WorkshopID: workshopID, JobRef: jobRef})
}

// DequeueJob pops the head of the workshop's queue
func (c *WorkshopClient) DequeueJob(ctx context.Context, workshopID string) (*QueueState, error) {
	return c.queueCall(ctx, MethodDequeueJob, WorkshopRequest{WorkshopID: workshopID})
}

// RemoveJob removes a job from the queue, or stops working on it if current
func (c *WorkshopClient) RemoveJob(ctx context.Context, workshopID, jobRef string) (*QueueState, error) {
	return c.queueCall(ctx, MethodRemoveJob, JobRequest{WorkshopID: workshopID, JobRef: jobRef})
}

// MoveJobUp moves a queued job one place towards the head
func (c *WorkshopClient) MoveJobUp(ctx context.Context, workshopID, jobRef string) (*QueueState, error) {
	return c.queueCall(ctx, MethodMoveJobUp, JobRequest{WorkshopID: workshopID, JobRef: jobRef})
}

// StartTask makes a job current, requeueing the previous one at the head
func (c *WorkshopClient) StartTask(ctx context.Context, workshopID, jobRef string) (*QueueState, error) {
	return c.queueCall(ctx, MethodStartTask, JobRequest{WorkshopID: workshopID, JobRef: jobRef})
}

// DiscoverJobs enqueues every reachable job the workshop can work on
func (c *WorkshopClient) DiscoverJobs(ctx context.Context, workshopID string) (*QueueState, error) {
	return c.queueCall(ctx, MethodDiscoverJobs, WorkshopRequest{WorkshopID: workshopID})
}

// StartWorkshop starts working through the queue
func (c *WorkshopClient) StartWorkshop(ctx context.Context, workshopID string) (*LifecycleState, error) {
	var resp LifecycleState
	if err := c.call(ctx, MethodStartWorkshop, WorkshopRequest{WorkshopID: workshopID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopWorkshop stops the workshop; reset puts the current job back in the queue
func (c *WorkshopClient) StopWorkshop(ctx context.Context, workshopID string, reset bool) (*LifecycleState, error) {
	var resp LifecycleState
	if err := c.call(ctx, MethodStopWorkshop, StopRequest{WorkshopID: workshopID, Reset: reset}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *WorkshopClient) queueCall(ctx context.Context, method string, req interface{}) (*QueueState, error) {
	var resp QueueState
	if err := c.call(ctx, method, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

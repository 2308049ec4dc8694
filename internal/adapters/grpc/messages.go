package grpc

import (
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
)

// WorkshopRequest addresses a single workshop
type WorkshopRequest struct {
	WorkshopID string `json:"workshop_id"`
}

// ListWorkshopsRequest optionally filters by status (IDLE, WORKING, STALLED)
type ListWorkshopsRequest struct {
	Status string `json:"status,omitempty"`
}

// NoticesRequest asks for recent notices of a workshop
type NoticesRequest struct {
	WorkshopID string `json:"workshop_id"`
	Limit      int    `json:"limit,omitempty"`
	Level      string `json:"level,omitempty"`
}

// JobRequest addresses a job in a workshop's queue
type JobRequest struct {
	WorkshopID string `json:"workshop_id"`
	JobRef     string `json:"job_ref"`
}

// StopRequest stops a workshop, optionally requeueing its current job
type StopRequest struct {
	WorkshopID string `json:"workshop_id"`
	Reset      bool   `json:"reset"`
}

// WorkshopList is the response of ListWorkshops
type WorkshopList struct {
	Workshops []dtos.WorkshopStatusDTO `json:"workshops"`
}

// NoticeMessage is one persisted notice
type NoticeMessage struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Kind      string    `json:"kind"`
	Job       string    `json:"job,omitempty"`
	Message   string    `json:"message"`
}

// NoticeList is the response of GetNotices
type NoticeList struct {
	Notices []NoticeMessage `json:"notices"`
}

// QueueState is the response of every queue method. Dequeued and Found are
// only set by DequeueJob, Added only by DiscoverJobs.
type QueueState struct {
	WorkshopID string   `json:"workshop_id"`
	Current    string   `json:"current,omitempty"`
	Queue      []string `json:"queue"`
	Dequeued   string   `json:"dequeued,omitempty"`
	Found      bool     `json:"found,omitempty"`
	Added      []string `json:"added,omitempty"`
}

// LifecycleState is the response of StartWorkshop and StopWorkshop
type LifecycleState struct {
	WorkshopID string  `json:"workshop_id"`
	Status     string  `json:"status"`
	Current    string  `json:"current,omitempty"`
	ETA        float64 `json:"eta"`
	ETAText    string  `json:"eta_text"`
}

// toStruct converts a message to its google.protobuf.Struct wire form
func toStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return structpb.NewStruct(fields)
}

// fromStruct decodes the wire form into a message
func fromStruct(s *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

package workshop

import (
	"errors"
	"fmt"
)

var (
	// ErrNoWorkforce indicates a workshop without workforce was asked to start
	ErrNoWorkforce = errors.New("workshop has no workforce")

	// ErrNoJob indicates there is no valid job to work on
	ErrNoJob = errors.New("no valid job to work on")
)

// ErrInsufficientResource - the pool granted too little of a resource to do
// any useful work; the job is on hold
type ErrInsufficientResource struct {
	Job       JobRef
	Resource  string
	Requested float64
	Granted   float64
}

func (e *ErrInsufficientResource) Error() string {
	return fmt.Sprintf("job %s on hold: not enough %s (requested %.3f, granted %.3f)",
		e.Job, e.Resource, e.Requested, e.Granted)
}

// ErrInsufficientEnergy - granted energy fell below the shutdown threshold
type ErrInsufficientEnergy struct {
	Job       JobRef
	Requested float64
	Granted   float64
	Threshold float64
}

func (e *ErrInsufficientEnergy) Error() string {
	return fmt.Sprintf("job %s stopped: not enough energy (requested %.3f, granted %.3f, threshold %.2f)",
		e.Job, e.Requested, e.Granted, e.Threshold)
}

// ErrUnreachableHost - the host is beyond the maximum working distance
type ErrUnreachableHost struct {
	Job         JobRef
	Distance    float64
	MaxDistance float64
}

func (e *ErrUnreachableHost) Error() string {
	return fmt.Sprintf("job %s unreachable: distance %.1f exceeds %.1f", e.Job, e.Distance, e.MaxDistance)
}

// ErrInvalidJob - the host is gone or its job cannot be worked by this workshop
type ErrInvalidJob struct {
	Job    JobRef
	Reason string
}

func (e *ErrInvalidJob) Error() string {
	return fmt.Sprintf("job %s is invalid: %s", e.Job, e.Reason)
}

// ErrJobNotQueued - a queue operation referenced a job that is not queued
type ErrJobNotQueued struct {
	WorkshopID string
	Job        JobRef
}

func (e *ErrJobNotQueued) Error() string {
	return fmt.Sprintf("job %s is not queued in workshop %s", e.Job, e.WorkshopID)
}

// ErrWorkshopNotFound - registry lookup failed
type ErrWorkshopNotFound struct {
	WorkshopID string
}

func (e *ErrWorkshopNotFound) Error() string {
	return fmt.Sprintf("workshop not found: %s", e.WorkshopID)
}

// IsStall reports whether err is a throttling failure that stalls the
// workshop without changing its job
func IsStall(err error) bool {
	var res *ErrInsufficientResource
	var energy *ErrInsufficientEnergy
	return errors.As(err, &res) || errors.As(err, &energy)
}

package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// toStatus maps scheduler errors to gRPC status codes
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var notFound *workshop.ErrWorkshopNotFound
	var notQueued *workshop.ErrJobNotQueued
	var invalid *workshop.ErrInvalidJob
	var unreachable *workshop.ErrUnreachableHost

	switch {
	case errors.As(err, &notFound), errors.As(err, &notQueued):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &invalid), errors.As(err, &unreachable), shared.IsValidation(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, workshop.ErrNoWorkforce), errors.Is(err, workshop.ErrNoJob):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want codes.Code
	}{
		{"not found", &workshop.ErrWorkshopNotFound{WorkshopID: "ws-x"}, codes.NotFound},
		{"invalid job", &workshop.ErrInvalidJob{Job: "hab-1", Reason: "complete"}, codes.InvalidArgument},
		{"wrapped validation", fmt.Errorf("restore: %w", shared.NewValidationError("id", "mismatch")), codes.InvalidArgument},
		{"no workforce", workshop.ErrNoWorkforce, codes.FailedPrecondition},
		{"cancelled", context.Canceled, codes.Canceled},
		{"already a status", status.Error(codes.Unavailable, "down"), codes.Unavailable},
		{"anything else", errors.New("disk full"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
	assert.NoError(t, toStatus(nil))
}

package cli

import (
	"context"
	"fmt"
	"time"

	grpcadapter "github.com/andrescamacho/groundworks-go/internal/adapters/grpc"
)

const requestTimeout = 10 * time.Second

// withClient connects to the daemon, runs fn and closes the connection
func withClient(fn func(ctx context.Context, client *grpcadapter.WorkshopClient) error) error {
	client, err := grpcadapter.NewWorkshopClient(daemonAddress)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return fn(ctx, client)
}

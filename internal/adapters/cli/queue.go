package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/groundworks-go/internal/adapters/grpc"
)

// NewQueueCommand creates the queue command with subcommands
func NewQueueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Manage the job queue of a workshop",
		Long: `Manage the job queue of a workshop on the daemon.

Jobs are addressed by the id of the host that owns them. Adding a job that
is already queued or current is a no-op.

Examples:
  groundworks queue add ws-main hab-1
  groundworks queue up ws-main hab-1
  groundworks queue start ws-main tower-1
  groundworks queue pop ws-main
  groundworks queue remove ws-main hab-1`,
	}

	cmd.AddCommand(newQueueJobCommand("add", "Append a job to the queue",
		(*grpcadapter.WorkshopClient).EnqueueJob))
	cmd.AddCommand(newQueueJobCommand("remove", "Remove a job from the queue",
		(*grpcadapter.WorkshopClient).RemoveJob))
	cmd.AddCommand(newQueueJobCommand("up", "Move a job one place towards the front",
		(*grpcadapter.WorkshopClient).MoveJobUp))
	cmd.AddCommand(newQueueJobCommand("start", "Make a job current, queueing the previous one first",
		(*grpcadapter.WorkshopClient).StartTask))
	cmd.AddCommand(newQueuePopCommand())

	return cmd
}

type queueJobCall func(c *grpcadapter.WorkshopClient, ctx context.Context, workshopID, jobRef string) (*grpcadapter.QueueState, error)

func newQueueJobCommand(use, short string, call queueJobCall) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <workshop-id> <job>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				state, err := call(client, ctx, args[0], args[1])
				if err != nil {
					return fmt.Errorf("queue %s failed: %w", use, err)
				}
				printQueueState(cmd.OutOrStdout(), state)
				return nil
			})
		},
	}
}

func newQueuePopCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pop <workshop-id>",
		Short: "Take the job at the front of the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				state, err := client.DequeueJob(ctx, args[0])
				if err != nil {
					return fmt.Errorf("queue pop failed: %w", err)
				}
				out := cmd.OutOrStdout()
				if !state.Found {
					fmt.Fprintln(out, "Queue is empty")
				} else {
					fmt.Fprintf(out, "Dequeued %s\n", state.Dequeued)
				}
				printQueueState(out, state)
				return nil
			})
		},
	}
}

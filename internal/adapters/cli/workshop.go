package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	grpcadapter "github.com/andrescamacho/groundworks-go/internal/adapters/grpc"
)

// NewWorkshopCommand creates the workshop command with subcommands
func NewWorkshopCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workshop",
		Short: "Inspect and control workshops on the daemon",
		Long: `Inspect and control the workshops of a running daemon.

A workshop works one job at a time and only while it is started. Stopping a
workshop keeps its current job unless --reset is given, in which case the
job goes back to the end of the queue.

Examples:
  groundworks workshop list --status WORKING
  groundworks workshop status ws-main
  groundworks workshop start ws-main
  groundworks workshop stop ws-main --reset
  groundworks workshop discover ws-main`,
	}

	cmd.AddCommand(newWorkshopListCommand())
	cmd.AddCommand(newWorkshopStatusCommand())
	cmd.AddCommand(newWorkshopStartCommand())
	cmd.AddCommand(newWorkshopStopCommand())
	cmd.AddCommand(newWorkshopDiscoverCommand())
	cmd.AddCommand(newWorkshopNoticesCommand())

	return cmd
}

func newWorkshopListCommand() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workshops",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				workshops, err := client.ListWorkshops(ctx, status)
				if err != nil {
					return fmt.Errorf("failed to list workshops: %w", err)
				}
				printWorkshopTable(cmd.OutOrStdout(), workshops)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (IDLE, WORKING, STALLED)")

	return cmd
}

func newWorkshopStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <workshop-id>",
		Short: "Show a workshop with its current job and queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				status, err := client.GetWorkshopStatus(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to get workshop status: %w", err)
				}
				printWorkshopDetail(cmd.OutOrStdout(), *status)
				return nil
			})
		},
	}
}

func newWorkshopStartCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "start <workshop-id>",
		Short: "Start working the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				state, err := client.StartWorkshop(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to start workshop: %w", err)
				}
				printLifecycle(cmd, "started", state)
				return nil
			})
		},
	}
}

func newWorkshopStopCommand() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "stop <workshop-id>",
		Short: "Stop working",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				state, err := client.StopWorkshop(ctx, args[0], reset)
				if err != nil {
					return fmt.Errorf("failed to stop workshop: %w", err)
				}
				printLifecycle(cmd, "stopped", state)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Move the current job back to the end of the queue")

	return cmd
}

func newWorkshopDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover <workshop-id>",
		Short: "Queue every reachable job the workshop can work on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				state, err := client.DiscoverJobs(ctx, args[0])
				if err != nil {
					return fmt.Errorf("failed to discover jobs: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(state.Added) == 0 {
					fmt.Fprintln(out, "No new jobs found")
				} else {
					fmt.Fprintf(out, "Queued %d job(s)\n", len(state.Added))
				}
				printQueueState(out, state)
				return nil
			})
		},
	}
}

func newWorkshopNoticesCommand() *cobra.Command {
	var (
		limit int
		level string
	)

	cmd := &cobra.Command{
		Use:   "notices <workshop-id>",
		Short: "Show recent notices of a workshop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(func(ctx context.Context, client *grpcadapter.WorkshopClient) error {
				notices, err := client.GetNotices(ctx, args[0], limit, level)
				if err != nil {
					return fmt.Errorf("failed to get notices: %w", err)
				}
				out := cmd.OutOrStdout()
				if len(notices) == 0 {
					fmt.Fprintln(out, "No notices found")
					return nil
				}
				for _, n := range notices {
					job := n.Job
					if job == "" {
						job = "-"
					}
					fmt.Fprintf(out, "[%s] %-7s %-14s %s\n",
						n.Timestamp.Format("2006-01-02 15:04:05"), n.Level, job, n.Message)
				}
				fmt.Fprintf(out, "\nTotal: %d notices\n", len(notices))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of notices")
	cmd.Flags().StringVar(&level, "level", "", "Filter by level (INFO, WARNING)")

	return cmd
}

func printLifecycle(cmd *cobra.Command, verb string, state *grpcadapter.LifecycleState) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Workshop %s %s (%s)\n", state.WorkshopID, verb, state.Status)
	if state.Current != "" {
		fmt.Fprintf(out, "  Current: %s, ETA %s\n", state.Current, state.ETAText)
	}
}

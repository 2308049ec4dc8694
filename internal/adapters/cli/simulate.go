package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	gwlogging "github.com/andrescamacho/groundworks-go/internal/adapters/logging"
	"github.com/andrescamacho/groundworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/groundworks-go/internal/adapters/scenario"
	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/setup"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/coordination"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/queries"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/database"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		scenarioPath string
		ticks        int
		step         time.Duration
		persist      bool
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario locally for a number of ticks",
		Long: `Run a scenario in-process without a daemon.

Simulation time advances by --dt per tick on a deterministic clock, so the
same scenario always produces the same result. Notices are printed as they
happen, followed by the final state of every workshop.

With --persist the final state is saved to the configured database so a
daemon started on the same database resumes from it.

Examples:
  groundworks simulate --scenario configs/scenarios/outpost.yaml
  groundworks simulate --scenario outpost.yaml --ticks 600 --dt 10s --quiet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := simulateOptions{
				scenarioPath: scenarioPath,
				ticks:        ticks,
				step:         step,
				persist:      persist,
				quiet:        quiet,
			}
			return runSimulation(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario file (required)")
	cmd.Flags().IntVar(&ticks, "ticks", 60, "Number of ticks to run")
	cmd.Flags().DurationVar(&step, "dt", time.Minute, "Simulation time per tick")
	cmd.Flags().BoolVar(&persist, "persist", false, "Save the final state to the configured database")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Do not print notices")
	cmd.MarkFlagRequired("scenario")

	return cmd
}

type simulateOptions struct {
	scenarioPath string
	ticks        int
	step         time.Duration
	persist      bool
	quiet        bool
}

func runSimulation(ctx context.Context, opts simulateOptions, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.ticks < 0 {
		return fmt.Errorf("--ticks must not be negative")
	}
	if opts.step <= 0 {
		return fmt.Errorf("--dt must be positive")
	}

	cfg := config.LoadConfigOrDefault(configPath)
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, closer, err := gwlogging.NewFromConfig(cfg.Logging, errOut, errOut)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closer.Close()
	ctx = logging.WithLogger(ctx, logger)

	world, err := scenario.NewLoader(nil).Load(ctx, opts.scenarioPath)
	if err != nil {
		return err
	}

	clock := shared.NewMockClock(time.Time{})
	registry := workshop.NewRegistry()
	autostart, err := world.BuildWorkshops(cfg.Scheduler.ToSettings(), clock, registry)
	if err != nil {
		return fmt.Errorf("failed to build workshops: %w", err)
	}

	var (
		workshopRepo ports.WorkshopStateRepository
		progressRepo ports.JobProgressRepository
	)
	if opts.persist {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		workshopRepo = persistence.NewGormWorkshopStateRepository(db)
		progressRepo = persistence.NewGormJobProgressRepository(db)
	}

	notices := &printingNoticeLog{out: out, clock: clock, quiet: opts.quiet}
	handlers := setup.NewHandlerRegistry(registry, world, workshopRepo, progressRepo, notices, nil)
	m, err := handlers.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	for _, id := range autostart {
		if _, err := m.Send(ctx, &commands.StartWorkshopCommand{WorkshopID: id}); err != nil {
			fmt.Fprintf(out, "⚠ %v\n", err)
		}
	}

	coordinator, err := coordination.NewTickCoordinator(m, clock, coordination.CoordinatorConfig{TicksPerSecond: 1})
	if err != nil {
		return err
	}
	responses, err := coordinator.RunTicks(ctx, opts.ticks, opts.step)
	if err != nil {
		return fmt.Errorf("simulation stopped after %d ticks: %w", len(responses), err)
	}

	var (
		performed float64
		completed []string
	)
	for _, r := range responses {
		performed += r.WorkPerformed
		completed = append(completed, r.Completed...)
	}

	if opts.persist {
		if _, err := m.Send(ctx, &commands.PersistStateCommand{}); err != nil {
			return fmt.Errorf("failed to persist state: %w", err)
		}
	}

	list, err := mediator.SendAs[*queries.ListWorkshopsResponse](ctx, m, &queries.ListWorkshopsQuery{})
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScenario %q after %d ticks (%s simulated)\n", world.Name(), len(responses), time.Duration(len(responses))*opts.step)
	fmt.Fprintf(out, "Work performed: %.1f\n", performed)
	if len(completed) > 0 {
		fmt.Fprintf(out, "Completed: %d job(s)\n", len(completed))
	}
	fmt.Fprintln(out)
	printWorkshopTable(out, list.Workshops)
	return nil
}

// printingNoticeLog writes notices to the terminal as they happen
type printingNoticeLog struct {
	out   io.Writer
	clock shared.Clock
	quiet bool
}

func (p *printingNoticeLog) Log(ctx context.Context, workshopID string, notice workshop.Notice) error {
	if p.quiet {
		return nil
	}
	job := string(notice.Job)
	if job == "" {
		job = "-"
	}
	_, err := fmt.Fprintf(p.out, "%s  %-7s %-17s %-12s %-14s %s\n",
		p.clock.Now().Format("15:04:05"),
		notice.Kind.Level(),
		notice.Kind,
		workshopID,
		job,
		notice.Message,
	)
	return err
}

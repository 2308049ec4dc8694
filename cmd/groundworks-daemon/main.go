package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/oklog/run"

	grpcadapter "github.com/andrescamacho/groundworks-go/internal/adapters/grpc"
	gwlogging "github.com/andrescamacho/groundworks-go/internal/adapters/logging"
	"github.com/andrescamacho/groundworks-go/internal/adapters/metrics"
	"github.com/andrescamacho/groundworks-go/internal/adapters/persistence"
	"github.com/andrescamacho/groundworks-go/internal/adapters/scenario"
	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/setup"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/coordination"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/ports"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/config"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/database"
	"github.com/andrescamacho/groundworks-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config file (default: search ., ./configs, /etc/groundworks)")
	scenarioPath := flag.String("scenario", "", "Scenario file (overrides daemon.scenario)")
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	flag.Parse()

	fmt.Println("Groundworks Daemon v0.1.0")
	fmt.Println("=========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)
	if *scenarioPath != "" {
		cfg.Daemon.Scenario = *scenarioPath
	}
	if cfg.Daemon.Scenario == "" {
		log.Fatalf("No scenario configured: set daemon.scenario or pass --scenario")
	}

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	lock := pidfile.New(cfg.Daemon.PIDFile)
	if err := lock.Acquire(*forceFlag); err != nil {
		if errors.Is(err, pidfile.ErrAlreadyRunning) {
			log.Fatalf("%v\nUse --force to kill the existing daemon", err)
		}
		log.Fatalf("Failed to acquire PID file lock: %v", err)
	}
	defer lock.Release()

	if err := runDaemon(cfg); err != nil {
		lock.Release()
		log.Fatalf("Daemon error: %v", err)
	}
	fmt.Println("Daemon stopped")
}

func runDaemon(cfg *config.Config) error {
	logger, closer, err := gwlogging.NewFromConfig(cfg.Logging, os.Stdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer closer.Close()

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), logger))
	defer cancel()

	// Connect to database
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	clock := shared.NewRealClock()
	workshopRepo := persistence.NewGormWorkshopStateRepository(db)
	progressRepo := persistence.NewGormJobProgressRepository(db)
	noticeLog := persistence.NewGormWorkshopLogRepository(db, clock).WithDedupWindow(cfg.Scheduler.NoticeDedupWindow)

	// Load the world
	fmt.Printf("Loading scenario %s...\n", cfg.Daemon.Scenario)
	world, err := scenario.NewLoader(nil).Load(ctx, cfg.Daemon.Scenario)
	if err != nil {
		return err
	}
	registry := workshop.NewRegistry()
	autostart, err := world.BuildWorkshops(cfg.Scheduler.ToSettings(), clock, registry)
	if err != nil {
		return fmt.Errorf("failed to build workshops: %w", err)
	}
	fmt.Printf("✓ %d workshops on %d hosts\n", len(registry.All()), len(world.Hosts().All()))

	// Metrics are optional; without them the recorder and middleware are left out
	var (
		recorder      ports.MetricsRecorder
		middlewares   []mediator.Middleware
		metricsServer *metrics.Server
	)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		requestMetrics := metrics.NewRequestMetricsCollector()
		workshopMetrics := metrics.NewWorkshopMetricsCollector()
		if err := requestMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register request metrics: %w", err)
		}
		if err := workshopMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register workshop metrics: %w", err)
		}
		recorder = workshopMetrics
		middlewares = append(middlewares, metrics.PrometheusMiddleware(requestMetrics))

		metricsServer, err = metrics.NewServer(cfg.Metrics)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	handlers := setup.NewHandlerRegistry(registry, world, workshopRepo, progressRepo, noticeLog, recorder)
	m, err := handlers.CreateConfiguredMediator(middlewares...)
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}

	// Resume persisted queues and progress, then start autostart workshops
	state, err := mediator.SendAs[*commands.StateResponse](ctx, m, &commands.RestoreStateCommand{})
	if err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}
	fmt.Printf("✓ Restored %d workshops and %d jobs\n", state.Workshops, state.Jobs)
	for _, id := range autostart {
		if _, err := m.Send(ctx, &commands.StartWorkshopCommand{WorkshopID: id}); err != nil {
			logger.Warnf("Autostart of %s skipped: %v", id, err)
		}
	}

	coordinator, err := coordination.NewTickCoordinator(m, clock, coordination.CoordinatorConfig{
		TicksPerSecond: cfg.Daemon.TicksPerSecond,
		Burst:          cfg.Daemon.TickBurst,
		Step:           cfg.Daemon.Step,
		PersistEvery:   cfg.Daemon.PersistEvery,
	})
	if err != nil {
		return err
	}

	server, err := grpcadapter.NewWorkshopServer(m, logger, cfg.Daemon.Address)
	if err != nil {
		return fmt.Errorf("failed to create gRPC server: %w", err)
	}

	var g run.Group

	// Scheduler loop
	{
		tickCtx, stopTicks := context.WithCancel(ctx)
		g.Add(
			func() error {
				return coordinator.Run(tickCtx)
			},
			func(_ error) {
				stopTicks()
			},
		)
	}

	// gRPC API
	{
		g.Add(
			func() error {
				fmt.Printf("✓ gRPC server listening on %s\n", server.Addr())
				return server.Serve()
			},
			func(_ error) {
				server.Stop()
			},
		)
	}

	// Prometheus endpoint
	if metricsServer != nil {
		g.Add(
			func() error {
				fmt.Printf("✓ Metrics on http://%s%s\n", metricsServer.Addr(), cfg.Metrics.Path)
				return metricsServer.Serve()
			},
			func(_ error) {
				shutdownCtx, done := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
				defer done()
				_ = metricsServer.Shutdown(shutdownCtx)
			},
		)
	}

	// Signals
	{
		sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		g.Add(
			func() error {
				<-sigCtx.Done()
				fmt.Println("Shutting down...")
				return sigCtx.Err()
			},
			func(_ error) {
				stop()
			},
		)
	}

	err = g.Run()

	// Final snapshot so a restart resumes exactly where we stopped
	persistCtx, done := context.WithTimeout(logging.WithLogger(context.Background(), logger), cfg.Daemon.ShutdownTimeout)
	defer done()
	if _, perr := m.Send(persistCtx, &commands.PersistStateCommand{}); perr != nil {
		logger.Errorf("Failed to persist state on shutdown: %v", perr)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

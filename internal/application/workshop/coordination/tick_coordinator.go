package coordination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/groundworks-go/internal/application/logging"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// CoordinatorConfig tunes the tick loop
type CoordinatorConfig struct {
	// TicksPerSecond caps how often Run ticks the workshops
	TicksPerSecond float64

	// Burst lets Run catch up after a slow tick
	Burst int

	// Step is the simulation time per tick. Zero means wall-clock time since
	// the previous tick.
	Step time.Duration

	// PersistEvery saves state every N ticks; zero disables persistence
	PersistEvery int
}

// TickCoordinator drives TickWorkshopsCommand at a rate-limited cadence and
// periodically persists state. All work goes through the mediator, so ticks
// and user commands are serialized by its middleware.
type TickCoordinator struct {
	mediator mediator.Mediator
	limiter  *rate.Limiter
	clock    shared.Clock
	config   CoordinatorConfig
	ticks    int
}

// NewTickCoordinator creates a coordinator
func NewTickCoordinator(m mediator.Mediator, clock shared.Clock, config CoordinatorConfig) (*TickCoordinator, error) {
	if config.TicksPerSecond <= 0 {
		return nil, fmt.Errorf("ticks per second must be positive, got %g", config.TicksPerSecond)
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &TickCoordinator{
		mediator: m,
		limiter:  rate.NewLimiter(rate.Limit(config.TicksPerSecond), config.Burst),
		clock:    clock,
		config:   config,
	}, nil
}

// Ticks returns how many ticks ran
func (c *TickCoordinator) Ticks() int {
	return c.ticks
}

// Run ticks until ctx is cancelled. A failing tick is logged and the loop
// carries on.
func (c *TickCoordinator) Run(ctx context.Context) error {
	logger := logging.LoggerFromContext(ctx)
	last := c.clock.Now()

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				c.persist(context.WithoutCancel(ctx))
				return nil
			}
			return fmt.Errorf("rate limiter error: %w", err)
		}

		now := c.clock.Now()
		elapsed := c.config.Step
		if elapsed <= 0 {
			elapsed = now.Sub(last)
		}
		last = now
		if elapsed <= 0 {
			continue
		}

		if _, err := c.Tick(ctx, elapsed); err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			logger.Log(logging.LevelError, fmt.Sprintf("Tick failed: %v", err), map[string]interface{}{
				"action": "tick",
				"tick":   c.ticks,
			})
		}
	}
}

// RunTicks runs n ticks of dt back to back, without rate limiting. A mock
// clock is advanced along with the simulation.
func (c *TickCoordinator) RunTicks(ctx context.Context, n int, dt time.Duration) ([]*commands.TickWorkshopsResponse, error) {
	responses := make([]*commands.TickWorkshopsResponse, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return responses, err
		}
		if mock, ok := c.clock.(*shared.MockClock); ok {
			mock.Advance(dt)
		}
		resp, err := c.Tick(ctx, dt)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// Tick runs a single tick and persists when due
func (c *TickCoordinator) Tick(ctx context.Context, elapsed time.Duration) (*commands.TickWorkshopsResponse, error) {
	tick, err := mediator.SendAs[*commands.TickWorkshopsResponse](ctx, c.mediator, &commands.TickWorkshopsCommand{Elapsed: elapsed})
	if err != nil {
		return nil, err
	}
	c.ticks++
	if c.config.PersistEvery > 0 && c.ticks%c.config.PersistEvery == 0 {
		c.persist(ctx)
	}
	return tick, nil
}

func (c *TickCoordinator) persist(ctx context.Context) {
	if c.config.PersistEvery <= 0 {
		return
	}
	if _, err := c.mediator.Send(ctx, &commands.PersistStateCommand{}); err != nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelError, fmt.Sprintf("Failed to persist state: %v", err), map[string]interface{}{
			"action": "persist",
			"tick":   c.ticks,
		})
	}
}

package coordination

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
)

// recordingHandlers answers tick and persist commands and remembers them
type recordingHandlers struct {
	mu       sync.Mutex
	elapsed  []time.Duration
	persists int
	onTick   func(n int)
}

func (r *recordingHandlers) tick() mediator.RequestHandler {
	return handlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		cmd, ok := request.(*commands.TickWorkshopsCommand)
		if !ok {
			return nil, errors.New("invalid request type")
		}
		r.mu.Lock()
		r.elapsed = append(r.elapsed, cmd.Elapsed)
		n := len(r.elapsed)
		r.mu.Unlock()
		if r.onTick != nil {
			r.onTick(n)
		}
		return &commands.TickWorkshopsResponse{WorkPerformed: cmd.Elapsed.Seconds()}, nil
	})
}

func (r *recordingHandlers) persist() mediator.RequestHandler {
	return handlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		r.mu.Lock()
		r.persists++
		r.mu.Unlock()
		return &commands.StateResponse{}, nil
	})
}

func (r *recordingHandlers) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.elapsed), r.persists
}

type handlerFunc func(ctx context.Context, request mediator.Request) (mediator.Response, error)

func (f handlerFunc) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return f(ctx, request)
}

func newRecordingMediator(t *testing.T, rec *recordingHandlers) mediator.Mediator {
	t.Helper()
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.TickWorkshopsCommand](m, rec.tick()))
	require.NoError(t, mediator.RegisterHandler[*commands.PersistStateCommand](m, rec.persist()))
	return m
}

func TestTickCoordinator_RunTicks(t *testing.T) {
	// Arrange
	rec := &recordingHandlers{}
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := shared.NewMockClock(start)
	c, err := NewTickCoordinator(newRecordingMediator(t, rec), clock, CoordinatorConfig{
		TicksPerSecond: 1,
		PersistEvery:   2,
	})
	require.NoError(t, err)

	// Act
	responses, err := c.RunTicks(context.Background(), 5, time.Minute)

	// Assert
	require.NoError(t, err)
	assert.Len(t, responses, 5)
	assert.Equal(t, 60.0, responses[0].WorkPerformed)
	assert.Equal(t, 5, c.Ticks())
	assert.Equal(t, start.Add(5*time.Minute), clock.Now())

	ticks, persists := rec.counts()
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 2, persists, "persisted after tick 2 and 4")
}

func TestTickCoordinator_RunTicksStopsOnCancelledContext(t *testing.T) {
	// Arrange
	rec := &recordingHandlers{}
	c, err := NewTickCoordinator(newRecordingMediator(t, rec), shared.NewMockClock(time.Time{}), CoordinatorConfig{TicksPerSecond: 1})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	responses, err := c.RunTicks(ctx, 3, time.Second)

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, responses)
}

func TestTickCoordinator_RunPersistsOnShutdown(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := &recordingHandlers{}
	rec.onTick = func(n int) {
		if n == 3 {
			cancel()
		}
	}
	c, err := NewTickCoordinator(newRecordingMediator(t, rec), nil, CoordinatorConfig{
		TicksPerSecond: 1000,
		Burst:          10,
		Step:           30 * time.Second,
		PersistEvery:   100,
	})
	require.NoError(t, err)

	// Act
	err = c.Run(ctx)

	// Assert
	require.NoError(t, err)
	ticks, persists := rec.counts()
	assert.GreaterOrEqual(t, ticks, 3)
	assert.Equal(t, 1, persists)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, elapsed := range rec.elapsed {
		assert.Equal(t, 30*time.Second, elapsed)
	}
}

func TestNewTickCoordinator_RejectsNonPositiveRate(t *testing.T) {
	_, err := NewTickCoordinator(mediator.NewMediator(), nil, CoordinatorConfig{})
	assert.Error(t, err)
}

func TestTickCoordinator_TickRejectsForeignResponse(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*commands.TickWorkshopsCommand](m, handlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return &commands.StateResponse{}, nil
		})))
	c, err := NewTickCoordinator(m, nil, CoordinatorConfig{TicksPerSecond: 1})
	require.NoError(t, err)

	// Act
	resp, err := c.Tick(context.Background(), time.Second)

	// Assert
	assert.ErrorIs(t, err, mediator.ErrUnexpectedResponse)
	assert.Nil(t, resp)
	assert.Equal(t, 0, c.Ticks())
}

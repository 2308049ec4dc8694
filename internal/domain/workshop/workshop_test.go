package workshop

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
)

func TestWorkshop_ProportionalThrottle(t *testing.T) {
	// Arrange - 100 work costs 100 Material and 50 energy; only 60 Material in stock
	f := newWorkshopFixture(t, 100, map[string]float64{"Material": 60, energyResource: 1000})
	kit := newKit(t, "hab", 1, 1000, 1000)
	ref := f.hosts.add(newHost(t, "hab", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	// Act
	left, report, err := f.workshop.DoSomeWork(100)

	// Assert
	require.NoError(t, err)
	assert.InDelta(t, 40.0, left, 1e-9)
	assert.True(t, report.Throttled)
	assert.True(t, report.HasNotice(NoticeThrottled))
	assert.InDelta(t, 60.0, report.WorkPerformed, 1e-9)
	assert.InDelta(t, 60.0, report.ResourceUsed["Material"], 1e-9)
	assert.InDelta(t, 30.0, report.EnergyUsed, 1e-9)
	assert.InDelta(t, 20.0, report.Refunded[energyResource], 1e-9)
	assert.InDelta(t, 0.0, f.pool.stock["Material"], 1e-9)
	assert.InDelta(t, 970.0, f.pool.stock[energyResource], 1e-9)
	assert.InDelta(t, 60.0, kit.Jobs()[0].Stages()[0].WorkDone(), 1e-9)
}

func TestWorkshop_ThrottledTickIsNotStalled(t *testing.T) {
	// Arrange - a 100 work budget against 60 Material drains the stock mid-tick
	f := newWorkshopFixture(t, 100, map[string]float64{"Material": 60, energyResource: 1000})
	kit := newKit(t, "hab", 1, 1000, 1000)
	ref := f.hosts.add(newHost(t, "hab", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	// Act
	report := f.workshop.Tick(time.Second)

	// Assert
	assert.InDelta(t, 60.0, report.WorkPerformed, 1e-9)
	assert.True(t, report.HasNotice(NoticeThrottled))
	assert.Equal(t, StatusWorking, report.Status)
	assert.Equal(t, StatusWorking, f.workshop.Status())
	assert.InDelta(t, 940.0, report.ETA, 1e-9, "940 work left at 100 per second")
	assert.NotEqual(t, "stalled", FormatETA(f.workshop.ETA()))

	// Act - nothing left in stock, the next tick makes no progress
	report = f.workshop.Tick(time.Second)

	// Assert
	assert.Equal(t, 0.0, report.WorkPerformed)
	assert.Equal(t, StatusStalled, report.Status)
	assert.Less(t, report.ETA, 0.0)
}

func TestWorkshop_OnHoldWithoutResource(t *testing.T) {
	f := newWorkshopFixture(t, 100, map[string]float64{"Material": 0, energyResource: 1000})
	kit := newKit(t, "hab", 1, 1000, 1000)
	ref := f.hosts.add(newHost(t, "hab", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	report := f.workshop.Tick(time.Second)

	assert.Equal(t, StatusStalled, report.Status)
	assert.True(t, report.HasNotice(NoticeOnHold))
	assert.Equal(t, 0.0, report.WorkPerformed)
	assert.InDelta(t, 1000.0, f.pool.stock[energyResource], 1e-9, "energy is fully refunded")
	current, ok := f.workshop.Current()
	assert.True(t, ok)
	assert.Equal(t, ref, current, "a stalled workshop keeps its job")
}

func TestWorkshop_EnergyShutdown(t *testing.T) {
	// Arrange - 50 energy needed, 25 available
	f := newWorkshopFixture(t, 100, map[string]float64{"Material": 1000, energyResource: 25})
	kit := newKit(t, "hab", 1, 1000, 1000)
	ref := f.hosts.add(newHost(t, "hab", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	// Act
	report := f.workshop.Tick(time.Second)

	// Assert
	assert.Equal(t, 0.0, report.WorkPerformed)
	assert.True(t, report.HasNotice(NoticeNotEnoughEnergy))
	assert.InDelta(t, 1000.0, f.pool.stock["Material"], 1e-9, "resource request is fully refunded")
	assert.InDelta(t, 25.0, f.pool.stock[energyResource], 1e-9)
	assert.Equal(t, StatusStalled, f.workshop.Status())
	assert.True(t, f.workshop.IsWorking())
	assert.Less(t, f.workshop.ETA(), 0.0)
	assert.Equal(t, "stalled", FormatETA(f.workshop.ETA()))
	assert.Equal(t, 0.0, kit.FractionDone())

	// Act - energy arrives, the next tick retries on its own
	f.pool.stock[energyResource] = 1000
	report = f.workshop.Tick(time.Second)

	// Assert
	assert.Equal(t, StatusWorking, report.Status)
	assert.InDelta(t, 100.0, report.WorkPerformed, 1e-9)
}

func TestWorkshop_EnergyShutdownReturnsError(t *testing.T) {
	f := newWorkshopFixture(t, 100, map[string]float64{energyResource: 10})
	ref := f.hosts.add(newHost(t, "hab", 0, newKit(t, "hab", 1, 1000, 1000)))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	left, _, err := f.workshop.DoSomeWork(100)

	var shortage *ErrInsufficientEnergy
	require.True(t, errors.As(err, &shortage))
	assert.InDelta(t, 50.0, shortage.Requested, 1e-9)
	assert.InDelta(t, 10.0, shortage.Granted, 1e-9)
	assert.True(t, IsStall(err))
	assert.Equal(t, 100.0, left)
}

func TestWorkshop_DistanceDecay(t *testing.T) {
	tests := []struct {
		name         string
		distance     float64
		wantWorkDone float64
	}{
		{name: "within min distance", distance: 50, wantWorkDone: 100},
		{name: "halfway", distance: 125, wantWorkDone: 55},
		{name: "at max distance", distance: 200, wantWorkDone: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newWorkshopFixture(t, 10, nil)
			kit := newKit(t, "hab", 1, 1000, 1000)
			ref := f.hosts.add(newHost(t, "hab", tt.distance, kit))
			require.NoError(t, f.workshop.Enqueue(ref))
			require.NoError(t, f.workshop.Start())

			// Act
			report := f.workshop.Tick(10 * time.Second)

			// Assert
			assert.InDelta(t, tt.wantWorkDone, report.WorkPerformed, 1e-9)
			assert.InDelta(t, 100.0, report.Budget, 1e-9)
		})
	}
}

func TestWorkshop_UnreachableJobIsRotated(t *testing.T) {
	// Arrange
	f := newWorkshopFixture(t, 10, nil)
	far := f.hosts.add(newHost(t, "far", 300, newKit(t, "far", 1, 1000, 1000)))
	near := f.hosts.add(newHost(t, "near", 10, newKit(t, "near", 1, 1000, 1000)))
	require.NoError(t, f.workshop.Enqueue(near))
	require.NoError(t, f.workshop.StartTask(far))
	require.NoError(t, f.workshop.Start())

	// Act
	report := f.workshop.Tick(time.Second)

	// Assert
	assert.True(t, report.HasNotice(NoticeUnreachable))
	current, _ := f.workshop.Current()
	assert.Equal(t, near, current)
	assert.Equal(t, []JobRef{far}, f.workshop.Queue(), "unreachable job keeps its place in the queue")
	assert.InDelta(t, 10.0, report.WorkPerformed, 1e-9)
}

func TestWorkshop_OnlyUnreachableJobsGoesIdle(t *testing.T) {
	f := newWorkshopFixture(t, 10, nil)
	far := f.hosts.add(newHost(t, "far", 300, newKit(t, "far", 1, 1000, 1000)))
	require.NoError(t, f.workshop.StartTask(far))
	require.NoError(t, f.workshop.Start())

	report := f.workshop.Tick(time.Second)

	assert.Equal(t, StatusIdle, report.Status)
	assert.True(t, report.HasNotice(NoticeIdle))
	assert.Equal(t, []JobRef{far}, f.workshop.Queue())
}

func TestWorkshop_EndToEndETA(t *testing.T) {
	// Arrange - kit of two parts, Assembly 3600 / Construction 7200, workforce 1
	f := newWorkshopFixture(t, 1, nil)
	kit := newKit(t, "outpost", 2, 3600, 7200)
	ref := f.hosts.add(newHost(t, "outpost", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())
	assert.InDelta(t, 3600.0, f.workshop.ETA(), 1e-9)

	// Act
	f.clock.Advance(1800 * time.Second)
	report := f.workshop.Tick(1800 * time.Second)

	// Assert
	member := kit.Jobs()[0]
	assert.InDelta(t, 0.5, member.Stages()[0].Fraction(), 1e-9)
	assert.InDelta(t, 1800.0, report.ETA, 1e-6)
	assert.InDelta(t, 1800.0, f.workshop.ETA(), 1e-6)
	assert.InDelta(t, 5400.0, f.workshop.StageETA(), 1e-6)
	assert.Equal(t, "30m0s", FormatETA(f.workshop.ETA()))
	assert.Equal(t, f.clock.Now().Add(1800*time.Second), f.workshop.EndTimeEstimate())
	assert.Equal(t, StatusWorking, report.Status)
}

func TestWorkshop_StageAndJobCompletion(t *testing.T) {
	// Arrange
	f := newWorkshopFixture(t, 1, nil)
	kit := newKit(t, "outpost", 2, 3600, 1800)
	ref := f.hosts.add(newHost(t, "outpost", 0, kit))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	// Act - assembly of both parts
	report := f.workshop.Tick(7200 * time.Second)

	// Assert
	assert.True(t, report.HasNotice(NoticeStageComplete))
	assert.Equal(t, 1, kit.CurrentStageIndex())
	assert.Equal(t, work.TaskKindConstruction, kit.CurrentKind())
	current, ok := f.workshop.Current()
	assert.True(t, ok)
	assert.Equal(t, ref, current)

	// Act - construction of both parts
	report = f.workshop.Tick(3600 * time.Second)

	// Assert
	assert.True(t, kit.Complete())
	assert.True(t, report.HasNotice(NoticeJobComplete))
	assert.Equal(t, []JobRef{ref}, report.Completed)
	assert.Equal(t, StatusIdle, report.Status)
	_, ok = f.workshop.Current()
	assert.False(t, ok)
}

func TestWorkshop_ConstructionNeedsDeployedHost(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	kit := newKit(t, "outpost", 1, 100, 100)
	host := newHost(t, "outpost", 0, kit)
	host.state = DeployStateIdle
	ref := f.hosts.add(host)
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	report := f.workshop.Tick(100 * time.Second)

	assert.True(t, report.HasNotice(NoticeStageComplete))
	assert.True(t, report.HasNotice(NoticeJobReleased))
	assert.Equal(t, 1, kit.CurrentStageIndex())
	assert.Equal(t, StatusIdle, report.Status)
}

func TestWorkshop_DeployingHostIsRejected(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	host := newHost(t, "outpost", 0, newKit(t, "outpost", 1, 100, 100))
	host.state = DeployStateDeploying
	ref := f.hosts.add(host)

	err := f.workshop.Enqueue(ref)

	var invalid *ErrInvalidJob
	require.True(t, errors.As(err, &invalid))
	assert.False(t, f.workshop.CanWork(host))
}

func TestWorkshop_KindFilter(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil, work.TaskKindConstruction)
	ref := f.hosts.add(newHost(t, "outpost", 0, newKit(t, "outpost", 1, 100, 100)))

	err := f.workshop.Enqueue(ref)

	var invalid *ErrInvalidJob
	require.True(t, errors.As(err, &invalid))
	assert.Contains(t, invalid.Reason, "ASSEMBLY")
	assert.True(t, f.workshop.Handles(work.TaskKindConstruction))
	assert.False(t, f.workshop.Handles(work.TaskKindAssembly))
}

func TestWorkshop_InvalidHostIsDiscarded(t *testing.T) {
	// Arrange
	f := newWorkshopFixture(t, 10, nil)
	doomed := newHost(t, "doomed", 0, newKit(t, "doomed", 1, 1000, 1000))
	first := f.hosts.add(doomed)
	second := f.hosts.add(newHost(t, "second", 0, newKit(t, "second", 1, 1000, 1000)))
	require.NoError(t, f.workshop.Enqueue(first))
	require.NoError(t, f.workshop.Enqueue(second))
	require.NoError(t, f.workshop.Start())

	// Act - host destroyed between ticks
	doomed.gone = true
	report := f.workshop.Tick(time.Second)

	// Assert
	assert.True(t, report.HasNotice(NoticeInvalidJob))
	current, _ := f.workshop.Current()
	assert.Equal(t, second, current)
	assert.Empty(t, f.workshop.Queue())
	assert.InDelta(t, 10.0, report.WorkPerformed, 1e-9)
}

func TestWorkshop_VanishedHostIsDiscarded(t *testing.T) {
	f := newWorkshopFixture(t, 10, nil)
	ref := f.hosts.add(newHost(t, "gone", 0, newKit(t, "gone", 1, 1000, 1000)))
	require.NoError(t, f.workshop.Enqueue(ref))
	require.NoError(t, f.workshop.Start())

	delete(f.hosts, "gone")
	report := f.workshop.Tick(time.Second)

	assert.True(t, report.HasNotice(NoticeInvalidJob))
	assert.Equal(t, StatusIdle, report.Status)
}

func TestWorkshop_Start(t *testing.T) {
	t.Run("no workforce", func(t *testing.T) {
		f := newWorkshopFixture(t, 0, nil)
		ref := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 10, 10)))
		require.NoError(t, f.workshop.Enqueue(ref))

		assert.ErrorIs(t, f.workshop.Start(), ErrNoWorkforce)
		assert.False(t, f.workshop.IsWorking())
	})

	t.Run("no job", func(t *testing.T) {
		f := newWorkshopFixture(t, 1, nil)

		assert.ErrorIs(t, f.workshop.Start(), ErrNoJob)
		assert.Equal(t, StatusIdle, f.workshop.Status())
	})

	t.Run("takes the head of the queue", func(t *testing.T) {
		f := newWorkshopFixture(t, 1, nil)
		a := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 10, 10)))
		b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 10, 10)))
		require.NoError(t, f.workshop.Enqueue(a))
		require.NoError(t, f.workshop.Enqueue(b))

		require.NoError(t, f.workshop.Start())

		current, _ := f.workshop.Current()
		assert.Equal(t, a, current)
		assert.Equal(t, []JobRef{b}, f.workshop.Queue())
		assert.Equal(t, StatusWorking, f.workshop.Status())
	})
}

func TestWorkshop_Stop(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	kit := newKit(t, "a", 1, 100, 100)
	a := f.hosts.add(newHost(t, "a", 0, kit))
	b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 100, 100)))
	require.NoError(t, f.workshop.Enqueue(a))
	require.NoError(t, f.workshop.Enqueue(b))
	require.NoError(t, f.workshop.Start())
	f.workshop.Tick(10 * time.Second)

	// Act
	f.workshop.Stop(false)
	f.workshop.Stop(false)

	// Assert - stop is idempotent and keeps progress and the current job
	assert.Equal(t, StatusIdle, f.workshop.Status())
	current, ok := f.workshop.Current()
	assert.True(t, ok)
	assert.Equal(t, a, current)
	assert.InDelta(t, 10.0, kit.Jobs()[0].WorkDone(), 1e-9)

	// ticking while stopped does nothing
	report := f.workshop.Tick(10 * time.Second)
	assert.Equal(t, 0.0, report.WorkPerformed)

	// Act - reset
	f.workshop.Stop(true)

	// Assert
	_, ok = f.workshop.Current()
	assert.False(t, ok)
	assert.Equal(t, []JobRef{b, a}, f.workshop.Queue())
	assert.InDelta(t, 10.0, kit.Jobs()[0].WorkDone(), 1e-9)
}

func TestWorkshop_QueueManagement(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	a := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 10, 10)))
	b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 10, 10)))
	c := f.hosts.add(newHost(t, "c", 0, newKit(t, "c", 1, 10, 10)))

	require.NoError(t, f.workshop.Enqueue(a))
	require.NoError(t, f.workshop.Enqueue(b))
	require.NoError(t, f.workshop.Enqueue(c))
	require.NoError(t, f.workshop.Enqueue(b), "enqueue is idempotent")
	assert.Equal(t, []JobRef{a, b, c}, f.workshop.Queue())

	require.NoError(t, f.workshop.MoveUp(c))
	assert.Equal(t, []JobRef{a, c, b}, f.workshop.Queue())

	require.NoError(t, f.workshop.Remove(a))
	assert.Equal(t, []JobRef{c, b}, f.workshop.Queue())

	var notQueued *ErrJobNotQueued
	assert.True(t, errors.As(f.workshop.Remove(a), &notQueued))
	assert.True(t, errors.As(f.workshop.MoveUp("missing"), &notQueued))

	err := f.workshop.Enqueue("missing")
	var invalid *ErrInvalidJob
	assert.True(t, errors.As(err, &invalid))

	ref, ok := f.workshop.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, c, ref)
	assert.Equal(t, []JobRef{b}, f.workshop.Queue())
}

func TestWorkshop_StartTaskRequeuesPrevious(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	a := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 10, 10)))
	b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 10, 10)))
	c := f.hosts.add(newHost(t, "c", 0, newKit(t, "c", 1, 10, 10)))
	require.NoError(t, f.workshop.Enqueue(a))
	require.NoError(t, f.workshop.Enqueue(b))
	require.NoError(t, f.workshop.Enqueue(c))
	require.NoError(t, f.workshop.Start())

	require.NoError(t, f.workshop.StartTask(c))

	current, _ := f.workshop.Current()
	assert.Equal(t, c, current)
	assert.Equal(t, []JobRef{a, b}, f.workshop.Queue())
}

func TestWorkshop_RemoveCurrentWhileWorking(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	a := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 10, 10)))
	b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 10, 10)))
	require.NoError(t, f.workshop.Enqueue(a))
	require.NoError(t, f.workshop.Enqueue(b))
	require.NoError(t, f.workshop.Start())

	require.NoError(t, f.workshop.Remove(a))
	current, _ := f.workshop.Current()
	assert.Equal(t, b, current)
	assert.True(t, f.workshop.IsWorking())

	require.NoError(t, f.workshop.Remove(b))
	assert.False(t, f.workshop.IsWorking())
}

func TestWorkshop_DiscoverJobs(t *testing.T) {
	f := newWorkshopFixture(t, 1, nil)
	far := newHost(t, "far", 150, newKit(t, "far", 1, 10, 10))
	near := newHost(t, "near", 20, newKit(t, "near", 1, 10, 10))
	outOfRange := newHost(t, "out", 500, newKit(t, "out", 1, 10, 10))
	deploying := newHost(t, "deploying", 10, newKit(t, "deploying", 1, 10, 10))
	deploying.state = DeployStateDeploying
	for _, h := range []*fakeHost{far, near, outOfRange, deploying} {
		f.hosts.add(h)
	}

	added := f.workshop.DiscoverJobs([]Host{far, near, outOfRange, deploying})

	assert.Equal(t, []JobRef{"near", "far"}, added)
	assert.Equal(t, []JobRef{"near", "far"}, f.workshop.Queue())
	assert.Empty(t, f.workshop.DiscoverJobs([]Host{far, near}), "already queued jobs are skipped")
}

func TestWorkshop_UpdateFromProvider(t *testing.T) {
	f := newWorkshopFixture(t, 0, nil)

	f.workshop.UpdateFromProvider(provider{workforce: 12, max: 8, position: shared.NewPosition(1, 2, 3)})

	assert.Equal(t, 8.0, f.workshop.Workforce(), "workforce is capped at its maximum")
	assert.Equal(t, 8.0, f.workshop.MaxWorkforce())
	assert.Equal(t, shared.NewPosition(1, 2, 3), f.workshop.Position())
}

func TestWorkshop_SnapshotRestore(t *testing.T) {
	// Arrange
	f := newWorkshopFixture(t, 2, nil)
	a := f.hosts.add(newHost(t, "a", 0, newKit(t, "a", 1, 100, 100)))
	b := f.hosts.add(newHost(t, "b", 0, newKit(t, "b", 1, 100, 100)))
	require.NoError(t, f.workshop.Enqueue(a))
	require.NoError(t, f.workshop.Enqueue(b))
	require.NoError(t, f.workshop.Start())
	snap := f.workshop.Snapshot()

	restored, err := NewWorkshop("ws-1", "Workshop", nil, DefaultSettings(), f.hosts, f.pool, f.clock)
	require.NoError(t, err)

	// Act
	require.NoError(t, restored.Restore(snap))

	// Assert
	assert.True(t, restored.IsWorking())
	current, _ := restored.Current()
	assert.Equal(t, a, current)
	assert.Equal(t, []JobRef{b}, restored.Queue())
	assert.InDelta(t, 50.0, restored.ETA(), 1e-9)

	other, err := NewWorkshop("ws-2", "Other", nil, DefaultSettings(), f.hosts, f.pool, f.clock)
	require.NoError(t, err)
	assert.Error(t, other.Restore(snap))
}

func TestFormatETA(t *testing.T) {
	assert.Equal(t, "stalled", FormatETA(-1))
	assert.Equal(t, "0s", FormatETA(0))
	assert.Equal(t, "1h0m0s", FormatETA(3600))
	assert.Equal(t, "1m31s", FormatETA(90.6))
}

type provider struct {
	workforce float64
	max       float64
	position  shared.Position
}

func (p provider) Workforce() float64        { return p.workforce }
func (p provider) MaxWorkforce() float64     { return p.max }
func (p provider) Position() shared.Position { return p.position }

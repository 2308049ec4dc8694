package steps

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/groundworks-go/internal/adapters/scenario"
	"github.com/andrescamacho/groundworks-go/internal/application/mediator"
	"github.com/andrescamacho/groundworks-go/internal/application/setup"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/commands"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/coordination"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/dtos"
	"github.com/andrescamacho/groundworks-go/internal/application/workshop/queries"
	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// recordedNotice is a notice captured during a scenario
type recordedNotice struct {
	workshopID string
	notice     workshop.Notice
}

// noticeRecorder is an in-memory notice log
type noticeRecorder struct {
	notices []recordedNotice
}

func (r *noticeRecorder) Log(ctx context.Context, workshopID string, notice workshop.Notice) error {
	r.notices = append(r.notices, recordedNotice{workshopID: workshopID, notice: notice})
	return nil
}

// schedulerContext holds state for scheduler scenarios driven through the mediator
type schedulerContext struct {
	world       *scenario.World
	registry    *workshop.Registry
	clock       *shared.MockClock
	mediator    mediator.Mediator
	coordinator *coordination.TickCoordinator
	notices     *noticeRecorder
	settings    workshop.Settings
	err         error
	dequeued    *commands.DequeueJobResponse
}

func (sc *schedulerContext) reset() {
	sc.world = nil
	sc.registry = nil
	sc.clock = shared.NewMockClock(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	sc.mediator = nil
	sc.coordinator = nil
	sc.notices = &noticeRecorder{}
	sc.settings = workshop.DefaultSettings()
	sc.err = nil
	sc.dequeued = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (sc *schedulerContext) theResourceHoldThresholdIs(threshold float64) error {
	sc.settings.ResourceHoldThreshold = threshold
	return nil
}

func (sc *schedulerContext) theScenario(doc *godog.DocString) error {
	world, err := scenario.NewLoader(nil).Parse([]byte(doc.Content))
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	sc.world = world
	sc.registry = workshop.NewRegistry()
	if _, err := world.BuildWorkshops(sc.settings, sc.clock, sc.registry); err != nil {
		return fmt.Errorf("failed to build workshops: %w", err)
	}

	handlers := setup.NewHandlerRegistry(sc.registry, world, nil, nil, sc.notices, nil)
	m, err := handlers.CreateConfiguredMediator()
	if err != nil {
		return err
	}
	sc.mediator = m

	coordinator, err := coordination.NewTickCoordinator(m, sc.clock, coordination.CoordinatorConfig{TicksPerSecond: 1})
	if err != nil {
		return err
	}
	sc.coordinator = coordinator
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (sc *schedulerContext) send(request mediator.Request) (mediator.Response, error) {
	resp, err := sc.mediator.Send(context.Background(), request)
	sc.err = err
	return resp, err
}

func (sc *schedulerContext) workshopIsStarted(id string) error {
	_, err := sc.send(&commands.StartWorkshopCommand{WorkshopID: id})
	return err
}

func (sc *schedulerContext) iStartWorkshop(id string) error {
	sc.send(&commands.StartWorkshopCommand{WorkshopID: id})
	return nil
}

func (sc *schedulerContext) iStopWorkshop(id string) error {
	sc.send(&commands.StopWorkshopCommand{WorkshopID: id})
	return nil
}

func (sc *schedulerContext) iStopWorkshopWithReset(id string) error {
	sc.send(&commands.StopWorkshopCommand{WorkshopID: id, Reset: true})
	return nil
}

func (sc *schedulerContext) iEnqueueOnWorkshop(ref, id string) error {
	sc.send(&commands.EnqueueJobCommand{WorkshopID: id, JobRef: ref})
	return nil
}

func (sc *schedulerContext) iRemoveFromWorkshop(ref, id string) error {
	sc.send(&commands.RemoveJobCommand{WorkshopID: id, JobRef: ref})
	return nil
}

func (sc *schedulerContext) iMoveUpOnWorkshop(ref, id string) error {
	sc.send(&commands.MoveJobUpCommand{WorkshopID: id, JobRef: ref})
	return nil
}

func (sc *schedulerContext) iStartTaskOnWorkshop(ref, id string) error {
	sc.send(&commands.StartTaskCommand{WorkshopID: id, JobRef: ref})
	return nil
}

func (sc *schedulerContext) iDequeueFromWorkshop(id string) error {
	resp, err := sc.send(&commands.DequeueJobCommand{WorkshopID: id})
	if err == nil {
		sc.dequeued = resp.(*commands.DequeueJobResponse)
	}
	return nil
}

func (sc *schedulerContext) iDiscoverJobsForWorkshop(id string) error {
	sc.send(&commands.DiscoverJobsCommand{WorkshopID: id})
	return nil
}

func (sc *schedulerContext) ticksOfSecondsRun(n, seconds int) error {
	_, err := sc.coordinator.RunTicks(context.Background(), n, time.Duration(seconds)*time.Second)
	return err
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (sc *schedulerContext) status(id string) (dtos.WorkshopStatusDTO, error) {
	resp, err := sc.mediator.Send(context.Background(), &queries.GetWorkshopStatusQuery{WorkshopID: id})
	if err != nil {
		return dtos.WorkshopStatusDTO{}, err
	}
	return resp.(*queries.GetWorkshopStatusResponse).Workshop, nil
}

func (sc *schedulerContext) workshopShouldBe(id, expected string) error {
	s, err := sc.status(id)
	if err != nil {
		return err
	}
	if s.Status != expected {
		return fmt.Errorf("expected workshop %s to be %s, got %s", id, expected, s.Status)
	}
	return nil
}

func (sc *schedulerContext) workshopShouldHaveCurrentJob(id, ref string) error {
	s, err := sc.status(id)
	if err != nil {
		return err
	}
	if s.Current == nil {
		return fmt.Errorf("expected current job %s, workshop %s has none", ref, id)
	}
	if s.Current.Ref != ref {
		return fmt.Errorf("expected current job %s, got %s", ref, s.Current.Ref)
	}
	return nil
}

func (sc *schedulerContext) workshopShouldHaveNoCurrentJob(id string) error {
	s, err := sc.status(id)
	if err != nil {
		return err
	}
	if s.Current != nil {
		return fmt.Errorf("expected no current job, got %s", s.Current.Ref)
	}
	return nil
}

func (sc *schedulerContext) workshopShouldHaveQueue(id, expected string) error {
	s, err := sc.status(id)
	if err != nil {
		return err
	}
	refs := make([]string, 0, len(s.Queue))
	for _, j := range s.Queue {
		refs = append(refs, j.Ref)
	}
	if got := strings.Join(refs, ", "); got != expected {
		return fmt.Errorf("expected queue [%s], got [%s]", expected, got)
	}
	return nil
}

func (sc *schedulerContext) workshopShouldHaveAnEmptyQueue(id string) error {
	return sc.workshopShouldHaveQueue(id, "")
}

func (sc *schedulerContext) theETAOfWorkshopShouldBeSeconds(id string, expected float64) error {
	s, err := sc.status(id)
	if err != nil {
		return err
	}
	if math.Abs(s.ETA-expected) > 1e-6 {
		return fmt.Errorf("expected ETA %g, got %g", expected, s.ETA)
	}
	return nil
}

func (sc *schedulerContext) theJobOfHostShouldBeComplete(hostID string) error {
	host, ok := sc.world.Hosts().Resolve(hostID)
	if !ok {
		return fmt.Errorf("host %s not found", hostID)
	}
	if !host.Job().Complete() {
		return fmt.Errorf("expected job of %s to be complete, %.0f%% done", hostID, host.Job().FractionDone()*100)
	}
	return nil
}

func (sc *schedulerContext) theJobOfHostShouldBePercentDone(hostID string, percent float64) error {
	host, ok := sc.world.Hosts().Resolve(hostID)
	if !ok {
		return fmt.Errorf("host %s not found", hostID)
	}
	got := host.Job().FractionDone() * 100
	if math.Abs(got-percent) > 1e-6 {
		return fmt.Errorf("expected job of %s to be %g%% done, got %g%%", hostID, percent, got)
	}
	return nil
}

func (sc *schedulerContext) theStockOfShouldBe(resource string, expected float64) error {
	got := sc.world.Pool().Stock(resource)
	if math.Abs(got-expected) > 1e-6 {
		return fmt.Errorf("expected %s stock %g, got %g", resource, expected, got)
	}
	return nil
}

func (sc *schedulerContext) aNoticeShouldHaveBeenRaisedFor(kind, ref string) error {
	for _, n := range sc.notices.notices {
		if string(n.notice.Kind) == kind && string(n.notice.Job) == ref {
			return nil
		}
	}
	return fmt.Errorf("expected a %s notice for %s, got %v", kind, ref, sc.noticeKinds())
}

func (sc *schedulerContext) noNoticeShouldHaveBeenRaised(kind string) error {
	for _, n := range sc.notices.notices {
		if string(n.notice.Kind) == kind {
			return fmt.Errorf("unexpected %s notice: %s", kind, n.notice.Message)
		}
	}
	return nil
}

func (sc *schedulerContext) noticeKinds() []string {
	kinds := make([]string, 0, len(sc.notices.notices))
	for _, n := range sc.notices.notices {
		kinds = append(kinds, string(n.notice.Kind)+":"+string(n.notice.Job))
	}
	return kinds
}

func (sc *schedulerContext) theCommandShouldSucceed() error {
	if sc.err != nil {
		return fmt.Errorf("expected success, got %v", sc.err)
	}
	return nil
}

func (sc *schedulerContext) theCommandShouldFailWith(message string) error {
	if sc.err == nil {
		return fmt.Errorf("expected error containing %q, got none", message)
	}
	if !strings.Contains(sc.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, sc.err.Error())
	}
	return nil
}

func (sc *schedulerContext) theDequeuedJobShouldBe(ref string) error {
	if sc.dequeued == nil || !sc.dequeued.Found {
		return fmt.Errorf("expected %s to be dequeued, nothing was", ref)
	}
	if sc.dequeued.JobRef != ref {
		return fmt.Errorf("expected %s to be dequeued, got %s", ref, sc.dequeued.JobRef)
	}
	return nil
}

func (sc *schedulerContext) nothingShouldHaveBeenDequeued() error {
	if sc.dequeued != nil && sc.dequeued.Found {
		return fmt.Errorf("expected nothing dequeued, got %s", sc.dequeued.JobRef)
	}
	return nil
}

// InitializeSchedulerScenario registers the scheduler step definitions
func InitializeSchedulerScenario(ctx *godog.ScenarioContext) {
	sc := &schedulerContext{}

	ctx.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Setup steps
	ctx.Step(`^the resource hold threshold is ([\d.]+)$`, sc.theResourceHoldThresholdIs)
	ctx.Step(`^the scenario:$`, sc.theScenario)
	ctx.Step(`^workshop "([^"]*)" is started$`, sc.workshopIsStarted)

	// Action steps
	ctx.Step(`^I start workshop "([^"]*)"$`, sc.iStartWorkshop)
	ctx.Step(`^I stop workshop "([^"]*)"$`, sc.iStopWorkshop)
	ctx.Step(`^I stop workshop "([^"]*)" with reset$`, sc.iStopWorkshopWithReset)
	ctx.Step(`^I enqueue "([^"]*)" on workshop "([^"]*)"$`, sc.iEnqueueOnWorkshop)
	ctx.Step(`^I remove "([^"]*)" from workshop "([^"]*)"$`, sc.iRemoveFromWorkshop)
	ctx.Step(`^I move "([^"]*)" up on workshop "([^"]*)"$`, sc.iMoveUpOnWorkshop)
	ctx.Step(`^I start task "([^"]*)" on workshop "([^"]*)"$`, sc.iStartTaskOnWorkshop)
	ctx.Step(`^I dequeue from workshop "([^"]*)"$`, sc.iDequeueFromWorkshop)
	ctx.Step(`^I discover jobs for workshop "([^"]*)"$`, sc.iDiscoverJobsForWorkshop)
	ctx.Step(`^(\d+) ticks? of (\d+) seconds? (?:run|runs)$`, sc.ticksOfSecondsRun)

	// Assertion steps
	ctx.Step(`^workshop "([^"]*)" should be (IDLE|WORKING|STALLED)$`, sc.workshopShouldBe)
	ctx.Step(`^workshop "([^"]*)" should have current job "([^"]*)"$`, sc.workshopShouldHaveCurrentJob)
	ctx.Step(`^workshop "([^"]*)" should have no current job$`, sc.workshopShouldHaveNoCurrentJob)
	ctx.Step(`^workshop "([^"]*)" should have queue "([^"]*)"$`, sc.workshopShouldHaveQueue)
	ctx.Step(`^workshop "([^"]*)" should have an empty queue$`, sc.workshopShouldHaveAnEmptyQueue)
	ctx.Step(`^the ETA of workshop "([^"]*)" should be (-?[\d.]+) seconds$`, sc.theETAOfWorkshopShouldBeSeconds)
	ctx.Step(`^the job of host "([^"]*)" should be complete$`, sc.theJobOfHostShouldBeComplete)
	ctx.Step(`^the job of host "([^"]*)" should be ([\d.]+)% done$`, sc.theJobOfHostShouldBePercentDone)
	ctx.Step(`^the stock of "([^"]*)" should be ([\d.]+)$`, sc.theStockOfShouldBe)
	ctx.Step(`^an? "([^"]*)" notice should have been raised for "([^"]*)"$`, sc.aNoticeShouldHaveBeenRaisedFor)
	ctx.Step(`^no "([^"]*)" notice should have been raised$`, sc.noNoticeShouldHaveBeenRaised)
	ctx.Step(`^the command should succeed$`, sc.theCommandShouldSucceed)
	ctx.Step(`^the command should fail with "([^"]*)"$`, sc.theCommandShouldFailWith)
	ctx.Step(`^the dequeued job should be "([^"]*)"$`, sc.theDequeuedJobShouldBe)
	ctx.Step(`^nothing should have been dequeued$`, sc.nothingShouldHaveBeenDequeued)
}

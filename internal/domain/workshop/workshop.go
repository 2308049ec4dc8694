package workshop

import (
	"fmt"
	"sort"
	"time"

	"github.com/andrescamacho/groundworks-go/internal/domain/shared"
	"github.com/andrescamacho/groundworks-go/internal/domain/work"
	"github.com/andrescamacho/groundworks-go/pkg/utils"
)

// Status is the scheduling state of a workshop
type Status string

const (
	// StatusIdle - not working
	StatusIdle Status = "IDLE"

	// StatusWorking - draining workforce into the current job
	StatusWorking Status = "WORKING"

	// StatusStalled - working, but the last tick made no progress because a
	// resource or energy was missing
	StatusStalled Status = "STALLED"
)

const workEpsilon = 1e-9

// Workshop drains workforce into a queue of composite jobs.
//
// It holds job refs only; every tick re-resolves the current ref through the
// HostResolver and drops refs whose host vanished. A workshop is ticked by one
// caller at a time and mutates nothing but its own queue and current ref (and,
// through the job's host, the job itself).
//
// State Machine:
//
//	IDLE -Start-> WORKING <-> STALLED
//	WORKING/STALLED -Stop-> IDLE
//	WORKING -(queue exhausted)-> IDLE
type Workshop struct {
	id       string
	name     string
	kinds    []work.TaskKind
	settings Settings
	calc     work.RequirementCalculator
	hosts    HostResolver
	pool     ResourcePool
	clock    shared.Clock

	workforce    float64
	maxWorkforce float64
	position     shared.Position

	queue   *JobQueue
	current JobRef
	working bool
	stalled bool

	lastUpdate      time.Time
	endTimeEstimate time.Time
	eta             float64
}

// NewWorkshop creates an idle workshop. An empty id is generated from the
// name; no kinds means the workshop handles every stage.
func NewWorkshop(
	id, name string,
	kinds []work.TaskKind,
	settings Settings,
	hosts HostResolver,
	pool ResourcePool,
	clock shared.Clock,
) (*Workshop, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if hosts == nil {
		return nil, shared.NewValidationError("hosts", "host resolver is required")
	}
	if pool == nil {
		return nil, shared.NewValidationError("pool", "resource pool is required")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if id == "" {
		id = utils.GenerateID("ws", name)
	}
	if len(kinds) == 0 {
		kinds = work.AllTaskKinds
	}

	return &Workshop{
		id:         id,
		name:       name,
		kinds:      append([]work.TaskKind(nil), kinds...),
		settings:   settings,
		calc:       work.NewRequirementCalculator(),
		hosts:      hosts,
		pool:       pool,
		clock:      clock,
		queue:      NewJobQueue(),
		lastUpdate: clock.Now(),
	}, nil
}

// Getters

func (w *Workshop) ID() string                 { return w.id }
func (w *Workshop) Name() string               { return w.name }
func (w *Workshop) Settings() Settings         { return w.settings }
func (w *Workshop) Workforce() float64         { return w.workforce }
func (w *Workshop) MaxWorkforce() float64      { return w.maxWorkforce }
func (w *Workshop) Position() shared.Position  { return w.position }
func (w *Workshop) IsWorking() bool            { return w.working }
func (w *Workshop) LastUpdate() time.Time      { return w.lastUpdate }
func (w *Workshop) EndTimeEstimate() time.Time { return w.endTimeEstimate }

// Kinds returns the task kinds this workshop handles
func (w *Workshop) Kinds() []work.TaskKind {
	return append([]work.TaskKind(nil), w.kinds...)
}

// Handles reports whether the workshop works stages of the given kind
func (w *Workshop) Handles(kind work.TaskKind) bool {
	for _, k := range w.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Queue returns the queued refs in order
func (w *Workshop) Queue() []JobRef {
	return w.queue.Entries()
}

// Current returns the ref of the job being worked on
func (w *Workshop) Current() (JobRef, bool) {
	return w.current, w.current != ""
}

// Status returns the scheduling state
func (w *Workshop) Status() Status {
	switch {
	case !w.working:
		return StatusIdle
	case w.stalled:
		return StatusStalled
	default:
		return StatusWorking
	}
}

// ETA returns the seconds until the current member job finishes its current
// stage at the present workforce and distance. Negative means stalled.
func (w *Workshop) ETA() float64 {
	return w.eta
}

// StageETA returns the seconds until the whole kit finishes its current
// stage. Negative means stalled; zero means there is no current job.
func (w *Workshop) StageETA() float64 {
	host, ok := w.resolveCurrent()
	if !ok {
		return 0
	}
	rate := w.workforce * w.DistanceEfficiency(host)
	if rate <= 0 || (w.working && w.stalled) {
		return -1
	}
	job := host.Job()
	return job.WorkLeftInStage(job.CurrentStageIndex()) / rate
}

// DistanceEfficiency returns the work multiplier for a host at its current distance
func (w *Workshop) DistanceEfficiency(host Host) float64 {
	return w.settings.DistanceEfficiency(w.position.DistanceTo(host.Position()))
}

// CanWork reports whether the workshop may work on the host's job right now
func (w *Workshop) CanWork(host Host) bool {
	if host == nil {
		return false
	}
	return w.checkHost(JobRef(host.ID()), host) == nil
}

// Workforce & position

// SetWorkforce updates workforce (clamped to [0, max] when max is positive)
// and recomputes the ETA.
func (w *Workshop) SetWorkforce(workforce, maxWorkforce float64) {
	w.maxWorkforce = utils.Max(maxWorkforce, 0)
	w.workforce = utils.Max(workforce, 0)
	if w.maxWorkforce > 0 {
		w.workforce = utils.Min(w.workforce, w.maxWorkforce)
	}
	w.updateETA()
}

// SetPosition moves the workshop and recomputes the ETA
func (w *Workshop) SetPosition(p shared.Position) {
	w.position = p
	w.updateETA()
}

// UpdateFromProvider copies workforce and position from the hosting vessel
func (w *Workshop) UpdateFromProvider(p WorkforceProvider) {
	w.position = p.Position()
	w.SetWorkforce(p.Workforce(), p.MaxWorkforce())
}

// Queue management

// Enqueue appends a job. Enqueuing the current or an already queued job is a no-op.
func (w *Workshop) Enqueue(ref JobRef) error {
	if ref == w.current || w.queue.Contains(ref) {
		return nil
	}
	host, ok := w.hosts.Resolve(string(ref))
	if !ok {
		return &ErrInvalidJob{Job: ref, Reason: "host not found"}
	}
	if err := w.checkHost(ref, host); err != nil {
		return err
	}
	w.queue.PushBack(ref)
	return nil
}

// Dequeue pops the next queued ref without validating it
func (w *Workshop) Dequeue() (JobRef, bool) {
	return w.queue.PopFront()
}

// Remove deletes a job from the queue. Removing the current job makes the
// workshop pick the next valid one if it is working.
func (w *Workshop) Remove(ref JobRef) error {
	if ref != "" && ref == w.current {
		w.current = ""
		w.stalled = false
		if w.working {
			scratch := newTickReport(w.id, 0)
			if !w.selectNext(&scratch) {
				w.working = false
			}
		}
		w.updateETA()
		return nil
	}
	if !w.queue.Remove(ref) {
		return &ErrJobNotQueued{WorkshopID: w.id, Job: ref}
	}
	return nil
}

// MoveUp moves a queued job one place towards the head
func (w *Workshop) MoveUp(ref JobRef) error {
	if !w.queue.MoveUp(ref) {
		return &ErrJobNotQueued{WorkshopID: w.id, Job: ref}
	}
	return nil
}

// StartTask makes ref the current job. A previous current job goes back to
// the head of the queue.
func (w *Workshop) StartTask(ref JobRef) error {
	host, ok := w.hosts.Resolve(string(ref))
	if !ok {
		return &ErrInvalidJob{Job: ref, Reason: "host not found"}
	}
	if err := w.checkHost(ref, host); err != nil {
		return err
	}
	if ref == w.current {
		return nil
	}
	w.queue.Remove(ref)
	if w.current != "" {
		w.queue.PushFront(w.current)
	}
	w.current = ref
	w.stalled = false
	w.updateETA()
	return nil
}

// DiscoverJobs enqueues every host the workshop can work on and reach,
// nearest first, and returns the refs that were added.
func (w *Workshop) DiscoverJobs(hosts []Host) []JobRef {
	type candidate struct {
		ref      JobRef
		distance float64
	}
	var found []candidate
	for _, host := range hosts {
		if host == nil {
			continue
		}
		ref := JobRef(host.ID())
		if ref == w.current || w.queue.Contains(ref) {
			continue
		}
		if w.checkHost(ref, host) != nil || w.DistanceEfficiency(host) <= 0 {
			continue
		}
		found = append(found, candidate{ref: ref, distance: w.position.DistanceTo(host.Position())})
	}
	sort.SliceStable(found, func(i, j int) bool { return found[i].distance < found[j].distance })

	added := make([]JobRef, 0, len(found))
	for _, c := range found {
		if w.queue.PushBack(c.ref) {
			added = append(added, c.ref)
		}
	}
	return added
}

// Lifecycle

// Start begins working. It needs workforce and a valid job; without a current
// job the next valid queued one is taken.
func (w *Workshop) Start() error {
	if w.workforce <= 0 {
		return ErrNoWorkforce
	}
	scratch := newTickReport(w.id, 0)
	if !w.ensureCurrent(&scratch) {
		return ErrNoJob
	}
	w.working = true
	w.stalled = false
	w.lastUpdate = w.clock.Now()
	w.updateETA()
	return nil
}

// Stop stops working. With reset the current job goes to the back of the
// queue and the workshop is left without one. Stop is idempotent and never
// touches job progress.
func (w *Workshop) Stop(reset bool) {
	w.working = false
	w.stalled = false
	if reset && w.current != "" {
		w.queue.PushBack(w.current)
		w.current = ""
	}
	w.updateETA()
}

// Tick advances the workshop by elapsed simulation time. The work budget is
// workforce * elapsed seconds; it is spent through DoSomeWork until the
// budget runs out, the queue is exhausted, or a step gets no resources. The
// workshop only counts as stalled when the tick performed no work at all.
func (w *Workshop) Tick(elapsed time.Duration) (report TickReport) {
	report = newTickReport(w.id, elapsed)
	w.lastUpdate = w.clock.Now()
	defer w.finishReport(&report)

	if !w.working {
		return report
	}
	if !w.ensureCurrent(&report) {
		w.goIdle(&report)
		return report
	}
	if w.workforce <= 0 || elapsed <= 0 {
		return report
	}

	budget := w.workforce * elapsed.Seconds()
	report.Budget = budget
	w.stalled = false

	for step := 0; step < w.settings.MaxStepsPerTick && budget > workEpsilon; step++ {
		left, advanced, err := w.doSomeWork(budget, &report)
		if err != nil && IsStall(err) {
			// stalled only if the whole tick produced nothing
			w.stalled = report.WorkPerformed <= workEpsilon
			break
		}
		if w.current == "" {
			w.goIdle(&report)
			break
		}
		if err == nil && !advanced && left >= budget-workEpsilon {
			break
		}
		budget = left
	}
	return report
}

// DoSomeWork spends up to budget work on the current job once and returns the
// unspent budget. See Tick for the loop around it.
func (w *Workshop) DoSomeWork(budget float64) (float64, TickReport, error) {
	report := newTickReport(w.id, 0)
	report.Budget = budget
	left, _, err := w.doSomeWork(budget, &report)
	if IsStall(err) {
		w.stalled = true
	}
	w.finishReport(&report)
	return left, report, err
}

// doSomeWork performs one throttled work step:
//
//  1. distance efficiency d; unreachable hosts are rotated to the back of the queue
//  2. requirement of budget*d work on the current member job
//  3. request resource and energy from the pool
//  4. energy below the shutdown threshold refunds everything and stalls
//  5. otherwise work is scaled by the granted fraction; the fraction at or
//     below the hold threshold refunds everything and stalls
//  6. apply work, refund the unused withdrawal, complete stages/jobs
//  7. return budget - performed/d
//
// advanced reports a change of job or stage that did not consume budget.
func (w *Workshop) doSomeWork(budget float64, report *TickReport) (left float64, advanced bool, err error) {
	ref := w.current
	host, ok := w.hosts.Resolve(string(ref))
	var invalid *ErrInvalidJob
	if !ok {
		invalid = &ErrInvalidJob{Job: ref, Reason: "host not found"}
	} else {
		invalid = w.checkHost(ref, host)
	}
	if invalid != nil {
		report.notice(NoticeInvalidJob, ref, "%s", invalid.Reason)
		w.current = ""
		w.selectNext(report)
		return budget, true, invalid
	}

	job := host.Job()
	if job.AwaitingNextStage() {
		w.finishStage(ref, host, report)
		return budget, true, nil
	}

	distance := w.position.DistanceTo(host.Position())
	d := w.settings.DistanceEfficiency(distance)
	if d <= 0 {
		report.notice(NoticeUnreachable, ref, "%s is %.0fm away, beyond %.0fm", host.Name(), distance, w.settings.MaxDistance)
		w.current = ""
		w.queue.PushBack(ref)
		w.selectNext(report)
		return budget, true, &ErrUnreachableHost{Job: ref, Distance: distance, MaxDistance: w.settings.MaxDistance}
	}

	member := job.CurrentJob()
	if member == nil {
		return budget, false, nil
	}
	req := w.calc.ForWork(member, budget*d)
	if req.Work <= workEpsilon {
		return budget, false, nil
	}

	resource := req.Resource.Name()
	energy := w.settings.EnergyResource
	haveRes := 0.0
	if req.ResourceAmount > 0 {
		haveRes = w.pool.Request(resource, req.ResourceAmount)
	}
	haveEC := 0.0
	if req.Energy > 0 {
		haveEC = w.pool.Request(energy, req.Energy)
	}

	ecFrac := utils.Ratio(haveEC, req.Energy)
	if req.Energy > 0 && ecFrac < w.settings.EnergyShutdownThreshold {
		w.refund(resource, haveRes, report)
		w.refund(energy, haveEC, report)
		report.notice(NoticeNotEnoughEnergy, ref, "not enough energy: got %.2f of %.2f", haveEC, req.Energy)
		return budget, false, &ErrInsufficientEnergy{
			Job:       ref,
			Requested: req.Energy,
			Granted:   haveEC,
			Threshold: w.settings.EnergyShutdownThreshold,
		}
	}

	resFrac := utils.Ratio(haveRes, req.ResourceAmount)
	frac := utils.Clamp01(utils.Min(resFrac, ecFrac))
	if frac <= w.settings.ResourceHoldThreshold {
		w.refund(resource, haveRes, report)
		w.refund(energy, haveEC, report)
		report.notice(NoticeOnHold, ref, "on hold: waiting for %s", resource)
		return budget, false, &ErrInsufficientResource{
			Job:       ref,
			Resource:  resource,
			Requested: req.ResourceAmount,
			Granted:   haveRes,
		}
	}
	if frac < 1 {
		report.Throttled = true
		report.notice(NoticeThrottled, ref, "%s short, working at %.0f%%", resource, frac*100)
	}

	todo := req.Work * frac
	usedRes := req.ResourceAmount * frac
	usedEC := req.Energy * frac
	w.refund(resource, haveRes-usedRes, report)
	w.refund(energy, haveEC-usedEC, report)
	if usedRes > 0 {
		report.ResourceUsed[resource] += usedRes
	}
	report.EnergyUsed += usedEC

	performed := todo - job.DoWork(todo)
	report.WorkPerformed += performed

	if job.AwaitingNextStage() {
		w.finishStage(ref, host, report)
		advanced = true
	}
	return utils.Max(budget-performed/d, 0), advanced, nil
}

// finishStage moves a kit whose current stage is done for every member to
// its next stage and decides whether this workshop keeps working on it.
func (w *Workshop) finishStage(ref JobRef, host Host, report *TickReport) {
	job := host.Job()
	finished := job.CurrentKind()
	job.MustNextStage()
	report.notice(NoticeStageComplete, ref, "%s finished %s", host.Name(), finished)

	if job.Complete() {
		report.notice(NoticeJobComplete, ref, "%s is complete", host.Name())
		report.Completed = append(report.Completed, ref)
		w.current = ""
		w.selectNext(report)
		return
	}
	if err := w.checkHost(ref, host); err != nil {
		report.notice(NoticeJobReleased, ref, "%s released: %s", host.Name(), err.Reason)
		w.current = ""
		w.selectNext(report)
	}
}

// ensureCurrent keeps a valid current job or replaces it with the next valid
// queued one
func (w *Workshop) ensureCurrent(report *TickReport) bool {
	if w.current != "" {
		host, ok := w.hosts.Resolve(string(w.current))
		if ok && w.checkHost(w.current, host) == nil {
			return true
		}
		report.notice(NoticeInvalidJob, w.current, "current job is no longer valid")
		w.current = ""
	}
	return w.selectNext(report)
}

// selectNext takes the first queued job that is valid and reachable.
// Invalid entries are discarded; unreachable ones keep their queue position.
func (w *Workshop) selectNext(report *TickReport) bool {
	var skipped []JobRef
	defer func() {
		for i := len(skipped) - 1; i >= 0; i-- {
			w.queue.PushFront(skipped[i])
		}
	}()

	for {
		ref, ok := w.queue.PopFront()
		if !ok {
			w.current = ""
			return false
		}
		host, found := w.hosts.Resolve(string(ref))
		if !found {
			report.notice(NoticeInvalidJob, ref, "host not found; dropped from queue")
			continue
		}
		if err := w.checkHost(ref, host); err != nil {
			report.notice(NoticeInvalidJob, ref, "%s; dropped from queue", err.Reason)
			continue
		}
		if w.DistanceEfficiency(host) <= 0 {
			skipped = append(skipped, ref)
			continue
		}
		w.current = ref
		return true
	}
}

// checkHost validates a host against this workshop
func (w *Workshop) checkHost(ref JobRef, host Host) *ErrInvalidJob {
	if host == nil || !host.Recheck() {
		return &ErrInvalidJob{Job: ref, Reason: "host no longer exists"}
	}
	job := host.Job()
	if job == nil {
		return &ErrInvalidJob{Job: ref, Reason: "host has no job"}
	}
	if job.Complete() {
		return &ErrInvalidJob{Job: ref, Reason: "job is complete"}
	}

	// a kit waiting to leave its stage is judged by the stage it enters next
	stage := job.CurrentStageIndex()
	if job.AwaitingNextStage() {
		stage++
		if stage >= job.StageCount() {
			return nil
		}
	}
	kind := work.TaskKindForStage(stage)
	if !w.Handles(kind) {
		return &ErrInvalidJob{Job: ref, Reason: fmt.Sprintf("workshop does not handle %s", kind)}
	}
	if !CanWorkKind(kind, host.DeployState()) {
		return &ErrInvalidJob{Job: ref, Reason: fmt.Sprintf("%s not possible while host is %s", kind, host.DeployState())}
	}
	return nil
}

func (w *Workshop) resolveCurrent() (Host, bool) {
	if w.current == "" {
		return nil, false
	}
	host, ok := w.hosts.Resolve(string(w.current))
	if !ok || !host.Recheck() || host.Job() == nil {
		return nil, false
	}
	return host, true
}

func (w *Workshop) refund(resource string, amount float64, report *TickReport) {
	if amount <= workEpsilon || resource == "" {
		return
	}
	w.pool.Refund(resource, amount)
	report.Refunded[resource] += amount
}

func (w *Workshop) goIdle(report *TickReport) {
	w.working = false
	w.stalled = false
	w.current = ""
	report.notice(NoticeIdle, "", "no more jobs to work on")
}

// updateETA recomputes the time for the current member job to finish its
// current stage: work left / (workforce * distance efficiency).
func (w *Workshop) updateETA() {
	host, ok := w.resolveCurrent()
	if !ok {
		w.eta = 0
		w.endTimeEstimate = time.Time{}
		return
	}
	rate := w.workforce * w.DistanceEfficiency(host)
	if rate <= 0 || (w.working && w.stalled) {
		w.eta = -1
		w.endTimeEstimate = time.Time{}
		return
	}
	job := host.Job()
	left := 0.0
	if member := job.CurrentJob(); member != nil {
		left = member.WorkLeftInStage(job.CurrentStageIndex())
	}
	w.eta = left / rate
	w.endTimeEstimate = w.clock.Now().Add(shared.SecondsToDuration(w.eta))
}

func (w *Workshop) finishReport(report *TickReport) {
	w.updateETA()
	report.Status = w.Status()
	report.ETA = w.eta
}

// FormatETA renders an ETA in seconds; negative values read "stalled"
func FormatETA(seconds float64) string {
	if seconds < 0 {
		return "stalled"
	}
	return shared.SecondsToDuration(seconds).Round(time.Second).String()
}

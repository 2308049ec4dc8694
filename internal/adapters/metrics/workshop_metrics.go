package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/groundworks-go/internal/domain/workshop"
)

// WorkshopMetricsCollector turns tick reports into Prometheus series.
// It implements the application MetricsRecorder port.
type WorkshopMetricsCollector struct {
	workPerformed *prometheus.CounterVec
	resourceUsed  *prometheus.CounterVec
	refunded      *prometheus.CounterVec
	energyUsed    *prometheus.CounterVec
	throttled     *prometheus.CounterVec
	notices       *prometheus.CounterVec
	completed     *prometheus.CounterVec
	status        *prometheus.GaugeVec
	queueLength   *prometheus.GaugeVec
	eta           *prometheus.GaugeVec
}

// NewWorkshopMetricsCollector creates a new workshop metrics collector
func NewWorkshopMetricsCollector() *WorkshopMetricsCollector {
	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}
	gauge := func(name, help string, labels ...string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	return &WorkshopMetricsCollector{
		workPerformed: counter("work_performed_total", "Units of work applied to jobs", "workshop_id"),
		resourceUsed:  counter("resource_used_total", "Resource amounts consumed by work", "workshop_id", "resource"),
		refunded:      counter("resource_refunded_total", "Resource amounts returned to the pool after throttling", "workshop_id", "resource"),
		energyUsed:    counter("energy_used_total", "Energy consumed by work", "workshop_id"),
		throttled:     counter("throttled_ticks_total", "Ticks in which work was throttled by resource or energy supply", "workshop_id"),
		notices:       counter("notices_total", "Scheduler notices by kind", "workshop_id", "kind"),
		completed:     counter("jobs_completed_total", "Jobs finished", "workshop_id"),
		status:        gauge("workshop_status", "1 for the workshop's current status, 0 otherwise", "workshop_id", "status"),
		queueLength:   gauge("queue_length", "Jobs waiting in the workshop queue", "workshop_id"),
		eta:           gauge("eta_seconds", "Estimated seconds until the current stage completes, -1 when stalled", "workshop_id"),
	}
}

// Register registers the workshop metrics with the global registry
func (c *WorkshopMetricsCollector) Register() error {
	return register(
		c.workPerformed,
		c.resourceUsed,
		c.refunded,
		c.energyUsed,
		c.throttled,
		c.notices,
		c.completed,
		c.status,
		c.queueLength,
		c.eta,
	)
}

// RecordTick records the outcome of one workshop tick
func (c *WorkshopMetricsCollector) RecordTick(report workshop.TickReport, queueLength int) {
	id := report.WorkshopID

	if report.WorkPerformed > 0 {
		c.workPerformed.WithLabelValues(id).Add(report.WorkPerformed)
	}
	for resource, amount := range report.ResourceUsed {
		if amount > 0 {
			c.resourceUsed.WithLabelValues(id, resource).Add(amount)
		}
	}
	for resource, amount := range report.Refunded {
		if amount > 0 {
			c.refunded.WithLabelValues(id, resource).Add(amount)
		}
	}
	if report.EnergyUsed > 0 {
		c.energyUsed.WithLabelValues(id).Add(report.EnergyUsed)
	}
	if report.Throttled {
		c.throttled.WithLabelValues(id).Inc()
	}
	for _, n := range report.Notices {
		c.notices.WithLabelValues(id, string(n.Kind)).Inc()
	}
	if len(report.Completed) > 0 {
		c.completed.WithLabelValues(id).Add(float64(len(report.Completed)))
	}

	for _, s := range []workshop.Status{workshop.StatusIdle, workshop.StatusWorking, workshop.StatusStalled} {
		value := 0.0
		if s == report.Status {
			value = 1
		}
		c.status.WithLabelValues(id, string(s)).Set(value)
	}
	c.queueLength.WithLabelValues(id).Set(float64(queueLength))
	c.eta.WithLabelValues(id).Set(report.ETA)
}

// Forget drops every series of a workshop that was unregistered
func (c *WorkshopMetricsCollector) Forget(workshopID string) {
	labels := prometheus.Labels{"workshop_id": workshopID}
	for _, vec := range []interface {
		DeletePartialMatch(prometheus.Labels) int
	}{
		c.workPerformed, c.resourceUsed, c.refunded, c.energyUsed, c.throttled,
		c.notices, c.completed, c.status, c.queueLength, c.eta,
	} {
		vec.DeletePartialMatch(labels)
	}
}

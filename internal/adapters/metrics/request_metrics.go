package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetricsCollector tracks mediator traffic: how long commands and
// queries take, how often they fail, and how many are waiting. Requests are
// serialized, so in-flight above one means callers queue behind a tick.
type RequestMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight prometheus.Gauge
}

// NewRequestMetricsCollector creates the mediator request metrics
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		// a tick over many workshops is the slow path; queue edits are sub-millisecond
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Time spent handling mediator requests, including the wait for the scheduler lock",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
			[]string{"kind", "request"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Mediator requests handled, by kind, request and outcome",
			},
			[]string{"kind", "request", "status"},
		),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_in_flight",
			Help:      "Mediator requests currently running or waiting",
		}),
	}
}

// Register adds the collectors to the global registry
func (c *RequestMetricsCollector) Register() error {
	return register(c.duration, c.total, c.inFlight)
}

func (c *RequestMetricsCollector) begin() {
	c.inFlight.Inc()
}

// finish records one handled request
func (c *RequestMetricsCollector) finish(kind, request string, seconds float64, err error) {
	c.inFlight.Dec()
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.duration.WithLabelValues(kind, request).Observe(seconds)
	c.total.WithLabelValues(kind, request, status).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Every metric is exported as groundworks_scheduler_<name>
const (
	namespace = "groundworks"
	subsystem = "scheduler"
)

// Registry holds every collector served by Server. It stays nil when metrics
// are disabled, and Register calls then do nothing.
var Registry *prometheus.Registry

// InitRegistry creates the registry with Go runtime and process collectors.
// Call once at startup, before any Register.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IsEnabled reports whether InitRegistry has run
func IsEnabled() bool {
	return Registry != nil
}

func register(cs ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range cs {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func SetupPrometheus(collectorsToRegister ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()

	// Add Go module build info, runtime metrics and process collectors.
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if len(collectorsToRegister) > 0 {
		promRegistry.MustRegister(collectorsToRegister...)
	}

	return promRegistry
}

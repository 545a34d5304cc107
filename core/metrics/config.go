package metrics

import "github.com/kilianp07/pitwall/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort, when set, serves /metrics on a dedicated listener in
	// addition to the main HTTP server.
	PrometheusPort string `json:"prometheus_port"`
}

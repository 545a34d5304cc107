package metrics

import "github.com/kilianp07/pitwall/core/factory"

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// CreateMetricsSink instantiates a single configured sink.
func CreateMetricsSink(cfg factory.ModuleConfig) (MetricsSink, error) {
	return sinkRegistry.Create(cfg)
}

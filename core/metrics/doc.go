// Package metrics defines the sink interface used to observe strategy
// predictions. Sinks like PromSink and InfluxSink live in infra/metrics and
// register themselves by name so the configuration can list them; several
// sinks are combined with a MultiSink.
package metrics

package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
)

// MultiSink fanouts prediction events to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPrediction forwards the event to all sinks. Every sink is called
// even if an earlier one fails; errors are joined.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordCompounds forwards compound choices to sinks that support them.
func (m *MultiSink) RecordCompounds(choices []coremetrics.CompoundChoice) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.CompoundRecorder); ok {
			if err := rec.RecordCompounds(choices); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		CloseSink(s)
	}
}

// CloseSink releases s when it implements Close.
func CloseSink(s coremetrics.MetricsSink) {
	if c, ok := s.(interface{ Close() }); ok {
		c.Close()
	}
}

package metrics

import "time"

// Prediction outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PredictionEvent summarizes one strategy prediction.
type PredictionEvent struct {
	RequestID      string
	Track          string
	Team           string
	Driver         string
	Outcome        string
	PlannedStops   int
	SimulatedStops int
	LapRegressions int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records prediction events for observability purposes.
type MetricsSink interface {
	RecordPrediction(ev PredictionEvent) error
}

// CompoundChoice is one tire decision of a successful plan.
type CompoundChoice struct {
	Track    string
	Compound string
	Stint    int
}

// CompoundRecorder is implemented by sinks able to count tire choices.
type CompoundRecorder interface {
	RecordCompounds(choices []CompoundChoice) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordCompounds([]CompoundChoice) error { return nil }

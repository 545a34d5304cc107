package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
)

func TestPromSink_RecordPrediction(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	ok := coremetrics.PredictionEvent{Track: "Monza", Outcome: coremetrics.OutcomeSuccess, PlannedStops: 2, Duration: 2 * time.Millisecond}
	failed := coremetrics.PredictionEvent{Track: "Monza", Outcome: coremetrics.OutcomeError, LapRegressions: 1}
	for _, ev := range []coremetrics.PredictionEvent{ok, ok, failed} {
		if err := sink.RecordPrediction(ev); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	expected := `
# HELP pitwall_predictions_total Total number of strategy predictions by outcome
# TYPE pitwall_predictions_total counter
pitwall_predictions_total{outcome="error"} 1
pitwall_predictions_total{outcome="success"} 2
`
	if err := testutil.CollectAndCompare(sink.predictions, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.regressions.WithLabelValues("Monza")); v != 1 {
		t.Errorf("lap regressions = %v, want 1", v)
	}
	if c := testutil.CollectAndCount(sink.latency); c != 2 {
		t.Errorf("latency series = %d, want 2", c)
	}
	if c := testutil.CollectAndCount(sink.stops); c != 1 {
		t.Errorf("stop histogram series = %d, want 1", c)
	}
}

func TestPromSink_RecordCompounds(t *testing.T) {
	sink, err := NewPromSinkWithRegistry(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	err = sink.RecordCompounds([]coremetrics.CompoundChoice{
		{Track: "Monza", Compound: "SOFT", Stint: 1},
		{Track: "Monza", Compound: "HARD", Stint: 2},
		{Track: "Monza", Compound: "SOFT", Stint: 3},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if v := testutil.ToFloat64(sink.compounds.WithLabelValues("Monza", "SOFT")); v != 2 {
		t.Errorf("SOFT = %v, want 2", v)
	}
}

func TestPromSink_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	second, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	if first.predictions != second.predictions {
		t.Fatalf("expected the existing counter to be reused")
	}
}

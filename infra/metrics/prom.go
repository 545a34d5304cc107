package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records prediction events in Prometheus metrics.
type PromSink struct {
	predictions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	stops       *prometheus.HistogramVec
	regressions *prometheus.CounterVec
	compounds   *prometheus.CounterVec
}

// NewPromSink registers prediction metrics on the default Prometheus registerer.
// The metrics are served by the main HTTP server or by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_predictions_total",
		Help: "Total number of strategy predictions by outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	latency, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pitwall_prediction_duration_seconds",
		Help:    "Time spent simulating a strategy",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	stops, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pitwall_planned_pitstops",
		Help:    "Pit stop count predicted by the stop count model",
		Buckets: prometheus.LinearBuckets(0, 1, 6),
	}, []string{"track"}))
	if err != nil {
		return nil, err
	}
	regressions, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_lap_regressions_total",
		Help: "Simulated stops whose lap preceded the stint start lap",
	}, []string{"track"}))
	if err != nil {
		return nil, err
	}
	compounds, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pitwall_compound_choices_total",
		Help: "Tire compounds chosen in successful strategies",
	}, []string{"track", "compound"}))
	if err != nil {
		return nil, err
	}
	return &PromSink{
		predictions: predictions,
		latency:     latency,
		stops:       stops,
		regressions: regressions,
		compounds:   compounds,
	}, nil
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

// RecordPrediction updates the outcome counter and latency histogram. The
// stop count histogram only observes successful predictions.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Outcome).Inc()
	s.latency.WithLabelValues(ev.Outcome).Observe(ev.Duration.Seconds())
	if ev.Outcome == coremetrics.OutcomeSuccess {
		s.stops.WithLabelValues(ev.Track).Observe(float64(ev.PlannedStops))
	}
	if ev.LapRegressions > 0 {
		s.regressions.WithLabelValues(ev.Track).Add(float64(ev.LapRegressions))
	}
	return nil
}

// RecordCompounds increments the compound counter once per stint.
func (s *PromSink) RecordCompounds(choices []coremetrics.CompoundChoice) error {
	for _, c := range choices {
		s.compounds.WithLabelValues(c.Track, c.Compound).Inc()
	}
	return nil
}

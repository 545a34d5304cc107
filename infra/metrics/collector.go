package metrics

import (
	"context"

	"github.com/kilianp07/pitwall/core/events"
	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/infra/logger"
	"github.com/kilianp07/pitwall/internal/eventbus"
)

// collectorBuffer sizes the collector subscription so short bursts of
// requests are not dropped while a slow sink is writing.
const collectorBuffer = 256

// StartEventCollector subscribes to the strategy bus and records metrics for
// every event. The subscription is registered before it returns. It stops
// when the context is canceled or the bus is closed; the returned channel is
// closed once it has stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.StrategyEvent], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	log := logger.New("metrics-collector")
	sub := bus.SubscribeN(collectorBuffer)
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordPrediction(PredictionFromEvent(ev)); err != nil {
					log.Errorf("record prediction %s: %v", ev.RequestID, err)
				}
				rec, ok := sink.(coremetrics.CompoundRecorder)
				if !ok || !ev.Succeeded() {
					continue
				}
				if err := rec.RecordCompounds(CompoundsFromPlan(ev)); err != nil {
					log.Errorf("record compounds %s: %v", ev.RequestID, err)
				}
			}
		}
	}()
	return done
}

// PredictionFromEvent summarizes a strategy event for metrics sinks.
func PredictionFromEvent(ev events.StrategyEvent) coremetrics.PredictionEvent {
	pe := coremetrics.PredictionEvent{
		RequestID:      ev.RequestID,
		Track:          ev.Context.Track,
		Team:           ev.Context.Team,
		Driver:         ev.Context.Driver,
		Outcome:        coremetrics.OutcomeError,
		LapRegressions: ev.LapRegressions,
		Duration:       ev.Duration,
		Time:           ev.Time,
	}
	if ev.Succeeded() {
		pe.Outcome = coremetrics.OutcomeSuccess
		pe.PlannedStops = ev.Plan.TotalPitStops
		pe.SimulatedStops = ev.Plan.SimulatedStops()
	}
	return pe
}

// CompoundsFromPlan lists the tire chosen for each simulated stint.
func CompoundsFromPlan(ev events.StrategyEvent) []coremetrics.CompoundChoice {
	if ev.Plan == nil {
		return nil
	}
	out := make([]coremetrics.CompoundChoice, len(ev.Plan.TireStrategy))
	for i, st := range ev.Plan.TireStrategy {
		out[i] = coremetrics.CompoundChoice{Track: ev.Plan.Track, Compound: st.Tire, Stint: i + 1}
	}
	return out
}

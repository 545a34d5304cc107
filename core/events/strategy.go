package events

import (
	"time"

	"github.com/kilianp07/pitwall/core/model"
)

// StrategyEvent is emitted once per simulated strategy, successful or not.
// Plan is nil when Err is set.
type StrategyEvent struct {
	RequestID      string
	Context        model.RaceContext
	Plan           *model.StrategyPlan
	Err            error
	LapRegressions int
	Duration       time.Duration
	Time           time.Time
}

// Succeeded reports whether the prediction produced a plan.
func (e StrategyEvent) Succeeded() bool { return e.Err == nil && e.Plan != nil }

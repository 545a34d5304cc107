// Package history defines the persisted log of strategy predictions and the
// store interface used to query it.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/kilianp07/pitwall/core/events"
	"github.com/kilianp07/pitwall/core/model"
)

// Record captures one prediction request and its outcome.
type Record struct {
	Timestamp      time.Time           `json:"timestamp"`
	RequestID      string              `json:"request_id"`
	Context        model.RaceContext   `json:"context"`
	Plan           *model.StrategyPlan `json:"plan,omitempty"`
	Error          string              `json:"error,omitempty"`
	LapRegressions int                 `json:"lap_regressions,omitempty"`
	DurationMS     float64             `json:"duration_ms"`
}

// Query defines filters for retrieving records. Zero values match anything.
type Query struct {
	Start  time.Time
	End    time.Time
	Track  string
	Driver string
}

// Matches reports whether rec satisfies every filter of q. Track and driver
// comparisons ignore case.
func (q Query) Matches(rec Record) bool {
	if !q.Start.IsZero() && rec.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && rec.Timestamp.After(q.End) {
		return false
	}
	if q.Track != "" && !strings.EqualFold(q.Track, rec.Context.Track) {
		return false
	}
	if q.Driver != "" && !strings.EqualFold(q.Driver, rec.Context.Driver) {
		return false
	}
	return true
}

// Store persists Records and supports querying. Query returns records in
// timestamp order.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// FromEvent converts a strategy event into a Record.
func FromEvent(ev events.StrategyEvent) Record {
	rec := Record{
		Timestamp:      ev.Time,
		RequestID:      ev.RequestID,
		Context:        ev.Context,
		Plan:           ev.Plan,
		LapRegressions: ev.LapRegressions,
		DurationMS:     float64(ev.Duration) / float64(time.Millisecond),
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
		rec.Plan = nil
	}
	return rec
}

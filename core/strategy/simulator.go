package strategy

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kilianp07/pitwall/core/events"
	"github.com/kilianp07/pitwall/core/features"
	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/core/monitoring"
	"github.com/kilianp07/pitwall/core/prediction"
)

// maxRounded bounds model outputs converted to int.
const maxRounded = 1 << 30

// EventPublisher receives one event per prediction.
type EventPublisher interface {
	Publish(events.StrategyEvent)
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithLogger sets the simulator logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Simulator) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPublisher sets the destination of strategy events.
func WithPublisher(p EventPublisher) Option {
	return func(s *Simulator) { s.pub = p }
}

// WithClock overrides time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) {
		if now != nil {
			s.now = now
		}
	}
}

// Simulator turns the three point-prediction models of a ModelBundle into a
// full pit strategy. It holds no per-request state and is safe for
// concurrent use.
type Simulator struct {
	bundle *prediction.ModelBundle
	cfg    Config
	log    logger.Logger
	pub    EventPublisher
	now    func() time.Time
}

// NewSimulator creates a Simulator. cfg defaults are applied before
// validation.
func NewSimulator(bundle *prediction.ModelBundle, cfg Config, opts ...Option) (*Simulator, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: nil model bundle", prediction.ErrModelUnavailable)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{bundle: bundle, cfg: cfg, log: logger.NopLogger{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.cfg }

// Compounds returns the tire vocabulary of the loaded codec.
func (s *Simulator) Compounds() []string { return s.bundle.Codec().Classes() }

// stintState is the mutable state of one simulation.
type stintState struct {
	currentLap  int
	scaled      []float64
	stops       []model.PitStop
	regressions int
}

// Predict simulates the strategy for rc. No partial plan is returned on
// error.
func (s *Simulator) Predict(ctx context.Context, rc model.RaceContext) (model.StrategyPlan, error) {
	start := s.now()
	plan, regressions, err := s.simulate(ctx, rc)
	ev := events.StrategyEvent{
		RequestID:      RequestID(ctx),
		Context:        rc,
		Err:            err,
		LapRegressions: regressions,
		Duration:       s.now().Sub(start),
		Time:           start,
	}
	if err != nil {
		monitoring.CaptureException(err, map[string]string{
			"track":      rc.Track,
			"driver":     rc.Driver,
			"request_id": ev.RequestID,
		})
		s.publish(ev)
		return model.StrategyPlan{}, err
	}
	ev.Plan = &plan
	s.publish(ev)
	s.log.Infow("strategy predicted", map[string]any{
		"request_id":     ev.RequestID,
		"track":          rc.Track,
		"driver":         rc.Driver,
		"total_pitstops": plan.TotalPitStops,
		"pit_stop_laps":  plan.PitStopLaps,
		"duration_ms":    ev.Duration.Milliseconds(),
	})
	return plan, nil
}

func (s *Simulator) publish(ev events.StrategyEvent) {
	if s.pub != nil {
		s.pub.Publish(ev)
	}
}

func (s *Simulator) simulate(ctx context.Context, rc model.RaceContext) (model.StrategyPlan, int, error) {
	st := stintState{currentLap: rc.LapNumberAtStintStart}
	if err := s.rescale(&st, rc); err != nil {
		return model.StrategyPlan{}, 0, err
	}

	planned, err := s.predictStops(st.scaled)
	if err != nil {
		return model.StrategyPlan{}, 0, err
	}
	total, iterations, err := s.applyCap(planned)
	if err != nil {
		return model.StrategyPlan{}, 0, err
	}
	st.stops = make([]model.PitStop, 0, iterations)

	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return model.StrategyPlan{}, st.regressions, err
		}
		stop, err := s.nextStop(st.scaled)
		if err != nil {
			return model.StrategyPlan{}, st.regressions, err
		}
		if stop.Lap < st.currentLap {
			st.regressions++
			s.log.Warnf("stop %d on lap %d precedes stint start lap %d (track %s, driver %s)",
				i+1, stop.Lap, st.currentLap, rc.Track, rc.Driver)
			if s.cfg.RejectLapRegression {
				return model.StrategyPlan{}, st.regressions, &LapRegressionError{Stop: i + 1, PitLap: stop.Lap, CurrentLap: st.currentLap}
			}
		}
		s.log.Debugw("stop simulated", map[string]any{
			"stop":        i + 1,
			"stint_start": st.currentLap,
			"lap":         stop.Lap,
			"tire":        stop.Tire,
		})
		st.stops = append(st.stops, stop)
		st.currentLap = stop.Lap + 1
		if err := s.rescale(&st, rc); err != nil {
			return model.StrategyPlan{}, st.regressions, err
		}
	}
	return newPlan(rc, total, st.stops), st.regressions, nil
}

// rescale rebuilds the full feature record at the current lap and scales it.
func (s *Simulator) rescale(st *stintState, rc model.RaceContext) error {
	vec := features.Build(rc, st.currentLap).Vector()
	scaled, err := s.bundle.Scaler().Transform(vec)
	if err != nil {
		return &StepError{Step: "scale features", Err: err}
	}
	st.scaled = scaled
	return nil
}

func (s *Simulator) predictStops(x []float64) (int, error) {
	raw, err := s.bundle.StopCount().Predict(x)
	if err != nil {
		return 0, &StepError{Step: "stop count model", Err: err}
	}
	n, err := roundPrediction(raw)
	if err != nil {
		return 0, &StepError{Step: "stop count model", Err: err}
	}
	return n, nil
}

// applyCap returns the reported stop count and the number of iterations.
func (s *Simulator) applyCap(planned int) (int, int, error) {
	if planned > s.cfg.MaxStops {
		if s.cfg.OverCapPolicy == OverCapReject {
			return 0, 0, &StopLimitError{Predicted: planned, Max: s.cfg.MaxStops}
		}
		s.log.Warnf("predicted %d pit stops, clamping to %d", planned, s.cfg.MaxStops)
		return s.cfg.MaxStops, s.cfg.MaxStops, nil
	}
	if planned < 0 {
		s.log.Warnf("stop count model predicted %d pit stops", planned)
	}
	return planned, max(1, planned), nil
}

// nextStop queries the stop-lap and tire models on the same vector.
func (s *Simulator) nextStop(x []float64) (model.PitStop, error) {
	raw, err := s.bundle.StopLap().Predict(x)
	if err != nil {
		return model.PitStop{}, &StepError{Step: "stop lap model", Err: err}
	}
	lap, err := roundPrediction(raw)
	if err != nil {
		return model.PitStop{}, &StepError{Step: "stop lap model", Err: err}
	}
	code, err := s.bundle.Tire().Predict(x)
	if err != nil {
		return model.PitStop{}, &StepError{Step: "tire model", Err: err}
	}
	label, err := s.bundle.Codec().Decode(code)
	if err != nil {
		return model.PitStop{}, &StepError{Step: "decode compound", Err: err}
	}
	return model.PitStop{Lap: lap, Tire: label}, nil
}

func newPlan(rc model.RaceContext, total int, stops []model.PitStop) model.StrategyPlan {
	plan := model.StrategyPlan{
		Track:         rc.Track,
		Year:          rc.Year,
		Team:          rc.Team,
		Driver:        rc.Driver,
		TotalPitStops: total,
		PitStopLaps:   make([]int, len(stops)),
		TireStrategy:  make([]model.PitStop, len(stops)),
	}
	for i, st := range stops {
		plan.PitStopLaps[i] = st.Lap
		plan.TireStrategy[i] = model.PitStop{Lap: st.Lap, Tire: strings.ToUpper(st.Tire)}
	}
	return plan
}

var errNonFinite = errors.New("non-finite model output")

// roundPrediction rounds half away from zero.
func roundPrediction(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNonFinite
	}
	r := math.Round(v)
	if math.Abs(r) > maxRounded {
		return 0, fmt.Errorf("model output %g out of range", v)
	}
	return int(r), nil
}

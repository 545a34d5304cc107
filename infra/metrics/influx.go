package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/pitwall/core/metrics"
	"github.com/kilianp07/pitwall/infra/logger"
)

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes prediction events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes one strategy_prediction point.
func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, predictionPoint(ev))
}

// RecordCompounds writes one compound_choice point per stint.
func (s *InfluxSink) RecordCompounds(choices []coremetrics.CompoundChoice) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	for _, c := range choices {
		p := write.NewPointWithMeasurement("compound_choice").
			AddTag("compound", c.Compound).
			AddTag("track", c.Track).
			AddField("stint", c.Stint).
			SetTime(now)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func predictionPoint(ev coremetrics.PredictionEvent) *write.Point {
	return write.NewPointWithMeasurement("strategy_prediction").
		AddTag("track", ev.Track).
		AddTag("team", ev.Team).
		AddTag("driver", ev.Driver).
		AddTag("outcome", ev.Outcome).
		AddTag("request_id", ev.RequestID).
		AddField("planned_stops", ev.PlannedStops).
		AddField("simulated_stops", ev.SimulatedStops).
		AddField("lap_regressions", ev.LapRegressions).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		AddField("success", ev.Outcome == coremetrics.OutcomeSuccess).
		SetTime(ev.Time)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitForHealthy(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), HealthTimeout)
	defer cancel()
	if err := WaitForHealthy(ctx, srv.URL); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 polls, got %d", calls.Load())
	}
}

func TestWaitForMetric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pitwall_predictions_total{outcome=\"success\"} 1\n"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), MetricTimeout)
	defer cancel()
	if err := WaitForMetric(ctx, srv.URL, `outcome="success"`); err != nil {
		t.Fatalf("wait: %v", err)
	}

	short, cancelShort := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancelShort()
	if err := WaitForMetric(short, srv.URL, "pitwall_lap_regressions_total"); err == nil {
		t.Fatal("expected timeout for a missing metric")
	}
}

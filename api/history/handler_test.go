package history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	corehistory "github.com/kilianp07/pitwall/core/history"
	"github.com/kilianp07/pitwall/core/model"
)

type memStore struct {
	recs    []corehistory.Record
	lastQ   corehistory.Query
	failure error
}

func (m *memStore) Append(_ context.Context, r corehistory.Record) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memStore) Query(_ context.Context, q corehistory.Query) ([]corehistory.Record, error) {
	m.lastQ = q
	if m.failure != nil {
		return nil, m.failure
	}
	var res []corehistory.Record
	for _, r := range m.recs {
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func (m *memStore) Close() error { return nil }

func TestHandler_AuthAndFilters(t *testing.T) {
	store := &memStore{}
	now := time.Now().UTC()
	_ = store.Append(context.Background(), corehistory.Record{Timestamp: now, RequestID: "a", Context: model.RaceContext{Track: "Bahrain", Driver: "NOR"}})
	_ = store.Append(context.Background(), corehistory.Record{Timestamp: now, RequestID: "b", Context: model.RaceContext{Track: "Monza", Driver: "LEC"}})
	h := NewHandler(store, "tok")

	req := httptest.NewRequest("GET", "/api/predictions?track=monza", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []corehistory.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].RequestID != "b" {
		t.Fatalf("unexpected records %+v", out)
	}

	req = httptest.NewRequest("GET", "/api/predictions", nil)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestHandler_TimeWindow(t *testing.T) {
	store := &memStore{}
	h := NewHandler(store, "")
	req := httptest.NewRequest("GET", "/api/predictions?start=2024-03-01T00:00:00Z&end=2024-03-02T00:00:00Z&driver=NOR", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if rr.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", rr.Body.String())
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !store.lastQ.Start.Equal(want) || store.lastQ.Driver != "NOR" {
		t.Fatalf("unexpected query %+v", store.lastQ)
	}
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(&memStore{failure: errors.New("disk full")}, "")
	cases := []struct {
		method, url string
		status      int
	}{
		{"GET", "/api/predictions?start=yesterday", http.StatusBadRequest},
		{"GET", "/api/predictions?end=2024-13-01", http.StatusBadRequest},
		{"GET", "/api/predictions", http.StatusInternalServerError},
		{"POST", "/api/predictions", http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(c.method, c.url, nil))
		if rr.Code != c.status {
			t.Errorf("%s %s: status %d, want %d", c.method, c.url, rr.Code, c.status)
		}
	}
}

// Package strategy exposes the strategy simulator over HTTP.
package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pitwall/core/logger"
	"github.com/kilianp07/pitwall/core/model"
	corestrategy "github.com/kilianp07/pitwall/core/strategy"
)

// maxBodyBytes bounds a prediction request body.
const maxBodyBytes = 1 << 20

// RequestIDHeader carries the request identifier in and out.
const RequestIDHeader = "X-Request-ID"

// Predictor runs strategy simulations.
type Predictor interface {
	Predict(ctx context.Context, rc model.RaceContext) (model.StrategyPlan, error)
	Compounds() []string
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewPredictHandler returns the POST /predict_strategy handler. Validation
// failures answer 422, simulation failures 500 with a
// "Prediction failed: <cause>" detail.
func NewPredictHandler(pred Predictor, log logger.Logger) http.Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "method not allowed"})
			return
		}
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rc, err := DecodeRaceContext(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			var verr *corestrategy.ValidationError
			if errors.As(err, &verr) {
				log.Warnf("request %s rejected: %v", id, err)
				writeError(w, http.StatusUnprocessableEntity, ErrorResponse{Detail: verr.Error(), Fields: verr.Fields})
				return
			}
			writeError(w, http.StatusBadRequest, ErrorResponse{Detail: err.Error()})
			return
		}

		start := time.Now()
		plan, err := pred.Predict(corestrategy.WithRequestID(r.Context(), id), rc)
		if err != nil {
			log.Errorf("request %s (track %s, driver %s) failed after %s: %v", id, rc.Track, rc.Driver, time.Since(start), err)
			writeError(w, http.StatusInternalServerError, ErrorResponse{Detail: "Prediction failed: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, plan)
	})
}

// NewCompoundsHandler returns the GET /compounds handler listing the tire
// vocabulary of the loaded models.
func NewCompoundsHandler(pred Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, ErrorResponse{Detail: "method not allowed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string][]string{"compounds": pred.Compounds()})
	})
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

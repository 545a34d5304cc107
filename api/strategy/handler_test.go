package strategy

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pitwall/core/model"
	"github.com/kilianp07/pitwall/core/prediction"
	corestrategy "github.com/kilianp07/pitwall/core/strategy"
)

const validBody = `{
	"track": "Bahrain", "year": 2024, "team": "McLaren", "driver": "NOR",
	"airTemp": 25, "trackTemp": 40, "rainfall": 0, "lapNumberAtBeginingOfStint": 1,
	"meanHumid": 75, "fuelConsumptionPerStint": 0.006, "lag_slope_mean": 0.002,
	"bestPreRaceTime": 82.0, "CircuitLength": 5.8, "StintLen": 30, "RoundNumber": 10,
	"stintPerformance": 5.0, "tyreDegradationPerStint": 0.002
}`

func newSimulator(t *testing.T, count []float64, laps []float64, codes []int) *corestrategy.Simulator {
	t.Helper()
	b, err := prediction.NewModelBundle(
		prediction.IdentityScaler{},
		&prediction.MockRegressor{Values: count},
		&prediction.MockRegressor{Values: laps},
		&prediction.MockClassifier{Codes: codes},
		prediction.SliceCodec{"hard", "intermediate", "medium", "soft", "wet"},
	)
	require.NoError(t, err)
	sim, err := corestrategy.NewSimulator(b, corestrategy.Config{})
	require.NoError(t, err)
	return sim
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict_strategy", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPredictHandler_Success(t *testing.T) {
	h := NewPredictHandler(newSimulator(t, []float64{2}, []float64{20, 45}, []int{3, 0}), nil)
	rr := post(h, validBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	assert.JSONEq(t, `{
		"track": "Bahrain", "year": 2024, "team": "McLaren", "driver": "NOR",
		"total_pitstops": 2, "pit_stop_laps": [20, 45],
		"tire_strategy": [{"lap": 20, "tire": "SOFT"}, {"lap": 45, "tire": "HARD"}]
	}`, rr.Body.String())
}

func TestPredictHandler_ZeroStops(t *testing.T) {
	h := NewPredictHandler(newSimulator(t, []float64{0}, []float64{33}, []int{2}), nil)
	rr := post(h, validBody)
	require.Equal(t, http.StatusOK, rr.Code)
	var plan model.StrategyPlan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	assert.Equal(t, 0, plan.TotalPitStops)
	assert.Equal(t, []int{33}, plan.PitStopLaps)
	assert.Equal(t, "MEDIUM", plan.TireStrategy[0].Tire)
}

func TestPredictHandler_UnknownCompoundThenHealthy(t *testing.T) {
	h := NewPredictHandler(newSimulator(t, []float64{1}, []float64{30}, []int{9, 3}), nil)

	rr := post(h, validBody)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
	assert.True(t, strings.HasPrefix(er.Detail, "Prediction failed: "), er.Detail)
	assert.Contains(t, er.Detail, "9")

	rr = post(h, validBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"tire":"SOFT"`)
}

func TestPredictHandler_ModelFailure(t *testing.T) {
	b, err := prediction.NewModelBundle(
		prediction.IdentityScaler{},
		&prediction.MockRegressor{Err: errors.New("booster crashed")},
		&prediction.MockRegressor{Values: []float64{1}},
		&prediction.MockClassifier{Codes: []int{0}},
		prediction.SliceCodec{"hard"},
	)
	require.NoError(t, err)
	sim, err := corestrategy.NewSimulator(b, corestrategy.Config{})
	require.NoError(t, err)

	rr := post(NewPredictHandler(sim, nil), validBody)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Prediction failed: stop count model: booster crashed")
}

func TestPredictHandler_Validation(t *testing.T) {
	lap := &prediction.MockRegressor{Values: []float64{30}}
	b, err := prediction.NewModelBundle(prediction.IdentityScaler{}, &prediction.MockRegressor{Values: []float64{1}},
		lap, &prediction.MockClassifier{Codes: []int{0}}, prediction.SliceCodec{"hard"})
	require.NoError(t, err)
	sim, err := corestrategy.NewSimulator(b, corestrategy.Config{})
	require.NoError(t, err)
	h := NewPredictHandler(sim, nil)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing", strings.Replace(validBody, `"driver": "NOR",`, "", 1), "driver"},
		{"null", strings.Replace(validBody, `"year": 2024`, `"year": null`, 1), "year"},
		{"string for number", strings.Replace(validBody, `"airTemp": 25`, `"airTemp": "hot"`, 1), "airTemp"},
		{"fractional int", strings.Replace(validBody, `"StintLen": 30`, `"StintLen": 30.5`, 1), "StintLen"},
		{"negative int", strings.Replace(validBody, `"RoundNumber": 10`, `"RoundNumber": -1`, 1), "RoundNumber"},
		{"number for string", strings.Replace(validBody, `"track": "Bahrain"`, `"track": 7`, 1), "track"},
		{"not an object", `[1, 2]`, "body"},
		{"empty", ``, "body"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr := post(h, c.body)
			require.Equal(t, http.StatusUnprocessableEntity, rr.Code, rr.Body.String())
			var er ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
			assert.Contains(t, er.Fields, c.field)
			assert.Contains(t, er.Detail, c.field)
		})
	}
	assert.Zero(t, lap.Calls(), "the simulator must not run for invalid requests")
}

func TestPredictHandler_AllFieldsMissing(t *testing.T) {
	rr := post(NewPredictHandler(newSimulator(t, []float64{1}, []float64{1}, []int{0}), nil), `{}`)
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
	assert.Len(t, er.Fields, len(RequestFields()))
}

func TestPredictHandler_BodyTooLarge(t *testing.T) {
	body := `{"track": "` + strings.Repeat("a", 2<<20) + `"}`
	rr := post(NewPredictHandler(newSimulator(t, []float64{1}, []float64{1}, []int{0}), nil), body)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &er))
	assert.Contains(t, er.Detail, "request body too large")
	assert.Empty(t, er.Fields)
}

func TestPredictHandler_IntegralFloatAndExtraFields(t *testing.T) {
	body := strings.Replace(validBody, `"StintLen": 30`, `"StintLen": 30.0, "session": "R"`, 1)
	rc, err := DecodeRaceContext(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 30, rc.StintLen)
	assert.Equal(t, "NOR", rc.Driver)
	assert.Equal(t, 0.002, rc.LagSlopeMean)
}

func TestPredictHandler_RequestIDPropagated(t *testing.T) {
	h := NewPredictHandler(newSimulator(t, []float64{1}, []float64{30}, []int{3}), nil)
	req := httptest.NewRequest(http.MethodPost, "/predict_strategy", strings.NewReader(validBody))
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}

func TestPredictHandler_MethodNotAllowed(t *testing.T) {
	h := NewPredictHandler(newSimulator(t, []float64{1}, []float64{30}, []int{3}), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/predict_strategy", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestCompoundsHandler(t *testing.T) {
	h := NewCompoundsHandler(newSimulator(t, []float64{1}, []float64{30}, []int{3}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/compounds", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"compounds": ["hard", "intermediate", "medium", "soft", "wet"]}`, rr.Body.String())
}

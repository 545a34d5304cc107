package strategy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/kilianp07/pitwall/core/model"
	corestrategy "github.com/kilianp07/pitwall/core/strategy"
)

// maxInt bounds integer request fields.
const maxInt = 1 << 31

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindFloat
)

// field binds one request property to its RaceContext destination.
type field struct {
	name    string
	kind    fieldKind
	str     func(*model.RaceContext) *string
	num     func(*model.RaceContext) *float64
	integer func(*model.RaceContext) *int
}

var requestFields = []field{
	{name: "track", kind: kindString, str: func(c *model.RaceContext) *string { return &c.Track }},
	{name: "year", kind: kindInt, integer: func(c *model.RaceContext) *int { return &c.Year }},
	{name: "team", kind: kindString, str: func(c *model.RaceContext) *string { return &c.Team }},
	{name: "driver", kind: kindString, str: func(c *model.RaceContext) *string { return &c.Driver }},
	{name: "airTemp", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.AirTemp }},
	{name: "trackTemp", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.TrackTemp }},
	{name: "rainfall", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.Rainfall }},
	{name: "lapNumberAtBeginingOfStint", kind: kindInt, integer: func(c *model.RaceContext) *int { return &c.LapNumberAtStintStart }},
	{name: "meanHumid", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.MeanHumid }},
	{name: "fuelConsumptionPerStint", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.FuelConsumptionPerStint }},
	{name: "lag_slope_mean", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.LagSlopeMean }},
	{name: "bestPreRaceTime", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.BestPreRaceTime }},
	{name: "CircuitLength", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.CircuitLength }},
	{name: "StintLen", kind: kindInt, integer: func(c *model.RaceContext) *int { return &c.StintLen }},
	{name: "RoundNumber", kind: kindInt, integer: func(c *model.RaceContext) *int { return &c.RoundNumber }},
	{name: "stintPerformance", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.StintPerformance }},
	{name: "tyreDegradationPerStint", kind: kindFloat, num: func(c *model.RaceContext) *float64 { return &c.TyreDegradationPerStint }},
}

// RequestFields lists the property names of a prediction request.
func RequestFields() []string {
	out := make([]string, len(requestFields))
	for i, f := range requestFields {
		out[i] = f.name
	}
	return out
}

// DecodeRaceContext reads a prediction request body. Every field is required
// and must carry the right JSON type; integer fields accept integral numbers
// only and must not be negative. Unknown properties are ignored. All problems
// are reported together in a *strategy.ValidationError.
func DecodeRaceContext(r io.Reader) (model.RaceContext, error) {
	var rc model.RaceContext
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return rc, fmt.Errorf("read body: %w", err)
		}
		verr := &corestrategy.ValidationError{}
		verr.Add("body", "expected a JSON object: "+err.Error())
		return rc, verr
	}
	if raw == nil {
		verr := &corestrategy.ValidationError{}
		verr.Add("body", "expected a JSON object")
		return rc, verr
	}
	verr := &corestrategy.ValidationError{}
	for _, f := range requestFields {
		v, ok := raw[f.name]
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			verr.Add(f.name, "field required")
			continue
		}
		if msg := f.assign(&rc, v); msg != "" {
			verr.Add(f.name, msg)
		}
	}
	if err := verr.OrNil(); err != nil {
		return model.RaceContext{}, err
	}
	return rc, nil
}

func (f field) assign(rc *model.RaceContext, v json.RawMessage) string {
	switch f.kind {
	case kindString:
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "input should be a valid string"
		}
		*f.str(rc) = s
	case kindFloat:
		var x float64
		if err := json.Unmarshal(v, &x); err != nil {
			return "input should be a valid number"
		}
		*f.num(rc) = x
	case kindInt:
		var x float64
		if err := json.Unmarshal(v, &x); err != nil || x != math.Trunc(x) {
			return "input should be a valid integer"
		}
		if x < 0 || x >= maxInt {
			return fmt.Sprintf("input should be between 0 and %d", maxInt-1)
		}
		*f.integer(rc) = int(x)
	}
	return ""
}

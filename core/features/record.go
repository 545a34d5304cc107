package features

import (
	"errors"
	"fmt"

	"github.com/kilianp07/pitwall/core/model"
)

// DesignedLaps is the race distance assumed for every prediction. It is not
// exposed to callers yet.
const DesignedLaps = 66

// ErrInvalidInput is returned when a context cannot produce a feature record.
var ErrInvalidInput = errors.New("invalid input")

// Columns lists the trained feature names in scaler order.
var Columns = [...]string{
	"lapNumberAtBeginingOfStint",
	"eventYear",
	"meanHumid",
	"trackConditionIndex",
	"Rainfall",
	"designedLaps",
	"meanTrackTemp",
	"fuelConsumptionPerStint",
	"lag_slope_mean",
	"bestPreRaceTime",
	"CircuitLength",
	"StintLen",
	"RoundNumber",
	"stintPerformance",
	"tyreDegradationPerStint",
	"meanAirTemp",
}

// Width is the number of features in a Record.
const Width = len(Columns)

// Record is one feature row. Field order matches Columns.
type Record struct {
	LapNumberAtStintStart   float64
	EventYear               float64
	MeanHumid               float64
	TrackConditionIndex     float64
	Rainfall                float64
	DesignedLaps            float64
	MeanTrackTemp           float64
	FuelConsumptionPerStint float64
	LagSlopeMean            float64
	BestPreRaceTime         float64
	CircuitLength           float64
	StintLen                float64
	RoundNumber             float64
	StintPerformance        float64
	TyreDegradationPerStint float64
	MeanAirTemp             float64
}

// Build assembles the feature record for ctx with the stint starting at
// currentLap.
func Build(ctx model.RaceContext, currentLap int) Record {
	return Record{
		LapNumberAtStintStart:   float64(currentLap),
		EventYear:               float64(ctx.Year),
		MeanHumid:               ctx.MeanHumid,
		TrackConditionIndex:     TrackConditionIndex(ctx.AirTemp, ctx.TrackTemp, ctx.MeanHumid),
		Rainfall:                ctx.Rainfall,
		DesignedLaps:            DesignedLaps,
		MeanTrackTemp:           ctx.TrackTemp,
		FuelConsumptionPerStint: ctx.FuelConsumptionPerStint,
		LagSlopeMean:            ctx.LagSlopeMean,
		BestPreRaceTime:         ctx.BestPreRaceTime,
		CircuitLength:           ctx.CircuitLength,
		StintLen:                float64(ctx.StintLen),
		RoundNumber:             float64(ctx.RoundNumber),
		StintPerformance:        ctx.StintPerformance,
		TyreDegradationPerStint: ctx.TyreDegradationPerStint,
		MeanAirTemp:             ctx.AirTemp,
	}
}

// TrackConditionIndex combines temperatures and humidity into one index.
func TrackConditionIndex(airTemp, trackTemp, meanHumid float64) float64 {
	return airTemp + trackTemp - meanHumid
}

// Vector serializes the record in Columns order.
func (r Record) Vector() []float64 {
	return []float64{
		r.LapNumberAtStintStart,
		r.EventYear,
		r.MeanHumid,
		r.TrackConditionIndex,
		r.Rainfall,
		r.DesignedLaps,
		r.MeanTrackTemp,
		r.FuelConsumptionPerStint,
		r.LagSlopeMean,
		r.BestPreRaceTime,
		r.CircuitLength,
		r.StintLen,
		r.RoundNumber,
		r.StintPerformance,
		r.TyreDegradationPerStint,
		r.MeanAirTemp,
	}
}

// Named returns the record as a column name to value map.
func (r Record) Named() map[string]float64 {
	v := r.Vector()
	out := make(map[string]float64, Width)
	for i, name := range Columns {
		out[name] = v[i]
	}
	return out
}

// CheckColumns verifies that a trained column list matches Columns exactly.
func CheckColumns(names []string) error {
	if len(names) != Width {
		return fmt.Errorf("%w: expected %d feature columns, got %d", ErrInvalidInput, Width, len(names))
	}
	for i, n := range names {
		if n != Columns[i] {
			return fmt.Errorf("%w: column %d is %q, expected %q", ErrInvalidInput, i, n, Columns[i])
		}
	}
	return nil
}

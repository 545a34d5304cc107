package model

// RaceContext is the race and environment context a strategy is predicted for.
// It is built once per request and never modified afterwards. The JSON names
// are those of the prediction request body.
type RaceContext struct {
	Track                   string  `json:"track"`
	Year                    int     `json:"year"`
	Team                    string  `json:"team"`
	Driver                  string  `json:"driver"`
	AirTemp                 float64 `json:"airTemp"`
	TrackTemp               float64 `json:"trackTemp"`
	Rainfall                float64 `json:"rainfall"`
	LapNumberAtStintStart   int     `json:"lapNumberAtBeginingOfStint"`
	MeanHumid               float64 `json:"meanHumid"`
	FuelConsumptionPerStint float64 `json:"fuelConsumptionPerStint"`
	LagSlopeMean            float64 `json:"lag_slope_mean"`
	BestPreRaceTime         float64 `json:"bestPreRaceTime"`
	CircuitLength           float64 `json:"CircuitLength"`
	StintLen                int     `json:"StintLen"`
	RoundNumber             int     `json:"RoundNumber"`
	StintPerformance        float64 `json:"stintPerformance"`
	TyreDegradationPerStint float64 `json:"tyreDegradationPerStint"`
}

// PitStop is a single simulated stop: the lap it happens on and the compound
// fitted for the following stint.
type PitStop struct {
	Lap  int    `json:"lap"`
	Tire string `json:"tire"`
}

// StrategyPlan is the predicted race strategy.
//
// TotalPitStops is the count predicted by the stop-count model. The number of
// simulated stops is max(1, TotalPitStops) so a zero prediction still yields
// one entry in PitStopLaps and TireStrategy. Both values are reported as is.
type StrategyPlan struct {
	Track         string    `json:"track"`
	Year          int       `json:"year"`
	Team          string    `json:"team"`
	Driver        string    `json:"driver"`
	TotalPitStops int       `json:"total_pitstops"`
	PitStopLaps   []int     `json:"pit_stop_laps"`
	TireStrategy  []PitStop `json:"tire_strategy"`
}

// SimulatedStops returns the number of stops the plan simulates.
func (p StrategyPlan) SimulatedStops() int { return len(p.PitStopLaps) }

package strategy

import "fmt"

// Policies applied when the stop-count model predicts more than MaxStops.
const (
	OverCapClamp  = "clamp"
	OverCapReject = "reject"
)

// DefaultMaxStops bounds the number of simulated stops.
const DefaultMaxStops = 10

// Config holds the simulation safety settings.
type Config struct {
	// MaxStops caps the predicted stop count.
	MaxStops int `json:"max_stops"`
	// OverCapPolicy is "clamp" or "reject".
	OverCapPolicy string `json:"over_cap_policy"`
	// RejectLapRegression fails a prediction whose stop lap is earlier than
	// the start of the stint it ends. Regressions are only logged otherwise.
	RejectLapRegression bool `json:"reject_lap_regression"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.MaxStops <= 0 {
		c.MaxStops = DefaultMaxStops
	}
	if c.OverCapPolicy == "" {
		c.OverCapPolicy = OverCapClamp
	}
}

// Validate checks the policy values.
func (c Config) Validate() error {
	if c.MaxStops <= 0 {
		return fmt.Errorf("max_stops must be positive")
	}
	if c.OverCapPolicy != OverCapClamp && c.OverCapPolicy != OverCapReject {
		return fmt.Errorf("unknown over_cap_policy %s", c.OverCapPolicy)
	}
	return nil
}

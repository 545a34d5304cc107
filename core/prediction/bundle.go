package prediction

import (
	"fmt"
	"strings"
)

// ModelBundle groups the artifacts used by one simulator. It is built once and
// only read afterwards, so a single bundle can serve concurrent requests.
type ModelBundle struct {
	scaler    Scaler
	stopCount Regressor
	stopLap   Regressor
	tire      Classifier
	codec     Codec
}

// NewModelBundle validates that every artifact is present.
func NewModelBundle(scaler Scaler, stopCount, stopLap Regressor, tire Classifier, codec Codec) (*ModelBundle, error) {
	var missing []string
	if scaler == nil {
		missing = append(missing, "scaler")
	}
	if stopCount == nil {
		missing = append(missing, "stop count model")
	}
	if stopLap == nil {
		missing = append(missing, "stop lap model")
	}
	if tire == nil {
		missing = append(missing, "tire model")
	}
	if codec == nil {
		missing = append(missing, "compound codec")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, strings.Join(missing, ", "))
	}
	return &ModelBundle{scaler: scaler, stopCount: stopCount, stopLap: stopLap, tire: tire, codec: codec}, nil
}

func (b *ModelBundle) Scaler() Scaler       { return b.scaler }
func (b *ModelBundle) StopCount() Regressor { return b.stopCount }
func (b *ModelBundle) StopLap() Regressor   { return b.stopLap }
func (b *ModelBundle) Tire() Classifier     { return b.tire }
func (b *ModelBundle) Codec() Codec         { return b.codec }

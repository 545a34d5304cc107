package artifacts

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/pitwall/core/prediction"
)

// StandardScaler centers and scales each feature: (x - mean) / scale.
type StandardScaler struct {
	// FeatureNames are the columns the scaler was fit on, when exported.
	FeatureNames []string

	mean  *mat.VecDense
	scale *mat.VecDense
}

// NewStandardScaler validates the parameters. Zero scales are replaced by one.
func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler: mean has %d values, scale has %d", len(mean), len(scale))
	}
	if len(names) != 0 && len(names) != len(mean) {
		return nil, fmt.Errorf("scaler: %d feature names for %d parameters", len(names), len(mean))
	}
	sc := make([]float64, len(scale))
	for i, v := range scale {
		if v == 0 {
			v = 1
		}
		sc[i] = v
	}
	return &StandardScaler{
		FeatureNames: append([]string(nil), names...),
		mean:         mat.NewVecDense(len(mean), append([]float64(nil), mean...)),
		scale:        mat.NewVecDense(len(sc), sc),
	}, nil
}

// Width returns the number of features the scaler was fit on.
func (s *StandardScaler) Width() int { return s.mean.Len() }

// Transform returns the scaled copy of x.
func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if err := prediction.CheckArity("scaler", x, s.Width()); err != nil {
		return nil, err
	}
	v := mat.NewVecDense(len(x), append([]float64(nil), x...))
	v.SubVec(v, s.mean)
	v.DivElemVec(v, s.scale)
	return v.RawVector().Data, nil
}

package artifacts

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/pitwall/core/prediction"
)

// LinearRegressor predicts coef·x + intercept.
type LinearRegressor struct {
	coef      *mat.VecDense
	intercept float64
}

// NewLinearRegressor builds a regressor from fitted coefficients.
func NewLinearRegressor(coef []float64, intercept float64) (*LinearRegressor, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("linear model: no coefficients")
	}
	return &LinearRegressor{coef: mat.NewVecDense(len(coef), append([]float64(nil), coef...)), intercept: intercept}, nil
}

// Width returns the expected number of features.
func (m *LinearRegressor) Width() int { return m.coef.Len() }

// Predict implements prediction.Regressor.
func (m *LinearRegressor) Predict(x []float64) (float64, error) {
	if err := prediction.CheckArity("linear model", x, m.Width()); err != nil {
		return 0, err
	}
	return mat.Dot(m.coef, mat.NewVecDense(len(x), x)) + m.intercept, nil
}

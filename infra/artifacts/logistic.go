package artifacts

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/pitwall/core/prediction"
)

// LogisticClassifier is a fitted (multinomial or binary) logistic regression.
// It returns the class with the highest decision score.
type LogisticClassifier struct {
	classes   []int
	coef      *mat.Dense
	intercept *mat.VecDense
}

// NewLogisticClassifier builds a classifier from a coefficient matrix with one
// row per class, or a single row for the binary case.
func NewLogisticClassifier(classes []int, coef [][]float64, intercept []float64) (*LogisticClassifier, error) {
	if len(classes) < 2 {
		return nil, fmt.Errorf("logistic model: need at least two classes")
	}
	rows := len(coef)
	if rows == 0 || len(coef[0]) == 0 {
		return nil, fmt.Errorf("logistic model: empty coefficients")
	}
	if rows != len(classes) && !(rows == 1 && len(classes) == 2) {
		return nil, fmt.Errorf("logistic model: %d coefficient rows for %d classes", rows, len(classes))
	}
	if len(intercept) != rows {
		return nil, fmt.Errorf("logistic model: %d intercepts for %d rows", len(intercept), rows)
	}
	cols := len(coef[0])
	data := make([]float64, 0, rows*cols)
	for i, row := range coef {
		if len(row) != cols {
			return nil, fmt.Errorf("logistic model: row %d has %d coefficients, expected %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return &LogisticClassifier{
		classes:   append([]int(nil), classes...),
		coef:      mat.NewDense(rows, cols, data),
		intercept: mat.NewVecDense(rows, append([]float64(nil), intercept...)),
	}, nil
}

// Width returns the expected number of features.
func (m *LogisticClassifier) Width() int {
	_, c := m.coef.Dims()
	return c
}

// Predict implements prediction.Classifier.
func (m *LogisticClassifier) Predict(x []float64) (int, error) {
	if err := prediction.CheckArity("logistic model", x, m.Width()); err != nil {
		return 0, err
	}
	rows, _ := m.coef.Dims()
	var scores mat.VecDense
	scores.MulVec(m.coef, mat.NewVecDense(len(x), x))
	scores.AddVec(&scores, m.intercept)
	if rows == 1 {
		if scores.AtVec(0) > 0 {
			return m.classes[1], nil
		}
		return m.classes[0], nil
	}
	best := 0
	for i := 1; i < rows; i++ {
		if scores.AtVec(i) > scores.AtVec(best) {
			best = i
		}
	}
	return m.classes[best], nil
}

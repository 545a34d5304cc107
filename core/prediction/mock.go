package prediction

import (
	"fmt"
	"sync"
)

// IdentityScaler returns a copy of its input.
type IdentityScaler struct{}

// Transform returns a copy of x.
func (IdentityScaler) Transform(x []float64) ([]float64, error) {
	out := make([]float64, len(x))
	copy(out, x)
	return out, nil
}

// MockRegressor returns Values in order and repeats the last one once the
// sequence is exhausted. Err, when set, is returned instead. Inputs records
// every vector it was called with.
type MockRegressor struct {
	Values []float64
	Err    error

	mu     sync.Mutex
	calls  int
	Inputs [][]float64
}

// Predict returns the next configured value.
func (m *MockRegressor) Predict(x []float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, append([]float64(nil), x...))
	if m.Err != nil {
		return 0, m.Err
	}
	if len(m.Values) == 0 {
		return 0, fmt.Errorf("%w: mock regressor has no values", ErrModelUnavailable)
	}
	i := m.calls
	if i >= len(m.Values) {
		i = len(m.Values) - 1
	}
	m.calls++
	return m.Values[i], nil
}

// Calls returns how many predictions were served.
func (m *MockRegressor) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// MockClassifier behaves like MockRegressor for encoded classes.
type MockClassifier struct {
	Codes []int
	Err   error

	mu     sync.Mutex
	calls  int
	Inputs [][]float64
}

// Predict returns the next configured code.
func (m *MockClassifier) Predict(x []float64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inputs = append(m.Inputs, append([]float64(nil), x...))
	if m.Err != nil {
		return 0, m.Err
	}
	if len(m.Codes) == 0 {
		return 0, fmt.Errorf("%w: mock classifier has no codes", ErrModelUnavailable)
	}
	i := m.calls
	if i >= len(m.Codes) {
		i = len(m.Codes) - 1
	}
	m.calls++
	return m.Codes[i], nil
}

// Calls returns how many predictions were served.
func (m *MockClassifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Inputs)
}

// SliceCodec is a Codec over a fixed label list; the code is the index.
type SliceCodec []string

// Decode returns the label for code.
func (c SliceCodec) Decode(code int) (string, error) {
	if code < 0 || code >= len(c) {
		return "", &UnknownCategoryError{Code: code}
	}
	return c[code], nil
}

// Encode returns the code for label.
func (c SliceCodec) Encode(label string) (int, error) {
	for i, l := range c {
		if l == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: label %q", ErrUnknownCategory, label)
}

// Classes returns a copy of the labels.
func (c SliceCodec) Classes() []string { return append([]string(nil), c...) }

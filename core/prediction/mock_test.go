package prediction

import (
	"errors"
	"testing"
)

func TestMockRegressor_Sequence(t *testing.T) {
	m := &MockRegressor{Values: []float64{20, 45}}
	want := []float64{20, 45, 45}
	for i, w := range want {
		got, err := m.Predict([]float64{1})
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("call %d: expected %v got %v", i, w, got)
		}
	}
	if m.Calls() != 3 {
		t.Fatalf("expected 3 calls got %d", m.Calls())
	}
}

func TestMockRegressor_Empty(t *testing.T) {
	m := &MockRegressor{}
	if _, err := m.Predict(nil); !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable got %v", err)
	}
}

func TestIdentityScaler_DoesNotAlias(t *testing.T) {
	in := []float64{1, 2}
	out, _ := IdentityScaler{}.Transform(in)
	out[0] = 9
	if in[0] != 1 {
		t.Fatalf("input mutated")
	}
}

func TestSliceCodec_RoundTrip(t *testing.T) {
	c := SliceCodec{"HARD", "MEDIUM", "SOFT"}
	for code := range c {
		label, err := c.Decode(code)
		if err != nil {
			t.Fatalf("decode %d: %v", code, err)
		}
		back, err := c.Encode(label)
		if err != nil || back != code {
			t.Fatalf("round trip %d -> %s -> %d (%v)", code, label, back, err)
		}
	}
	_, err := c.Decode(7)
	if !errors.Is(err, ErrUnknownCategory) || !errors.Is(err, ErrPrediction) {
		t.Fatalf("expected unknown category prediction error, got %v", err)
	}
}

func TestNewModelBundle_Missing(t *testing.T) {
	_, err := NewModelBundle(IdentityScaler{}, nil, &MockRegressor{}, nil, SliceCodec{"SOFT"})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable got %v", err)
	}
	b, err := NewModelBundle(IdentityScaler{}, &MockRegressor{}, &MockRegressor{}, &MockClassifier{}, SliceCodec{"SOFT"})
	if err != nil || b.Codec() == nil {
		t.Fatalf("unexpected %v", err)
	}
}

func TestArityError(t *testing.T) {
	err := CheckArity("scaler", []float64{1}, 16)
	var ae *ArityError
	if !errors.As(err, &ae) || ae.Got != 1 || !errors.Is(err, ErrPrediction) {
		t.Fatalf("unexpected %v", err)
	}
	if CheckArity("scaler", make([]float64, 16), 16) != nil {
		t.Fatalf("expected nil")
	}
}

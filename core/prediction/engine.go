package prediction

// Scaler applies the pre-fitted per-feature transform to a feature vector.
// Implementations must not modify x.
type Scaler interface {
	Transform(x []float64) ([]float64, error)
}

// Regressor returns a point prediction for a scaled feature vector.
type Regressor interface {
	Predict(x []float64) (float64, error)
}

// Classifier returns the encoded class for a scaled feature vector.
type Classifier interface {
	Predict(x []float64) (int, error)
}

// Codec maps encoded categories to their labels and back.
type Codec interface {
	Decode(code int) (string, error)
	Encode(label string) (int, error)
	// Classes returns the trained vocabulary ordered by code.
	Classes() []string
}

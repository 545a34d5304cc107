package prediction

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable reports an artifact that is missing or failed to load.
	ErrModelUnavailable = errors.New("model unavailable")
	// ErrPrediction is the class of every per-request inference failure.
	ErrPrediction = errors.New("prediction error")
	// ErrUnknownCategory reports a code outside the codec vocabulary.
	ErrUnknownCategory = errors.New("unknown category")
)

// ArityError is returned when a vector does not have the expected width.
type ArityError struct {
	Component string
	Want      int
	Got       int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s: expected %d features, got %d", e.Component, e.Want, e.Got)
}

// Is makes ArityError match ErrPrediction.
func (e *ArityError) Is(target error) bool { return target == ErrPrediction }

// UnknownCategoryError is returned by a Codec for an out of vocabulary code.
type UnknownCategoryError struct {
	Code int
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category code %d", e.Code)
}

// Is makes UnknownCategoryError match ErrUnknownCategory and ErrPrediction.
func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrUnknownCategory || target == ErrPrediction
}

// CheckArity returns an ArityError when len(x) != want.
func CheckArity(component string, x []float64, want int) error {
	if len(x) != want {
		return &ArityError{Component: component, Want: want, Got: len(x)}
	}
	return nil
}

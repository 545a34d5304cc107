package strategy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kilianp07/pitwall/core/prediction"
)

// StepError wraps a failure of one collaborator call inside the simulation.
// It always matches prediction.ErrPrediction.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// Is makes every StepError a prediction error.
func (e *StepError) Is(target error) bool { return target == prediction.ErrPrediction }

// StopLimitError is returned under the reject policy when the predicted stop
// count exceeds the configured cap.
type StopLimitError struct {
	Predicted int
	Max       int
}

func (e *StopLimitError) Error() string {
	return fmt.Sprintf("predicted %d pit stops exceeds limit of %d", e.Predicted, e.Max)
}

// Is makes StopLimitError a prediction error.
func (e *StopLimitError) Is(target error) bool { return target == prediction.ErrPrediction }

// LapRegressionError is returned when RejectLapRegression is enabled and a
// stop lap precedes the start of its stint.
type LapRegressionError struct {
	Stop       int
	PitLap     int
	CurrentLap int
}

func (e *LapRegressionError) Error() string {
	return fmt.Sprintf("stop %d predicted on lap %d before stint start lap %d", e.Stop, e.PitLap, e.CurrentLap)
}

// Is makes LapRegressionError a prediction error.
func (e *LapRegressionError) Is(target error) bool { return target == prediction.ErrPrediction }

// ValidationError lists request fields that are missing or malformed. It is
// raised before a simulation starts.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Add records a problem with field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

// OrNil returns e when it holds at least one field error.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrNumericAnomaly marks a non-finite loss, gradient or state value.
//
// With a clamped θ and a closed-form objective this is unreachable in
// practice; when it happens the run is aborted.
var ErrNumericAnomaly = errors.New("render: non-finite value")

// NumericAnomalyError wraps ErrNumericAnomaly with the frame it occurred on.
type NumericAnomalyError struct {
	Iteration int
	Theta     float64
	Quantity  string // "theta", "velocity", "loss" or "gradient"
	Value     float64
}

func (e *NumericAnomalyError) Error() string {
	return fmt.Sprintf("render: non-finite %s (%v) at iteration %d, theta=%v",
		e.Quantity, e.Value, e.Iteration, e.Theta)
}

func (e *NumericAnomalyError) Unwrap() error {
	return ErrNumericAnomaly
}

// CheckFinite returns a *NumericAnomalyError for the first non-finite
// quantity of the frame, or nil.
func CheckFinite(f Frame, lossValue float64) error {
	quantities := []struct {
		name  string
		value float64
	}{
		{"theta", f.State.Theta},
		{"velocity", f.State.Velocity},
		{"loss", lossValue},
		{"gradient", f.Gradient},
	}

	for _, q := range quantities {
		if math.IsNaN(q.value) || math.IsInf(q.value, 0) {
			return &NumericAnomalyError{
				Iteration: f.State.Iteration,
				Theta:     f.State.Theta,
				Quantity:  q.name,
				Value:     q.value,
			}
		}
	}
	return nil
}

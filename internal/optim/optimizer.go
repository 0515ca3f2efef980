// Package optim implements the scalar optimizer that drives the animation.
//
// This package provides:
//   - State: the single mutable entity of a run (θ, velocity, iteration)
//   - Optimizer interface: one state transition per frame
//   - SGD: gradient descent with momentum and domain clamping
//
// Example usage:
//
//	sgd := optim.NewSGD(loss.Rugged{}, optim.SGDConfig{
//	    LR:       0.002,
//	    Momentum: 0.99,
//	    Range:    50,
//	})
//
//	state := optim.NewState(theta0)
//	for range frames {
//	    state, grad = sgd.Step(state)
//	    render(state, grad)
//	}
package optim

import "math"

// Default hyperparameters, matching the reference animation.
const (
	DefaultLR       = 0.002
	DefaultMomentum = 0.99
	DefaultRange    = 50.0
)

// State is the optimizer state carried from frame to frame.
//
// Ownership is exclusive to the caller; Step never retains it.
type State struct {
	Theta     float64 // Current parameter, always within [-Range, Range] after a step
	Velocity  float64 // Momentum accumulator
	Iteration int     // Number of steps taken so far
}

// NewState returns the initial state for a run starting at theta.
func NewState(theta float64) State {
	return State{Theta: theta}
}

// Optimizer is the interface of a one-dimensional state stepper.
type Optimizer interface {
	// Step computes the next state from the current one.
	//
	// Returns the new state and the gradient that was used for the update,
	// i.e. the gradient evaluated at the previous θ.
	Step(state State) (State, float64)

	// GetLR returns the learning rate.
	GetLR() float64
}

// Clamp constrains v to [lo, hi] by truncation.
//
// NaN is passed through unchanged so that callers can detect it.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package optim

import (
	"fmt"

	"github.com/tt-git-1/gradient-descent/internal/loss"
)

// SGD implements gradient descent with momentum over a scalar objective.
//
// Update rule (order matters, momentum uses the previous velocity):
//
//	gradient = L'(theta)
//	velocity = momentum * velocity - lr * gradient
//	theta    = clamp(theta + velocity, -range, range)
//
// The velocity already carries the descent sign, so it is added to θ.
// Clamping truncates θ at the boundary and leaves the velocity untouched.
//
// Example:
//
//	sgd := optim.NewSGD(loss.Rugged{}, optim.SGDConfig{
//	    LR:       0.002,
//	    Momentum: 0.99,
//	})
//
//	state := optim.NewState(3.0)
//	state, grad := sgd.Step(state)
type SGD struct {
	objective loss.Function
	lr        float64
	momentum  float64
	bound     float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.002)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
	Range    float64 // Symmetric domain bound R, θ ∈ [-R, R] (default: 50)
}

// NewSGD creates a new SGD optimizer.
//
// Parameters:
//   - objective: Loss function whose gradient drives the update
//   - config: SGD configuration (LR, Momentum, Range)
//
// Zero LR and Range are replaced by their defaults. A zero Momentum is
// plain gradient descent. Hyperparameter ranges are validated by the
// config package before an optimizer is built.
func NewSGD(objective loss.Function, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = DefaultLR
	}
	if config.Range == 0 {
		config.Range = DefaultRange
	}

	return &SGD{
		objective: objective,
		lr:        config.LR,
		momentum:  config.Momentum,
		bound:     config.Range,
	}
}

// Step performs a single optimization step.
func (s *SGD) Step(state State) (State, float64) {
	grad := s.objective.Gradient(state.Theta)

	velocity := s.momentum*state.Velocity - s.lr*grad
	theta := Clamp(state.Theta+velocity, -s.bound, s.bound)

	return State{
		Theta:     theta,
		Velocity:  velocity,
		Iteration: state.Iteration + 1,
	}, grad
}

// GetLR returns the learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float64 {
	return s.momentum
}

// Range returns the domain bound R.
func (s *SGD) Range() float64 {
	return s.bound
}

// String describes the optimizer for logs.
func (s *SGD) String() string {
	return fmt.Sprintf("SGD(lr=%g, momentum=%g, range=±%g)", s.lr, s.momentum, s.bound)
}

// Copyright 2025 The gdviz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/tt-git-1/gradient-descent/internal/loss"
	"github.com/tt-git-1/gradient-descent/internal/optim"
)

// Default hyperparameters.
const (
	DefaultLR       = optim.DefaultLR
	DefaultMomentum = optim.DefaultMomentum
	DefaultRange    = optim.DefaultRange
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// State is the optimizer state after a number of steps.
type State = optim.State

// NewState returns the state of a run starting at rest at theta.
func NewState(theta float64) State {
	return optim.NewState(theta)
}

// SGD (gradient descent with momentum)

// SGD represents the momentum optimizer over a one-dimensional loss.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer. Zero LR and Range fall back to the
// defaults.
//
// Example:
//
//	opt := optim.NewSGD(optim.Rugged{}, optim.SGDConfig{
//	    LR:       0.002,
//	    Momentum: 0.99,
//	})
func NewSGD(objective Function, config SGDConfig) *SGD {
	return optim.NewSGD(objective, config)
}

// Loss functions

// Function is a differentiable scalar loss over θ.
type Function = loss.Function

// Rugged is L(θ) = 0.5·sin(3θ) + 0.3·sin(5θ) + 0.2·sin(7θ) + 0.1·θ².
type Rugged = loss.Rugged

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return optim.Clamp(v, lo, hi)
}

// Copyright 2025 The gdviz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the one-dimensional momentum optimizer that drives
// the gradient descent animation.
//
// # Overview
//
// This package contains:
//   - SGD: gradient descent with heavy-ball momentum and a clamped range
//   - State: the position, velocity and iteration count of a run
//   - Rugged: the multimodal loss curve being minimized
//
// # Basic Usage
//
//	import "github.com/tt-git-1/gradient-descent/optim"
//
//	func main() {
//	    opt := optim.NewSGD(optim.Rugged{}, optim.SGDConfig{
//	        LR:       0.002,
//	        Momentum: 0.99,
//	        Range:    50,
//	    })
//
//	    state := optim.NewState(10)
//	    for range 450 {
//	        var grad float64
//	        state, grad = opt.Step(state)
//	        fmt.Println(state.Iteration, state.Theta, grad)
//	    }
//	}
//
// # Update Rule
//
// Each step evaluates the gradient at the current position, then
//
//	v = momentum·v − lr·g
//	θ = clamp(θ + v, −range, range)
//
// The velocity is not reset when θ is clamped.
package optim

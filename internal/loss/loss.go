// Package loss implements the closed-form objective that the optimizer descends.
//
// The objective is a rugged one-dimensional function: a sum of sine waves
// with a weak quadratic bowl, giving many local minima that a momentum
// optimizer can roll through.
//
//	L(θ)  = 0.5·sin(3θ) + 0.3·sin(5θ) + 0.2·sin(7θ) + 0.1·θ²
//	L'(θ) = 1.5·cos(3θ) + 1.5·cos(5θ) + 1.4·cos(7θ) + 0.2·θ
package loss

import (
	"math"

	"github.com/tt-git-1/gradient-descent/internal/parallel"
)

// Function is a scalar objective with an analytic derivative.
//
// Implementations must be pure: the same θ always yields the same values.
type Function interface {
	// Value returns L(θ).
	Value(theta float64) float64

	// Gradient returns L'(θ).
	Gradient(theta float64) float64
}

// Rugged is the sine-sum objective with a quadratic bowl.
//
// The zero value is ready to use.
type Rugged struct{}

// Value returns L(θ).
func (Rugged) Value(theta float64) float64 {
	return 0.5*math.Sin(3*theta) +
		0.3*math.Sin(5*theta) +
		0.2*math.Sin(7*theta) +
		0.1*theta*theta
}

// Gradient returns L'(θ).
//
// Each term is d/dθ[a·sin(kθ)] = a·k·cos(kθ), plus d/dθ[0.1·θ²] = 0.2·θ.
func (Rugged) Gradient(theta float64) float64 {
	return 0.5*3*math.Cos(3*theta) +
		0.3*5*math.Cos(5*theta) +
		0.2*7*math.Cos(7*theta) +
		0.2*theta
}

// Sample evaluates f at every θ in thetas and writes the values into dst.
//
// dst is grown if it is too short; the resulting slice is returned. Long
// inputs are split across CPUs, so f.Value must be safe for concurrent use.
func Sample(f Function, thetas, dst []float64) []float64 {
	if cap(dst) < len(thetas) {
		dst = make([]float64, len(thetas))
	}
	dst = dst[:len(thetas)]
	parallel.For(len(thetas), func(i int) {
		dst[i] = f.Value(thetas[i])
	}, sampling)
	return dst
}

var sampling = parallel.DefaultConfig()

// Tangent returns the value of the tangent line of f at theta, evaluated at x.
func Tangent(f Function, theta, x float64) float64 {
	return f.Value(theta) + f.Gradient(theta)*(x-theta)
}

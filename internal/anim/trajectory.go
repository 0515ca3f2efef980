package anim

import "math"

// Trajectory is the in-memory history of one run.
type Trajectory struct {
	Theta []float64
	Loss  []float64
}

func newTrajectory(capacity int) *Trajectory {
	return &Trajectory{
		Theta: make([]float64, 0, capacity),
		Loss:  make([]float64, 0, capacity),
	}
}

func (t *Trajectory) record(theta, loss float64) {
	t.Theta = append(t.Theta, theta)
	t.Loss = append(t.Loss, loss)
}

// Len returns the number of recorded points, the initial point included.
func (t *Trajectory) Len() int {
	return len(t.Theta)
}

// MinLoss returns the lowest loss seen and the θ where it occurred.
func (t *Trajectory) MinLoss() (loss, theta float64) {
	loss, theta = math.Inf(1), math.NaN()
	for i, l := range t.Loss {
		if l < loss {
			loss, theta = l, t.Theta[i]
		}
	}
	return loss, theta
}

// Downsample returns at most n loss values, evenly spaced over the run.
func (t *Trajectory) Downsample(n int) []float64 {
	if n <= 0 || len(t.Loss) <= n {
		return append([]float64(nil), t.Loss...)
	}
	if n == 1 {
		return []float64{t.Loss[len(t.Loss)-1]}
	}
	out := make([]float64, n)
	step := float64(len(t.Loss)-1) / float64(n-1)
	for i := range out {
		out[i] = t.Loss[int(math.Round(float64(i)*step))]
	}
	return out
}

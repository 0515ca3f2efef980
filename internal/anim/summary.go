package anim

import "time"

// Summary describes a finished (or aborted) run.
type Summary struct {
	RunID  string
	Output string // Empty for headless runs

	Frames int

	InitialTheta  float64
	FinalTheta    float64
	FinalVelocity float64
	FinalLoss     float64

	// MinLoss is the lowest loss visited, the initial point included.
	MinLoss      float64
	MinLossTheta float64

	Recentres int
	Elapsed   time.Duration

	Trajectory *Trajectory
}

// FramesPerSecond returns the production rate of the run.
func (s Summary) FramesPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

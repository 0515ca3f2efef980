// Package config holds the immutable run configuration.
//
// A Config is built once, from Default overlaid with an optional YAML file
// and command-line flags, validated, and then passed by value into the
// pipeline. Nothing reads process-wide state after that point.
package config

import (
	"math"
	"time"

	"github.com/tt-git-1/gradient-descent/internal/view"
)

// DefaultOutput is the artifact written when no output is configured.
const DefaultOutput = "gradient_descent_animation.mp4"

// Config configures one animation run.
type Config struct {
	// Animation
	FPS       int     `yaml:"fps" validate:"gt=0"`
	DurationS float64 `yaml:"duration_s" validate:"gt=0"`

	// Optimization
	Range        float64 `yaml:"range" validate:"gt=0"`
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
	Momentum     float64 `yaml:"momentum" validate:"gte=0,lt=1"`

	// Seed for the initial θ draw. -1 = random.
	Seed int64 `yaml:"seed" validate:"gte=-1"`

	// InitialTheta overrides the random draw when set.
	InitialTheta *float64 `yaml:"initial_theta,omitempty"`

	// Output
	Output      string `yaml:"output" validate:"required"`
	Encoder     string `yaml:"encoder" validate:"oneof=auto ffmpeg gif png"`
	FFmpegPath  string `yaml:"ffmpeg_path" validate:"required"`
	BitrateKbps int    `yaml:"bitrate_kbps" validate:"gt=0"`

	// Frame layout
	Width            int     `yaml:"width" validate:"gte=64"`
	Height           int     `yaml:"height" validate:"gte=64"`
	SamplesPerUnit   float64 `yaml:"samples_per_unit" validate:"gt=0"`
	TangentHalfWidth float64 `yaml:"tangent_half_width" validate:"gt=0"`

	View View `yaml:"view"`

	// ProgressEvery logs progress every N frames. 0 disables progress logs.
	ProgressEvery int `yaml:"progress_every" validate:"gte=0"`
}

// View configures the adaptive plot window.
type View struct {
	MarginFraction float64 `yaml:"margin_fraction" validate:"gte=0,lt=0.5"`
	PadX           float64 `yaml:"pad_x" validate:"gt=0"`
	PadBelow       float64 `yaml:"pad_below" validate:"gte=0"`
	PadAbove       float64 `yaml:"pad_above" validate:"gte=0"`
	MinWidth       float64 `yaml:"min_width" validate:"gt=0"`
	MinHeight      float64 `yaml:"min_height" validate:"gt=0"`
}

// Policy returns the view policy described by v.
func (v View) Policy() view.Policy {
	return view.Policy{
		MarginFraction: v.MarginFraction,
		PadX:           v.PadX,
		PadBelow:       v.PadBelow,
		PadAbove:       v.PadAbove,
		MinWidth:       v.MinWidth,
		MinHeight:      v.MinHeight,
	}
}

// Default returns the configuration of the reference animation:
// 15 fps for 30 s, θ ∈ [-50, 50], lr 0.002, momentum 0.99.
func Default() Config {
	return Config{
		FPS:              15,
		DurationS:        30,
		Range:            50,
		LearningRate:     0.002,
		Momentum:         0.99,
		Seed:             -1,
		Output:           DefaultOutput,
		Encoder:          "auto",
		FFmpegPath:       "ffmpeg",
		BitrateKbps:      1800,
		Width:            1200,
		Height:           800,
		SamplesPerUnit:   200,
		TangentHalfWidth: 1.0,
		View: View{
			MarginFraction: 0.1,
			PadX:           2.0,
			PadBelow:       1.0,
			PadAbove:       3.0,
			MinWidth:       1.0,
			MinHeight:      1.0,
		},
		ProgressEvery: 50,
	}
}

// TotalFrames returns FPS × DURATION, rounded to the nearest frame.
func (c Config) TotalFrames() int {
	return int(math.Round(float64(c.FPS) * c.DurationS))
}

// Duration returns the video duration.
func (c Config) Duration() time.Duration {
	return time.Duration(c.DurationS * float64(time.Second))
}

// WithInitialTheta returns a copy of c starting at theta.
func (c Config) WithInitialTheta(theta float64) Config {
	c.InitialTheta = &theta
	return c
}

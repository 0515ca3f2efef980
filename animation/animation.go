// Copyright 2025 The gdviz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package animation

import (
	"github.com/tt-git-1/gradient-descent/internal/anim"
	"github.com/tt-git-1/gradient-descent/internal/config"
	"github.com/tt-git-1/gradient-descent/internal/render"
	"github.com/tt-git-1/gradient-descent/internal/video"
)

// Config holds every tunable of a run.
type Config = config.Config

// View holds the framing thresholds of the adaptive view window.
type View = config.View

// DefaultConfig returns the configuration of the reference animation:
// 15 fps for 30 seconds at lr 0.002 and momentum 0.99.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// Animator drives the optimizer, renderer and encoder.
type Animator = anim.Animator

// Option configures an Animator.
type Option = anim.Option

// Summary describes a finished run.
type Summary = anim.Summary

// Trajectory is the sequence of visited θ and loss values.
type Trajectory = anim.Trajectory

// Re-exported options.
var (
	WithRandomSource   = anim.WithRandomSource
	WithRenderer       = anim.WithRenderer
	WithEncoderFactory = anim.WithEncoderFactory
	WithLogger         = anim.WithLogger
	WithMetrics        = anim.WithMetrics
	WithRunID          = anim.WithRunID
)

// Errors returned by runs. Use errors.Is to match them.
var (
	ErrInvalidConfig  = config.ErrInvalidConfig
	ErrEncoding       = video.ErrEncoding
	ErrNumericAnomaly = render.ErrNumericAnomaly
)

// New validates cfg and builds an Animator.
func New(cfg Config, opts ...Option) (*Animator, error) {
	return anim.New(cfg, opts...)
}

// Copyright 2025 The gdviz Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package animation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tt-git-1/gradient-descent/animation"
)

func TestSimulate(t *testing.T) {
	cfg := animation.DefaultConfig()
	cfg.FPS = 10
	cfg.DurationS = 2
	cfg = cfg.WithInitialTheta(3)

	a, err := animation.New(cfg, animation.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	s, err := a.Simulate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 20, s.Frames)
	assert.Equal(t, 3.0, s.InitialTheta)
	assert.Empty(t, s.Output)
	assert.Equal(t, 21, s.Trajectory.Len())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := animation.DefaultConfig()
	cfg.FPS = 0

	_, err := animation.New(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, animation.ErrInvalidConfig))
}

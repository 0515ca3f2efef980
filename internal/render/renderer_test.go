package render

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tt-git-1/gradient-descent/internal/loss"
	"github.com/tt-git-1/gradient-descent/internal/optim"
	"github.com/tt-git-1/gradient-descent/internal/view"
)

// nanObjective returns NaN beyond a threshold.
type nanObjective struct{ limit float64 }

func (n nanObjective) Value(theta float64) float64 {
	if theta > n.limit {
		return math.NaN()
	}
	return theta
}

func (n nanObjective) Gradient(float64) float64 { return 1 }

func smallConfig() Config {
	return Config{Width: 240, Height: 160, DPI: 50, SamplesPerUnit: 20}
}

func TestRender_FrameSize(t *testing.T) {
	r := New(loss.Rugged{}, view.DefaultPolicy(), smallConfig())
	var win view.Window

	img, err := r.Render(Frame{State: optim.State{Theta: 1.5, Velocity: -0.01, Iteration: 3}, Gradient: 0.7}, &win)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 240, 160), img.Bounds())
	assert.False(t, win.IsZero(), "window is initialised on first render")
	assert.True(t, win.Contains(1.5, loss.Rugged{}.Value(1.5)))
}

func TestRender_DrawsSomething(t *testing.T) {
	r := New(loss.Rugged{}, view.DefaultPolicy(), smallConfig())
	var win view.Window

	img, err := r.Render(Frame{State: optim.State{Theta: 0}}, &win)
	require.NoError(t, err)

	white := color.RGBAModel.Convert(color.White)
	nonWhite := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.RGBAModel.Convert(img.At(x, y)) != white {
				nonWhite++
			}
		}
	}
	assert.Greater(t, nonWhite, 100)
}

func TestRender_KeepsWindowWhenPointInside(t *testing.T) {
	r := New(loss.Rugged{}, view.DefaultPolicy(), smallConfig())
	var win view.Window

	_, err := r.Render(Frame{State: optim.State{Theta: 0}}, &win)
	require.NoError(t, err)
	first := win

	// A tiny move of θ keeps the point and L(θ) well inside.
	_, err = r.Render(Frame{State: optim.State{Theta: 0.01, Velocity: 0.01, Iteration: 1}}, &win)
	require.NoError(t, err)
	assert.Equal(t, first, win)
}

func TestRender_NumericAnomaly(t *testing.T) {
	r := New(nanObjective{limit: 1}, view.DefaultPolicy(), smallConfig())
	win := view.Window{XMin: -1, XMax: 1, YMin: -1, YMax: 1}
	before := win

	_, err := r.Render(Frame{State: optim.State{Theta: 2, Iteration: 17}}, &win)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNumericAnomaly))

	var anomaly *NumericAnomalyError
	require.ErrorAs(t, err, &anomaly)
	assert.Equal(t, 17, anomaly.Iteration)
	assert.Equal(t, 2.0, anomaly.Theta)
	assert.Equal(t, "loss", anomaly.Quantity)
	assert.Equal(t, before, win)
}

func TestCheckFinite(t *testing.T) {
	assert.NoError(t, CheckFinite(Frame{State: optim.State{Theta: 1}}, 2))

	err := CheckFinite(Frame{State: optim.State{Theta: 1, Iteration: 4}, Gradient: math.Inf(1)}, 2)
	var anomaly *NumericAnomalyError
	require.ErrorAs(t, err, &anomaly)
	assert.Equal(t, "gradient", anomaly.Quantity)
	assert.Contains(t, err.Error(), "iteration 4")
}

func TestStatusLines(t *testing.T) {
	lines := StatusLines(Frame{
		State:    optim.State{Theta: -0.0088, Velocity: -0.0088, Iteration: 1},
		Gradient: 4.4,
	}, 0.123456)

	assert.Equal(t, []string{
		"Iteration: 1",
		"θ: -0.0088",
		"Loss: 0.1235",
		"Gradient: 4.4000",
		"Velocity: -0.0088",
	}, lines)
}

func TestSampleCount(t *testing.T) {
	assert.Equal(t, 801, SampleCount(4, 200))
	assert.Equal(t, 2, SampleCount(0, 200))
	assert.Equal(t, 2, SampleCount(0.001, 1))
}

func TestSampleCurve_ConstantDensity(t *testing.T) {
	r := New(loss.Rugged{}, view.DefaultPolicy(), Config{SamplesPerUnit: 10})

	narrow := r.sampleCurve(view.Window{XMin: 0, XMax: 1})
	wide := r.sampleCurve(view.Window{XMin: -2, XMax: 2})

	assert.Len(t, narrow, 11)
	assert.Len(t, wide, 41)
	assert.InDelta(t, -2.0, wide[0].X, 1e-12)
	assert.InDelta(t, 2.0, wide[len(wide)-1].X, 1e-12)
}

func TestSampleTangent(t *testing.T) {
	f := loss.Rugged{}
	r := New(f, view.DefaultPolicy(), Config{TangentHalfWidth: 1})

	seg := r.sampleTangent(3)

	require.Len(t, seg, tangentSamples)
	assert.InDelta(t, 2.0, seg[0].X, 1e-12)
	assert.InDelta(t, 4.0, seg[len(seg)-1].X, 1e-12)
	slope := (seg[len(seg)-1].Y - seg[0].Y) / 2
	assert.InDelta(t, f.Gradient(3), slope, 1e-9)
}

func TestNew_Defaults(t *testing.T) {
	r := New(loss.Rugged{}, view.DefaultPolicy(), Config{})
	assert.Equal(t, DefaultConfig(), r.Config())
}

package anim

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tt-git-1/gradient-descent/internal/config"
	"github.com/tt-git-1/gradient-descent/internal/render"
	"github.com/tt-git-1/gradient-descent/internal/video"
	"github.com/tt-git-1/gradient-descent/internal/view"
)

// fixedSource always returns the same draw.
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// countingEncoder records frames and closes.
type countingEncoder struct {
	frames   int
	closed   int
	failAt   int // 1-based frame that fails, 0 = never
	closeErr error
}

func (e *countingEncoder) WriteFrame(image.Image) error {
	e.frames++
	if e.failAt > 0 && e.frames == e.failAt {
		return &video.EncodingError{Kind: video.KindFFmpeg, Op: "write", Err: errors.New("broken pipe")}
	}
	return nil
}

func (e *countingEncoder) Close() error {
	e.closed++
	return e.closeErr
}

// stubRenderer adapts like the real renderer but draws a 1x1 image.
type stubRenderer struct {
	policy view.Policy
	calls  int
	failAt int
	err    error
}

func (r *stubRenderer) Adapt(f render.Frame, win *view.Window) bool {
	next, moved := r.policy.Update(*win, f.State.Theta, 0, f.State.Theta+f.State.Velocity)
	*win = next
	return moved
}

func (r *stubRenderer) Render(f render.Frame, win *view.Window) (image.Image, error) {
	r.calls++
	if r.failAt > 0 && r.calls == r.failAt {
		return nil, r.err
	}
	r.Adapt(f, win)
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.FPS = 10
	cfg.DurationS = 3
	cfg.Output = "unused.mp4"
	return cfg
}

func newTestAnimator(t *testing.T, cfg config.Config, enc *countingEncoder, r FrameRenderer) *Animator {
	t.Helper()
	a, err := New(cfg,
		WithRandomSource(fixedSource(0.75)),
		WithRenderer(r),
		WithEncoderFactory(func(video.Options) (video.Encoder, error) { return enc, nil }),
		WithLogger(quietLogger()),
		WithRunID("test-run"),
	)
	require.NoError(t, err)
	return a
}

func TestRun_FrameCount(t *testing.T) {
	enc := &countingEncoder{}
	a := newTestAnimator(t, testConfig(), enc, &stubRenderer{policy: view.DefaultPolicy()})

	s, err := a.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, enc.frames, "frames = FPS * DURATION")
	assert.Equal(t, 1, enc.closed)
	assert.Equal(t, 30, s.Frames)
	assert.Equal(t, 31, s.Trajectory.Len(), "initial point plus one per frame")
	assert.Equal(t, "unused.mp4", s.Output)
	assert.Equal(t, "test-run", s.RunID)
	assert.Equal(t, 30.0, testutil.ToFloat64(a.Metrics().Frames))
}

func TestRun_InitialThetaFromSource(t *testing.T) {
	a := newTestAnimator(t, testConfig(), &countingEncoder{}, &stubRenderer{policy: view.DefaultPolicy()})

	// 0.75 maps to (0.75*2 - 1) * 50 = 25
	assert.Equal(t, 25.0, a.InitialTheta())

	s, err := a.Simulate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25.0, s.InitialTheta)
}

func TestRun_InitialThetaFromConfig(t *testing.T) {
	cfg := testConfig().WithInitialTheta(-7.5)
	a := newTestAnimator(t, cfg, &countingEncoder{}, &stubRenderer{policy: view.DefaultPolicy()})

	assert.Equal(t, -7.5, a.InitialTheta())
}

func TestSimulate_Deterministic(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 42
	cfg.DurationS = 20

	run := func() Summary {
		a, err := New(cfg, WithLogger(quietLogger()))
		require.NoError(t, err)
		s, err := a.Simulate(context.Background())
		require.NoError(t, err)
		return s
	}

	first, second := run(), run()
	assert.Equal(t, first.Trajectory.Theta, second.Trajectory.Theta)
	assert.Equal(t, first.FinalVelocity, second.FinalVelocity)
	assert.Equal(t, first.Recentres, second.Recentres)
}

func TestSimulate_ThetaStaysInRange(t *testing.T) {
	cfg := testConfig()
	cfg.DurationS = 45
	cfg.LearningRate = 0.05

	a, err := New(cfg, WithLogger(quietLogger()), WithRandomSource(fixedSource(0.999)))
	require.NoError(t, err)

	s, err := a.Simulate(context.Background())
	require.NoError(t, err)
	for _, theta := range s.Trajectory.Theta {
		require.LessOrEqual(t, theta, cfg.Range)
		require.GreaterOrEqual(t, theta, -cfg.Range)
	}
}

func TestSimulate_TracksMinimum(t *testing.T) {
	a := newTestAnimator(t, testConfig(), &countingEncoder{}, &stubRenderer{policy: view.DefaultPolicy()})

	s, err := a.Simulate(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, s.MinLoss, s.FinalLoss)
	assert.LessOrEqual(t, s.MinLoss, s.Trajectory.Loss[0])
}

// TestRun_ClosesEncoderOnRenderError checks the scoped-resource guarantee.
func TestRun_ClosesEncoderOnRenderError(t *testing.T) {
	enc := &countingEncoder{}
	anomaly := &render.NumericAnomalyError{Iteration: 5, Theta: 1, Quantity: "loss"}
	r := &stubRenderer{policy: view.DefaultPolicy(), failAt: 5, err: anomaly}
	a := newTestAnimator(t, testConfig(), enc, r)

	s, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, render.ErrNumericAnomaly))
	assert.Contains(t, err.Error(), "frame 4")
	assert.Equal(t, 1, enc.closed)
	assert.Equal(t, 4, enc.frames)
	assert.Equal(t, 4, s.Frames)
}

func TestRun_EncodingErrorAndCloseErrorAreJoined(t *testing.T) {
	closeErr := errors.New("flush failed")
	enc := &countingEncoder{failAt: 3, closeErr: closeErr}
	a := newTestAnimator(t, testConfig(), enc, &stubRenderer{policy: view.DefaultPolicy()})

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, video.ErrEncoding))
	assert.True(t, errors.Is(err, closeErr))
	assert.Equal(t, 1, enc.closed)
}

func TestRun_EncoderFactoryError(t *testing.T) {
	want := &video.EncodingError{Kind: video.KindFFmpeg, Op: "start", Err: errors.New("not found")}
	a, err := New(testConfig(),
		WithLogger(quietLogger()),
		WithEncoderFactory(func(video.Options) (video.Encoder, error) { return nil, want }),
	)
	require.NoError(t, err)

	_, err = a.Run(context.Background())
	assert.ErrorIs(t, err, video.ErrEncoding)
}

func TestRun_Canceled(t *testing.T) {
	enc := &countingEncoder{}
	a := newTestAnimator(t, testConfig(), enc, &stubRenderer{policy: view.DefaultPolicy()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := a.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, enc.frames)
	assert.Equal(t, 1, enc.closed)
	assert.Equal(t, 0, s.Frames)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Momentum = 1.5

	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestVideoOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Output = "out.gif"
	cfg.Encoder = "gif"

	a, err := New(cfg, WithLogger(quietLogger()))
	require.NoError(t, err)

	opts := a.VideoOptions()
	assert.Equal(t, video.KindGIF, opts.Kind)
	assert.Equal(t, "out.gif", opts.Path)
	assert.Equal(t, 10, opts.FPS)
	assert.Equal(t, 1200, opts.Width)
	assert.Equal(t, 800, opts.Height)
}

// TestRun_GIFEndToEnd renders a short real animation through gonum/plot
// and the GIF encoder.
func TestRun_GIFEndToEnd(t *testing.T) {
	cfg := testConfig()
	cfg.DurationS = 0.4
	cfg.Width = 160
	cfg.Height = 120
	cfg.SamplesPerUnit = 20
	cfg.Output = filepath.Join(t.TempDir(), "run.gif")

	a, err := New(cfg, WithLogger(quietLogger()), WithRandomSource(fixedSource(0.5)))
	require.NoError(t, err)

	s, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.Frames)
	assert.FileExists(t, cfg.Output)
}

// Package anim runs the frame loop: step the optimizer, adapt the view,
// render, encode, repeat for a fixed number of frames.
//
// The loop is single-threaded and strictly sequential. The encoder is
// opened before the first frame and closed on every exit path.
package anim

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tt-git-1/gradient-descent/internal/config"
	"github.com/tt-git-1/gradient-descent/internal/loss"
	"github.com/tt-git-1/gradient-descent/internal/metrics"
	"github.com/tt-git-1/gradient-descent/internal/optim"
	"github.com/tt-git-1/gradient-descent/internal/render"
	"github.com/tt-git-1/gradient-descent/internal/video"
	"github.com/tt-git-1/gradient-descent/internal/view"
)

// RandomSource draws the initial θ. *rand.Rand satisfies it.
type RandomSource interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// FrameRenderer draws frames and owns the view adaptation.
type FrameRenderer interface {
	// Adapt moves win for the frame without drawing. Reports whether it moved.
	Adapt(f render.Frame, win *view.Window) bool

	// Render adapts win for the frame and draws it.
	Render(f render.Frame, win *view.Window) (image.Image, error)
}

// EncoderFactory opens the output artifact.
type EncoderFactory func(opts video.Options) (video.Encoder, error)

// Animator wires the pipeline for one configuration.
type Animator struct {
	cfg        config.Config
	objective  loss.Function
	optimizer  optim.Optimizer
	policy     view.Policy
	renderer   FrameRenderer
	newEncoder EncoderFactory
	rng        RandomSource
	logger     *slog.Logger
	metrics    *metrics.Recorder
	runID      string
}

// Option customises an Animator.
type Option func(*Animator)

// WithRandomSource replaces the seeded source used for the initial θ.
func WithRandomSource(rng RandomSource) Option {
	return func(a *Animator) { a.rng = rng }
}

// WithRenderer replaces the gonum/plot renderer.
func WithRenderer(r FrameRenderer) Option {
	return func(a *Animator) { a.renderer = r }
}

// WithEncoderFactory replaces video.New.
func WithEncoderFactory(f EncoderFactory) Option {
	return func(a *Animator) { a.newEncoder = f }
}

// WithLogger sets the logger. The run id is attached to it.
func WithLogger(l *slog.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(a *Animator) { a.metrics = m }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(a *Animator) { a.runID = id }
}

// New validates cfg and builds the pipeline.
//
// Returns the validation error unchanged, so callers can match
// config.ErrInvalidConfig.
func New(cfg config.Config, opts ...Option) (*Animator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	objective := loss.Rugged{}
	policy := cfg.View.Policy()

	a := &Animator{
		cfg:       cfg,
		objective: objective,
		optimizer: optim.NewSGD(objective, optim.SGDConfig{
			LR:       cfg.LearningRate,
			Momentum: cfg.Momentum,
			Range:    cfg.Range,
		}),
		policy: policy,
		renderer: render.New(objective, policy, render.Config{
			Width:            cfg.Width,
			Height:           cfg.Height,
			SamplesPerUnit:   cfg.SamplesPerUnit,
			TangentHalfWidth: cfg.TangentHalfWidth,
		}),
		newEncoder: func(o video.Options) (video.Encoder, error) { return video.New(o) },
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.rng == nil {
		a.rng = newSource(cfg.Seed)
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	if a.runID == "" {
		a.runID = uuid.NewString()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("run_id", a.runID)

	return a, nil
}

func newSource(seed int64) *rand.Rand {
	if seed >= 0 {
		return rand.New(rand.NewSource(seed)) //nolint:gosec // Intentional deterministic seed for reproducibility
	}
	return rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // User requested random seed
}

// Config returns the validated configuration.
func (a *Animator) Config() config.Config {
	return a.cfg
}

// RunID returns the id attached to logs and the summary.
func (a *Animator) RunID() string {
	return a.runID
}

// Metrics returns the recorder the loop reports to.
func (a *Animator) Metrics() *metrics.Recorder {
	return a.metrics
}

// VideoOptions returns the encoder options derived from the configuration.
func (a *Animator) VideoOptions() video.Options {
	return video.Options{
		Kind:        video.Kind(a.cfg.Encoder),
		Path:        a.cfg.Output,
		FPS:         a.cfg.FPS,
		Width:       a.cfg.Width,
		Height:      a.cfg.Height,
		FFmpegPath:  a.cfg.FFmpegPath,
		BitrateKbps: a.cfg.BitrateKbps,
	}
}

// InitialTheta returns the configured θ0, or a uniform draw from [-R, R).
func (a *Animator) InitialTheta() float64 {
	if a.cfg.InitialTheta != nil {
		return *a.cfg.InitialTheta
	}
	return (a.rng.Float64()*2 - 1) * a.cfg.Range
}

// Run renders the animation to the configured output.
func (a *Animator) Run(ctx context.Context) (summary Summary, err error) {
	opts := a.VideoOptions()
	enc, err := a.newEncoder(opts)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if cerr := enc.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	a.logger.Info("rendering animation",
		"output", opts.Path,
		"encoder", video.Resolve(opts),
		"frames", a.cfg.TotalFrames(),
		"fps", a.cfg.FPS,
		"optimizer", a.optimizer)

	summary, err = a.loop(ctx, enc)
	summary.Output = opts.Path
	return summary, err
}

// Simulate runs the same loop without rendering or encoding.
func (a *Animator) Simulate(ctx context.Context) (Summary, error) {
	a.logger.Info("simulating", "frames", a.cfg.TotalFrames(), "optimizer", a.optimizer)
	return a.loop(ctx, nil)
}

// loop drives the frames. A nil encoder runs headless.
func (a *Animator) loop(ctx context.Context, enc video.Encoder) (Summary, error) {
	total := a.cfg.TotalFrames()
	start := time.Now()

	state := optim.NewState(a.InitialTheta())
	initialLoss := a.objective.Value(state.Theta)
	win := a.policy.Center(state.Theta, initialLoss)

	traj := newTrajectory(total + 1)
	traj.record(state.Theta, initialLoss)

	s := Summary{
		RunID:        a.runID,
		InitialTheta: state.Theta,
		Trajectory:   traj,
	}
	finish := func() Summary {
		s.FinalTheta = state.Theta
		s.FinalVelocity = state.Velocity
		s.FinalLoss = a.objective.Value(state.Theta)
		s.MinLoss, s.MinLossTheta = traj.MinLoss()
		s.Elapsed = time.Since(start)
		return s
	}

	a.logger.Debug("initial state", "theta", state.Theta, "loss", initialLoss, "window", win.String())

	for frame := 0; frame < total; frame++ {
		if err := ctx.Err(); err != nil {
			return finish(), fmt.Errorf("anim: stopped before frame %d: %w", frame, err)
		}

		var grad float64
		state, grad = a.optimizer.Step(state)
		f := render.Frame{State: state, Gradient: grad}
		lossValue := a.objective.Value(state.Theta)
		if err := render.CheckFinite(f, lossValue); err != nil {
			return finish(), err
		}

		before := win
		if enc == nil {
			a.renderer.Adapt(f, &win)
		} else if err := a.emit(f, &win, enc); err != nil {
			return finish(), fmt.Errorf("anim: frame %d: %w", frame, err)
		}
		if win != before {
			s.Recentres++
			a.metrics.Recentres.Inc()
		}

		traj.record(state.Theta, lossValue)
		s.Frames++
		a.metrics.Frames.Inc()
		a.metrics.ObserveState(state.Theta, state.Velocity, lossValue)

		if every := a.cfg.ProgressEvery; every > 0 && (frame+1)%every == 0 {
			a.logger.Info("progress",
				"frame", frame+1,
				"total", total,
				"theta", state.Theta,
				"loss", lossValue,
				"velocity", state.Velocity)
		}
	}

	s = finish()
	a.logger.Info("done",
		"frames", s.Frames,
		"final_theta", s.FinalTheta,
		"final_loss", s.FinalLoss,
		"recentres", s.Recentres,
		"elapsed", s.Elapsed.Round(time.Millisecond))
	return s, nil
}

// emit renders one frame and hands it to the encoder.
func (a *Animator) emit(f render.Frame, win *view.Window, enc video.Encoder) error {
	renderStart := time.Now()
	img, err := a.renderer.Render(f, win)
	if err != nil {
		return err
	}
	metrics.Since(a.metrics.RenderSeconds, renderStart)

	encodeStart := time.Now()
	if err := enc.WriteFrame(img); err != nil {
		return err
	}
	metrics.Since(a.metrics.EncodeSeconds, encodeStart)
	return nil
}

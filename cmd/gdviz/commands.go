package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tt-git-1/gradient-descent/internal/anim"
	"github.com/tt-git-1/gradient-descent/internal/config"
)

// flags holds the command-line overrides. Only flags that were set on the
// command line are applied on top of the configuration file.
type flags struct {
	configPath  string
	output      string
	encoder     string
	ffmpegPath  string
	seed        int64
	theta       float64
	fps         int
	duration    float64
	lr          float64
	momentum    float64
	metricsAddr string
	quiet       bool
	verbose     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	rootCmd := &cobra.Command{
		Use:   "gdviz",
		Short: "Animate gradient descent with momentum on a rugged loss curve",
		Long: `gdviz steps a one-dimensional momentum optimizer over
L(θ) = 0.5·sin(3θ) + 0.3·sin(5θ) + 0.2·sin(7θ) + 0.1·θ²
and renders one frame per step into a video.

Running gdviz without a command renders with the default settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f, stdout, stderr)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&f.output, "output", "o", config.DefaultOutput, "output video file (.mp4, .gif) or PNG frame directory")
	pf.StringVar(&f.encoder, "encoder", "auto", "encoder: auto, ffmpeg, gif or png")
	pf.StringVar(&f.ffmpegPath, "ffmpeg", "ffmpeg", "ffmpeg binary")
	pf.Int64Var(&f.seed, "seed", -1, "seed for the initial θ (-1 = random)")
	pf.Float64Var(&f.theta, "theta", 0, "initial θ, overrides the random draw")
	pf.IntVar(&f.fps, "fps", 15, "frames per second")
	pf.Float64Var(&f.duration, "duration", 30, "video duration in seconds")
	pf.Float64Var(&f.lr, "lr", 0.002, "learning rate")
	pf.Float64Var(&f.momentum, "momentum", 0.99, "momentum coefficient in [0, 1)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	pf.BoolVarP(&f.quiet, "quiet", "q", false, "only log warnings and errors")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "log debug output")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the animation to a video file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd, f, stdout, stderr)
		},
	}

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the optimizer without rendering and print the trajectory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd, f, stdout, stderr)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = stdout.Write(data)
			return err
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "gdviz %s\n", version)
		},
	}

	rootCmd.AddCommand(renderCmd, simulateCmd, configCmd, versionCmd)
	return rootCmd
}

// loadConfig builds the configuration from defaults, the optional file and
// the flags that were explicitly set.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output = f.output
	}
	if changed("encoder") {
		cfg.Encoder = f.encoder
	}
	if changed("ffmpeg") {
		cfg.FFmpegPath = f.ffmpegPath
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}
	if changed("theta") {
		cfg = cfg.WithInitialTheta(f.theta)
	}
	if changed("fps") {
		cfg.FPS = f.fps
	}
	if changed("duration") {
		cfg.DurationS = f.duration
	}
	if changed("lr") {
		cfg.LearningRate = f.lr
	}
	if changed("momentum") {
		cfg.Momentum = f.momentum
	}
	return cfg, nil
}

func newLogger(f *flags, stderr io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case f.quiet:
		level = slog.LevelWarn
	case f.verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

// newAnimator loads the configuration and wires logging and metrics.
func newAnimator(cmd *cobra.Command, f *flags, stderr io.Writer) (*anim.Animator, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	logger := newLogger(f, stderr)
	a, err := anim.New(cfg, anim.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	if f.metricsAddr != "" {
		addr, err := a.Metrics().Serve(cmd.Context(), f.metricsAddr, logger.With("run_id", a.RunID()))
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		logger.Info("serving metrics", "addr", addr.String(), "run_id", a.RunID())
	}
	return a, nil
}

func runRender(cmd *cobra.Command, f *flags, stdout, stderr io.Writer) error {
	a, err := newAnimator(cmd, f, stderr)
	if err != nil {
		return err
	}

	s, err := a.Run(cmd.Context())
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, formatSummary(s))
	return err
}

func runSimulate(cmd *cobra.Command, f *flags, stdout, stderr io.Writer) error {
	a, err := newAnimator(cmd, f, stderr)
	if err != nil {
		return err
	}

	s, err := a.Simulate(cmd.Context())
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, formatSummary(s))
	return err
}

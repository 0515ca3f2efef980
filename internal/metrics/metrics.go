// Package metrics exposes Prometheus collectors for an animation run.
//
// Collectors live on their own registry rather than the global default so
// that tests and repeated runs in one process do not collide.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gdviz"

// Recorder holds the run collectors.
type Recorder struct {
	registry *prometheus.Registry

	Frames        prometheus.Counter
	Recentres     prometheus.Counter
	RenderSeconds prometheus.Histogram
	EncodeSeconds prometheus.Histogram
	Loss          prometheus.Gauge
	Theta         prometheus.Gauge
	Velocity      prometheus.Gauge
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames produced by the animation loop",
		}),
		Recentres: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_recentres_total",
			Help:      "Times the visible window was recentred",
		}),
		RenderSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_render_seconds",
			Help:      "Time spent drawing one frame",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		}),
		EncodeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_encode_seconds",
			Help:      "Time spent handing one frame to the encoder",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
		}),
		Loss: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loss",
			Help:      "Loss at the current θ",
		}),
		Theta: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "theta",
			Help:      "Current parameter value",
		}),
		Velocity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "velocity",
			Help:      "Current momentum accumulator",
		}),
	}

	r.registry.MustRegister(r.Frames, r.Recentres, r.RenderSeconds, r.EncodeSeconds, r.Loss, r.Theta, r.Velocity)
	return r
}

// Registry returns the registry the collectors are registered on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveState updates the state gauges.
func (r *Recorder) ObserveState(theta, velocity, loss float64) {
	r.Theta.Set(theta)
	r.Velocity.Set(velocity)
	r.Loss.Set(loss)
}

// Since observes the seconds elapsed since start on h.
func Since(h prometheus.Observer, start time.Time) {
	h.Observe(time.Since(start).Seconds())
}

// Serve exposes the registry on addr at /metrics until ctx is done.
//
// The listener is bound before Serve returns so that a bad address is
// reported immediately; serving continues in the background and a later
// failure is logged to logger (slog.Default when nil).
func (r *Recorder) Serve(ctx context.Context, addr string, logger *slog.Logger) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	r.serve(ctx, ln, logger)
	return ln.Addr(), nil
}

func (r *Recorder) serve(ctx context.Context, ln net.Listener, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "addr", ln.Addr().String(), "error", err)
		}
	}()
}

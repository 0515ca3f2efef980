// Package render draws one animation frame with gonum/plot.
//
// A frame shows the loss curve sampled over the visible window, the current
// point, the tangent line at that point and a status box. The window is
// adapted before drawing so the point stays in focus.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tt-git-1/gradient-descent/internal/loss"
	"github.com/tt-git-1/gradient-descent/internal/optim"
	"github.com/tt-git-1/gradient-descent/internal/view"
)

// tangentSamples is the number of points drawn along the tangent segment.
const tangentSamples = 10

var (
	curveColor   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	pointColor   = color.RGBA{R: 200, A: 255}
	tangentColor = color.RGBA{G: 160, B: 60, A: 255}
	gridColor    = color.Gray{Y: 220}
)

// Config configures frame rendering.
type Config struct {
	Width  int     // Frame width in pixels (default: 1200)
	Height int     // Frame height in pixels (default: 800)
	DPI    float64 // Resolution used to size fonts and strokes (default: 100)

	// SamplesPerUnit is the curve sampling density per unit of θ.
	// The density is constant, so a wider window gets more points.
	SamplesPerUnit float64 // default: 200

	// TangentHalfWidth is the θ-distance the tangent extends on each side.
	TangentHalfWidth float64 // default: 1.0

	Title string // default: "Gradient Descent Optimization"
}

// DefaultConfig returns the reference frame layout: 12x8 inches at 100 dpi.
func DefaultConfig() Config {
	return Config{
		Width:            1200,
		Height:           800,
		DPI:              100,
		SamplesPerUnit:   200,
		TangentHalfWidth: 1.0,
		Title:            "Gradient Descent Optimization",
	}
}

// Frame is the input of one Render call.
type Frame struct {
	State    optim.State
	Gradient float64 // Gradient used by the step that produced State
}

// Renderer draws frames for a fixed objective.
//
// A Renderer is not safe for concurrent use; it reuses sampling buffers
// between calls.
type Renderer struct {
	objective loss.Function
	policy    view.Policy
	cfg       Config

	xs, ys []float64
}

// New creates a renderer.
//
// Zero fields of cfg are replaced by the DefaultConfig values.
func New(objective loss.Function, policy view.Policy, cfg Config) *Renderer {
	def := DefaultConfig()
	if cfg.Width <= 0 {
		cfg.Width = def.Width
	}
	if cfg.Height <= 0 {
		cfg.Height = def.Height
	}
	if cfg.DPI <= 0 {
		cfg.DPI = def.DPI
	}
	if cfg.SamplesPerUnit <= 0 {
		cfg.SamplesPerUnit = def.SamplesPerUnit
	}
	if cfg.TangentHalfWidth <= 0 {
		cfg.TangentHalfWidth = def.TangentHalfWidth
	}
	if cfg.Title == "" {
		cfg.Title = def.Title
	}

	return &Renderer{
		objective: objective,
		policy:    policy,
		cfg:       cfg,
	}
}

// Config returns the effective configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Adapt moves win so the frame's point, and its next projected position,
// stay clear of the window margins. Reports whether the window moved.
func (r *Renderer) Adapt(f Frame, win *view.Window) bool {
	theta := f.State.Theta
	next, moved := r.policy.Update(*win, theta, r.objective.Value(theta), theta+f.State.Velocity)
	*win = next
	return moved
}

// Render adapts win for the frame and draws it.
//
// Returns a *NumericAnomalyError if any plotted quantity is not finite;
// win is left unchanged in that case.
func (r *Renderer) Render(f Frame, win *view.Window) (image.Image, error) {
	theta := f.State.Theta
	lossValue := r.objective.Value(theta)
	if err := CheckFinite(f, lossValue); err != nil {
		return nil, err
	}

	r.Adapt(f, win)

	p, err := r.plot(f, lossValue, *win)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	c := vgimg.NewWith(vgimg.UseImage(img), vgimg.UseDPI(int(r.cfg.DPI)))
	dc := draw.New(c)
	p.Draw(dc)

	drawStatus(p.DataCanvas(dc), StatusLines(f, lossValue))

	return img, nil
}

// plot assembles the chart for one frame.
func (r *Renderer) plot(f Frame, lossValue float64, win view.Window) (*plot.Plot, error) {
	theta := f.State.Theta

	p := plot.New()
	p.Title.Text = r.cfg.Title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "Parameter (θ)"
	p.Y.Label.Text = "Loss (L)"

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	p.Add(grid)

	curve, err := plotter.NewLine(r.sampleCurve(win))
	if err != nil {
		return nil, fmt.Errorf("render: loss curve: %w", err)
	}
	curve.LineStyle.Color = curveColor
	curve.LineStyle.Width = vg.Points(2)

	tangent, err := plotter.NewLine(r.sampleTangent(theta))
	if err != nil {
		return nil, fmt.Errorf("render: tangent: %w", err)
	}
	tangent.LineStyle.Color = tangentColor
	tangent.LineStyle.Width = vg.Points(1)
	tangent.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}

	point, err := plotter.NewScatter(plotter.XYs{{X: theta, Y: lossValue}})
	if err != nil {
		return nil, fmt.Errorf("render: current point: %w", err)
	}
	point.GlyphStyle.Shape = draw.CircleGlyph{}
	point.GlyphStyle.Radius = vg.Points(6)
	point.GlyphStyle.Color = pointColor

	p.Add(curve, tangent, point)
	p.Legend.Add("Loss Function", curve)
	p.Legend.Add("Current θ", point)
	p.Legend.Add("Gradient", tangent)
	p.Legend.Top = true

	// Add widens the axes to the data; pin them to the window afterwards.
	p.X.Min, p.X.Max = win.XMin, win.XMax
	p.Y.Min, p.Y.Max = win.YMin, win.YMax

	return p, nil
}

// sampleCurve samples L over the window at the configured density.
func (r *Renderer) sampleCurve(win view.Window) plotter.XYs {
	n := SampleCount(win.Width(), r.cfg.SamplesPerUnit)

	if cap(r.xs) < n {
		r.xs = make([]float64, n)
	}
	r.xs = floats.Span(r.xs[:n], win.XMin, win.XMax)
	r.ys = loss.Sample(r.objective, r.xs, r.ys)

	xys := make(plotter.XYs, n)
	for i := range xys {
		xys[i].X = r.xs[i]
		xys[i].Y = r.ys[i]
	}
	return xys
}

// sampleTangent returns the tangent segment at theta.
func (r *Renderer) sampleTangent(theta float64) plotter.XYs {
	xs := floats.Span(make([]float64, tangentSamples), theta-r.cfg.TangentHalfWidth, theta+r.cfg.TangentHalfWidth)

	xys := make(plotter.XYs, len(xs))
	for i, x := range xs {
		xys[i].X = x
		xys[i].Y = loss.Tangent(r.objective, theta, x)
	}
	return xys
}

// SampleCount returns the number of curve samples for a window of the given
// width, never fewer than two.
func SampleCount(width, perUnit float64) int {
	n := int(math.Ceil(width*perUnit)) + 1
	if n < 2 {
		return 2
	}
	return n
}

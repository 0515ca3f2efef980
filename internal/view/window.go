// Package view implements the adaptive plot window that keeps the optimizer in focus.
//
// The window is recentred only when the tracked point comes within a margin
// of an edge, so a point that stays well inside produces a steady frame.
package view

import (
	"fmt"
	"math"
)

// Window is the visible region of the plot.
type Window struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Width returns the horizontal extent.
func (w Window) Width() float64 { return w.XMax - w.XMin }

// Height returns the vertical extent.
func (w Window) Height() float64 { return w.YMax - w.YMin }

// Contains reports whether (x, y) lies inside the window, edges included.
func (w Window) Contains(x, y float64) bool {
	return x >= w.XMin && x <= w.XMax && y >= w.YMin && y <= w.YMax
}

// IsZero reports whether the window has never been set.
func (w Window) IsZero() bool {
	return w == Window{}
}

func (w Window) String() string {
	return fmt.Sprintf("[%.4f, %.4f]x[%.4f, %.4f]", w.XMin, w.XMax, w.YMin, w.YMax)
}

// Policy decides when and how the window moves.
type Policy struct {
	// MarginFraction is the fraction of each extent, measured inward from
	// an edge, that triggers a recentre when the point enters it.
	MarginFraction float64

	// PadX is the half-width placed on each side of θ after a recentre.
	PadX float64

	// PadBelow and PadAbove place L(θ) inside the vertical extent after a
	// recentre. An asymmetric split leaves room for the curve above the point.
	PadBelow float64
	PadAbove float64

	// MinWidth and MinHeight bound the extents from below.
	MinWidth  float64
	MinHeight float64
}

// DefaultPolicy returns the framing of the reference animation:
// θ ± 2 horizontally, L-1 to L+3 vertically, recentred at a 10% margin.
func DefaultPolicy() Policy {
	return Policy{
		MarginFraction: 0.1,
		PadX:           2.0,
		PadBelow:       1.0,
		PadAbove:       3.0,
		MinWidth:       1.0,
		MinHeight:      1.0,
	}
}

// Extents returns the padding Center places around a point: the half-width
// on each side of x and the room below and above y, with the minimum
// extents applied.
func (p Policy) Extents() (halfWidth, below, above float64) {
	halfWidth = math.Max(p.PadX, p.MinWidth/2)

	below, above = p.PadBelow, p.PadAbove
	if h := below + above; h < p.MinHeight {
		// Grow both sides in proportion so the point keeps its relative place.
		if h <= 0 {
			below, above = p.MinHeight/2, p.MinHeight/2
		} else {
			scale := p.MinHeight / h
			below, above = below*scale, above*scale
		}
	}
	return halfWidth, below, above
}

// Center returns the window recentred on (x, y) with the policy padding.
func (p Policy) Center(x, y float64) Window {
	halfW, below, above := p.Extents()
	return Window{
		XMin: x - halfW,
		XMax: x + halfW,
		YMin: y - below,
		YMax: y + above,
	}
}

// NearEdge reports whether (x, y) is outside w or within the margin of an edge.
func (p Policy) NearEdge(w Window, x, y float64) bool {
	mx := w.Width() * p.MarginFraction
	my := w.Height() * p.MarginFraction
	return x < w.XMin+mx || x > w.XMax-mx || y < w.YMin+my || y > w.YMax-my
}

// Update returns the window to use for the point (x, y).
//
// lookahead lists further θ values that must also stay clear of the
// horizontal margins, typically the next projected position θ + velocity.
// The returned flag is true when the window moved.
func (p Policy) Update(w Window, x, y float64, lookahead ...float64) (Window, bool) {
	if w.IsZero() || p.NearEdge(w, x, y) {
		return p.Center(x, y), true
	}

	mx := w.Width() * p.MarginFraction
	for _, ax := range lookahead {
		if ax < w.XMin+mx || ax > w.XMax-mx {
			return p.Center(x, y), true
		}
	}
	return w, false
}

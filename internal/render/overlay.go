package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// wheat at half opacity
var statusBoxColor = color.NRGBA{R: 245, G: 222, B: 179, A: 128}

// StatusLines returns the overlay text for a frame, four decimals per value.
func StatusLines(f Frame, lossValue float64) []string {
	return []string{
		fmt.Sprintf("Iteration: %d", f.State.Iteration),
		fmt.Sprintf("θ: %.4f", f.State.Theta),
		fmt.Sprintf("Loss: %.4f", lossValue),
		fmt.Sprintf("Gradient: %.4f", f.Gradient),
		fmt.Sprintf("Velocity: %.4f", f.State.Velocity),
	}
}

// drawStatus draws lines in a box anchored at the top-left of the data area.
func drawStatus(da draw.Canvas, lines []string) {
	sty := text.Style{
		Color:   color.Black,
		Font:    font.From(plot.DefaultFont, vg.Points(12)),
		XAlign:  text.XLeft,
		YAlign:  text.YTop,
		Handler: plot.DefaultTextHandler,
	}

	pad := vg.Points(6)
	lineHeight := sty.Font.Size * 1.3

	var textWidth vg.Length
	for _, line := range lines {
		if w := sty.Width(line); w > textWidth {
			textWidth = w
		}
	}

	size := da.Rectangle.Size()
	left := da.Min.X + size.X*0.02
	top := da.Max.Y - size.Y*0.02
	right := left + textWidth + 2*pad
	bottom := top - lineHeight*vg.Length(len(lines)) - 2*pad

	da.FillPolygon(statusBoxColor, []vg.Point{
		{X: left, Y: bottom},
		{X: right, Y: bottom},
		{X: right, Y: top},
		{X: left, Y: top},
	})

	y := top - pad
	for _, line := range lines {
		da.FillText(sty, vg.Point{X: left + pad, Y: y}, line)
		y -= lineHeight
	}
}

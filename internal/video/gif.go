package video

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
)

// gifEncoder buffers paletted frames and writes the animation on Close.
type gifEncoder struct {
	opts   Options
	anim   gif.GIF
	closed bool
}

func newGIF(opts Options) (*gifEncoder, error) {
	// Probe the destination early so a bad path fails before rendering.
	f, err := os.Create(opts.Path)
	if err != nil {
		return nil, &EncodingError{Kind: KindGIF, Op: "start", Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &EncodingError{Kind: KindGIF, Op: "start", Err: err}
	}

	return &gifEncoder{opts: opts}, nil
}

// FrameDelay returns the delay of frame i in 100ths of a second. Delays are
// whole centiseconds, so they alternate to keep frame i starting at
// round(i·100/fps) and the total length exact.
func FrameDelay(i, fps int) int {
	at := func(n int) int {
		return int(math.Round(float64(n) * 100 / float64(fps)))
	}
	return max(at(i+1)-at(i), 1)
}

func (e *gifEncoder) WriteFrame(img image.Image) error {
	if e.closed {
		return &EncodingError{Kind: KindGIF, Op: "write", Err: errors.New("encoder is closed")}
	}
	if err := checkSize(KindGIF, img, e.opts.Width, e.opts.Height); err != nil {
		return err
	}

	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)

	e.anim.Image = append(e.anim.Image, frame)
	e.anim.Delay = append(e.anim.Delay, FrameDelay(len(e.anim.Delay), e.opts.FPS))
	return nil
}

func (e *gifEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	f, err := os.Create(e.opts.Path)
	if err != nil {
		return &EncodingError{Kind: KindGIF, Op: "close", Err: err}
	}
	if len(e.anim.Image) == 0 {
		// Nothing rendered; leave an empty file rather than an invalid GIF.
		return closeWith(f, nil)
	}
	if err := gif.EncodeAll(f, &e.anim); err != nil {
		return closeWith(f, &EncodingError{Kind: KindGIF, Op: "close", Err: err})
	}
	return closeWith(f, nil)
}

// closeWith closes f and reports err, or the close error if err is nil.
func closeWith(f *os.File, err error) error {
	cerr := f.Close()
	if err != nil {
		return err
	}
	if cerr != nil {
		return &EncodingError{Kind: KindGIF, Op: "close", Err: cerr}
	}
	return nil
}

package video

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// pngSequence writes each frame to <dir>/frame_NNNNN.png.
type pngSequence struct {
	opts   Options
	next   int
	closed bool
}

// FrameName returns the file name of the i-th frame of a PNG sequence.
func FrameName(i int) string {
	return fmt.Sprintf("frame_%05d.png", i)
}

func newPNGSequence(opts Options) (*pngSequence, error) {
	if err := os.MkdirAll(opts.Path, 0o755); err != nil {
		return nil, &EncodingError{Kind: KindPNG, Op: "start", Err: err}
	}
	return &pngSequence{opts: opts}, nil
}

func (e *pngSequence) WriteFrame(img image.Image) error {
	if e.closed {
		return &EncodingError{Kind: KindPNG, Op: "write", Err: errors.New("encoder is closed")}
	}
	if err := checkSize(KindPNG, img, e.opts.Width, e.opts.Height); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(e.opts.Path, FrameName(e.next)))
	if err != nil {
		return &EncodingError{Kind: KindPNG, Op: "write", Err: err}
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return &EncodingError{Kind: KindPNG, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return &EncodingError{Kind: KindPNG, Op: "write", Err: err}
	}

	e.next++
	return nil
}

func (e *pngSequence) Close() error {
	e.closed = true
	return nil
}

// Package video turns an ordered sequence of frames into an output artifact.
//
// Three encoders are provided:
//   - ffmpeg: pipes raw RGBA frames into an external ffmpeg process (MP4)
//   - gif: in-process animated GIF
//   - png: numbered PNG files in a directory
//
// Every encoder is a scoped resource: create it before the first frame and
// Close it on every exit path. Close finalises the artifact.
package video

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Kind selects an encoder implementation.
type Kind string

// Supported encoder kinds.
const (
	KindAuto   Kind = "auto"
	KindFFmpeg Kind = "ffmpeg"
	KindGIF    Kind = "gif"
	KindPNG    Kind = "png"
)

// Encoder consumes frames in order.
type Encoder interface {
	// WriteFrame appends one frame. All frames must share the size given
	// in Options.
	WriteFrame(img image.Image) error

	// Close flushes and releases the output. It is safe to call more than once.
	Close() error
}

// Options configures an encoder.
type Options struct {
	Kind   Kind
	Path   string // Output file, or directory for KindPNG
	FPS    int
	Width  int
	Height int

	// FFmpegPath is the ffmpeg binary (default: "ffmpeg").
	FFmpegPath string

	// BitrateKbps is the H.264 target bitrate (default: 1800).
	BitrateKbps int
}

// ErrEncoding marks failures of the encoding collaborator.
var ErrEncoding = errors.New("video: encoding failed")

// EncodingError wraps ErrEncoding with the encoder, the failed operation and
// the underlying diagnostic.
type EncodingError struct {
	Kind       Kind
	Op         string // "start", "write", "close"
	Diagnostic string // Tail of the tool's stderr, if any
	Err        error
}

func (e *EncodingError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "video: %s %s", e.Kind, e.Op)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Diagnostic != "" {
		fmt.Fprintf(&b, "\n%s", e.Diagnostic)
	}
	return b.String()
}

func (e *EncodingError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrEncoding}
	}
	return []error{ErrEncoding, e.Err}
}

// Resolve returns the concrete kind for opts. KindAuto picks by extension:
// ".gif" is a GIF, no extension is a PNG directory, anything else goes to ffmpeg.
func Resolve(opts Options) Kind {
	if opts.Kind != "" && opts.Kind != KindAuto {
		return opts.Kind
	}
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".gif":
		return KindGIF
	case "":
		return KindPNG
	default:
		return KindFFmpeg
	}
}

// New creates the encoder selected by opts.
func New(opts Options) (Encoder, error) {
	if opts.Path == "" {
		return nil, &EncodingError{Kind: opts.Kind, Op: "start", Err: errors.New("output path is required")}
	}
	if opts.FPS <= 0 || opts.Width <= 0 || opts.Height <= 0 {
		return nil, &EncodingError{
			Kind: opts.Kind,
			Op:   "start",
			Err:  fmt.Errorf("invalid stream geometry %dx%d@%dfps", opts.Width, opts.Height, opts.FPS),
		}
	}

	switch kind := Resolve(opts); kind {
	case KindFFmpeg:
		return newFFmpeg(opts)
	case KindGIF:
		return newGIF(opts)
	case KindPNG:
		return newPNGSequence(opts)
	default:
		return nil, &EncodingError{Kind: kind, Op: "start", Err: errors.New("unsupported encoder")}
	}
}

// checkSize verifies a frame against the configured stream size.
func checkSize(kind Kind, img image.Image, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return &EncodingError{
			Kind: kind,
			Op:   "write",
			Err:  fmt.Errorf("frame is %dx%d, stream is %dx%d", b.Dx(), b.Dy(), width, height),
		}
	}
	return nil
}

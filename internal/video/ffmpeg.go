package video

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// diagnosticLines is how much of ffmpeg's stderr is kept in errors.
const diagnosticLines = 20

// ffmpegEncoder streams raw RGBA frames to an ffmpeg child process.
type ffmpegEncoder struct {
	opts   Options
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	buf    *image.RGBA
	closed bool
}

// FFmpegArgs returns the ffmpeg command line for opts, without the binary.
func FFmpegArgs(opts Options) []string {
	bitrate := opts.BitrateKbps
	if bitrate <= 0 {
		bitrate = 1800
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "-",
		"-an",
		// yuv420p needs even dimensions.
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", "libx264",
		"-b:v", fmt.Sprintf("%dk", bitrate),
		"-pix_fmt", "yuv420p",
		opts.Path,
	}
}

func newFFmpeg(opts Options) (*ffmpegEncoder, error) {
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, &EncodingError{Kind: KindFFmpeg, Op: "start", Err: err}
	}

	e := &ffmpegEncoder{opts: opts}
	e.cmd = exec.Command(path, FFmpegArgs(opts)...)
	e.cmd.Stderr = &e.stderr

	e.stdin, err = e.cmd.StdinPipe()
	if err != nil {
		return nil, &EncodingError{Kind: KindFFmpeg, Op: "start", Err: err}
	}
	if err := e.cmd.Start(); err != nil {
		return nil, &EncodingError{Kind: KindFFmpeg, Op: "start", Err: err, Diagnostic: e.diagnostic()}
	}
	return e, nil
}

func (e *ffmpegEncoder) WriteFrame(img image.Image) error {
	if e.closed {
		return &EncodingError{Kind: KindFFmpeg, Op: "write", Err: errors.New("encoder is closed")}
	}
	if err := checkSize(KindFFmpeg, img, e.opts.Width, e.opts.Height); err != nil {
		return err
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != 4*e.opts.Width || rgba.Rect.Min != (image.Point{}) {
		if e.buf == nil {
			e.buf = image.NewRGBA(image.Rect(0, 0, e.opts.Width, e.opts.Height))
		}
		draw.Draw(e.buf, e.buf.Bounds(), img, img.Bounds().Min, draw.Src)
		rgba = e.buf
	}

	if _, err := e.stdin.Write(rgba.Pix[:4*e.opts.Width*e.opts.Height]); err != nil {
		// A broken pipe means ffmpeg died; its exit status and stderr say why.
		waitErr := e.shutdown()
		return &EncodingError{Kind: KindFFmpeg, Op: "write", Err: errors.Join(err, waitErr), Diagnostic: e.diagnostic()}
	}
	return nil
}

func (e *ffmpegEncoder) Close() error {
	if e.closed {
		return nil
	}
	if err := e.shutdown(); err != nil {
		return &EncodingError{Kind: KindFFmpeg, Op: "close", Err: err, Diagnostic: e.diagnostic()}
	}
	return nil
}

// shutdown closes stdin and waits for the process exactly once.
func (e *ffmpegEncoder) shutdown() error {
	if e.closed {
		return nil
	}
	e.closed = true
	closeErr := e.stdin.Close()
	waitErr := e.cmd.Wait()
	if waitErr != nil {
		return waitErr
	}
	return closeErr
}

// diagnostic returns the last lines of ffmpeg's stderr.
func (e *ffmpegEncoder) diagnostic() string {
	lines := strings.Split(strings.TrimSpace(e.stderr.String()), "\n")
	if len(lines) > diagnosticLines {
		lines = lines[len(lines)-diagnosticLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

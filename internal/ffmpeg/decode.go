package ffmpeg

import (
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
)

// FrameReader decodes a video into raw RGBA frames, one at a time. It holds
// the single decode handle a pipeline owns for a video; Close must be called
// on every exit path.
type FrameReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	buf    []byte
	closed bool
}

// OpenFrameReader starts an ffmpeg process streaming decoded frames of the
// given source dimensions on stdout.
func (e *Executor) OpenFrameReader(ctx context.Context, input string, width, height int) (*FrameReader, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", width, height)
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", input,
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start decoder: %w", err)
	}

	e.logger.Debug().
		Str("input", input).
		Int("width", width).
		Int("height", height).
		Msg("frame decoder started")

	return &FrameReader{
		cmd:    cmd,
		stdout: stdout,
		width:  width,
		height: height,
		buf:    make([]byte, width*height*4),
	}, nil
}

// ReadFrame returns the next decoded frame. It returns io.EOF once the
// stream is exhausted. The returned image is freshly allocated; callers may
// mutate it.
func (r *FrameReader) ReadFrame() (*image.RGBA, error) {
	if r.closed {
		return nil, fmt.Errorf("frame reader is closed")
	}

	n, err := io.ReadFull(r.stdout, r.buf)
	if err != nil {
		if err == io.EOF || (err == io.ErrUnexpectedEOF && n == 0) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	copy(img.Pix, r.buf)
	return img, nil
}

// Close releases the decode handle. Safe to call more than once.
func (r *FrameReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	r.stdout.Close()
	// The decoder exits with an error when its stdout is closed mid-stream;
	// that is the expected shutdown on early termination.
	if err := r.cmd.Wait(); err != nil {
		if r.cmd.ProcessState != nil && r.cmd.ProcessState.Exited() {
			return nil
		}
		return fmt.Errorf("decoder shutdown: %w", err)
	}
	return nil
}

package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"os/exec"
)

// FrameWriter encodes raw RGBA frames piped on stdin into a silent video
// stream. It is the single encode handle a pipeline owns for a video.
type FrameWriter struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	width  int
	height int
	closed bool
}

// FrameWriterOptions configures the silent stream encoder.
type FrameWriterOptions struct {
	Output   string
	Width    int
	Height   int
	FPS      float64
	Settings EncodeSettings
}

// OpenFrameWriter starts an ffmpeg process consuming raw RGBA frames on
// stdin and writing an encoded, silent video to the output path.
func (e *Executor) OpenFrameWriter(ctx context.Context, opts FrameWriterOptions) (*FrameWriter, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", opts.Width, opts.Height)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %f", opts.FPS)
	}

	s := opts.Settings.withDefaults()

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-framerate", fmt.Sprintf("%f", opts.FPS),
		"-i", "-",
		"-an",
		"-c:v", s.VideoCodec,
		"-crf", fmt.Sprintf("%d", s.CRF),
		"-preset", s.Preset,
		"-pix_fmt", "yuv420p",
		opts.Output,
	}

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	w := &FrameWriter{
		cmd:    cmd,
		width:  opts.Width,
		height: opts.Height,
	}
	cmd.Stderr = &w.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}
	w.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start encoder: %w", err)
	}

	e.logger.Debug().
		Str("output", opts.Output).
		Float64("fps", opts.FPS).
		Str("codec", s.VideoCodec).
		Msg("frame encoder started")

	return w, nil
}

// WriteFrame encodes one frame. The image must match the writer dimensions
// and have the standard stride.
func (w *FrameWriter) WriteFrame(img *image.RGBA) error {
	if w.closed {
		return fmt.Errorf("frame writer is closed")
	}

	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame is %dx%d, writer expects %dx%d",
			b.Dx(), b.Dy(), w.width, w.height)
	}
	if img.Stride != w.width*4 {
		return fmt.Errorf("unexpected frame stride %d", img.Stride)
	}

	if _, err := w.stdin.Write(img.Pix); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Close flushes the stream and waits for the encoder to finish. Safe to call
// more than once.
func (w *FrameWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder failed: %w\n%s", err, w.stderr.String())
	}
	return nil
}

// RemuxAudio copies the video stream from silentPath and the audio stream
// from sourcePath into output without re-encoding. The audio map is optional
// so audio-less sources still remux cleanly.
func (e *Executor) RemuxAudio(ctx context.Context, silentPath, sourcePath, output string) error {
	e.logger.Info().
		Str("video", silentPath).
		Str("audio_source", sourcePath).
		Str("output", output).
		Msg("remuxing audio")

	args := []string{
		"-i", silentPath,
		"-i", sourcePath,
		"-map", "0:v",
		"-map", "1:a?",
		"-c", "copy",
		output,
	}

	opts := RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("remux output")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return fmt.Errorf("audio remux failed: %w", err)
	}
	return nil
}

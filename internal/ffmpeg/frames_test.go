package ffmpeg

import (
	"context"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// makeTestVideo renders a short synthetic clip with ffmpeg itself.
func makeTestVideo(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test.mp4")
	cmd := exec.Command("ffmpeg", "-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", "testsrc=size=320x240:rate=10",
		"-t", "1", "-pix_fmt", "yuv420p", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not render test video: %v (%s)", err, out)
	}
	return path
}

func TestFrameRoundTrip(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	input := makeTestVideo(t, dir)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, "", 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	ctx := context.Background()
	reader, err := e.OpenFrameReader(ctx, input, 320, 240)
	if err != nil {
		t.Fatalf("failed to open reader: %v", err)
	}
	defer reader.Close()

	output := filepath.Join(dir, "out.mp4")
	writer, err := e.OpenFrameWriter(ctx, FrameWriterOptions{
		Output: output,
		Width:  320,
		Height: 240,
		FPS:    10,
	})
	if err != nil {
		t.Fatalf("failed to open writer: %v", err)
	}
	defer writer.Close()

	frames := 0
	for {
		img, err := reader.ReadFrame()
		if err != nil {
			break
		}
		if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 240 {
			t.Fatalf("frame %d is %dx%d, want 320x240", frames, b.Dx(), b.Dy())
		}
		if err := writer.WriteFrame(img); err != nil {
			t.Fatalf("failed to write frame %d: %v", frames, err)
		}
		frames++
	}
	if frames != 10 {
		t.Errorf("decoded %d frames from a 1s 10fps clip, want 10", frames)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("writer close failed: %v", err)
	}

	info, err := e.ProbeVideo(ctx, output)
	if err != nil {
		t.Fatalf("failed to probe output: %v", err)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("output is %dx%d, want 320x240", info.Width, info.Height)
	}
}

func TestWriteFrameRejectsWrongSize(t *testing.T) {
	skipIfNoFFmpeg(t)

	dir := t.TempDir()
	logger := zerolog.New(os.Stderr)
	e, err := New(logger, "", 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	writer, err := e.OpenFrameWriter(context.Background(), FrameWriterOptions{
		Output: filepath.Join(dir, "out.mp4"),
		Width:  320,
		Height: 240,
		FPS:    10,
	})
	if err != nil {
		t.Fatalf("failed to open writer: %v", err)
	}
	defer writer.Close()

	if err := writer.WriteFrame(image.NewRGBA(image.Rect(0, 0, 100, 100))); err == nil {
		t.Error("expected error for mismatched frame size")
	}
}

package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH - install with: brew install ffmpeg")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH - install with: brew install ffmpeg")
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, "", 4)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if e.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

// writeStubBinaries drops fake ffmpeg/ffprobe scripts into a fresh
// directory and returns it.
func writeStubBinaries(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub binaries are shell scripts")
	}
	dir := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExecutorUsesConfiguredBinaryPath(t *testing.T) {
	dir := writeStubBinaries(t, "#!/bin/sh\nexit 0\n")

	e, err := New(zerolog.Nop(), filepath.Join(dir, "ffmpeg"), 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if e.ffmpegPath != filepath.Join(dir, "ffmpeg") {
		t.Errorf("ffmpeg path = %q, want the configured binary", e.ffmpegPath)
	}
	if e.ffprobePath != filepath.Join(dir, "ffprobe") {
		t.Errorf("ffprobe path = %q, want the sibling of the configured binary", e.ffprobePath)
	}
}

func TestExecutorRejectsMissingConfiguredBinary(t *testing.T) {
	if _, err := New(zerolog.Nop(), "/nonexistent/ffmpeg", 0); err == nil {
		t.Error("expected error for a configured binary that does not exist")
	}
}

func TestRunEmitsProgressUpdates(t *testing.T) {
	dir := writeStubBinaries(t, "#!/bin/sh\nexit 0\n")
	argsFile := filepath.Join(dir, "args.txt")
	script := "#!/bin/sh\n" +
		"echo \"$@\" > " + argsFile + "\n" +
		"printf 'frame=42\\nfps=30.0\\nspeed=1.5x\\nprogress=end\\n' >&2\n"
	if err := os.WriteFile(filepath.Join(dir, "ffmpeg"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	e, err := New(zerolog.Nop(), filepath.Join(dir, "ffmpeg"), 0)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	var updates []Progress
	err = e.Run(context.Background(), RunOptions{
		Args:            []string{"-i", "in.mp4", "out.mp4"},
		ProgressHandler: func(p *Progress) { updates = append(updates, *p) },
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("stub did not record its arguments: %v", err)
	}
	if !strings.Contains(string(args), "-progress pipe:2") {
		t.Errorf("ffmpeg invoked without -progress pipe:2: %s", args)
	}

	if len(updates) != 1 {
		t.Fatalf("got %d progress updates, want 1", len(updates))
	}
	if updates[0].Frame != 42 || updates[0].Speed != "1.5x" {
		t.Errorf("unexpected progress update: %+v", updates[0])
	}
}

func TestStreamOutputParsesProgress(t *testing.T) {
	stderr := strings.Join([]string{
		"Input #0, mov,mp4,m4a,3gp,3g2,mj2, from 'input.mp4':",
		"frame=120",
		"fps=29.5",
		"speed=1.2x",
		"progress=continue",
		"frame=240",
		"fps=30.1",
		"speed=1.1x",
		"progress=end",
	}, "\n")

	e := &Executor{logger: zerolog.Nop()}

	var updates []Progress
	var logLines []string
	e.streamOutput(strings.NewReader(stderr),
		func(p *Progress) { updates = append(updates, *p) },
		func(line string) { logLines = append(logLines, line) },
	)

	if len(updates) != 2 {
		t.Fatalf("got %d progress updates, want 2", len(updates))
	}
	if updates[0].Frame != 120 || updates[0].FPS != 29.5 || updates[0].Speed != "1.2x" {
		t.Errorf("first update = %+v", updates[0])
	}
	if updates[1].Frame != 240 {
		t.Errorf("second update frame = %d, want 240", updates[1].Frame)
	}
	if len(logLines) != 9 {
		t.Errorf("log handler saw %d lines, want all 9", len(logLines))
	}
}

func TestStreamOutputIgnoresEmptyBlocks(t *testing.T) {
	e := &Executor{logger: zerolog.Nop()}

	called := false
	e.streamOutput(strings.NewReader("progress=end\n"),
		func(p *Progress) { called = true }, nil)

	if called {
		t.Error("progress handler fired for a block with no frame data")
	}
}

func TestEncodeSettingsDefaults(t *testing.T) {
	s := EncodeSettings{}.withDefaults()
	if s.VideoCodec != DefaultVideoCodec || s.AudioCodec != DefaultAudioCodec {
		t.Errorf("codec defaults not applied: %+v", s)
	}
	if s.CRF != DefaultCRF || s.Preset != DefaultPreset {
		t.Errorf("quality defaults not applied: %+v", s)
	}

	s = EncodeSettings{VideoCodec: "libx265", CRF: 28}.withDefaults()
	if s.VideoCodec != "libx265" || s.CRF != 28 {
		t.Errorf("explicit settings overridden: %+v", s)
	}
}

package ffmpeg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Executor handles all ffmpeg operations with progress streaming
type Executor struct {
	logger      zerolog.Logger
	ffmpegPath  string
	ffprobePath string
	threads     int
}

// New creates a new ffmpeg executor. binaryPath overrides PATH lookup of
// the ffmpeg binary; when it points into a directory, ffprobe is taken from
// the same directory if present.
func New(logger zerolog.Logger, binaryPath string, threads int) (*Executor, error) {
	ffmpegName := binaryPath
	if ffmpegName == "" {
		ffmpegName = "ffmpeg"
	}
	ffmpegPath, err := exec.LookPath(ffmpegName)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	ffprobeName := "ffprobe"
	if strings.ContainsRune(binaryPath, os.PathSeparator) {
		if sibling := filepath.Join(filepath.Dir(ffmpegPath), "ffprobe"); isExecutable(sibling) {
			ffprobeName = sibling
		}
	}
	ffprobePath, err := exec.LookPath(ffprobeName)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}

	return &Executor{
		logger:      logger.With().Str("component", "ffmpeg").Logger(),
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		threads:     threads,
	}, nil
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// Run executes ffmpeg with the given arguments and streams progress
func (e *Executor) Run(ctx context.Context, opts RunOptions) error {
	if len(opts.Args) == 0 {
		return fmt.Errorf("no arguments provided")
	}

	// -progress emits machine-readable key=value blocks on stderr; the log
	// stream and progress stream are parsed apart in streamOutput.
	baseArgs := []string{"-y", "-hide_banner", "-loglevel", "info", "-progress", "pipe:2"}

	if e.threads > 0 {
		baseArgs = append(baseArgs, "-threads", fmt.Sprintf("%d", e.threads))
	}

	args := append(baseArgs, opts.Args...)

	e.logger.Debug().
		Strs("args", args).
		Msg("executing ffmpeg")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.streamOutput(stderr, opts.ProgressHandler, opts.LogHandler)
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("ffmpeg execution failed: %w", err)
	}

	e.logger.Debug().Msg("ffmpeg execution completed")
	return nil
}

// streamOutput parses ffmpeg stderr and calls handlers
func (e *Executor) streamOutput(r io.Reader, progressHandler func(*Progress), logHandler func(string)) {
	scanner := bufio.NewScanner(r)
	progressData := &Progress{}

	for scanner.Scan() {
		line := scanner.Text()

		if logHandler != nil {
			logHandler(line)
		}

		switch {
		case strings.HasPrefix(line, "frame="):
			fmt.Sscanf(line, "frame=%d", &progressData.Frame)
		case strings.HasPrefix(line, "fps="):
			fmt.Sscanf(line, "fps=%f", &progressData.FPS)
		case strings.HasPrefix(line, "speed="):
			if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
				progressData.Speed = strings.TrimSpace(parts[1])
			}
		case strings.HasPrefix(line, "progress="):
			// End of a progress block
			if progressHandler != nil && progressData.Frame > 0 {
				progressHandler(progressData)
			}
			progressData = &Progress{}
		}
	}
}

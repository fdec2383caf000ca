package ffmpeg

import (
	"context"
	"fmt"
	"time"

	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

// ClipOptions defines clip extraction parameters
type ClipOptions struct {
	Start        time.Duration
	End          time.Duration
	Output       string
	CopyCodec    bool // If true, use -c copy for fast extraction
	Settings     EncodeSettings
	ProgressFunc ProgressFunc
}

// ExtractClip cuts a segment from a video
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	duration := opts.End - opts.Start
	if duration <= 0 {
		return fmt.Errorf("invalid clip duration: end must be after start")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", duration).
		Bool("copy_codec", opts.CopyCodec).
		Msg("extracting clip")

	args := []string{
		"-ss", util.FormatDuration(opts.Start),
		"-i", input,
		"-t", util.FormatDuration(duration),
	}

	if opts.CopyCodec {
		args = append(args, "-c", "copy")
	} else {
		s := opts.Settings.withDefaults()
		args = append(args,
			"-c:v", s.VideoCodec,
			"-c:a", s.AudioCodec,
			"-crf", fmt.Sprintf("%d", s.CRF),
		)
	}

	args = append(args, opts.Output)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("clip extraction")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("clip extraction complete")
	return nil
}

// RemoveSilence re-encodes audio with the silenceremove filter, dropping
// silent gaps at the start and end of speech runs. Video is stream-copied.
func (e *Executor) RemoveSilence(ctx context.Context, input, output string, thresholdDB, minDuration float64) error {
	e.logger.Info().
		Str("input", input).
		Str("output", output).
		Float64("threshold_db", thresholdDB).
		Float64("min_duration", minDuration).
		Msg("removing silent gaps")

	filter := fmt.Sprintf("silenceremove=1:0:%.1fdB:%.2f:1:%.1fdB:%.2f",
		thresholdDB, minDuration, thresholdDB, minDuration)

	args := []string{
		"-i", input,
		"-af", filter,
		"-c:v", "copy",
		output,
	}

	opts := RunOptions{
		Args: args,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("silence removal")
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		return fmt.Errorf("silence removal failed: %w", err)
	}
	return nil
}

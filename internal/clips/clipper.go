package clips

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/config"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/ffmpeg"
	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

// Clipper cuts suggestion segments out of a source video.
type Clipper struct {
	logger zerolog.Logger
	exec   *ffmpeg.Executor
	cfg    *config.Config
}

func NewClipper(logger zerolog.Logger, exec *ffmpeg.Executor, cfg *config.Config) *Clipper {
	return &Clipper{
		logger: logger.With().Str("component", "clipper").Logger(),
		exec:   exec,
		cfg:    cfg,
	}
}

// Report summarizes one ExtractAll run.
type Report struct {
	Extracted int
	Skipped   int
	Failed    int
}

// ExtractAll cuts every suggestion into outputDir. A failed suggestion is
// logged and counted without stopping the rest; existing outputs are left
// alone so interrupted runs can resume.
func (c *Clipper) ExtractAll(ctx context.Context, videoPath string, suggestions []Suggestion, outputDir string, trimSilence bool) (*Report, error) {
	if len(suggestions) == 0 {
		return nil, fmt.Errorf("no suggestions to extract")
	}
	if err := util.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	info, err := c.exec.ProbeVideo(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", videoPath, err)
	}

	report := &Report{}
	for i, s := range suggestions {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		log := c.logger.With().Int("suggestion", i+1).Str("title", s.Title).Logger()
		outPath := filepath.Join(outputDir, s.Filename())

		if util.FileExists(outPath) {
			log.Info().Str("output", outPath).Msg("clip already exists, skipping")
			report.Skipped++
			continue
		}

		if err := c.extractOne(ctx, videoPath, s, info.Duration, outPath, trimSilence); err != nil {
			log.Error().Err(err).Msg("clip extraction failed")
			report.Failed++
			continue
		}
		log.Info().Str("output", outPath).Msg("clip extracted")
		report.Extracted++
	}

	c.logger.Info().
		Int("extracted", report.Extracted).
		Int("skipped", report.Skipped).
		Int("failed", report.Failed).
		Msg("suggestion extraction complete")
	return report, nil
}

func (c *Clipper) extractOne(ctx context.Context, videoPath string, s Suggestion, videoDuration time.Duration, outPath string, trimSilence bool) error {
	start, end, err := s.Resolve(videoDuration)
	if err != nil {
		return err
	}

	opts := ffmpeg.ClipOptions{
		Start:     start,
		End:       end,
		Output:    outPath,
		CopyCodec: true,
		ProgressFunc: func(p *ffmpeg.Progress) {
			c.logger.Debug().
				Int("frame", p.Frame).
				Str("speed", p.Speed).
				Msg("extracting")
		},
	}

	if !trimSilence {
		return c.exec.ExtractClip(ctx, videoPath, opts)
	}

	// Cut first, then filter the cut. If silence removal fails the plain
	// clip is still a usable result.
	tmpPath := outPath + ".raw.mp4"
	opts.Output = tmpPath
	if err := c.exec.ExtractClip(ctx, videoPath, opts); err != nil {
		return err
	}
	defer util.CleanupFiles(tmpPath)

	err = c.exec.RemoveSilence(ctx, tmpPath, outPath,
		c.cfg.Silence.ThresholdDB, c.cfg.Silence.MinDuration)
	if err != nil {
		c.logger.Warn().Err(err).Str("output", outPath).
			Msg("silence removal failed, keeping unfiltered clip")
		return os.Rename(tmpPath, outPath)
	}
	return nil
}

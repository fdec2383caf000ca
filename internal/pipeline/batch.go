package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
}

// BatchReport summarizes one directory run.
type BatchReport struct {
	Processed int
	Failed    int
	Outputs   []string
}

// ProcessDirectory converts every video in inputDir sequentially. Subtitle
// and word-timing files are discovered by naming convention: a video named
// episode.mp4 picks up episode.srt and episode.words.json from the same
// directory. One video failing never stops its siblings.
func (p *Pipeline) ProcessDirectory(ctx context.Context, inputDir, outputDir string, seed int64) (*BatchReport, error) {
	videos, err := discoverVideos(inputDir)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("no videos found in %s", inputDir)
	}
	if err := util.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	p.logger.Info().Int("videos", len(videos)).Str("dir", inputDir).Msg("starting batch")

	report := &BatchReport{}
	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		base := util.BaseName(video)
		opts := Options{
			Input:  video,
			Output: filepath.Join(outputDir, base+"_vertical.mp4"),
			Seed:   seed,
		}
		dir := filepath.Dir(video)
		if srt := filepath.Join(dir, base+".srt"); util.FileExists(srt) {
			opts.Subtitles = srt
		}
		if words := filepath.Join(dir, base+".words.json"); util.FileExists(words) {
			opts.WordTimings = words
		}

		if err := p.Process(ctx, opts); err != nil {
			p.logger.Error().Err(err).Str("input", video).Msg("video failed, continuing batch")
			report.Failed++
			continue
		}
		report.Processed++
		report.Outputs = append(report.Outputs, opts.Output)
	}

	p.logger.Info().
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Msg("batch complete")
	return report, nil
}

func discoverVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var videos []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if videoExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			videos = append(videos, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(videos)
	return videos, nil
}

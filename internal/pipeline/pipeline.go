// Package pipeline drives per-frame vertical conversion: decode, subject
// tracking, crop, caption, encode, and the final audio remux.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/autoframe"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/caption"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/config"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/ffmpeg"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/subtitle"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/vision"
	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

// Log one progress line roughly every 10 seconds of 30fps footage.
const progressLogInterval = 300

// Options selects the inputs for one vertical conversion.
type Options struct {
	Input       string
	Output      string
	Subtitles   string // optional SRT path
	WordTimings string // optional word-level timing manifest
	Seed        int64  // zoom pacing seed; 0 seeds from the clock
}

// Pipeline converts landscape videos into vertical captioned clips.
type Pipeline struct {
	logger   zerolog.Logger
	cfg      *config.Config
	exec     *ffmpeg.Executor
	detector vision.Detector
}

func New(logger zerolog.Logger, cfg *config.Config, exec *ffmpeg.Executor, detector vision.Detector) *Pipeline {
	return &Pipeline{
		logger:   logger.With().Str("component", "pipeline").Logger(),
		cfg:      cfg,
		exec:     exec,
		detector: detector,
	}
}

// Process converts one video. The output file appears only after every
// frame has been written and the audio remux has been decided; failures
// leave no partial output behind.
func (p *Pipeline) Process(ctx context.Context, opts Options) error {
	started := time.Now()
	log := p.logger.With().Str("input", opts.Input).Logger()

	info, err := p.exec.ProbeVideo(ctx, opts.Input)
	if err != nil {
		return fmt.Errorf("failed to probe %s: %w", opts.Input, err)
	}
	log.Info().
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Dur("duration", info.Duration).
		Msg("processing video")

	timeline, err := p.loadTimeline(opts)
	if err != nil {
		return err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	controller, err := autoframe.NewController(autoframe.ControllerConfig{
		InputWidth:   info.Width,
		InputHeight:  info.Height,
		OutputWidth:  p.cfg.Output.Width,
		OutputHeight: p.cfg.Output.Height,
		Smoothing:    p.cfg.Framing.SmoothingFactor,
		MinZoom:      p.cfg.Framing.MinZoom,
		MaxZoom:      p.cfg.Framing.MaxZoom,
	}, rand.New(rand.NewSource(seed)))
	if err != nil {
		return fmt.Errorf("failed to set up framing: %w", err)
	}

	locator := autoframe.NewLocator(p.logger, p.detector, p.cfg.Framing.MinConfidence)
	compositor := autoframe.NewCompositor(p.cfg.Output.Width, p.cfg.Output.Height)

	renderer, err := p.newRenderer(info.FPS)
	if err != nil {
		return err
	}

	silentPath := opts.Output + ".video.tmp.mp4"
	defer util.CleanupFiles(silentPath)

	frames, err := p.renderFrames(ctx, opts.Input, silentPath, info, timeline, controller, locator, compositor, renderer)
	if err != nil {
		return err
	}

	if err := p.finalize(ctx, log, silentPath, opts.Input, opts.Output, info.HasAudio); err != nil {
		return err
	}

	log.Info().
		Int("frames", frames).
		Str("output", opts.Output).
		Dur("elapsed", time.Since(started)).
		Msg("video complete")
	return nil
}

// renderFrames runs the per-frame loop and produces the silent video. The
// decoder and encoder handles are released on every exit path.
func (p *Pipeline) renderFrames(
	ctx context.Context,
	input, silentPath string,
	info *ffmpeg.VideoInfo,
	timeline *subtitle.Timeline,
	controller *autoframe.Controller,
	locator *autoframe.Locator,
	compositor *autoframe.Compositor,
	renderer *caption.Renderer,
) (int, error) {
	reader, err := p.exec.OpenFrameReader(ctx, input, info.Width, info.Height)
	if err != nil {
		return 0, fmt.Errorf("failed to open decoder: %w", err)
	}
	defer reader.Close()

	writer, err := p.exec.OpenFrameWriter(ctx, ffmpeg.FrameWriterOptions{
		Output: silentPath,
		Width:  p.cfg.Output.Width,
		Height: p.cfg.Output.Height,
		FPS:    info.FPS,
		Settings: ffmpeg.EncodeSettings{
			VideoCodec: p.cfg.FFmpeg.VideoCodec,
			AudioCodec: p.cfg.FFmpeg.AudioCodec,
			CRF:        p.cfg.FFmpeg.CRF,
			Preset:     p.cfg.FFmpeg.Preset,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to open encoder: %w", err)
	}
	defer writer.Close()

	state := controller.InitialState()
	frame := 0
	for {
		if err := ctx.Err(); err != nil {
			return frame, err
		}

		img, err := reader.ReadFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return frame, fmt.Errorf("failed to decode frame %d: %w", frame, err)
		}

		t := float64(frame) / info.FPS

		pt, found := locator.Locate(img)
		var rect autoframe.Rect
		state, rect = controller.Advance(state, pt, found)

		out := compositor.Compose(img, rect)

		var entry *subtitle.Entry
		if timeline != nil {
			entry = timeline.ActiveEntry(t)
		}
		if err := renderer.Draw(out, entry, t); err != nil {
			return frame, fmt.Errorf("failed to draw caption at frame %d: %w", frame, err)
		}

		if err := writer.WriteFrame(out); err != nil {
			return frame, fmt.Errorf("failed to encode frame %d: %w", frame, err)
		}

		frame++
		if frame%progressLogInterval == 0 {
			p.logger.Debug().Int("frames", frame).Float64("timestamp", t).Msg("rendering")
		}
	}

	if err := writer.Close(); err != nil {
		return frame, fmt.Errorf("encoder failed: %w", err)
	}
	if frame == 0 {
		return 0, fmt.Errorf("no frames decoded from %s", input)
	}
	return frame, nil
}

// finalize attaches the source audio and moves the result into place. The
// remux writes to a temp path so the final name only ever holds a complete
// file. A failed remux degrades to a video-only output rather than
// discarding the rendered frames; a cancelled run propagates the
// cancellation and claims nothing.
func (p *Pipeline) finalize(ctx context.Context, log zerolog.Logger, silentPath, source, output string, hasAudio bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !hasAudio {
		return os.Rename(silentPath, output)
	}

	remuxPath := output + ".remux.tmp.mp4"
	defer util.CleanupFiles(remuxPath)

	if err := p.exec.RemuxAudio(ctx, silentPath, source, remuxPath); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Warn().Err(err).Msg("audio remux failed, keeping video-only output")
		return os.Rename(silentPath, output)
	}
	return os.Rename(remuxPath, output)
}

// loadTimeline reads the subtitle inputs, attaching word timings when a
// manifest is provided. No subtitle path means captions are skipped.
func (p *Pipeline) loadTimeline(opts Options) (*subtitle.Timeline, error) {
	if opts.Subtitles == "" {
		return nil, nil
	}
	timeline, err := subtitle.ParseSRTFile(opts.Subtitles)
	if err != nil {
		return nil, err
	}
	p.logger.Info().Int("entries", len(timeline.Entries)).Str("path", opts.Subtitles).Msg("loaded subtitles")

	if opts.WordTimings != "" {
		words, err := subtitle.ParseWordTimingsFile(opts.WordTimings)
		if err != nil {
			return nil, err
		}
		timeline.AttachWords(words)
		p.logger.Info().Int("words", len(words)).Str("path", opts.WordTimings).Msg("attached word timings")
	}
	return timeline, nil
}

func (p *Pipeline) newRenderer(fps float64) (*caption.Renderer, error) {
	highlight, err := caption.ParseHighlightStyle(p.cfg.Captions.HighlightStyle)
	if err != nil {
		return nil, err
	}
	animation, err := caption.ParseAnimationStyle(p.cfg.Captions.AnimationStyle)
	if err != nil {
		return nil, err
	}
	return caption.NewRenderer(caption.Config{
		Highlight:    highlight,
		Animation:    animation,
		MaxLines:     p.cfg.Captions.MaxLines,
		FontSize:     p.cfg.Captions.FontSize,
		MarginX:      p.cfg.Captions.MarginX,
		MarginBottom: p.cfg.Captions.MarginBottom,
		FPS:          fps,
		FrameWidth:   p.cfg.Output.Width,
		FrameHeight:  p.cfg.Output.Height,
	})
}

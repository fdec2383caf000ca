package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/clips"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/config"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/ffmpeg"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/logging"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/pipeline"
	"github.com/arguswaikhom/ai-podcast-clip-generator/internal/vision"
	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "podclip",
	Short: "podclip - podcast clip generation toolkit",
	Long:  "Converts landscape podcast footage into vertical captioned clips and extracts highlight segments from suggestion manifests.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	verticalCmd.Flags().StringVarP(&verticalOutput, "output", "o", "", "output path (default: <input>_vertical.mp4)")
	verticalCmd.Flags().StringVar(&verticalSubtitles, "subtitles", "", "SRT subtitle file (default: sibling <input>.srt if present)")
	verticalCmd.Flags().StringVar(&verticalWords, "words", "", "word timing manifest (default: sibling <input>.words.json if present)")
	verticalCmd.Flags().Int64Var(&verticalSeed, "seed", 0, "zoom pacing seed for reproducible output")

	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "output directory (default: <input dir>/vertical)")
	batchCmd.Flags().Int64Var(&batchSeed, "seed", 0, "zoom pacing seed for reproducible output")

	clipCmd.Flags().StringVarP(&clipOutput, "output", "o", "clips", "output directory")
	clipCmd.Flags().BoolVar(&clipTrimSilence, "trim-silence", false, "drop silent gaps from extracted clips")

	rootCmd.AddCommand(verticalCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(clipCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	verticalOutput    string
	verticalSubtitles string
	verticalWords     string
	verticalSeed      int64
)

var verticalCmd = &cobra.Command{
	Use:   "vertical [input video]",
	Short: "Convert a landscape video into a vertical captioned clip",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		input := args[0]

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		opts := pipeline.Options{
			Input:       input,
			Output:      verticalOutput,
			Subtitles:   verticalSubtitles,
			WordTimings: verticalWords,
			Seed:        verticalSeed,
		}
		if opts.Output == "" {
			base := util.BaseName(input)
			opts.Output = filepath.Join(filepath.Dir(input), base+"_vertical.mp4")
		}
		if opts.Subtitles == "" {
			if srt := sibling(input, ".srt"); util.FileExists(srt) {
				opts.Subtitles = srt
			}
		}
		if opts.WordTimings == "" {
			if words := sibling(input, ".words.json"); util.FileExists(words) {
				opts.WordTimings = words
			}
		}

		pipe := pipeline.New(log.Logger, cfg, exec, vision.NewSaliencyDetector())
		return pipe.Process(cmd.Context(), opts)
	},
}

var (
	batchOutput string
	batchSeed   int64
)

var batchCmd = &cobra.Command{
	Use:   "batch [input directory]",
	Short: "Convert every video in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		inputDir := args[0]

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		outputDir := batchOutput
		if outputDir == "" {
			outputDir = filepath.Join(inputDir, "vertical")
		}

		pipe := pipeline.New(log.Logger, cfg, exec, vision.NewSaliencyDetector())
		report, err := pipe.ProcessDirectory(cmd.Context(), inputDir, outputDir, batchSeed)
		if err != nil {
			return err
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d of %d videos failed", report.Failed, report.Failed+report.Processed)
		}
		return nil
	},
}

var (
	clipOutput      string
	clipTrimSilence bool
)

var clipCmd = &cobra.Command{
	Use:   "clip [input video] [suggestions file]",
	Short: "Extract highlight clips from a suggestion manifest",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		suggestions, err := clips.LoadSuggestions(args[1])
		if err != nil {
			return err
		}

		clipper := clips.NewClipper(log.Logger, exec, cfg)
		report, err := clipper.ExtractAll(cmd.Context(), args[0], suggestions, clipOutput, clipTrimSilence)
		if err != nil {
			return err
		}
		if report.Failed > 0 {
			return fmt.Errorf("%d suggestions failed", report.Failed)
		}
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [input video]",
	Short: "Show video metadata",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		info, err := exec.ProbeVideo(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File:       %s\n", info.FilePath)
		fmt.Printf("Duration:   %s\n", info.Duration)
		fmt.Printf("Resolution: %dx%d\n", info.Width, info.Height)
		fmt.Printf("FPS:        %.3f\n", info.FPS)
		fmt.Printf("Video:      %s\n", info.VideoCodec)
		if info.HasAudio {
			fmt.Printf("Audio:      %s\n", info.AudioCodec)
		} else {
			fmt.Printf("Audio:      none\n")
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the active configuration to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		path := cfgFile
		if path == "" {
			path = "config.yaml"
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func sibling(videoPath, ext string) string {
	base := util.BaseName(videoPath)
	return filepath.Join(filepath.Dir(videoPath), base+ext)
}

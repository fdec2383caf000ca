package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// Core settings
	WorkDir string `yaml:"work_dir"`
	TempDir string `yaml:"temp_dir"`

	// Output geometry for vertical clips
	Output OutputConfig `yaml:"output"`

	// Autoframing behaviour
	Framing FramingConfig `yaml:"framing"`

	// Caption rendering
	Captions CaptionConfig `yaml:"captions"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Silence removal for suggestion clips
	Silence SilenceConfig `yaml:"silence"`
}

type OutputConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type FramingConfig struct {
	SmoothingFactor float64 `yaml:"smoothing_factor"`
	MinZoom         float64 `yaml:"min_zoom"`
	MaxZoom         float64 `yaml:"max_zoom"`
	MinConfidence   float64 `yaml:"min_confidence"`
}

type CaptionConfig struct {
	HighlightStyle string  `yaml:"highlight_style"` // none, standard, bigword
	AnimationStyle string  `yaml:"animation_style"` // bounce, scale
	MaxLines       int     `yaml:"max_lines"`
	FontSize       float64 `yaml:"font_size"`
	MarginX        int     `yaml:"margin_x"`
	MarginBottom   int     `yaml:"margin_bottom"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Threads    int    `yaml:"threads"`
	Preset     string `yaml:"preset"`
	CRF        int    `yaml:"crf"`
	VideoCodec string `yaml:"video_codec"`
	AudioCodec string `yaml:"audio_codec"`
}

type SilenceConfig struct {
	ThresholdDB float64 `yaml:"threshold_db"`
	MinDuration float64 `yaml:"min_duration"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) validate() error {
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return fmt.Errorf("output dimensions must be positive, got %dx%d",
			c.Output.Width, c.Output.Height)
	}
	if c.Framing.SmoothingFactor <= 0 || c.Framing.SmoothingFactor > 1 {
		return fmt.Errorf("smoothing_factor must be in (0, 1], got %f",
			c.Framing.SmoothingFactor)
	}
	if c.Framing.MinZoom < 1 || c.Framing.MaxZoom < c.Framing.MinZoom {
		return fmt.Errorf("zoom range [%f, %f] is invalid",
			c.Framing.MinZoom, c.Framing.MaxZoom)
	}
	switch c.Captions.HighlightStyle {
	case "none", "standard", "bigword":
	default:
		return fmt.Errorf("unknown highlight style %q", c.Captions.HighlightStyle)
	}
	switch c.Captions.AnimationStyle {
	case "bounce", "scale":
	default:
		return fmt.Errorf("unknown animation style %q", c.Captions.AnimationStyle)
	}
	if c.Captions.MaxLines <= 0 {
		return fmt.Errorf("max_lines must be positive, got %d", c.Captions.MaxLines)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		WorkDir: "./work",
		TempDir: "./temp",
		Output: OutputConfig{
			Width:  1080,
			Height: 1920,
		},
		Framing: FramingConfig{
			SmoothingFactor: 0.1,
			MinZoom:         1.0,
			MaxZoom:         1.2,
			MinConfidence:   0.5,
		},
		Captions: CaptionConfig{
			HighlightStyle: "standard",
			AnimationStyle: "scale",
			MaxLines:       3,
			FontSize:       48,
			MarginX:        50,
			MarginBottom:   250,
		},
		FFmpeg: FFmpegConfig{
			BinaryPath: "ffmpeg",
			Threads:    0,
			Preset:     "medium",
			CRF:        23,
			VideoCodec: "libx264",
			AudioCodec: "aac",
		},
		Silence: SilenceConfig{
			ThresholdDB: -30.0,
			MinDuration: 0.5,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".podclip", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}

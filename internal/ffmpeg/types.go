package ffmpeg

import "time"

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	Bitrate    int64
	VideoCodec string
	HasAudio   bool
	AudioCodec string
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame int
	FPS   float64
	Speed string
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
)

// EncodeSettings holds codec parameters shared by the frame writer and the
// clip extractor.
type EncodeSettings struct {
	VideoCodec string
	AudioCodec string
	CRF        int
	Preset     string
}

func (s EncodeSettings) withDefaults() EncodeSettings {
	if s.VideoCodec == "" {
		s.VideoCodec = DefaultVideoCodec
	}
	if s.AudioCodec == "" {
		s.AudioCodec = DefaultAudioCodec
	}
	if s.CRF == 0 {
		s.CRF = DefaultCRF
	}
	if s.Preset == "" {
		s.Preset = DefaultPreset
	}
	return s
}

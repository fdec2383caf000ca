package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration converts time.Duration to ffmpeg timestamp format
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// ParseClockTime parses a clock time string in HH:MM:SS or HH:MM:SS.mmm
// form into seconds. Suggestion files use this format for segment bounds.
func ParseClockTime(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM:SS", s)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30/1")
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}

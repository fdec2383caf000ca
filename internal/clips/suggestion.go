// Package clips extracts highlight segments from a source video based on a
// suggestion manifest.
package clips

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/arguswaikhom/ai-podcast-clip-generator/pkg/util"
)

// Maximum output filename length, including the extension.
const maxClipFilename = 150

// Suggestion is one proposed highlight segment. Times are wall-clock
// positions within the source video.
type Suggestion struct {
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
	Title     string   `json:"title"`
	Hashtags  []string `json:"hashtags"`
}

// LoadSuggestions reads a suggestion manifest. Both a bare JSON array and a
// {"suggestions": [...]} wrapper are accepted.
func LoadSuggestions(path string) ([]Suggestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestions: %w", err)
	}

	var list []Suggestion
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return wrapped.Suggestions, nil
}

// Resolve converts the clock times to offsets and validates them against
// the source duration. The end time is clamped to the video length; a
// suggestion starting at or past the end of the video is rejected.
func (s *Suggestion) Resolve(videoDuration time.Duration) (start, end time.Duration, err error) {
	startSec, err := util.ParseClockTime(s.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start time %q: %w", s.StartTime, err)
	}
	endSec, err := util.ParseClockTime(s.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end time %q: %w", s.EndTime, err)
	}

	start = time.Duration(startSec * float64(time.Second))
	end = time.Duration(endSec * float64(time.Second))
	if end <= start {
		return 0, 0, fmt.Errorf("end time %q is not after start time %q", s.EndTime, s.StartTime)
	}
	if videoDuration > 0 {
		if start >= videoDuration {
			return 0, 0, fmt.Errorf("start time %q is past the end of the video", s.StartTime)
		}
		if end > videoDuration {
			end = videoDuration
		}
	}
	return start, end, nil
}

// Filename builds a filesystem-safe output name from the title and time
// span.
func (s *Suggestion) Filename() string {
	title := s.Title
	if title == "" {
		title = "clip"
	}
	raw := fmt.Sprintf("%s_%s_to_%s.mp4", title, s.StartTime, s.EndTime)
	return util.SanitizeFilename(raw, maxClipFilename)
}

package clips

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadSuggestionsBareArray(t *testing.T) {
	path := writeTempJSON(t, `[
		{"start_time": "00:01:00", "end_time": "00:02:30", "title": "Best moment", "hashtags": ["#podcast"]}
	]`)

	got, err := LoadSuggestions(path)
	if err != nil {
		t.Fatalf("LoadSuggestions failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Best moment" {
		t.Errorf("unexpected suggestions: %+v", got)
	}
}

func TestLoadSuggestionsWrapped(t *testing.T) {
	path := writeTempJSON(t, `{"suggestions": [
		{"start_time": "00:00:05", "end_time": "00:00:45", "title": "Intro"}
	]}`)

	got, err := LoadSuggestions(path)
	if err != nil {
		t.Fatalf("LoadSuggestions failed: %v", err)
	}
	if len(got) != 1 || got[0].StartTime != "00:00:05" {
		t.Errorf("unexpected suggestions: %+v", got)
	}
}

func TestLoadSuggestionsBadJSON(t *testing.T) {
	path := writeTempJSON(t, `{"suggestions": oops`)
	if _, err := LoadSuggestions(path); err == nil {
		t.Error("expected error for malformed manifest")
	}
}

func TestSuggestionResolve(t *testing.T) {
	s := Suggestion{StartTime: "00:01:00", EndTime: "00:02:30.500"}
	start, end, err := s.Resolve(10 * time.Minute)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if start != time.Minute {
		t.Errorf("start = %v, want 1m", start)
	}
	if end != 2*time.Minute+30*time.Second+500*time.Millisecond {
		t.Errorf("end = %v, want 2m30.5s", end)
	}
}

func TestSuggestionResolveClampsToVideoEnd(t *testing.T) {
	s := Suggestion{StartTime: "00:04:00", EndTime: "00:09:00"}
	_, end, err := s.Resolve(5 * time.Minute)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if end != 5*time.Minute {
		t.Errorf("end = %v, want clamp to 5m", end)
	}
}

func TestSuggestionResolveRejectsInvalid(t *testing.T) {
	cases := []Suggestion{
		{StartTime: "00:02:00", EndTime: "00:01:00"},       // inverted
		{StartTime: "bogus", EndTime: "00:01:00"},          // unparseable start
		{StartTime: "00:10:00", EndTime: "00:11:00"},       // past the video end
		{StartTime: "00:01:00", EndTime: "00:01:00"},       // zero length
	}
	for _, s := range cases {
		if _, _, err := s.Resolve(5 * time.Minute); err == nil {
			t.Errorf("Resolve(%+v) succeeded, expected error", s)
		}
	}
}

func TestSuggestionFilename(t *testing.T) {
	s := Suggestion{
		StartTime: "00:01:00",
		EndTime:   "00:02:30",
		Title:     "Why AI won't take your job?!",
	}
	name := s.Filename()

	if strings.ContainsAny(name, ":?!' ") {
		t.Errorf("filename %q contains unsafe characters", name)
	}
	if !strings.HasSuffix(name, ".mp4") {
		t.Errorf("filename %q missing extension", name)
	}
}

func TestSuggestionFilenameCapped(t *testing.T) {
	s := Suggestion{
		StartTime: "00:00:00",
		EndTime:   "00:01:00",
		Title:     strings.Repeat("verylongtitle", 30),
	}
	name := s.Filename()
	if len(name) > maxClipFilename {
		t.Errorf("filename is %d chars, cap is %d", len(name), maxClipFilename)
	}
	if !strings.HasSuffix(name, ".mp4") {
		t.Errorf("capped filename %q lost its extension", name)
	}
}

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suggestions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

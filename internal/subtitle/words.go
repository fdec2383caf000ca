package subtitle

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

type wordTimingFile struct {
	Words []struct {
		Word  string  `json:"word"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
	} `json:"words"`
}

// ParseWordTimingsFile reads a word-level timing manifest from disk.
func ParseWordTimingsFile(path string) ([]Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word timings: %w", err)
	}
	return ParseWordTimings(data)
}

// ParseWordTimings decodes the transcription tool's word manifest. Entries
// with empty text or an inverted time span are dropped.
func ParseWordTimings(data []byte) ([]Word, error) {
	var file wordTimingFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse word timings: %w", err)
	}

	words := make([]Word, 0, len(file.Words))
	for _, w := range file.Words {
		text := strings.TrimSpace(w.Word)
		if text == "" || w.End < w.Start {
			continue
		}
		words = append(words, Word{Text: text, Start: w.Start, End: w.End})
	}
	return words, nil
}

// AttachWords assigns each word to every entry whose time span it overlaps,
// endpoints inclusive. A word bridging two cues appears in both.
func (tl *Timeline) AttachWords(words []Word) {
	for i := range tl.Entries {
		e := &tl.Entries[i]
		for _, w := range words {
			if w.Start <= e.End && w.End >= e.Start {
				e.Words = append(e.Words, w)
			}
		}
	}
}

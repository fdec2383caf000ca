// Package subtitle parses SRT files and word-level timing manifests and
// answers which caption is active at a given playback time.
package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Word is a single spoken word with its time span in seconds.
type Word struct {
	Text  string
	Start float64
	End   float64
}

// Entry is one subtitle cue.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
	Words []Word
}

// Timeline holds entries in file order and resolves the active cue per
// frame timestamp.
type Timeline struct {
	Entries []Entry
}

var timecodeRe = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRTFile reads and parses an SRT file from disk.
func ParseSRTFile(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}
	return ParseSRT(string(data))
}

// ParseSRT parses SRT content. Blocks that are missing an index or a valid
// timecode line are skipped rather than failing the whole file; subtitle
// files in the wild are frequently sloppy.
func ParseSRT(content string) (*Timeline, error) {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	tl := &Timeline{}
	for _, block := range strings.Split(content, "\n\n") {
		entry, ok := parseBlock(block)
		if !ok {
			continue
		}
		tl.Entries = append(tl.Entries, entry)
	}
	return tl, nil
}

func parseBlock(block string) (Entry, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 3 {
		return Entry{}, false
	}

	index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Entry{}, false
	}

	m := timecodeRe.FindStringSubmatch(strings.TrimSpace(lines[1]))
	if m == nil {
		return Entry{}, false
	}
	start := timecodeSeconds(m[1], m[2], m[3], m[4])
	end := timecodeSeconds(m[5], m[6], m[7], m[8])
	if end < start {
		return Entry{}, false
	}

	// Multi-line cue text collapses to one line; rendering handles its own
	// wrapping against the actual frame width.
	text := strings.TrimSpace(strings.Join(lines[2:], " "))
	if text == "" {
		return Entry{}, false
	}

	return Entry{Index: index, Start: start, End: end, Text: text}, true
}

func timecodeSeconds(h, m, s, ms string) float64 {
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	ss, _ := strconv.Atoi(s)
	mss, _ := strconv.Atoi(ms)
	return float64(hh)*3600 + float64(mm)*60 + float64(ss) + float64(mss)/1000
}

// ActiveEntry returns the cue covering time t, or nil when no cue is
// active. Both endpoints are inclusive; when cues overlap, the earliest one
// in file order wins.
func (tl *Timeline) ActiveEntry(t float64) *Entry {
	for i := range tl.Entries {
		e := &tl.Entries[i]
		if t >= e.Start && t <= e.End {
			return e
		}
	}
	return nil
}

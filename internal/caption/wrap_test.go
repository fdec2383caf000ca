package caption

import (
	"reflect"
	"testing"
)

// charWidth measures every character as 10px, spaces included.
func charWidth(s string) int {
	return len(s) * 10
}

func TestWrapTextGreedy(t *testing.T) {
	// 100px fits "one two" (7 chars) and "three four" (10 chars) exactly.
	lines := wrapText("one two three four five", 100, 3, charWidth)
	want := []string{"one two", "three four", "five"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("wrapped to %v, want %v", lines, want)
	}
}

func TestWrapTextTruncatesWithEllipsis(t *testing.T) {
	lines := wrapText("one two three four five six seven", 100, 2, charWidth)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := "three ..."
	if lines[1] != want {
		t.Errorf("last line = %q, want %q", lines[1], want)
	}
}

func TestWrapTextOversizedWordGetsOwnLine(t *testing.T) {
	lines := wrapText("hi incomprehensibilities hi", 100, 3, charWidth)
	want := []string{"hi", "incomprehensibilities", "hi"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("wrapped to %v, want %v", lines, want)
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if lines := wrapText("", 100, 3, charWidth); lines != nil {
		t.Errorf("expected no lines for empty text, got %v", lines)
	}
}

func TestWrapWordsKeepsSourceIndices(t *testing.T) {
	lines := wrapWords([]string{"one", "two", "three", "four", "five"}, 100, 3, charWidth)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !reflect.DeepEqual(lines[1].indices, []int{2, 3}) {
		t.Errorf("second line indices = %v, want [2 3]", lines[1].indices)
	}
}

func TestWrapWordsEllipsisIndex(t *testing.T) {
	lines := wrapWords([]string{"one", "two", "three", "four", "five", "six", "seven"}, 100, 2, charWidth)
	last := lines[len(lines)-1]
	if last.indices[len(last.indices)-1] != ellipsisIndex {
		t.Errorf("truncated line should end with the ellipsis marker, got indices %v", last.indices)
	}
}

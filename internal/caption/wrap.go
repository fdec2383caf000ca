package caption

import "strings"

// ellipsisIndex marks the truncation token appended when text overflows the
// line cap. It never corresponds to a spoken word.
const ellipsisIndex = -1

const ellipsis = "..."

type measureFunc func(string) int

// wrappedLine is one display line. indices map each word back to its
// position in the source word slice so the renderer can locate the current
// word after wrapping.
type wrappedLine struct {
	words   []string
	indices []int
}

func (l wrappedLine) text() string {
	return strings.Join(l.words, " ")
}

// wrapWords greedily packs words into lines no wider than maxWidth pixels,
// capped at maxLines. A single word wider than maxWidth gets its own line
// and overflows. When words are dropped, the final line ends with an
// ellipsis token.
func wrapWords(words []string, maxWidth, maxLines int, measure measureFunc) []wrappedLine {
	if len(words) == 0 || maxLines <= 0 {
		return nil
	}

	var lines []wrappedLine
	var cur wrappedLine
	truncatedAt := len(words)

	for i, w := range words {
		if len(cur.words) == 0 {
			cur = wrappedLine{words: []string{w}, indices: []int{i}}
			continue
		}
		if measure(cur.text()+" "+w) <= maxWidth {
			cur.words = append(cur.words, w)
			cur.indices = append(cur.indices, i)
			continue
		}
		lines = append(lines, cur)
		if len(lines) == maxLines {
			truncatedAt = i
			cur = wrappedLine{}
			break
		}
		cur = wrappedLine{words: []string{w}, indices: []int{i}}
	}
	if len(cur.words) > 0 {
		lines = append(lines, cur)
	}

	if truncatedAt < len(words) {
		last := &lines[len(lines)-1]
		for len(last.words) > 1 && measure(last.text()+" "+ellipsis) > maxWidth {
			last.words = last.words[:len(last.words)-1]
			last.indices = last.indices[:len(last.indices)-1]
		}
		last.words = append(last.words, ellipsis)
		last.indices = append(last.indices, ellipsisIndex)
	}

	return lines
}

// wrapText is wrapWords over whitespace-split text, returning plain line
// strings.
func wrapText(text string, maxWidth, maxLines int, measure measureFunc) []string {
	lines := wrapWords(strings.Fields(text), maxWidth, maxLines, measure)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text()
	}
	return out
}

package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/clinsearch/clinsearch/internal/tokenizer"
)

// window is a half-open [start, end) byte range of an excerpt.
type window struct {
	start, end int
}

// extractExcerpts scans the text for every matched keyword's occurrences
// and cuts a symmetric character window around each one. Overlapping or
// adjacent windows are merged, and at most maxExcerpts excerpts are
// returned, ordered by position in the text.
func extractExcerpts(text string, keywords []string, width, maxExcerpts int) []string {
	if text == "" || len(keywords) == 0 || maxExcerpts < 1 {
		return []string{}
	}

	var windows []window
	for _, kw := range keywords {
		for _, pos := range tokenizer.FindOccurrences(text, kw) {
			start := pos - width
			if start < 0 {
				start = 0
			}
			end := pos + len(kw) + width
			if end > len(text) {
				end = len(text)
			}
			windows = append(windows, window{start: start, end: end})
		}
	}
	if len(windows) == 0 {
		return []string{}
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].start != windows[j].start {
			return windows[i].start < windows[j].start
		}
		return windows[i].end < windows[j].end
	})

	merged := windows[:1]
	for _, w := range windows[1:] {
		last := &merged[len(merged)-1]
		if w.start <= last.end {
			if w.end > last.end {
				last.end = w.end
			}
			continue
		}
		merged = append(merged, w)
	}

	if len(merged) > maxExcerpts {
		merged = merged[:maxExcerpts]
	}

	excerpts := make([]string, 0, len(merged))
	for _, w := range merged {
		start := alignRuneStart(text, w.start)
		end := alignRuneEnd(text, w.end)
		excerpt := strings.TrimSpace(text[start:end])
		if excerpt != "" {
			excerpts = append(excerpts, excerpt)
		}
	}
	return excerpts
}

// alignRuneStart moves a byte offset forward to the nearest rune start so
// window clamping never splits a UTF-8 sequence.
func alignRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}

// alignRuneEnd moves a byte offset backward to the nearest rune boundary.
func alignRuneEnd(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

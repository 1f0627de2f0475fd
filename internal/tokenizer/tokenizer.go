// Package tokenizer provides text normalization and case-insensitive
// keyword occurrence matching for the search core. All functions are pure
// and deterministic.
package tokenizer

import (
	"regexp"
	"strings"
)

// MinTokenLength is the default minimum length for a non-numeric token to
// survive normalization. Purely numeric tokens of any length are kept so
// ages and dosages ("74", "81") remain searchable.
const MinTokenLength = 2

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Tokenize converts a string into a slice of normalized tokens. It
// lowercases the text, splits by non-alphanumeric characters, and drops
// empty tokens and non-numeric tokens shorter than MinTokenLength.
func Tokenize(text string) []string {
	return TokenizeMin(text, MinTokenLength)
}

// TokenizeMin is Tokenize with an explicit minimum token length.
func TokenizeMin(text string, minLen int) []string {
	lowerText := strings.ToLower(text)
	split := nonAlphanumericRegex.Split(lowerText, -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s == "" {
			continue
		}
		if len(s) < minLen && !isNumeric(s) {
			continue
		}
		tokens = append(tokens, s)
	}
	return tokens
}

// CountOccurrences returns the number of non-overlapping, case-insensitive,
// whole-word occurrences of keyword in text. Multi-word keywords ("chest
// pain") match as phrases. An empty keyword never matches.
func CountOccurrences(text, keyword string) int {
	return len(FindOccurrences(text, keyword))
}

// ExtractKeywordOccurrences counts the occurrences of every keyword in the
// given set, omitting keywords that do not occur.
func ExtractKeywordOccurrences(text string, keywords []string) map[string]int {
	counts := make(map[string]int)
	for _, kw := range keywords {
		if n := CountOccurrences(text, kw); n > 0 {
			counts[kw] = n
		}
	}
	return counts
}

// FindOccurrences returns the byte offsets of every non-overlapping,
// case-insensitive, whole-word occurrence of keyword in text, in ascending
// order.
func FindOccurrences(text, keyword string) []int {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var positions []int
	for start := 0; start < len(lower); {
		idx := strings.Index(lower[start:], keyword)
		if idx < 0 {
			break
		}
		pos := start + idx
		end := pos + len(keyword)
		if isBoundary(lower, pos-1) && isBoundary(lower, end) {
			positions = append(positions, pos)
			start = end // non-overlapping
		} else {
			start = pos + 1
		}
	}
	return positions
}

// isBoundary reports whether the byte at i is a word boundary: outside the
// string or not a letter/digit.
func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	return !isWordByte(s[i])
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

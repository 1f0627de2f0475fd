// Package suggest proposes alternative keywords for queries that matched
// nothing, using Damerau-Levenshtein distance against the indexed
// vocabulary.
package suggest

import "sort"

const (
	// minWordSizeFor1Edit is the shortest query keyword eligible for
	// one-edit suggestions; shorter keywords produce too much noise.
	minWordSizeFor1Edit = 4
	// minWordSizeFor2Edits is the shortest query keyword eligible for
	// two-edit suggestions.
	minWordSizeFor2Edits = 7
	// maxSuggestionsPerKeyword caps suggestions per query keyword.
	maxSuggestionsPerKeyword = 3
)

// MaxDistance returns the edit-distance budget for a keyword based on its
// length. Very short keywords get no budget at all.
func MaxDistance(keyword string) int {
	switch n := len([]rune(keyword)); {
	case n >= minWordSizeFor2Edits:
		return 2
	case n >= minWordSizeFor1Edit:
		return 1
	default:
		return 0
	}
}

// Keywords returns up to maxSuggestionsPerKeyword indexed keywords within
// the keyword's edit-distance budget, closest first, ties broken
// alphabetically. The keyword itself is never suggested.
func Keywords(keyword string, vocabulary []string) []string {
	maxDist := MaxDistance(keyword)
	if maxDist == 0 || keyword == "" || len(vocabulary) == 0 {
		return nil
	}

	type candidate struct {
		word string
		dist int
	}
	keywordLen := len([]rune(keyword))

	var candidates []candidate
	for _, word := range vocabulary {
		if word == keyword {
			continue
		}
		// Cheap filter before the full distance computation.
		lengthDiff := len([]rune(word)) - keywordLen
		if lengthDiff < 0 {
			lengthDiff = -lengthDiff
		}
		if lengthDiff > maxDist {
			continue
		}
		dist := distanceWithLimit(keyword, word, maxDist)
		if dist > 0 && dist <= maxDist {
			candidates = append(candidates, candidate{word: word, dist: dist})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].word < candidates[j].word
	})
	if len(candidates) > maxSuggestionsPerKeyword {
		candidates = candidates[:maxSuggestionsPerKeyword]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.word
	}
	return out
}

// distanceWithLimit computes the Damerau-Levenshtein distance between a and
// b, returning maxDistance+1 as soon as the distance is known to exceed
// maxDistance. Operates on runes so multi-byte text measures correctly.
func distanceWithLimit(a, b string, maxDistance int) int {
	runesA := []rune(a)
	runesB := []rune(b)
	lenA := len(runesA)
	lenB := len(runesB)

	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return maxDistance + 1
	}
	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// Three rolling rows: transpositions look back two rows.
	prevPrevRow := make([]int, lenB+1)
	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			deletion := prevRow[j] + 1
			insertion := currRow[j-1] + 1
			substitution := prevRow[j-1] + cost
			currRow[j] = min3(deletion, insertion, substitution)

			if i > 1 && j > 1 &&
				runesA[i-1] == runesB[j-2] &&
				runesA[i-2] == runesB[j-1] {
				transposition := prevPrevRow[j-2] + cost
				if transposition < currRow[j] {
					currRow[j] = transposition
				}
			}

			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		// The row minimum never decreases, so once it exceeds the budget
		// the final distance must too.
		if minInRow > maxDistance {
			return maxDistance + 1
		}

		prevPrevRow, prevRow, currRow = prevRow, currRow, prevPrevRow
	}

	return prevRow[lenB]
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

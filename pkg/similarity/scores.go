// Package similarity provides text similarity and clustering utilities
// for grouping free-text survey responses.
package similarity

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// LevenshteinDistance returns the edit distance between a and b
// (insertions, deletions and substitutions at unit cost).
func LevenshteinDistance(a, b string) int {
	return edlib.LevenshteinDistance(a, b)
}

// CharacterSimilarity returns 1 - distance/maxLen over rune lengths,
// in [0,1]. Two empty strings are fully similar.
//
// Edit distance is O(len(a)*len(b)); callers comparing large collections
// must pre-filter (see IsFuzzyMatch) rather than invoking this pairwise.
func CharacterSimilarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 && lb == 0 {
		return 1.0
	}
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// JaccardSimilarity calculates the Jaccard similarity between two term sets.
// Returns a value between 0 (no overlap) and 1 (identical).
func JaccardSimilarity(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for term := range set1 {
		if set2[term] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

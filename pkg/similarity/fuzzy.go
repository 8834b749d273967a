package similarity

import (
	"unicode/utf8"

	"github.com/crowdsay/crowdsay/pkg/normalize"
)

const (
	// DefaultThreshold is the character-similarity threshold used when
	// clustering votes.
	DefaultThreshold = 0.7

	// jaccardThreshold applies to multi-word phrases regardless of the
	// caller-supplied threshold. Word overlap matters more than character
	// overlap once phrases grow past two tokens, so the bar is lower.
	jaccardThreshold = 0.5

	// shortPhraseMaxTokens bounds the phrase length for which edit
	// distance is still meaningful.
	shortPhraseMaxTokens = 2
)

// IsFuzzyMatch decides whether two raw strings represent the same answer.
//
// Both inputs are normalized first; identical normalized forms always match.
// Short phrases (at most two tokens each) are compared by character
// similarity against threshold, after rejecting pairs whose lengths differ
// by more than 2x. Longer phrases are compared by Jaccard overlap of their
// token sets against a fixed 0.5 threshold.
func IsFuzzyMatch(text1, text2 string, threshold float64) bool {
	n1 := normalize.Normalize(text1)
	n2 := normalize.Normalize(text2)

	if n1 == n2 {
		return true
	}

	t1 := normalize.Tokens(n1)
	t2 := normalize.Tokens(n2)

	if len(t1) <= shortPhraseMaxTokens && len(t2) <= shortPhraseMaxTokens {
		l1 := utf8.RuneCountInString(n1)
		l2 := utf8.RuneCountInString(n2)
		shorter, longer := l1, l2
		if shorter > longer {
			shorter, longer = longer, shorter
		}
		if longer > 2*shorter {
			return false
		}
		return CharacterSimilarity(n1, n2) >= threshold
	}

	set1 := make(map[string]bool, len(t1))
	for _, tok := range t1 {
		set1[tok] = true
	}
	set2 := make(map[string]bool, len(t2))
	for _, tok := range t2 {
		set2[tok] = true
	}
	return JaccardSimilarity(set1, set2) >= jaccardThreshold
}

// IsFuzzyMatchDefault is IsFuzzyMatch at DefaultThreshold.
func IsFuzzyMatchDefault(text1, text2 string) bool {
	return IsFuzzyMatch(text1, text2, DefaultThreshold)
}

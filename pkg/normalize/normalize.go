// Package normalize canonicalizes free-text survey responses for comparison.
package normalize

import (
	"strings"
	"unicode"
)

// stopwords are filler words removed before comparison. Matched as whole
// words only, after punctuation stripping.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "some": true, "bit": true,
	"of": true, "little": true, "few": true, "many": true, "much": true,
	"lot": true, "lots": true,
	"my": true, "your": true, "their": true, "his": true, "her": true,
	"its": true, "our": true,
}

// Normalize returns the canonical comparison form of a raw response:
// lowercased, punctuation stripped, whitespace collapsed, stopwords removed.
// Empty input yields an empty string. Normalize is pure and idempotent.
func Normalize(text string) string {
	return strings.Join(Tokens(text), " ")
}

// Tokens returns the normalized, non-empty word tokens of text, in order,
// with stopwords removed.
func Tokens(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			// Punctuation joins adjacent characters rather than splitting them,
			// so "don't" normalizes to "dont".
			return -1
		}
	}, text)

	words := strings.Fields(cleaned)
	tokens := words[:0]
	for _, w := range words {
		if !stopwords[w] {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// TokenSet returns the distinct normalized tokens of text as a set.
func TokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokens(text) {
		set[tok] = true
	}
	return set
}

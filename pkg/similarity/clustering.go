package similarity

import (
	"sort"
	"unicode/utf8"

	"github.com/crowdsay/crowdsay/pkg/normalize"
)

// Matcher is a pairwise predicate deciding whether two normalized answer
// keys represent the same real-world answer.
type Matcher func(key1, key2 string) bool

// AnswerGroup is one cluster of equivalent responses. Count always equals
// len(Members); Members hold the original spellings, one entry per vote.
type AnswerGroup struct {
	Canonical string
	Count     int
	Members   []string
}

// bucket collects all votes whose normalized form is identical.
type bucket struct {
	key     string   // shared normalized form
	repr    string   // shortest original spelling seen for the key
	reprLen int      // rune length of repr
	count   int
	members []string
}

// GroupSimilarAnswers collapses raw responses into canonical answers with
// vote counts, using the default fuzzy matcher. The returned map has no
// guaranteed iteration order; use RankGroups for a stable ranking.
func GroupSimilarAnswers(responses []string) map[string]int {
	return GroupSimilarAnswersWith(responses, IsFuzzyMatchDefault)
}

// GroupSimilarAnswersWith is GroupSimilarAnswers with a caller-supplied
// pairwise predicate.
func GroupSimilarAnswersWith(responses []string, match Matcher) map[string]int {
	grouped := make(map[string]int)
	for _, g := range GroupDetailedWith(responses, match) {
		grouped[g.Canonical] = g.Count
	}
	return grouped
}

// GroupDetailed clusters responses with the default fuzzy matcher and
// returns full groups including member spellings.
func GroupDetailed(responses []string) []AnswerGroup {
	return GroupDetailedWith(responses, IsFuzzyMatchDefault)
}

// GroupDetailedWith clusters responses greedily. Buckets of identical
// normalized text are merged most-frequent-first, so popular answers become
// cluster representatives instead of being absorbed into rarer clusters.
// Equal counts are ordered by shorter representative, then lexically, which
// makes the result deterministic.
func GroupDetailedWith(responses []string, match Matcher) []AnswerGroup {
	buckets := bucketize(responses)

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].count != buckets[j].count {
			return buckets[i].count > buckets[j].count
		}
		if buckets[i].reprLen != buckets[j].reprLen {
			return buckets[i].reprLen < buckets[j].reprLen
		}
		return buckets[i].repr < buckets[j].repr
	})

	used := make([]bool, len(buckets))
	groups := make([]AnswerGroup, 0, len(buckets))

	for i, b1 := range buckets {
		if used[i] {
			continue
		}
		used[i] = true

		g := AnswerGroup{Canonical: b1.repr, Count: b1.count}
		g.Members = append(g.Members, b1.members...)
		bestCount, bestLen := b1.count, b1.reprLen

		for j := i + 1; j < len(buckets); j++ {
			if used[j] {
				continue
			}
			b2 := buckets[j]
			if !match(b1.key, b2.key) {
				continue
			}
			used[j] = true
			g.Count += b2.count
			g.Members = append(g.Members, b2.members...)

			// A folded-in bucket takes over as representative when it is
			// strictly more popular, or equally popular with a strictly
			// shorter spelling. With sorted input this only matters for
			// non-transitive matchers.
			if b2.count > bestCount || (b2.count == bestCount && b2.reprLen < bestLen) {
				g.Canonical = b2.repr
				bestCount, bestLen = b2.count, b2.reprLen
			}
		}

		groups = append(groups, g)
	}

	return groups
}

// VoteMapping maps every original response spelling to the canonical answer
// of the group that absorbed it.
func VoteMapping(groups []AnswerGroup) map[string]string {
	mapping := make(map[string]string)
	for _, g := range groups {
		for _, m := range g.Members {
			mapping[m] = g.Canonical
		}
	}
	return mapping
}

// RankGroups returns a copy of groups sorted by count descending. Equal
// counts are broken by shorter canonical text, then lexical order.
func RankGroups(groups []AnswerGroup) []AnswerGroup {
	ranked := make([]AnswerGroup, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		li := utf8.RuneCountInString(ranked[i].Canonical)
		lj := utf8.RuneCountInString(ranked[j].Canonical)
		if li != lj {
			return li < lj
		}
		return ranked[i].Canonical < ranked[j].Canonical
	})
	return ranked
}

// TopGroups ranks groups and truncates to the n highest-voted.
func TopGroups(groups []AnswerGroup, n int) []AnswerGroup {
	ranked := RankGroups(groups)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func bucketize(responses []string) []*bucket {
	byKey := make(map[string]*bucket)
	var order []*bucket

	for _, raw := range responses {
		key := normalize.Normalize(raw)
		b, ok := byKey[key]
		if !ok {
			b = &bucket{key: key, repr: raw, reprLen: utf8.RuneCountInString(raw)}
			byKey[key] = b
			order = append(order, b)
		}
		b.count++
		b.members = append(b.members, raw)

		// Prefer the shortest original spelling as representative;
		// equal lengths favor the latest seen.
		if l := utf8.RuneCountInString(raw); l <= b.reprLen {
			b.repr, b.reprLen = raw, l
		}
	}

	return order
}

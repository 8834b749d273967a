// Package semantic decides answer equivalence with sentence embeddings,
// falling back to surface-level fuzzy matching when embeddings are
// unavailable.
package semantic

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/crowdsay/crowdsay/internal/embedding"
	"github.com/crowdsay/crowdsay/pkg/normalize"
	"github.com/crowdsay/crowdsay/pkg/similarity"
)

const (
	// DefaultThreshold is the cosine-similarity bar for a semantic match.
	DefaultThreshold = 0.75

	// baseWeight and relevanceWeight blend pairwise similarity with
	// question relevance. Fixed design constants.
	baseWeight      = 0.7
	relevanceWeight = 0.3

	// shortTextRunes / longTextRunes gate the cheap length pre-filter:
	// a very short text against a much longer one produces token-starved
	// embeddings, so the pair is rejected before embedding.
	shortTextRunes = 3
	longTextRunes  = 10
)

// Embedder is the embedding surface the matcher needs. *embedding.Service
// implements it.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// Options tune a single match decision.
type Options struct {
	// Threshold overrides DefaultThreshold when > 0.
	Threshold float64
	// QuestionContext, when set, blends each text's relevance to the
	// question into the similarity score.
	QuestionContext string
}

// Matcher performs embedding-based answer matching. The embedder is
// initialized lazily on first use; concurrent first callers share a single
// initialization. Pairwise scores are memoized in a bounded LRU cache.
type Matcher struct {
	factory  func() (Embedder, error)
	initOnce sync.Once
	embedder Embedder
	initErr  error

	simCache *lru.Cache[string, float64]
}

// NewMatcher creates a matcher around a lazy embedder factory. The factory
// runs at most once, on first match attempt. cacheSize bounds the pairwise
// similarity cache and must be positive (defaulted when not).
func NewMatcher(factory func() (Embedder, error), cacheSize int) *Matcher {
	if cacheSize <= 0 {
		cacheSize = 16384
	}
	// lru.New only fails for non-positive sizes, which are normalized above.
	cache, _ := lru.New[string, float64](cacheSize)
	return &Matcher{factory: factory, simCache: cache}
}

// getEmbedder initializes the shared embedder at most once. All concurrent
// callers block on the same initialization and observe the same result.
func (m *Matcher) getEmbedder() (Embedder, error) {
	m.initOnce.Do(func() {
		m.embedder, m.initErr = m.factory()
		if m.initErr != nil {
			log.Warn().Err(m.initErr).Msg("Embedder initialization failed, semantic matching disabled")
			return
		}
		log.Info().Str("model", m.embedder.Model()).Msg("Embedder initialized")
	})
	return m.embedder, m.initErr
}

// IsSemanticMatch reports whether text1 and text2 name the same answer.
// Embedding or initialization failures degrade to the fuzzy matcher at its
// default threshold rather than surfacing an error.
func (m *Matcher) IsSemanticMatch(ctx context.Context, text1, text2 string, opts Options) bool {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	score, err := m.MatchScore(ctx, text1, text2, opts)
	if err != nil {
		log.Debug().Err(err).Msg("Semantic scoring failed, using fuzzy fallback")
		return similarity.IsFuzzyMatchDefault(text1, text2)
	}
	return score >= threshold
}

// MatchScore computes the semantic similarity in [0,1] for two texts. It is
// the diagnostic entry point: unlike IsSemanticMatch it surfaces embedding
// errors instead of silently falling back.
func (m *Matcher) MatchScore(ctx context.Context, text1, text2 string, opts Options) (float64, error) {
	n1 := normalize.Normalize(text1)
	n2 := normalize.Normalize(text2)

	if n1 == n2 {
		return 1.0, nil
	}

	l1 := utf8.RuneCountInString(n1)
	l2 := utf8.RuneCountInString(n2)
	if (l1 < shortTextRunes && l2 > longTextRunes) || (l2 < shortTextRunes && l1 > longTextRunes) {
		return 0.0, nil
	}

	// The cache key is deliberately order-sensitive (t1|t2 != t2|t1),
	// matching the historical behavior; see DESIGN.md.
	cacheKey := n1 + "\x1f" + n2 + "\x1f" + opts.QuestionContext
	if score, ok := m.simCache.Get(cacheKey); ok {
		return score, nil
	}

	emb, err := m.getEmbedder()
	if err != nil {
		return 0, err
	}

	v1, err := emb.Embed(ctx, n1)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", n1, err)
	}
	v2, err := emb.Embed(ctx, n2)
	if err != nil {
		return 0, fmt.Errorf("embed %q: %w", n2, err)
	}

	score := embedding.CosineSimilarity(v1, v2)

	if opts.QuestionContext != "" {
		vq, err := emb.Embed(ctx, normalize.Normalize(opts.QuestionContext))
		if err != nil {
			return 0, fmt.Errorf("embed question context: %w", err)
		}
		toQuestion1 := embedding.CosineSimilarity(v1, vq)
		toQuestion2 := embedding.CosineSimilarity(v2, vq)

		// Texts equally relevant to the question are nudged toward being
		// the same answer.
		relevanceBoost := 1.0 - abs(toQuestion1-toQuestion2)
		score = baseWeight*score + relevanceWeight*relevanceBoost
	}

	m.simCache.Add(cacheKey, score)
	return score, nil
}

// GroupResult is the semantic clustering output: canonical answer counts
// plus a traceability mapping from each original spelling to its canonical
// answer.
type GroupResult struct {
	GroupedAnswers map[string]int    `json:"grouped_answers"`
	VoteToAnswer   map[string]string `json:"vote_to_answer"`
}

// GroupSimilarAnswers clusters responses with the semantic predicate, using
// the question context (when set) for relevance blending. Individual pair
// failures degrade to fuzzy matching inside the predicate, so clustering
// itself never fails.
func (m *Matcher) GroupSimilarAnswers(ctx context.Context, responses []string, opts Options) GroupResult {
	groups := similarity.GroupDetailedWith(responses, func(key1, key2 string) bool {
		return m.IsSemanticMatch(ctx, key1, key2, opts)
	})

	return GroupResult{
		GroupedAnswers: countsByCanonical(groups),
		VoteToAnswer:   similarity.VoteMapping(groups),
	}
}

// ResetCache drops all memoized pairwise scores. Intended for tests.
func (m *Matcher) ResetCache() {
	m.simCache.Purge()
}

func countsByCanonical(groups []similarity.AnswerGroup) map[string]int {
	counts := make(map[string]int, len(groups))
	for _, g := range groups {
		counts[g.Canonical] = g.Count
	}
	return counts
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

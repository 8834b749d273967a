// Package tally turns a question's raw votes into a persisted, ranked
// leaderboard of canonical answers.
package tally

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/crowdsay/crowdsay/internal/semantic"
	"github.com/crowdsay/crowdsay/internal/store"
	"github.com/crowdsay/crowdsay/pkg/models"
	"github.com/crowdsay/crowdsay/pkg/similarity"
)

// Service clusters votes and persists leaderboards. When a semantic matcher
// is configured it is preferred, with the question prompt as relevance
// context; otherwise clustering uses the fuzzy matcher.
type Service struct {
	questions *store.QuestionStore
	answers   *store.AnswerStore
	matcher   *semantic.Matcher // nil disables semantic clustering
	topN      int
}

// NewService creates a tally service. topN bounds the persisted leaderboard
// size (defaulted to 10 when not positive).
func NewService(questions *store.QuestionStore, answers *store.AnswerStore, matcher *semantic.Matcher, topN int) *Service {
	if topN <= 0 {
		topN = 10
	}
	return &Service{
		questions: questions,
		answers:   answers,
		matcher:   matcher,
		topN:      topN,
	}
}

// TallyQuestion clusters all votes for the question, ranks the clusters,
// persists the top-N rows, and flips the question into its guessing phase.
// A question with no votes yields an empty leaderboard, not an error.
func (s *Service) TallyQuestion(ctx context.Context, questionID string) ([]models.RankedAnswer, error) {
	question, err := s.questions.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	responses, err := s.questions.GetResponses(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("tally %s: %w", questionID, err)
	}

	groups := s.clusterVotes(ctx, question, responses)
	top := similarity.TopGroups(groups, s.topN)

	ranked := make([]models.RankedAnswer, 0, len(top))
	for i, g := range top {
		ranked = append(ranked, models.RankedAnswer{
			QuestionID: questionID,
			Rank:       i + 1,
			Answer:     g.Canonical,
			VoteCount:  g.Count,
		})
	}

	if err := s.answers.ReplaceRankedAnswers(ctx, questionID, ranked); err != nil {
		return nil, err
	}
	if err := s.questions.SetQuestionStatus(ctx, questionID, models.QuestionGuessing); err != nil {
		return nil, err
	}

	log.Info().
		Str("questionId", questionID).
		Int("votes", len(responses)).
		Int("answers", len(ranked)).
		Msg("Tallied question")

	return ranked, nil
}

func (s *Service) clusterVotes(ctx context.Context, question *models.Question, responses []string) []similarity.AnswerGroup {
	if s.matcher == nil {
		return similarity.GroupDetailed(responses)
	}
	opts := semantic.Options{QuestionContext: question.Prompt}
	return similarity.GroupDetailedWith(responses, func(key1, key2 string) bool {
		return s.matcher.IsSemanticMatch(ctx, key1, key2, opts)
	})
}

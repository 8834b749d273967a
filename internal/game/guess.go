// Package game implements guess checking and scoring against a question's
// tallied leaderboard.
package game

import (
	"math"

	"github.com/crowdsay/crowdsay/pkg/models"
	"github.com/crowdsay/crowdsay/pkg/similarity"
)

const (
	// GuessThreshold is tighter than the clustering threshold: live guesses
	// are matched against curated answers, so false positives are costlier.
	GuessThreshold = 0.85

	// GuessableAnswers is how many top answers a guess is checked against.
	GuessableAnswers = 5

	// ScoringPool is how many top answers contribute vote mass to the
	// points denominator.
	ScoringPool = 10
)

// CheckGuess matches a guess against the leaderboard in rank order and
// returns the first hit. Answers beyond GuessableAnswers are not guessable
// but still count toward poolTotal. Points are the matched answer's share of
// the top-ten vote mass, as a rounded percentage.
func CheckGuess(guess string, answers []models.RankedAnswer, poolTotal int) (models.GuessResult, bool) {
	limit := len(answers)
	if limit > GuessableAnswers {
		limit = GuessableAnswers
	}

	for _, answer := range answers[:limit] {
		if similarity.IsFuzzyMatch(guess, answer.Answer, GuessThreshold) {
			return models.GuessResult{
				Rank:   answer.Rank,
				Answer: answer.Answer,
				Points: Points(answer.VoteCount, poolTotal),
			}, true
		}
	}

	return models.GuessResult{}, false
}

// PoolTotal sums vote counts over the scoring pool (top ScoringPool answers).
func PoolTotal(answers []models.RankedAnswer) int {
	limit := len(answers)
	if limit > ScoringPool {
		limit = ScoringPool
	}
	total := 0
	for _, a := range answers[:limit] {
		total += a.VoteCount
	}
	return total
}

// Points converts a matched answer's vote count into a score: its
// percentage of the pool total, rounded half up. A zero or negative pool
// yields zero points.
func Points(voteCount, poolTotal int) int {
	if poolTotal <= 0 {
		return 0
	}
	return int(math.Floor(float64(voteCount)/float64(poolTotal)*100 + 0.5))
}

package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsay/crowdsay/pkg/models"
)

func top5() []models.RankedAnswer {
	return []models.RankedAnswer{
		{Rank: 1, Answer: "pizza", VoteCount: 40},
		{Rank: 2, Answer: "tacos", VoteCount: 30},
		{Rank: 3, Answer: "sushi", VoteCount: 15},
		{Rank: 4, Answer: "burgers", VoteCount: 10},
		{Rank: 5, Answer: "salad", VoteCount: 5},
	}
}

func TestCheckGuess_MatchesTopAnswer(t *testing.T) {
	result, ok := CheckGuess("Pizza!", top5(), 100)
	require.True(t, ok)
	assert.Equal(t, 1, result.Rank)
	assert.Equal(t, "pizza", result.Answer)
	assert.Equal(t, 40, result.Points)
}

func TestCheckGuess_NearMissSpelling(t *testing.T) {
	// "taco" vs "tacos": character similarity 0.8 < 0.85 guess threshold.
	_, ok := CheckGuess("taco", top5(), 100)
	assert.False(t, ok)

	// "burger" vs "burgers": similarity 6/7 ≈ 0.857 passes.
	result, ok := CheckGuess("burger", top5(), 100)
	require.True(t, ok)
	assert.Equal(t, 4, result.Rank)
	assert.Equal(t, 10, result.Points)
}

func TestCheckGuess_NoMatch(t *testing.T) {
	_, ok := CheckGuess("spaghetti", top5(), 100)
	assert.False(t, ok)
}

func TestCheckGuess_RankOrderFirstMatchWins(t *testing.T) {
	answers := []models.RankedAnswer{
		{Rank: 1, Answer: "running shoes", VoteCount: 50},
		{Rank: 2, Answer: "running shoe", VoteCount: 25},
	}
	result, ok := CheckGuess("running shoes", answers, 75)
	require.True(t, ok)
	assert.Equal(t, 1, result.Rank)
}

func TestCheckGuess_OnlyTopFiveGuessable(t *testing.T) {
	answers := append(top5(), models.RankedAnswer{Rank: 6, Answer: "ramen", VoteCount: 3})
	_, ok := CheckGuess("ramen", answers, 103)
	assert.False(t, ok, "rank 6 answers are not guessable")
}

func TestCheckGuess_EmptyLeaderboard(t *testing.T) {
	_, ok := CheckGuess("pizza", nil, 0)
	assert.False(t, ok)
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name      string
		voteCount int
		poolTotal int
		expected  int
	}{
		{name: "exact percentage", voteCount: 40, poolTotal: 100, expected: 40},
		{name: "rounds half up", voteCount: 1, poolTotal: 8, expected: 13}, // 12.5
		{name: "rounds down below half", voteCount: 1, poolTotal: 3, expected: 33},
		{name: "full pool", voteCount: 10, poolTotal: 10, expected: 100},
		{name: "zero pool guard", voteCount: 5, poolTotal: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Points(tt.voteCount, tt.poolTotal))
		})
	}
}

func TestPoolTotal(t *testing.T) {
	assert.Equal(t, 100, PoolTotal(top5()))

	answers := make([]models.RankedAnswer, 0, 12)
	for i := 1; i <= 12; i++ {
		answers = append(answers, models.RankedAnswer{Rank: i, Answer: "a", VoteCount: 1})
	}
	assert.Equal(t, 10, PoolTotal(answers), "only the top ten contribute vote mass")
}

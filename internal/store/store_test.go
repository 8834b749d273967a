package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsay/crowdsay/pkg/models"
)

// testStore creates a store backed by a temp-dir database.
func testStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "crowdsay-store-test-*")
	require.NoError(t, err)

	st, err := NewStore(Config{Path: filepath.Join(tmpDir, "test.db")})
	require.NoError(t, err)

	cleanup := func() {
		st.Close()
		os.RemoveAll(tmpDir)
	}
	return st, cleanup
}

func TestQuestionStore_CreateAndGet(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)
	ctx := context.Background()

	q, err := qs.CreateQuestion(ctx, "Name something you wear on your feet", "2026-08-30")
	require.NoError(t, err)
	require.NotEmpty(t, q.ID)
	assert.Equal(t, models.QuestionVoting, q.Status)

	got, err := qs.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Prompt, got.Prompt)
	assert.Equal(t, q.ActiveDate, got.ActiveDate)
}

func TestQuestionStore_GetMissing(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)

	_, err := qs.GetQuestion(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionStore_SetStatus(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)
	ctx := context.Background()

	q, err := qs.CreateQuestion(ctx, "prompt", "")
	require.NoError(t, err)

	require.NoError(t, qs.SetQuestionStatus(ctx, q.ID, models.QuestionGuessing))
	got, err := qs.GetQuestion(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestionGuessing, got.Status)

	assert.ErrorIs(t, qs.SetQuestionStatus(ctx, "nope", models.QuestionClosed), ErrNotFound)
}

func TestQuestionStore_VotesRoundTrip(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)
	ctx := context.Background()

	q, err := qs.CreateQuestion(ctx, "prompt", "")
	require.NoError(t, err)

	for _, r := range []string{"Shoes", "shoes", "Boots"} {
		_, err := qs.AddVote(ctx, q.ID, r)
		require.NoError(t, err)
	}

	responses, err := qs.GetResponses(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Shoes", "shoes", "Boots"}, responses)

	count, err := qs.CountVotes(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestAnswerStore_ReplaceAndGet(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)
	as := NewAnswerStore(st)
	ctx := context.Background()

	q, err := qs.CreateQuestion(ctx, "prompt", "")
	require.NoError(t, err)

	first := []models.RankedAnswer{
		{QuestionID: q.ID, Rank: 1, Answer: "pizza", VoteCount: 40},
		{QuestionID: q.ID, Rank: 2, Answer: "tacos", VoteCount: 30},
	}
	require.NoError(t, as.ReplaceRankedAnswers(ctx, q.ID, first))

	got, err := as.GetRankedAnswers(ctx, q.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	// Re-tally overwrites the previous leaderboard.
	second := []models.RankedAnswer{
		{QuestionID: q.ID, Rank: 1, Answer: "sushi", VoteCount: 50},
	}
	require.NoError(t, as.ReplaceRankedAnswers(ctx, q.ID, second))

	got, err = as.GetRankedAnswers(ctx, q.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestAnswerStore_GetLimit(t *testing.T) {
	st, cleanup := testStore(t)
	defer cleanup()
	qs := NewQuestionStore(st)
	as := NewAnswerStore(st)
	ctx := context.Background()

	q, err := qs.CreateQuestion(ctx, "prompt", "")
	require.NoError(t, err)

	answers := make([]models.RankedAnswer, 0, 10)
	for i := 1; i <= 10; i++ {
		answers = append(answers, models.RankedAnswer{
			QuestionID: q.ID, Rank: i, Answer: "a", VoteCount: 11 - i,
		})
	}
	require.NoError(t, as.ReplaceRankedAnswers(ctx, q.ID, answers))

	top5, err := as.GetRankedAnswers(ctx, q.ID, 5)
	require.NoError(t, err)
	require.Len(t, top5, 5)
	assert.Equal(t, 1, top5[0].Rank)
	assert.Equal(t, 5, top5[4].Rank)
}

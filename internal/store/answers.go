package store

import (
	"context"
	"fmt"

	"github.com/crowdsay/crowdsay/pkg/models"
)

// AnswerStore persists tallied leaderboards.
type AnswerStore struct {
	store *Store
}

// NewAnswerStore creates an answer store.
func NewAnswerStore(store *Store) *AnswerStore {
	return &AnswerStore{store: store}
}

// ReplaceRankedAnswers atomically swaps a question's leaderboard for the
// given ranked rows. Re-tallying a question overwrites the previous result.
func (s *AnswerStore) ReplaceRankedAnswers(ctx context.Context, questionID string, answers []models.RankedAnswer) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("replace ranked answers: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM ranked_answers WHERE question_id = ?`, questionID,
	); err != nil {
		return fmt.Errorf("replace ranked answers: clear: %w", err)
	}

	const insert = `
		INSERT INTO ranked_answers (question_id, rank, answer, vote_count)
		VALUES (?, ?, ?, ?)
	`
	for _, a := range answers {
		if _, err := tx.ExecContext(ctx, insert,
			questionID, a.Rank, a.Answer, a.VoteCount,
		); err != nil {
			return fmt.Errorf("replace ranked answers: insert rank %d: %w", a.Rank, err)
		}
	}

	return tx.Commit()
}

// GetRankedAnswers returns a question's leaderboard ordered by rank,
// truncated to limit when limit > 0.
func (s *AnswerStore) GetRankedAnswers(ctx context.Context, questionID string, limit int) ([]models.RankedAnswer, error) {
	query := `
		SELECT question_id, rank, answer, vote_count
		FROM ranked_answers
		WHERE question_id = ?
		ORDER BY rank
	`
	args := []interface{}{questionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get ranked answers: %w", err)
	}
	defer rows.Close()

	var answers []models.RankedAnswer
	for rows.Next() {
		var a models.RankedAnswer
		if err := rows.Scan(&a.QuestionID, &a.Rank, &a.Answer, &a.VoteCount); err != nil {
			return nil, err
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

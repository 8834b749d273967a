package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crowdsay/crowdsay/pkg/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// QuestionStore provides question and vote operations.
type QuestionStore struct {
	store *Store
}

// NewQuestionStore creates a question store.
func NewQuestionStore(store *Store) *QuestionStore {
	return &QuestionStore{store: store}
}

// CreateQuestion inserts a new question and returns it with a generated ID.
func (s *QuestionStore) CreateQuestion(ctx context.Context, prompt, activeDate string) (*models.Question, error) {
	q := &models.Question{
		ID:             uuid.NewString(),
		Prompt:         prompt,
		ActiveDate:     activeDate,
		Status:         models.QuestionVoting,
		CreatedAtEpoch: time.Now().UnixMilli(),
	}

	const query = `
		INSERT INTO questions (id, prompt, active_date, status, created_at_epoch)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := s.store.ExecContext(ctx, query,
		q.ID, q.Prompt, q.ActiveDate, q.Status, q.CreatedAtEpoch,
	); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// GetQuestion retrieves a question by ID.
func (s *QuestionStore) GetQuestion(ctx context.Context, id string) (*models.Question, error) {
	const query = `
		SELECT id, prompt, active_date, status, created_at_epoch
		FROM questions WHERE id = ?
	`
	var q models.Question
	err := s.store.QueryRowContext(ctx, query, id).Scan(
		&q.ID, &q.Prompt, &q.ActiveDate, &q.Status, &q.CreatedAtEpoch,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return &q, nil
}

// SetQuestionStatus transitions a question's lifecycle state.
func (s *QuestionStore) SetQuestionStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE questions SET status = ? WHERE id = ?`
	result, err := s.store.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set question status: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddVote records a raw response for a question.
func (s *QuestionStore) AddVote(ctx context.Context, questionID, response string) (*models.Vote, error) {
	v := &models.Vote{
		ID:             uuid.NewString(),
		QuestionID:     questionID,
		Response:       response,
		CreatedAtEpoch: time.Now().UnixMilli(),
	}

	const query = `
		INSERT INTO votes (id, question_id, response, created_at_epoch)
		VALUES (?, ?, ?, ?)
	`
	if _, err := s.store.ExecContext(ctx, query,
		v.ID, v.QuestionID, v.Response, v.CreatedAtEpoch,
	); err != nil {
		return nil, fmt.Errorf("add vote: %w", err)
	}
	return v, nil
}

// GetResponses returns the raw response strings for a question in
// submission order.
func (s *QuestionStore) GetResponses(ctx context.Context, questionID string) ([]string, error) {
	const query = `
		SELECT response FROM votes
		WHERE question_id = ?
		ORDER BY created_at_epoch, rowid
	`
	rows, err := s.store.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, fmt.Errorf("get responses: %w", err)
	}
	defer rows.Close()

	var responses []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		responses = append(responses, r)
	}
	return responses, rows.Err()
}

// CountVotes returns the number of votes recorded for a question.
func (s *QuestionStore) CountVotes(ctx context.Context, questionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM votes WHERE question_id = ?`
	var count int
	if err := s.store.QueryRowContext(ctx, query, questionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count votes: %w", err)
	}
	return count, nil
}

// Package models contains domain models for crowdsay.
package models

// Question is a daily survey prompt.
type Question struct {
	ID             string `db:"id" json:"id"`
	Prompt         string `db:"prompt" json:"prompt"`
	ActiveDate     string `db:"active_date" json:"active_date"`
	Status         string `db:"status" json:"status"`
	CreatedAtEpoch int64  `db:"created_at_epoch" json:"created_at_epoch"`
}

// Question statuses.
const (
	QuestionVoting   = "voting"
	QuestionGuessing = "guessing"
	QuestionClosed   = "closed"
)

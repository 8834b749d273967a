package models

// Vote is a single free-text response submitted for a question. Response is
// stored exactly as typed; normalization happens at comparison time only.
type Vote struct {
	ID             string `db:"id" json:"id"`
	QuestionID     string `db:"question_id" json:"question_id"`
	Response       string `db:"response" json:"response"`
	CreatedAtEpoch int64  `db:"created_at_epoch" json:"created_at_epoch"`
}

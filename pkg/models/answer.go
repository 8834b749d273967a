package models

// RankedAnswer is one canonical answer in a question's tallied leaderboard.
// Rank starts at 1.
type RankedAnswer struct {
	QuestionID string `db:"question_id" json:"question_id"`
	Rank       int    `db:"rank" json:"rank"`
	Answer     string `db:"answer" json:"answer"`
	VoteCount  int    `db:"vote_count" json:"vote_count"`
}

// GuessResult reports a successful guess against the leaderboard.
type GuessResult struct {
	Rank   int    `json:"rank"`
	Answer string `json:"answer"`
	Points int    `json:"points"`
}

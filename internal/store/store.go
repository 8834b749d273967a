// Package store provides SQLite persistence for crowdsay: questions, votes,
// and tallied leaderboards.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database. Safe for concurrent use; the driver
// serializes writes and WAL mode keeps readers unblocked.
type Store struct {
	db *sql.DB
}

// Config controls store initialization.
type Config struct {
	// Path to the database file. ":memory:" is accepted for tests.
	Path string
	// MaxConns bounds the connection pool.
	MaxConns int
}

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	prompt TEXT NOT NULL,
	active_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'voting',
	created_at_epoch INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS votes (
	id TEXT PRIMARY KEY,
	question_id TEXT NOT NULL REFERENCES questions(id),
	response TEXT NOT NULL,
	created_at_epoch INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_votes_question ON votes(question_id);

CREATE TABLE IF NOT EXISTS ranked_answers (
	question_id TEXT NOT NULL REFERENCES questions(id),
	rank INTEGER NOT NULL,
	answer TEXT NOT NULL,
	vote_count INTEGER NOT NULL,
	PRIMARY KEY (question_id, rank)
);
`

// NewStore opens (creating if needed) the database and applies the schema.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: database path is required")
	}
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 4
	}

	dsn := cfg.Path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}

	log.Debug().Str("path", cfg.Path).Msg("Store initialized")
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExecContext proxies to the underlying database.
func (s *Store) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

// QueryContext proxies to the underlying database.
func (s *Store) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, query, args...)
}

// QueryRowContext proxies to the underlying database.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

// BeginTx proxies to the underlying database.
func (s *Store) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

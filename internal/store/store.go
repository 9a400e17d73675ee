// Package store keeps per-session translation history in an in-process SQLite
// database. Nothing is written to disk: the database lives exactly as long as
// the Store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// HistoryEntry is one successful translation in a session.
type HistoryEntry struct {
	ID          string
	SessionID   string
	Input       string
	Output      string
	SourceCode  string
	SourceLabel string
	TargetCode  string
	TargetLabel string
	Backend     string
	CreatedAt   time.Time
}

// New opens an empty history database. An empty dsn selects the private
// in-memory database; tests may pass a file path.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each new connection to ":memory:" would see its own empty database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		source_code TEXT NOT NULL,
		source_label TEXT NOT NULL,
		target_code TEXT NOT NULL,
		target_label TEXT NOT NULL,
		backend TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_session ON history(session_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AppendHistory records e. ID and CreatedAt must be set by the caller.
func (s *Store) AppendHistory(ctx context.Context, e HistoryEntry) error {
	if e.ID == "" || e.SessionID == "" {
		return fmt.Errorf("history entry requires id and session id")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, session_id, input, output, source_code, source_label, target_code, target_label, backend, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, normalizeText(e.Input), normalizeText(e.Output),
		e.SourceCode, e.SourceLabel, e.TargetCode, e.TargetLabel, e.Backend, e.CreatedAt.UTC())
	return err
}

// RecentHistory returns up to limit entries of a session, newest first.
// limit <= 0 returns every entry.
func (s *Store) RecentHistory(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	query := `SELECT id, session_id, input, output, source_code, source_label, target_code, target_label, backend, created_at
		FROM history WHERE session_id = ? ORDER BY seq DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Input, &e.Output, &e.SourceCode, &e.SourceLabel,
			&e.TargetCode, &e.TargetLabel, &e.Backend, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneHistory deletes all but the newest keep entries of a session and
// returns the number removed.
func (s *Store) PruneHistory(ctx context.Context, sessionID string, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE session_id = ? AND seq NOT IN (
			SELECT seq FROM history WHERE session_id = ? ORDER BY seq DESC LIMIT ?
		)`,
		sessionID, sessionID, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClearHistory removes every entry of a session.
func (s *Store) ClearHistory(ctx context.Context, sessionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) CountHistory(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM history WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// visually identical history entries compare equal.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

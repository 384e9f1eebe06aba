package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/hookline/internal/models"
)

// UpsertSession inserts or fully replaces the summary row for s.ID.
// INSERT OR REPLACE keeps the operation idempotent: recomputing the same
// session twice leaves one row carrying the second run's values.
func UpsertSession(db *sql.DB, s *models.Session) error {
	err := RetryWithBackoff(func() error {
		_, execErr := db.ExecContext(context.Background(), `
			INSERT OR REPLACE INTO sessions (
				id, model, summary, tool_count, file_count, command_count, duration_seconds
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`, s.ID, s.Model, s.Summary, s.ToolCount, s.FileCount, s.CommandCount, s.DurationSeconds)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// GetSession loads one session summary row. Returns nil when absent.
func GetSession(db *sql.DB, id string) (*models.Session, error) {
	var s models.Session
	err := db.QueryRowContext(context.Background(), `
		SELECT id, duration_seconds, model, summary, tool_count, file_count, command_count
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.DurationSeconds, &s.Model, &s.Summary,
		&s.ToolCount, &s.FileCount, &s.CommandCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return &s, nil
}

// CountSessions returns the number of recorded sessions.
func CountSessions(db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

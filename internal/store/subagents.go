package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/hookline/internal/models"
)

// InsertSubagentSession appends one subagent completion row.
func InsertSubagentSession(db *sql.DB, s *models.SubagentSession) (int64, error) {
	files := s.FilesModifiedJSON
	if files == "" {
		files = "[]"
	}

	var id int64
	err := RetryWithBackoff(func() error {
		result, execErr := db.ExecContext(context.Background(), `
			INSERT INTO subagent_sessions (
				parent_session_id, subagent_type, summary, files_modified_json, file_count
			) VALUES (?, ?, ?, ?, ?)
		`, s.ParentSessionID, s.SubagentType, s.Summary, files, s.FileCount)
		if execErr != nil {
			return execErr
		}
		id, execErr = result.LastInsertId()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert subagent session: %w", err)
	}
	return id, nil
}

// CountSubagentSessions returns the number of rows for a parent session.
func CountSubagentSessions(db *sql.DB, parentSessionID string) (int, error) {
	var n int
	if err := db.QueryRowContext(context.Background(), `
		SELECT COUNT(*) FROM subagent_sessions WHERE parent_session_id = ?
	`, parentSessionID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subagent sessions: %w", err)
	}
	return n, nil
}

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dotcommander/hookline/internal/models"
)

// InsertToolCall appends one tool invocation row. Optional fields (file path,
// command, pattern, description) are stored as NULL when empty so that
// COUNT(DISTINCT file_path) and the partial file_path index behave as
// documented. The success flag is always written true: no failure path is
// observed before insertion.
func InsertToolCall(db *sql.DB, c *models.ToolCall) (int64, error) {
	params := c.ParamsJSON
	if params == "" {
		params = "{}"
	}

	var id int64
	err := RetryWithBackoff(func() error {
		result, execErr := db.ExecContext(context.Background(), `
			INSERT INTO tool_calls (
				session_id, tool_type, file_path, command, pattern, description, params_json, success
			) VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		`, c.SessionID, c.ToolType, nullable(c.FilePath), nullable(c.Command),
			nullable(c.Pattern), nullable(c.Description), params)
		if execErr != nil {
			return execErr
		}
		id, execErr = result.LastInsertId()
		return execErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert tool call: %w", err)
	}
	return id, nil
}

// SessionStats are the aggregates the session hook derives from the tool-call
// log at session end.
type SessionStats struct {
	ToolCount       int   `json:"tool_count"`
	FileCount       int   `json:"file_count"`
	CommandCount    int   `json:"command_count"`
	DurationSeconds int64 `json:"duration_seconds"`
}

// AggregateSession computes per-session statistics from the tool_calls table:
// total rows, distinct non-null file paths, Bash command rows, and the elapsed
// seconds between the earliest and latest timestamp (zero for one row or none).
func AggregateSession(db *sql.DB, sessionID string) (SessionStats, error) {
	var stats SessionStats
	ctx := context.Background()

	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tool_calls WHERE session_id = ?`, sessionID,
	).Scan(&stats.ToolCount); err != nil {
		return SessionStats{}, fmt.Errorf("count tool calls: %w", err)
	}

	if err := db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT file_path) FROM tool_calls
		WHERE session_id = ? AND file_path IS NOT NULL
	`, sessionID).Scan(&stats.FileCount); err != nil {
		return SessionStats{}, fmt.Errorf("count distinct files: %w", err)
	}

	if err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM tool_calls
		WHERE session_id = ? AND tool_type = 'Bash'
	`, sessionID).Scan(&stats.CommandCount); err != nil {
		return SessionStats{}, fmt.Errorf("count bash commands: %w", err)
	}

	// julianday returns fractional days; the difference scaled to seconds and
	// truncated matches the session summary's integer duration column.
	var duration sql.NullInt64
	if err := db.QueryRowContext(ctx, `
		SELECT CAST((julianday(MAX(timestamp)) - julianday(MIN(timestamp))) * 24 * 60 * 60 AS INTEGER)
		FROM tool_calls WHERE session_id = ?
	`, sessionID).Scan(&duration); err != nil {
		return SessionStats{}, fmt.Errorf("compute session duration: %w", err)
	}
	if duration.Valid {
		stats.DurationSeconds = duration.Int64
	}

	return stats, nil
}

// ToolTypeCount is one row of the by-tool breakdown used by the stats command.
type ToolTypeCount struct {
	ToolType string `json:"tool_type"`
	Count    int    `json:"count"`
}

// CountToolCallsByType returns tool invocation counts grouped by tool type,
// most-used first.
func CountToolCallsByType(db *sql.DB) ([]ToolTypeCount, error) {
	rows, err := db.QueryContext(context.Background(), `
		SELECT tool_type, COUNT(*) AS n
		FROM tool_calls
		GROUP BY tool_type
		ORDER BY n DESC, tool_type ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("count tool calls by type: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []ToolTypeCount
	for rows.Next() {
		var c ToolTypeCount
		if err := rows.Scan(&c.ToolType, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TopFiles returns the most frequently touched non-null file paths.
func TopFiles(db *sql.DB, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.QueryContext(context.Background(), `
		SELECT file_path
		FROM tool_calls
		WHERE file_path IS NOT NULL
		GROUP BY file_path
		ORDER BY COUNT(*) DESC, file_path ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

package store

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/hookline/internal/models"
)

func setupToolCallsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "tool_calls.db"), ToolCallsMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertToolCall_OneRowPerInvocation(t *testing.T) {
	db := setupToolCallsDB(t)

	for i := 0; i < 7; i++ {
		_, err := InsertToolCall(db, &models.ToolCall{
			SessionID:  "s1",
			ToolType:   "Read",
			FilePath:   fmt.Sprintf("/tmp/file%d.go", i%3),
			ParamsJSON: `{"file_path":"x"}`,
		})
		require.NoError(t, err)
	}

	stats, err := AggregateSession(db, "s1")
	require.NoError(t, err)
	require.Equal(t, 7, stats.ToolCount)
	require.Equal(t, 3, stats.FileCount)
}

func TestInsertToolCall_OptionalFieldsStoredAsNull(t *testing.T) {
	db := setupToolCallsDB(t)

	id, err := InsertToolCall(db, &models.ToolCall{SessionID: "s1", ToolType: "Bash", Command: "ls"})
	require.NoError(t, err)

	var filePath, pattern, description sql.NullString
	var params string
	var success bool
	err = db.QueryRow(`
		SELECT file_path, pattern, description, params_json, success
		FROM tool_calls WHERE id = ?
	`, id).Scan(&filePath, &pattern, &description, &params, &success)
	require.NoError(t, err)
	require.False(t, filePath.Valid)
	require.False(t, pattern.Valid)
	require.False(t, description.Valid)
	require.Equal(t, "{}", params)
	require.True(t, success)
}

func TestAggregateSession_Stats(t *testing.T) {
	db := setupToolCallsDB(t)

	// 5 rows for session S: 3 Bash, 2 distinct file paths, 42 s span.
	rows := []models.ToolCall{
		{SessionID: "S", ToolType: "Bash", Command: "ls"},
		{SessionID: "S", ToolType: "Bash", Command: "pwd"},
		{SessionID: "S", ToolType: "Bash", Command: "make"},
		{SessionID: "S", ToolType: "Edit", FilePath: "/tmp/a.go"},
		{SessionID: "S", ToolType: "Write", FilePath: "/tmp/b.go"},
	}
	for i := range rows {
		_, err := InsertToolCall(db, &rows[i])
		require.NoError(t, err)
	}
	// Rows for another session must not bleed into S's aggregates.
	_, err := InsertToolCall(db, &models.ToolCall{SessionID: "other", ToolType: "Bash"})
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE tool_calls SET timestamp = '2024-01-01 10:00:42' WHERE session_id = 'S'`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE tool_calls SET timestamp = '2024-01-01 10:00:00' WHERE session_id = 'S' AND command = 'ls'`)
	require.NoError(t, err)

	stats, err := AggregateSession(db, "S")
	require.NoError(t, err)
	require.Equal(t, 5, stats.ToolCount)
	require.Equal(t, 3, stats.CommandCount)
	require.Equal(t, 2, stats.FileCount)
	require.Equal(t, int64(42), stats.DurationSeconds)
}

func TestAggregateSession_Empty(t *testing.T) {
	db := setupToolCallsDB(t)

	stats, err := AggregateSession(db, "missing")
	require.NoError(t, err)
	require.Zero(t, stats.ToolCount)
	require.Zero(t, stats.FileCount)
	require.Zero(t, stats.CommandCount)
	require.Zero(t, stats.DurationSeconds)
}

func TestCountToolCallsByType(t *testing.T) {
	db := setupToolCallsDB(t)

	for _, tool := range []string{"Bash", "Bash", "Edit"} {
		_, err := InsertToolCall(db, &models.ToolCall{SessionID: "s", ToolType: tool})
		require.NoError(t, err)
	}

	counts, err := CountToolCallsByType(db)
	require.NoError(t, err)
	require.Equal(t, []ToolTypeCount{{"Bash", 2}, {"Edit", 1}}, counts)
}

func TestTopFiles(t *testing.T) {
	db := setupToolCallsDB(t)

	for _, f := range []string{"/a", "/a", "/b"} {
		_, err := InsertToolCall(db, &models.ToolCall{SessionID: "s", ToolType: "Edit", FilePath: f})
		require.NoError(t, err)
	}
	_, err := InsertToolCall(db, &models.ToolCall{SessionID: "s", ToolType: "Bash"})
	require.NoError(t, err)

	files, err := TopFiles(db, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"/a", "/b"}, files)
}

package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dotcommander/hookline/internal/models"
)

func setupSubagentsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "subagent_sessions.db"), SubagentsMigrations)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertSubagentSession(t *testing.T) {
	db := setupSubagentsDB(t)

	id, err := InsertSubagentSession(db, &models.SubagentSession{
		ParentSessionID:   "S",
		SubagentType:      "reviewer",
		Summary:           "reviewed the diff",
		FilesModifiedJSON: `["a.go","b.go"]`,
		FileCount:         2,
	})
	require.NoError(t, err)
	require.Positive(t, id)

	var filesJSON string
	var fileCount int
	err = db.QueryRow(`SELECT files_modified_json, file_count FROM subagent_sessions WHERE id = ?`, id).
		Scan(&filesJSON, &fileCount)
	require.NoError(t, err)
	require.JSONEq(t, `["a.go","b.go"]`, filesJSON)
	require.Equal(t, 2, fileCount)
}

func TestInsertSubagentSession_EmptyFilesDefaultsToEmptyList(t *testing.T) {
	db := setupSubagentsDB(t)

	id, err := InsertSubagentSession(db, &models.SubagentSession{
		ParentSessionID: "S",
		SubagentType:    "unknown",
	})
	require.NoError(t, err)

	var filesJSON string
	err = db.QueryRow(`SELECT files_modified_json FROM subagent_sessions WHERE id = ?`, id).Scan(&filesJSON)
	require.NoError(t, err)
	require.Equal(t, "[]", filesJSON)
}

func TestCountSubagentSessions_ScopedToParent(t *testing.T) {
	db := setupSubagentsDB(t)

	for _, parent := range []string{"S", "S", "T"} {
		_, err := InsertSubagentSession(db, &models.SubagentSession{
			ParentSessionID: parent,
			SubagentType:    "worker",
		})
		require.NoError(t, err)
	}

	n, err := CountSubagentSessions(db, "S")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

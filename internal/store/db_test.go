package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDB_CreatesToolCallsSchema(t *testing.T) {
	testDBPath := filepath.Join(t.TempDir(), "tool_calls.db")

	db, err := OpenDB(testDBPath, ToolCallsMigrations)
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	if _, statErr := os.Stat(testDBPath); os.IsNotExist(statErr) {
		t.Fatalf("Database file was not created at %s", testDBPath)
	}

	var name string
	if scanErr := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='tool_calls'").Scan(&name); scanErr != nil {
		t.Errorf("Table tool_calls was not created: %v", scanErr)
	}

	// Verify the four indexes, including the partial file_path index
	indexes := []string{"idx_session", "idx_timestamp", "idx_tool_type", "idx_file_path"}
	for _, idx := range indexes {
		var idxName string
		if scanErr := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&idxName); scanErr != nil {
			t.Errorf("Index %s was not created: %v", idx, scanErr)
		}
	}

	// Verify WAL mode is enabled
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("Failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode=wal, got %s", journalMode)
	}
}

func TestOpenDB_ReopenIsIdempotent(t *testing.T) {
	testDBPath := filepath.Join(t.TempDir(), "sessions.db")

	db, err := OpenDB(testDBPath, SessionsMigrations)
	if err != nil {
		t.Fatalf("first OpenDB failed: %v", err)
	}
	db.Close()

	// Re-opening runs migrations again; already-applied versions are a no-op.
	db, err = OpenDB(testDBPath, SessionsMigrations)
	if err != nil {
		t.Fatalf("second OpenDB failed: %v", err)
	}
	defer db.Close()

	var name string
	if err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='sessions'").Scan(&name); err != nil {
		t.Errorf("sessions table missing after reopen: %v", err)
	}
}

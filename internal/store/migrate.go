package store

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/toolcalls/*.sql migrations/sessions/*.sql migrations/subagents/*.sql
var embedMigrations embed.FS

// Per-store migration directories inside embedMigrations. Each analytics
// database carries its own goose version table, so the three stores migrate
// independently.
const (
	ToolCallsMigrations = "migrations/toolcalls"
	SessionsMigrations  = "migrations/sessions"
	SubagentsMigrations = "migrations/subagents"
)

// MigrateDB runs all pending migrations for migrationsDir with a file lock to
// prevent concurrent migration races. Overlapping hook processes routinely
// open the same store within milliseconds of each other. For in-memory
// databases (tests), the lock is skipped.
func MigrateDB(db *sql.DB, dbPath, migrationsDir string) error {
	if !strings.Contains(dbPath, ":memory:") {
		lockF, err := lockFile(dbPath)
		if err != nil {
			return fmt.Errorf("migration lock: %w", err)
		}
		defer unlockFile(lockF)
	}
	return runMigrations(db, migrationsDir)
}

// runMigrations runs all pending migrations using goose.
func runMigrations(db *sql.DB, migrationsDir string) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetVerbose(false) // Suppress migration logs; hook stdout is a JSON protocol
	goose.SetLogger(goose.NopLogger())

	// goose uses "sqlite3" as its dialect name regardless of the underlying driver.
	// We use modernc.org/sqlite (registered as "sqlite"), but goose's dialect
	// controls SQL generation, not the driver name.
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}

	return goose.Up(db, migrationsDir)
}

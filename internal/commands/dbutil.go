package commands

import (
	"database/sql"

	"github.com/dotcommander/hookline/internal/store"
)

// DB is an alias so command code doesn't need to import database/sql.
type DB = sql.DB

// openStore resolves a database path and opens it with migrations applied.
// pathFn is one of the app.*DBPath resolvers.
func openStore(pathFn func() (string, error), migrationsDir string) (*DB, func(), error) {
	dbPath, err := pathFn()
	if err != nil {
		return nil, nil, err
	}

	db, err := store.OpenDB(dbPath, migrationsDir)
	if err != nil {
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

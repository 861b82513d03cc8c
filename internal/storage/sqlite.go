package storage

import (
	"database/sql"
	"fmt"

	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	sqlStore
}

// OpenSQLite opens (or creates) the database file and applies the embedded migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	driver, err := sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migration driver: %w", err)
	}
	if err := runMigrations("sqlite", "sqlite", driver); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{sqlStore{
		db:  db,
		get: `SELECT value FROM local_storage WHERE name = ?`,
		upsert: `INSERT INTO local_storage (name, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		delete: `DELETE FROM local_storage WHERE name = ?`,
	}}, nil
}

// Package storage opens the local SQLite database, applies migrations and
// wires up the repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avetrovs/notesync/internal/migrations"
	"github.com/avetrovs/notesync/internal/repositories/conflicts"
	"github.com/avetrovs/notesync/internal/repositories/metadata"
	"github.com/avetrovs/notesync/internal/repositories/notes"
	"github.com/avetrovs/notesync/internal/repositories/remote"
)

// Repositories bundles the stores backed by one local database.
type Repositories struct {
	DB        *sql.DB
	Notes     notes.Repository
	Remote    remote.Repository
	Conflicts conflicts.Repository
	Metadata  metadata.Repository
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the database at dsn, migrates it and
// returns the repository set. The returned remote repository is the local
// SQLite mirror; a network-backed remote can be substituted by the caller.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repositories{
		DB:        db,
		Notes:     notes.NewSQLiteRepository(db),
		Remote:    remote.NewSQLiteRepository(db),
		Conflicts: conflicts.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
	}, nil
}

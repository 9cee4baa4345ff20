package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/dbx"
	"github.com/avetrovs/notesync/internal/models"
)

// SQLiteRepository keeps the remote snapshot in a local mirror table,
// one JSON payload per note. It takes *sql.DB (not DBTX) because
// ReplaceAll must run inside its own transaction.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a SQLiteRepository over the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns a single note from the snapshot.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM sync_cloud_notes WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get remote note: %w", err)
	}

	var n models.Note
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("failed to decode remote note: %w", err)
	}
	return &n, nil
}

// GetAll returns the entire snapshot.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT payload FROM sync_cloud_notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select remote notes: %w", err)
	}
	defer rows.Close()

	var result []models.Note
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var n models.Note
		if err := json.Unmarshal(payload, &n); err != nil {
			return nil, fmt.Errorf("failed to decode remote note: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Put upserts a single note into the snapshot.
func (r *SQLiteRepository) Put(ctx context.Context, n *models.Note) error {
	return putNote(ctx, r.db, n)
}

// ReplaceAll swaps the whole snapshot in one transaction so concurrent
// readers see either the old or the new state, never a mix.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, snapshot []models.Note) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sync_cloud_notes`); err != nil {
			return fmt.Errorf("failed to clear remote snapshot: %w", err)
		}
		for i := range snapshot {
			if err := putNote(ctx, tx, &snapshot[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes one note from the snapshot; absent ids are not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_cloud_notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete remote note: %w", err)
	}
	return nil
}

// Clear removes the whole snapshot.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_cloud_notes`); err != nil {
		return fmt.Errorf("failed to clear remote snapshot: %w", err)
	}
	return nil
}

func putNote(ctx context.Context, db dbx.DBTX, n *models.Note) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode remote note: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO sync_cloud_notes (id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, n.ID, payload, n.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to upsert remote note: %w", err)
	}
	return nil
}

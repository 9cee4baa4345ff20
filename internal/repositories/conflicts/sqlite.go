package conflicts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/avetrovs/notesync/internal/dbx"
	"github.com/avetrovs/notesync/internal/models"
)

// SQLiteRepository implements Repository over a DBTX. Each queue entry is
// one row keyed by note id with the full conflict serialized as JSON, so
// both diverged snapshots survive a restart intact.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add enqueues a conflict, replacing any earlier entry for the same note.
func (r *SQLiteRepository) Add(ctx context.Context, c *models.SyncConflict) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode conflict: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sync_conflicts (note_id, payload, detected_at) VALUES (?, ?, ?)
		ON CONFLICT(note_id) DO UPDATE SET payload = excluded.payload, detected_at = excluded.detected_at
	`, c.NoteID, payload, c.DetectedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to enqueue conflict: %w", err)
	}
	return nil
}

// GetAll returns queued conflicts ordered by detection time.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.SyncConflict, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT payload FROM sync_conflicts ORDER BY detected_at, note_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select conflicts: %w", err)
	}
	defer rows.Close()

	var result []models.SyncConflict
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var c models.SyncConflict
		if err := json.Unmarshal(payload, &c); err != nil {
			return nil, fmt.Errorf("failed to decode conflict: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveByNoteID drops the entry for a note; absent entries are ignored.
func (r *SQLiteRepository) RemoveByNoteID(ctx context.Context, noteID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sync_conflicts WHERE note_id = ?`, noteID)
	if err != nil {
		return fmt.Errorf("failed to remove conflict: %w", err)
	}
	return nil
}

// Count returns the queue length.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_conflicts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count conflicts: %w", err)
	}
	return n, nil
}

// Clear empties the queue.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sync_conflicts`); err != nil {
		return fmt.Errorf("failed to clear conflicts: %w", err)
	}
	return nil
}

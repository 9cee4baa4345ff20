package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/dbx"
	"github.com/avetrovs/notesync/internal/models"
)

const noteColumns = `id, title, content, tags, created_at, updated_at, deleted_at,
	version, word_count, sync_status, last_synced_at, local_version, remote_version`

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// CreateOrUpdate upserts a note by id. On conflict every mutable column is
// replaced with the incoming value.
func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, n *models.Note) error {
	tags, err := encodeTags(n.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	query := `INSERT INTO notes (` + noteColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			version = excluded.version,
			word_count = excluded.word_count,
			sync_status = excluded.sync_status,
			last_synced_at = excluded.last_synced_at,
			local_version = excluded.local_version,
			remote_version = excluded.remote_version
	`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Content, tags,
		n.CreatedAt.UnixNano(), n.UpdatedAt.UnixNano(), encodeNullTime(n.DeletedAt),
		n.Version, n.WordCount, string(n.SyncStatus), encodeNullTime(n.LastSyncedAt),
		n.LocalVersion, n.RemoteVersion)
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

// Get returns a single note by id, tombstones included.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	n, err := scanNote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return n, nil
}

// GetAll lists every note including tombstones.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Note, error) {
	return r.selectNotes(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY created_at`)
}

// List lists active notes only.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Note, error) {
	return r.selectNotes(ctx, `SELECT `+noteColumns+` FROM notes WHERE deleted_at IS NULL ORDER BY created_at`)
}

func (r *SQLiteRepository) selectNotes(ctx context.Context, query string) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	var result []models.Note
	for rows.Next() {
		n, err := scanNote(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete soft-deletes a note by stamping deleted_at. It expects exactly one
// live row to be affected.
func (r *SQLiteRepository) Delete(ctx context.Context, id string, now time.Time) error {
	query := `UPDATE notes SET deleted_at = ?, updated_at = ?, version = version + 1, sync_status = ?
		WHERE id = ? AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, now.UnixNano(), now.UnixNano(), string(models.SyncStatusPending), id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra != 1 {
		return common.ErrNotFound
	}
	return nil
}

// Purge removes a note row permanently.
func (r *SQLiteRepository) Purge(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to purge note: %w", err)
	}
	return nil
}

// PurgeDeletedBefore removes tombstones deleted strictly before cutoff.
func (r *SQLiteRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notes WHERE deleted_at IS NOT NULL AND deleted_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired notes: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(ra), nil
}

// Clear removes every note.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to clear notes: %w", err)
	}
	return nil
}

func scanNote(scan func(dest ...any) error) (*models.Note, error) {
	var (
		n            models.Note
		tags         string
		status       string
		createdAt    int64
		updatedAt    int64
		deletedAt    sql.NullInt64
		lastSyncedAt sql.NullInt64
	)
	err := scan(&n.ID, &n.Title, &n.Content, &tags, &createdAt, &updatedAt, &deletedAt,
		&n.Version, &n.WordCount, &status, &lastSyncedAt, &n.LocalVersion, &n.RemoteVersion)
	if err != nil {
		return nil, err
	}
	n.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	n.SyncStatus = models.SyncStatus(status)
	n.CreatedAt = time.Unix(0, createdAt).UTC()
	n.UpdatedAt = time.Unix(0, updatedAt).UTC()
	n.DeletedAt = decodeNullTime(deletedAt)
	n.LastSyncedAt = decodeNullTime(lastSyncedAt)
	return &n, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		return "[]", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func encodeNullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func decodeNullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64).UTC()
	return &t
}

package notes

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE notes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '[]',
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  deleted_at INTEGER,
  version INTEGER NOT NULL DEFAULT 1,
  word_count INTEGER NOT NULL DEFAULT 0,
  sync_status TEXT NOT NULL DEFAULT 'pending',
  last_synced_at INTEGER,
  local_version INTEGER NOT NULL DEFAULT 0,
  remote_version INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func sampleNote(id string, now time.Time) *models.Note {
	return &models.Note{
		ID:         id,
		Title:      "title-" + id,
		Content:    "some note text",
		Tags:       []string{"work", "todo"},
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
		WordCount:  3,
		SyncStatus: models.SyncStatusPending,
	}
}

func TestCreateOrUpdate_InsertThenGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	n := sampleNote("n1", now)
	require.NoError(t, r.CreateOrUpdate(ctx, n))

	got, err := r.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, n.Title, got.Title)
	assert.Equal(t, n.Content, got.Content)
	assert.Equal(t, []string{"work", "todo"}, got.Tags)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, models.SyncStatusPending, got.SyncStatus)
	assert.Nil(t, got.DeletedAt)
	assert.Nil(t, got.LastSyncedAt)
}

func TestCreateOrUpdate_Upsert(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	n := sampleNote("n1", now)
	require.NoError(t, r.CreateOrUpdate(ctx, n))

	synced := now.Add(time.Minute)
	n.Title = "renamed"
	n.Version = 2
	n.SyncStatus = models.SyncStatusSynced
	n.LastSyncedAt = &synced
	n.LocalVersion = 1
	n.RemoteVersion = 1
	require.NoError(t, r.CreateOrUpdate(ctx, n))

	got, err := r.Get(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, models.SyncStatusSynced, got.SyncStatus)
	require.NotNil(t, got.LastSyncedAt)
	assert.Equal(t, synced, *got.LastSyncedAt)
	assert.Equal(t, int64(1), got.LocalVersion)
	assert.Equal(t, int64(1), got.RemoteVersion)
}

func TestGet_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_ExcludesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("a", now)))
	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("b", now.Add(time.Second))))
	require.NoError(t, r.Delete(ctx, "a", now.Add(time.Minute)))

	active, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].ID)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDelete_SoftDeleteStampsTombstone(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("a", now)))

	del := now.Add(time.Hour)
	require.NoError(t, r.Delete(ctx, "a", del))

	got, err := r.Get(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got.DeletedAt)
	assert.Equal(t, del, *got.DeletedAt)
	assert.Equal(t, del, got.UpdatedAt)
	assert.Equal(t, int64(2), got.Version)

	// deleting an already-deleted or absent note reports not found
	assert.ErrorIs(t, r.Delete(ctx, "a", del), common.ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, "zz", del), common.ErrNotFound)
}

func TestPurgeDeletedBefore(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	old := sampleNote("old", now)
	oldDel := now.Add(-31 * 24 * time.Hour)
	old.DeletedAt = &oldDel
	require.NoError(t, r.CreateOrUpdate(ctx, old))

	recent := sampleNote("recent", now)
	recentDel := now.Add(-24 * time.Hour)
	recent.DeletedAt = &recentDel
	require.NoError(t, r.CreateOrUpdate(ctx, recent))

	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("live", now)))

	cutoff := now.Add(-30 * 24 * time.Hour)
	purged, err := r.PurgeDeletedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = r.Get(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// repeat sweep is a no-op
	purged, err = r.PurgeDeletedBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, purged)

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPurge_RemovesRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("a", time.Now().UTC())))
	require.NoError(t, r.Purge(ctx, "a"))

	_, err := r.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("a", time.Now().UTC())))
	require.NoError(t, r.CreateOrUpdate(ctx, sampleNote("b", time.Now().UTC())))
	require.NoError(t, r.Clear(ctx))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

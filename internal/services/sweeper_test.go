package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/models"
	"github.com/avetrovs/notesync/internal/monitoring"
	"github.com/avetrovs/notesync/internal/repositories/notes"
)

func setupSweeper(t *testing.T) (*Sweeper, *notes.SQLiteRepository) {
	t.Helper()
	repo := notes.NewSQLiteRepository(setupDB(t))
	s := NewSweeper(repo, monitoring.Nop{}, 0)
	s.now = func() time.Time { return now }
	return s, repo
}

func deletedNote(id string, deletedAt time.Time) *models.Note {
	n := note(id, deletedAt, nil)
	n.DeletedAt = &deletedAt
	return &n
}

func TestCleanupDeletedNotes(t *testing.T) {
	s, repo := setupSweeper(t)
	ctx := context.Background()

	expired := now.Add(-31 * 24 * time.Hour)
	recent := now.Add(-24 * time.Hour)

	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("old", expired)))
	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("fresh", recent)))
	active := note("active", t1, nil)
	require.NoError(t, repo.CreateOrUpdate(ctx, &active))

	purged, err := s.CleanupDeletedNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = repo.Get(ctx, "old")
	assert.ErrorIs(t, err, common.ErrNotFound)

	remaining, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestCleanupDeletedNotes_ExactlyAtCutoffIsRetained(t *testing.T) {
	s, repo := setupSweeper(t)
	ctx := context.Background()

	atCutoff := now.Add(-DefaultRetention)
	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("edge", atCutoff)))

	purged, err := s.CleanupDeletedNotes(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestCleanupDeletedNotes_SecondSweepIsIdempotent(t *testing.T) {
	s, repo := setupSweeper(t)
	ctx := context.Background()

	expired := now.Add(-31 * 24 * time.Hour)
	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("old", expired)))

	purged, err := s.CleanupDeletedNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	purged, err = s.CleanupDeletedNotes(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestCleanupDeletedNotes_CustomRetention(t *testing.T) {
	repo := notes.NewSQLiteRepository(setupDB(t))
	s := NewSweeper(repo, monitoring.Nop{}, 7*24*time.Hour)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("week-old", now.Add(-8*24*time.Hour))))
	require.NoError(t, repo.CreateOrUpdate(ctx, deletedNote("fresh", now.Add(-24*time.Hour))))

	purged, err := s.CleanupDeletedNotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

type failingNotes struct {
	notes.Repository
	err error
}

func (f *failingNotes) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, f.err
}

func TestCleanupDeletedNotes_RepositoryErrorIsPropagated(t *testing.T) {
	repoErr := errors.New("database is locked")
	s := NewSweeper(&failingNotes{err: repoErr}, monitoring.Nop{}, 0)
	s.now = func() time.Time { return now }

	purged, err := s.CleanupDeletedNotes(context.Background())
	assert.Zero(t, purged)
	assert.ErrorIs(t, err, repoErr)
}

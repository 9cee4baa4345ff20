package metadata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_LoadDefaults(t *testing.T) {
	s := NewStore(NewSQLiteRepository(setupDB(t)))

	md, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, md.LastSyncTime)
	assert.True(t, md.SyncEnabled)
	assert.Zero(t, md.PendingSyncCount)
	assert.Zero(t, md.ConflictCount)
}

func TestStore_RoundTrip(t *testing.T) {
	s := NewStore(NewSQLiteRepository(setupDB(t)))
	ctx := context.Background()

	now := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	require.NoError(t, s.SetLastSyncTime(ctx, now))
	require.NoError(t, s.SetSyncEnabled(ctx, false))
	require.NoError(t, s.SetPendingSyncCount(ctx, 5))
	require.NoError(t, s.SetConflictCount(ctx, 2))

	md, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, md.LastSyncTime)
	assert.Equal(t, now, *md.LastSyncTime)
	assert.False(t, md.SyncEnabled)
	assert.Equal(t, 5, md.PendingSyncCount)
	assert.Equal(t, 2, md.ConflictCount)
}

func TestStore_Overwrite(t *testing.T) {
	s := NewStore(NewSQLiteRepository(setupDB(t)))
	ctx := context.Background()

	require.NoError(t, s.SetConflictCount(ctx, 3))
	require.NoError(t, s.SetConflictCount(ctx, 0))

	md, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, md.ConflictCount)
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/avetrovs/notesync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDatabase_MigratesAndWiresRepos(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	now := time.Now().UTC().Truncate(time.Second)
	n := models.NewNote("hello", "some text", nil, now)
	require.NoError(t, repos.Notes.CreateOrUpdate(ctx, n))

	got, err := repos.Notes.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)

	require.NoError(t, repos.Remote.Put(ctx, n))
	all, err := repos.Remote.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repos.Metadata.Set(ctx, "k", []byte("v")))
	cnt, err := repos.Conflicts.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()

	repos, err := InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	require.NoError(t, RunMigrations(ctx, repos.DB))
}

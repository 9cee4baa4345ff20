package metadata

import (
	"context"
	"strconv"
	"time"

	"github.com/avetrovs/notesync/internal/models"
)

// Keys under which the SyncMetadata fields are persisted.
const (
	KeyLastSyncTime     = "last_sync_time"
	KeySyncEnabled      = "sync_enabled"
	KeyPendingSyncCount = "pending_sync_count"
	KeyConflictCount    = "conflict_count"
)

// Store maps the typed models.SyncMetadata record onto the key/value
// repository.
type Store struct {
	repo Repository
}

// NewStore returns a Store over the given repository.
func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Load assembles the SyncMetadata record. Absent keys fall back to the
// zero state with sync enabled.
func (s *Store) Load(ctx context.Context) (models.SyncMetadata, error) {
	md := models.SyncMetadata{SyncEnabled: true}

	v, err := s.repo.Get(ctx, KeyLastSyncTime)
	if err != nil {
		return md, err
	}
	if v != nil {
		nanos, err := strconv.ParseInt(string(v), 10, 64)
		if err == nil {
			t := time.Unix(0, nanos).UTC()
			md.LastSyncTime = &t
		}
	}

	if v, err = s.repo.Get(ctx, KeySyncEnabled); err != nil {
		return md, err
	}
	if v != nil {
		md.SyncEnabled = string(v) == "1"
	}

	if md.PendingSyncCount, err = s.getInt(ctx, KeyPendingSyncCount); err != nil {
		return md, err
	}
	if md.ConflictCount, err = s.getInt(ctx, KeyConflictCount); err != nil {
		return md, err
	}
	return md, nil
}

// SetLastSyncTime records the completion time of a sync pass.
func (s *Store) SetLastSyncTime(ctx context.Context, t time.Time) error {
	return s.repo.Set(ctx, KeyLastSyncTime, []byte(strconv.FormatInt(t.UnixNano(), 10)))
}

// SetSyncEnabled toggles synchronization.
func (s *Store) SetSyncEnabled(ctx context.Context, enabled bool) error {
	v := "0"
	if enabled {
		v = "1"
	}
	return s.repo.Set(ctx, KeySyncEnabled, []byte(v))
}

// SetPendingSyncCount records how many local changes await the next pass.
func (s *Store) SetPendingSyncCount(ctx context.Context, n int) error {
	return s.repo.Set(ctx, KeyPendingSyncCount, []byte(strconv.Itoa(n)))
}

// SetConflictCount records the number of unresolved queued conflicts.
func (s *Store) SetConflictCount(ctx context.Context, n int) error {
	return s.repo.Set(ctx, KeyConflictCount, []byte(strconv.Itoa(n)))
}

func (s *Store) getInt(ctx context.Context, key string) (int, error) {
	v, err := s.repo.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(string(v))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

package services

import (
	"context"
	"time"

	"github.com/avetrovs/notesync/internal/monitoring"
	"github.com/avetrovs/notesync/internal/repositories/notes"
)

// DefaultRetention is how long soft-deleted notes stay addressable before
// the sweeper purges them.
const DefaultRetention = 30 * 24 * time.Hour

// Sweeper permanently removes soft-deleted notes that aged past the
// retention window. Repeated sweeps are idempotent.
type Sweeper struct {
	notes     notes.Repository
	monitor   monitoring.Monitor
	retention time.Duration
	now       func() time.Time
}

// NewSweeper builds a Sweeper; retention values <= 0 select the default
// 30-day window.
func NewSweeper(repo notes.Repository, m monitoring.Monitor, retention time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Sweeper{notes: repo, monitor: m, retention: retention, now: time.Now}
}

// CleanupDeletedNotes purges tombstones deleted strictly before the
// retention cutoff and returns how many were removed.
func (s *Sweeper) CleanupDeletedNotes(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.retention)

	purged, err := s.notes.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		s.monitor.LogError(ctx, err, "failed to purge expired notes")
		return 0, err
	}

	if purged > 0 {
		s.monitor.AddBreadcrumb(ctx, "retention sweep completed", "cleanup", "purged", purged)
	}
	return purged, nil
}

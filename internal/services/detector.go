// Package services contains the synchronization engine: conflict detection
// and resolution, the sync orchestrator and the retention sweeper.
package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/avetrovs/notesync/internal/models"
)

// DetectConflicts compares two replicas of the note collection against the
// per-note causal baseline (LastSyncedAt) and reports every divergence. It
// is a pure function over the two sets: no side effects, now is only used
// to stamp DetectedAt and synthesized tombstones.
//
// Notes never synced before that exist on one side only are plain uploads,
// not conflicts. Equal UpdatedAt timestamps on both sides count as no
// conflict.
func DetectConflicts(local, remote []models.Note, now time.Time) []models.SyncConflict {
	remoteByID := make(map[string]models.Note, len(remote))
	for _, n := range remote {
		remoteByID[n.ID] = n
	}
	localByID := make(map[string]models.Note, len(local))
	for _, n := range local {
		localByID[n.ID] = n
	}

	var conflicts []models.SyncConflict

	for _, ln := range local {
		rn, ok := remoteByID[ln.ID]
		if ok {
			// present on both sides: an update conflict exists iff both
			// replicas moved past the shared baseline
			base := baseline(ln.LastSyncedAt)
			if ln.UpdatedAt.After(base) && rn.UpdatedAt.After(base) {
				conflicts = append(conflicts, newConflict(ln, rn, models.ConflictTypeUpdate, now))
			}
			continue
		}
		// absent remotely: only a conflict when the note was reconciled
		// before and edited since, meaning the other replica deleted it
		if ln.LastSyncedAt != nil && ln.UpdatedAt.After(*ln.LastSyncedAt) {
			conflicts = append(conflicts, newConflict(ln, tombstone(ln, now), models.ConflictTypeDelete, now))
		}
	}

	for _, rn := range remote {
		if _, ok := localByID[rn.ID]; ok {
			continue
		}
		// absent locally: symmetric delete conflict
		if rn.LastSyncedAt != nil && rn.UpdatedAt.After(*rn.LastSyncedAt) {
			conflicts = append(conflicts, newConflict(tombstone(rn, now), rn, models.ConflictTypeDelete, now))
		}
	}

	return conflicts
}

// baseline returns the shared causal baseline, defaulting to the epoch for
// notes that were never reconciled.
func baseline(lastSyncedAt *time.Time) time.Time {
	if lastSyncedAt == nil {
		return time.Unix(0, 0).UTC()
	}
	return *lastSyncedAt
}

// tombstone synthesizes the missing side of a delete conflict from the
// surviving snapshot, replacing user content with the deletion marker.
func tombstone(survivor models.Note, now time.Time) models.Note {
	t := survivor.Clone()
	t.Title = models.DeletedMarker
	t.Content = models.DeletedMarker
	t.WordCount = 0
	t.DeletedAt = &now
	return t
}

func newConflict(local, remote models.Note, typ models.ConflictType, now time.Time) models.SyncConflict {
	return models.SyncConflict{
		ID:         uuid.NewString(),
		NoteID:     local.ID,
		LocalNote:  local.Clone(),
		RemoteNote: remote.Clone(),
		Type:       typ,
		DetectedAt: now,
	}
}

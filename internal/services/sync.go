package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/avetrovs/notesync/internal/common"
	"github.com/avetrovs/notesync/internal/models"
	"github.com/avetrovs/notesync/internal/monitoring"
	"github.com/avetrovs/notesync/internal/repositories/conflicts"
	"github.com/avetrovs/notesync/internal/repositories/metadata"
	"github.com/avetrovs/notesync/internal/repositories/remote"
)

// SyncService reconciles the local replica against the remote replica. One
// instance owns the in-flight flag, so at most one pass runs at a time;
// overlapping calls fail fast instead of queueing.
type SyncService struct {
	remote    remote.Repository
	conflicts conflicts.Repository
	metadata  *metadata.Store
	monitor   monitoring.Monitor

	now     func() time.Time
	running atomic.Bool
}

// NewSyncService wires the orchestrator to its stores and monitor.
func NewSyncService(r remote.Repository, q conflicts.Repository, md *metadata.Store, m monitoring.Monitor) *SyncService {
	return &SyncService{
		remote:    r,
		conflicts: q,
		metadata:  md,
		monitor:   m,
		now:       time.Now,
	}
}

// SyncNotes runs one reconciliation pass over the given local notes.
//
// Expected conditions never escape as errors: a busy rejection, detected
// conflicts and store failures all land in the returned SyncResult, with
// failures additionally reported to the monitor. The remote snapshot is
// only written after detection and merging fully succeeded in memory, so a
// failed pass never leaves a partially merged remote.
func (s *SyncService) SyncNotes(ctx context.Context, localNotes []models.Note, strategy models.ResolutionStrategy) (result *models.SyncResult) {
	result = &models.SyncResult{
		SyncedNotes: []string{},
		Conflicts:   []models.SyncConflict{},
	}

	if !s.running.CompareAndSwap(false, true) {
		s.monitor.AddBreadcrumb(ctx, "sync pass rejected", "sync", "reason", "already in progress")
		result.Errors = append(result.Errors, models.SyncError{Message: common.ErrSyncInProgress.Error()})
		return result
	}
	defer s.running.Store(false)

	defer func() {
		if p := recover(); p != nil {
			s.monitor.LogError(ctx, fmt.Errorf("panic: %v", p), "sync pass panicked")
			result.Success = false
			result.Errors = append(result.Errors, models.SyncError{Message: common.ErrInternal.Error()})
		}
	}()

	s.monitor.AddBreadcrumb(ctx, "sync pass started", "sync",
		"notes", len(localNotes), "strategy", string(strategy))

	remoteNotes, err := s.remote.GetAll(ctx)
	if err != nil {
		return s.fail(ctx, result, err, "failed to fetch remote snapshot")
	}

	now := s.now().UTC()
	detected := DetectConflicts(localNotes, remoteNotes, now)
	if len(detected) > 0 {
		s.monitor.AddBreadcrumb(ctx, "conflicts detected", "sync", "count", len(detected))
	}
	conflictByNote := make(map[string]models.SyncConflict, len(detected))
	for _, c := range detected {
		conflictByNote[c.NoteID] = c
	}

	// merge in memory first; the snapshot map starts from the remote state
	// and local notes are layered on top
	merged := make(map[string]models.Note, len(remoteNotes)+len(localNotes))
	order := make([]string, 0, len(remoteNotes)+len(localNotes))
	for _, rn := range remoteNotes {
		merged[rn.ID] = rn
		order = append(order, rn.ID)
	}

	for _, n := range localNotes {
		var next models.Note
		if c, ok := conflictByNote[n.ID]; ok {
			next = ResolveConflict(c, strategy)
			if strategy == models.StrategyManual {
				result.Conflicts = append(result.Conflicts, c)
			} else {
				result.SyncedNotes = append(result.SyncedNotes, n.ID)
			}
		} else {
			next = n.Clone()
			next.SyncStatus = models.SyncStatusSynced
			result.SyncedNotes = append(result.SyncedNotes, n.ID)
		}
		markSynced(&next, now)
		if _, seen := merged[next.ID]; !seen {
			order = append(order, next.ID)
		}
		merged[next.ID] = next
	}

	snapshot := make([]models.Note, 0, len(merged))
	for _, id := range order {
		snapshot = append(snapshot, merged[id])
	}

	// one whole-snapshot write: no partial visibility of the merge
	if err := s.remote.ReplaceAll(ctx, snapshot); err != nil {
		return s.fail(ctx, result, err, "failed to persist remote snapshot")
	}

	if err := s.metadata.SetLastSyncTime(ctx, now); err != nil {
		return s.fail(ctx, result, err, "failed to update sync metadata")
	}
	if err := s.metadata.SetPendingSyncCount(ctx, 0); err != nil {
		return s.fail(ctx, result, err, "failed to update sync metadata")
	}

	unresolved := 0
	if strategy == models.StrategyManual && len(result.Conflicts) > 0 {
		unresolved = len(result.Conflicts)
		for i := range result.Conflicts {
			if err := s.conflicts.Add(ctx, &result.Conflicts[i]); err != nil {
				return s.fail(ctx, result, err, "failed to queue conflict")
			}
		}
	}
	if err := s.metadata.SetConflictCount(ctx, unresolved); err != nil {
		return s.fail(ctx, result, err, "failed to update sync metadata")
	}

	result.Success = true
	s.monitor.AddBreadcrumb(ctx, "sync pass completed", "sync",
		"synced", len(result.SyncedNotes), "conflicts", len(result.Conflicts))
	return result
}

// ResolveConflictManually finalizes a queued conflict with the note the
// user picked. Removing an entry that is not queued is not an error; the
// chosen note still lands in the remote snapshot. Returns false only on a
// persistence failure.
func (s *SyncService) ResolveConflictManually(ctx context.Context, noteID string, chosen models.Note) bool {
	if err := s.conflicts.RemoveByNoteID(ctx, noteID); err != nil {
		s.monitor.LogError(ctx, err, "failed to dequeue conflict", "note_id", noteID)
		return false
	}

	now := s.now().UTC()
	final := chosen.Clone()
	final.SyncStatus = models.SyncStatusSynced
	markSynced(&final, now)

	if err := s.remote.Put(ctx, &final); err != nil {
		s.monitor.LogError(ctx, err, "failed to persist resolved note", "note_id", noteID)
		return false
	}

	left, err := s.conflicts.Count(ctx)
	if err != nil {
		s.monitor.LogError(ctx, err, "failed to count queued conflicts")
		return false
	}
	if err := s.metadata.SetConflictCount(ctx, left); err != nil {
		s.monitor.LogError(ctx, err, "failed to update sync metadata")
		return false
	}

	s.monitor.AddBreadcrumb(ctx, "conflict resolved manually", "sync",
		"note_id", noteID, "remaining", left)
	return true
}

// markSynced stamps the causal baseline and advances both logical clocks,
// always together and by exactly one.
func markSynced(n *models.Note, now time.Time) {
	t := now
	n.LastSyncedAt = &t
	n.LocalVersion++
	n.RemoteVersion++
}

func (s *SyncService) fail(ctx context.Context, result *models.SyncResult, err error, msg string) *models.SyncResult {
	s.monitor.LogError(ctx, err, msg)
	result.Success = false
	result.Errors = append(result.Errors, models.SyncError{Message: common.ErrInternal.Error()})
	return result
}

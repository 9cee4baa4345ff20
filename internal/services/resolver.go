package services

import "github.com/avetrovs/notesync/internal/models"

// ResolveConflict maps a conflict and a strategy to the note that should
// land in the merged snapshot. Pure transformation, no persistence.
//
// local and remote pick the corresponding snapshot and stamp it synced.
// manual returns the local snapshot stamped conflict, signalling the
// orchestrator to queue it instead of finalizing. Any other value falls
// back to last-write-wins on UpdatedAt.
func ResolveConflict(c models.SyncConflict, strategy models.ResolutionStrategy) models.Note {
	switch strategy {
	case models.StrategyLocal:
		return stamped(c.LocalNote, models.SyncStatusSynced)
	case models.StrategyRemote:
		return stamped(c.RemoteNote, models.SyncStatusSynced)
	case models.StrategyManual:
		return stamped(c.LocalNote, models.SyncStatusConflict)
	default:
		if c.LocalNote.UpdatedAt.After(c.RemoteNote.UpdatedAt) {
			return stamped(c.LocalNote, models.SyncStatusSynced)
		}
		return stamped(c.RemoteNote, models.SyncStatusSynced)
	}
}

func stamped(n models.Note, status models.SyncStatus) models.Note {
	out := n.Clone()
	out.SyncStatus = status
	return out
}

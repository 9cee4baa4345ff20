package models

import "time"

// ConflictType classifies how two replicas diverged on a note.
type ConflictType string

const (
	// ConflictTypeUpdate means both replicas edited the note after the
	// shared baseline.
	ConflictTypeUpdate ConflictType = "update"
	// ConflictTypeDelete means one replica dropped the note while the
	// other kept editing it.
	ConflictTypeDelete ConflictType = "delete"
)

// ResolutionStrategy selects which replica wins a conflict, or defers the
// decision to the user. The zero value selects last-write-wins.
type ResolutionStrategy string

const (
	StrategyLocal  ResolutionStrategy = "local"
	StrategyRemote ResolutionStrategy = "remote"
	StrategyManual ResolutionStrategy = "manual"
)

// DeletedMarker replaces title and content on tombstones the detector
// synthesizes for delete conflicts.
const DeletedMarker = "[deleted]"

// SyncConflict captures both snapshots of a diverged note so a resolution
// policy (or the user) can pick a winner later.
type SyncConflict struct {
	ID         string       `json:"id"`
	NoteID     string       `json:"note_id"`
	LocalNote  Note         `json:"local_note"`
	RemoteNote Note         `json:"remote_note"`
	Type       ConflictType `json:"type"`
	DetectedAt time.Time    `json:"detected_at"`
}

// SyncMetadata is the single persisted record describing overall sync state.
type SyncMetadata struct {
	LastSyncTime     *time.Time `json:"last_sync_time,omitempty"`
	SyncEnabled      bool       `json:"sync_enabled"`
	PendingSyncCount int        `json:"pending_sync_count"`
	ConflictCount    int        `json:"conflict_count"`
}

// SyncError is a non-leaking, user-presentable failure entry in a SyncResult.
type SyncError struct {
	NoteID  string `json:"note_id,omitempty"`
	Message string `json:"message"`
}

// SyncResult is the structured outcome of one sync pass. Expected conditions
// (busy rejection, conflicts, store failures) are reported here rather than
// raised.
type SyncResult struct {
	Success     bool           `json:"success"`
	SyncedNotes []string       `json:"synced_notes"`
	Conflicts   []SyncConflict `json:"conflicts"`
	Errors      []SyncError    `json:"errors,omitempty"`
}

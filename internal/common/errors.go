// Package common defines shared constants and sentinel errors used across
// notesync components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Engine-level errors. ErrSyncInProgress is the busy rejection for an
	// overlapping sync pass; it is reported inside a SyncResult, never
	// escalated as a panic.
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrSyncDisabled   = errors.New("sync is disabled")

	// Generic internal failure surfaced to callers instead of raw store
	// errors (those go to the monitor with full context).
	ErrInternal = errors.New("internal error")
)

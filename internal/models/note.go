// Package models defines the note data model and the sync bookkeeping
// types shared by the repositories and the sync engine.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SyncStatus reflects where a note stands relative to the remote replica.
type SyncStatus string

const (
	SyncStatusSynced   SyncStatus = "synced"
	SyncStatusPending  SyncStatus = "pending"
	SyncStatusConflict SyncStatus = "conflict"
	SyncStatusError    SyncStatus = "error"
)

// Note is a user's document plus its synchronization bookkeeping. A note is
// soft-deleted by setting DeletedAt and kept addressable as a tombstone for
// the retention window before it is purged.
type Note struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`

	// Version is the monotonic local edit counter.
	Version   int64 `json:"version"`
	WordCount int   `json:"word_count"`

	SyncStatus SyncStatus `json:"sync_status"`

	// LastSyncedAt is the causal baseline: the moment this note was last
	// reconciled with the remote replica. Nil for notes never synced.
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	// LocalVersion and RemoteVersion are per-replica logical edit counters,
	// incremented together for every note touched by a successful pass.
	LocalVersion  int64 `json:"local_version"`
	RemoteVersion int64 `json:"remote_version"`
}

// NewNote creates a never-synced note with Version 1 and pending status.
func NewNote(title, content string, tags []string, now time.Time) *Note {
	return &Note{
		ID:         uuid.NewString(),
		Title:      title,
		Content:    content,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
		Version:    1,
		WordCount:  CountWords(content),
		SyncStatus: SyncStatusPending,
	}
}

// Touch registers a local edit: the edit counter advances, UpdatedAt and
// WordCount refresh and the note goes back to pending.
func (n *Note) Touch(now time.Time) {
	n.Version++
	n.UpdatedAt = now
	n.WordCount = CountWords(n.Content)
	n.SyncStatus = SyncStatusPending
}

// SoftDelete marks the note as a tombstone. The record stays addressable
// until the retention sweeper purges it.
func (n *Note) SoftDelete(now time.Time) {
	n.DeletedAt = &now
	n.Touch(now)
}

// Deleted reports whether the note carries a soft-delete marker.
func (n *Note) Deleted() bool {
	return n.DeletedAt != nil
}

// Clone returns a deep copy of the note.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	if n.DeletedAt != nil {
		t := *n.DeletedAt
		c.DeletedAt = &t
	}
	if n.LastSyncedAt != nil {
		t := *n.LastSyncedAt
		c.LastSyncedAt = &t
	}
	return c
}

// CountWords derives the word count from whitespace-separated tokens.
func CountWords(content string) int {
	return len(strings.Fields(content))
}

// Package remote persists the remote replica of the note collection: the
// counterpart the sync engine reconciles the local replica against. The
// engine reads and writes the snapshot as one serializable whole, so the
// contract exposes whole-collection ReplaceAll alongside per-record access.
package remote

import (
	"context"

	"github.com/avetrovs/notesync/internal/models"
)

// Repository is the remote replica store. One implementation mirrors the
// snapshot into a local SQLite table (offline/tests), another keeps it as a
// JSON object in S3-compatible storage (network-backed deployments). The
// sync engine depends only on this interface.
type Repository interface {
	// Get returns a single remote note by id, or common.ErrNotFound.
	Get(ctx context.Context, id string) (*models.Note, error)

	// GetAll returns the entire remote snapshot.
	GetAll(ctx context.Context) ([]models.Note, error)

	// Put upserts a single note into the snapshot.
	Put(ctx context.Context, n *models.Note) error

	// ReplaceAll atomically replaces the whole snapshot. Readers never
	// observe a partially applied merge.
	ReplaceAll(ctx context.Context, snapshot []models.Note) error

	// Delete removes one note from the snapshot. Absent ids are ignored.
	Delete(ctx context.Context, id string) error

	// Clear removes the whole snapshot.
	Clear(ctx context.Context) error
}

// Package notes persists the local replica of the user's note collection.
package notes

import (
	"context"
	"time"

	"github.com/avetrovs/notesync/internal/models"
)

// Repository describes CRUD and query operations over the local replica.
// Implementations are backed by a local SQLite database.
type Repository interface {
	// Get returns a note by id, including tombstones.
	// Returns common.ErrNotFound when no row exists.
	Get(ctx context.Context, id string) (*models.Note, error)

	// GetAll returns every note in the replica, tombstones included, so
	// the sync pass can reconcile soft deletes.
	GetAll(ctx context.Context) ([]models.Note, error)

	// List returns only active (non-deleted) notes for display.
	List(ctx context.Context) ([]models.Note, error)

	// CreateOrUpdate upserts a note by id.
	CreateOrUpdate(ctx context.Context, n *models.Note) error

	// Delete soft-deletes a note, stamping the given deletion time.
	Delete(ctx context.Context, id string, now time.Time) error

	// Purge permanently removes a note regardless of its deletion state.
	Purge(ctx context.Context, id string) error

	// PurgeDeletedBefore permanently removes tombstones whose deletion
	// time is strictly before cutoff and reports how many were removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Clear removes every note.
	Clear(ctx context.Context) error
}

// Package conflicts persists the queue of unresolved sync conflicts
// awaiting a manual decision.
package conflicts

import (
	"context"

	"github.com/avetrovs/notesync/internal/models"
)

// Repository is the conflict queue store.
type Repository interface {
	// Add enqueues a conflict. A second conflict for the same note
	// replaces the earlier entry.
	Add(ctx context.Context, c *models.SyncConflict) error

	// GetAll returns the queue in detection order.
	GetAll(ctx context.Context) ([]models.SyncConflict, error)

	// RemoveByNoteID drops the entry for the given note. Removing a
	// nonexistent entry is not an error.
	RemoveByNoteID(ctx context.Context, noteID string) error

	// Count returns the queue length.
	Count(ctx context.Context) (int, error)

	// Clear empties the queue.
	Clear(ctx context.Context) error
}

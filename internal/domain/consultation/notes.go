package consultation

import (
	"context"

	"github.com/google/uuid"
)

// NotesStore owns the per-consultation notes storage. The core never looks
// inside it.
type NotesStore interface {
	// Provision creates the storage and an empty notes document.
	Provision(ctx context.Context, consultationID uuid.UUID) error

	// Remove deletes the storage permanently. Missing storage is not an error.
	Remove(ctx context.Context, consultationID uuid.UUID) error

	// Open returns a location the caller can hand to an editor, or a
	// not-found error when nothing was provisioned.
	Open(ctx context.Context, consultationID uuid.UUID) (string, error)
}

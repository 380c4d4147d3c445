package session

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned when no snapshot has been persisted.
var ErrSnapshotNotFound = errors.New("session snapshot not found")

// SnapshotStore provides durable persistence for the session snapshot.
// This interface is defined in the domain to avoid circular imports.
// Implementations: file-backed (prod), in-memory (test).
//
// The session service is the only writer. Other components must read
// session state through the service's accessors, never through the store,
// so the in-memory session and the persisted record cannot diverge.
type SnapshotStore interface {
	// Load retrieves the persisted snapshot.
	// Returns ErrSnapshotNotFound if nothing has been persisted.
	Load(ctx context.Context) (*Snapshot, error)

	// Save persists the snapshot, replacing any previous record.
	Save(ctx context.Context, snap *Snapshot) error

	// Clear removes the persisted snapshot. Clearing an empty store is not
	// an error.
	Clear(ctx context.Context) error
}

// Package memory provides in-memory implementations of outbound ports.
package memory

import (
	"context"
	"sync"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/session"
)

// MemorySnapshotStore implements session.SnapshotStore with an in-memory
// value. Thread-safe for concurrent access. For development/testing only.
type MemorySnapshotStore struct {
	mu   sync.RWMutex
	snap *session.Snapshot

	// Saves and Clears count store mutations, for assertions in tests.
	saves  int
	clears int
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

// Load returns a copy of the stored snapshot, or session.ErrSnapshotNotFound.
func (s *MemorySnapshotStore) Load(_ context.Context) (*session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snap == nil {
		return nil, session.ErrSnapshotNotFound
	}
	cp := *s.snap
	if s.snap.Identity != nil {
		id := *s.snap.Identity
		cp.Identity = &id
	}
	return &cp, nil
}

// Save stores a copy of the snapshot.
func (s *MemorySnapshotStore) Save(_ context.Context, snap *session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *snap
	if snap.Identity != nil {
		id := *snap.Identity
		cp.Identity = &id
	}
	s.snap = &cp
	s.saves++
	return nil
}

// Clear removes the stored snapshot.
func (s *MemorySnapshotStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = nil
	s.clears++
	return nil
}

// SaveCount returns how many times Save was called.
func (s *MemorySnapshotStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// ClearCount returns how many times Clear was called.
func (s *MemorySnapshotStore) ClearCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clears
}

// Stored returns the current snapshot without copy, for test assertions.
func (s *MemorySnapshotStore) Stored() *session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

package session

import (
	"testing"
	"time"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/identity"
)

func TestCredentialIsZero(t *testing.T) {
	if !(Credential{}).IsZero() {
		t.Error("expected empty credential to be zero")
	}
	if (Credential{Token: "tok", Scheme: "Bearer"}).IsZero() {
		t.Error("expected populated credential to not be zero")
	}
}

func TestSnapshotFresh(t *testing.T) {
	now := time.Now().UTC()
	snap := &Snapshot{
		Credential: Credential{Token: "tok", Scheme: "Bearer"},
		Identity:   &identity.Identity{ID: "u1"},
		SavedAt:    now.Add(-time.Minute),
	}

	if !snap.Fresh(now, DefaultTTL) {
		t.Error("expected 1m old snapshot to be fresh with 5m TTL")
	}
	if snap.Fresh(now, time.Minute) {
		t.Error("expected snapshot at exactly TTL age to be stale")
	}
}

func TestSnapshotWithoutIdentityIsNeverFresh(t *testing.T) {
	now := time.Now().UTC()
	snap := &Snapshot{
		Credential: Credential{Token: "tok", Scheme: "Bearer"},
		SavedAt:    now,
	}
	if snap.Fresh(now, DefaultTTL) {
		t.Error("expected snapshot with nil identity to be stale")
	}
}

func TestSnapshotAge(t *testing.T) {
	now := time.Now().UTC()
	snap := &Snapshot{SavedAt: now.Add(-3 * time.Minute)}
	if got := snap.Age(now); got != 3*time.Minute {
		t.Errorf("expected age 3m, got %v", got)
	}
}

// Package session manages the authenticated session and its persisted snapshot.
package session

import (
	"time"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/identity"
)

// DefaultTTL is how long a persisted identity snapshot is considered fresh.
// A fresh snapshot is rendered immediately and revalidated in the background;
// a stale one forces a synchronous profile fetch before use.
const DefaultTTL = 5 * time.Minute

// Credential is a bearer token plus its authentication scheme,
// as issued by the login endpoint.
type Credential struct {
	// Token is the opaque bearer token value.
	Token string `json:"token"`
	// Scheme is the authorization scheme, normally "Bearer".
	Scheme string `json:"scheme"`
}

// IsZero returns true if no credential is present.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Snapshot is the durable session record written to disk. It survives
// process restarts and lets the next start render the cached identity
// without waiting on the network.
type Snapshot struct {
	// Credential is the persisted bearer credential.
	Credential Credential `json:"credential"`
	// Identity is the cached profile at the time of the last fetch.
	// Nil when the profile was never fetched successfully.
	Identity *identity.Identity `json:"identity,omitempty"`
	// SavedAt is when Identity was last confirmed by the backend (UTC).
	SavedAt time.Time `json:"saved_at"`
}

// Age returns how old the snapshot's identity is relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.SavedAt)
}

// Fresh returns true if the snapshot's identity is usable without a
// synchronous revalidation.
func (s *Snapshot) Fresh(now time.Time, ttl time.Duration) bool {
	if s.Identity == nil {
		return false
	}
	return s.Age(now) < ttl
}

// Package identity contains the domain types for authenticated users.
package identity

import (
	"time"

	"github.com/cespare/xxhash/v2"
)

// Role represents a user role for authorization purposes.
type Role string

const (
	// RoleAdmin has full access including moderation operations.
	RoleAdmin Role = "admin"
	// RoleReviewer can publish reviews for assigned products.
	RoleReviewer Role = "reviewer"
	// RoleUser has standard access.
	RoleUser Role = "user"
)

// IsValid returns true if the role is a known valid role.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleReviewer, RoleUser:
		return true
	default:
		return false
	}
}

// Privileged returns true if the role grants access to moderation
// and administration endpoints.
func (r Role) Privileged() bool {
	return r == RoleAdmin
}

// Identity is the authenticated user's profile as returned by the
// backend. Field names follow the backend's UserResponse schema.
type Identity struct {
	// ID is the user's unique identifier (UUID string).
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// Name is the display name.
	Name string `json:"name"`
	// Role is the assigned role ("user", "reviewer", "admin").
	Role Role `json:"role"`
	// EmailVerified indicates whether the account completed email verification.
	EmailVerified bool `json:"email_verified"`
	// Avatar is an optional avatar URL.
	Avatar string `json:"avatar,omitempty"`
	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the account was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Privileged returns true if the identity's role grants moderation access.
func (i *Identity) Privileged() bool {
	return i.Role.Privileged()
}

// Fingerprint returns a fast content hash of the fields that matter for
// change detection between two profile fetches. Timestamps are excluded
// so a server-side touch without a content change does not count as drift.
func (i *Identity) Fingerprint() uint64 {
	h := xxhash.New()
	sep := []byte{0}

	_, _ = h.WriteString(i.ID)
	_, _ = h.Write(sep)
	_, _ = h.WriteString(i.Email)
	_, _ = h.Write(sep)
	_, _ = h.WriteString(i.Name)
	_, _ = h.Write(sep)
	_, _ = h.WriteString(string(i.Role))
	_, _ = h.Write(sep)
	if i.EmailVerified {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write(sep)
	_, _ = h.WriteString(i.Avatar)

	return h.Sum64()
}

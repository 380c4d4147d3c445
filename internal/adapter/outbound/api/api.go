// Package api provides the HTTP client for the Product Review API.
//
// Every outbound call in this repository passes through Client.Do: it is
// the single chokepoint that attaches the Authorization header, normalizes
// transport and HTTP failures into a small error taxonomy, and logs each
// exchange. Callers receive parsed JSON or a classified error; no schema
// validation happens at this layer.
package api

// Wire types for the auth endpoints, matching the backend's schemas.

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	// Email is the account's login email.
	Email string `json:"email"`
	// Password is the account secret.
	Password string `json:"password"`
}

// TokenResponse is the success body of POST /auth/login and /auth/refresh.
type TokenResponse struct {
	// AccessToken is the opaque bearer token.
	AccessToken string `json:"access_token"`
	// TokenType is the authorization scheme, normally "bearer".
	TokenType string `json:"token_type"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	// Name is the display name for the new account.
	Name string `json:"name"`
	// Email is the login email for the new account.
	Email string `json:"email"`
	// Password is the account secret.
	Password string `json:"password"`
	// Avatar is an optional avatar URL.
	Avatar string `json:"avatar,omitempty"`
}

// ResendVerificationRequest is the body for POST /auth/resend-verification.
type ResendVerificationRequest struct {
	// Email is the unverified account's email.
	Email string `json:"email"`
}

// ProfileUpdateRequest is the JSON body for PUT /users/profile.
type ProfileUpdateRequest struct {
	// Name is the new display name. Empty means unchanged.
	Name string `json:"name,omitempty"`
	// Avatar is the new avatar URL. Empty means unchanged.
	Avatar string `json:"avatar,omitempty"`
}

package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/adapter/outbound/api"
)

// LoginErrorKind distinguishes the login failures a caller renders
// differently: an unverified account gets a "resend email" affordance,
// invalid credentials just get the form back.
type LoginErrorKind string

const (
	KindEmailNotVerified   LoginErrorKind = "EMAIL_NOT_VERIFIED"
	KindInvalidCredentials LoginErrorKind = "INVALID_CREDENTIALS"
	KindAccountBlocked     LoginErrorKind = "ACCOUNT_BLOCKED"
	KindLoginError         LoginErrorKind = "LOGIN_ERROR"
)

// Sentinel errors for matching login failure kinds with errors.Is.
// ErrLogin matches every login failure regardless of kind.
var (
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrLogin              = errors.New("login failed")
)

// LoginError is a classified login failure. The underlying gateway error
// is preserved for logging and errors.As.
type LoginError struct {
	Kind  LoginErrorKind
	Cause error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("login failed (%s): %v", e.Kind, e.Cause)
}

func (e *LoginError) Unwrap() error { return e.Cause }

// Is matches the kind-specific sentinel and the generic ErrLogin.
func (e *LoginError) Is(target error) bool {
	switch target {
	case ErrLogin:
		return true
	case ErrEmailNotVerified:
		return e.Kind == KindEmailNotVerified
	case ErrInvalidCredentials:
		return e.Kind == KindInvalidCredentials
	case ErrAccountBlocked:
		return e.Kind == KindAccountBlocked
	}
	return false
}

// classifyLoginError maps a gateway error onto a LoginError kind.
//
// The backend distinguishes failure modes only through the human-readable
// detail string, so classification has to sniff message content. That
// brittleness is confined to this one function: detail phrasing changes
// on the backend mean updating these matches and nothing else. Substring
// checks run before status fallbacks because the backend reuses 403 for
// both unverified and blocked accounts.
func classifyLoginError(err error) *LoginError {
	var statusErr *api.StatusError
	if !errors.As(err, &statusErr) {
		// Transport failure, timeout, or a malformed response.
		return &LoginError{Kind: KindLoginError, Cause: err}
	}

	detail := strings.ToLower(statusErr.Detail)
	switch {
	case strings.Contains(detail, "verif"):
		return &LoginError{Kind: KindEmailNotVerified, Cause: err}
	case strings.Contains(detail, "block"), strings.Contains(detail, "disabled"):
		return &LoginError{Kind: KindAccountBlocked, Cause: err}
	case strings.Contains(detail, "incorrect email or password"), strings.Contains(detail, "credential"):
		return &LoginError{Kind: KindInvalidCredentials, Cause: err}
	}

	switch statusErr.Status {
	case 401:
		return &LoginError{Kind: KindInvalidCredentials, Cause: err}
	case 403:
		return &LoginError{Kind: KindEmailNotVerified, Cause: err}
	}
	return &LoginError{Kind: KindLoginError, Cause: err}
}

// Package service implements the session cache and auth manager.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/adapter/outbound/api"
	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/identity"
	"github.com/L1m-NguyenHai/Tauri-Product-Review-sub001/internal/domain/session"
)

// ErrNotAuthenticated is returned by operations that require a credential
// when the session is anonymous.
var ErrNotAuthenticated = errors.New("not authenticated")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds session service configuration.
type Config struct {
	// TTL is how long a persisted identity snapshot stays fresh.
	// Default: session.DefaultTTL.
	TTL time.Duration
	// Logger is the structured logger. Default: slog.Default().
	Logger *slog.Logger
}

// SessionService is the single source of truth for "who is logged in".
//
// It restores cache-first: a fresh persisted snapshot renders immediately
// and is revalidated in the background, while a stale or absent one forces
// a synchronous profile fetch whose failure clears the session. Every state
// change goes through a session generation counter; a background fetch that
// completes after logout or a newer edit finds the generation advanced and
// discards its result instead of repopulating the session.
type SessionService struct {
	client *api.Client
	store  session.SnapshotStore
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	// mu guards the session state below. Snapshot persistence happens
	// under mu so a Save can never interleave with a concurrent Clear.
	mu       sync.Mutex
	gen      uint64
	cred     session.Credential
	identity *identity.Identity
	cachedAt time.Time

	bg sync.WaitGroup
}

// NewSessionService creates a SessionService over the given gateway client
// and snapshot store.
func NewSessionService(client *api.Client, store session.SnapshotStore, cfg Config) *SessionService {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = session.DefaultTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionService{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Restore rebuilds the session from the persisted snapshot. Invoked once
// at startup.
//
// With no persisted credential the session stays anonymous. A fresh
// snapshot is applied immediately and revalidated in the background, where
// failure is tolerated (the backend may simply be unreachable). A stale or
// absent identity forces a synchronous profile fetch; failure there clears
// credential, identity, and the persisted record, because a credential the
// backend rejects on a cold fetch is untrustworthy.
//
// Restore never surfaces auth failures to the caller: expiry on first
// visit is not user-actionable, so the session just comes back anonymous.
func (s *SessionService) Restore(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrSnapshotNotFound) {
			s.logger.Warn("persisted session unreadable, starting anonymous", "error", err)
			s.clearStore(ctx)
		}
		return nil
	}

	now := s.now()

	// A token that is provably expired gets the cold-failure treatment
	// without spending a network round-trip.
	if tokenExpired(snap.Credential.Token, now) {
		s.logger.Info("persisted credential expired, starting anonymous")
		s.clearStore(ctx)
		return nil
	}

	gen := s.install(snap.Credential)

	if snap.Fresh(now, s.ttl) {
		// Optimistic restore: render the cached identity now, confirm later.
		s.apply(ctx, gen, snap.Identity, snap.SavedAt, false)
		s.bg.Add(1)
		go func() {
			defer s.bg.Done()
			s.revalidate(gen)
		}()
		return nil
	}

	var ident identity.Identity
	if err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me"}, &ident); err != nil {
		s.logger.Info("cold session restore failed, clearing session", "error", err)
		s.clearIfCurrent(ctx, gen)
		return nil
	}

	s.apply(ctx, gen, &ident, now, true)
	return nil
}

// Login exchanges credentials for a bearer token, fetches the profile, and
// persists the session. On failure nothing is persisted and the error is
// classified into a LoginError kind the caller can render directly.
// Failures are never retried automatically; repeated credential submission
// is the user's call.
func (s *SessionService) Login(ctx context.Context, email, password string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	if err := validate.Var(password, "required"); err != nil {
		return fmt.Errorf("password required: %w", err)
	}

	var tok api.TokenResponse
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   api.LoginRequest{Email: email, Password: password},
	}, &tok)
	if err != nil {
		return classifyLoginError(err)
	}

	cred := session.Credential{
		Token:  tok.AccessToken,
		Scheme: normalizeScheme(tok.TokenType),
	}
	gen := s.install(cred)

	var ident identity.Identity
	if err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me"}, &ident); err != nil {
		// The profile fetch is part of the login transaction: without it
		// the credential is never persisted.
		s.clearIfCurrent(ctx, gen)
		return classifyLoginError(err)
	}

	s.apply(ctx, gen, &ident, s.now(), true)
	s.logger.Info("logged in", "user_id", ident.ID, "role", ident.Role)
	return nil
}

// Register creates a new account. The backend requires email verification
// before first login, so the new account is not authenticated here.
func (s *SessionService) Register(ctx context.Context, name, email, password string) error {
	if err := validate.Var(name, "required"); err != nil {
		return fmt.Errorf("name required: %w", err)
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	if err := validate.Var(password, "required,min=8"); err != nil {
		return fmt.Errorf("password must be at least 8 characters: %w", err)
	}

	var ident identity.Identity
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Body:   api.RegisterRequest{Name: name, Email: email, Password: password},
	}, &ident)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.logger.Info("account registered, verification pending", "user_id", ident.ID)
	return nil
}

// ResendVerification asks the backend to send a fresh verification email.
func (s *SessionService) ResendVerification(ctx context.Context, email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	err := s.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/resend-verification",
		Body:   api.ResendVerificationRequest{Email: email},
	}, nil)
	if err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	return nil
}

// Logout clears the credential, identity, and persisted record. Idempotent,
// and safe to call while a restore or refresh is still in flight: the
// in-flight operation finds the generation advanced and discards its result.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	s.cred = session.Credential{}
	s.identity = nil
	s.cachedAt = time.Time{}
	err := s.store.Clear(ctx)
	s.mu.Unlock()

	s.client.ClearCredential()
	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}

// RefreshIdentity re-fetches the profile with the current credential. On
// failure the session is left exactly as it was; a flaky network must never
// force a logout from this path.
func (s *SessionService) RefreshIdentity(ctx context.Context) error {
	s.mu.Lock()
	cred := s.cred
	gen := s.gen
	s.mu.Unlock()

	if cred.IsZero() {
		return ErrNotAuthenticated
	}

	var ident identity.Identity
	if err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me"}, &ident); err != nil {
		return fmt.Errorf("refresh identity: %w", err)
	}

	s.apply(ctx, gen, &ident, s.now(), true)
	return nil
}

// UpdateProfile changes the display name and/or avatar URL. The edit is
// authoritative over any background revalidation that started earlier:
// the generation advances when the edit is initiated, so a slower
// revalidation completing afterwards cannot clobber the result.
func (s *SessionService) UpdateProfile(ctx context.Context, name, avatar string) (*identity.Identity, error) {
	gen, err := s.beginEdit()
	if err != nil {
		return nil, err
	}

	var ident identity.Identity
	err = s.client.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Body:   api.ProfileUpdateRequest{Name: name, Avatar: avatar},
	}, &ident)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.apply(ctx, gen, &ident, s.now(), true)
	cp := ident
	return &cp, nil
}

// UpdateAvatar uploads a new avatar image as a multipart form. The gateway
// sends the form's own content type so the multipart boundary survives.
func (s *SessionService) UpdateAvatar(ctx context.Context, filename string, r io.Reader) (*identity.Identity, error) {
	gen, err := s.beginEdit()
	if err != nil {
		return nil, err
	}

	form, err := api.NewFileForm("avatar", filename, r)
	if err != nil {
		return nil, fmt.Errorf("encode avatar form: %w", err)
	}

	var ident identity.Identity
	err = s.client.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Form:   form,
	}, &ident)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	s.apply(ctx, gen, &ident, s.now(), true)
	cp := ident
	return &cp, nil
}

// Identity returns a copy of the cached identity, or nil when anonymous.
func (s *SessionService) Identity() *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	cp := *s.identity
	return &cp
}

// Credential returns the current credential; zero value when anonymous.
func (s *SessionService) Credential() session.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred
}

// IsAuthenticated returns true when a credential is present.
func (s *SessionService) IsAuthenticated() bool {
	return !s.Credential().IsZero()
}

// IsPrivileged returns true iff the cached identity holds the elevated
// role. Derived from the identity on every call, never stored, so it can
// not diverge from the profile.
func (s *SessionService) IsPrivileged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.identity.Privileged()
}

// CachedAt returns when the identity was last confirmed by the backend.
func (s *SessionService) CachedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cachedAt
}

// Wait blocks until all background revalidations have completed.
func (s *SessionService) Wait() {
	s.bg.Wait()
}

// install sets a new credential, invalidating all in-flight operations,
// and returns the new generation.
func (s *SessionService) install(cred session.Credential) uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.cred = cred
	s.identity = nil
	s.cachedAt = time.Time{}
	s.mu.Unlock()

	s.client.SetCredential(cred)
	return gen
}

// beginEdit advances the generation for a user-initiated edit so that
// earlier in-flight fetches cannot overwrite its eventual result.
func (s *SessionService) beginEdit() (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred.IsZero() {
		return 0, ErrNotAuthenticated
	}
	s.gen++
	return s.gen, nil
}

// apply installs a fetched identity if the generation is still current,
// persisting the snapshot when persist is true. Returns false when the
// result was stale and discarded.
func (s *SessionService) apply(ctx context.Context, gen uint64, ident *identity.Identity, at time.Time, persist bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		s.logger.Debug("discarding stale identity result", "result_gen", gen, "session_gen", s.gen)
		return false
	}

	if prev := s.identity; prev != nil && ident != nil && prev.Fingerprint() != ident.Fingerprint() {
		s.logger.Info("identity changed since last fetch", "user_id", ident.ID)
	}

	s.identity = ident
	s.cachedAt = at

	if persist {
		snap := &session.Snapshot{Credential: s.cred, Identity: ident, SavedAt: at}
		if err := s.store.Save(ctx, snap); err != nil {
			s.logger.Warn("failed to persist session snapshot", "error", err)
		}
	}
	return true
}

// revalidate is the background confirmation of an optimistically restored
// identity. Its failure is invisible: the cached identity stays in place
// and the snapshot is not evicted, preferring stale-but-present data over
// a forced re-login when the network is merely flaky.
func (s *SessionService) revalidate(gen uint64) {
	// Deliberately not tied to the caller's context: the fetch runs to
	// completion and staleness is handled at apply time.
	ctx := context.Background()

	var ident identity.Identity
	if err := s.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/me"}, &ident); err != nil {
		s.logger.Debug("background revalidation failed, keeping cached identity", "error", err)
		return
	}

	s.apply(ctx, gen, &ident, s.now(), true)
}

// clearIfCurrent clears the session only if the generation is still
// current, so a failure path cannot wipe out a newer login.
func (s *SessionService) clearIfCurrent(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.gen++
	s.cred = session.Credential{}
	s.identity = nil
	s.cachedAt = time.Time{}
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
	s.mu.Unlock()

	s.client.ClearCredential()
}

// clearStore wipes the persisted record without touching in-memory state.
func (s *SessionService) clearStore(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear persisted session", "error", err)
	}
}

// normalizeScheme maps the backend's lowercase "bearer" token type onto
// the canonical Authorization scheme.
func normalizeScheme(tokenType string) string {
	switch tokenType {
	case "", "bearer", "Bearer":
		return "Bearer"
	default:
		return tokenType
	}
}

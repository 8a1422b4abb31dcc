package client

import (
	"context"
	"log/slog"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/migration"
	"github.com/promptozer/promptozer/internal/store"
)

// ErrNotLoggedIn is returned by operations that need a session user.
var ErrNotLoggedIn = domainerrors.IdentityUnresolved("not logged in")

// UserCache persists the session user between runs. local.Slots implements it.
type UserCache interface {
	CachedUser() (*domain.User, error)
	SaveUser(u *domain.User) error
	ClearUser() error
}

// SessionConfig wires a Session to the active deployment variant.
type SessionConfig struct {
	Users    UserCache
	Identity identity.API
	Store    store.PromptStore
	// Engine is nil when no server of record is configured; the migration
	// offer is then never eligible.
	Engine *migration.Engine
	Logger *slog.Logger
}

// Session is the login state of one device.
type Session struct {
	users    UserCache
	identity identity.API
	store    store.PromptStore
	engine   *migration.Engine
	logger   *slog.Logger
}

// NewSession creates a session.
func NewSession(cfg SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		users:    cfg.Users,
		identity: cfg.Identity,
		store:    cfg.Store,
		engine:   cfg.Engine,
		logger:   logger,
	}
}

// StartState is everything the presentation layer needs at startup.
type StartState struct {
	User      *domain.User
	Library   *Library
	Migration migration.Status
	// RefreshErr is set when the initial load failed; Library is still
	// usable and starts empty.
	RefreshErr error
}

// Current returns the cached session user, or nil when logged out.
func (s *Session) Current() (*domain.User, error) {
	return s.users.CachedUser()
}

// Login resolves email to a user and caches it. Nothing is cached on failure.
func (s *Session) Login(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.identity.ResolveOrCreate(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveUser(u); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", "user_id", u.ID)
	return u, nil
}

// Logout forgets the session user. Prompts and the migration marker stay.
func (s *Session) Logout() error {
	return s.users.ClearUser()
}

// Start loads the session user's library and the migration status.
func (s *Session) Start(ctx context.Context) (*StartState, error) {
	u, err := s.Current()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}

	state := &StartState{
		User:    u,
		Library: NewLibrary(s.store, u.ID, s.logger),
	}
	state.RefreshErr = state.Library.Refresh(ctx)

	status, err := s.MigrationStatus(ctx)
	if err != nil {
		return nil, err
	}
	state.Migration = status
	return state, nil
}

// Library returns the session user's library without loading it. Use it
// for single mutations where the full list is not needed.
func (s *Session) Library() (*Library, error) {
	u, err := s.Current()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return NewLibrary(s.store, u.ID, s.logger), nil
}

// MigrationStatus reports whether the migration offer should be shown.
func (s *Session) MigrationStatus(ctx context.Context) (migration.Status, error) {
	if s.engine == nil {
		return migration.Status{}, nil
	}
	return s.engine.Status(ctx)
}

// Migrate runs the one-time migration for the session user. When the owner
// had to be re-resolved, the cached user is replaced with the effective one.
func (s *Session) Migrate(ctx context.Context) (*domain.MigrationResult, error) {
	if s.engine == nil {
		return nil, domainerrors.Validation("migration needs a server of record")
	}
	u, err := s.Current()
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotLoggedIn
	}

	result, err := s.engine.Run(ctx, u.ID, u.Email)
	if result != nil && result.OwnerID != "" && result.OwnerID != u.ID {
		s.repairUser(ctx, u.ID, result.OwnerID)
	}
	return result, err
}

// DeclineMigration records that the user dismissed the offer.
func (s *Session) DeclineMigration(ctx context.Context) error {
	if s.engine == nil {
		return domainerrors.Validation("migration needs a server of record")
	}
	return s.engine.Decline(ctx)
}

func (s *Session) repairUser(ctx context.Context, staleID, ownerID string) {
	fresh, err := s.identity.GetUser(ctx, ownerID)
	if err != nil {
		s.logger.Warn("could not refresh session user", "user_id", ownerID, "error", err)
		return
	}
	if err := s.users.SaveUser(fresh); err != nil {
		s.logger.Warn("could not cache session user", "user_id", ownerID, "error", err)
		return
	}
	s.logger.Info("session user re-resolved", "stale_id", staleID, "user_id", fresh.ID)
}

// Package identity resolves library owners by email.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/id"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/promptozer/promptozer/internal/validation"
)

// API is the identity contract shared by the in-process resolver and the
// HTTP client.
type API interface {
	// ResolveOrCreate returns the user registered under email, creating one
	// on first sight. Concurrent calls for one email create at most one user.
	ResolveOrCreate(ctx context.Context, email string) (*domain.User, error)

	// GetUser returns the user with the given id, or a NotFound error.
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// Resolver implements API over a user repository.
type Resolver struct {
	users     store.UserRepository
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

var _ API = (*Resolver)(nil)

// NewResolver creates a resolver.
func NewResolver(users store.UserRepository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		users:     users,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// ResolveOrCreate finds or creates the user for email. Lookup is by
// normalized email; a lost creation race re-reads the winner.
func (r *Resolver) ResolveOrCreate(ctx context.Context, email string) (*domain.User, error) {
	if err := r.validator.Var("email", email, "notblank"); err != nil {
		return nil, err
	}

	existing, err := r.users.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, err
	}
	u := domain.NewUserFromEmail(userID, email, r.now().UnixMilli())

	if err := r.users.CreateUser(ctx, &u); err != nil {
		if !domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		// Race condition: another request created it.
		winner, err := r.users.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("lookup user after conflict: %w", err)
		}
		return winner, nil
	}

	r.logger.Info("user created", "user_id", u.ID)
	return &u, nil
}

// GetUser returns the user with the given id.
func (r *Resolver) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	u, err := r.users.GetUser(ctx, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, store.NotFound("user", userID)
		}
		return nil, err
	}
	return u, nil
}

package service

import (
	"context"
	"log/slog"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/identity"
)

// AuthService handles email login. There are no credentials: logging in
// resolves, or registers, the user that owns an email address.
type AuthService struct {
	identity identity.API
	logger   *slog.Logger
}

var _ identity.API = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(ident identity.API, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuthService{identity: ident, logger: logger}
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email string `json:"email" validate:"notblank"`
}

// Login returns the user for req.Email, creating it on first login.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	u, err := s.identity.ResolveOrCreate(ctx, req.Email)
	if err != nil {
		s.logger.Warn("login failed", "error", err)
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	return u, nil
}

// ResolveOrCreate implements identity.API.
func (s *AuthService) ResolveOrCreate(ctx context.Context, email string) (*domain.User, error) {
	return s.Login(ctx, LoginRequest{Email: email})
}

// GetUser implements identity.API.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.identity.GetUser(ctx, userID)
}

package remote

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/promptozer/promptozer/internal/api/dto"
	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/store"
)

var _ identity.API = (*Client)(nil)

// ResolveOrCreate logs in by email.
func (c *Client) ResolveOrCreate(ctx context.Context, email string) (*domain.User, error) {
	var out dto.UserResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", dto.LoginRequest{Email: email}, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, store.NotFound("user", userID)
	}

	var out dto.UserResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.ToDomain(), nil
}

package dto

import "github.com/promptozer/promptozer/internal/domain"

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email string `json:"email" doc:"User email address"`
}

// LoginInput wraps the login request for huma.
type LoginInput struct {
	Body LoginRequest
}

// UserResponse is a user as returned by the API.
type UserResponse struct {
	ID        string `json:"id" doc:"User ID"`
	Email     string `json:"email" doc:"Email address as first entered"`
	Name      string `json:"name" doc:"Display name"`
	Avatar    string `json:"avatar" doc:"Avatar image URL"`
	CreatedAt int64  `json:"created_at" doc:"Creation time, milliseconds since epoch"`
}

// UserOutput wraps a user for huma.
type UserOutput struct {
	Body UserResponse
}

// NewUserResponse converts a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

// ToDomain converts back to a domain user.
func (r UserResponse) ToDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Email:     r.Email,
		Name:      r.Name,
		Avatar:    r.Avatar,
		CreatedAt: r.CreatedAt,
	}
}

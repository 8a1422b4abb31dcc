package domain

import (
	"net/url"
	"strings"
)

// AvatarBaseURL is the identicon service used for generated avatars.
const AvatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

// User is a library owner. Email is the only key that is stable across
// stores; IDs are assigned by whichever store created the record.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	CreatedAt int64  `json:"createdAt"` // milliseconds since epoch
}

// NormalizeEmail returns the lookup form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultName is the local part of the email address.
func DefaultName(email string) string {
	email = strings.TrimSpace(email)
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// AvatarURL returns the deterministic identicon URL for email.
func AvatarURL(email string) string {
	return AvatarBaseURL + "?seed=" + url.QueryEscape(strings.TrimSpace(email))
}

// NewUserFromEmail synthesizes a user record for a first-time login.
func NewUserFromEmail(id, email string, createdAt int64) User {
	email = strings.TrimSpace(email)
	return User{
		ID:        id,
		Email:     email,
		Name:      DefaultName(email),
		Avatar:    AvatarURL(email),
		CreatedAt: createdAt,
	}
}

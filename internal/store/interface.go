// Package store defines the persistence contracts shared by the server of
// record and the device-local store.
package store

import (
	"context"

	"github.com/promptozer/promptozer/internal/domain"
)

// PromptStore is the Record Store contract. Implementations are
// interchangeable: the device-local store, the server-side service and the
// HTTP client all satisfy it.
type PromptStore interface {
	// ListPrompts returns the owner's prompts, newest first. Unknown owners
	// yield an empty list, never an error.
	ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error)

	// CreatePrompt validates the input, assigns an id and a creation time,
	// and returns the stored prompt.
	CreatePrompt(ctx context.Context, in domain.NewPrompt) (*domain.Prompt, error)

	// UpdatePrompt applies a partial update. Unknown ids are ErrNotFound.
	UpdatePrompt(ctx context.Context, id string, patch domain.PromptPatch) (*domain.Prompt, error)

	// DeletePrompt removes a prompt. Unknown or already-deleted ids are ErrNotFound.
	DeletePrompt(ctx context.Context, id string) error
}

// UserRepository persists users. CreateUser returns ErrAlreadyExists when
// the id or the normalized email is taken.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PromptRepository persists prompt rows as given. Callers own id and
// timestamp assignment.
type PromptRepository interface {
	InsertPrompt(ctx context.Context, prompt *domain.Prompt) error
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error)
	// UpdatePrompt replaces title, content, tags and category of an existing row.
	UpdatePrompt(ctx context.Context, prompt *domain.Prompt) error
	DeletePrompt(ctx context.Context, id string) error
}

// Repository is the server-of-record database.
type Repository interface {
	UserRepository
	PromptRepository

	Ping(ctx context.Context) error
	Close() error
}

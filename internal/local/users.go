package local

import (
	"context"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
)

// Users stores user records on the device for the local-only variant.
// The email index makes creation unique per normalized address.
type Users struct {
	entity *Entity[domain.User]
}

var _ store.UserRepository = (*Users)(nil)

// NewUsers creates the local user repository on db.
func NewUsers(db *DB) *Users {
	return &Users{
		entity: NewEntity[domain.User](db, "user:").
			WithIndex("email",
				func(u *domain.User) []string {
					return []string{domain.NormalizeEmail(u.Email)}
				},
				domain.NormalizeEmail,
			),
	}
}

// CreateUser stores user. Returns store.ErrAlreadyExists if the id or email is taken.
func (u *Users) CreateUser(ctx context.Context, user *domain.User) error {
	return u.entity.Create(ctx, user.ID, user)
}

// GetUser retrieves a user by id.
func (u *Users) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return u.entity.Get(ctx, id)
}

// GetUserByEmail retrieves a user by normalized email.
func (u *Users) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.entity.GetByIndex(ctx, "email", email)
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
)

// CreateUser inserts a user. Returns store.ErrAlreadyExists when the id or
// normalized email is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	query :=
		`INSERT INTO users (id, email, email_lower, name, avatar, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		user.ID, user.Email, domain.NormalizeEmail(user.Email), user.Name, user.Avatar, user.CreatedAt)
	if err != nil {
		if pgCode(err) == codeUniqueViolation {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	query :=
		`SELECT id, email, name, avatar, created_at FROM users
		 WHERE id = $1`

	return s.getUser(ctx, query, id)
}

// GetUserByEmail retrieves a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query :=
		`SELECT id, email, name, avatar, created_at FROM users
		 WHERE email_lower = $1`

	return s.getUser(ctx, query, domain.NormalizeEmail(email))
}

func (s *Store) getUser(ctx context.Context, query string, arg string) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Name, &u.Avatar, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
)

func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	return json.Marshal(tags)
}

func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var (
		p    domain.Prompt
		tags []byte
	)
	if err := scanner.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Content, &tags, &p.Category, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Tags = []string{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &p, nil
}

// InsertPrompt stores a prompt row as given.
func (s *Store) InsertPrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	query :=
		`INSERT INTO prompts (id, owner_id, title, content, tags, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.db.ExecContext(ctx, query, p.ID, p.OwnerID, p.Title, p.Content, tags, p.Category, p.CreatedAt)
	if err != nil {
		switch pgCode(err) {
		case codeUniqueViolation:
			return store.ErrAlreadyExists
		case codeForeignKeyViolation:
			return store.NotFound("user", p.OwnerID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetPrompt retrieves a prompt by id.
func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	query :=
		`SELECT id, owner_id, title, content, tags, category, created_at FROM prompts
		 WHERE id = $1`

	p, err := scanPrompt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

// ListPrompts returns the owner's prompts, newest first.
func (s *Store) ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error) {
	query :=
		`SELECT id, owner_id, title, content, tags, category, created_at FROM prompts
		 WHERE owner_id = $1
		 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	prompts := []domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return prompts, nil
}

// UpdatePrompt rewrites the mutable columns of an existing prompt.
func (s *Store) UpdatePrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := marshalTags(p.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	query :=
		`UPDATE prompts SET title = $1, content = $2, tags = $3, category = $4
		 WHERE id = $5`

	result, err := s.db.ExecContext(ctx, query, p.Title, p.Content, tags, p.Category, p.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(result)
}

// DeletePrompt removes a prompt.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

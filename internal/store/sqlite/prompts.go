package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
)

const promptColumns = `id, owner_id, title, content, tags, category, created_at`

func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var (
		p    domain.Prompt
		tags string
	)
	if err := scanner.Scan(&p.ID, &p.OwnerID, &p.Title, &p.Content, &tags, &p.Category, &p.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	p.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InsertPrompt stores a prompt row exactly as given, including its ID and
// creation time. Returns store.ErrAlreadyExists on an ID collision and
// store.ErrNotFound when the owner does not exist.
func (s *Store) InsertPrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompts (`+promptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Title, p.Content, tags, p.Category, p.CreatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return store.ErrAlreadyExists
		case isForeignKeyViolation(err):
			return store.NotFound("user", p.OwnerID)
		}
		return err
	}
	return nil
}

// GetPrompt retrieves a prompt by ID.
func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE id = ?`, id)

	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPrompts returns the owner's prompts ordered by creation time, newest first.
func (s *Store) ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts WHERE owner_id = ? ORDER BY created_at DESC, rowid ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prompts := []domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prompts, nil
}

// UpdatePrompt rewrites the mutable columns of an existing prompt.
// Returns store.ErrNotFound if no row has the prompt's ID.
func (s *Store) UpdatePrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE prompts SET title = ?, content = ?, tags = ?, category = ?
		WHERE id = ?`,
		p.Title, p.Content, tags, p.Category, p.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeletePrompt removes a prompt. Returns store.ErrNotFound if it does not exist.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

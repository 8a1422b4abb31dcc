// Package migration moves the device-local prompt collection to the server
// of record, exactly once per user decision and without duplicates.
package migration

import (
	"context"
	"fmt"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/id"
)

// Destination is where Apply writes. store.Repository satisfies it.
type Destination interface {
	ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error)
	InsertPrompt(ctx context.Context, prompt *domain.Prompt) error
}

// Apply re-parents records to ownerID and inserts every record whose dedup
// key is not already present, either in the destination or earlier in the
// batch. CreatedAt is preserved. Records keep their id unless it is empty
// or already taken, in which case a fresh one is assigned.
//
// Apply stops at the first failed insert and returns the partial result
// with the error; records already inserted stay inserted, and re-running is
// safe because they will then be skipped as duplicates.
func Apply(ctx context.Context, dst Destination, ownerID string, records []domain.Prompt) (*domain.MigrationResult, error) {
	result := &domain.MigrationResult{OwnerID: ownerID, Total: len(records)}

	existing, err := dst.ListPrompts(ctx, ownerID)
	if err != nil {
		return result, fmt.Errorf("list existing prompts: %w", err)
	}

	seen := make(map[domain.DedupKey]struct{}, len(existing)+len(records))
	for i := range existing {
		seen[existing[i].Key()] = struct{}{}
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		p := rec.Clone()
		p.OwnerID = ownerID

		key := p.Key()
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}

		if err := insert(ctx, dst, &p); err != nil {
			return result, fmt.Errorf("insert prompt %q: %w", p.Title, err)
		}
		seen[key] = struct{}{}
		result.Migrated++
	}

	result.Message = Summary(result)
	return result, nil
}

// insert writes p, assigning a server id when the record has none or its
// id collides with a row that has a different dedup key.
func insert(ctx context.Context, dst Destination, p *domain.Prompt) error {
	if p.ID != "" {
		err := dst.InsertPrompt(ctx, p)
		if !domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			return err
		}
	}

	newID, err := id.Generate(id.PrefixPrompt)
	if err != nil {
		return err
	}
	p.ID = newID
	return dst.InsertPrompt(ctx, p)
}

// Summary renders the human-readable outcome of a run.
func Summary(r *domain.MigrationResult) string {
	switch {
	case r.Migrated == 0 && r.Skipped > 0:
		return fmt.Sprintf("all %d prompts were already migrated", r.Skipped)
	case r.Skipped > 0:
		return fmt.Sprintf("%d prompts migrated successfully (%d duplicates skipped)", r.Migrated, r.Skipped)
	default:
		return fmt.Sprintf("%d prompts migrated successfully", r.Migrated)
	}
}

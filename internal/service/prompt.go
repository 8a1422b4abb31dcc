package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/id"
	"github.com/promptozer/promptozer/internal/migration"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/promptozer/promptozer/internal/validation"
)

// PromptService is the server-of-record prompt store. It owns id and
// timestamp assignment and implements both store.PromptStore and
// migration.Target.
type PromptService struct {
	repo      store.Repository
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

var (
	_ store.PromptStore = (*PromptService)(nil)
	_ migration.Target  = (*PromptService)(nil)
)

// NewPromptService creates a new prompt service.
func NewPromptService(repo store.Repository, logger *slog.Logger) *PromptService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &PromptService{
		repo:      repo,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// ListPrompts returns the owner's prompts, newest first.
func (s *PromptService) ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error) {
	return s.repo.ListPrompts(ctx, ownerID)
}

// CreatePrompt validates and stores a new prompt.
func (s *PromptService) CreatePrompt(ctx context.Context, in domain.NewPrompt) (*domain.Prompt, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	promptID, err := id.Generate(id.PrefixPrompt)
	if err != nil {
		return nil, err
	}

	p := in.Build(promptID, s.now().UnixMilli())
	if err := s.repo.InsertPrompt(ctx, &p); err != nil {
		return nil, err
	}

	s.logger.Debug("prompt created", "prompt_id", p.ID, "owner_id", p.OwnerID)
	return &p, nil
}

// UpdatePrompt applies a partial update.
func (s *PromptService) UpdatePrompt(ctx context.Context, promptID string, patch domain.PromptPatch) (*domain.Prompt, error) {
	if err := s.validator.Validate(patch); err != nil {
		return nil, err
	}

	p, err := s.repo.GetPrompt(ctx, promptID)
	if err != nil {
		return nil, notFoundAs(err, "prompt", promptID)
	}
	if patch.IsEmpty() {
		return p, nil
	}

	patch.Apply(p)
	if err := s.repo.UpdatePrompt(ctx, p); err != nil {
		return nil, notFoundAs(err, "prompt", promptID)
	}
	return p, nil
}

// DeletePrompt removes a prompt.
func (s *PromptService) DeletePrompt(ctx context.Context, promptID string) error {
	if err := s.repo.DeletePrompt(ctx, promptID); err != nil {
		return notFoundAs(err, "prompt", promptID)
	}
	s.logger.Debug("prompt deleted", "prompt_id", promptID)
	return nil
}

// Migrate imports a batch of client-side prompts for ownerID, skipping
// duplicates. The owner must exist.
func (s *PromptService) Migrate(ctx context.Context, ownerID string, prompts []domain.Prompt) (*domain.MigrationResult, error) {
	if _, err := s.repo.GetUser(ctx, ownerID); err != nil {
		return nil, notFoundAs(err, "user", ownerID)
	}

	result, err := migration.Apply(ctx, s.repo, ownerID, prompts)
	if err != nil {
		s.logger.Error("migration aborted",
			"owner_id", ownerID,
			"migrated", result.Migrated,
			"error", err,
		)
		return result, fmt.Errorf("migrate prompts: %w", err)
	}

	s.logger.Info("migration applied",
		"owner_id", ownerID,
		"migrated", result.Migrated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// notFoundAs replaces a bare repository NotFound with one naming the record.
func notFoundAs(err error, kind, recordID string) error {
	if domainerrors.Is(err, domainerrors.ErrNotFound) {
		return store.NotFound(kind, recordID)
	}
	return err
}

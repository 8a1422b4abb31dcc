package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptozer/promptozer/internal/api/dto"
	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createPrompt",
		Method:        http.MethodPost,
		Path:          "/api/v1/prompts",
		Summary:       "Create prompt",
		Description:   "Creates a prompt; the server assigns its ID and creation time",
		Tags:          []string{"Prompts"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPatch,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Changes only the provided fields",
		Tags:        []string{"Prompts"},
	}, s.handleUpdatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deletePrompt",
		Method:        http.MethodDelete,
		Path:          "/api/v1/prompts/{id}",
		Summary:       "Delete prompt",
		Description:   "Deletes a prompt",
		Tags:          []string{"Prompts"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeletePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "migratePrompts",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/migrate",
		Summary:     "Migrate local prompts",
		Description: "Imports a device-local collection for a user, skipping prompts the user already has with the same title and content. Safe to repeat.",
		Tags:        []string{"Prompts", "Migration"},
	}, s.handleMigratePrompts)
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *dto.CreatePromptInput) (*dto.PromptOutput, error) {
	p, err := s.services.Prompt.CreatePrompt(ctx, input.Body.ToDomain())
	if err != nil {
		return nil, err
	}
	return &dto.PromptOutput{Body: dto.NewPromptResponse(p)}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *dto.UpdatePromptInput) (*dto.PromptOutput, error) {
	p, err := s.services.Prompt.UpdatePrompt(ctx, input.ID, input.Body.ToDomain())
	if err != nil {
		return nil, err
	}
	return &dto.PromptOutput{Body: dto.NewPromptResponse(p)}, nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, input *dto.IDPathInput) (*struct{}, error) {
	if err := s.services.Prompt.DeletePrompt(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleMigratePrompts(ctx context.Context, input *dto.MigrateInput) (*dto.MigrateOutput, error) {
	records := make([]domain.Prompt, len(input.Body.Prompts))
	for i, p := range input.Body.Prompts {
		records[i] = p.ToDomain()
	}

	result, err := s.services.Prompt.Migrate(ctx, input.Body.OwnerID, records)
	if err != nil {
		if result == nil {
			return nil, err
		}
		s.logger.Error("migration request failed",
			"owner_id", input.Body.OwnerID,
			"migrated", result.Migrated,
			"error", err,
		)
		return nil, domainerrors.Wrapf(err, domainerrors.CodeOf(err),
			"migration stopped after %d of %d prompts", result.Migrated, result.Total).
			WithDetails(dto.MigrateFailureDetails{
				MigratedCount: result.Migrated,
				SkippedCount:  result.Skipped,
			})
	}
	return &dto.MigrateOutput{Body: dto.NewMigrateResponse(result)}, nil
}

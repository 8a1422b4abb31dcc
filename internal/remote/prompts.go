package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/promptozer/promptozer/internal/api/dto"
	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/migration"
	"github.com/promptozer/promptozer/internal/store"
)

var (
	_ store.PromptStore = (*Client)(nil)
	_ migration.Target  = (*Client)(nil)
)

// ListPrompts returns the owner's prompts, newest first.
func (c *Client) ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error) {
	if ownerID == "" {
		return []domain.Prompt{}, nil
	}

	var out dto.ListResponse[dto.PromptResponse]
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(ownerID)+"/prompts", nil, &out); err != nil {
		return nil, err
	}

	prompts := make([]domain.Prompt, len(out.Items))
	for i, p := range out.Items {
		prompts[i] = p.ToDomain()
	}
	return prompts, nil
}

// CreatePrompt creates a prompt on the server.
func (c *Client) CreatePrompt(ctx context.Context, in domain.NewPrompt) (*domain.Prompt, error) {
	req := dto.CreatePromptRequest{
		OwnerID:  in.OwnerID,
		Title:    in.Title,
		Content:  in.Content,
		Tags:     in.Tags,
		Category: in.Category,
	}

	var out dto.PromptResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/prompts", req, &out); err != nil {
		return nil, err
	}
	p := out.ToDomain()
	return &p, nil
}

// UpdatePrompt sends a partial update.
func (c *Client) UpdatePrompt(ctx context.Context, promptID string, patch domain.PromptPatch) (*domain.Prompt, error) {
	if promptID == "" {
		return nil, store.NotFound("prompt", promptID)
	}

	var out dto.PromptResponse
	if err := c.do(ctx, http.MethodPatch, "/api/v1/prompts/"+url.PathEscape(promptID), dto.NewUpdatePromptRequest(patch), &out); err != nil {
		return nil, err
	}
	p := out.ToDomain()
	return &p, nil
}

// DeletePrompt deletes a prompt.
func (c *Client) DeletePrompt(ctx context.Context, promptID string) error {
	if promptID == "" {
		return store.NotFound("prompt", promptID)
	}
	return c.do(ctx, http.MethodDelete, "/api/v1/prompts/"+url.PathEscape(promptID), nil, nil)
}

// Migrate uploads a local collection for ownerID. On failure the returned
// result carries whatever progress the server reported.
func (c *Client) Migrate(ctx context.Context, ownerID string, prompts []domain.Prompt) (*domain.MigrationResult, error) {
	req := dto.MigrateRequest{
		OwnerID: ownerID,
		Prompts: dto.NewPromptResponses(prompts),
	}

	var out dto.MigrateResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/prompts/migrate", req, &out); err != nil {
		return partialResult(ownerID, len(prompts), err), err
	}
	return out.ToDomain(), nil
}

// partialResult extracts migrated/skipped counts from a failed migration's
// error details. It returns nil when the server reported none.
func partialResult(ownerID string, total int, err error) *domain.MigrationResult {
	var domainErr *domainerrors.Error
	if !domainerrors.As(err, &domainErr) || domainErr.Details == nil {
		return nil
	}

	raw, mErr := json.Marshal(domainErr.Details)
	if mErr != nil {
		return nil
	}
	var details dto.MigrateFailureDetails
	if json.Unmarshal(raw, &details) != nil {
		return nil
	}
	return &domain.MigrationResult{
		OwnerID:  ownerID,
		Total:    total,
		Migrated: details.MigratedCount,
		Skipped:  details.SkippedCount,
	}
}

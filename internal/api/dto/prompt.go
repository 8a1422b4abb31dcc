package dto

import (
	"slices"

	"github.com/promptozer/promptozer/internal/domain"
)

// PromptResponse is a prompt as returned by the API. It is also the record
// shape accepted by the migrate endpoint.
type PromptResponse struct {
	ID        string   `json:"id" doc:"Prompt ID"`
	OwnerID   string   `json:"owner_id" doc:"Owning user ID"`
	Title     string   `json:"title" doc:"Title"`
	Content   string   `json:"content" doc:"Prompt text"`
	Tags      []string `json:"tags" doc:"Ordered tags, duplicates allowed"`
	Category  string   `json:"category" doc:"Category, empty when unset"`
	CreatedAt int64    `json:"created_at" doc:"Creation time, milliseconds since epoch"`
}

// NewPromptResponse converts a domain prompt.
func NewPromptResponse(p *domain.Prompt) PromptResponse {
	tags := slices.Clone(p.Tags)
	if tags == nil {
		tags = []string{}
	}
	return PromptResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      tags,
		Category:  p.Category,
		CreatedAt: p.CreatedAt,
	}
}

// NewPromptResponses converts a slice of domain prompts.
func NewPromptResponses(prompts []domain.Prompt) []PromptResponse {
	out := make([]PromptResponse, len(prompts))
	for i := range prompts {
		out[i] = NewPromptResponse(&prompts[i])
	}
	return out
}

// ToDomain converts back to a domain prompt.
func (r PromptResponse) ToDomain() domain.Prompt {
	tags := slices.Clone(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.Prompt{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      tags,
		Category:  r.Category,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
	}
}

// PromptOutput wraps a prompt for huma.
type PromptOutput struct {
	Body PromptResponse
}

// PromptListOutput wraps a prompt list for huma.
type PromptListOutput struct {
	Body ListResponse[PromptResponse]
}

// CreatePromptRequest is the request body for creating a prompt.
type CreatePromptRequest struct {
	OwnerID  string   `json:"owner_id" doc:"Owning user ID"`
	Title    string   `json:"title" doc:"Title"`
	Content  string   `json:"content" doc:"Prompt text"`
	Tags     []string `json:"tags,omitempty" doc:"Ordered tags"`
	Category string   `json:"category,omitempty" doc:"Category"`
}

// CreatePromptInput wraps the create request for huma.
type CreatePromptInput struct {
	Body CreatePromptRequest
}

// ToDomain converts to creation input.
func (r CreatePromptRequest) ToDomain() domain.NewPrompt {
	return domain.NewPrompt{
		OwnerID:  r.OwnerID,
		Title:    r.Title,
		Content:  r.Content,
		Tags:     r.Tags,
		Category: r.Category,
	}
}

// UpdatePromptRequest is a partial update; absent fields are left unchanged.
type UpdatePromptRequest struct {
	Title    *string   `json:"title,omitempty" doc:"New title"`
	Content  *string   `json:"content,omitempty" doc:"New prompt text"`
	Tags     *[]string `json:"tags,omitempty" doc:"Replacement tag list"`
	Category *string   `json:"category,omitempty" doc:"New category"`
}

// NewUpdatePromptRequest converts a domain patch.
func NewUpdatePromptRequest(p domain.PromptPatch) UpdatePromptRequest {
	return UpdatePromptRequest{Title: p.Title, Content: p.Content, Tags: p.Tags, Category: p.Category}
}

// ToDomain converts to a domain patch.
func (r UpdatePromptRequest) ToDomain() domain.PromptPatch {
	return domain.PromptPatch{Title: r.Title, Content: r.Content, Tags: r.Tags, Category: r.Category}
}

// UpdatePromptInput wraps the update request for huma.
type UpdatePromptInput struct {
	ID   string `path:"id" minLength:"1" doc:"Prompt ID"`
	Body UpdatePromptRequest
}

// MigrateRequest carries a device's local collection to the server.
type MigrateRequest struct {
	OwnerID string           `json:"owner_id" minLength:"1" doc:"User that will own every migrated prompt"`
	Prompts []PromptResponse `json:"prompts" doc:"Local prompts; their owner_id is ignored"`
}

// MigrateInput wraps the migrate request for huma.
type MigrateInput struct {
	Body MigrateRequest
}

// MigrateResponse reports a completed migration.
type MigrateResponse struct {
	OwnerID       string `json:"owner_id" doc:"Effective owner"`
	Total         int    `json:"total" doc:"Prompts received"`
	MigratedCount int    `json:"migrated_count" doc:"Prompts inserted"`
	SkippedCount  int    `json:"skipped_count" doc:"Duplicates skipped"`
	Message       string `json:"message" doc:"Human-readable summary"`
}

// MigrateOutput wraps the migrate response for huma.
type MigrateOutput struct {
	Body MigrateResponse
}

// MigrateFailureDetails is attached to a failed migration's error body.
type MigrateFailureDetails struct {
	MigratedCount int `json:"migrated_count"`
	SkippedCount  int `json:"skipped_count"`
}

// NewMigrateResponse converts a domain result.
func NewMigrateResponse(r *domain.MigrationResult) MigrateResponse {
	return MigrateResponse{
		OwnerID:       r.OwnerID,
		Total:         r.Total,
		MigratedCount: r.Migrated,
		SkippedCount:  r.Skipped,
		Message:       r.Message,
	}
}

// ToDomain converts back to a domain result.
func (r MigrateResponse) ToDomain() *domain.MigrationResult {
	return &domain.MigrationResult{
		OwnerID:  r.OwnerID,
		Total:    r.Total,
		Migrated: r.MigratedCount,
		Skipped:  r.SkippedCount,
		Message:  r.Message,
	}
}

package domain

import (
	"cmp"
	"slices"
)

// Prompt is a single entry in a user's prompt library.
// JSON field names match the device-local collection format.
type Prompt struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Category  string   `json:"category"`
	OwnerID   string   `json:"ownerId"`
	CreatedAt int64    `json:"createdAt"` // milliseconds since epoch
}

// DedupKey identifies a prompt for duplicate detection during migration.
// Matching is exact: no case folding, no whitespace trimming.
type DedupKey struct {
	OwnerID string
	Title   string
	Content string
}

// Key returns the prompt's dedup key under its current owner.
func (p *Prompt) Key() DedupKey {
	return DedupKey{OwnerID: p.OwnerID, Title: p.Title, Content: p.Content}
}

// Clone returns a deep copy so callers can't alias the tag slice.
func (p Prompt) Clone() Prompt {
	p.Tags = slices.Clone(p.Tags)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return p
}

// SortNewestFirst orders prompts by CreatedAt descending. Ties keep their
// relative order.
func SortNewestFirst(prompts []Prompt) {
	slices.SortStableFunc(prompts, func(a, b Prompt) int {
		return cmp.Compare(b.CreatedAt, a.CreatedAt)
	})
}

// NewPrompt is the input for creating a prompt.
type NewPrompt struct {
	OwnerID  string   `json:"owner_id" validate:"required"`
	Title    string   `json:"title" validate:"required"`
	Content  string   `json:"content" validate:"required"`
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
}

// Build turns the input into a prompt with the given id and creation time.
func (n NewPrompt) Build(id string, createdAt int64) Prompt {
	tags := slices.Clone(n.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Prompt{
		ID:        id,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		Category:  n.Category,
		OwnerID:   n.OwnerID,
		CreatedAt: createdAt,
	}
}

// PromptPatch is a partial update. Nil fields are left unchanged.
type PromptPatch struct {
	Title    *string   `json:"title,omitempty" validate:"omitnil,min=1"`
	Content  *string   `json:"content,omitempty" validate:"omitnil,min=1"`
	Tags     *[]string `json:"tags,omitempty"`
	Category *string   `json:"category,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p PromptPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.Category == nil
}

// Apply writes the provided fields onto prompt.
func (p PromptPatch) Apply(prompt *Prompt) {
	if p.Title != nil {
		prompt.Title = *p.Title
	}
	if p.Content != nil {
		prompt.Content = *p.Content
	}
	if p.Tags != nil {
		prompt.Tags = slices.Clone(*p.Tags)
		if prompt.Tags == nil {
			prompt.Tags = []string{}
		}
	}
	if p.Category != nil {
		prompt.Category = *p.Category
	}
}

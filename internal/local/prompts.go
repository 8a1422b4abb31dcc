package local

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/id"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/promptozer/promptozer/internal/validation"
)

// Prompts is the device-local PromptStore. All owners share the single
// collection slot; reads filter by owner.
type Prompts struct {
	slots     *Slots
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time

	mu sync.Mutex // serializes read-modify-write of the slot
}

var _ store.PromptStore = (*Prompts)(nil)

// NewPrompts creates the local prompt store.
func NewPrompts(slots *Slots, logger *slog.Logger) *Prompts {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prompts{
		slots:     slots,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// ListPrompts returns the owner's local prompts, newest first.
func (p *Prompts) ListPrompts(ctx context.Context, ownerID string) ([]domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := p.slots.Prompts()
	if err != nil {
		return nil, err
	}

	owned := []domain.Prompt{}
	for _, pr := range all {
		if pr.OwnerID == ownerID {
			owned = append(owned, pr)
		}
	}
	domain.SortNewestFirst(owned)
	return owned, nil
}

// CreatePrompt adds a prompt to the front of the collection.
func (p *Prompts) CreatePrompt(ctx context.Context, in domain.NewPrompt) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.validator.Validate(in); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.slots.Prompts()
	if err != nil {
		return nil, err
	}

	created := in.Build(id.Legacy(), p.now().UnixMilli())
	all = slices.Insert(all, 0, created)
	if err := p.slots.SavePrompts(all); err != nil {
		return nil, err
	}

	p.logger.Debug("local prompt created", "prompt_id", created.ID, "owner_id", created.OwnerID)
	return &created, nil
}

// UpdatePrompt applies patch to the prompt with the given id.
func (p *Prompts) UpdatePrompt(ctx context.Context, promptID string, patch domain.PromptPatch) (*domain.Prompt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := p.validator.Validate(patch); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.slots.Prompts()
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(all, func(pr domain.Prompt) bool { return pr.ID == promptID })
	if i < 0 {
		return nil, store.NotFound("prompt", promptID)
	}

	patch.Apply(&all[i])
	if err := p.slots.SavePrompts(all); err != nil {
		return nil, err
	}

	updated := all[i].Clone()
	return &updated, nil
}

// DeletePrompt removes the prompt with the given id.
func (p *Prompts) DeletePrompt(ctx context.Context, promptID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	all, err := p.slots.Prompts()
	if err != nil {
		return err
	}

	i := slices.IndexFunc(all, func(pr domain.Prompt) bool { return pr.ID == promptID })
	if i < 0 {
		return store.NotFound("prompt", promptID)
	}

	return p.slots.SavePrompts(slices.Delete(all, i, i+1))
}

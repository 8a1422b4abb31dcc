// Package client is the synchronization facade the presentation layer talks
// to: a cached, owner-bound view of the active prompt store plus the login
// session and the one-time migration flow.
package client

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
)

// Library is the prompt list of one owner. Mutations go to the store first;
// the cached view changes only after the store confirms.
type Library struct {
	store   store.PromptStore
	ownerID string
	logger  *slog.Logger

	mu    sync.RWMutex
	cache []domain.Prompt
}

// NewLibrary binds a library to ownerID. The cache starts empty; call Refresh.
func NewLibrary(st store.PromptStore, ownerID string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Library{
		store:   st,
		ownerID: ownerID,
		logger:  logger,
		cache:   []domain.Prompt{},
	}
}

// OwnerID returns the owner the library is bound to.
func (l *Library) OwnerID() string {
	return l.ownerID
}

// Refresh reloads the cached view from the store. On failure the previous
// view is kept.
func (l *Library) Refresh(ctx context.Context) error {
	prompts, err := l.store.ListPrompts(ctx, l.ownerID)
	if err != nil {
		l.logger.Warn("refresh failed", "owner_id", l.ownerID, "error", err)
		return err
	}

	prompts = slices.Clone(prompts)
	domain.SortNewestFirst(prompts)

	l.mu.Lock()
	l.cache = prompts
	l.mu.Unlock()
	return nil
}

// Prompts returns a copy of the cached view, newest first.
func (l *Library) Prompts() []domain.Prompt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clonePrompts(l.cache)
}

// Search filters the cached view by a case-insensitive substring of the
// title, the content or any tag. An empty query matches everything.
// Matching uses Unicode case folding.
func (l *Library) Search(query string) []domain.Prompt {
	// A Caser keeps state; each call gets its own.
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return l.Prompts()
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []domain.Prompt{}
	for _, p := range l.cache {
		if matches(fold, p, q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func matches(fold cases.Caser, p domain.Prompt, q string) bool {
	if strings.Contains(fold.String(p.Title), q) || strings.Contains(fold.String(p.Content), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(tag string) bool {
		return strings.Contains(fold.String(tag), q)
	})
}

// Add creates a prompt for the library's owner; in.OwnerID is ignored.
func (l *Library) Add(ctx context.Context, in domain.NewPrompt) (*domain.Prompt, error) {
	in.OwnerID = l.ownerID
	p, err := l.store.CreatePrompt(ctx, in)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache = append([]domain.Prompt{p.Clone()}, l.cache...)
	domain.SortNewestFirst(l.cache)
	l.mu.Unlock()

	return p, nil
}

// Update applies a partial update.
func (l *Library) Update(ctx context.Context, promptID string, patch domain.PromptPatch) (*domain.Prompt, error) {
	p, err := l.store.UpdatePrompt(ctx, promptID, patch)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if i := l.indexOf(promptID); i >= 0 {
		l.cache[i] = p.Clone()
	}
	l.mu.Unlock()

	return p, nil
}

// Delete removes a prompt.
func (l *Library) Delete(ctx context.Context, promptID string) error {
	if err := l.store.DeletePrompt(ctx, promptID); err != nil {
		return err
	}

	l.mu.Lock()
	if i := l.indexOf(promptID); i >= 0 {
		l.cache = slices.Delete(l.cache, i, i+1)
	}
	l.mu.Unlock()

	return nil
}

// indexOf must be called with mu held.
func (l *Library) indexOf(promptID string) int {
	return slices.IndexFunc(l.cache, func(p domain.Prompt) bool { return p.ID == promptID })
}

func clonePrompts(in []domain.Prompt) []domain.Prompt {
	out := make([]domain.Prompt, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

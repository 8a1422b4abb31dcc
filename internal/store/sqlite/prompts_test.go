package sqlite

import (
	"context"
	"testing"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOwner(t *testing.T, s *Store, id string) {
	t.Helper()
	require.NoError(t, s.CreateUser(context.Background(), makeTestUser(id, id+"@example.com")))
}

func makeTestPrompt(id, owner string, createdAt int64) *domain.Prompt {
	return &domain.Prompt{
		ID:        id,
		OwnerID:   owner,
		Title:     "Title " + id,
		Content:   "Content " + id,
		Tags:      []string{"go", "go"},
		Category:  "Coding",
		CreatedAt: createdAt,
	}
}

func TestInsertAndGetPrompt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedOwner(t, s, "user-1")

	p := makeTestPrompt("prompt-1", "user-1", 1600000000000)
	require.NoError(t, s.InsertPrompt(ctx, p))

	got, err := s.GetPrompt(ctx, "prompt-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestInsertPrompt_UnknownOwner(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertPrompt(context.Background(), makeTestPrompt("prompt-1", "ghost", 1))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInsertPrompt_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedOwner(t, s, "user-1")

	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("prompt-1", "user-1", 1)))
	err := s.InsertPrompt(ctx, makeTestPrompt("prompt-1", "user-1", 2))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestListPrompts_NewestFirstAndScoped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedOwner(t, s, "user-1")
	seedOwner(t, s, "user-2")

	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("old", "user-1", 100)))
	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("new", "user-1", 300)))
	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("mid", "user-1", 200)))
	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("other", "user-2", 999)))

	got, err := s.ListPrompts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "mid", got[1].ID)
	assert.Equal(t, "old", got[2].ID)
}

func TestListPrompts_UnknownOwnerIsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.ListPrompts(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpdatePrompt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedOwner(t, s, "user-1")

	p := makeTestPrompt("prompt-1", "user-1", 1)
	require.NoError(t, s.InsertPrompt(ctx, p))

	p.Title = "Renamed"
	p.Tags = []string{}
	p.CreatedAt = 999 // not a mutable column
	require.NoError(t, s.UpdatePrompt(ctx, p))

	got, err := s.GetPrompt(ctx, "prompt-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, []string{}, got.Tags)
	assert.Equal(t, int64(1), got.CreatedAt)
}

func TestUpdateAndDeletePrompt_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdatePrompt(ctx, makeTestPrompt("missing", "user-1", 1)), store.ErrNotFound)
	assert.ErrorIs(t, s.DeletePrompt(ctx, "missing"), store.ErrNotFound)
}

func TestDeletePrompt_Twice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedOwner(t, s, "user-1")
	require.NoError(t, s.InsertPrompt(ctx, makeTestPrompt("prompt-1", "user-1", 1)))

	require.NoError(t, s.DeletePrompt(ctx, "prompt-1"))
	assert.ErrorIs(t, s.DeletePrompt(ctx, "prompt-1"), store.ErrNotFound)

	_, err := s.GetPrompt(ctx, "prompt-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

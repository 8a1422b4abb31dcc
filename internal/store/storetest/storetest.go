// Package storetest holds a conformance suite every store.PromptStore
// implementation runs in its own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixture is a fresh store plus two owners it accepts prompts for.
type Fixture struct {
	Store  store.PromptStore
	OwnerA string
	OwnerB string
}

func ptr[T any](v T) *T { return &v }

// RunPromptStore runs the contract against stores built by newFixture.
// Each subtest gets its own fixture.
func RunPromptStore(t *testing.T, newFixture func(t *testing.T) Fixture) {
	t.Helper()
	ctx := context.Background()

	t.Run("create then list", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.Store.CreatePrompt(ctx, domain.NewPrompt{
			OwnerID: f.OwnerA, Title: "Title", Content: "Body", Tags: []string{"a", "a"}, Category: "Writing",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotZero(t, created.CreatedAt)
		assert.Equal(t, []string{"a", "a"}, created.Tags)

		got, err := f.Store.ListPrompts(ctx, f.OwnerA)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, *created, got[0])
	})

	t.Run("list is scoped to owner", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.Store.CreatePrompt(ctx, domain.NewPrompt{OwnerID: f.OwnerA, Title: "A", Content: "a"})
		require.NoError(t, err)
		_, err = f.Store.CreatePrompt(ctx, domain.NewPrompt{OwnerID: f.OwnerB, Title: "B", Content: "b"})
		require.NoError(t, err)

		got, err := f.Store.ListPrompts(ctx, f.OwnerB)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "B", got[0].Title)
	})

	t.Run("list for unknown owner is empty", func(t *testing.T) {
		f := newFixture(t)

		got, err := f.Store.ListPrompts(ctx, "owner-that-does-not-exist")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("create requires title content and owner", func(t *testing.T) {
		f := newFixture(t)

		for _, in := range []domain.NewPrompt{
			{OwnerID: f.OwnerA, Content: "c"},
			{OwnerID: f.OwnerA, Title: "t"},
			{Title: "t", Content: "c"},
		} {
			_, err := f.Store.CreatePrompt(ctx, in)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		}

		got, err := f.Store.ListPrompts(ctx, f.OwnerA)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("update is partial", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.Store.CreatePrompt(ctx, domain.NewPrompt{
			OwnerID: f.OwnerA, Title: "T", Content: "C", Tags: []string{"x"}, Category: "Coding",
		})
		require.NoError(t, err)

		updated, err := f.Store.UpdatePrompt(ctx, created.ID, domain.PromptPatch{Content: ptr("C2")})
		require.NoError(t, err)
		assert.Equal(t, "T", updated.Title)
		assert.Equal(t, "C2", updated.Content)
		assert.Equal(t, []string{"x"}, updated.Tags)
		assert.Equal(t, "Coding", updated.Category)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
		assert.Equal(t, created.OwnerID, updated.OwnerID)
	})

	t.Run("update rejects emptied title", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.Store.CreatePrompt(ctx, domain.NewPrompt{OwnerID: f.OwnerA, Title: "T", Content: "C"})
		require.NoError(t, err)

		_, err = f.Store.UpdatePrompt(ctx, created.ID, domain.PromptPatch{Title: ptr("")})
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})

	t.Run("update unknown id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.Store.UpdatePrompt(ctx, "missing-id", domain.PromptPatch{Title: ptr("x")})
		assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	})

	t.Run("delete twice", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.Store.CreatePrompt(ctx, domain.NewPrompt{OwnerID: f.OwnerA, Title: "T", Content: "C"})
		require.NoError(t, err)

		require.NoError(t, f.Store.DeletePrompt(ctx, created.ID))
		assert.ErrorIs(t, f.Store.DeletePrompt(ctx, created.ID), domainerrors.ErrNotFound)

		got, err := f.Store.ListPrompts(ctx, f.OwnerA)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

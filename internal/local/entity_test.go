package local

import (
	"sync"
	"testing"

	"github.com/promptozer/promptozer/internal/domain"
	"github.com/promptozer/promptozer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_CreateAndLookup(t *testing.T) {
	users := NewUsers(newTestDB(t))

	u := domain.NewUserFromEmail("user-1", "Alice@Example.com", 1)
	require.NoError(t, users.CreateUser(ctx, &u))

	got, err := users.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	got, err = users.GetUserByEmail(ctx, " alice@EXAMPLE.com ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	_, err = users.GetUserByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_EmailIsUnique(t *testing.T) {
	users := NewUsers(newTestDB(t))

	a := domain.NewUserFromEmail("user-1", "a@example.com", 1)
	b := domain.NewUserFromEmail("user-2", "A@EXAMPLE.COM", 2)
	require.NoError(t, users.CreateUser(ctx, &a))
	assert.ErrorIs(t, users.CreateUser(ctx, &b), store.ErrAlreadyExists)

	dup := domain.NewUserFromEmail("user-1", "c@example.com", 3)
	assert.ErrorIs(t, users.CreateUser(ctx, &dup), store.ErrAlreadyExists)
}

func TestUsers_ConcurrentCreateHasOneWinner(t *testing.T) {
	users := NewUsers(newTestDB(t))

	const n = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u := domain.NewUserFromEmail(string(rune('a'+i)), "same@example.com", 1)
			errs[i] = users.CreateUser(ctx, &u)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, store.ErrAlreadyExists)
	}
	assert.Equal(t, 1, wins)
}

func TestEntity_DeleteAndList(t *testing.T) {
	db := newTestDB(t)
	e := NewEntity[domain.User](db, "user:").
		WithIndex("email", func(u *domain.User) []string { return []string{u.Email} }, nil)

	for _, id := range []string{"1", "2", "3"} {
		u := domain.User{ID: id, Email: id + "@x"}
		require.NoError(t, e.Create(ctx, id, &u))
	}

	require.NoError(t, e.Delete(ctx, "2"))
	assert.ErrorIs(t, e.Delete(ctx, "2"), store.ErrNotFound)

	_, err := e.GetByIndex(ctx, "email", "2@x")
	assert.ErrorIs(t, err, store.ErrNotFound)

	var ids []string
	for u, err := range e.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"1", "3"}, ids)

	// The freed email can be claimed again.
	u := domain.User{ID: "4", Email: "2@x"}
	assert.NoError(t, e.Create(ctx, "4", &u))
}

package migration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/identity"
	"github.com/promptozer/promptozer/internal/local"
	"github.com/promptozer/promptozer/internal/migration"
	"github.com/promptozer/promptozer/internal/service"
	"github.com/promptozer/promptozer/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTarget struct {
	mock.Mock
}

func (m *mockTarget) Migrate(ctx context.Context, ownerID string, prompts []domain.Prompt) (*domain.MigrationResult, error) {
	args := m.Called(ctx, ownerID, prompts)
	r, _ := args.Get(0).(*domain.MigrationResult)
	return r, args.Error(1)
}

type mockIdentity struct {
	mock.Mock
}

func (m *mockIdentity) ResolveOrCreate(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockIdentity) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type harness struct {
	slots    *local.Slots
	repo     *sqlite.Store
	resolver *identity.Resolver
	engine   *migration.Engine
}

// newHarness wires the engine the way a client in remote mode sees it,
// with the server side running in-process.
func newHarness(t *testing.T, localPrompts ...domain.Prompt) *harness {
	t.Helper()

	db, err := local.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	slots := local.NewSlots(db)
	if len(localPrompts) > 0 {
		require.NoError(t, slots.SavePrompts(localPrompts))
	}

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "server.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	resolver := identity.NewResolver(repo, nil)
	engine := migration.NewEngine(slots, resolver, service.NewPromptService(repo, nil), nil)
	return &harness{slots: slots, repo: repo, resolver: resolver, engine: engine}
}

func sampleLocal() []domain.Prompt {
	return []domain.Prompt{
		{ID: "l2", OwnerID: "anonymous", Title: "Second", Content: "two", Tags: []string{"x"}, CreatedAt: 2000},
		{ID: "l1", OwnerID: "anonymous", Title: "First", Content: "one", Category: "Writing", CreatedAt: 1000},
	}
}

func TestEngine_StatusEligibility(t *testing.T) {
	ctx := context.Background()

	empty := newHarness(t)
	st, err := empty.engine.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Eligible)
	assert.Equal(t, domain.MarkerUnset, st.Marker)

	h := newHarness(t, sampleLocal()...)
	st, err = h.engine.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Eligible)
	assert.Equal(t, 2, st.LocalCount)

	require.NoError(t, h.slots.SetMarker(domain.MarkerSkipped))
	st, err = h.engine.Status(ctx)
	require.NoError(t, err)
	assert.False(t, st.Eligible)
}

func TestEngine_RunMigratesAndMarksDone(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, sampleLocal()...)

	user, err := h.resolver.ResolveOrCreate(ctx, "alice@example.com")
	require.NoError(t, err)

	result, err := h.engine.Run(ctx, user.ID, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.OwnerID)
	assert.Equal(t, 2, result.Migrated)

	marker, err := h.slots.Marker()
	require.NoError(t, err)
	assert.Equal(t, domain.MarkerDone, marker)

	remote, err := h.repo.ListPrompts(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, remote, 2)
	assert.Equal(t, "Second", remote[0].Title)
	assert.Equal(t, int64(2000), remote[0].CreatedAt)
	assert.Equal(t, int64(1000), remote[1].CreatedAt)
	assert.Equal(t, "Writing", remote[1].Category)

	// The local collection is left alone.
	still, err := h.slots.Prompts()
	require.NoError(t, err)
	assert.Len(t, still, 2)
	assert.Equal(t, "anonymous", still[0].OwnerID)
}

func TestEngine_RunTwiceCreatesNoDuplicates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, sampleLocal()...)

	user, err := h.resolver.ResolveOrCreate(ctx, "alice@example.com")
	require.NoError(t, err)

	_, err = h.engine.Run(ctx, user.ID, user.Email)
	require.NoError(t, err)

	again, err := h.engine.Run(ctx, user.ID, user.Email)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Migrated)
	assert.Equal(t, 2, again.Skipped)

	remote, err := h.repo.ListPrompts(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, remote, 2)
}

func TestEngine_RunRepairsIdentityDrift(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, sampleLocal()...)

	result, err := h.engine.Run(ctx, "user-from-a-wiped-server", "bob@example.com")
	require.NoError(t, err)

	bob, err := h.repo.GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, result.OwnerID)
	assert.NotEqual(t, "user-from-a-wiped-server", result.OwnerID)

	remote, err := h.repo.ListPrompts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, remote, 2)
}

func TestEngine_RunWithoutEmailIsUnresolved(t *testing.T) {
	ctx := context.Background()
	target := new(mockTarget)
	ident := new(mockIdentity)
	ident.On("GetUser", mock.Anything, "stale").Return(nil, domainerrors.NotFound("user stale not found"))

	db, err := local.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	slots := local.NewSlots(db)
	require.NoError(t, slots.SavePrompts(sampleLocal()))

	engine := migration.NewEngine(slots, ident, target, nil)
	_, err = engine.Run(ctx, "stale", "")
	assert.ErrorIs(t, err, domainerrors.ErrIdentityUnresolved)

	target.AssertNotCalled(t, "Migrate", mock.Anything, mock.Anything, mock.Anything)
	ident.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
	marker, _ := slots.Marker()
	assert.Equal(t, domain.MarkerUnset, marker)
}

func TestEngine_TransportFailureWhileResolvingIsNotDrift(t *testing.T) {
	ctx := context.Background()
	target := new(mockTarget)
	ident := new(mockIdentity)
	ident.On("GetUser", mock.Anything, "user-1").Return(nil, domainerrors.Transport("connection refused"))

	db, err := local.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	slots := local.NewSlots(db)
	require.NoError(t, slots.SavePrompts(sampleLocal()))

	engine := migration.NewEngine(slots, ident, target, nil)
	_, err = engine.Run(ctx, "user-1", "alice@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)

	ident.AssertNotCalled(t, "ResolveOrCreate", mock.Anything, mock.Anything)
	target.AssertNotCalled(t, "Migrate", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_TargetFailureLeavesMarkerUnset(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "user-1", Email: "alice@example.com"}

	ident := new(mockIdentity)
	ident.On("GetUser", mock.Anything, "user-1").Return(user, nil)
	target := new(mockTarget)
	target.On("Migrate", mock.Anything, "user-1", mock.Anything).
		Return(&domain.MigrationResult{Total: 2, Migrated: 1}, domainerrors.Transport("server went away"))

	db, err := local.OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	slots := local.NewSlots(db)
	require.NoError(t, slots.SavePrompts(sampleLocal()))

	engine := migration.NewEngine(slots, ident, target, nil)
	result, err := engine.Run(ctx, "user-1", "alice@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrTransport)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Migrated)
	assert.Equal(t, "user-1", result.OwnerID)

	marker, _ := slots.Marker()
	assert.Equal(t, domain.MarkerUnset, marker)
	st, err := engine.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Eligible)
}

func TestEngine_RunWithNoLocalPrompts(t *testing.T) {
	h := newHarness(t)

	_, err := h.engine.Run(context.Background(), "", "alice@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = h.repo.GetUserByEmail(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound, "no user is registered for an empty run")
}

func TestEngine_Decline(t *testing.T) {
	h := newHarness(t, sampleLocal()...)

	require.NoError(t, h.engine.Decline(context.Background()))

	marker, err := h.slots.Marker()
	require.NoError(t, err)
	assert.Equal(t, domain.MarkerSkipped, marker)

	st, err := h.engine.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Eligible)
}

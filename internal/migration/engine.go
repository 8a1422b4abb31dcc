package migration

import (
	"context"
	"log/slog"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
	"github.com/promptozer/promptozer/internal/identity"
)

// Target accepts a bulk migration. The server-side prompt service and the
// HTTP client both implement it. On failure the returned result, if any,
// reports what was written before the error.
type Target interface {
	Migrate(ctx context.Context, ownerID string, prompts []domain.Prompt) (*domain.MigrationResult, error)
}

// LocalState is the device-local side of a migration.
type LocalState interface {
	Prompts() ([]domain.Prompt, error)
	Marker() (domain.MigrationMarker, error)
	SetMarker(m domain.MigrationMarker) error
}

// Status describes whether the migration offer should be shown.
type Status struct {
	Marker     domain.MigrationMarker
	LocalCount int
	// Eligible is true when the marker is unset and at least one local
	// prompt exists, regardless of which owner id it carries.
	Eligible bool
}

// Engine runs the one-time local-to-server migration.
type Engine struct {
	local    LocalState
	identity identity.API
	target   Target
	logger   *slog.Logger
}

// NewEngine creates a migration engine.
func NewEngine(local LocalState, ident identity.API, target Target, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		local:    local,
		identity: ident,
		target:   target,
		logger:   logger,
	}
}

// Status reports the marker and the number of local prompts.
func (e *Engine) Status(_ context.Context) (Status, error) {
	marker, err := e.local.Marker()
	if err != nil {
		return Status{}, err
	}
	prompts, err := e.local.Prompts()
	if err != nil {
		return Status{}, err
	}
	return Status{
		Marker:     marker,
		LocalCount: len(prompts),
		Eligible:   !marker.IsSet() && len(prompts) > 0,
	}, nil
}

// ResolveOwner returns the user the migrated prompts should belong to.
// The stored id wins if the server still knows it; otherwise the session
// email is resolved (or registered) again. Only a definite NotFound falls
// through to the email: a transport failure is returned as is.
func (e *Engine) ResolveOwner(ctx context.Context, storedUserID, email string) (*domain.User, error) {
	if storedUserID != "" {
		u, err := e.identity.GetUser(ctx, storedUserID)
		if err == nil {
			return u, nil
		}
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}
		e.logger.Warn("stored user id unknown to server, re-resolving by email", "user_id", storedUserID)
	}

	if email == "" {
		return nil, domainerrors.IdentityUnresolved("session user no longer exists and has no email to re-resolve")
	}
	return e.identity.ResolveOrCreate(ctx, email)
}

// Run migrates every local prompt to the resolved owner. The marker is set
// to done only when the target accepts the whole batch; any failure leaves
// it untouched so the offer is shown again. The local collection is never
// modified.
func (e *Engine) Run(ctx context.Context, storedUserID, email string) (*domain.MigrationResult, error) {
	records, err := e.local.Prompts()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domainerrors.Validation("no local prompts to migrate")
	}

	owner, err := e.ResolveOwner(ctx, storedUserID, email)
	if err != nil {
		return nil, err
	}

	result, err := e.target.Migrate(ctx, owner.ID, records)
	if err != nil {
		e.logger.Warn("migration failed", "owner_id", owner.ID, "error", err)
		if result != nil {
			result.OwnerID = owner.ID
		}
		return result, err
	}
	result.OwnerID = owner.ID

	if err := e.local.SetMarker(domain.MarkerDone); err != nil {
		return result, err
	}

	e.logger.Info("migration complete",
		"owner_id", owner.ID,
		"migrated", result.Migrated,
		"skipped", result.Skipped,
	)
	return result, nil
}

// Decline records that the user dismissed the offer.
func (e *Engine) Decline(_ context.Context) error {
	return e.local.SetMarker(domain.MarkerSkipped)
}

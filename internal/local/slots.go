package local

import (
	"encoding/json"
	"fmt"

	"github.com/promptozer/promptozer/internal/domain"
	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

// Slot keys. The names are shared with the legacy web client's storage.
const (
	KeyPrompts         = "promptozer_prompts"
	KeyMigrationMarker = "promptozer_migration_done"
	KeyUser            = "promptozer_user"
)

// Slots reads and writes the well-known keys of the device store.
type Slots struct {
	kv KV
}

// NewSlots wraps kv.
func NewSlots(kv KV) *Slots {
	return &Slots{kv: kv}
}

// Prompts returns the whole local collection, across every owner, in
// stored order. A missing slot is an empty collection.
func (s *Slots) Prompts() ([]domain.Prompt, error) {
	raw, found, err := s.kv.Read(KeyPrompts)
	if err != nil {
		return nil, err
	}
	if !found || len(raw) == 0 {
		return []domain.Prompt{}, nil
	}

	var prompts []domain.Prompt
	if err := json.Unmarshal(raw, &prompts); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "local prompt collection is unreadable")
	}
	for i := range prompts {
		if prompts[i].Tags == nil {
			prompts[i].Tags = []string{}
		}
	}
	return prompts, nil
}

// SavePrompts replaces the local collection.
func (s *Slots) SavePrompts(prompts []domain.Prompt) error {
	if prompts == nil {
		prompts = []domain.Prompt{}
	}
	data, err := json.Marshal(prompts)
	if err != nil {
		return fmt.Errorf("encode prompts: %w", err)
	}
	return s.kv.Write(KeyPrompts, data)
}

// Marker returns the migration marker. A missing slot reads as unset.
func (s *Slots) Marker() (domain.MigrationMarker, error) {
	raw, found, err := s.kv.Read(KeyMigrationMarker)
	if err != nil {
		return domain.MarkerUnset, err
	}
	if !found {
		return domain.MarkerUnset, nil
	}
	return domain.ParseMigrationMarker(string(raw)), nil
}

// SetMarker persists m. Setting MarkerUnset clears the slot.
func (s *Slots) SetMarker(m domain.MigrationMarker) error {
	if m == domain.MarkerUnset {
		return s.kv.Delete(KeyMigrationMarker)
	}
	return s.kv.Write(KeyMigrationMarker, []byte(m))
}

// CachedUser returns the session user, or nil when nobody is logged in.
// An unreadable slot is treated as logged out.
func (s *Slots) CachedUser() (*domain.User, error) {
	raw, found, err := s.kv.Read(KeyUser)
	if err != nil || !found {
		return nil, err
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
		return nil, nil
	}
	return &u, nil
}

// SaveUser caches u as the session user.
func (s *Slots) SaveUser(u *domain.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Write(KeyUser, data)
}

// ClearUser forgets the session user.
func (s *Slots) ClearUser() error {
	return s.kv.Delete(KeyUser)
}

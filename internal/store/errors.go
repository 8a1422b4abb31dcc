package store

import (
	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

// Sentinel errors returned by repositories. They carry domain codes, so
// errors.Is matches both these values and the domainerrors sentinels.
var (
	ErrNotFound      = domainerrors.NotFound("resource not found")
	ErrAlreadyExists = domainerrors.AlreadyExists("resource already exists")
)

// NotFound returns ErrNotFound with a message naming the missing record.
func NotFound(kind, id string) error {
	return domainerrors.NotFoundf("%s %s not found", kind, id)
}

package client

import (
	"context"

	domainerrors "github.com/promptozer/promptozer/internal/errors"
)

// Describe turns any error into a message fit for the user. A nil error
// describes as "".
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if domainerrors.Is(err, context.Canceled) {
		return "Cancelled."
	}

	var e *domainerrors.Error
	if !domainerrors.As(err, &e) {
		return "Something went wrong: " + err.Error()
	}

	switch e.Code {
	case domainerrors.CodeValidation:
		return "Invalid input: " + e.Message
	case domainerrors.CodeNotFound:
		return "Not found: " + e.Message
	case domainerrors.CodeTransport:
		return "Could not reach the server. Check your connection and try again."
	case domainerrors.CodeIdentityUnresolved:
		return "Your session could not be matched to an account. Please log in again."
	case domainerrors.CodeRateLimited:
		return "Too many attempts. Wait a moment and try again."
	case domainerrors.CodeAlreadyExists:
		return "Already exists: " + e.Message
	default:
		return "Something went wrong: " + e.Message
	}
}

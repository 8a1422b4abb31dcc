// Package id generates record identifiers.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Prefixes for server-assigned identifiers.
const (
	PrefixPrompt = "prompt"
	PrefixUser   = "user"
)

// Generate creates a prefixed unique ID using NanoID
// Format: prefix-nanoid (e.g., "prompt-V1StGXR8_Z5jdHi6B-myT")
//
// Returns an error if the system has insufficient entropy for secure random generation.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}

// Legacy returns a bare random UUID, the format device-local prompts have
// always used. Records carrying such ids keep them when migrated.
func Legacy() string {
	return uuid.NewString()
}

package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestPrompts(t *testing.T) (*Prompts, *Slots) {
	t.Helper()
	slots := NewSlots(newTestDB(t))
	return NewPrompts(slots, nil), slots
}

var ctx = context.Background()

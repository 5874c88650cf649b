package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNullUUID(t *testing.T) {
	require.False(t, nullUUID(nil).Valid)

	id := uuid.New()
	n := nullUUID(&id)
	require.True(t, n.Valid)
	require.Equal(t, id, n.UUID)
}

func TestUUIDArray(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	require.Equal(t, []string{a.String(), b.String()}, uuidArray([]uuid.UUID{a, b}))
	require.Empty(t, uuidArray(nil))
}

package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPgxURL(t *testing.T) {
	require.Equal(t, "pgx5://u:p@localhost:5432/db?sslmode=disable", pgxURL("postgres://u:p@localhost:5432/db?sslmode=disable"))
	require.Equal(t, "pgx5://u@h/db", pgxURL("postgresql://u@h/db"))
	require.Equal(t, "pgx5://u@h/db", pgxURL("pgx5://u@h/db"))
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	up, err := migrations.ReadFile("migrations/000001_init.up.sql")
	require.NoError(t, err)
	require.Contains(t, string(up), "shift_assignments_live_identity_key")
	require.Contains(t, string(up), "shift_assignments_no_overlap")
}

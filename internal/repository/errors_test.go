package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func TestMapError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		require.NoError(t, MapError(nil))
	})

	t.Run("live identity violation becomes duplicate", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "shift_assignments_live_identity_key"}

		err := MapError(fmt.Errorf("insert: %w", pgErr))

		require.Equal(t, domain.KindDuplicateAssignment, domain.KindOf(err))
		require.ErrorIs(t, err, pgErr)
	})

	t.Run("exclusion violation becomes conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23P01", ConstraintName: "shift_assignments_no_overlap"}

		err := MapError(pgErr)

		require.Equal(t, domain.KindShiftConflict, domain.KindOf(err))
	})

	t.Run("other unique constraints are untouched", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "employees_code_key"}

		err := MapError(pgErr)

		require.Same(t, pgErr, err)
		require.Zero(t, domain.KindOf(err))
	})

	t.Run("non postgres errors are untouched", func(t *testing.T) {
		err := MapError(sql.ErrConnDone)

		require.True(t, errors.Is(err, sql.ErrConnDone))
		require.Zero(t, domain.KindOf(err))
	})
}

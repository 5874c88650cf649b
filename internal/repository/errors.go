package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"

	liveIdentityConstraint = "shift_assignments_live_identity_key"
	noOverlapConstraint    = "shift_assignments_no_overlap"
)

// MapError 把班次表上的约束冲突翻译成与校验阶段相同的业务错误，其他错误原样返回
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch {
	case pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == liveIdentityConstraint:
		e := domain.NewDuplicateAssignment()
		e.Err = err
		return e
	case pgErr.Code == pgExclusionViolation && pgErr.ConstraintName == noOverlapConstraint:
		// 数据库不会告诉我们与哪一条记录冲突
		e := domain.NewShiftConflict(uuid.Nil)
		e.Err = err
		return e
	default:
		return err
	}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

// 时间列统一以 HH:mm 形式读出
const assignmentColumns = `
	id,
	company_id,
	employee_id,
	location_id,
	job_position_id,
	template_shift_id,
	shift_date,
	to_char(start_time, 'HH24:MI'),
	to_char(end_time, 'HH24:MI'),
	status,
	notes,
	assigned_by,
	confirmed_by,
	confirmed_at,
	created_at,
	updated_at,
	deleted_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*domain.ShiftAssignment, error) {
	a := &domain.ShiftAssignment{}

	var (
		templateShiftID uuid.NullUUID
		confirmedBy     uuid.NullUUID
		confirmedAt     sql.NullTime
		deletedAt       sql.NullTime
	)

	dst := []any{
		&a.ID,
		&a.CompanyID,
		&a.EmployeeID,
		&a.LocationID,
		&a.JobPositionID,
		&templateShiftID,
		&a.ShiftDate,
		&a.StartTime,
		&a.EndTime,
		&a.Status,
		&a.Notes,
		&a.AssignedBy,
		&confirmedBy,
		&confirmedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&deletedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if templateShiftID.Valid {
		a.TemplateShiftID = &templateShiftID.UUID
	}
	if confirmedBy.Valid {
		a.ConfirmedBy = &confirmedBy.UUID
	}
	if confirmedAt.Valid {
		a.ConfirmedAt = &confirmedAt.Time
	}
	if deletedAt.Valid {
		a.DeletedAt = &deletedAt.Time
	}

	return a, nil
}

func queryAssignments(ctx context.Context, q querier, query string, args ...any) ([]*domain.ShiftAssignment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	as := make([]*domain.ShiftAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		as = append(as, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return as, nil
}

func (r *Repository) GetAssignment(ctx context.Context, id, companyID uuid.UUID) (*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	a, err := scanAssignment(r.dbpool.QueryRowContext(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewResourceNotFound("班次", id)
		}
		return nil, err
	}

	return a, nil
}

func (r *Repository) GetAssignmentsByEmployeeDate(ctx context.Context, employeeID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1
			AND shift_date = $2
			AND deleted_at IS NULL
			AND status <> 'cancelled'
			AND ($3::uuid IS NULL OR id <> $3::uuid)
		ORDER BY start_time
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return queryAssignments(ctx, r.dbpool, query, employeeID, date, nullUUID(excludeID))
}

func (r *Repository) GetAssignmentsByEmployeeWeek(ctx context.Context, employeeID uuid.UUID, weekStart, weekEnd time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE employee_id = $1
			AND shift_date BETWEEN $2 AND $3
			AND deleted_at IS NULL
			AND status <> 'cancelled'
			AND ($4::uuid IS NULL OR id <> $4::uuid)
		ORDER BY shift_date, start_time
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return queryAssignments(ctx, r.dbpool, query, employeeID, weekStart, weekEnd, nullUUID(excludeID))
}

func (r *Repository) ExistsExactMatch(ctx context.Context, employeeID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM shift_assignments
			WHERE employee_id = $1
				AND shift_date = $2
				AND start_time = $3::time
				AND end_time = $4::time
				AND deleted_at IS NULL
				AND status <> 'cancelled'
				AND ($5::uuid IS NULL OR id <> $5::uuid)
		)
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	var exists bool
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID, date, start, end, nullUUID(excludeID)).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) ListAssignmentsInRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	query := `
		SELECT ` + assignmentColumns + `
		FROM shift_assignments
		WHERE company_id = $1
			AND shift_date BETWEEN $2 AND $3
			AND deleted_at IS NULL
			AND status <> 'cancelled'
			AND ($4::uuid IS NULL OR location_id = $4::uuid)
		ORDER BY shift_date, start_time
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return queryAssignments(ctx, r.dbpool, query, companyID, start, end, nullUUID(locationID))
}

/**********************************************
 * 以下方法只在事务中调用
 **********************************************/

func insertAssignment(ctx context.Context, q querier, a *domain.ShiftAssignment) error {
	query := `
		INSERT INTO shift_assignments (
			company_id, employee_id, location_id, job_position_id, template_shift_id,
			shift_date, start_time, end_time, status, notes, assigned_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::time, $8::time, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	params := []any{
		a.CompanyID,
		a.EmployeeID,
		a.LocationID,
		a.JobPositionID,
		nullUUID(a.TemplateShiftID),
		a.ShiftDate,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.Notes,
		a.AssignedBy,
	}

	if err := q.QueryRowContext(ctx, query, params...).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return MapError(err)
	}

	return nil
}

func updateAssignment(ctx context.Context, q querier, a *domain.ShiftAssignment) error {
	query := `
		UPDATE shift_assignments
		SET
			employee_id = $1,
			location_id = $2,
			job_position_id = $3,
			shift_date = $4,
			start_time = $5::time,
			end_time = $6::time,
			status = $7,
			notes = $8,
			updated_at = now()
		WHERE id = $9 AND company_id = $10 AND deleted_at IS NULL
		RETURNING updated_at
	`
	params := []any{
		a.EmployeeID,
		a.LocationID,
		a.JobPositionID,
		a.ShiftDate,
		a.StartTime,
		a.EndTime,
		a.Status,
		a.Notes,
		a.ID,
		a.CompanyID,
	}

	if err := q.QueryRowContext(ctx, query, params...).Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewResourceNotFound("班次", a.ID)
		}
		return MapError(err)
	}

	return nil
}

func confirmAssignment(ctx context.Context, q querier, a *domain.ShiftAssignment) error {
	query := `
		UPDATE shift_assignments
		SET
			status = 'confirmed',
			confirmed_by = $1,
			confirmed_at = $2,
			updated_at = now()
		WHERE id = $3 AND company_id = $4 AND deleted_at IS NULL AND status = 'pending'
		RETURNING ` + assignmentColumns

	confirmed, err := scanAssignment(q.QueryRowContext(ctx, query, nullUUID(a.ConfirmedBy), a.ConfirmedAt, a.ID, a.CompanyID))
	if err == nil {
		*a = *confirmed
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	// 没有更新任何行：要么记录不存在，要么状态不是待确认
	var status domain.AssignmentStatus
	query = `SELECT status FROM shift_assignments WHERE id = $1 AND company_id = $2 AND deleted_at IS NULL`
	if err := q.QueryRowContext(ctx, query, a.ID, a.CompanyID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewResourceNotFound("班次", a.ID)
		}
		return err
	}
	return domain.NewBusinessRuleViolation([]string{"只有待确认的班次才能确认，当前状态为 " + string(status)})
}

func softDeleteAssignments(ctx context.Context, q querier, ids []uuid.UUID, companyID uuid.UUID, at time.Time) (int, error) {
	query := `
		UPDATE shift_assignments
		SET deleted_at = $1, updated_at = now()
		WHERE id = ANY($2::uuid[]) AND company_id = $3 AND deleted_at IS NULL
	`

	result, err := q.ExecContext(ctx, query, at, uuidArray(ids), companyID)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

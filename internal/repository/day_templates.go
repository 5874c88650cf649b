package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func (r *Repository) GetDayTemplateWithShifts(ctx context.Context, id, companyID uuid.UUID) (*domain.DayTemplate, error) {
	query := `
		SELECT
			dt.location_id,
			dt.name,
			dt.created_at,
			ts.id,
			to_char(ts.start_time, 'HH24:MI'),
			to_char(ts.end_time, 'HH24:MI'),
			ts.sort_order
		FROM day_templates dt
		LEFT JOIN template_shifts ts ON dt.id = ts.day_template_id
		WHERE dt.id = $1 AND dt.company_id = $2 AND dt.deleted_at IS NULL
		ORDER BY ts.sort_order, ts.start_time
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dt *domain.DayTemplate
	for rows.Next() {
		var row struct {
			LocationID uuid.UUID
			Name       string
			CreatedAt  time.Time

			ShiftID   uuid.NullUUID
			StartTime sql.NullString
			EndTime   sql.NullString
			SortOrder sql.NullInt32
		}

		dst := []any{
			&row.LocationID,
			&row.Name,
			&row.CreatedAt,
			&row.ShiftID,
			&row.StartTime,
			&row.EndTime,
			&row.SortOrder,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if dt == nil {
			dt = &domain.DayTemplate{
				ID:         id,
				CompanyID:  companyID,
				LocationID: row.LocationID,
				Name:       row.Name,
				CreatedAt:  row.CreatedAt,
				Shifts:     make([]domain.TemplateShift, 0),
			}
		}

		// 模板中没有任何班次
		if !row.ShiftID.Valid {
			continue
		}

		dt.Shifts = append(dt.Shifts, domain.TemplateShift{
			ID:        row.ShiftID.UUID,
			StartTime: row.StartTime.String,
			EndTime:   row.EndTime.String,
			SortOrder: row.SortOrder.Int32,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if dt == nil {
		return nil, domain.NewResourceNotFound("日模板", id)
	}

	return dt, nil
}

func (r *Repository) CreateDayTemplate(ctx context.Context, dt *domain.DayTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO day_templates (company_id, location_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, dt.CompanyID, dt.LocationID, dt.Name).Scan(&dt.ID, &dt.CreatedAt); err != nil {
		return err
	}

	for i := range dt.Shifts {
		query = `
			INSERT INTO template_shifts (day_template_id, start_time, end_time, sort_order)
			VALUES ($1, $2::time, $3::time, $4)
			RETURNING id
		`
		params := []any{dt.ID, dt.Shifts[i].StartTime, dt.Shifts[i].EndTime, dt.Shifts[i].SortOrder}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&dt.Shifts[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

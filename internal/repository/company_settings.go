package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func (r *Repository) GetCompanySettings(ctx context.Context, companyID uuid.UUID) (*domain.CompanySettings, error) {
	query := `
		SELECT max_daily_hours, max_weekly_hours, min_break_hours
		FROM company_settings WHERE company_id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	cs := &domain.CompanySettings{
		CompanyID: companyID,
	}

	dst := []any{&cs.MaxDailyHours, &cs.MaxWeeklyHours, &cs.MinBreakHours}
	if err := r.dbpool.QueryRowContext(ctx, query, companyID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return cs, nil
}

func (r *Repository) UpsertCompanySettings(ctx context.Context, cs *domain.CompanySettings) error {
	query := `
		INSERT INTO company_settings (company_id, max_daily_hours, max_weekly_hours, min_break_hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id) DO UPDATE
		SET max_daily_hours = EXCLUDED.max_daily_hours,
			max_weekly_hours = EXCLUDED.max_weekly_hours,
			min_break_hours = EXCLUDED.min_break_hours
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, cs.CompanyID, cs.MaxDailyHours, cs.MaxWeeklyHours, cs.MinBreakHours)
	return err
}

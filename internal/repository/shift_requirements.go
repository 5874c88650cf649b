package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func (r *Repository) ListRequirements(ctx context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftRequirement, error) {
	query := `
		SELECT
			sr.id,
			sr.location_id,
			sr.date,
			sri.job_position_id,
			sri.required_count
		FROM shift_requirements sr
		JOIN shift_requirement_items sri ON sr.id = sri.requirement_id
		WHERE sr.company_id = $1
			AND sr.date BETWEEN $2 AND $3
			AND ($4::uuid IS NULL OR sr.location_id = $4::uuid)
		ORDER BY sr.date, sr.id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, companyID, start, end, nullUUID(locationID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reqs := make([]*domain.ShiftRequirement, 0)
	byID := make(map[uuid.UUID]*domain.ShiftRequirement)

	for rows.Next() {
		var row struct {
			ID         uuid.UUID
			LocationID uuid.UUID
			Date       time.Time
			Item       domain.ShiftRequirementItem
		}

		dst := []any{&row.ID, &row.LocationID, &row.Date, &row.Item.JobPositionID, &row.Item.RequiredCount}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		req, exists := byID[row.ID]
		if !exists {
			req = &domain.ShiftRequirement{
				ID:         row.ID,
				CompanyID:  companyID,
				LocationID: row.LocationID,
				Date:       row.Date,
				Items:      make([]domain.ShiftRequirementItem, 0),
			}
			byID[row.ID] = req
			reqs = append(reqs, req)
		}
		req.Items = append(req.Items, row.Item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reqs, nil
}

func (r *Repository) CreateShiftRequirement(ctx context.Context, req *domain.ShiftRequirement) error {
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
		INSERT INTO shift_requirements (company_id, location_id, date)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, query, req.CompanyID, req.LocationID, req.Date).Scan(&req.ID); err != nil {
		return err
	}

	for _, item := range req.Items {
		query = `
			INSERT INTO shift_requirement_items (requirement_id, job_position_id, required_count)
			VALUES ($1, $2, $3)
		`
		if _, err := tx.ExecContext(ctx, query, req.ID, item.JobPositionID, item.RequiredCount); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

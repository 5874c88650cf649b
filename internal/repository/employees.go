package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

func (r *Repository) GetEmployees(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID) ([]*domain.Employee, error) {
	query := `
		SELECT id, company_id, code, full_name, email, created_at
		FROM employees
		WHERE id = ANY($1::uuid[]) AND company_id = $2 AND deleted_at IS NULL
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, uuidArray(ids), companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0, len(ids))
	for rows.Next() {
		e := &domain.Employee{}
		var email sql.NullString

		dst := []any{&e.ID, &e.CompanyID, &e.Code, &e.FullName, &email, &e.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		e.Email = email.String

		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, e *domain.Employee) error {
	query := `
		INSERT INTO employees (company_id, code, full_name, email)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, e.CompanyID, e.Code, e.FullName, e.Email).Scan(&e.ID, &e.CreatedAt)
}

func (r *Repository) CreateCompany(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (r *Repository) CreateLocation(ctx context.Context, l *domain.Location) error {
	query := `
		INSERT INTO locations (company_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, l.CompanyID, l.Name).Scan(&l.ID)
}

func (r *Repository) CreateJobPosition(ctx context.Context, p *domain.JobPosition) error {
	query := `
		INSERT INTO job_positions (company_id, name)
		VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, p.CompanyID, p.Name).Scan(&p.ID)
}

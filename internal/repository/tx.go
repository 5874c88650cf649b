package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
)

// WithTx 在一个事务中执行 fn，fn 返回错误时回滚
func (r *Repository) WithTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&pgTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return MapError(err)
	}

	return nil
}

type pgTx struct {
	q querier
}

var _ engine.Tx = (*pgTx)(nil)

func (t *pgTx) CreateAssignment(ctx context.Context, a *domain.ShiftAssignment) error {
	return insertAssignment(ctx, t.q, a)
}

func (t *pgTx) CreateMany(ctx context.Context, as []*domain.ShiftAssignment) (int, error) {
	for _, a := range as {
		if err := insertAssignment(ctx, t.q, a); err != nil {
			return 0, domain.WithCandidate(err, a.Ref())
		}
	}
	return len(as), nil
}

func (t *pgTx) UpdateAssignment(ctx context.Context, a *domain.ShiftAssignment) error {
	return updateAssignment(ctx, t.q, a)
}

func (t *pgTx) ConfirmAssignment(ctx context.Context, a *domain.ShiftAssignment) error {
	return confirmAssignment(ctx, t.q, a)
}

func (t *pgTx) SoftDeleteAssignments(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID, at time.Time) (int, error) {
	return softDeleteAssignments(ctx, t.q, ids, companyID, at)
}

func (t *pgTx) AppendAudit(ctx context.Context, entry *domain.AuditEntry) error {
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO audit_logs (company_id, actor_id, action, entity_type, entity_ids, details)
		VALUES ($1, $2, $3, $4, $5::uuid[], $6::jsonb)
		RETURNING id, created_at
	`
	params := []any{entry.CompanyID, entry.ActorID, entry.Action, entry.EntityType, uuidArray(entry.EntityIDs), string(detailsJSON)}

	return t.q.QueryRowContext(ctx, query, params...).Scan(&entry.ID, &entry.CreatedAt)
}

package assignment

import (
	"context"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
)

// Delete 软删除一个班次，删除后相同的 (员工, 日期, 开始, 结束) 可以再次创建
func (s *Service) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.delete(ctx, actor, "delete", domain.AuditDelete, []uuid.UUID{id})
	return err
}

// BulkDelete 软删除一组班次，任何一个不存在则全部不删除
func (s *Service) BulkDelete(ctx context.Context, actor Actor, ids []uuid.UUID) (int, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	return s.delete(ctx, actor, "bulk_delete", domain.AuditBulkDelete, ids)
}

func (s *Service) delete(ctx context.Context, actor Actor, op string, action domain.AuditAction, ids []uuid.UUID) (int, error) {
	as := make([]*domain.ShiftAssignment, 0, len(ids))
	for _, id := range ids {
		a, err := s.store.GetAssignment(ctx, id, actor.CompanyID)
		if err != nil {
			return 0, s.observe(op, err)
		}
		as = append(as, a)
	}
	s.observe(op, nil)

	at := s.now().UTC()
	err := s.write(ctx, op, func(tx engine.Tx) error {
		for _, id := range ids {
			n, err := tx.SoftDeleteAssignments(ctx, []uuid.UUID{id}, actor.CompanyID, at)
			if err != nil {
				return err
			}
			// 读取之后被并发删除
			if n == 0 {
				return domain.NewResourceNotFound("班次", id)
			}
		}
		return s.audit(ctx, tx, actor, action, ids, map[string]any{"count": len(ids)})
	})
	if err != nil {
		return 0, err
	}

	s.metrics.AddWritten(op, len(ids))

	live := make([]*domain.ShiftAssignment, 0, len(as))
	for _, a := range as {
		if a.IsLive() {
			live = append(live, a)
		}
	}
	s.notify(ctx, domain.MailShiftCancelled, actor.CompanyID, live, nil)
	return len(ids), nil
}

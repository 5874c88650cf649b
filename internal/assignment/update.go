package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

// UpdateInput 中为 nil 的字段保持不变
type UpdateInput struct {
	ID            uuid.UUID
	EmployeeID    *uuid.UUID
	LocationID    *uuid.UUID
	JobPositionID *uuid.UUID
	ShiftDate     *time.Time
	StartTime     *string
	EndTime       *string
	Notes         *string
	Status        *domain.AssignmentStatus
}

// change 是一次修改前后的班次
type change struct {
	before *domain.ShiftAssignment
	after  *domain.ShiftAssignment
}

func (c change) identityChanged() bool {
	return c.before.EmployeeID != c.after.EmployeeID ||
		!c.before.ShiftDate.Equal(c.after.ShiftDate) ||
		c.before.StartTime != c.after.StartTime ||
		c.before.EndTime != c.after.EndTime
}

// needsValidation 仅当修改后的班次有效，且其身份发生变化或由无效变为有效时才需要重新校验
func (c change) needsValidation() bool {
	if !c.after.IsLive() {
		return false
	}
	return c.identityChanged() || !c.before.IsLive()
}

func (c change) mailType() string {
	switch {
	case c.before.IsLive() && !c.after.IsLive():
		return domain.MailShiftCancelled
	case c.after.IsLive() && (c.identityChanged() || !c.before.IsLive()):
		return domain.MailShiftAssigned
	default:
		return ""
	}
}

func apply(cur *domain.ShiftAssignment, in UpdateInput) (*domain.ShiftAssignment, error) {
	next := *cur

	if in.EmployeeID != nil {
		next.EmployeeID = *in.EmployeeID
	}
	if in.LocationID != nil {
		next.LocationID = *in.LocationID
	}
	if in.JobPositionID != nil {
		next.JobPositionID = *in.JobPositionID
	}
	if in.ShiftDate != nil {
		next.ShiftDate = shifttime.Date(*in.ShiftDate)
	}
	if in.StartTime != nil {
		next.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		next.EndTime = *in.EndTime
	}
	if in.Notes != nil {
		next.Notes = *in.Notes
	}

	if in.Status != nil && *in.Status != cur.Status {
		switch *in.Status {
		case domain.StatusConfirmed:
			return nil, domain.NewBusinessRuleViolation([]string{"不能通过修改将班次设为已确认，请使用确认操作"})
		case domain.StatusPending:
			if cur.Status == domain.StatusConfirmed {
				return nil, domain.NewBusinessRuleViolation([]string{"已确认的班次不能改回待确认"})
			}
		case domain.StatusCancelled:
		default:
			return nil, domain.NewBusinessRuleViolation([]string{"未知的班次状态: " + string(*in.Status)})
		}
		next.Status = *in.Status
	}

	if _, err := shifttime.ParseInterval(next.StartTime, next.EndTime); err != nil {
		return nil, err
	}

	return &next, nil
}

// prepare 读取当前记录并计算修改后的记录，需要时重新执行重复、冲突和规则检查（排除记录自身）
func (s *Service) prepare(ctx context.Context, actor Actor, cs domain.CompanySettings, in UpdateInput) (change, error) {
	cur, err := s.store.GetAssignment(ctx, in.ID, actor.CompanyID)
	if err != nil {
		return change{}, err
	}

	next, err := apply(cur, in)
	if err != nil {
		return change{}, domain.WithCandidate(err, cur.Ref())
	}
	c := change{before: cur, after: next}

	if next.EmployeeID != cur.EmployeeID {
		if _, err := s.verifyEmployees(ctx, actor.CompanyID, []uuid.UUID{next.EmployeeID}); err != nil {
			return change{}, err
		}
	}

	if c.needsValidation() {
		if err := s.validator.Check(ctx, cs, engine.CandidateOf(next), engine.CheckOptions{}); err != nil {
			return change{}, domain.WithCandidate(err, next.Ref())
		}
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, actor Actor, in UpdateInput) (*domain.ShiftAssignment, error) {
	const op = "update"

	cs, err := s.companySettings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	c, err := s.prepare(ctx, actor, cs, in)
	if err := s.observe(op, err); err != nil {
		return nil, err
	}

	err = s.write(ctx, op, func(tx engine.Tx) error {
		if err := tx.UpdateAssignment(ctx, c.after); err != nil {
			return err
		}
		return s.audit(ctx, tx, actor, domain.AuditUpdate, []uuid.UUID{c.after.ID}, diff(c))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddWritten(op, 1)
	if t := c.mailType(); t != "" {
		s.notify(ctx, t, actor.CompanyID, []*domain.ShiftAssignment{c.after}, nil)
	}
	return c.after, nil
}

// BulkUpdate 按输入顺序校验每一条修改，任何一个失败整批都不写入。
//
// 每条修改只与已持久化的数据比较，批内修改之间的冲突由数据库约束在写入时发现。
func (s *Service) BulkUpdate(ctx context.Context, actor Actor, ins []UpdateInput) ([]*domain.ShiftAssignment, error) {
	const op = "bulk_update"

	if len(ins) == 0 {
		return []*domain.ShiftAssignment{}, nil
	}

	cs, err := s.companySettings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(ins))
	changes := make([]change, 0, len(ins))
	for _, in := range ins {
		if seen[in.ID] {
			return nil, s.observe(op, domain.NewBusinessRuleViolation([]string{"同一班次在批量修改中出现多次: " + in.ID.String()}))
		}
		seen[in.ID] = true

		c, err := s.prepare(ctx, actor, cs, in)
		if err != nil {
			return nil, s.observe(op, err)
		}
		changes = append(changes, c)
	}
	s.observe(op, nil)

	updated := make([]*domain.ShiftAssignment, len(changes))
	for i, c := range changes {
		updated[i] = c.after
	}

	err = s.write(ctx, op, func(tx engine.Tx) error {
		for _, c := range changes {
			if err := tx.UpdateAssignment(ctx, c.after); err != nil {
				return domain.WithCandidate(err, c.after.Ref())
			}
		}
		return s.audit(ctx, tx, actor, domain.AuditBulkUpdate, idsOf(updated), map[string]any{"count": len(updated)})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddWritten(op, len(updated))
	for _, c := range changes {
		if t := c.mailType(); t != "" {
			s.notify(ctx, t, actor.CompanyID, []*domain.ShiftAssignment{c.after}, nil)
		}
	}
	return updated, nil
}

// Confirm 将待确认的班次设为已确认，每个班次只能确认一次
func (s *Service) Confirm(ctx context.Context, actor Actor, id uuid.UUID) (*domain.ShiftAssignment, error) {
	const op = "confirm"

	cur, err := s.store.GetAssignment(ctx, id, actor.CompanyID)
	if err != nil {
		return nil, s.observe(op, err)
	}
	if cur.Status != domain.StatusPending {
		return nil, s.observe(op, domain.NewBusinessRuleViolation([]string{"只有待确认的班次才能确认，当前状态为 " + string(cur.Status)}))
	}
	s.observe(op, nil)

	now := s.now().UTC()
	confirmedBy := actor.UserID
	cur.ConfirmedBy = &confirmedBy
	cur.ConfirmedAt = &now

	err = s.write(ctx, op, func(tx engine.Tx) error {
		if err := tx.ConfirmAssignment(ctx, cur); err != nil {
			return err
		}
		return s.audit(ctx, tx, actor, domain.AuditConfirm, []uuid.UUID{cur.ID}, nil)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddWritten(op, 1)
	s.notify(ctx, domain.MailShiftConfirmed, actor.CompanyID, []*domain.ShiftAssignment{cur}, nil)
	return cur, nil
}

// diff 记录被修改的字段，写入审计详情
func diff(c change) map[string]any {
	d := make(map[string]any)
	b, a := c.before, c.after

	if b.EmployeeID != a.EmployeeID {
		d["employeeID"] = []any{b.EmployeeID, a.EmployeeID}
	}
	if b.LocationID != a.LocationID {
		d["locationID"] = []any{b.LocationID, a.LocationID}
	}
	if b.JobPositionID != a.JobPositionID {
		d["jobPositionID"] = []any{b.JobPositionID, a.JobPositionID}
	}
	if !b.ShiftDate.Equal(a.ShiftDate) {
		d["shiftDate"] = []any{shifttime.FormatDate(b.ShiftDate), shifttime.FormatDate(a.ShiftDate)}
	}
	if b.StartTime != a.StartTime {
		d["startTime"] = []any{b.StartTime, a.StartTime}
	}
	if b.EndTime != a.EndTime {
		d["endTime"] = []any{b.EndTime, a.EndTime}
	}
	if b.Notes != a.Notes {
		d["notes"] = []any{b.Notes, a.Notes}
	}
	if b.Status != a.Status {
		d["status"] = []any{b.Status, a.Status}
	}
	return d
}

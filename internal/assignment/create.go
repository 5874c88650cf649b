package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type CreateInput struct {
	EmployeeID      uuid.UUID
	LocationID      uuid.UUID
	JobPositionID   uuid.UUID
	TemplateShiftID *uuid.UUID
	ShiftDate       time.Time
	StartTime       string
	EndTime         string
	Notes           string
}

func (in CreateInput) build(actor Actor) *domain.ShiftAssignment {
	return &domain.ShiftAssignment{
		CompanyID:       actor.CompanyID,
		EmployeeID:      in.EmployeeID,
		LocationID:      in.LocationID,
		JobPositionID:   in.JobPositionID,
		TemplateShiftID: in.TemplateShiftID,
		ShiftDate:       shifttime.Date(in.ShiftDate),
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Status:          domain.StatusPending,
		Notes:           in.Notes,
		AssignedBy:      actor.UserID,
	}
}

// Create 依次检查重复、冲突和排班规则，全部通过后写入班次和审计记录
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*domain.ShiftAssignment, error) {
	const op = "create"

	if _, err := shifttime.ParseInterval(in.StartTime, in.EndTime); err != nil {
		return nil, s.observe(op, err)
	}

	employees, err := s.verifyEmployees(ctx, actor.CompanyID, []uuid.UUID{in.EmployeeID})
	if err != nil {
		return nil, s.observe(op, err)
	}

	cs, err := s.companySettings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	a := in.build(actor)
	if err := s.observe(op, s.validator.Check(ctx, cs, engine.CandidateOf(a), engine.CheckOptions{})); err != nil {
		return nil, err
	}

	err = s.write(ctx, op, func(tx engine.Tx) error {
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return err
		}
		return s.audit(ctx, tx, actor, domain.AuditCreate, []uuid.UUID{a.ID}, map[string]any{
			"employeeID": a.EmployeeID,
			"shiftDate":  shifttime.FormatDate(a.ShiftDate),
			"startTime":  a.StartTime,
			"endTime":    a.EndTime,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddWritten(op, 1)
	s.notify(ctx, domain.MailShiftAssigned, actor.CompanyID, []*domain.ShiftAssignment{a}, employees)
	return a, nil
}

// BulkCreate 按输入顺序校验所有班次，任何一个失败则整批都不写入
func (s *Service) BulkCreate(ctx context.Context, actor Actor, ins []CreateInput) ([]*domain.ShiftAssignment, error) {
	const op = "bulk_create"

	if len(ins) == 0 {
		return []*domain.ShiftAssignment{}, nil
	}

	as := make([]*domain.ShiftAssignment, len(ins))
	employeeIDs := make([]uuid.UUID, len(ins))
	for i, in := range ins {
		as[i] = in.build(actor)
		employeeIDs[i] = in.EmployeeID
		if _, err := shifttime.ParseInterval(in.StartTime, in.EndTime); err != nil {
			return nil, s.observe(op, domain.WithCandidate(err, as[i].Ref()))
		}
	}

	employees, err := s.verifyEmployees(ctx, actor.CompanyID, employeeIDs)
	if err != nil {
		return nil, s.observe(op, err)
	}

	cs, err := s.companySettings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	candidates := make([]engine.Candidate, len(as))
	for i, a := range as {
		candidates[i] = engine.CandidateOf(a)
	}
	if err := s.observe(op, s.validator.CheckAll(ctx, cs, candidates, engine.CheckOptions{})); err != nil {
		return nil, err
	}

	if err := s.createMany(ctx, actor, op, as, map[string]any{"source": "bulk"}); err != nil {
		return nil, err
	}

	s.notify(ctx, domain.MailShiftAssigned, actor.CompanyID, as, employees)
	return as, nil
}

type TemplateInput struct {
	DayTemplateID uuid.UUID
	EmployeeIDs   []uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	JobPositionID uuid.UUID
	Notes         string
}

// CreateFromTemplate 用日模板在日期范围内为一组员工批量排班，全部通过校验才会写入
func (s *Service) CreateFromTemplate(ctx context.Context, actor Actor, in TemplateInput) ([]*domain.ShiftAssignment, error) {
	const op = "create_from_template"

	as, err := s.expander.FromTemplate(ctx, engine.TemplateRequest{
		DayTemplateID: in.DayTemplateID,
		EmployeeIDs:   in.EmployeeIDs,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		CompanyID:     actor.CompanyID,
		JobPositionID: in.JobPositionID,
		AssignedBy:    actor.UserID,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, s.observe(op, err)
	}
	if len(as) == 0 {
		return as, nil
	}

	cs, err := s.companySettings(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	if err := s.observe(op, s.expander.Validate(ctx, cs, as)); err != nil {
		return nil, err
	}

	err = s.createMany(ctx, actor, op, as, map[string]any{
		"source":        "template",
		"dayTemplateID": in.DayTemplateID,
		"startDate":     shifttime.FormatDate(in.StartDate),
		"endDate":       shifttime.FormatDate(in.EndDate),
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.MailShiftAssigned, actor.CompanyID, as, nil)
	return as, nil
}

func (s *Service) createMany(ctx context.Context, actor Actor, op string, as []*domain.ShiftAssignment, details map[string]any) error {
	err := s.write(ctx, op, func(tx engine.Tx) error {
		n, err := tx.CreateMany(ctx, as)
		if err != nil {
			return err
		}
		details["count"] = n
		return s.audit(ctx, tx, actor, domain.AuditBulkCreate, idsOf(as), details)
	})
	if err != nil {
		return err
	}

	s.metrics.AddWritten(op, len(as))
	return nil
}

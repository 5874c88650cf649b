package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type TemplateRequest struct {
	DayTemplateID uuid.UUID
	EmployeeIDs   []uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	CompanyID     uuid.UUID
	JobPositionID uuid.UUID
	AssignedBy    uuid.UUID
	Notes         string
}

// BulkExpander 根据日模板在日期范围内为一组员工生成候选班次
type BulkExpander struct {
	store     Reader
	validator *Validator
}

func NewBulkExpander(store Reader, validator *Validator) *BulkExpander {
	return &BulkExpander{store: store, validator: validator}
}

// FromTemplate 按 (日期, 模板班次, 员工) 的顺序生成候选班次，只生成不写入
func (b *BulkExpander) FromTemplate(ctx context.Context, req TemplateRequest) ([]*domain.ShiftAssignment, error) {
	tmpl, err := b.store.GetDayTemplateWithShifts(ctx, req.DayTemplateID, req.CompanyID)
	if err != nil {
		return nil, err
	}

	employeeIDs := uniqueIDs(req.EmployeeIDs)
	employees, err := b.store.GetEmployees(ctx, employeeIDs, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("获取员工失败: %w", err)
	}
	if len(employees) != len(employeeIDs) {
		return nil, domain.NewUnauthorizedCrossTenant(len(employeeIDs), len(employees))
	}

	for _, shift := range tmpl.Shifts {
		if _, err := shifttime.ParseInterval(shift.StartTime, shift.EndTime); err != nil {
			return nil, err
		}
	}

	dates := shifttime.EachDate(req.StartDate, req.EndDate)
	candidates := make([]*domain.ShiftAssignment, 0, len(dates)*len(tmpl.Shifts)*len(employeeIDs))

	for _, date := range dates {
		for _, shift := range tmpl.Shifts {
			templateShiftID := shift.ID
			for _, employeeID := range employeeIDs {
				candidates = append(candidates, &domain.ShiftAssignment{
					CompanyID:       req.CompanyID,
					EmployeeID:      employeeID,
					LocationID:      tmpl.LocationID,
					JobPositionID:   req.JobPositionID,
					TemplateShiftID: &templateShiftID,
					ShiftDate:       date,
					StartTime:       shift.StartTime,
					EndTime:         shift.EndTime,
					Status:          domain.StatusPending,
					Notes:           req.Notes,
					AssignedBy:      req.AssignedBy,
				})
			}
		}
	}

	return candidates, nil
}

// Validate 先冲突后规则，按生成顺序逐个校验；第一个失败即中止整批
func (b *BulkExpander) Validate(ctx context.Context, settings domain.CompanySettings, candidates []*domain.ShiftAssignment) error {
	cs := make([]Candidate, len(candidates))
	for i, a := range candidates {
		cs[i] = CandidateOf(a)
	}
	return b.validator.CheckAll(ctx, settings, cs, CheckOptions{SkipDuplicate: true})
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

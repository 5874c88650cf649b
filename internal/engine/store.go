package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
)

// Reader 是引擎所需的只读持久化操作。
//
// 所有返回班次列表的方法只返回未删除且未取消的记录。
type Reader interface {
	GetAssignment(ctx context.Context, id, companyID uuid.UUID) (*domain.ShiftAssignment, error)
	GetAssignmentsByEmployeeDate(ctx context.Context, employeeID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error)
	GetAssignmentsByEmployeeWeek(ctx context.Context, employeeID uuid.UUID, weekStart, weekEnd time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error)
	ExistsExactMatch(ctx context.Context, employeeID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) (bool, error)
	ListAssignmentsInRange(ctx context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftAssignment, error)

	// GetCompanySettings 在公司没有配置时返回 nil, nil
	GetCompanySettings(ctx context.Context, companyID uuid.UUID) (*domain.CompanySettings, error)
	GetDayTemplateWithShifts(ctx context.Context, id, companyID uuid.UUID) (*domain.DayTemplate, error)
	// GetEmployees 只返回属于 companyID 且未删除的员工
	GetEmployees(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID) ([]*domain.Employee, error)
	ListRequirements(ctx context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftRequirement, error)
}

// Tx 中的写操作与审计记录要么同时提交，要么同时回滚
type Tx interface {
	CreateAssignment(ctx context.Context, a *domain.ShiftAssignment) error
	CreateMany(ctx context.Context, as []*domain.ShiftAssignment) (int, error)
	UpdateAssignment(ctx context.Context, a *domain.ShiftAssignment) error
	ConfirmAssignment(ctx context.Context, a *domain.ShiftAssignment) error
	SoftDeleteAssignments(ctx context.Context, ids []uuid.UUID, companyID uuid.UUID, at time.Time) (int, error)
	AppendAudit(ctx context.Context, entry *domain.AuditEntry) error
}

type Store interface {
	Reader
	WithTx(ctx context.Context, fn func(tx Tx) error) error
}

// Package seed 向数据库写入一个可直接用于排班的演示公司
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type Repository interface {
	CreateCompany(ctx context.Context, c *domain.Company) error
	UpsertCompanySettings(ctx context.Context, cs *domain.CompanySettings) error
	CreateLocation(ctx context.Context, l *domain.Location) error
	CreateJobPosition(ctx context.Context, p *domain.JobPosition) error
	CreateEmployee(ctx context.Context, e *domain.Employee) error
	CreateDayTemplate(ctx context.Context, dt *domain.DayTemplate) error
	CreateShiftRequirement(ctx context.Context, req *domain.ShiftRequirement) error
}

// 日模板中的班次，按时间先后排列
var templateShifts = []domain.TemplateShift{
	{StartTime: "09:00", EndTime: "10:00", SortOrder: 1},
	{StartTime: "10:00", EndTime: "12:00", SortOrder: 2},
	{StartTime: "13:30", EndTime: "16:10", SortOrder: 3},
	{StartTime: "16:10", EndTime: "18:00", SortOrder: 4},
	{StartTime: "19:00", EndTime: "21:00", SortOrder: 5},
}

var positionNames = []string{"值班助理", "值班组长"}

type Options struct {
	CompanyName string
	Employees   int
	EmailDomain string
	StartDate   time.Time
	Days        int
	Rand        *rand.Rand
}

type Result struct {
	Company      *domain.Company
	Location     *domain.Location
	Positions    []*domain.JobPosition
	Employees    []*domain.Employee
	Template     *domain.DayTemplate
	Requirements []*domain.ShiftRequirement
}

func Run(ctx context.Context, repo Repository, opts Options) (*Result, error) {
	if opts.Employees <= 0 {
		return nil, errors.New("员工数量必须为正数")
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Days <= 0 {
		opts.Days = 7
	}
	if opts.EmailDomain == "" {
		opts.EmailDomain = "example.com"
	}

	res := &Result{}

	res.Company = &domain.Company{Name: opts.CompanyName}
	if err := repo.CreateCompany(ctx, res.Company); err != nil {
		return nil, fmt.Errorf("无法创建公司: %w", err)
	}
	companyID := res.Company.ID

	cs := domain.DefaultCompanySettings(companyID)
	if err := repo.UpsertCompanySettings(ctx, &cs); err != nil {
		return nil, fmt.Errorf("无法写入公司配置: %w", err)
	}

	res.Location = &domain.Location{CompanyID: companyID, Name: "总部"}
	if err := repo.CreateLocation(ctx, res.Location); err != nil {
		return nil, fmt.Errorf("无法创建地点: %w", err)
	}

	for _, name := range positionNames {
		p := &domain.JobPosition{CompanyID: companyID, Name: name}
		if err := repo.CreateJobPosition(ctx, p); err != nil {
			return nil, fmt.Errorf("无法创建岗位: %w", err)
		}
		res.Positions = append(res.Positions, p)
	}

	for i := range opts.Employees {
		fullName := randomChineseName(opts.Rand)
		e := &domain.Employee{
			CompanyID: companyID,
			Code:      employeeCode(fullName, i+1),
			FullName:  fullName,
		}
		e.Email = fmt.Sprintf("%s%d@%s", emailLocalPart(fullName), i+1, opts.EmailDomain)
		if err := repo.CreateEmployee(ctx, e); err != nil {
			return nil, fmt.Errorf("无法创建员工 %s: %w", fullName, err)
		}
		res.Employees = append(res.Employees, e)
	}

	res.Template = &domain.DayTemplate{
		CompanyID:  companyID,
		LocationID: res.Location.ID,
		Name:       "工作日",
		Shifts:     append([]domain.TemplateShift(nil), templateShifts...),
	}
	if err := repo.CreateDayTemplate(ctx, res.Template); err != nil {
		return nil, fmt.Errorf("无法创建日模板: %w", err)
	}

	start := shifttime.Date(opts.StartDate)
	for _, date := range shifttime.EachDate(start, start.AddDate(0, 0, opts.Days-1)) {
		req := &domain.ShiftRequirement{
			CompanyID:  companyID,
			LocationID: res.Location.ID,
			Date:       date,
		}
		for _, p := range res.Positions {
			req.Items = append(req.Items, domain.ShiftRequirementItem{
				JobPositionID: p.ID,
				RequiredCount: int32(opts.Rand.Intn(3) + 1),
			})
		}
		if err := repo.CreateShiftRequirement(ctx, req); err != nil {
			return nil, fmt.Errorf("无法创建 %s 的人员需求: %w", shifttime.FormatDate(date), err)
		}
		res.Requirements = append(res.Requirements, req)
	}

	slog.Info("已写入演示数据",
		"company_id", companyID,
		"employees", len(res.Employees),
		"requirements", len(res.Requirements),
	)

	return res, nil
}

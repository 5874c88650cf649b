// Package assignment 负责班次的创建、修改、确认与删除：先校验，再在同一事务中写入数据和审计记录
package assignment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/metrics"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/notify"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/settings"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

const entityType = "shift_assignment"

// Actor 是发起操作的用户及其所属公司，由调用方在认证后给出
type Actor struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
}

type SettingsProvider interface {
	Get(ctx context.Context, companyID uuid.UUID) (domain.CompanySettings, error)
}

type Options struct {
	Settings  SettingsProvider
	Publisher notify.Publisher
	Metrics   metrics.Recorder
	Logger    *slog.Logger
	Now       func() time.Time
}

type Service struct {
	store     engine.Store
	settings  SettingsProvider
	validator *engine.Validator
	expander  *engine.BulkExpander
	coverage  *engine.CoverageAnalyzer
	publisher notify.Publisher
	metrics   metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store engine.Store, opts Options) *Service {
	if opts.Settings == nil {
		opts.Settings = settings.NewProvider(store, nil, settings.Options{Logger: opts.Logger})
	}
	if opts.Publisher == nil {
		opts.Publisher = notify.Nop{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewNop()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	validator := engine.NewValidator(store)
	return &Service{
		store:     store,
		settings:  opts.Settings,
		validator: validator,
		expander:  engine.NewBulkExpander(store, validator),
		coverage:  engine.NewCoverageAnalyzer(store),
		publisher: opts.Publisher,
		metrics:   opts.Metrics,
		logger:    opts.Logger.With("component", "assignment"),
		now:       opts.Now,
	}
}

// write 执行一个写事务。业务错误原样返回，其他错误包装为 TransactionFailed
func (s *Service) write(ctx context.Context, op string, fn func(tx engine.Tx) error) error {
	start := time.Now()
	err := s.store.WithTx(ctx, fn)
	s.metrics.ObserveWrite(op, time.Since(start).Seconds(), err == nil)

	if err == nil {
		return nil
	}
	if domain.KindOf(err).IsBusiness() {
		return err
	}
	s.logger.Error("写事务失败", "op", op, "error", err)
	return domain.NewTransactionFailed(op, err)
}

// observe 记录校验结果并原样返回 err
func (s *Service) observe(op string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = domain.KindOf(err).String()
	}
	s.metrics.ObserveValidation(op, outcome)
	return err
}

func (s *Service) companySettings(ctx context.Context, companyID uuid.UUID) (domain.CompanySettings, error) {
	cs, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return domain.CompanySettings{}, fmt.Errorf("获取公司排班规则失败: %w", err)
	}
	return cs, nil
}

// verifyEmployees 确认所有员工都属于当前公司；单个员工不存在时返回 ResourceNotFound，批量时返回 UnauthorizedCrossTenant
func (s *Service) verifyEmployees(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*domain.Employee, error) {
	ids = uniqueIDs(ids)
	employees, err := s.store.GetEmployees(ctx, ids, companyID)
	if err != nil {
		return nil, fmt.Errorf("获取员工失败: %w", err)
	}

	if len(employees) != len(ids) {
		if len(ids) == 1 {
			return nil, domain.NewResourceNotFound("员工", ids[0])
		}
		return nil, domain.NewUnauthorizedCrossTenant(len(ids), len(employees))
	}

	byID := make(map[uuid.UUID]*domain.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	return byID, nil
}

func (s *Service) audit(ctx context.Context, tx engine.Tx, actor Actor, action domain.AuditAction, ids []uuid.UUID, details map[string]any) error {
	return tx.AppendAudit(ctx, &domain.AuditEntry{
		CompanyID:  actor.CompanyID,
		ActorID:    actor.UserID,
		Action:     action,
		EntityType: entityType,
		EntityIDs:  ids,
		Details:    details,
	})
}

// notify 在事务提交之后发送通知，失败只记录日志
func (s *Service) notify(ctx context.Context, mailType string, companyID uuid.UUID, as []*domain.ShiftAssignment, employees map[uuid.UUID]*domain.Employee) {
	if len(as) == 0 {
		return
	}

	if employees == nil {
		employees = make(map[uuid.UUID]*domain.Employee)
	}
	missing := make([]uuid.UUID, 0)
	for _, a := range as {
		if _, ok := employees[a.EmployeeID]; !ok {
			missing = append(missing, a.EmployeeID)
		}
	}
	if len(missing) > 0 {
		found, err := s.store.GetEmployees(ctx, uniqueIDs(missing), companyID)
		if err != nil {
			s.logger.Warn("无法获取通知收件人", "type", mailType, "error", err)
			return
		}
		for _, e := range found {
			employees[e.ID] = e
		}
	}

	for _, a := range as {
		e, ok := employees[a.EmployeeID]
		if !ok || e.Email == "" {
			continue
		}
		msg := domain.MailMessage{
			Type: mailType,
			To:   e.Email,
			Data: domain.ShiftMailData{
				FullName:  e.FullName,
				ShiftDate: shifttime.FormatDate(a.ShiftDate),
				StartTime: a.StartTime,
				EndTime:   a.EndTime,
				Notes:     a.Notes,
			},
		}
		if err := s.publisher.Publish(ctx, msg); err != nil {
			s.logger.Warn("无法发送班次通知", "type", mailType, "assignment_id", a.ID, "error", err)
		}
	}
}

func idsOf(as []*domain.ShiftAssignment) []uuid.UUID {
	ids := make([]uuid.UUID, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
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

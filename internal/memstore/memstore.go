// Package memstore 是 engine.Store 的内存实现，带有与数据库相同的唯一约束和重叠排除约束，供测试使用
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/engine"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type state struct {
	assignments  map[uuid.UUID]*domain.ShiftAssignment
	order        []uuid.UUID
	audit        []*domain.AuditEntry
	settings     map[uuid.UUID]domain.CompanySettings
	templates    map[uuid.UUID]*domain.DayTemplate
	employees    map[uuid.UUID]*domain.Employee
	requirements []*domain.ShiftRequirement
}

func (s *state) clone() *state {
	cp := &state{
		assignments:  make(map[uuid.UUID]*domain.ShiftAssignment, len(s.assignments)),
		order:        slices.Clone(s.order),
		audit:        slices.Clone(s.audit),
		settings:     maps.Clone(s.settings),
		templates:    maps.Clone(s.templates),
		employees:    maps.Clone(s.employees),
		requirements: slices.Clone(s.requirements),
	}
	for id, a := range s.assignments {
		c := *a
		cp.assignments[id] = &c
	}
	return cp
}

type Store struct {
	mu    sync.RWMutex
	state *state

	// FailWrites 非空时所有事务内的写操作都返回该错误，用于模拟底层故障
	FailWrites error
	// FailAfterWrites 为正数时，事务内第 N 次写操作之后的写操作返回 FailWrites
	FailAfterWrites int
}

var _ engine.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		state: &state{
			assignments: make(map[uuid.UUID]*domain.ShiftAssignment),
			settings:    make(map[uuid.UUID]domain.CompanySettings),
			templates:   make(map[uuid.UUID]*domain.DayTemplate),
			employees:   make(map[uuid.UUID]*domain.Employee),
		},
	}
}

/**********************************************
 * 测试数据准备
 **********************************************/

func (s *Store) AddEmployee(e *domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.employees[e.ID] = e
}

func (s *Store) AddTemplate(t *domain.DayTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.templates[t.ID] = t
}

func (s *Store) AddRequirement(r *domain.ShiftRequirement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.requirements = append(s.state.requirements, r)
}

func (s *Store) SetSettings(cs domain.CompanySettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.settings[cs.CompanyID] = cs
}

// Put 不经过约束检查直接写入一条班次
func (s *Store) Put(a *domain.ShiftAssignment) *domain.ShiftAssignment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = domain.StatusPending
	}
	a.ShiftDate = shifttime.Date(a.ShiftDate)
	c := *a
	if _, exists := s.state.assignments[a.ID]; !exists {
		s.state.order = append(s.state.order, a.ID)
	}
	s.state.assignments[a.ID] = &c
	return a
}

// Count 返回未删除的班次数量
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.state.assignments {
		if a.DeletedAt == nil {
			n++
		}
	}
	return n
}

func (s *Store) Audit() []*domain.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.audit)
}

// Raw 返回包括已删除记录在内的班次
func (s *Store) Raw(id uuid.UUID) (*domain.ShiftAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.assignments[id]
	if !ok {
		return nil, false
	}
	c := *a
	return &c, true
}

/**********************************************
 * engine.Reader
 **********************************************/

func (s *Store) GetAssignment(_ context.Context, id, companyID uuid.UUID) (*domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.state.assignments[id]
	if !ok || a.DeletedAt != nil || a.CompanyID != companyID {
		return nil, domain.NewResourceNotFound("班次", id)
	}
	c := *a
	return &c, nil
}

func (s *Store) filter(keep func(a *domain.ShiftAssignment) bool) []*domain.ShiftAssignment {
	out := make([]*domain.ShiftAssignment, 0)
	for _, id := range s.state.order {
		a := s.state.assignments[id]
		if a.IsLive() && keep(a) {
			c := *a
			out = append(out, &c)
		}
	}
	return out
}

func (s *Store) GetAssignmentsByEmployeeDate(_ context.Context, employeeID uuid.UUID, date time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	date = shifttime.Date(date)
	return s.filter(func(a *domain.ShiftAssignment) bool {
		return a.EmployeeID == employeeID && a.ShiftDate.Equal(date) && !isExcluded(a, excludeID)
	}), nil
}

func (s *Store) GetAssignmentsByEmployeeWeek(_ context.Context, employeeID uuid.UUID, weekStart, weekEnd time.Time, excludeID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(a *domain.ShiftAssignment) bool {
		return a.EmployeeID == employeeID && inRange(a.ShiftDate, weekStart, weekEnd) && !isExcluded(a, excludeID)
	}), nil
}

func (s *Store) ExistsExactMatch(_ context.Context, employeeID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	date = shifttime.Date(date)
	matches := s.filter(func(a *domain.ShiftAssignment) bool {
		return a.EmployeeID == employeeID && a.ShiftDate.Equal(date) &&
			a.StartTime == start && a.EndTime == end && !isExcluded(a, excludeID)
	})
	return len(matches) > 0, nil
}

func (s *Store) ListAssignmentsInRange(_ context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(a *domain.ShiftAssignment) bool {
		return a.CompanyID == companyID && inRange(a.ShiftDate, start, end) &&
			(locationID == nil || a.LocationID == *locationID)
	}), nil
}

func (s *Store) GetCompanySettings(_ context.Context, companyID uuid.UUID) (*domain.CompanySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs, ok := s.state.settings[companyID]
	if !ok {
		return nil, nil
	}
	return &cs, nil
}

func (s *Store) GetDayTemplateWithShifts(_ context.Context, id, companyID uuid.UUID) (*domain.DayTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.templates[id]
	if !ok || t.CompanyID != companyID {
		return nil, domain.NewResourceNotFound("日模板", id)
	}
	c := *t
	c.Shifts = slices.Clone(t.Shifts)
	slices.SortStableFunc(c.Shifts, func(a, b domain.TemplateShift) int {
		return int(a.SortOrder - b.SortOrder)
	})
	return &c, nil
}

func (s *Store) GetEmployees(_ context.Context, ids []uuid.UUID, companyID uuid.UUID) ([]*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Employee, 0, len(ids))
	for _, id := range ids {
		e, ok := s.state.employees[id]
		if ok && e.CompanyID == companyID && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListRequirements(_ context.Context, companyID uuid.UUID, start, end time.Time, locationID *uuid.UUID) ([]*domain.ShiftRequirement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ShiftRequirement, 0)
	for _, r := range s.state.requirements {
		if r.CompanyID == companyID && inRange(r.Date, start, end) && (locationID == nil || r.LocationID == *locationID) {
			out = append(out, r)
		}
	}
	return out, nil
}

/**********************************************
 * 事务
 **********************************************/

func (s *Store) WithTx(ctx context.Context, fn func(tx engine.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &memTx{store: s, state: s.state.clone(), now: time.Now().UTC()}
	if err := fn(tx); err != nil {
		return err
	}

	s.state = tx.state
	return nil
}

type memTx struct {
	store  *Store
	state  *state
	now    time.Time
	writes int
}

func (t *memTx) write() error {
	t.writes++
	if t.store.FailWrites != nil && t.writes > t.store.FailAfterWrites {
		return t.store.FailWrites
	}
	return nil
}

// checkConstraints 对应数据库中的 shift_assignments_live_identity_key 和 shift_assignments_no_overlap
func (t *memTx) checkConstraints(a *domain.ShiftAssignment) error {
	if !a.IsLive() {
		return nil
	}
	iv, err := shifttime.ParseInterval(a.StartTime, a.EndTime)
	if err != nil {
		return err
	}

	for _, id := range t.state.order {
		other := t.state.assignments[id]
		if other.ID == a.ID || !other.IsLive() || other.EmployeeID != a.EmployeeID || !other.ShiftDate.Equal(a.ShiftDate) {
			continue
		}
		if other.StartTime == a.StartTime && other.EndTime == a.EndTime {
			return domain.NewDuplicateAssignment()
		}
		oiv, err := shifttime.ParseInterval(other.StartTime, other.EndTime)
		if err != nil {
			return err
		}
		if iv.End > iv.Start && oiv.End > oiv.Start && iv.Overlaps(oiv) {
			return domain.NewShiftConflict(other.ID)
		}
	}
	return nil
}

func (t *memTx) insert(a *domain.ShiftAssignment) error {
	if err := t.write(); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.ShiftDate = shifttime.Date(a.ShiftDate)
	if err := t.checkConstraints(a); err != nil {
		return err
	}
	a.CreatedAt = t.now
	a.UpdatedAt = t.now
	c := *a
	t.state.assignments[a.ID] = &c
	t.state.order = append(t.state.order, a.ID)
	return nil
}

func (t *memTx) CreateAssignment(_ context.Context, a *domain.ShiftAssignment) error {
	return t.insert(a)
}

func (t *memTx) CreateMany(_ context.Context, as []*domain.ShiftAssignment) (int, error) {
	for _, a := range as {
		if err := t.insert(a); err != nil {
			return 0, domain.WithCandidate(err, a.Ref())
		}
	}
	return len(as), nil
}

func (t *memTx) UpdateAssignment(_ context.Context, a *domain.ShiftAssignment) error {
	if err := t.write(); err != nil {
		return err
	}
	cur, ok := t.state.assignments[a.ID]
	if !ok || cur.DeletedAt != nil || cur.CompanyID != a.CompanyID {
		return domain.NewResourceNotFound("班次", a.ID)
	}
	a.ShiftDate = shifttime.Date(a.ShiftDate)
	if err := t.checkConstraints(a); err != nil {
		return err
	}
	a.CreatedAt = cur.CreatedAt
	a.UpdatedAt = t.now
	c := *a
	t.state.assignments[a.ID] = &c
	return nil
}

func (t *memTx) ConfirmAssignment(_ context.Context, a *domain.ShiftAssignment) error {
	if err := t.write(); err != nil {
		return err
	}
	cur, ok := t.state.assignments[a.ID]
	if !ok || cur.DeletedAt != nil || cur.CompanyID != a.CompanyID {
		return domain.NewResourceNotFound("班次", a.ID)
	}
	if cur.Status != domain.StatusPending {
		return domain.NewBusinessRuleViolation([]string{"只有待确认的班次才能确认"})
	}
	cur.Status = domain.StatusConfirmed
	cur.ConfirmedBy = a.ConfirmedBy
	cur.ConfirmedAt = a.ConfirmedAt
	cur.UpdatedAt = t.now
	*a = *cur
	return nil
}

func (t *memTx) SoftDeleteAssignments(_ context.Context, ids []uuid.UUID, companyID uuid.UUID, at time.Time) (int, error) {
	if err := t.write(); err != nil {
		return 0, err
	}
	n := 0
	for _, id := range ids {
		cur, ok := t.state.assignments[id]
		if !ok || cur.DeletedAt != nil || cur.CompanyID != companyID {
			continue
		}
		deletedAt := at
		cur.DeletedAt = &deletedAt
		cur.UpdatedAt = t.now
		n++
	}
	return n, nil
}

func (t *memTx) AppendAudit(_ context.Context, entry *domain.AuditEntry) error {
	if err := t.write(); err != nil {
		return err
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = t.now
	c := *entry
	t.state.audit = append(t.state.audit, &c)
	return nil
}

func isExcluded(a *domain.ShiftAssignment, excludeID *uuid.UUID) bool {
	return excludeID != nil && a.ID == *excludeID
}

func inRange(d, start, end time.Time) bool {
	d = shifttime.Date(d)
	return !d.Before(shifttime.Date(start)) && !d.After(shifttime.Date(end))
}

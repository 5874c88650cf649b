package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/memstore"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/notify"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

type fixture struct {
	store     *memstore.Store
	publisher *notify.Memory
	svc       *Service
	actor     Actor

	location uuid.UUID
	position uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	publisher := &notify.Memory{}
	f := &fixture{
		store:     store,
		publisher: publisher,
		svc:       NewService(store, Options{Publisher: publisher}),
		actor:     Actor{CompanyID: uuid.New(), UserID: uuid.New()},
		location:  uuid.New(),
		position:  uuid.New(),
	}
	return f
}

func (f *fixture) employee(name string) uuid.UUID {
	e := &domain.Employee{
		ID:        uuid.New(),
		CompanyID: f.actor.CompanyID,
		FullName:  name,
		Email:     uuid.NewString() + "@example.com",
	}
	f.store.AddEmployee(e)
	return e.ID
}

func (f *fixture) input(employeeID uuid.UUID, day, start, end string) CreateInput {
	return CreateInput{
		EmployeeID:    employeeID,
		LocationID:    f.location,
		JobPositionID: f.position,
		ShiftDate:     date(day),
		StartTime:     start,
		EndTime:       end,
	}
}

func date(s string) time.Time {
	d, err := shifttime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("张三")

	a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, a.ID)
	require.Equal(t, domain.StatusPending, a.Status)
	require.Equal(t, f.actor.UserID, a.AssignedBy)

	_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.Equal(t, domain.KindDuplicateAssignment, domain.KindOf(err))

	in := f.input(e, "2025-08-15", "09:00", "17:00")
	in.Notes = "备注不同"
	_, err = f.svc.Create(ctx, f.actor, in)
	require.Equal(t, domain.KindDuplicateAssignment, domain.KindOf(err))

	require.Equal(t, 1, f.store.Count())

	audit := f.store.Audit()
	require.Len(t, audit, 1)
	require.Equal(t, domain.AuditCreate, audit[0].Action)
	require.Equal(t, []uuid.UUID{a.ID}, audit[0].EntityIDs)
	require.Equal(t, f.actor.UserID, audit[0].ActorID)

	msgs := f.publisher.Messages()
	require.Len(t, msgs, 1)
	require.Equal(t, domain.MailShiftAssigned, msgs[0].Type)
}

func TestService_SoftDeleteFreesIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("李四")

	first, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, f.actor, first.ID))

	deleted, ok := f.store.Raw(first.ID)
	require.True(t, ok)
	require.NotNil(t, deleted.DeletedAt)

	_, err = f.svc.Get(ctx, f.actor, first.ID)
	require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))

	second, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	actions := make([]domain.AuditAction, 0)
	for _, entry := range f.store.Audit() {
		actions = append(actions, entry.Action)
	}
	require.Equal(t, []domain.AuditAction{domain.AuditCreate, domain.AuditDelete, domain.AuditCreate}, actions)
}

func TestService_CreateValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("conflict carries the existing id", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("王五")
		existing, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "16:00", "18:00"))

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindShiftConflict, de.Kind)
		require.Equal(t, existing.ID, de.ConflictingAssignmentID)
		require.Equal(t, 1, f.store.Count())
	})

	t.Run("back to back shifts are not conflicts", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetSettings(domain.CompanySettings{CompanyID: f.actor.CompanyID, MaxDailyHours: 12, MaxWeeklyHours: 40, MinBreakHours: 0})
		e := f.employee("王五")

		_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "13:00"))
		require.NoError(t, err)
		_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "13:00", "17:00"))
		require.NoError(t, err)
	})

	t.Run("zero length shift inside an existing one is not a conflict", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("钱九")
		_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "12:00", "12:00"))
		require.NoError(t, err)
		require.Equal(t, 2, f.store.Count())
	})

	t.Run("rule violations are all reported", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("赵六")
		_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "06:00", "14:00"))
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "15:00", "20:00"))

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindBusinessRuleViolation, de.Kind)
		require.Len(t, de.Violations, 2)
		require.Equal(t, 1, f.store.Count())
	})

	t.Run("malformed time", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("孙七")

		_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "24:00", "25:00"))

		require.Equal(t, domain.KindInvalidTimeFormat, domain.KindOf(err))
	})

	t.Run("unknown employee", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Create(ctx, f.actor, f.input(uuid.New(), "2025-08-15", "09:00", "17:00"))

		require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	})

	t.Run("employee of another company", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("周八")
		other := Actor{CompanyID: uuid.New(), UserID: uuid.New()}

		_, err := f.svc.Create(ctx, other, f.input(e, "2025-08-15", "09:00", "17:00"))

		require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
		require.Equal(t, 0, f.store.Count())
	})
}

func TestService_TransactionFailure(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("吴九")

	diskFull := errors.New("disk full")
	f.store.FailWrites = diskFull
	f.store.FailAfterWrites = 1 // 班次写入成功，审计写入失败

	_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))

	de, ok := domain.AsError(err)
	require.True(t, ok)
	require.Equal(t, domain.KindTransactionFailed, de.Kind)
	require.Equal(t, "create", de.Op)
	require.ErrorIs(t, err, diskFull)

	require.Equal(t, 0, f.store.Count())
	require.Empty(t, f.store.Audit())
	require.Empty(t, f.publisher.Messages())
}

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.publisher.Err = errors.New("broker unavailable")
	e := f.employee("郑十")

	_, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))

	require.NoError(t, err)
	require.Equal(t, 1, f.store.Count())
}

func TestService_CreateFromTemplate(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, *domain.DayTemplate, []uuid.UUID) {
		f := newFixture(t)
		tmpl := &domain.DayTemplate{
			ID:         uuid.New(),
			CompanyID:  f.actor.CompanyID,
			LocationID: f.location,
			Name:       "早晚班",
			Shifts: []domain.TemplateShift{
				{ID: uuid.New(), StartTime: "06:00", EndTime: "10:00", SortOrder: 0},
				{ID: uuid.New(), StartTime: "14:00", EndTime: "18:00", SortOrder: 1},
			},
		}
		f.store.AddTemplate(tmpl)
		return f, tmpl, []uuid.UUID{f.employee("张一"), f.employee("张二"), f.employee("张三")}
	}

	t.Run("writes every generated shift in one transaction", func(t *testing.T) {
		f, tmpl, employees := setup(t)

		created, err := f.svc.CreateFromTemplate(ctx, f.actor, TemplateInput{
			DayTemplateID: tmpl.ID,
			EmployeeIDs:   employees,
			StartDate:     date("2025-08-15"),
			EndDate:       date("2025-08-16"),
			JobPositionID: f.position,
		})

		require.NoError(t, err)
		require.Len(t, created, 12)
		require.Equal(t, 12, f.store.Count())

		for _, a := range created {
			require.Equal(t, f.location, a.LocationID)
			require.Contains(t, []string{"06:00", "14:00"}, a.StartTime)
		}

		audit := f.store.Audit()
		require.Len(t, audit, 1)
		require.Equal(t, domain.AuditBulkCreate, audit[0].Action)
		require.Len(t, audit[0].EntityIDs, 12)
		require.Len(t, f.publisher.Messages(), 12)
	})

	t.Run("one conflict aborts the whole batch", func(t *testing.T) {
		f, tmpl, employees := setup(t)
		existing, err := f.svc.Create(ctx, f.actor, f.input(employees[2], "2025-08-16", "15:00", "16:00"))
		require.NoError(t, err)

		_, err = f.svc.CreateFromTemplate(ctx, f.actor, TemplateInput{
			DayTemplateID: tmpl.ID,
			EmployeeIDs:   employees,
			StartDate:     date("2025-08-15"),
			EndDate:       date("2025-08-16"),
			JobPositionID: f.position,
		})

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindShiftConflict, de.Kind)
		require.Equal(t, existing.ID, de.ConflictingAssignmentID)
		require.NotNil(t, de.Candidate)
		require.Equal(t, employees[2], de.Candidate.EmployeeID)
		require.Equal(t, date("2025-08-16"), de.Candidate.ShiftDate)
		require.Equal(t, "14:00", de.Candidate.StartTime)

		require.Equal(t, 1, f.store.Count())
		require.Len(t, f.store.Audit(), 1)
	})

	t.Run("unknown template", func(t *testing.T) {
		f, _, employees := setup(t)

		_, err := f.svc.CreateFromTemplate(ctx, f.actor, TemplateInput{
			DayTemplateID: uuid.New(),
			EmployeeIDs:   employees,
			StartDate:     date("2025-08-15"),
			EndDate:       date("2025-08-16"),
		})

		require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	})

	t.Run("foreign employee", func(t *testing.T) {
		f, tmpl, employees := setup(t)

		_, err := f.svc.CreateFromTemplate(ctx, f.actor, TemplateInput{
			DayTemplateID: tmpl.ID,
			EmployeeIDs:   append(employees, uuid.New()),
			StartDate:     date("2025-08-15"),
			EndDate:       date("2025-08-16"),
		})

		require.Equal(t, domain.KindUnauthorizedCrossTenant, domain.KindOf(err))
		require.Equal(t, 0, f.store.Count())
	})
}

func TestService_BulkCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("overlap inside the batch is rejected by the store", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("钱一")

		_, err := f.svc.BulkCreate(ctx, f.actor, []CreateInput{
			f.input(e, "2025-08-15", "09:00", "12:00"),
			f.input(e, "2025-08-15", "11:00", "13:00"),
		})

		require.Equal(t, domain.KindShiftConflict, domain.KindOf(err))
		require.Equal(t, 0, f.store.Count())
		require.Empty(t, f.store.Audit())
	})

	t.Run("identical entries inside the batch are duplicates", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("钱二")

		_, err := f.svc.BulkCreate(ctx, f.actor, []CreateInput{
			f.input(e, "2025-08-15", "09:00", "12:00"),
			f.input(e, "2025-08-15", "09:00", "12:00"),
		})

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindDuplicateAssignment, de.Kind)
		require.NotNil(t, de.Candidate)
		require.Equal(t, 0, f.store.Count())
	})

	t.Run("malformed entry identifies the candidate", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("钱三")

		_, err := f.svc.BulkCreate(ctx, f.actor, []CreateInput{
			f.input(e, "2025-08-15", "09:00", "12:00"),
			f.input(e, "2025-08-16", "9:00", "12:00"),
		})

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindInvalidTimeFormat, de.Kind)
		require.Equal(t, date("2025-08-16"), de.Candidate.ShiftDate)
	})

	t.Run("writes all entries with one audit record", func(t *testing.T) {
		f := newFixture(t)
		e1, e2 := f.employee("钱四"), f.employee("钱五")

		created, err := f.svc.BulkCreate(ctx, f.actor, []CreateInput{
			f.input(e1, "2025-08-15", "09:00", "17:00"),
			f.input(e2, "2025-08-15", "09:00", "17:00"),
		})

		require.NoError(t, err)
		require.Len(t, created, 2)
		require.Equal(t, 2, f.store.Count())
		require.Len(t, f.store.Audit(), 1)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("moving onto another shift conflicts", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("陈一")
		other, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "12:00"))
		require.NoError(t, err)
		a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-16", "09:00", "12:00"))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.actor, UpdateInput{ID: a.ID, ShiftDate: ptr(date("2025-08-15")), StartTime: ptr("11:00"), EndTime: ptr("13:00")})

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindShiftConflict, de.Kind)
		require.Equal(t, other.ID, de.ConflictingAssignmentID)

		stored, err := f.svc.Get(ctx, f.actor, a.ID)
		require.NoError(t, err)
		require.Equal(t, "09:00", stored.StartTime)
	})

	t.Run("resizing a shift excludes itself", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("陈二")
		a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, f.actor, UpdateInput{ID: a.ID, StartTime: ptr("08:00"), Notes: ptr("提前一小时")})

		require.NoError(t, err)
		require.Equal(t, "08:00", updated.StartTime)
		require.Equal(t, "提前一小时", updated.Notes)

		audit := f.store.Audit()
		require.Equal(t, domain.AuditUpdate, audit[len(audit)-1].Action)
		require.Contains(t, audit[len(audit)-1].Details, "startTime")
	})

	t.Run("confirming through update is rejected", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("陈三")
		a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.actor, UpdateInput{ID: a.ID, Status: ptr(domain.StatusConfirmed)})

		require.Equal(t, domain.KindBusinessRuleViolation, domain.KindOf(err))
	})

	t.Run("cancelling frees the identity and notifies", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("陈四")
		a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		cancelled, err := f.svc.Update(ctx, f.actor, UpdateInput{ID: a.ID, Status: ptr(domain.StatusCancelled)})
		require.NoError(t, err)
		require.Equal(t, domain.StatusCancelled, cancelled.Status)

		msgs := f.publisher.Messages()
		require.Equal(t, domain.MailShiftCancelled, msgs[len(msgs)-1].Type)

		_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Update(ctx, f.actor, UpdateInput{ID: uuid.New(), Notes: ptr("x")})

		require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	})

	t.Run("reassigning to another company's employee", func(t *testing.T) {
		f := newFixture(t)
		e := f.employee("陈五")
		a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
		require.NoError(t, err)

		_, err = f.svc.Update(ctx, f.actor, UpdateInput{ID: a.ID, EmployeeID: ptr(uuid.New())})

		require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	})
}

func TestService_BulkUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("林一")

	a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-14", "09:00", "12:00"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "12:00"))
	require.NoError(t, err)
	c, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-16", "09:00", "12:00"))
	require.NoError(t, err)

	t.Run("a failing entry aborts the batch", func(t *testing.T) {
		_, err := f.svc.BulkUpdate(ctx, f.actor, []UpdateInput{
			{ID: a.ID, Notes: ptr("已调整")},
			{ID: b.ID, ShiftDate: ptr(date("2025-08-16"))},
		})

		de, ok := domain.AsError(err)
		require.True(t, ok)
		require.Equal(t, domain.KindDuplicateAssignment, de.Kind)

		stored, err := f.svc.Get(ctx, f.actor, a.ID)
		require.NoError(t, err)
		require.Empty(t, stored.Notes)
	})

	t.Run("applies every entry", func(t *testing.T) {
		updated, err := f.svc.BulkUpdate(ctx, f.actor, []UpdateInput{
			{ID: a.ID, Notes: ptr("已调整")},
			{ID: c.ID, StartTime: ptr("10:00")},
		})

		require.NoError(t, err)
		require.Len(t, updated, 2)

		stored, err := f.svc.Get(ctx, f.actor, c.ID)
		require.NoError(t, err)
		require.Equal(t, "10:00", stored.StartTime)
	})

	t.Run("repeated id is rejected", func(t *testing.T) {
		_, err := f.svc.BulkUpdate(ctx, f.actor, []UpdateInput{
			{ID: a.ID, Notes: ptr("1")},
			{ID: a.ID, Notes: ptr("2")},
		})

		require.Equal(t, domain.KindBusinessRuleViolation, domain.KindOf(err))
	})
}

func TestService_Confirm(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("黄一")
	a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, f.actor, a.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ConfirmedBy)
	require.Equal(t, f.actor.UserID, *confirmed.ConfirmedBy)
	require.NotNil(t, confirmed.ConfirmedAt)

	_, err = f.svc.Confirm(ctx, f.actor, a.ID)
	require.Equal(t, domain.KindBusinessRuleViolation, domain.KindOf(err))

	msgs := f.publisher.Messages()
	require.Equal(t, domain.MailShiftConfirmed, msgs[len(msgs)-1].Type)

	// 已确认的班次仍然参与冲突检查
	_, err = f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "10:00", "11:00"))
	require.Equal(t, domain.KindShiftConflict, domain.KindOf(err))
}

func TestService_BulkDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("何一")

	a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-14", "09:00", "12:00"))
	require.NoError(t, err)
	b, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "12:00"))
	require.NoError(t, err)

	_, err = f.svc.BulkDelete(ctx, f.actor, []uuid.UUID{a.ID, uuid.New()})
	require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	require.Equal(t, 2, f.store.Count())

	n, err := f.svc.BulkDelete(ctx, f.actor, []uuid.UUID{a.ID, b.ID, a.ID})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 0, f.store.Count())

	audit := f.store.Audit()
	require.Equal(t, domain.AuditBulkDelete, audit[len(audit)-1].Action)
	require.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, audit[len(audit)-1].EntityIDs)
}

func TestService_CrossTenantAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.employee("罗一")
	a, err := f.svc.Create(ctx, f.actor, f.input(e, "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)

	intruder := Actor{CompanyID: uuid.New(), UserID: uuid.New()}

	_, err = f.svc.Get(ctx, intruder, a.ID)
	require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))

	_, err = f.svc.Confirm(ctx, intruder, a.ID)
	require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))

	err = f.svc.Delete(ctx, intruder, a.ID)
	require.Equal(t, domain.KindResourceNotFound, domain.KindOf(err))
	require.Equal(t, 1, f.store.Count())
}

func TestService_Coverage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.store.AddRequirement(&domain.ShiftRequirement{
		ID:         uuid.New(),
		CompanyID:  f.actor.CompanyID,
		LocationID: f.location,
		Date:       date("2025-08-15"),
		Items:      []domain.ShiftRequirementItem{{JobPositionID: f.position, RequiredCount: 3}},
	})
	f.store.AddRequirement(&domain.ShiftRequirement{
		ID:         uuid.New(),
		CompanyID:  f.actor.CompanyID,
		LocationID: f.location,
		Date:       date("2025-08-16"),
		Items:      []domain.ShiftRequirementItem{{JobPositionID: f.position, RequiredCount: 1}},
	})

	_, err := f.svc.Create(ctx, f.actor, f.input(f.employee("冯一"), "2025-08-15", "09:00", "17:00"))
	require.NoError(t, err)

	entries, err := f.svc.Coverage(ctx, f.actor, date("2025-08-15"), date("2025-08-16"), nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, date("2025-08-15"), entries[0].Date)
	require.Equal(t, 3, entries[0].Required)
	require.Equal(t, 1, entries[0].Assigned)
	require.Equal(t, 2, entries[0].Shortfall)

	require.Equal(t, 0, entries[1].Assigned)
	require.Equal(t, 1, entries[1].Shortfall)
}

package engine_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/memstore"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

var (
	companyID  = uuid.MustParse("00000000-0000-0000-0000-0000000000c1")
	locationID = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	positionID = uuid.MustParse("00000000-0000-0000-0000-0000000000b1")
)

func date(s string) time.Time {
	d, err := shifttime.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func settings() domain.CompanySettings {
	return domain.DefaultCompanySettings(companyID)
}

func putShift(store *memstore.Store, employeeID uuid.UUID, day, start, end string) *domain.ShiftAssignment {
	return store.Put(&domain.ShiftAssignment{
		CompanyID:     companyID,
		EmployeeID:    employeeID,
		LocationID:    locationID,
		JobPositionID: positionID,
		ShiftDate:     date(day),
		StartTime:     start,
		EndTime:       end,
		Status:        domain.StatusPending,
	})
}

func addEmployee(store *memstore.Store, company uuid.UUID) uuid.UUID {
	e := &domain.Employee{ID: uuid.New(), CompanyID: company, FullName: "测试员工"}
	store.AddEmployee(e)
	return e.ID
}

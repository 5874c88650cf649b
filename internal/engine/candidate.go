package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/sysu-ecnc-dev/rostering/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rostering/backend/internal/shifttime"
)

// Candidate 是待校验的班次
type Candidate struct {
	EmployeeID uuid.UUID
	Date       time.Time
	StartTime  string
	EndTime    string
	ExcludeID  *uuid.UUID
}

func CandidateOf(a *domain.ShiftAssignment) Candidate {
	c := Candidate{
		EmployeeID: a.EmployeeID,
		Date:       a.ShiftDate,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
	}
	if a.ID != uuid.Nil {
		id := a.ID
		c.ExcludeID = &id
	}
	return c
}

func (c Candidate) Interval() (shifttime.Interval, error) {
	return shifttime.ParseInterval(c.StartTime, c.EndTime)
}

func (c Candidate) Ref() *domain.CandidateRef {
	return &domain.CandidateRef{
		EmployeeID: c.EmployeeID,
		ShiftDate:  c.Date,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
	}
}

func intervalOf(a *domain.ShiftAssignment) (shifttime.Interval, error) {
	return shifttime.ParseInterval(a.StartTime, a.EndTime)
}

func excluded(a *domain.ShiftAssignment, excludeID *uuid.UUID) bool {
	return excludeID != nil && a.ID == *excludeID
}

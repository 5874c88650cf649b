package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusConfirmed AssignmentStatus = "confirmed"
	StatusCancelled AssignmentStatus = "cancelled"
)

// ShiftAssignment 表示某个员工在某一天的一个班次，时间区间为左闭右开 [StartTime, EndTime)
type ShiftAssignment struct {
	ID              uuid.UUID        `json:"id"`
	CompanyID       uuid.UUID        `json:"companyID"`
	EmployeeID      uuid.UUID        `json:"employeeID"`
	LocationID      uuid.UUID        `json:"locationID"`
	JobPositionID   uuid.UUID        `json:"jobPositionID"`
	TemplateShiftID *uuid.UUID       `json:"templateShiftID"`
	ShiftDate       time.Time        `json:"shiftDate"`
	StartTime       string           `json:"startTime"` // HH:mm
	EndTime         string           `json:"endTime"`   // HH:mm
	Status          AssignmentStatus `json:"status"`
	Notes           string           `json:"notes"`
	AssignedBy      uuid.UUID        `json:"assignedBy"`
	ConfirmedBy     *uuid.UUID       `json:"confirmedBy"`
	ConfirmedAt     *time.Time       `json:"confirmedAt"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
	DeletedAt       *time.Time       `json:"-"`
}

// IsLive 报告该记录是否参与冲突、规则和重复检查
func (a *ShiftAssignment) IsLive() bool {
	return a.DeletedAt == nil && a.Status != StatusCancelled
}

// CandidateRef 定位批量操作中出错的候选班次
type CandidateRef struct {
	EmployeeID uuid.UUID `json:"employeeID"`
	ShiftDate  time.Time `json:"shiftDate"`
	StartTime  string    `json:"startTime"`
	EndTime    string    `json:"endTime"`
}

func (a *ShiftAssignment) Ref() *CandidateRef {
	return &CandidateRef{
		EmployeeID: a.EmployeeID,
		ShiftDate:  a.ShiftDate,
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
	}
}

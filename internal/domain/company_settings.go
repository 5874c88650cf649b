package domain

import "github.com/google/uuid"

const (
	DefaultMaxDailyHours  = 12.0
	DefaultMaxWeeklyHours = 40.0
	DefaultMinBreakHours  = 11.0
)

type CompanySettings struct {
	CompanyID      uuid.UUID `json:"companyID"`
	MaxDailyHours  float64   `json:"maxDailyHours"`
	MaxWeeklyHours float64   `json:"maxWeeklyHours"`
	MinBreakHours  float64   `json:"minBreakHours"`
}

func DefaultCompanySettings(companyID uuid.UUID) CompanySettings {
	return CompanySettings{
		CompanyID:      companyID,
		MaxDailyHours:  DefaultMaxDailyHours,
		MaxWeeklyHours: DefaultMaxWeeklyHours,
		MinBreakHours:  DefaultMinBreakHours,
	}
}

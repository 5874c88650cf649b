package domain

import (
	"time"

	"github.com/google/uuid"
)

type TemplateShift struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	SortOrder int32     `json:"sortOrder"`
}

type DayTemplate struct {
	ID         uuid.UUID       `json:"id"`
	CompanyID  uuid.UUID       `json:"companyID"`
	LocationID uuid.UUID       `json:"locationID"`
	Name       string          `json:"name"`
	Shifts     []TemplateShift `json:"shifts"` // 按 SortOrder 升序
	CreatedAt  time.Time       `json:"createdAt"`
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type ShiftRequirementItem struct {
	JobPositionID uuid.UUID `json:"jobPositionID"`
	RequiredCount int32     `json:"requiredCount"`
}

type ShiftRequirement struct {
	ID         uuid.UUID              `json:"id"`
	CompanyID  uuid.UUID              `json:"companyID"`
	LocationID uuid.UUID              `json:"locationID"`
	Date       time.Time              `json:"date"`
	Items      []ShiftRequirementItem `json:"items"`
}

type CoverageEntry struct {
	Date          time.Time `json:"date"`
	JobPositionID uuid.UUID `json:"jobPositionID"`
	LocationID    uuid.UUID `json:"locationID"`
	Required      int       `json:"required"`
	Assigned      int       `json:"assigned"`
	Shortfall     int       `json:"shortfall"`
}

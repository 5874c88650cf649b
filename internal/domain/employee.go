package domain

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID  `json:"id"`
	CompanyID uuid.UUID  `json:"companyID"`
	Code      string     `json:"code"`
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"-"`
}

type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Location struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"companyID"`
	Name      string    `json:"name"`
}

type JobPosition struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"companyID"`
	Name      string    `json:"name"`
}
